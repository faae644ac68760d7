package testsupport

import (
	"sync"

	"github.com/goliatone/go-formpresenter/pkg/presenter"
	"github.com/goliatone/go-formpresenter/pkg/visibility"
)

// Recorder is an order-recording double for triggers, match functions and
// settings watchers.
type Recorder struct {
	mu    sync.Mutex
	calls []string
}

// Record appends name to the call log.
func (r *Recorder) Record(name string) {
	r.mu.Lock()
	r.calls = append(r.calls, name)
	r.mu.Unlock()
}

// Calls returns a copy of the call log.
func (r *Recorder) Calls() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.calls...)
}

// Reset clears the call log.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

// Trigger returns a trigger that records name.
func (r *Recorder) Trigger(name string) presenter.TriggerFunc {
	return func(any, any, *presenter.FormRemoteControl) {
		r.Record(name)
	}
}

// Match returns a match function that records name and matches when the new
// value loosely equals want.
func (r *Recorder) Match(name string, want any) presenter.MatchFunc {
	return func(newValue, _ any, _ *presenter.FormRemoteControl) bool {
		r.Record(name)
		return visibility.LooseEqual(newValue, want)
	}
}

// SettingsWatcher returns a settings watcher that records name:property.
func (r *Recorder) SettingsWatcher(name string) presenter.SettingsWatcherFunc {
	return func(_, _ any, property string, _ *presenter.FormRemoteControl) {
		r.Record(name + ":" + property)
	}
}
