package presenter

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-formpresenter/pkg/field"
	"github.com/goliatone/go-formpresenter/pkg/observable"
)

// SubmitEvent describes one submit attempt.
type SubmitEvent struct {
	ID          string         `json:"id"`
	Values      map[string]any `json:"values"`
	SubmittedAt time.Time      `json:"submittedAt"`
}

// NewSubmitEvent stamps values with a fresh id and the current time.
func NewSubmitEvent(values map[string]any) SubmitEvent {
	return SubmitEvent{
		ID:          uuid.New().String(),
		Values:      values,
		SubmittedAt: time.Now().UTC(),
	}
}

// Form is a built, live form. It observes its model and dispatches triggers
// until Close is called.
type Form struct {
	registry map[string]*field.Field
	order    []string
	model    *observable.Record
	triggers map[string][]TriggerFunc
	rules    []Rule
	submit   SubmitFunc
	logger   Logger
	rc       *FormRemoteControl

	previous map[string]any
	stop     func()

	mu          sync.RWMutex
	loading     bool
	formVisible bool
}

func (f *Form) register(fd *field.Field) {
	name := fd.Name()
	if _, exists := f.registry[name]; !exists {
		f.order = append(f.order, name)
	}
	f.registry[name] = fd
}

func (f *Form) lookup(name string) (*field.Field, bool) {
	fd, ok := f.registry[name]
	return fd, ok
}

// applyInitialRules evaluates every rule whose related key is already present
// in the model, so the first render reflects the bound values. Rules on keys
// the model does not hold yet leave the declared visibility untouched.
func (f *Form) applyInitialRules(rules []Rule) {
	for _, rule := range rules {
		value, ok := f.model.Get(rule.Relate)
		if !ok {
			continue
		}
		rule.apply(value, nil, f.rc)
	}
}

func (f *Form) observe() {
	f.previous = f.model.Snapshot().Map()
	f.stop = f.model.Watch(f.dispatch)
}

// dispatch fires the triggers of every key whose value differs from the
// tracked previous state, then advances that state. The state advances even
// when a trigger panics, so the failed change is not replayed on the next
// write.
func (f *Form) dispatch(newSnap, _ observable.Snapshot) {
	defer func() { f.previous = newSnap.Map() }()
	for _, key := range newSnap.Keys() {
		value, _ := newSnap.Get(key)
		prev := f.previous[key]
		if observable.Equal(value, prev) {
			continue
		}
		for _, trigger := range f.triggers[key] {
			trigger(value, prev, f.rc)
		}
	}
}

// Close stops observing the model. Fields keep their last state.
func (f *Form) Close() {
	if f.stop != nil {
		f.stop()
		f.stop = nil
	}
}

// FireSubmit raises the loading flag and hands the event to the submit
// callback. The flag stays raised until the callback (or anyone holding the
// remote control) calls OffImgLoader. Without a callback it is a no-op apart
// from the flag.
func (f *Form) FireSubmit(event SubmitEvent) error {
	f.setLoading(true)
	if f.submit == nil {
		return nil
	}
	return f.submit(event, f.rc)
}

// SubmitEvent builds an event from the model values of the visible,
// non-button fields.
func (f *Form) SubmitEvent() SubmitEvent {
	snap := f.model.Snapshot()
	values := make(map[string]any)
	for _, fd := range f.Fields() {
		if fd.IsBtnSubmit() || !fd.IsVisible() {
			continue
		}
		if value, ok := snap.Get(fd.Name()); ok {
			values[fd.Name()] = value
		}
	}
	return NewSubmitEvent(values)
}

// EntryFields returns the registry keyed by field name.
func (f *Form) EntryFields() map[string]*field.Field {
	out := make(map[string]*field.Field, len(f.registry))
	for k, v := range f.registry {
		out[k] = v
	}
	return out
}

// Fields returns the registered fields in declaration order.
func (f *Form) Fields() []*field.Field {
	out := make([]*field.Field, 0, len(f.order))
	for _, name := range f.order {
		out = append(out, f.registry[name])
	}
	return out
}

// Field returns the named field.
func (f *Form) Field(name string) (*field.Field, bool) {
	return f.lookup(name)
}

// Rules returns the compiled visibility rules.
func (f *Form) Rules() []Rule {
	return append([]Rule(nil), f.rules...)
}

// Model returns the bound model.
func (f *Form) Model() *observable.Record { return f.model }

// RemoteControl returns the handle passed to callbacks.
func (f *Form) RemoteControl() *FormRemoteControl { return f.rc }

func (f *Form) IsLoading() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loading
}

func (f *Form) IsFormVisible() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.formVisible
}

func (f *Form) setLoading(v bool) {
	f.mu.Lock()
	f.loading = v
	f.mu.Unlock()
}

func (f *Form) setFormVisible(v bool) {
	f.mu.Lock()
	f.formVisible = v
	f.mu.Unlock()
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
