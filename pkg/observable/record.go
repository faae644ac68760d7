package observable

import (
	"sync"
)

// WatchFunc receives the record contents after and before a mutation.
type WatchFunc func(newSnap, oldSnap Snapshot)

// KeyFunc receives the new and previous value of a single key.
type KeyFunc func(newValue, oldValue any)

type keySubscriber struct {
	id int
	fn KeyFunc
}

type watcher struct {
	id int
	fn WatchFunc
}

type notification struct {
	key      string
	newValue any
	oldValue any
	newSnap  Snapshot
	oldSnap  Snapshot
}

// Record is a string-keyed value container that notifies subscribers
// synchronously whenever a key changes. Subscribers run in registration order.
// Writes performed while a notification is being dispatched are queued and
// delivered once the current one completes, so every subscriber observes the
// changes in the order they were made.
type Record struct {
	mu          sync.Mutex
	keys        []string
	values      map[string]any
	keySubs     map[string][]keySubscriber
	watchers    []watcher
	nextID      int
	dispatching bool
	pending     []notification
}

// New constructs a record seeded with a copy of initial. Key order follows
// keys when supplied, otherwise the record sorts the initial keys.
func New(initial map[string]any, keys ...string) *Record {
	r := &Record{
		values:  make(map[string]any, len(initial)),
		keySubs: make(map[string][]keySubscriber),
	}
	for _, key := range orderedKeys(initial, keys) {
		r.keys = append(r.keys, key)
		r.values[key] = initial[key]
	}
	return r
}

// Get returns the value stored at key.
func (r *Record) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	value, ok := r.values[key]
	return value, ok
}

// Keys returns the record keys in insertion order.
func (r *Record) Keys() []string {
	if r == nil {
		return nil
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.keys...)
}

// Snapshot returns an immutable copy of the current contents.
func (r *Record) Snapshot() Snapshot {
	if r == nil {
		return Snapshot{}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Set stores value at key. Subscribers are notified only when the value
// differs from the stored one according to Equal. It reports whether the
// record changed.
func (r *Record) Set(key string, value any) bool {
	if r == nil {
		return false
	}
	r.mu.Lock()
	old, exists := r.values[key]
	if exists && Equal(old, value) {
		r.mu.Unlock()
		return false
	}
	oldSnap := r.snapshotLocked()
	if !exists {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
	n := notification{
		key:      key,
		newValue: value,
		oldValue: old,
		newSnap:  r.snapshotLocked(),
		oldSnap:  oldSnap,
	}
	r.pending = append(r.pending, n)
	if r.dispatching {
		r.mu.Unlock()
		return true
	}
	r.dispatching = true
	r.mu.Unlock()

	r.drain()
	return true
}

// Assign applies every entry of values in key order (sorted when the map is
// the only source of order). It returns the keys that changed.
func (r *Record) Assign(values map[string]any) []string {
	var changed []string
	for _, key := range orderedKeys(values, nil) {
		if r.Set(key, values[key]) {
			changed = append(changed, key)
		}
	}
	return changed
}

// Subscribe registers fn for changes to key. The returned func removes the
// subscription.
func (r *Record) Subscribe(key string, fn KeyFunc) func() {
	if r == nil || fn == nil {
		return func() {}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.keySubs[key] = append(r.keySubs[key], keySubscriber{id: id, fn: fn})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		subs := r.keySubs[key]
		for i, sub := range subs {
			if sub.id == id {
				r.keySubs[key] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}

// Watch registers fn for every change to the record.
func (r *Record) Watch(fn WatchFunc) func() {
	if r == nil || fn == nil {
		return func() {}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	id := r.nextID
	r.watchers = append(r.watchers, watcher{id: id, fn: fn})
	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		for i, w := range r.watchers {
			if w.id == id {
				r.watchers = append(r.watchers[:i:i], r.watchers[i+1:]...)
				return
			}
		}
	}
}

// drain delivers queued notifications until none remain. A panicking
// subscriber does not discard the rest of the queue: the remaining
// notifications are delivered before the panic is re-raised.
func (r *Record) drain() {
	for {
		n, subs, watchers, ok := r.next()
		if !ok {
			return
		}
		r.deliver(n, subs, watchers)
	}
}

// next pops the head of the queue. It clears the dispatching flag once the
// queue is empty.
func (r *Record) next() (notification, []keySubscriber, []watcher, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pending) == 0 {
		r.pending = nil
		r.dispatching = false
		return notification{}, nil, nil, false
	}
	n := r.pending[0]
	r.pending = r.pending[1:]
	subs := append([]keySubscriber(nil), r.keySubs[n.key]...)
	watchers := append([]watcher(nil), r.watchers...)
	return n, subs, watchers, true
}

func (r *Record) deliver(n notification, subs []keySubscriber, watchers []watcher) {
	defer func() {
		if p := recover(); p != nil {
			r.drain()
			panic(p)
		}
	}()
	for _, sub := range subs {
		sub.fn(n.newValue, n.oldValue)
	}
	for _, w := range watchers {
		w.fn(n.newSnap, n.oldSnap)
	}
}

func (r *Record) snapshotLocked() Snapshot {
	values := make(map[string]any, len(r.values))
	for k, v := range r.values {
		values[k] = v
	}
	return Snapshot{keys: append([]string(nil), r.keys...), values: values}
}
