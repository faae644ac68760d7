package observable

import (
	"reflect"
	"sort"
)

// Snapshot is a point-in-time copy of a Record. The zero value is empty.
type Snapshot struct {
	keys   []string
	values map[string]any
}

// Get returns the value stored at key.
func (s Snapshot) Get(key string) (any, bool) {
	value, ok := s.values[key]
	return value, ok
}

// Keys returns the snapshot keys in record order.
func (s Snapshot) Keys() []string {
	return append([]string(nil), s.keys...)
}

// Len reports the number of keys.
func (s Snapshot) Len() int {
	return len(s.keys)
}

// Map returns a shallow copy of the snapshot values.
func (s Snapshot) Map() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Equal compares two values the way the record decides whether a write is a
// change: comparable values use ==, maps/slices/funcs compare by identity.
// Values are never compared deeply.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch va.Kind() {
	case reflect.Map, reflect.Func:
		return va.Pointer() == vb.Pointer()
	case reflect.Slice:
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	default:
		return false
	}
}

func orderedKeys(values map[string]any, preferred []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, key := range preferred {
		if _, ok := values[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	var rest []string
	for key := range values {
		if _, ok := seen[key]; !ok {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}
