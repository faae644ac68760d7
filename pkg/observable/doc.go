// Package observable provides the reactive record the form presenter binds to.
//
// A Record stores a flat set of string keys and dispatches synchronous change
// notifications to per-key subscribers and whole-record watchers:
//
//	model := observable.New(map[string]any{"type": "card"})
//	model.Subscribe("type", func(newValue, oldValue any) {
//		fmt.Println(oldValue, "->", newValue)
//	})
//	model.Set("type", "sbp") // prints "card -> sbp"
//
// Writes that do not change the stored value (see Equal) are ignored.
package observable
