package observable

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRecord_SetNotifiesKeySubscribersInOrder(t *testing.T) {
	rec := New(map[string]any{"a": 1})

	var calls []string
	rec.Subscribe("a", func(newValue, oldValue any) {
		calls = append(calls, "first")
		if newValue != 2 || oldValue != 1 {
			t.Fatalf("unexpected values new=%v old=%v", newValue, oldValue)
		}
	})
	rec.Subscribe("a", func(newValue, oldValue any) {
		calls = append(calls, "second")
	})
	rec.Subscribe("b", func(newValue, oldValue any) {
		calls = append(calls, "other key")
	})

	if !rec.Set("a", 2) {
		t.Fatalf("expected change to be reported")
	}
	if diff := cmp.Diff([]string{"first", "second"}, calls); diff != "" {
		t.Fatalf("dispatch order mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_SetSameValueIsNoop(t *testing.T) {
	rec := New(map[string]any{"a": "x"})
	fired := false
	rec.Watch(func(newSnap, oldSnap Snapshot) { fired = true })

	if rec.Set("a", "x") {
		t.Fatalf("expected unchanged write to report false")
	}
	if fired {
		t.Fatalf("watcher fired for unchanged value")
	}
}

func TestRecord_WatchReceivesSnapshots(t *testing.T) {
	rec := New(map[string]any{"a": 1, "b": "x"}, "b", "a")

	var gotNew, gotOld Snapshot
	rec.Watch(func(newSnap, oldSnap Snapshot) {
		gotNew, gotOld = newSnap, oldSnap
	})
	rec.Set("a", 5)

	if v, _ := gotNew.Get("a"); v != 5 {
		t.Fatalf("new snapshot a=%v, want 5", v)
	}
	if v, _ := gotOld.Get("a"); v != 1 {
		t.Fatalf("old snapshot a=%v, want 1", v)
	}
	if diff := cmp.Diff([]string{"b", "a"}, gotNew.Keys()); diff != "" {
		t.Fatalf("key order mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_NestedWritesAreQueued(t *testing.T) {
	rec := New(map[string]any{"a": 0, "b": 0})

	var order []string
	rec.Subscribe("a", func(newValue, oldValue any) {
		order = append(order, "a:start")
		rec.Set("b", 1)
		order = append(order, "a:end")
	})
	rec.Subscribe("b", func(newValue, oldValue any) {
		order = append(order, "b")
	})

	rec.Set("a", 1)

	want := []string{"a:start", "a:end", "b"}
	if diff := cmp.Diff(want, order); diff != "" {
		t.Fatalf("nested dispatch mismatch (-want +got):\n%s", diff)
	}
	if v, _ := rec.Get("b"); v != 1 {
		t.Fatalf("b=%v, want 1", v)
	}
}

func TestRecord_Unsubscribe(t *testing.T) {
	rec := New(nil)
	count := 0
	stop := rec.Subscribe("a", func(newValue, oldValue any) { count++ })

	rec.Set("a", 1)
	stop()
	rec.Set("a", 2)

	if count != 1 {
		t.Fatalf("expected one notification, got %d", count)
	}
}

func TestRecord_AssignReportsChangedKeys(t *testing.T) {
	rec := New(map[string]any{"a": 1, "b": 2})

	changed := rec.Assign(map[string]any{"a": 1, "b": 3, "c": 4})
	if diff := cmp.Diff([]string{"b", "c"}, changed); diff != "" {
		t.Fatalf("changed keys mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, rec.Keys()); diff != "" {
		t.Fatalf("keys mismatch (-want +got):\n%s", diff)
	}
}

func TestRecord_PanicDoesNotWedgeDispatch(t *testing.T) {
	rec := New(map[string]any{"a": 0})
	rec.Subscribe("a", func(newValue, oldValue any) {
		if newValue == 1 {
			panic("boom")
		}
	})

	func() {
		defer func() { _ = recover() }()
		rec.Set("a", 1)
	}()

	fired := false
	rec.Subscribe("a", func(newValue, oldValue any) { fired = true })
	rec.Set("a", 2)
	if !fired {
		t.Fatalf("record stopped dispatching after a subscriber panic")
	}
}

func TestRecord_PanicKeepsQueuedWrites(t *testing.T) {
	rec := New(map[string]any{"a": 0, "b": 0})
	rec.Subscribe("a", func(newValue, _ any) {
		rec.Set("b", 1)
		panic("boom")
	})
	var got []any
	rec.Subscribe("b", func(newValue, _ any) { got = append(got, newValue) })

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected the subscriber panic to propagate")
			}
		}()
		rec.Set("a", 1)
	}()

	if diff := cmp.Diff([]any{1}, got); diff != "" {
		t.Fatalf("queued write lost after panic (-want +got):\n%s", diff)
	}
	rec.Set("b", 2)
	if diff := cmp.Diff([]any{1, 2}, got); diff != "" {
		t.Fatalf("record stopped dispatching (-want +got):\n%s", diff)
	}
}

func TestEqual(t *testing.T) {
	shared := []string{"x"}
	m := map[string]any{}

	cases := []struct {
		name string
		a, b any
		want bool
	}{
		{name: "ints", a: 1, b: 1, want: true},
		{name: "different types", a: 1, b: int64(1), want: false},
		{name: "strings", a: "a", b: "b", want: false},
		{name: "nil pair", a: nil, b: nil, want: true},
		{name: "nil and value", a: nil, b: 0, want: false},
		{name: "same slice", a: shared, b: shared, want: true},
		{name: "equal but distinct slices", a: []string{"x"}, b: []string{"x"}, want: false},
		{name: "same map", a: m, b: m, want: true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if got := Equal(tc.a, tc.b); got != tc.want {
				t.Fatalf("Equal(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
			}
		})
	}
}
