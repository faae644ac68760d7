package field

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMake_Structured(t *testing.T) {
	f, err := Make(Structured{Name: "token", Type: TypeText})
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	if f.Name() != "token" || f.Type() != TypeText {
		t.Fatalf("unexpected field %#v", f.Settings())
	}
	if !f.IsVisible() {
		t.Fatalf("structured fields default to visible")
	}
	if _, ok := f.Label(); ok {
		t.Fatalf("structured field without label should report no label")
	}
}

func TestMake_NilDescriptor(t *testing.T) {
	if _, err := Make(nil); err == nil {
		t.Fatalf("expected error for nil descriptor")
	}

	var typed *Structured
	f, err := Make(typed)
	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse for a nil *Structured, got %v", err)
	}
	if f != nil {
		t.Fatalf("expected no field for a nil *Structured")
	}
}

func TestClassification(t *testing.T) {
	cases := []struct {
		typ       Type
		formInput bool
		custom    bool
	}{
		{TypeText, true, false},
		{TypeNumber, true, false},
		{TypeEmail, true, false},
		{TypeRadio, true, false},
		{TypeHidden, true, false},
		{TypeCheckbox, true, false},
		{TypeRange, true, false},
		{TypeDate, true, false},
		{TypeDateTimeLocal, true, false},
		{TypeTextarea, false, false},
		{TypeSubmit, false, false},
		{TypeRadioGroup, false, true},
		{TypeCheckboxGroup, false, true},
		{TypeSwitch, false, true},
		{TypeSwitchGroup, false, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(string(tc.typ), func(t *testing.T) {
			t.Parallel()
			f := MustMake(Structured{Name: "f", Type: tc.typ})
			if got := f.IsFormInput(); got != tc.formInput {
				t.Fatalf("IsFormInput = %v, want %v", got, tc.formInput)
			}
			if got := f.IsCustom(); got != tc.custom {
				t.Fatalf("IsCustom = %v, want %v", got, tc.custom)
			}
		})
	}

	submit := MustMake(Inline("send|submit"))
	if !submit.IsBtnSubmit() {
		t.Fatalf("expected submit classification")
	}
	radio := MustMake(Inline("r|radio"))
	if !radio.IsSingleRadio() || !radio.IsSingleCheckboxOrRadio() || radio.IsSingleCheckbox() {
		t.Fatalf("radio classification wrong")
	}
	group := MustMake(Inline("g|radio_group|options:a,b"))
	if !group.IsRadioGroup() || group.IsCheckboxGroup() {
		t.Fatalf("radio group classification wrong")
	}
}

func TestSetters_NotifyWatchers(t *testing.T) {
	f := MustMake(Inline("bank|checkbox_group"))

	type event struct {
		Property string
		New, Old any
	}
	var events []event
	f.Watch(func(property string, newValue, oldValue any) {
		events = append(events, event{Property: property, New: newValue, Old: oldValue})
	})

	f.SetVisible(false)
	f.SetVisible(false)
	f.SetVisible(true)
	f.SetOptions([]Option{{Text: "A", Value: "a"}})

	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d: %#v", len(events), events)
	}
	if events[0].Property != PropertyVisible || events[0].New != false || events[0].Old != true {
		t.Fatalf("unexpected first event %#v", events[0])
	}
	if events[2].Property != PropertyOptions {
		t.Fatalf("expected options event, got %#v", events[2])
	}
	if diff := cmp.Diff([]Option{{Text: "A", Value: "a"}}, f.Options()); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestSettings_ReturnsCopy(t *testing.T) {
	f := MustMake(Inline("g|radio_group|options:a,b"))
	s := f.Settings()
	s.Options[0].Text = "mutated"
	if f.Options()[0].Text != "a" {
		t.Fatalf("settings copy leaked into field")
	}
}
