package widgets

import (
	"testing"

	"github.com/goliatone/go-formpresenter/pkg/field"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	settings := field.Settings{
		Type:             field.TypeCheckbox,
		NativeAttributes: map[string]string{AttributeWidget: "custom-toggle"},
	}

	if got, ok := reg.Resolve(settings); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		typ    field.Type
		opts   []field.Option
		expect string
	}{
		{"submit button", field.TypeSubmit, nil, WidgetButton},
		{"hidden", field.TypeHidden, nil, WidgetHidden},
		{"checkbox toggle", field.TypeCheckbox, nil, WidgetToggle},
		{"switch toggle", field.TypeSwitch, nil, WidgetToggle},
		{"checkbox group", field.TypeCheckboxGroup, []field.Option{{Text: "a", Value: "a"}}, WidgetMultiSelect},
		{"radio group", field.TypeRadioGroup, nil, WidgetSelect},
		{"text with options", field.TypeText, []field.Option{{Text: "a", Value: "a"}}, WidgetSelect},
		{"textarea", field.TypeTextarea, nil, WidgetTextArea},
		{"number", field.TypeNumber, nil, WidgetNumber},
		{"range", field.TypeRange, nil, WidgetNumber},
		{"date", field.TypeDate, nil, WidgetDate},
		{"datetime", field.TypeDateTimeLocal, nil, WidgetDate},
		{"email falls back to input", field.TypeEmail, nil, WidgetInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := reg.Resolve(field.Settings{Name: "f", Type: tc.typ, Options: tc.opts})
			if !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestRegister_PriorityAndOrder(t *testing.T) {
	reg := &Registry{}
	reg.Register("first", 10, func(field.Settings) bool { return true })
	reg.Register("second", 10, func(field.Settings) bool { return true })
	reg.Register("low", 1, func(field.Settings) bool { return true })

	if got, _ := reg.Resolve(field.Settings{Type: field.TypeText}); got != "first" {
		t.Fatalf("expected registration order to break ties, got %q", got)
	}

	reg.Register("urgent", 20, func(s field.Settings) bool { return s.Name == "pin" })
	if got, _ := reg.Resolve(field.Settings{Name: "pin", Type: field.TypeText}); got != "urgent" {
		t.Fatalf("expected higher priority to win, got %q", got)
	}
}

func TestResolve_EmptyRegistry(t *testing.T) {
	reg := &Registry{}
	if got, ok := reg.Resolve(field.Settings{Type: field.TypeText}); ok {
		t.Fatalf("empty registry resolved %q", got)
	}
	reg.Register("  ", 1, func(field.Settings) bool { return true })
	reg.Register("nil", 1, nil)
	if _, ok := reg.Resolve(field.Settings{Type: field.TypeText}); ok {
		t.Fatalf("blank names and nil matchers must be ignored")
	}
}

func TestResolveField(t *testing.T) {
	reg := NewRegistry()
	f := field.MustMake(field.Inline("type|radio_group|options:card,sbp"))
	if got, _ := reg.ResolveField(f); got != WidgetSelect {
		t.Fatalf("expected select, got %q", got)
	}
	f.SetNativeAttributes(map[string]string{AttributeWidget: "cards"})
	if got, _ := reg.ResolveField(f); got != "cards" {
		t.Fatalf("expected attribute override, got %q", got)
	}
	if _, ok := reg.ResolveField(nil); ok {
		t.Fatalf("nil field must not resolve")
	}
}
