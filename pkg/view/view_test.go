package view

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpresenter/pkg/field"
	"github.com/goliatone/go-formpresenter/pkg/observable"
	"github.com/goliatone/go-formpresenter/pkg/presenter"
	"github.com/goliatone/go-formpresenter/pkg/widgets"
)

func orderForm(t *testing.T) (*presenter.Form, *observable.Record) {
	t.Helper()
	model := observable.New(map[string]any{"type": "card", "amount": 10})
	form, err := presenter.New().
		Fields(
			field.Inline("type|radio_group|label:<b>Payment</b> type|options:card=<i>Card</i>,sbp=SBP"),
			field.Inline("amount|number"),
			field.Inline("sbp_phone|text|label:СБП номер|hidden"),
			field.Inline("submit|submit"),
		).
		FieldModel(model).
		FieldShowIf("sbp_phone", "type", "sbp").
		Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	t.Cleanup(form.Close)
	return form, model
}

func TestSnapshot(t *testing.T) {
	form, _ := orderForm(t)

	got, err := Snapshot(form)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	want := []Field{
		{
			Name:     "type",
			Type:     field.TypeRadioGroup,
			HTMLType: field.TypeRadioGroup,
			Widget:   widgets.WidgetSelect,
			Label:    "Payment type",
			Visible:  true,
			Options:  []field.Option{{Text: "Card", Value: "card"}, {Text: "SBP", Value: "sbp"}},
			Value:    "card",
		},
		{Name: "amount", Type: field.TypeNumber, Widget: widgets.WidgetNumber, Label: "Amount", Visible: true, Value: 10},
		{Name: "sbp_phone", Type: field.TypeText, Widget: widgets.WidgetInput, Label: "СБП номер"},
		{Name: "submit", Type: field.TypeSubmit, Widget: widgets.WidgetButton, Label: "Submit", Visible: true},
	}
	if diff := cmp.Diff(want, got.Fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
	if !got.Visible || got.Loading {
		t.Fatalf("unexpected form flags: %+v", got)
	}
	if len(got.Version) != 16 {
		t.Fatalf("expected 16 hex digit version, got %q", got.Version)
	}
}

func TestSnapshot_VersionTracksChanges(t *testing.T) {
	form, model := orderForm(t)

	first, err := Snapshot(form)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	again, _ := Snapshot(form)
	if first.Version != again.Version {
		t.Fatalf("version must be stable without changes")
	}

	model.Set("type", "sbp")
	changed, _ := Snapshot(form)
	if changed.Version == first.Version {
		t.Fatalf("version must change when visibility changes")
	}
}

func TestSnapshot_VisibleOnly(t *testing.T) {
	form, model := orderForm(t)

	got, _ := Snapshot(form, VisibleOnly())
	for _, f := range got.Fields {
		if f.Name == "sbp_phone" {
			t.Fatalf("hidden field must be omitted")
		}
	}

	model.Set("type", "sbp")
	got, _ = Snapshot(form, VisibleOnly())
	if len(got.Fields) != 4 {
		t.Fatalf("expected all 4 fields once sbp_phone shows, got %d", len(got.Fields))
	}
}

func TestSnapshot_ErrorsAndFlags(t *testing.T) {
	form, _ := orderForm(t)
	if err := form.FireSubmit(form.SubmitEvent()); err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, err := Snapshot(form, WithErrors(map[string][]string{
		"/body/amount":     {"Amount too small", "Amount too small"},
		"non_field_errors": {"Provider unavailable"},
	}))
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if !got.Loading {
		t.Fatalf("expected loading flag")
	}
	if diff := cmp.Diff([]string{"Provider unavailable"}, got.Errors); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Amount too small"}, got.Fields[1].Errors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
}

func TestSnapshot_Nil(t *testing.T) {
	if _, err := Snapshot(nil); err == nil {
		t.Fatalf("expected error for nil form")
	}
}

func TestLabelFromName(t *testing.T) {
	cases := map[string]string{
		"sbp_phone":          "Sbp phone",
		"cardNumber":         "Card number",
		"card_number_client": "Card number client",
		"":                   "",
	}
	for in, want := range cases {
		if got := labelFromName(in); got != want {
			t.Fatalf("labelFromName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSnapshot_TextKeepsEntitiesDecoded(t *testing.T) {
	form, err := presenter.New().
		Fields(
			field.Inline("terms|checkbox|label:Terms & <b>conditions</b>"),
			field.Inline("pay|radio_group|options:cash=Cash & card,bonus=5 < 10"),
		).
		Make()
	if err != nil {
		t.Fatalf("make: %v", err)
	}
	defer form.Close()

	got, err := Snapshot(form)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got.Fields[0].Label != "Terms & conditions" {
		t.Fatalf("label = %q, want %q", got.Fields[0].Label, "Terms & conditions")
	}
	want := []field.Option{{Text: "Cash & card", Value: "cash"}, {Text: "5 < 10", Value: "bonus"}}
	if diff := cmp.Diff(want, got.Fields[1].Options); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
}
