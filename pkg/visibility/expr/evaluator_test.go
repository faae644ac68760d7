package expr

import (
	"testing"

	"github.com/goliatone/go-formpresenter/pkg/visibility"
)

func TestEvaluator_Rules(t *testing.T) {
	t.Parallel()

	model := map[string]any{
		"type":        "sbp",
		"bank_id":     "3",
		"amount":      150.5,
		"agree":       true,
		"card_number": "",
		"provider":    map[string]any{"name": "fruto"},
		"cta.title":   "Pay",
	}

	cases := []struct {
		rule string
		want bool
	}{
		{`type == "sbp"`, true},
		{`type == 'sbp'`, true},
		{`type == sbp`, true},
		{`type != "card"`, true},
		{`bank_id == 3`, true},
		{`amount >= 100`, true},
		{`amount < 100`, false},
		{`amount > 150.5`, false},
		{`amount <= 150.5`, true},
		{`agree`, true},
		{`!agree`, false},
		{`card_number`, false},
		{`missing == null`, true},
		{`agree != null`, true},
		{`type in ["card", "sbp"]`, true},
		{`type in []`, false},
		{`bank_id in [1, 2]`, false},
		{`provider.name == "fruto"`, true},
		{`cta.title == "Pay"`, true},
		{`type == "card" || agree`, true},
		{`type == "card" && agree`, false},
		{`!(type == "card") && (amount > 1)`, true},
		{`extras.changed == "type"`, true},
		{"", true},
	}

	eval := New()
	ctx := visibility.Context{
		Values: model,
		Extras: map[string]any{"changed": "type"},
	}
	for _, tc := range cases {
		got, err := eval.Eval("sbp_phone", tc.rule, ctx)
		if err != nil {
			t.Fatalf("Eval(%q) returned error: %v", tc.rule, err)
		}
		if got != tc.want {
			t.Fatalf("Eval(%q) = %v, want %v", tc.rule, got, tc.want)
		}
	}
}

func TestEvaluator_SyntaxErrors(t *testing.T) {
	t.Parallel()

	rules := []string{
		`type = "sbp"`,
		`type == "sbp`,
		`type & agree`,
		`(type == "sbp"`,
		`type ==`,
		`amount > "x"`,
		`type in "card"`,
		`type in ["a" "b"]`,
		`== 1`,
		`type == "sbp" )`,
	}

	eval := New()
	for _, rule := range rules {
		if _, err := eval.Eval("f", rule, visibility.Context{}); err == nil {
			t.Fatalf("expected syntax error for %q", rule)
		}
		if err := eval.Compile(rule); err == nil {
			t.Fatalf("expected Compile error for %q", rule)
		}
	}
}

func TestEvaluator_NonNumericComparisonIsFalse(t *testing.T) {
	t.Parallel()

	ok, err := New().Eval("f", "amount > 10", visibility.Context{
		Values: map[string]any{"amount": "abc"},
	})
	if err != nil {
		t.Fatalf("Eval returned error: %v", err)
	}
	if ok {
		t.Fatalf("expected non-numeric value to fail ordering comparison")
	}
}
