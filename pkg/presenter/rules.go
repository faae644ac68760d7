package presenter

import (
	"github.com/goliatone/go-formpresenter/pkg/visibility"
)

// MatchFunc decides whether a visibility rule matches after the model value
// of the related key changed.
type MatchFunc func(newValue, oldValue any, rc *FormRemoteControl) bool

// Action is what a rule does to its target on match.
type Action int

const (
	// ActionHide hides the target on match and shows it otherwise.
	ActionHide Action = iota
	// ActionShow shows the target on match and hides it otherwise.
	ActionShow
)

func (a Action) String() string {
	if a == ActionShow {
		return "show"
	}
	return "hide"
}

// Rule binds the visibility of Target to the model value at Relate.
type Rule struct {
	Target string
	Relate string
	Action Action
	// Value is compared loosely against the model value at Relate when Match
	// is nil.
	Value any
	Match MatchFunc
	// Expression is set for rules declared with FieldHideWhen/FieldShowWhen.
	Expression string
}

func (r Rule) matches(newValue, oldValue any, rc *FormRemoteControl) bool {
	if r.Match != nil {
		return r.Match(newValue, oldValue, rc)
	}
	return rc.IsVal(r.Relate, r.Value)
}

// apply evaluates the rule and flips the target accordingly. Target names are
// validated in Make, so MustField never panics for compiled rules.
func (r Rule) apply(newValue, oldValue any, rc *FormRemoteControl) {
	target := rc.MustField(r.Target)
	matched := r.matches(newValue, oldValue, rc)
	if matched == (r.Action == ActionHide) {
		target.Hide()
		return
	}
	target.Show()
}

// When builds a MatchFunc that evaluates rule with evaluator against the
// model snapshot. The changed key and its previous value are exposed as
// extras.changed and extras.previous. Evaluation errors are reported to
// onError (when set) and count as no match.
func When(evaluator visibility.Evaluator, target, relate, rule string, extras map[string]any, onError func(error)) MatchFunc {
	return func(newValue, oldValue any, rc *FormRemoteControl) bool {
		ctx := visibility.Context{
			Values: rc.form.model.Snapshot().Map(),
			Extras: make(map[string]any, len(extras)+2),
		}
		for k, v := range extras {
			ctx.Extras[k] = v
		}
		ctx.Extras["changed"] = relate
		ctx.Extras["previous"] = oldValue

		ok, err := evaluator.Eval(target, rule, ctx)
		if err != nil {
			if onError != nil {
				onError(err)
			}
			return false
		}
		return ok
	}
}

// compiler is implemented by evaluators that can validate rules up front.
type compiler interface {
	Compile(rule string) error
}
