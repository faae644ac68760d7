package visibility

// Evaluator decides whether a rule matches the current form state. target is
// the field whose visibility the rule controls and is informational only.
type Evaluator interface {
	Eval(target, rule string, ctx Context) (bool, error)
}

// Context provides the inputs of an evaluation. Values holds the model
// snapshot; Extras carries caller-supplied context such as the changed key or
// feature flags, reachable through the `extras.` prefix.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(target, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(target, rule string, ctx Context) (bool, error) {
	return fn(target, rule, ctx)
}
