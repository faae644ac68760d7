package expr

import (
	"strings"
	"sync"

	"github.com/goliatone/go-formpresenter/pkg/visibility"
)

// Evaluator is a small, dependency-free rule evaluator for form visibility.
//
// Supported syntax:
//   - truthiness: `agree`
//   - comparisons: `type == "sbp"`, `amount >= 100`, `bank_id != 3`
//   - membership: `type in ["card", "sbp"]`
//   - composition: `a && !b`, `(a || b) && c`
//
// Identifiers resolve against visibility.Context.Values (dotted paths allowed)
// or visibility.Context.Extras through the `extras.` prefix. Equality uses
// visibility.LooseEqual, so `bank_id == 3` matches the string "3". Parsed rules
// are cached per evaluator.
type Evaluator struct {
	cache sync.Map
}

// New constructs an Evaluator.
func New() *Evaluator { return &Evaluator{} }

var _ visibility.Evaluator = (*Evaluator)(nil)

// Eval evaluates rule against ctx. Empty rules match.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	node, err := e.compile(rule)
	if err != nil {
		return false, err
	}
	if node == nil {
		return true, nil
	}
	return node.eval(ctx)
}

// Compile parses rule without evaluating it, reporting syntax errors early.
func (e *Evaluator) Compile(rule string) error {
	_, err := e.compile(rule)
	return err
}

func (e *Evaluator) compile(rule string) (node, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return nil, nil
	}
	if cached, ok := e.cache.Load(trimmed); ok {
		return cached.(node), nil
	}
	tokens, err := tokenize(trimmed)
	if err != nil {
		return nil, err
	}
	parsed, err := parse(tokens)
	if err != nil {
		return nil, err
	}
	e.cache.Store(trimmed, parsed)
	return parsed, nil
}
