// Package exprlang evaluates visibility rules written in the
// github.com/antonmedv/expr language, for rules that need arithmetic, string
// functions or operators the built-in expr evaluator does not offer:
//
//	len(card_number) == 16 && amount * 100 > 5000
//	type matches "^sbp"
package exprlang

import (
	"fmt"
	"strings"
	"sync"

	"github.com/antonmedv/expr"
	"github.com/antonmedv/expr/vm"

	"github.com/goliatone/go-formpresenter/pkg/visibility"
)

// ExtrasKey is the environment name under which visibility.Context.Extras is
// exposed to rules.
const ExtrasKey = "extras"

// Evaluator compiles rules once and caches the resulting programs.
type Evaluator struct {
	programs sync.Map
}

// New constructs an Evaluator.
func New() *Evaluator { return &Evaluator{} }

var _ visibility.Evaluator = (*Evaluator)(nil)

// Eval runs rule with the model values as environment. The result follows
// visibility.Truthy, so rules may return non-boolean values.
func (e *Evaluator) Eval(_ string, rule string, ctx visibility.Context) (bool, error) {
	program, err := e.program(rule)
	if err != nil {
		return false, err
	}
	if program == nil {
		return true, nil
	}
	out, err := expr.Run(program, environment(ctx))
	if err != nil {
		return false, fmt.Errorf("exprlang: run %q: %w", rule, err)
	}
	return visibility.Truthy(out), nil
}

// Compile reports syntax errors without evaluating the rule.
func (e *Evaluator) Compile(rule string) error {
	_, err := e.program(rule)
	return err
}

func (e *Evaluator) program(rule string) (*vm.Program, error) {
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return nil, nil
	}
	if cached, ok := e.programs.Load(trimmed); ok {
		return cached.(*vm.Program), nil
	}
	program, err := expr.Compile(trimmed)
	if err != nil {
		return nil, fmt.Errorf("exprlang: compile %q: %w", trimmed, err)
	}
	e.programs.Store(trimmed, program)
	return program, nil
}

func environment(ctx visibility.Context) map[string]interface{} {
	env := make(map[string]interface{}, len(ctx.Values)+1)
	for k, v := range ctx.Values {
		env[k] = v
	}
	extras := make(map[string]interface{}, len(ctx.Extras))
	for k, v := range ctx.Extras {
		extras[k] = v
	}
	env[ExtrasKey] = extras
	return env
}
