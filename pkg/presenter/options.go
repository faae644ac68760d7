package presenter

import (
	"github.com/goliatone/go-formpresenter/pkg/visibility"
	"github.com/goliatone/go-formpresenter/pkg/visibility/expr"
)

// Logger receives lifecycle messages. *log.Logger satisfies it.
type Logger interface {
	Printf(format string, args ...any)
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}

// Option customises a Builder.
type Option func(*Builder)

// WithLogger reports build steps and rule evaluation failures to logger.
// Builders are silent by default.
func WithLogger(logger Logger) Option {
	return func(b *Builder) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithEvaluator selects the evaluator used by FieldHideWhen/FieldShowWhen.
// Defaults to the dependency-free expr evaluator.
func WithEvaluator(evaluator visibility.Evaluator) Option {
	return func(b *Builder) {
		if evaluator != nil {
			b.evaluator = evaluator
		}
	}
}

// WithExtras exposes additional context to expression rules under the
// `extras.` prefix.
func WithExtras(extras map[string]any) Option {
	return func(b *Builder) {
		if len(extras) == 0 {
			return
		}
		if b.extras == nil {
			b.extras = make(map[string]any, len(extras))
		}
		for k, v := range extras {
			b.extras[k] = v
		}
	}
}

func defaultEvaluator() visibility.Evaluator {
	return expr.New()
}
