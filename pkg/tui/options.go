package tui

import (
	"github.com/goliatone/go-formpresenter/pkg/widgets"
)

// Theme captures optional formatting the session applies to prompt messages.
type Theme struct {
	PromptPrefix string
}

// Option configures a Session.
type Option func(*Session)

// WithPrompter replaces the terminal prompter, typically with a scripted one
// in tests.
func WithPrompter(p Prompter) Option {
	return func(s *Session) {
		if p != nil {
			s.prompter = p
		}
	}
}

// WithWidgets selects the registry used to pick a prompt per field.
func WithWidgets(registry *widgets.Registry) Option {
	return func(s *Session) {
		if registry != nil {
			s.widgets = registry
		}
	}
}

// WithTheme applies an optional prompt prefix.
func WithTheme(theme Theme) Option {
	return func(s *Session) {
		s.theme = theme
	}
}
