package tui

import "context"

// Kind selects how a question is presented.
type Kind int

const (
	// KindText asks for a single line of free text.
	KindText Kind = iota
	// KindSecret is KindText without echo.
	KindSecret
	// KindConfirm asks a yes/no question.
	KindConfirm
	// KindChoice picks one of Options.
	KindChoice
	// KindChoices picks any subset of Options.
	KindChoices
	// KindMultiline asks for free text spanning several lines.
	KindMultiline
)

// Question is one prompt for one form field. Defaults carry the value the
// model already holds for the field.
type Question struct {
	Kind    Kind
	Field   string
	Message string
	Help    string

	// Default pre-fills text kinds; Yes pre-selects a confirm.
	Default string
	Yes     bool

	// Options are the option texts of choice kinds. Selected indexes the
	// options that start selected; KindChoice uses the first entry only.
	Options  []string
	Selected []int

	// Validate rejects text answers. The prompter re-asks until it passes.
	Validate func(string) error
}

// Answer holds the reply to a Question. Only the member matching the
// question kind is meaningful.
type Answer struct {
	Text    string
	Yes     bool
	Index   int
	Indices []int
}

// Prompter puts questions to the user. The session owns every decision about
// which field to ask and how the answer maps back onto the model.
type Prompter interface {
	Ask(ctx context.Context, q Question) (Answer, error)
}
