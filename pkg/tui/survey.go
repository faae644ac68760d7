package tui

import (
	"context"
	"errors"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// surveyPrompter asks questions on the controlling terminal. Choice answers
// are written as option indexes by survey itself.
type surveyPrompter struct{}

func (surveyPrompter) Ask(ctx context.Context, q Question) (Answer, error) {
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}

	var ans Answer
	prompt, target := surveyPrompt(q, &ans)

	var opts []survey.AskOpt
	if q.Validate != nil && (q.Kind == KindText || q.Kind == KindSecret) {
		validate := q.Validate
		opts = append(opts, survey.WithValidator(func(reply interface{}) error {
			text, _ := reply.(string)
			return validate(text)
		}))
	}

	err := survey.AskOne(prompt, target, opts...)
	switch {
	case errors.Is(err, terminal.InterruptErr):
		return Answer{}, ErrAborted
	case err != nil:
		return Answer{}, err
	}
	return ans, nil
}

// surveyPrompt maps a question onto a survey prompt and the Answer member
// survey writes into.
func surveyPrompt(q Question, ans *Answer) (survey.Prompt, interface{}) {
	switch q.Kind {
	case KindSecret:
		return &survey.Password{Message: q.Message, Help: q.Help}, &ans.Text
	case KindConfirm:
		return &survey.Confirm{Message: q.Message, Help: q.Help, Default: q.Yes}, &ans.Yes
	case KindChoice:
		p := &survey.Select{Message: q.Message, Help: q.Help, Options: q.Options}
		if len(q.Selected) > 0 {
			p.Default = q.Selected[0]
		}
		return p, &ans.Index
	case KindChoices:
		p := &survey.MultiSelect{Message: q.Message, Help: q.Help, Options: q.Options}
		if len(q.Selected) > 0 {
			p.Default = q.Selected
		}
		return p, &ans.Indices
	case KindMultiline:
		return &survey.Multiline{Message: q.Message, Help: q.Help, Default: q.Default}, &ans.Text
	default:
		return &survey.Input{Message: q.Message, Help: q.Help, Default: q.Default}, &ans.Text
	}
}
