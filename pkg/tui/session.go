package tui

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-formpresenter/pkg/field"
	"github.com/goliatone/go-formpresenter/pkg/presenter"
	"github.com/goliatone/go-formpresenter/pkg/visibility"
	"github.com/goliatone/go-formpresenter/pkg/widgets"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// Session prompts for the fields of a form.
type Session struct {
	prompter Prompter
	widgets  *widgets.Registry
	theme    Theme
}

// New constructs a Session with defaults (terminal prompter, built-in widget
// registry).
func New(options ...Option) *Session {
	s := &Session{
		widgets: widgets.NewRegistry(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}
	if s.prompter == nil {
		s.prompter = surveyPrompter{}
	}
	return s
}

// Run prompts every visible field, then fires submit with the collected
// event. The event is returned alongside any submit error.
func (s *Session) Run(ctx context.Context, form *presenter.Form) (presenter.SubmitEvent, error) {
	if ctx == nil {
		return presenter.SubmitEvent{}, errors.New("tui: context is required")
	}
	if form == nil {
		return presenter.SubmitEvent{}, errors.New("tui: form is nil")
	}

	for _, f := range form.Fields() {
		if err := ctx.Err(); err != nil {
			return presenter.SubmitEvent{}, err
		}
		if f.IsBtnSubmit() || !f.IsVisible() {
			continue
		}
		value, skip, err := s.promptField(ctx, form, f)
		if err != nil {
			return presenter.SubmitEvent{}, fmt.Errorf("tui: field %q: %w", f.Name(), err)
		}
		if skip {
			continue
		}
		form.Model().Set(f.Name(), value)
	}

	event := form.SubmitEvent()
	if err := form.FireSubmit(event); err != nil {
		return event, fmt.Errorf("tui: submit: %w", err)
	}
	return event, nil
}

func (s *Session) promptField(ctx context.Context, form *presenter.Form, f *field.Field) (any, bool, error) {
	settings := f.Settings()
	current, _ := form.Model().Get(settings.Name)

	widget, _ := s.widgets.Resolve(settings)
	if widget == widgets.WidgetHidden || widget == widgets.WidgetButton {
		return nil, true, nil
	}

	q, err := s.question(widget, settings, current)
	if err != nil {
		return nil, false, err
	}
	ans, err := s.prompter.Ask(ctx, q)
	if err != nil {
		return nil, false, err
	}
	value, err := answerValue(widget, settings.Options, ans)
	return value, false, err
}

// question describes the prompt for a field, pre-filled from the model.
func (s *Session) question(widget string, settings field.Settings, current any) (Question, error) {
	q := Question{
		Field:   settings.Name,
		Message: s.theme.PromptPrefix + promptLabel(settings),
		Default: defaultString(current),
	}
	switch widget {
	case widgets.WidgetToggle:
		q.Kind = KindConfirm
		q.Yes, _ = visibility.CoerceBool(current)
	case widgets.WidgetSelect, widgets.WidgetMultiSelect:
		if len(settings.Options) == 0 {
			return Question{}, ErrNoOptions
		}
		q.Kind = KindChoice
		if widget == widgets.WidgetMultiSelect {
			q.Kind = KindChoices
		}
		q.Options = optionTexts(settings.Options)
		q.Selected = selectedOptions(settings.Options, current)
	case widgets.WidgetTextArea:
		q.Kind = KindMultiline
	case widgets.WidgetNumber:
		q.Validate = validateNumber
	default:
		q.Validate = validatorFor(settings.Type)
		if strings.EqualFold(settings.NativeAttributes["type"], "password") {
			q.Kind = KindSecret
			q.Default = ""
		}
	}
	return q, nil
}

// answerValue converts a reply into the value written to the model.
func answerValue(widget string, options []field.Option, ans Answer) (any, error) {
	switch widget {
	case widgets.WidgetToggle:
		return ans.Yes, nil
	case widgets.WidgetSelect:
		if ans.Index < 0 || ans.Index >= len(options) {
			return nil, fmt.Errorf("selection %d out of range", ans.Index)
		}
		return options[ans.Index].Value, nil
	case widgets.WidgetMultiSelect:
		values := make([]string, 0, len(ans.Indices))
		for _, idx := range ans.Indices {
			if idx >= 0 && idx < len(options) {
				values = append(values, options[idx].Value)
			}
		}
		return values, nil
	case widgets.WidgetNumber:
		input := strings.TrimSpace(ans.Text)
		if input == "" {
			return nil, nil
		}
		return strconv.ParseFloat(input, 64)
	}
	return ans.Text, nil
}

func validatorFor(t field.Type) func(string) error {
	switch t {
	case field.TypeEmail:
		return validateEmail
	case field.TypeDate:
		return validateLayout(dateLayout)
	case field.TypeDateTimeLocal:
		return validateLayout(dateTimeLayout)
	}
	return nil
}

func validateNumber(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if _, err := strconv.ParseFloat(trimmed, 64); err != nil {
		return fmt.Errorf("%q is not a number", trimmed)
	}
	return nil
}

func validateEmail(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return fmt.Errorf("%q is not an email address", trimmed)
	}
	return nil
}

func validateLayout(layout string) func(string) error {
	return func(raw string) error {
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			return nil
		}
		if _, err := time.Parse(layout, trimmed); err != nil {
			return fmt.Errorf("%q does not match %s", trimmed, layout)
		}
		return nil
	}
}

func promptLabel(settings field.Settings) string {
	if settings.HasLabel && strings.TrimSpace(settings.Label) != "" {
		return settings.Label
	}
	return settings.Name
}

func defaultString(value any) string {
	if value == nil {
		return ""
	}
	return visibility.CoerceString(value)
}

func optionTexts(options []field.Option) []string {
	out := make([]string, len(options))
	for i, option := range options {
		out[i] = option.Text
	}
	return out
}

// selectedOptions indexes the options matching the model value. A []string
// value selects every matching option.
func selectedOptions(options []field.Option, current any) []int {
	var wanted []any
	switch v := current.(type) {
	case nil:
		return nil
	case []string:
		for _, item := range v {
			wanted = append(wanted, item)
		}
	default:
		wanted = []any{v}
	}

	var out []int
	for _, value := range wanted {
		for i, option := range options {
			if visibility.LooseEqual(option.Value, value) {
				out = append(out, i)
				break
			}
		}
	}
	return out
}
