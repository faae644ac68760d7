package view

import (
	"encoding/json"
	"fmt"
	"html"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash"
	"github.com/iancoleman/strcase"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-formpresenter/pkg/field"
	"github.com/goliatone/go-formpresenter/pkg/presenter"
	"github.com/goliatone/go-formpresenter/pkg/widgets"
)

// View is a serialisable snapshot of a live form.
type View struct {
	Fields  []Field  `json:"fields"`
	Loading bool     `json:"loading"`
	Visible bool     `json:"visible"`
	Errors  []string `json:"errors,omitempty"`
	Version string   `json:"version"`
}

// Field is one field of a View.
type Field struct {
	Name       string            `json:"name"`
	Type       field.Type        `json:"type"`
	HTMLType   field.Type        `json:"htmlType,omitempty"`
	Widget     string            `json:"widget,omitempty"`
	Label      string            `json:"label"`
	Visible    bool              `json:"visible"`
	Options    []field.Option    `json:"options,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Value      any               `json:"value,omitempty"`
	Errors     []string          `json:"errors,omitempty"`
}

// Option customises Snapshot.
type Option func(*config)

type config struct {
	visibleOnly bool
	errors      map[string][]string
	widgets     *widgets.Registry
	locale      string
	translator  Translator
	onMissing   MissingTranslationHandler
}

// VisibleOnly omits hidden fields from the snapshot.
func VisibleOnly() Option {
	return func(c *config) {
		c.visibleOnly = true
	}
}

// WithErrors attaches a server error payload, mapped with MapErrors.
func WithErrors(payload map[string][]string) Option {
	return func(c *config) {
		c.errors = payload
	}
}

// WithWidgets resolves widget names with registry instead of the built-in one.
func WithWidgets(registry *widgets.Registry) Option {
	return func(c *config) {
		if registry != nil {
			c.widgets = registry
		}
	}
}

var (
	defaultWidgetsOnce sync.Once
	defaultWidgets     *widgets.Registry
)

func builtinWidgets() *widgets.Registry {
	defaultWidgetsOnce.Do(func() {
		defaultWidgets = widgets.NewRegistry()
	})
	return defaultWidgets
}

// Snapshot captures the current state of form. Label and option text is
// stripped of markup; fields without a label get one derived from the name,
// and fields carrying AttributeLabelKey are translated when WithTranslator is
// set.
// Version is a hash of the snapshot content and changes whenever anything
// visible to a renderer changes.
func Snapshot(form *presenter.Form, opts ...Option) (View, error) {
	cfg := config{widgets: builtinWidgets()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if form == nil {
		return View{}, fmt.Errorf("view: form is nil")
	}

	fields := form.Fields()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		names = append(names, f.Name())
	}
	mapped := MapErrors(names, cfg.errors)
	values := form.Model().Snapshot()

	out := View{
		Fields:  make([]Field, 0, len(fields)),
		Loading: form.IsLoading(),
		Visible: form.IsFormVisible(),
		Errors:  mapped.Form,
	}
	for _, f := range fields {
		settings := f.Settings()
		if cfg.visibleOnly && !settings.Visible {
			continue
		}
		entry := Field{
			Name:       settings.Name,
			Type:       settings.Type,
			HTMLType:   settings.TypeHTMLField,
			Label:      displayLabel(settings, cfg),
			Visible:    settings.Visible,
			Options:    sanitiseOptions(settings.Options),
			Attributes: settings.NativeAttributes,
			Errors:     mapped.Fields[settings.Name],
		}
		if widget, ok := cfg.widgets.Resolve(settings); ok {
			entry.Widget = widget
		}
		if value, ok := values.Get(settings.Name); ok {
			entry.Value = value
		}
		out.Fields = append(out.Fields, entry)
	}

	version, err := hash(out)
	if err != nil {
		return View{}, err
	}
	out.Version = version
	return out, nil
}

func hash(v View) (string, error) {
	v.Version = ""
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("view: encode snapshot: %w", err)
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

func displayLabel(settings field.Settings, cfg config) string {
	fallback := ""
	if settings.HasLabel {
		fallback = sanitizeText(settings.Label)
	}
	if fallback == "" {
		fallback = labelFromName(settings.Name)
	}
	return sanitizeText(cfg.localizeLabel(settings, fallback))
}

// labelFromName turns sbp_phone or cardNumber into "Sbp phone" / "Card number".
func labelFromName(name string) string {
	words := strings.TrimSpace(strcase.ToDelimited(name, ' '))
	if words == "" {
		return ""
	}
	r, size := utf8.DecodeRuneInString(words)
	return string(unicode.ToUpper(r)) + words[size:]
}

func sanitiseOptions(options []field.Option) []field.Option {
	if len(options) == 0 {
		return nil
	}
	out := make([]field.Option, len(options))
	for i, option := range options {
		out[i] = field.Option{Text: sanitizeText(option.Text), Value: option.Value}
	}
	return out
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

func sanitizeText(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	// The snapshot carries plain text, so entities the policy emits are
	// decoded again once the markup is gone.
	return strings.TrimSpace(html.UnescapeString(textSanitizer().Sanitize(trimmed)))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
