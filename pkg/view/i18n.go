package view

import (
	"errors"
	"strings"

	"github.com/goliatone/go-formpresenter/pkg/field"
)

// AttributeLabelKey names the native attribute holding a field's translation
// key.
const AttributeLabelKey = "data-label-key"

// ErrMissingTranslator is passed to the missing handler when a field carries a
// label key but no translator was configured.
var ErrMissingTranslator = errors.New("view: translator not configured")

// Translator resolves message keys for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// TranslatorFunc adapts a function to Translator.
type TranslatorFunc func(locale, key string, args ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, key string, args ...any) (string, error) {
	return fn(locale, key, args...)
}

// MissingTranslationHandler picks the label used when a key cannot be
// translated. err is nil when the translator returned an empty message.
type MissingTranslationHandler func(locale, key, fallback string, err error) string

// WithTranslator translates labels of fields carrying AttributeLabelKey.
func WithTranslator(locale string, translator Translator, onMissing MissingTranslationHandler) Option {
	return func(c *config) {
		c.locale = locale
		c.translator = translator
		c.onMissing = onMissing
	}
}

func missingTranslationDefault(_, key, fallback string, _ error) string {
	if strings.TrimSpace(fallback) != "" {
		return fallback
	}
	return key
}

func (c config) localizeLabel(settings field.Settings, fallback string) string {
	key := strings.TrimSpace(settings.NativeAttributes[AttributeLabelKey])
	if key == "" {
		return fallback
	}
	onMissing := c.onMissing
	if onMissing == nil {
		onMissing = missingTranslationDefault
	}
	if c.translator == nil {
		return onMissing(c.locale, key, fallback, ErrMissingTranslator)
	}
	msg, err := c.translator.Translate(c.locale, key)
	if err != nil || strings.TrimSpace(msg) == "" {
		return onMissing(c.locale, key, fallback, err)
	}
	return msg
}
