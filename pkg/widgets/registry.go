package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formpresenter/pkg/field"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetInput       = "input"
	WidgetNumber      = "number"
	WidgetTextArea    = "textarea"
	WidgetToggle      = "toggle"
	WidgetSelect      = "select"
	WidgetMultiSelect = "multiselect"
	WidgetDate        = "date"
	WidgetHidden      = "hidden"
	WidgetButton      = "button"
)

// AttributeWidget is the native attribute that pins a widget explicitly.
const AttributeWidget = "data-widget"

// Matcher decides whether a widget should handle the supplied field settings.
type Matcher func(settings field.Settings) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on an explicit data-widget
// attribute or registered matchers. Higher priority wins; ties fall back to
// registration order. An empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence; equal priorities resolve in registration
// order.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for the settings. An explicit data-widget
// attribute is honoured before matcher evaluation.
func (r *Registry) Resolve(settings field.Settings) (string, bool) {
	if explicit := strings.TrimSpace(settings.NativeAttributes[AttributeWidget]); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(settings) {
			return entry.name, true
		}
	}
	return "", false
}

// ResolveField is Resolve over the current settings of f.
func (r *Registry) ResolveField(f *field.Field) (string, bool) {
	if f == nil {
		return "", false
	}
	return r.Resolve(f.Settings())
}

func typeIs(types ...field.Type) Matcher {
	return func(settings field.Settings) bool {
		for _, t := range types {
			if settings.Type == t {
				return true
			}
		}
		return false
	}
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetButton, 100, typeIs(field.TypeSubmit))
	r.Register(WidgetHidden, 95, typeIs(field.TypeHidden))
	r.Register(WidgetToggle, 90, typeIs(field.TypeCheckbox, field.TypeSwitch, field.TypeRadio))
	r.Register(WidgetMultiSelect, 80, func(settings field.Settings) bool {
		return settings.Type == field.TypeCheckboxGroup || settings.Type == field.TypeSwitchGroup
	})
	r.Register(WidgetSelect, 70, func(settings field.Settings) bool {
		if settings.Type == field.TypeRadioGroup {
			return true
		}
		return len(settings.Options) > 0 && !settings.Type.IsCustom()
	})
	r.Register(WidgetTextArea, 60, typeIs(field.TypeTextarea))
	r.Register(WidgetNumber, 50, typeIs(field.TypeNumber, field.TypeRange))
	r.Register(WidgetDate, 40, typeIs(field.TypeDate, field.TypeDateTimeLocal))
	r.Register(WidgetInput, 0, func(field.Settings) bool { return true })
}
