package field

import (
	"sync"
)

// Settings property names reported to watchers.
const (
	PropertyVisible          = "visible"
	PropertyOptions          = "options"
	PropertyLabel            = "label"
	PropertyNativeAttributes = "nativeAttributes"
)

// SettingsWatcher observes mutations of a field's settings.
type SettingsWatcher func(property string, newValue, oldValue any)

// Field is a form input with observable settings. Mutations go through the
// setters so watchers see every change.
type Field struct {
	mu       sync.RWMutex
	settings Settings
	watchers []SettingsWatcher
}

// Make builds a Field from a descriptor, parsing inline strings.
func Make(d Descriptor) (*Field, error) {
	if d == nil {
		return nil, &ParseError{Reason: "nil descriptor"}
	}
	if s, ok := d.(*Structured); ok && s == nil {
		return nil, &ParseError{Reason: "nil structured descriptor"}
	}
	settings, err := d.settings()
	if err != nil {
		return nil, err
	}
	return &Field{settings: settings}, nil
}

// MustMake is like Make but panics on error. Intended for package-level
// fixtures and tests.
func MustMake(d Descriptor) *Field {
	f, err := Make(d)
	if err != nil {
		panic(err)
	}
	return f
}

// Name returns the registry key of the field.
func (f *Field) Name() string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings.Name
}

// Type returns the field kind.
func (f *Field) Type() Type {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings.Type
}

// Label returns the label and whether one was declared.
func (f *Field) Label() (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings.Label, f.settings.HasLabel
}

func (f *Field) IsVisible() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings.Visible
}

func (f *Field) Options() []Option {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return cloneOptions(f.settings.Options)
}

func (f *Field) NativeAttributes() map[string]string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings.Clone().NativeAttributes
}

// Settings returns a copy of the current settings.
func (f *Field) Settings() Settings {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.settings.Clone()
}

// SetVisible toggles visibility. Watchers fire only on an actual change.
func (f *Field) SetVisible(visible bool) *Field {
	f.mu.Lock()
	old := f.settings.Visible
	f.settings.Visible = visible
	f.mu.Unlock()
	if old != visible {
		f.notify(PropertyVisible, visible, old)
	}
	return f
}

// SetOptions replaces the option list. The field type is not checked.
func (f *Field) SetOptions(options []Option) *Field {
	next := cloneOptions(options)
	f.mu.Lock()
	old := f.settings.Options
	f.settings.Options = next
	f.mu.Unlock()
	f.notify(PropertyOptions, cloneOptions(next), old)
	return f
}

// SetLabel replaces the label.
func (f *Field) SetLabel(label string) *Field {
	f.mu.Lock()
	old := f.settings.Label
	f.settings.Label = label
	f.settings.HasLabel = true
	f.mu.Unlock()
	if old != label {
		f.notify(PropertyLabel, label, old)
	}
	return f
}

// SetNativeAttributes replaces the HTML passthrough attributes.
func (f *Field) SetNativeAttributes(attrs map[string]string) *Field {
	next := Settings{NativeAttributes: attrs}.Clone().NativeAttributes
	f.mu.Lock()
	old := f.settings.NativeAttributes
	f.settings.NativeAttributes = next
	f.mu.Unlock()
	f.notify(PropertyNativeAttributes, next, old)
	return f
}

// Watch registers a settings watcher. Watchers run synchronously after the
// mutation, in registration order.
func (f *Field) Watch(w SettingsWatcher) {
	if w == nil {
		return
	}
	f.mu.Lock()
	f.watchers = append(f.watchers, w)
	f.mu.Unlock()
}

func (f *Field) notify(property string, newValue, oldValue any) {
	f.mu.RLock()
	watchers := append([]SettingsWatcher(nil), f.watchers...)
	f.mu.RUnlock()
	for _, w := range watchers {
		w(property, newValue, oldValue)
	}
}

// IsFormInput reports whether the field renders as a native input element.
// Composite kinds, textarea and submit are excluded.
func (f *Field) IsFormInput() bool {
	_, ok := formInputTypes[f.Type()]
	return ok
}

func (f *Field) IsRadioGroup() bool    { return f.Type() == TypeRadioGroup }
func (f *Field) IsCheckboxGroup() bool { return f.Type() == TypeCheckboxGroup }
func (f *Field) IsSingleCheckbox() bool {
	return f.Type() == TypeCheckbox
}
func (f *Field) IsSingleRadio() bool { return f.Type() == TypeRadio }
func (f *Field) IsSingleCheckboxOrRadio() bool {
	t := f.Type()
	return t == TypeCheckbox || t == TypeRadio
}
func (f *Field) IsBtnSubmit() bool { return f.Type() == TypeSubmit }
func (f *Field) IsTextarea() bool  { return f.Type() == TypeTextarea }
func (f *Field) IsSwitch() bool    { return f.Type() == TypeSwitch }

// IsCustom reports whether the field is one of the composite kinds.
func (f *Field) IsCustom() bool {
	return f.Type().IsCustom()
}
