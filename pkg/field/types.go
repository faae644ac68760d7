package field

// Type enumerates the field kinds accepted by the inline grammar.
type Type string

const (
	TypeText          Type = "text"
	TypeNumber        Type = "number"
	TypeEmail         Type = "email"
	TypeRadio         Type = "radio"
	TypeHidden        Type = "hidden"
	TypeRadioGroup    Type = "radio_group"
	TypeCheckbox      Type = "checkbox"
	TypeCheckboxGroup Type = "checkbox_group"
	TypeSwitch        Type = "switch"
	TypeTextarea      Type = "textarea"
	TypeRange         Type = "range"
	TypeDate          Type = "date"
	TypeDateTimeLocal Type = "datetime-local"
	TypeSubmit        Type = "submit"

	// TypeSwitchGroup is never produced by the inline parser but is treated
	// as a custom kind when supplied through a structured descriptor.
	TypeSwitchGroup Type = "switch_group"
)

var knownTypes = []Type{
	TypeText,
	TypeNumber,
	TypeEmail,
	TypeRadio,
	TypeHidden,
	TypeRadioGroup,
	TypeCheckbox,
	TypeCheckboxGroup,
	TypeSwitch,
	TypeTextarea,
	TypeRange,
	TypeDate,
	TypeDateTimeLocal,
	TypeSubmit,
}

// customTypes render through dedicated components rather than a native input.
var customTypes = map[Type]struct{}{
	TypeCheckboxGroup: {},
	TypeRadioGroup:    {},
	TypeSwitch:        {},
	TypeSwitchGroup:   {},
}

var formInputTypes = map[Type]struct{}{
	TypeText:          {},
	TypeNumber:        {},
	TypeEmail:         {},
	TypeRadio:         {},
	TypeHidden:        {},
	TypeCheckbox:      {},
	TypeRange:         {},
	TypeDate:          {},
	TypeDateTimeLocal: {},
}

// Types returns the inline grammar's type enumeration in declaration order.
func Types() []Type {
	return append([]Type(nil), knownTypes...)
}

// ParseType resolves raw against the type enumeration.
func ParseType(raw string) (Type, bool) {
	for _, t := range knownTypes {
		if string(t) == raw {
			return t, true
		}
	}
	return "", false
}

// IsCustom reports whether t is one of the composite kinds.
func (t Type) IsCustom() bool {
	_, ok := customTypes[t]
	return ok
}

// Option is a single choice of a checkbox or radio group.
type Option struct {
	Text  string `json:"text" yaml:"text"`
	Value string `json:"value" yaml:"value"`
}

// Settings is the normalised configuration of a field.
type Settings struct {
	Name string `json:"name"`
	Type Type   `json:"type"`
	// TypeHTMLField equals Type for custom kinds and is empty otherwise.
	TypeHTMLField    Type              `json:"typeHtmlField,omitempty"`
	Label            string            `json:"label,omitempty"`
	HasLabel         bool              `json:"-"`
	Visible          bool              `json:"visible"`
	Options          []Option          `json:"options,omitempty"`
	NativeAttributes map[string]string `json:"nativeAttributes,omitempty"`
}

// Clone returns a deep copy of s.
func (s Settings) Clone() Settings {
	out := s
	out.Options = cloneOptions(s.Options)
	if s.NativeAttributes != nil {
		out.NativeAttributes = make(map[string]string, len(s.NativeAttributes))
		for k, v := range s.NativeAttributes {
			out.NativeAttributes[k] = v
		}
	}
	return out
}

func cloneOptions(options []Option) []Option {
	if options == nil {
		return nil
	}
	return append([]Option{}, options...)
}
