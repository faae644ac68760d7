package field

import (
	"strings"
)

const (
	segmentSeparator = "|"
	modifierLabel    = "label:"
	modifierOptions  = "options:"
	modifierHidden   = "hidden"
)

// Descriptor is a raw field definition: either an Inline string or a
// Structured value.
type Descriptor interface {
	settings() (Settings, error)
}

// Inline is the compact `name|type|modifier...` form.
type Inline string

func (d Inline) settings() (Settings, error) {
	return Parse(string(d))
}

// Structured is the object form of a descriptor. It is taken as-is: labels
// are optional and options are assigned later through SetOptions.
type Structured struct {
	Name  string `json:"name" yaml:"name"`
	Type  Type   `json:"type" yaml:"type"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

func (d Structured) settings() (Settings, error) {
	return Settings{
		Name:          d.Name,
		Type:          d.Type,
		TypeHTMLField: htmlType(d.Type),
		Label:         d.Label,
		HasLabel:      d.Label != "",
		Visible:       true,
	}, nil
}

// DescriptorName returns the registry key a descriptor resolves to without
// parsing modifiers.
func DescriptorName(d Descriptor) string {
	switch typed := d.(type) {
	case Inline:
		name, _, _ := strings.Cut(string(typed), segmentSeparator)
		return name
	case Structured:
		return typed.Name
	case *Structured:
		if typed == nil {
			return ""
		}
		return typed.Name
	default:
		return ""
	}
}

// Parse converts an inline descriptor into Settings. The first two segments
// (name and type) are mandatory; modifiers may appear in any order and
// unknown modifiers are ignored.
//
//	amount|number|label:Amount
//	sbp_phone|text|label:Phone|hidden
//	type|radio_group|options:card=Card,sbp=SBP
func Parse(raw string) (Settings, error) {
	segments := strings.Split(raw, segmentSeparator)
	if len(segments) < 2 {
		return Settings{}, &ParseError{Input: raw, Reason: "expected at least name and type segments"}
	}

	name := segments[0]
	if name == "" {
		return Settings{}, &ParseError{Input: raw, Reason: "empty name segment"}
	}
	if segments[1] == "" {
		return Settings{}, &ParseError{Input: raw, Reason: "empty type segment"}
	}
	typ, ok := ParseType(segments[1])
	if !ok {
		return Settings{}, &ParseError{Input: raw, Reason: "unknown type " + segments[1]}
	}

	settings := Settings{
		Name:          name,
		Type:          typ,
		TypeHTMLField: htmlType(typ),
		Visible:       true,
	}

	var options []Option
	for _, param := range segments[2:] {
		switch {
		case param == modifierHidden:
			settings.Visible = false
		case strings.HasPrefix(param, modifierLabel):
			if settings.HasLabel {
				continue
			}
			settings.Label = strings.TrimPrefix(param, modifierLabel)
			settings.HasLabel = true
		case strings.HasPrefix(param, modifierOptions):
			if typ != TypeCheckboxGroup && typ != TypeRadioGroup {
				continue
			}
			options = append(options, parseOptions(strings.TrimPrefix(param, modifierOptions))...)
		}
	}
	settings.Options = options

	return settings, nil
}

// parseOptions handles both `a,b,c` and `v1=t1,v2=t2` lists. The pair form is
// selected for the whole list as soon as any entry contains '='.
func parseOptions(spec string) []Option {
	if spec == "" {
		return nil
	}
	entries := strings.Split(spec, ",")
	paired := strings.Contains(spec, "=")
	out := make([]Option, 0, len(entries))
	for _, entry := range entries {
		if !paired {
			out = append(out, Option{Text: entry, Value: entry})
			continue
		}
		value, text, _ := strings.Cut(entry, "=")
		out = append(out, Option{Text: text, Value: value})
	}
	return out
}

func htmlType(t Type) Type {
	if t.IsCustom() {
		return t
	}
	return ""
}
