package definition

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formpresenter/pkg/field"
)

// Definition is a normalised form definition.
type Definition struct {
	ID          string
	Source      string
	Title       string
	SubmitLabel string
	Fields      []FieldEntry
	Model       map[string]any
	Options     map[string][]field.Option
	Rules       []RuleEntry
}

// FieldEntry is one field of a definition. It decodes from either an inline
// descriptor string or an object.
type FieldEntry struct {
	Inline     string            `json:"-" yaml:"-"`
	Name       string            `json:"name" yaml:"name"`
	Type       field.Type        `json:"type" yaml:"type"`
	Label      string            `json:"label,omitempty" yaml:"label,omitempty"`
	Hidden     bool              `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Options    []field.Option    `json:"options,omitempty" yaml:"options,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type fieldObject FieldEntry

// UnmarshalJSON accepts a string or an object.
func (e *FieldEntry) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var inline string
		if err := json.Unmarshal(trimmed, &inline); err != nil {
			return err
		}
		*e = FieldEntry{Inline: inline}
		return nil
	}
	var obj fieldObject
	if err := json.Unmarshal(trimmed, &obj); err != nil {
		return err
	}
	*e = FieldEntry(obj)
	return nil
}

// UnmarshalYAML accepts a scalar or a mapping.
func (e *FieldEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*e = FieldEntry{Inline: node.Value}
		return nil
	case yaml.MappingNode:
		var obj fieldObject
		if err := node.Decode(&obj); err != nil {
			return err
		}
		*e = FieldEntry(obj)
		return nil
	default:
		return fmt.Errorf("line %d: field entry must be a string or a mapping", node.Line)
	}
}

// Descriptor returns the field descriptor the entry resolves to.
func (e FieldEntry) Descriptor() field.Descriptor {
	if e.Inline != "" {
		return field.Inline(e.Inline)
	}
	return field.Structured{Name: e.Name, Type: e.Type, Label: e.Label}
}

// FieldName returns the registry key the entry resolves to.
func (e FieldEntry) FieldName() string {
	return field.DescriptorName(e.Descriptor())
}

// RuleEntry is a declarative visibility rule. Exactly one of Hide and Show
// names the target; When, when set, replaces the Value comparison with an
// expression.
type RuleEntry struct {
	Hide   string `json:"hide,omitempty" yaml:"hide,omitempty"`
	Show   string `json:"show,omitempty" yaml:"show,omitempty"`
	Relate string `json:"relate" yaml:"relate"`
	Value  any    `json:"value,omitempty" yaml:"value,omitempty"`
	When   string `json:"when,omitempty" yaml:"when,omitempty"`
}

// Target returns the rule target and whether it hides on match.
func (r RuleEntry) Target() (string, bool) {
	if r.Hide != "" {
		return r.Hide, true
	}
	return r.Show, false
}

// FieldNames returns the field names in declaration order.
func (d Definition) FieldNames() []string {
	names := make([]string, 0, len(d.Fields))
	for _, entry := range d.Fields {
		names = append(names, entry.FieldName())
	}
	return names
}

// Store holds the definitions loaded from a filesystem.
type Store struct {
	forms map[string]Definition
}

type documentFile struct {
	Forms map[string]formFile `json:"forms" yaml:"forms"`
}

type formFile struct {
	Title       string                    `json:"title" yaml:"title"`
	SubmitLabel string                    `json:"submitLabel" yaml:"submitLabel"`
	Fields      []FieldEntry              `json:"fields" yaml:"fields"`
	Model       map[string]any            `json:"model" yaml:"model"`
	Options     map[string][]field.Option `json:"options" yaml:"options"`
	Rules       []RuleEntry               `json:"rules" yaml:"rules"`
}
