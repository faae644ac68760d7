package definition

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formpresenter/pkg/field"
)

// Option customises LoadFS.
type Option func(*loader)

type loader struct {
	pattern string
}

// WithPattern restricts loading to files whose base name matches the glob
// pattern (path.Match syntax).
func WithPattern(pattern string) Option {
	return func(l *loader) {
		l.pattern = strings.TrimSpace(pattern)
	}
}

// LoadFS walks the provided filesystem and parses JSON/YAML form definition
// files. When fsys is nil or holds no definition files the store is empty.
func LoadFS(fsys fs.FS, opts ...Option) (*Store, error) {
	cfg := &loader{}
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	if cfg.pattern != "" {
		if _, err := path.Match(cfg.pattern, ""); err != nil {
			return nil, fmt.Errorf("definition: pattern %q: %w", cfg.pattern, err)
		}
	}

	store := &Store{forms: make(map[string]Definition)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(p) {
			return nil
		}
		if cfg.pattern != "" {
			if ok, _ := path.Match(cfg.pattern, path.Base(p)); !ok {
				return nil
			}
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("definition: read %s: %w", p, err)
		}
		doc, err := parseDocument(data, p)
		if err != nil {
			return err
		}

		for _, rawID := range sortedIDs(doc.Forms) {
			id := strings.TrimSpace(rawID)
			if id == "" {
				return fmt.Errorf("definition: file %s defines an empty form id", p)
			}
			if _, exists := store.forms[id]; exists {
				return fmt.Errorf("definition: duplicate form %q (file %s)", id, p)
			}
			def, err := normaliseForm(doc.Forms[rawID], id, p)
			if err != nil {
				return err
			}
			store.forms[id] = def
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Form returns the definition registered under id.
func (s *Store) Form(id string) (Definition, bool) {
	if s == nil {
		return Definition{}, false
	}
	def, ok := s.forms[id]
	return def, ok
}

// IDs returns the form ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	return sortedIDs(s.forms)
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("definition: file %s is empty", source)
	}

	jsonErr := json.Unmarshal(data, &doc)
	if jsonErr == nil {
		return doc, nil
	}
	doc = documentFile{}
	yamlErr := yaml.Unmarshal(data, &doc)
	if yamlErr == nil {
		return doc, nil
	}
	if isJSONFile(source) {
		return documentFile{}, fmt.Errorf("definition: parse %s: %w", source, jsonErr)
	}
	return documentFile{}, fmt.Errorf("definition: parse %s: %w", source, yamlErr)
}

func normaliseForm(raw formFile, id, source string) (Definition, error) {
	if len(raw.Fields) == 0 {
		return Definition{}, fmt.Errorf("definition: form %q (file %s) declares no fields", id, source)
	}

	def := Definition{
		ID:          id,
		Source:      source,
		Title:       raw.Title,
		SubmitLabel: raw.SubmitLabel,
		Fields:      make([]FieldEntry, 0, len(raw.Fields)),
		Model:       cloneValues(raw.Model),
		Options:     make(map[string][]field.Option),
		Rules:       append([]RuleEntry(nil), raw.Rules...),
	}

	names := make(map[string]struct{}, len(raw.Fields))
	for idx, entry := range raw.Fields {
		if err := validateEntry(entry); err != nil {
			return Definition{}, fmt.Errorf("definition: form %q (file %s) field %d: %w", id, source, idx, err)
		}
		names[entry.FieldName()] = struct{}{}
		if len(entry.Options) > 0 {
			def.Options[entry.FieldName()] = append([]field.Option(nil), entry.Options...)
		}
		def.Fields = append(def.Fields, cloneEntry(entry))
	}

	for name, options := range raw.Options {
		if _, ok := names[name]; !ok {
			return Definition{}, fmt.Errorf("definition: form %q (file %s) options reference unknown field %q", id, source, name)
		}
		def.Options[name] = append([]field.Option(nil), options...)
	}

	for idx, rule := range raw.Rules {
		if err := validateRule(rule, names); err != nil {
			return Definition{}, fmt.Errorf("definition: form %q (file %s) rule %d: %w", id, source, idx, err)
		}
	}
	return def, nil
}

func validateEntry(entry FieldEntry) error {
	if entry.Inline != "" {
		_, err := field.Parse(entry.Inline)
		return err
	}
	if strings.TrimSpace(entry.Name) == "" {
		return fmt.Errorf("field name is required")
	}
	if _, ok := field.ParseType(string(entry.Type)); !ok && entry.Type != field.TypeSwitchGroup {
		return fmt.Errorf("field %q has unknown type %q", entry.Name, entry.Type)
	}
	return nil
}

func validateRule(rule RuleEntry, names map[string]struct{}) error {
	if (rule.Hide == "") == (rule.Show == "") {
		return fmt.Errorf("exactly one of hide and show is required")
	}
	target, _ := rule.Target()
	if _, ok := names[target]; !ok {
		return fmt.Errorf("unknown target field %q", target)
	}
	if _, ok := names[rule.Relate]; !ok {
		return fmt.Errorf("unknown relate field %q", rule.Relate)
	}
	return nil
}

func cloneEntry(entry FieldEntry) FieldEntry {
	out := entry
	if len(entry.Options) > 0 {
		out.Options = append([]field.Option(nil), entry.Options...)
	}
	if len(entry.Attributes) > 0 {
		out.Attributes = make(map[string]string, len(entry.Attributes))
		for k, v := range entry.Attributes {
			out.Attributes[k] = v
		}
	}
	return out
}

func cloneValues(src map[string]any) map[string]any {
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = v
	}
	return out
}

func isDefinitionFile(p string) bool {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func isJSONFile(p string) bool {
	return strings.EqualFold(filepath.Ext(p), ".json")
}

func sortedIDs[V any](m map[string]V) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
