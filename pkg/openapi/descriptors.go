package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formpresenter/pkg/field"
)

var (
	// ErrOperationNotFound is returned when no operation matches the id.
	ErrOperationNotFound = errors.New("openapi: operation not found")
	// ErrNoRequestBody is returned when the operation has no usable request
	// body schema.
	ErrNoRequestBody = errors.New("openapi: operation has no request body schema")
)

// extensionNamespace holds per-property overrides: type, label and hidden.
const extensionNamespace = "x-formpresenter"

var preferredMediaTypes = []string{
	"application/json",
	"application/x-www-form-urlencoded",
	"multipart/form-data",
}

// Descriptors loads data as an OpenAPI 3 document and maps the request body
// properties of operationID to inline descriptors. Required properties come
// first, each group sorted by name. Object and array properties are skipped
// along with read-only ones. Operations without an operationId are addressed
// as "<method>:<path>", for example "post:/orders".
func Descriptors(ctx context.Context, data []byte, operationID string, opts ...Option) ([]field.Descriptor, error) {
	cfg := newConfig(opts)
	spec, err := load(ctx, data, cfg)
	if err != nil {
		return nil, err
	}

	operation := findOperation(spec, operationID)
	if operation == nil {
		return nil, fmt.Errorf("%w: %q", ErrOperationNotFound, operationID)
	}
	schema := requestSchema(operation)
	if schema == nil {
		return nil, fmt.Errorf("%w: %q", ErrNoRequestBody, operationID)
	}

	properties, required := collectProperties(schema)
	names := orderProperties(properties, required)

	out := make([]field.Descriptor, 0, len(names)+1)
	for _, name := range names {
		inline, ok := describe(name, properties[name])
		if !ok {
			continue
		}
		out = append(out, field.Inline(inline))
	}

	submit := "submit|submit"
	if label := sanitiseSegment(cfg.submitLabel); label != "" {
		submit += "|label:" + label
	}
	out = append(out, field.Inline(submit))
	return out, nil
}

// Operations lists the operation ids of the document in sorted order.
func Operations(ctx context.Context, data []byte, opts ...Option) ([]string, error) {
	spec, err := load(ctx, data, newConfig(opts))
	if err != nil {
		return nil, err
	}
	var ids []string
	forEachOperation(spec, func(id string, _ *openapi3.Operation) bool {
		ids = append(ids, id)
		return true
	})
	sort.Strings(ids)
	return ids, nil
}

func load(ctx context.Context, data []byte, cfg config) (*openapi3.T, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: cfg.externalRefs,
	}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if cfg.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}
	return spec, nil
}

func findOperation(spec *openapi3.T, operationID string) *openapi3.Operation {
	var found *openapi3.Operation
	forEachOperation(spec, func(id string, op *openapi3.Operation) bool {
		if id == operationID {
			found = op
			return false
		}
		return true
	})
	return found
}

// forEachOperation visits operations in path then method order until fn
// returns false.
func forEachOperation(spec *openapi3.T, fn func(id string, op *openapi3.Operation) bool) {
	if spec == nil || spec.Paths == nil {
		return
	}
	paths := spec.Paths.Map()
	keys := make([]string, 0, len(paths))
	for path := range paths {
		keys = append(keys, path)
	}
	sort.Strings(keys)

	for _, path := range keys {
		item := paths[path]
		if item == nil {
			continue
		}
		operations := item.Operations()
		methods := make([]string, 0, len(operations))
		for method := range operations {
			methods = append(methods, method)
		}
		sort.Strings(methods)
		for _, method := range methods {
			op := operations[method]
			if op == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			if !fn(id, op) {
				return
			}
		}
	}
}

func requestSchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	content := operation.RequestBody.Value.Content
	for _, mediaType := range preferredMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema.Value
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mt.Schema.Value
		}
	}
	return nil
}

// collectProperties flattens properties and required names, following allOf.
func collectProperties(schema *openapi3.Schema) (map[string]*openapi3.Schema, map[string]struct{}) {
	properties := make(map[string]*openapi3.Schema)
	required := make(map[string]struct{})

	var walk func(s *openapi3.Schema)
	walk = func(s *openapi3.Schema) {
		if s == nil {
			return
		}
		for name, ref := range s.Properties {
			if ref != nil && ref.Value != nil {
				properties[name] = ref.Value
			}
		}
		for _, name := range s.Required {
			required[name] = struct{}{}
		}
		for _, ref := range s.AllOf {
			if ref != nil {
				walk(ref.Value)
			}
		}
	}
	walk(schema)
	return properties, required
}

func orderProperties(properties map[string]*openapi3.Schema, required map[string]struct{}) []string {
	var first, rest []string
	for name := range properties {
		if _, ok := required[name]; ok {
			first = append(first, name)
		} else {
			rest = append(rest, name)
		}
	}
	sort.Strings(first)
	sort.Strings(rest)
	return append(first, rest...)
}

// describe renders one property as an inline descriptor.
func describe(name string, schema *openapi3.Schema) (string, bool) {
	if schema.ReadOnly || strings.ContainsAny(name, "|") {
		return "", false
	}
	overrides := extensions(schema)

	typ, options, ok := mapType(schema)
	if !ok {
		return "", false
	}
	if raw, ok := overrides["type"].(string); ok {
		if parsed, known := field.ParseType(raw); known {
			typ = parsed
		}
	}

	segments := []string{name, string(typ)}
	label := schema.Title
	if raw, ok := overrides["label"].(string); ok {
		label = raw
	}
	if label = sanitiseSegment(label); label != "" {
		segments = append(segments, "label:"+label)
	}
	if hidden, _ := overrides["hidden"].(bool); hidden {
		segments = append(segments, "hidden")
	}
	if len(options) > 0 && (typ == field.TypeRadioGroup || typ == field.TypeCheckboxGroup) {
		segments = append(segments, "options:"+strings.Join(options, ","))
	}
	return strings.Join(segments, "|"), true
}

func mapType(schema *openapi3.Schema) (field.Type, []string, bool) {
	if len(schema.Enum) > 0 {
		options := make([]string, 0, len(schema.Enum))
		for _, value := range schema.Enum {
			options = append(options, optionSegment(fmt.Sprint(value)))
		}
		return field.TypeRadioGroup, options, true
	}

	switch {
	case schema.Type == nil:
		return field.TypeText, nil, true
	case schema.Type.Is(openapi3.TypeBoolean):
		return field.TypeCheckbox, nil, true
	case schema.Type.Is(openapi3.TypeInteger), schema.Type.Is(openapi3.TypeNumber):
		return field.TypeNumber, nil, true
	case schema.Type.Is(openapi3.TypeString):
		switch strings.ToLower(schema.Format) {
		case "email":
			return field.TypeEmail, nil, true
		case "date":
			return field.TypeDate, nil, true
		case "date-time":
			return field.TypeDateTimeLocal, nil, true
		}
		return field.TypeText, nil, true
	case schema.Type.Is(openapi3.TypeArray):
		if schema.Items != nil && schema.Items.Value != nil && len(schema.Items.Value.Enum) > 0 {
			_, options, _ := mapType(schema.Items.Value)
			return field.TypeCheckboxGroup, options, true
		}
		return "", nil, false
	default:
		return "", nil, false
	}
}

func extensions(schema *openapi3.Schema) map[string]any {
	raw, ok := schema.Extensions[extensionNamespace]
	if !ok {
		return nil
	}
	mapped, _ := raw.(map[string]any)
	return mapped
}

// sanitiseSegment strips characters that would split an inline descriptor.
func sanitiseSegment(value string) string {
	return strings.TrimSpace(strings.ReplaceAll(value, "|", "/"))
}

func optionSegment(value string) string {
	return strings.NewReplacer("|", "/", ",", " ", "=", "-").Replace(strings.TrimSpace(value))
}
