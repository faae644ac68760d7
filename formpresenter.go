package formpresenter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formpresenter/pkg/definition"
	"github.com/goliatone/go-formpresenter/pkg/field"
	"github.com/goliatone/go-formpresenter/pkg/observable"
	"github.com/goliatone/go-formpresenter/pkg/openapi"
	"github.com/goliatone/go-formpresenter/pkg/presenter"
)

// ErrUnknownForm is returned when a definition id is not present in a store.
var ErrUnknownForm = errors.New("formpresenter: unknown form")

// Form aliases presenter.Form for callers that only import the root package.
type Form = presenter.Form

// SubmitEvent aliases presenter.SubmitEvent.
type SubmitEvent = presenter.SubmitEvent

// Option aliases presenter.Option.
type Option = presenter.Option

// NewBuilder exposes the presenter builder constructor from the top-level
// module.
func NewBuilder(options ...Option) *presenter.Builder {
	return presenter.New(options...)
}

// LoadDefinitions loads form definitions from dir, or the embedded defaults
// when dir is empty.
func LoadDefinitions(dir string) (*definition.Store, error) {
	var fsys fs.FS
	if strings.TrimSpace(dir) == "" {
		fsys = definition.EmbeddedFS()
	} else {
		info, err := os.Stat(dir)
		if err != nil {
			return nil, fmt.Errorf("formpresenter: definitions: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("formpresenter: definitions: %s is not a directory", dir)
		}
		fsys = os.DirFS(dir)
	}
	store, err := definition.LoadFS(fsys)
	if err != nil {
		return nil, err
	}
	if store.Empty() {
		return nil, fmt.Errorf("formpresenter: no form definitions found in %q", dir)
	}
	return store, nil
}

// NewForm builds the form registered as id. values override the definition's
// model defaults before any trigger is compiled.
func NewForm(store *definition.Store, id string, values map[string]any, options ...Option) (*Form, error) {
	if store == nil {
		return nil, errors.New("formpresenter: store is nil")
	}
	def, ok := store.Form(id)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownForm, id)
	}
	var model *observable.Record
	if len(values) > 0 {
		model = observable.New(values, def.FieldNames()...)
	}
	return def.Builder(model, options...).Make()
}

// FormFromOpenAPI builds a form from the request body of an OpenAPI
// operation. Every property starts out in the model as nil unless values
// supplies it.
func FormFromOpenAPI(ctx context.Context, data []byte, operationID string, values map[string]any, options ...Option) (*Form, error) {
	descriptors, err := openapi.Descriptors(ctx, data, operationID)
	if err != nil {
		return nil, err
	}

	initial := make(map[string]any, len(descriptors))
	keys := make([]string, 0, len(descriptors))
	for _, d := range descriptors {
		name := field.DescriptorName(d)
		if name == "" {
			continue
		}
		if f, err := field.Make(d); err == nil && f.IsBtnSubmit() {
			continue
		}
		keys = append(keys, name)
		initial[name] = nil
	}
	for key, value := range values {
		initial[key] = value
	}

	return presenter.New(options...).
		Fields(descriptors...).
		FieldModel(observable.New(initial, keys...)).
		Make()
}
