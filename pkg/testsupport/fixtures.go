package testsupport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formpresenter/pkg/definition"
	"github.com/goliatone/go-formpresenter/pkg/presenter"
)

// MustMakeForm builds the form and closes it when the test ends.
func MustMakeForm(t *testing.T, b *presenter.Builder) *presenter.Form {
	t.Helper()

	form, err := b.Make()
	if err != nil {
		t.Fatalf("make form: %v", err)
	}
	t.Cleanup(form.Close)
	return form
}

// MustLoadDefinition loads fsys and returns the definition registered as id.
func MustLoadDefinition(t *testing.T, fsys fs.FS, id string) definition.Definition {
	t.Helper()

	def, err := LoadDefinition(fsys, id)
	if err != nil {
		t.Fatalf("load definition: %v", err)
	}
	return def
}

// LoadDefinition is MustLoadDefinition for callers managing setup outside of
// *testing.T.
func LoadDefinition(fsys fs.FS, id string) (definition.Definition, error) {
	if id == "" {
		return definition.Definition{}, errors.New("testsupport: definition id is required")
	}
	store, err := definition.LoadFS(fsys)
	if err != nil {
		return definition.Definition{}, fmt.Errorf("testsupport: load definitions: %w", err)
	}
	def, ok := store.Form(id)
	if !ok {
		return definition.Definition{}, fmt.Errorf("testsupport: definition %q not found", id)
	}
	return def, nil
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
func WriteGolden(t *testing.T, path string, value any) {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, append(payload, '\n'), 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// CompareJSONGolden compares the JSON encoding of got with the golden file at
// path, ignoring formatting and key order. The golden is rewritten first when
// UPDATE_GOLDENS is set. It returns a diff, empty when equal.
func CompareJSONGolden(t *testing.T, path string, got any) string {
	t.Helper()

	WriteGolden(t, path, got)

	var want any
	if err := json.Unmarshal(MustReadGolden(t, path), &want); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	encoded, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var normalised any
	if err := json.Unmarshal(encoded, &normalised); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	return cmp.Diff(want, normalised)
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}
