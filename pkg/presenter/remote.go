package presenter

import (
	"github.com/goliatone/go-formpresenter/pkg/field"
	"github.com/goliatone/go-formpresenter/pkg/visibility"
)

// FormRemoteControl is the handle callbacks receive to inspect the model and
// mutate form-level state.
type FormRemoteControl struct {
	form *Form
}

// Field returns a remote control bound to the named field.
func (rc *FormRemoteControl) Field(name string) (*FieldRemoteControl, error) {
	f, ok := rc.form.lookup(name)
	if !ok {
		return nil, &FieldNotFoundError{Name: name, Op: "field"}
	}
	return &FieldRemoteControl{field: f}, nil
}

// MustField is like Field but panics with a *FieldNotFoundError when the name
// is not registered. Referencing an unknown field is a programming error.
func (rc *FormRemoteControl) MustField(name string) *FieldRemoteControl {
	ctl, err := rc.Field(name)
	if err != nil {
		panic(err)
	}
	return ctl
}

// IsVal reports whether the model value at name loosely equals value.
func (rc *FormRemoteControl) IsVal(name string, value any) bool {
	current, _ := rc.form.model.Get(name)
	return visibility.LooseEqual(current, value)
}

// Value returns the model value at name.
func (rc *FormRemoteControl) Value(name string) (any, bool) {
	return rc.form.model.Get(name)
}

// OffImgLoader clears the loading flag set by FireSubmit.
func (rc *FormRemoteControl) OffImgLoader() *FormRemoteControl {
	rc.form.setLoading(false)
	return rc
}

// HideForm clears the form visibility flag. It always returns false, so it
// can end a submit callback chain but not continue one.
func (rc *FormRemoteControl) HideForm() bool {
	rc.form.setFormVisible(false)
	return false
}

// IsLoading reports the loading flag.
func (rc *FormRemoteControl) IsLoading() bool { return rc.form.IsLoading() }

// IsFormVisible reports the form visibility flag.
func (rc *FormRemoteControl) IsFormVisible() bool { return rc.form.IsFormVisible() }

// FieldRemoteControl mutates the visibility of one field.
type FieldRemoteControl struct {
	field *field.Field
}

func (c *FieldRemoteControl) Hide() *FieldRemoteControl {
	c.field.SetVisible(false)
	return c
}

func (c *FieldRemoteControl) Show() *FieldRemoteControl {
	c.field.SetVisible(true)
	return c
}

// Mount makes the field visible. Enabled state is not tracked separately.
func (c *FieldRemoteControl) Mount() *FieldRemoteControl { return c.Show() }

// Unmount hides the field.
func (c *FieldRemoteControl) Unmount() *FieldRemoteControl { return c.Hide() }

// Field exposes the bound field for inspection.
func (c *FieldRemoteControl) Field() *field.Field { return c.field }
