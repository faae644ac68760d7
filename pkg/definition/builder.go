package definition

import (
	"github.com/goliatone/go-formpresenter/pkg/field"
	"github.com/goliatone/go-formpresenter/pkg/observable"
	"github.com/goliatone/go-formpresenter/pkg/presenter"
)

// Builder returns a presenter builder configured with the definition's
// fields, options and rules. A nil model is replaced by a record seeded with
// the definition's model values; keys a supplied model lacks are seeded from
// the definition before the builder is returned.
//
// Object entries marked hidden or carrying attributes, and the submit label,
// are applied through the builder's default-state callback, so callers replacing DefaultState take
// over that responsibility.
func (d Definition) Builder(model *observable.Record, opts ...presenter.Option) *presenter.Builder {
	if model == nil {
		model = observable.New(cloneValues(d.Model), d.modelKeys()...)
	} else {
		for _, key := range d.modelKeys() {
			if _, ok := model.Get(key); !ok {
				if value, declared := d.Model[key]; declared {
					model.Set(key, value)
				}
			}
		}
	}

	descriptors := make([]field.Descriptor, 0, len(d.Fields))
	for _, entry := range d.Fields {
		descriptors = append(descriptors, entry.Descriptor())
	}

	b := presenter.New(opts...).
		Fields(descriptors...).
		FieldModel(model)
	if len(d.Options) > 0 {
		b.Options(d.Options)
	}

	for _, rule := range d.Rules {
		target, hide := rule.Target()
		switch {
		case rule.When != "" && hide:
			b.FieldHideWhen(target, rule.Relate, rule.When)
		case rule.When != "":
			b.FieldShowWhen(target, rule.Relate, rule.When)
		case hide:
			b.FieldHideIf(target, rule.Relate, rule.Value)
		default:
			b.FieldShowIf(target, rule.Relate, rule.Value)
		}
	}

	if d.needsDefaultState() {
		b.DefaultState(d.defaultState)
	}
	return b
}

func (d Definition) needsDefaultState() bool {
	for _, entry := range d.Fields {
		if entry.Inline == "" && (entry.Hidden || len(entry.Attributes) > 0) {
			return true
		}
	}
	return d.SubmitLabel != ""
}

func (d Definition) defaultState(rc *presenter.FormRemoteControl) error {
	for _, entry := range d.Fields {
		if entry.Inline != "" {
			continue
		}
		ctl, err := rc.Field(entry.Name)
		if err != nil {
			return err
		}
		if entry.Hidden {
			ctl.Hide()
		}
		if len(entry.Attributes) > 0 {
			ctl.Field().SetNativeAttributes(entry.Attributes)
		}
	}
	if d.SubmitLabel == "" {
		return nil
	}
	for _, name := range d.FieldNames() {
		ctl, err := rc.Field(name)
		if err != nil {
			return err
		}
		f := ctl.Field()
		if _, labelled := f.Label(); f.IsBtnSubmit() && !labelled {
			f.SetLabel(d.SubmitLabel)
		}
	}
	return nil
}

// modelKeys orders the model keys by field declaration, then the remaining
// keys sorted.
func (d Definition) modelKeys() []string {
	keys := make([]string, 0, len(d.Model))
	seen := make(map[string]struct{}, len(d.Model))
	for _, name := range d.FieldNames() {
		if _, ok := d.Model[name]; ok {
			keys = append(keys, name)
			seen[name] = struct{}{}
		}
	}
	for _, key := range sortedIDs(d.Model) {
		if _, ok := seen[key]; !ok {
			keys = append(keys, key)
		}
	}
	return keys
}
