// Package presenter wires field descriptors, a data model and declarative
// visibility rules into a live form.
//
// A Builder collects configuration; Make turns it into a Form:
//
//	model := observable.New(map[string]any{"type": "card"})
//	form, err := presenter.New().
//		Fields(
//			field.Inline("type|radio_group|options:card=Card,sbp=SBP"),
//			field.Inline("sbp_phone|text|label:Phone|hidden"),
//		).
//		FieldModel(model).
//		FieldShowIf("sbp_phone", "type", "sbp").
//		Make()
//
//	model.Set("type", "sbp") // sbp_phone becomes visible
//
// Make runs, in order: field construction and option assignment, the
// default-state callback, rule compilation, and model observation. Triggers
// for a key run synchronously in registration order; watchers registered
// with WatchFields come before rules.
package presenter
