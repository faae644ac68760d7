package presenter

import (
	"fmt"

	"github.com/goliatone/go-formpresenter/pkg/field"
	"github.com/goliatone/go-formpresenter/pkg/observable"
	"github.com/goliatone/go-formpresenter/pkg/visibility"
)

// TriggerFunc runs when the model value of the key it is registered for
// changes.
type TriggerFunc func(newValue, oldValue any, rc *FormRemoteControl)

// SubmitFunc handles a submit event. Network calls belong here.
type SubmitFunc func(event SubmitEvent, rc *FormRemoteControl) error

// DefaultStateFunc adjusts field state once the fields are built, before
// rules are compiled.
type DefaultStateFunc func(rc *FormRemoteControl) error

// SettingsWatcherFunc observes settings changes of a single field.
type SettingsWatcherFunc func(newValue, oldValue any, property string, rc *FormRemoteControl)

type watchEntry struct {
	key string
	fn  TriggerFunc
}

type optionEntry struct {
	name    string
	options []field.Option
}

type settingsEntry struct {
	name string
	fn   SettingsWatcherFunc
}

// Builder accumulates form configuration. Setup methods only record data and
// return the builder; Make validates the configuration and returns the live
// Form. A Builder can be made once.
type Builder struct {
	descriptors      []field.Descriptor
	model            *observable.Record
	watches          []watchEntry
	options          []optionEntry
	rules            []Rule
	settingsWatchers []settingsEntry
	defaultState     DefaultStateFunc
	submit           SubmitFunc
	logger           Logger
	evaluator        visibility.Evaluator
	extras           map[string]any
	built            bool
}

// New returns an empty Builder.
func New(opts ...Option) *Builder {
	b := &Builder{
		logger:    nopLogger{},
		evaluator: defaultEvaluator(),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(b)
	}
	return b
}

// Fields appends field descriptors. Later descriptors with a name already
// registered replace the earlier field.
func (b *Builder) Fields(descriptors ...field.Descriptor) *Builder {
	b.descriptors = append(b.descriptors, descriptors...)
	return b
}

// FieldModel binds the data model. Without one the form gets an empty record.
func (b *Builder) FieldModel(model *observable.Record) *Builder {
	b.model = model
	return b
}

// WatchFields registers triggers keyed by model key. Keys are registered in
// sorted order; use Watch when the order across keys matters.
func (b *Builder) WatchFields(triggers map[string]TriggerFunc) *Builder {
	for _, key := range sortedKeys(triggers) {
		b.Watch(key, triggers[key])
	}
	return b
}

// Watch registers a single trigger for key.
func (b *Builder) Watch(key string, fn TriggerFunc) *Builder {
	if fn != nil {
		b.watches = append(b.watches, watchEntry{key: key, fn: fn})
	}
	return b
}

// DefaultState sets the callback run after the fields are built.
func (b *Builder) DefaultState(fn DefaultStateFunc) *Builder {
	b.defaultState = fn
	return b
}

// Submit sets the submit handler.
func (b *Builder) Submit(fn SubmitFunc) *Builder {
	b.submit = fn
	return b
}

// Options assigns option lists to fields by name. Targets must exist once
// fields are built.
func (b *Builder) Options(fieldOptions map[string][]field.Option) *Builder {
	for _, name := range sortedKeys(fieldOptions) {
		b.options = append(b.options, optionEntry{name: name, options: fieldOptions[name]})
	}
	return b
}

// FieldHideIf hides target while the model value at relate equals value and
// shows it otherwise. value may be a MatchFunc for custom comparisons.
func (b *Builder) FieldHideIf(target, relate string, value any) *Builder {
	return b.Rule(newRule(ActionHide, target, relate, value))
}

// FieldShowIf is the inverse of FieldHideIf.
func (b *Builder) FieldShowIf(target, relate string, value any) *Builder {
	return b.Rule(newRule(ActionShow, target, relate, value))
}

// FieldHideWhen hides target while the expression rule holds, re-evaluating
// whenever the model value at relate changes.
func (b *Builder) FieldHideWhen(target, relate, rule string) *Builder {
	return b.Rule(Rule{Target: target, Relate: relate, Action: ActionHide, Expression: rule})
}

// FieldShowWhen is the inverse of FieldHideWhen.
func (b *Builder) FieldShowWhen(target, relate, rule string) *Builder {
	return b.Rule(Rule{Target: target, Relate: relate, Action: ActionShow, Expression: rule})
}

// Rule appends a prepared visibility rule.
func (b *Builder) Rule(rule Rule) *Builder {
	b.rules = append(b.rules, rule)
	return b
}

// WatcherFieldSettings registers settings watchers keyed by field name.
func (b *Builder) WatcherFieldSettings(watchers map[string]SettingsWatcherFunc) *Builder {
	for _, name := range sortedKeys(watchers) {
		if fn := watchers[name]; fn != nil {
			b.settingsWatchers = append(b.settingsWatchers, settingsEntry{name: name, fn: fn})
		}
	}
	return b
}

func newRule(action Action, target, relate string, value any) Rule {
	rule := Rule{Target: target, Relate: relate, Action: action}
	switch typed := value.(type) {
	case MatchFunc:
		rule.Match = typed
	case func(newValue, oldValue any, rc *FormRemoteControl) bool:
		rule.Match = typed
	default:
		rule.Value = value
	}
	return rule
}

// Make builds the fields, runs the default-state callback, compiles rules and
// watchers into triggers, then starts observing the model. Any error leaves
// no observers attached.
func (b *Builder) Make() (*Form, error) {
	if b.built {
		return nil, ErrAlreadyBuilt
	}

	model := b.model
	if model == nil {
		model = observable.New(nil)
	}
	form := &Form{
		registry:    make(map[string]*field.Field),
		model:       model,
		triggers:    make(map[string][]TriggerFunc),
		submit:      b.submit,
		formVisible: true,
		logger:      b.logger,
	}
	form.rc = &FormRemoteControl{form: form}

	if err := b.fieldBuild(form); err != nil {
		return nil, err
	}
	if err := b.validate(form); err != nil {
		return nil, err
	}
	b.logger.Printf("presenter: built %d fields", len(form.order))

	if b.defaultState != nil {
		if err := b.defaultState(form.rc); err != nil {
			return nil, fmt.Errorf("presenter: default state: %w", err)
		}
	}

	rules := b.compiled(form)
	b.makeTriggers(form, rules)
	b.logger.Printf("presenter: compiled %d rules into %d trigger keys", len(rules), len(form.triggers))

	form.applyInitialRules(rules)
	form.observe()
	b.attachSettingsWatchers(form)

	b.built = true
	return form, nil
}

func (b *Builder) fieldBuild(form *Form) error {
	for _, d := range b.descriptors {
		f, err := field.Make(d)
		if err != nil {
			return fmt.Errorf("presenter: build fields: %w", err)
		}
		form.register(f)
	}
	for _, entry := range b.options {
		f, ok := form.lookup(entry.name)
		if !ok {
			return &FieldNotFoundError{Name: entry.name, Op: "options"}
		}
		f.SetOptions(entry.options)
	}
	return nil
}

func (b *Builder) validate(form *Form) error {
	for _, rule := range b.rules {
		op := "fieldHideIf"
		if rule.Action == ActionShow {
			op = "fieldShowIf"
		}
		if _, ok := form.lookup(rule.Target); !ok {
			return &FieldNotFoundError{Name: rule.Target, Op: op}
		}
		if _, ok := form.lookup(rule.Relate); !ok {
			return &FieldNotFoundError{Name: rule.Relate, Op: op}
		}
		if rule.Expression == "" {
			continue
		}
		if c, ok := b.evaluator.(compiler); ok {
			if err := c.Compile(rule.Expression); err != nil {
				return fmt.Errorf("presenter: rule for %q: %w", rule.Target, err)
			}
		}
	}
	for _, entry := range b.settingsWatchers {
		if _, ok := form.lookup(entry.name); !ok {
			return &FieldNotFoundError{Name: entry.name, Op: "watcherFieldSettings"}
		}
	}
	return nil
}

// compiled resolves expression rules into MatchFuncs.
func (b *Builder) compiled(form *Form) []Rule {
	out := make([]Rule, len(b.rules))
	for i, rule := range b.rules {
		if rule.Expression != "" && rule.Match == nil {
			expression := rule.Expression
			target := rule.Target
			rule.Match = When(b.evaluator, rule.Target, rule.Relate, expression, b.extras, func(err error) {
				form.logger.Printf("presenter: rule for %q: %v", target, err)
			})
		}
		out[i] = rule
	}
	return out
}

// makeTriggers fills the trigger table: watchers first, then rules, each in
// registration order.
func (b *Builder) makeTriggers(form *Form, rules []Rule) {
	for _, entry := range b.watches {
		form.triggers[entry.key] = append(form.triggers[entry.key], entry.fn)
	}
	for _, rule := range rules {
		rule := rule
		form.triggers[rule.Relate] = append(form.triggers[rule.Relate], rule.apply)
	}
	form.rules = rules
}

func (b *Builder) attachSettingsWatchers(form *Form) {
	for _, entry := range b.settingsWatchers {
		entry := entry
		f, _ := form.lookup(entry.name)
		f.Watch(func(property string, newValue, oldValue any) {
			entry.fn(newValue, oldValue, property, form.rc)
		})
	}
}
