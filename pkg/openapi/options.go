package openapi

// Option customises descriptor extraction.
type Option func(*config)

type config struct {
	validate     bool
	externalRefs bool
	submitLabel  string
}

func newConfig(opts []Option) config {
	cfg := config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithValidation validates the document (examples excluded) before
// extracting descriptors.
func WithValidation() Option {
	return func(c *config) {
		c.validate = true
	}
}

// WithExternalRefs allows the loader to resolve references to other
// documents.
func WithExternalRefs() Option {
	return func(c *config) {
		c.externalRefs = true
	}
}

// WithSubmitLabel labels the trailing submit descriptor.
func WithSubmitLabel(label string) Option {
	return func(c *config) {
		c.submitLabel = label
	}
}
