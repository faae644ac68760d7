package definition

import (
	"embed"
	"io/fs"
)

//go:embed forms/*.yaml
var embeddedForms embed.FS

// EmbeddedFS returns the bundled form definitions. Callers may pass this
// filesystem to LoadFS to use the default forms.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedForms, "forms")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}
