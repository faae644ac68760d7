package presenter

import (
	"errors"
	"fmt"
)

var (
	// ErrFieldNotFound is matched by every *FieldNotFoundError via errors.Is.
	ErrFieldNotFound = errors.New("presenter: field not found")
	// ErrAlreadyBuilt is returned when Make is called twice on one builder.
	ErrAlreadyBuilt = errors.New("presenter: form already built")
)

// FieldNotFoundError reports a reference to a field name that is not in the
// registry. Op names the operation that dereferenced it.
type FieldNotFoundError struct {
	Name string
	Op   string
}

func (e *FieldNotFoundError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("presenter: field %q not found", e.Name)
	}
	return fmt.Sprintf("presenter: %s: field %q not found", e.Op, e.Name)
}

// Is lets errors.Is(err, ErrFieldNotFound) match any FieldNotFoundError.
func (e *FieldNotFoundError) Is(target error) bool {
	return target == ErrFieldNotFound
}
