package conversions

import (
	"github.com/pkg/errors"
)

// ErrShapeMismatch is returned, wrapped, whenever an array length or matrix shape does not match
// the dimension it is converted to.
var ErrShapeMismatch = errors.New("shape mismatch")

// NewShapeMismatchError describes a field whose length differs from the expected one.
func NewShapeMismatchError(field string, expected, actual int) error {
	return errors.Wrapf(ErrShapeMismatch, "%s: expected length %d, got %d", field, expected, actual)
}

// NewLayoutError describes a malformed multi-array layout.
func NewLayoutError(field, reason string) error {
	return errors.Wrapf(ErrShapeMismatch, "%s: %s", field, reason)
}

// withField prefixes every error in err with the name of the enclosing field.
func withField(field string, err error) error {
	if err == nil {
		return nil
	}
	return errors.WithMessage(err, field)
}
