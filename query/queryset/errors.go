package queryset

import (
	"errors"
	"fmt"

	"github.com/quillorm/quill/model"
)

var (
	// ErrDoesNotExist is returned by Get when no row matches.
	ErrDoesNotExist = errors.New("queryset: object does not exist")
	// ErrMultipleObjectsReturned is returned by Get when the predicate
	// matches more than one row.
	ErrMultipleObjectsReturned = errors.New("queryset: multiple objects returned")
	// ErrIndexOutOfRange is returned by At for positions outside the
	// fetched window.
	ErrIndexOutOfRange = errors.New("queryset: index out of range")
)

// TypeMismatchError reports a column value that cannot convert to the
// declared field type during materialization.
type TypeMismatchError struct {
	Field string
	Type  model.FieldType
	Value interface{}
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("queryset: field %q: cannot convert %T value to %s", e.Field, e.Value, e.Type)
}
