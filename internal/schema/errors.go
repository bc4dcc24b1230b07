package schema

import (
	"errors"
	"fmt"
)

var (
	ErrContentTypeNameRequired = errors.New("schema: content type name is required")
	ErrContentTypeInUse        = errors.New("schema: content type has instances and cannot be deleted")
	ErrFieldNameRequired       = errors.New("schema: field name is required")
	ErrFieldTypeInvalid        = errors.New("schema: unknown field type")
	ErrFieldAPIIDTaken         = errors.New("schema: field api_id already used on this content type")
	ErrSelectOptionsRequired   = errors.New("schema: select fields require at least one option")
	ErrComponentNameRequired   = errors.New("schema: component name is required")
	ErrAPIIDExhausted          = errors.New("schema: could not derive a unique api_id")
)

// NotFoundError represents missing records from repository lookups.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// IsNotFound reports whether err wraps a repository NotFoundError.
func IsNotFound(err error) bool {
	var notFound *NotFoundError
	return errors.As(err, &notFound)
}

// ConflictError signals a storage uniqueness violation.
type ConflictError struct {
	Resource string
	Key      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.Key)
}

// IsConflict reports whether err wraps a uniqueness ConflictError.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}

// FieldValidationError reports a field value that does not match its
// definition.
type FieldValidationError struct {
	FieldAPIID string
	FieldType  FieldType
	Message    string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("schema: field %q (%s): %s", e.FieldAPIID, e.FieldType, e.Message)
}
