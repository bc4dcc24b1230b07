package content

import (
	"errors"
	"fmt"
)

var (
	ErrContentTypeRequired = errors.New("content: content type is required")
	ErrUnknownContentType  = errors.New("content: content type does not exist")
	ErrStatusInvalid       = errors.New("content: unknown status")
	ErrRevisionConflict    = errors.New("content: revision conflict, reload and retry")
	ErrDuplicateFieldCell  = errors.New("content: duplicate value row for the same field and language")
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
