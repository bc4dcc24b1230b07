package comments

import (
	"errors"
	"fmt"
)

var (
	ErrBodyRequired         = errors.New("comments: body is required")
	ErrUserRequired         = errors.New("comments: user id is required")
	ErrInstanceRequired     = errors.New("comments: content instance id is required")
	ErrParentWrongInstance  = errors.New("comments: parent belongs to a different content instance")
	ErrStatusInvalid        = errors.New("comments: unknown moderation status")
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
