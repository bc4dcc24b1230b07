package webhooks

import (
	"errors"
	"fmt"
)

var (
	ErrTargetURLRequired = errors.New("webhooks: target url is required")
	ErrSecretRequired    = errors.New("webhooks: signing secret is required")
	ErrEventsRequired    = errors.New("webhooks: at least one subscribed event is required")
	ErrUnknownEvent      = errors.New("webhooks: unknown event name")
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
