package i18n

import (
	"errors"
	"fmt"
)

var (
	ErrLanguageCodeRequired = errors.New("i18n: language code is required")
	ErrLanguageNameRequired = errors.New("i18n: language name is required")
	ErrLanguageExists       = errors.New("i18n: language code already registered")
	ErrUnknownLanguage      = errors.New("i18n: unknown language")
	ErrLanguageInactive     = errors.New("i18n: language is inactive")
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
