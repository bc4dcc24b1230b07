package taxonomy

import (
	"errors"
	"fmt"
)

var (
	ErrTaxonomyNameRequired   = errors.New("taxonomy: name is required")
	ErrTermNamesRequired      = errors.New("taxonomy: at least one translated name is required")
	ErrNotHierarchical        = errors.New("taxonomy: parent terms require a hierarchical taxonomy")
	ErrParentWrongTaxonomy    = errors.New("taxonomy: parent belongs to a different taxonomy")
	ErrTermSelfParent         = errors.New("taxonomy: term cannot be its own parent")
	ErrTermCycle              = errors.New("taxonomy: parent assignment would create a cycle")
	ErrTermHasChildren        = errors.New("taxonomy: term has children and cannot be deleted")
	ErrTermNotApplicable      = errors.New("taxonomy: term taxonomy does not apply to the content type")
	ErrAPIIDExhausted         = errors.New("taxonomy: could not derive a unique api_id")
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
