package media

import (
	"errors"
	"fmt"
)

var (
	ErrFolderNameRequired  = errors.New("media: folder name is required")
	ErrFolderNameTaken     = errors.New("media: folder name already used by a sibling")
	ErrFolderNotEmpty      = errors.New("media: folder still contains assets or subfolders")
	ErrFolderSelfParent    = errors.New("media: folder cannot be its own parent")
	ErrTagNameRequired     = errors.New("media: tag name is required")
	ErrProfileNameRequired = errors.New("media: profile name is required")
	ErrProfileBoundsNeeded = errors.New("media: profile needs a positive max width and height")
	ErrProfileFormat       = errors.New("media: unsupported profile format")
	ErrFilenameRequired    = errors.New("media: filename is required")
	ErrFileRequired        = errors.New("media: file content is required")
	ErrSlugExhausted       = errors.New("media: could not derive a unique slug")
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

// ConflictError surfaces uniqueness violations from the storage layer.
type ConflictError struct {
	Resource string
	Key      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.Key)
}

// IsConflict reports whether err wraps a ConflictError.
func IsConflict(err error) bool {
	var conflict *ConflictError
	return errors.As(err, &conflict)
}
