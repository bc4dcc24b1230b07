package domain

import "strings"

// Status represents lifecycle states for content instances.
type Status string

const (
	// StatusDraft indicates content still under preparation.
	StatusDraft Status = "draft"
	// StatusInReview marks content awaiting editorial approval.
	StatusInReview Status = "in_review"
	// StatusPublished identifies content available to consumers.
	StatusPublished Status = "published"
	// StatusRejected marks content turned down during review.
	StatusRejected Status = "rejected"
	// StatusArchived marks content retained for history but no longer visible.
	StatusArchived Status = "archived"
)

// ContentStatuses lists every valid content lifecycle state.
var ContentStatuses = []Status{
	StatusDraft,
	StatusInReview,
	StatusPublished,
	StatusRejected,
	StatusArchived,
}

// ValidStatus reports whether the supplied value is a known lifecycle state.
func ValidStatus(value string) bool {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	for _, status := range ContentStatuses {
		if status == normalized {
			return true
		}
	}
	return false
}

// NormalizeStatus coerces arbitrary status strings into a known state,
// defaulting to draft for empty input.
func NormalizeStatus(value string) Status {
	normalized := strings.ToLower(strings.TrimSpace(value))
	if normalized == "" {
		return StatusDraft
	}
	return Status(normalized)
}

// CommentStatus represents moderation states for comments.
type CommentStatus string

const (
	CommentStatusPending  CommentStatus = "pending"
	CommentStatusApproved CommentStatus = "approved"
	CommentStatusRejected CommentStatus = "rejected"
	CommentStatusSpam     CommentStatus = "spam"
)

// ValidCommentStatus reports whether the supplied value is a known moderation state.
func ValidCommentStatus(value string) bool {
	switch CommentStatus(strings.ToLower(strings.TrimSpace(value))) {
	case CommentStatusPending, CommentStatusApproved, CommentStatusRejected, CommentStatusSpam:
		return true
	}
	return false
}
