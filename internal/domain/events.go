package domain

// Event names emitted to the webhook dispatcher. Endpoints subscribe to these
// (or to EventWildcard for everything).
const (
	EventContentPublished = "content_published"
	EventContentUpdated   = "content_updated"
	EventContentDeleted   = "content_deleted"
	EventCommentSubmitted = "comment_submitted"
	EventCommentApproved  = "comment_approved"
	EventMediaUploaded    = "media_uploaded"
	EventMediaDeleted     = "media_deleted"

	// EventWildcard subscribes an endpoint to every event.
	EventWildcard = "*"
)

// Events lists every event name the runtime can emit.
var Events = []string{
	EventContentPublished,
	EventContentUpdated,
	EventContentDeleted,
	EventCommentSubmitted,
	EventCommentApproved,
	EventMediaUploaded,
	EventMediaDeleted,
}

// KnownEvent reports whether name is an event the runtime emits.
func KnownEvent(name string) bool {
	for _, event := range Events {
		if event == name {
			return true
		}
	}
	return false
}
