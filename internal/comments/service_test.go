package comments_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goliatone/go-headless/internal/comments"
	"github.com/goliatone/go-headless/internal/domain"
	"github.com/google/uuid"
)

type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (s *recordingSink) Emit(ctx context.Context, event string, payload map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *recordingSink) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.events...)
}

type commentEnv struct {
	svc   comments.Service
	sink  *recordingSink
	clock *time.Time
}

func newCommentEnv(t *testing.T) *commentEnv {
	t.Helper()

	clock := time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)
	sink := &recordingSink{}
	svc := comments.NewService(
		comments.NewMemoryRepository(),
		comments.WithClock(func() time.Time { return clock }),
		comments.WithEventSink(sink),
	)
	return &commentEnv{svc: svc, sink: sink, clock: &clock}
}

func (e *commentEnv) submit(t *testing.T, instanceID, userID uuid.UUID, parent *uuid.UUID, body string) *comments.Comment {
	t.Helper()
	created, err := e.svc.Submit(context.Background(), comments.SubmitCommentRequest{
		ContentInstanceID: instanceID,
		UserID:            userID,
		ParentID:          parent,
		Body:              body,
	})
	if err != nil {
		t.Fatalf("submit %q: %v", body, err)
	}
	// advance the clock so ordering by submission time is deterministic
	*e.clock = e.clock.Add(time.Minute)
	return created
}

func (e *commentEnv) approve(t *testing.T, id uuid.UUID) *comments.Comment {
	t.Helper()
	updated, err := e.svc.Moderate(context.Background(), comments.ModerateCommentRequest{
		CommentID: id,
		Status:    "approved",
	})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	return updated
}

func TestSubmitStartsPending(t *testing.T) {
	env := newCommentEnv(t)

	created := env.submit(t, uuid.New(), uuid.New(), nil, "First!")
	if created.Status != domain.CommentStatusPending {
		t.Fatalf("expected pending, got %q", created.Status)
	}

	events := env.sink.names()
	if len(events) != 1 || events[0] != domain.EventCommentSubmitted {
		t.Fatalf("unexpected events %v", events)
	}
}

func TestSubmitValidation(t *testing.T) {
	env := newCommentEnv(t)
	ctx := context.Background()

	_, err := env.svc.Submit(ctx, comments.SubmitCommentRequest{
		UserID: uuid.New(),
		Body:   "hello",
	})
	if !errors.Is(err, comments.ErrInstanceRequired) {
		t.Fatalf("expected ErrInstanceRequired, got %v", err)
	}

	_, err = env.svc.Submit(ctx, comments.SubmitCommentRequest{
		ContentInstanceID: uuid.New(),
		Body:              "hello",
	})
	if !errors.Is(err, comments.ErrUserRequired) {
		t.Fatalf("expected ErrUserRequired, got %v", err)
	}

	_, err = env.svc.Submit(ctx, comments.SubmitCommentRequest{
		ContentInstanceID: uuid.New(),
		UserID:            uuid.New(),
		Body:              "   ",
	})
	if !errors.Is(err, comments.ErrBodyRequired) {
		t.Fatalf("expected ErrBodyRequired, got %v", err)
	}
}

func TestReplyMustShareInstance(t *testing.T) {
	env := newCommentEnv(t)
	ctx := context.Background()

	instance := uuid.New()
	other := uuid.New()
	parent := env.submit(t, instance, uuid.New(), nil, "parent")

	_, err := env.svc.Submit(ctx, comments.SubmitCommentRequest{
		ContentInstanceID: other,
		UserID:            uuid.New(),
		ParentID:          &parent.ID,
		Body:              "reply on the wrong post",
	})
	if !errors.Is(err, comments.ErrParentWrongInstance) {
		t.Fatalf("expected ErrParentWrongInstance, got %v", err)
	}
}

func TestModerateApprovalEmitsEvent(t *testing.T) {
	env := newCommentEnv(t)

	created := env.submit(t, uuid.New(), uuid.New(), nil, "looks great")
	updated := env.approve(t, created.ID)
	if updated.Status != domain.CommentStatusApproved {
		t.Fatalf("expected approved, got %q", updated.Status)
	}

	events := env.sink.names()
	if len(events) != 2 || events[1] != domain.EventCommentApproved {
		t.Fatalf("unexpected events %v", events)
	}

	// re-approving the same status is a no-op and emits nothing
	env.approve(t, created.ID)
	if got := len(env.sink.names()); got != 2 {
		t.Fatalf("expected 2 events, got %d", got)
	}
}

func TestModerateRejectsUnknownStatus(t *testing.T) {
	env := newCommentEnv(t)

	created := env.submit(t, uuid.New(), uuid.New(), nil, "body")
	_, err := env.svc.Moderate(context.Background(), comments.ModerateCommentRequest{
		CommentID: created.ID,
		Status:    "deleted",
	})
	if !errors.Is(err, comments.ErrStatusInvalid) {
		t.Fatalf("expected ErrStatusInvalid, got %v", err)
	}
}

func TestPublicListKeepsApprovedOnly(t *testing.T) {
	env := newCommentEnv(t)
	ctx := context.Background()

	instance := uuid.New()
	approved := env.submit(t, instance, uuid.New(), nil, "approved one")
	env.submit(t, instance, uuid.New(), nil, "still pending")
	spam := env.submit(t, instance, uuid.New(), nil, "buy stuff")

	env.approve(t, approved.ID)
	if _, err := env.svc.Moderate(ctx, comments.ModerateCommentRequest{CommentID: spam.ID, Status: "spam"}); err != nil {
		t.Fatalf("mark spam: %v", err)
	}

	public, err := env.svc.List(ctx, comments.ListCommentsRequest{ContentInstanceID: instance})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(public) != 1 || public[0].ID != approved.ID {
		t.Fatalf("expected only the approved comment, got %d", len(public))
	}

	all, err := env.svc.List(ctx, comments.ListCommentsRequest{ContentInstanceID: instance, IncludeAll: true})
	if err != nil {
		t.Fatalf("list all: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 comments for moderation, got %d", len(all))
	}
}

func TestThreadedListNestsReplies(t *testing.T) {
	env := newCommentEnv(t)
	ctx := context.Background()

	instance := uuid.New()
	root := env.submit(t, instance, uuid.New(), nil, "root")
	reply := env.submit(t, instance, uuid.New(), &root.ID, "reply")
	nested := env.submit(t, instance, uuid.New(), &reply.ID, "nested reply")
	second := env.submit(t, instance, uuid.New(), nil, "second root")

	threads, err := env.svc.List(ctx, comments.ListCommentsRequest{
		ContentInstanceID: instance,
		IncludeAll:        true,
		Threaded:          true,
	})
	if err != nil {
		t.Fatalf("list threaded: %v", err)
	}
	if len(threads) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(threads))
	}
	if threads[0].ID != root.ID || threads[1].ID != second.ID {
		t.Fatal("roots out of submission order")
	}
	if len(threads[0].Replies) != 1 || threads[0].Replies[0].ID != reply.ID {
		t.Fatal("expected reply nested under root")
	}
	if len(threads[0].Replies[0].Replies) != 1 || threads[0].Replies[0].Replies[0].ID != nested.ID {
		t.Fatal("expected second-level reply nested under first")
	}
}

func TestThreadedListPromotesOrphanedReplies(t *testing.T) {
	env := newCommentEnv(t)
	ctx := context.Background()

	instance := uuid.New()
	root := env.submit(t, instance, uuid.New(), nil, "pending root")
	reply := env.submit(t, instance, uuid.New(), &root.ID, "approved reply")
	env.approve(t, reply.ID)

	// the parent is still pending, so a public threaded read surfaces
	// the approved reply at the root
	threads, err := env.svc.List(ctx, comments.ListCommentsRequest{
		ContentInstanceID: instance,
		Threaded:          true,
	})
	if err != nil {
		t.Fatalf("list threaded: %v", err)
	}
	if len(threads) != 1 || threads[0].ID != reply.ID {
		t.Fatalf("expected orphaned reply at root, got %d entries", len(threads))
	}
}

func TestDeleteComment(t *testing.T) {
	env := newCommentEnv(t)
	ctx := context.Background()

	created := env.submit(t, uuid.New(), uuid.New(), nil, "delete me")
	if err := env.svc.Delete(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.svc.Get(ctx, created.ID); !comments.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
	if err := env.svc.Delete(ctx, created.ID); !comments.IsNotFound(err) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}
