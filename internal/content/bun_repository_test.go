package content_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-headless/internal/content"
	"github.com/goliatone/go-headless/internal/domain"
	"github.com/goliatone/go-headless/pkg/testsupport"
	"github.com/google/uuid"
)

func newBunRepo(t *testing.T) *content.BunRepository {
	t.Helper()
	ctx := context.Background()

	db, err := testsupport.OpenSQLite()
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	for _, model := range []any{
		(*content.ContentInstance)(nil),
		(*content.ContentFieldInstance)(nil),
		(*content.ContentVersion)(nil),
	} {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
	return content.NewBunRepository(db)
}

func TestBunUpdateInstanceMissingRowIsNotFound(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepo(t)

	ghost := &content.ContentInstance{
		ID:            uuid.New(),
		ContentTypeID: uuid.New(),
		Status:        domain.StatusDraft,
		Revision:      2,
	}
	_, err := repo.UpdateInstance(ctx, ghost, 1, nil, nil, nil)
	if !content.IsNotFound(err) {
		t.Fatalf("expected not found for missing instance, got %v", err)
	}
}

func TestBunUpdateInstanceStaleRevisionConflicts(t *testing.T) {
	ctx := context.Background()
	repo := newBunRepo(t)

	record := &content.ContentInstance{
		ID:            uuid.New(),
		ContentTypeID: uuid.New(),
		Status:        domain.StatusDraft,
		Revision:      1,
	}
	if _, err := repo.CreateInstance(ctx, record, nil, nil); err != nil {
		t.Fatalf("create instance: %v", err)
	}

	stale := *record
	stale.Revision = 2
	if _, err := repo.UpdateInstance(ctx, &stale, 99, nil, nil, nil); !errors.Is(err, content.ErrRevisionConflict) {
		t.Fatalf("expected revision conflict for stale write, got %v", err)
	}

	current := *record
	current.Status = domain.StatusPublished
	current.Revision = 2
	if _, err := repo.UpdateInstance(ctx, &current, 1, nil, nil, nil); err != nil {
		t.Fatalf("update with current revision: %v", err)
	}
}
