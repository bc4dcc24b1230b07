package headless_test

import (
	"context"
	"errors"
	"io/fs"
	"sort"
	"testing"
	"time"

	headless "github.com/goliatone/go-headless"
	"github.com/goliatone/go-headless/internal/comments"
	"github.com/goliatone/go-headless/internal/content"
	"github.com/goliatone/go-headless/internal/di"
	"github.com/goliatone/go-headless/internal/domain"
	"github.com/goliatone/go-headless/internal/i18n"
	"github.com/goliatone/go-headless/internal/media"
	"github.com/goliatone/go-headless/internal/schema"
	"github.com/goliatone/go-headless/internal/settings"
	"github.com/goliatone/go-headless/internal/taxonomy"
	"github.com/goliatone/go-headless/internal/webhooks"
	"github.com/goliatone/go-headless/pkg/testsupport"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func registerModels(t *testing.T, db *bun.DB) {
	t.Helper()
	ctx := context.Background()
	models := []any{
		(*i18n.Language)(nil),
		(*schema.ContentType)(nil),
		(*schema.FieldDefinition)(nil),
		(*schema.ComponentDefinition)(nil),
		(*schema.ComponentFieldDefinition)(nil),
		(*content.ContentInstance)(nil),
		(*content.ContentFieldInstance)(nil),
		(*content.ContentVersion)(nil),
		(*taxonomy.Taxonomy)(nil),
		(*taxonomy.Term)(nil),
		(*comments.Comment)(nil),
		(*media.Folder)(nil),
		(*media.MediaTag)(nil),
		(*media.ImageOptimizationProfile)(nil),
		(*media.MediaAsset)(nil),
		(*webhooks.Endpoint)(nil),
		(*webhooks.EventLog)(nil),
		(*settings.Settings)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			t.Fatalf("create table %T: %v", model, err)
		}
	}
}

func TestModuleWithBunAndCache(t *testing.T) {
	ctx := context.Background()

	bunDB, err := testsupport.OpenSQLite()
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = bunDB.Close()
	})
	registerModels(t, bunDB)

	cfg := headless.DefaultConfig()
	cfg.Storage.Provider = "bun"
	cfg.Cache.Enabled = true
	cfg.Cache.DefaultTTL = 50 * time.Millisecond

	module, err := headless.New(cfg, di.WithBunDB(bunDB))
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	if err := module.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	record, err := module.Settings().Get(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if record.SiteName != "Headless" {
		t.Fatalf("unexpected site name %q", record.SiteName)
	}

	contentType, err := module.Schemas().CreateContentType(ctx, schema.CreateContentTypeRequest{
		Name: "Post",
		Fields: []schema.FieldInput{
			{Name: "Title", FieldType: schema.FieldTypeText, Config: schema.FieldConfig{Required: true, Localizable: true}},
			{Name: "Views", FieldType: schema.FieldTypeNumber},
		},
	})
	if err != nil {
		t.Fatalf("create content type: %v", err)
	}

	tax, err := module.Taxonomies().CreateTaxonomy(ctx, taxonomy.CreateTaxonomyRequest{
		Name:           "Categories",
		Hierarchical:   true,
		ContentTypeIDs: []uuid.UUID{contentType.ID},
	})
	if err != nil {
		t.Fatalf("create taxonomy: %v", err)
	}
	term, err := module.Taxonomies().CreateTerm(ctx, taxonomy.CreateTermRequest{
		TaxonomyID: tax.ID,
		Names:      map[string]string{"en": "News"},
	})
	if err != nil {
		t.Fatalf("create term: %v", err)
	}

	instance, err := module.Content().Create(ctx, content.CreateInstanceRequest{
		ContentTypeID: contentType.ID,
		Status:        "draft",
		Fields: content.FieldsInput{
			"title": map[string]any{"en": "Persisted entry"},
			"views": 3,
		},
		TermIDs: []uuid.UUID{term.ID},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}

	published, err := module.Content().ChangeStatus(ctx, content.ChangeStatusRequest{
		InstanceID: instance.ID,
		Status:     "published",
	})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.Status != domain.StatusPublished {
		t.Fatalf("expected published, got %q", published.Status)
	}

	read, err := module.Content().Read(ctx, instance.ID, "en")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if read["title"] != "Persisted entry" {
		t.Fatalf("unexpected title %v", read["title"])
	}

	versions, total, err := module.Content().ListVersions(ctx, instance.ID, 10, 0)
	if err != nil {
		t.Fatalf("list versions: %v", err)
	}
	if total < 2 || len(versions) < 2 {
		t.Fatalf("expected create and publish versions, got %d (total %d)", len(versions), total)
	}

	comment, err := module.Comments().Submit(ctx, comments.SubmitCommentRequest{
		ContentInstanceID: instance.ID,
		UserID:            uuid.New(),
		Body:              "Persisted comment",
	})
	if err != nil {
		t.Fatalf("submit comment: %v", err)
	}
	if _, err := module.Comments().Moderate(ctx, comments.ModerateCommentRequest{
		CommentID: comment.ID,
		Status:    "approved",
	}); err != nil {
		t.Fatalf("moderate comment: %v", err)
	}

	visible, err := module.Comments().List(ctx, comments.ListCommentsRequest{ContentInstanceID: instance.ID})
	if err != nil {
		t.Fatalf("list comments: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected one approved comment, got %d", len(visible))
	}

	// cached reads survive the TTL window and refresh after it elapses
	if _, err := module.Schemas().GetContentType(ctx, contentType.ID); err != nil {
		t.Fatalf("cached get: %v", err)
	}
	time.Sleep(60 * time.Millisecond)
	if _, err := module.Schemas().GetContentType(ctx, contentType.ID); err != nil {
		t.Fatalf("get after ttl: %v", err)
	}
}

// openMigratedDB applies the embedded migrations to a fresh database so the
// constraints under test are the shipped DDL, not bun's model-derived tables.
func openMigratedDB(t *testing.T) *bun.DB {
	t.Helper()
	ctx := context.Background()

	db, err := testsupport.OpenSQLite()
	if err != nil {
		t.Fatalf("open sqlite db: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})

	files, err := fs.Glob(headless.GetMigrationsFS(), "data/sql/migrations/*.up.sql")
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	sort.Strings(files)
	for _, name := range files {
		ddl, err := fs.ReadFile(headless.GetMigrationsFS(), name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		if _, err := db.ExecContext(ctx, string(ddl)); err != nil {
			t.Fatalf("apply %s: %v", name, err)
		}
	}
	return db
}

func TestMigrationsEnforceOneFieldRowPerCell(t *testing.T) {
	ctx := context.Background()
	db := openMigratedDB(t)
	repo := content.NewBunRepository(db)

	fieldDef := uuid.New()
	newInstance := func() *content.ContentInstance {
		return &content.ContentInstance{
			ID:            uuid.New(),
			ContentTypeID: uuid.New(),
			Status:        domain.StatusDraft,
			Revision:      1,
		}
	}
	row := func(instanceID uuid.UUID, lang *string, value any) *content.ContentFieldInstance {
		return &content.ContentFieldInstance{
			ID:                uuid.New(),
			ContentInstanceID: instanceID,
			FieldDefinitionID: fieldDef,
			LanguageCode:      lang,
			Value:             value,
		}
	}

	// two rows for the same non-localizable cell (NULL language) must not both land
	dup := newInstance()
	_, err := repo.CreateInstance(ctx, dup, []*content.ContentFieldInstance{
		row(dup.ID, nil, "first"),
		row(dup.ID, nil, "second"),
	}, nil)
	if !errors.Is(err, content.ErrDuplicateFieldCell) {
		t.Fatalf("expected duplicate cell rejection for NULL language, got %v", err)
	}

	en, es := "en", "es"
	localizedDup := newInstance()
	_, err = repo.CreateInstance(ctx, localizedDup, []*content.ContentFieldInstance{
		row(localizedDup.ID, &en, "hello"),
		row(localizedDup.ID, &en, "hello again"),
	}, nil)
	if !errors.Is(err, content.ErrDuplicateFieldCell) {
		t.Fatalf("expected duplicate cell rejection for same language, got %v", err)
	}

	// distinct languages for the same field remain one row each
	ok := newInstance()
	if _, err := repo.CreateInstance(ctx, ok, []*content.ContentFieldInstance{
		row(ok.ID, &en, "hello"),
		row(ok.ID, &es, "hola"),
		row(ok.ID, nil, 7),
	}, nil); err != nil {
		t.Fatalf("distinct cells must insert: %v", err)
	}
}

func TestMigrationsDeduplicateRootFolders(t *testing.T) {
	ctx := context.Background()
	db := openMigratedDB(t)
	repo := media.NewBunRepository(db)

	if _, err := repo.CreateFolder(ctx, &media.Folder{ID: uuid.New(), Name: "Assets"}); err != nil {
		t.Fatalf("create root folder: %v", err)
	}
	_, err := repo.CreateFolder(ctx, &media.Folder{ID: uuid.New(), Name: "Assets"})
	if !media.IsConflict(err) {
		t.Fatalf("expected sibling-name conflict for duplicate root folder, got %v", err)
	}

	// same name under a parent is still fine alongside the root folder
	parent := &media.Folder{ID: uuid.New(), Name: "Nested"}
	if _, err := repo.CreateFolder(ctx, parent); err != nil {
		t.Fatalf("create parent: %v", err)
	}
	if _, err := repo.CreateFolder(ctx, &media.Folder{ID: uuid.New(), Name: "Assets", ParentID: &parent.ID}); err != nil {
		t.Fatalf("create nested folder: %v", err)
	}
}
