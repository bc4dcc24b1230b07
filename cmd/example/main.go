package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	headless "github.com/goliatone/go-headless"
	"github.com/goliatone/go-headless/internal/comments"
	"github.com/goliatone/go-headless/internal/content"
	"github.com/goliatone/go-headless/internal/schema"
	"github.com/goliatone/go-headless/internal/taxonomy"
	"github.com/google/uuid"
)

func main() {
	ctx := context.Background()

	cfg := headless.DefaultConfig()
	cfg.Site.Name = "Demo Site"
	cfg.I18N.Languages = []string{"en", "es"}
	cfg.Features.Logger = true
	cfg.Logging.Format = "console"

	module, err := headless.New(cfg)
	if err != nil {
		log.Fatalf("new module: %v", err)
	}
	if err := module.Bootstrap(ctx); err != nil {
		log.Fatalf("bootstrap: %v", err)
	}

	articleType, err := module.Schemas().CreateContentType(ctx, schema.CreateContentTypeRequest{
		Name: "Article",
		Fields: []schema.FieldInput{
			{Name: "Title", FieldType: schema.FieldTypeText, Config: schema.FieldConfig{Required: true, Localizable: true}},
			{Name: "Body", FieldType: schema.FieldTypeRichText, Config: schema.FieldConfig{Localizable: true}},
			{Name: "Views", FieldType: schema.FieldTypeNumber},
		},
	})
	if err != nil {
		log.Fatalf("create content type: %v", err)
	}
	fmt.Printf("registered content type %s (%s)\n", articleType.Name, articleType.APIID)

	categories, err := module.Taxonomies().CreateTaxonomy(ctx, taxonomy.CreateTaxonomyRequest{
		Name:           "Categories",
		Hierarchical:   true,
		ContentTypeIDs: []uuid.UUID{articleType.ID},
	})
	if err != nil {
		log.Fatalf("create taxonomy: %v", err)
	}
	news, err := module.Taxonomies().CreateTerm(ctx, taxonomy.CreateTermRequest{
		TaxonomyID: categories.ID,
		Names:      map[string]string{"en": "News", "es": "Noticias"},
	})
	if err != nil {
		log.Fatalf("create term: %v", err)
	}

	entry, err := module.Content().Create(ctx, content.CreateInstanceRequest{
		ContentTypeID: articleType.ID,
		Status:        "draft",
		Fields: content.FieldsInput{
			"title": map[string]any{"en": "Hello, world", "es": "Hola, mundo"},
			"body":  map[string]any{"en": "# Welcome\n\nFirst post."},
			"views": 0,
		},
		TermIDs: []uuid.UUID{news.ID},
	})
	if err != nil {
		log.Fatalf("create entry: %v", err)
	}

	published, err := module.Content().ChangeStatus(ctx, content.ChangeStatusRequest{
		InstanceID: entry.ID,
		Status:     "published",
	})
	if err != nil {
		log.Fatalf("publish: %v", err)
	}
	fmt.Printf("published entry %s at revision %d\n", published.ID, published.Revision)

	// drain queued work (webhook deliveries, media processing)
	if err := module.Worker().Process(ctx); err != nil {
		log.Fatalf("process queue: %v", err)
	}

	comment, err := module.Comments().Submit(ctx, comments.SubmitCommentRequest{
		ContentInstanceID: entry.ID,
		UserID:            uuid.New(),
		Body:              "Great first post!",
	})
	if err != nil {
		log.Fatalf("submit comment: %v", err)
	}
	if _, err := module.Comments().Moderate(ctx, comments.ModerateCommentRequest{
		CommentID: comment.ID,
		Status:    "approved",
	}); err != nil {
		log.Fatalf("approve comment: %v", err)
	}

	rendered, err := module.Content().Read(ctx, entry.ID, "es", content.WithRenderedRichText())
	if err != nil {
		log.Fatalf("read entry: %v", err)
	}
	payload, _ := json.MarshalIndent(rendered, "", "  ")
	fmt.Printf("localized read:\n%s\n", payload)
}
