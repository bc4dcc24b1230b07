package contentcmd_test

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	contentcmd "github.com/goliatone/go-headless/internal/commands/content"
	"github.com/goliatone/go-headless/internal/content"
	"github.com/goliatone/go-headless/internal/domain"
	"github.com/goliatone/go-headless/internal/i18n"
	"github.com/goliatone/go-headless/internal/schema"
	"github.com/google/uuid"
)

func newContentService(t *testing.T) (content.Service, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	languages := i18n.NewService(i18n.NewMemoryLanguageRepository())
	if _, err := languages.Register(ctx, i18n.RegisterLanguageRequest{Code: "en", Name: "English", IsDefault: true}); err != nil {
		t.Fatalf("register language: %v", err)
	}

	schemas := schema.NewService(schema.NewMemoryContentTypeRepository(), schema.NewMemoryComponentRepository())
	contentType, err := schemas.CreateContentType(ctx, schema.CreateContentTypeRequest{
		Name: "Article",
		Fields: []schema.FieldInput{
			{Name: "Title", FieldType: schema.FieldTypeText},
		},
	})
	if err != nil {
		t.Fatalf("create content type: %v", err)
	}

	svc := content.NewService(content.NewMemoryRepository(), schemas, languages)
	instance, err := svc.Create(ctx, content.CreateInstanceRequest{
		ContentTypeID: contentType.ID,
		Status:        "draft",
		Fields:        content.FieldsInput{"title": "Hello"},
	})
	if err != nil {
		t.Fatalf("create instance: %v", err)
	}
	return svc, instance.ID
}

func TestPublishContentCommandValidation(t *testing.T) {
	svc, _ := newContentService(t)
	handler := contentcmd.NewPublishContentHandler(svc, nil)

	err := handler.Execute(context.Background(), contentcmd.PublishContentCommand{})
	if err == nil {
		t.Fatal("expected validation failure for missing instance_id")
	}
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}

func TestPublishContentCommandPublishes(t *testing.T) {
	svc, instanceID := newContentService(t)
	handler := contentcmd.NewPublishContentHandler(svc, nil)

	if err := handler.Execute(context.Background(), contentcmd.PublishContentCommand{InstanceID: instanceID}); err != nil {
		t.Fatalf("execute: %v", err)
	}

	record, err := svc.Get(context.Background(), instanceID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if record.Status != domain.StatusPublished {
		t.Fatalf("expected published, got %q", record.Status)
	}
	if record.PublishedAt == nil {
		t.Fatal("expected published_at to be stamped")
	}
}
