package di_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-headless/internal/comments"
	"github.com/goliatone/go-headless/internal/di"
	"github.com/goliatone/go-headless/internal/runtimeconfig"
	"github.com/goliatone/go-headless/internal/schema"
)

func baseConfig() runtimeconfig.Config {
	cfg := runtimeconfig.DefaultConfig()
	cfg.I18N.Languages = []string{"en"}
	return cfg
}

func TestNewContainerRejectsInvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.I18N.DefaultLanguage = ""

	if _, err := di.NewContainer(cfg); err == nil {
		t.Fatal("expected config validation failure")
	}
}

func TestNewContainerWiresMemoryDefaults(t *testing.T) {
	container, err := di.NewContainer(baseConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	if container.LanguageService() == nil {
		t.Fatal("expected language service")
	}
	if container.SchemaService() == nil {
		t.Fatal("expected schema service")
	}
	if container.ContentService() == nil {
		t.Fatal("expected content service")
	}
	if container.TaxonomyService() == nil {
		t.Fatal("expected taxonomy service")
	}
	if container.CommentService() == nil {
		t.Fatal("expected comment service")
	}
	if container.MediaService() == nil {
		t.Fatal("expected media service")
	}
	if container.WebhookService() == nil {
		t.Fatal("expected webhook service")
	}
	if container.SettingsService() == nil {
		t.Fatal("expected settings service")
	}
	if container.Queue() == nil {
		t.Fatal("expected task queue")
	}
	if container.Worker() == nil {
		t.Fatal("expected worker")
	}
	if container.WebhookDeliverer() == nil {
		t.Fatal("expected webhook deliverer")
	}
}

func TestNewContainerHonorsFeatureToggles(t *testing.T) {
	cfg := baseConfig()
	cfg.Features.Comments = false
	cfg.Features.MediaLibrary = false
	cfg.Features.Webhooks = false

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	if container.CommentService() != nil {
		t.Fatal("comments must stay unwired when disabled")
	}
	if container.MediaService() != nil {
		t.Fatal("media must stay unwired when disabled")
	}
	if container.WebhookService() != nil {
		t.Fatal("webhooks must stay unwired when disabled")
	}
	if container.WebhookDeliverer() != nil {
		t.Fatal("deliverer must stay unwired when disabled")
	}
}

func TestNewContainerAppliesServiceOverrides(t *testing.T) {
	custom := comments.NewService(comments.NewMemoryRepository())

	container, err := di.NewContainer(baseConfig(), di.WithCommentService(custom))
	if err != nil {
		t.Fatalf("new container: %v", err)
	}

	if container.CommentService() != custom {
		t.Fatal("expected supplied comment service binding")
	}
}

func TestBootstrapSeedsLanguagesOnce(t *testing.T) {
	ctx := context.Background()
	cfg := baseConfig()
	cfg.I18N.Languages = []string{"en", "es", "EN"}

	container, err := di.NewContainer(cfg)
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if err := container.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if err := container.Bootstrap(ctx); err != nil {
		t.Fatalf("second bootstrap: %v", err)
	}

	languages, err := container.LanguageService().List(ctx)
	if err != nil {
		t.Fatalf("list languages: %v", err)
	}
	if len(languages) != 2 {
		t.Fatalf("expected duplicate codes collapsed to 2 languages, got %d", len(languages))
	}

	record, err := container.SettingsService().Get(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if record.DefaultLanguage != "en" {
		t.Fatalf("expected en default, got %q", record.DefaultLanguage)
	}
}

func TestContentTypeDeletionUsesLiveUsageCheck(t *testing.T) {
	ctx := context.Background()

	container, err := di.NewContainer(baseConfig())
	if err != nil {
		t.Fatalf("new container: %v", err)
	}
	if err := container.Bootstrap(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	contentType, err := container.SchemaService().CreateContentType(ctx, schema.CreateContentTypeRequest{
		Name:   "Note",
		Fields: []schema.FieldInput{{Name: "Body", FieldType: schema.FieldTypeText}},
	})
	if err != nil {
		t.Fatalf("create content type: %v", err)
	}

	// no instances yet, deletion is allowed
	if err := container.SchemaService().DeleteContentType(ctx, contentType.ID); err != nil {
		t.Fatalf("delete unused type: %v", err)
	}
}
