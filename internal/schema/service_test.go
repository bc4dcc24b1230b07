package schema_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-headless/internal/schema"
	"github.com/google/uuid"
)

func newSchemaService(opts ...schema.ServiceOption) schema.Service {
	clock := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	base := []schema.ServiceOption{
		schema.WithClock(func() time.Time { return clock }),
	}
	return schema.NewService(
		schema.NewMemoryContentTypeRepository(),
		schema.NewMemoryComponentRepository(),
		append(base, opts...)...,
	)
}

func TestCreateContentTypeDerivesAPIID(t *testing.T) {
	svc := newSchemaService()
	ctx := context.Background()

	created, err := svc.CreateContentType(ctx, schema.CreateContentTypeRequest{
		Name: "Blog Post",
		Fields: []schema.FieldInput{
			{Name: "Title", FieldType: schema.FieldTypeText, Config: schema.FieldConfig{Required: true, Localizable: true}},
			{Name: "Body", FieldType: schema.FieldTypeRichText, Config: schema.FieldConfig{Localizable: true}},
		},
	})
	if err != nil {
		t.Fatalf("create content type: %v", err)
	}
	if created.APIID != "blog-post" {
		t.Fatalf("expected api_id blog-post, got %q", created.APIID)
	}
	if len(created.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(created.Fields))
	}
	if created.Fields[0].APIID != "title" {
		t.Fatalf("expected derived field api_id title, got %q", created.Fields[0].APIID)
	}
}

func TestCreateContentTypeRetriesAPIIDOnConflict(t *testing.T) {
	svc := newSchemaService()
	ctx := context.Background()

	first, err := svc.CreateContentType(ctx, schema.CreateContentTypeRequest{Name: "Article"})
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second, err := svc.CreateContentType(ctx, schema.CreateContentTypeRequest{Name: "Article"})
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if first.APIID != "article" {
		t.Fatalf("unexpected first api_id %q", first.APIID)
	}
	if second.APIID != "article-2" {
		t.Fatalf("expected suffixed api_id article-2, got %q", second.APIID)
	}
}

func TestCreateContentTypeValidatesFields(t *testing.T) {
	svc := newSchemaService()
	ctx := context.Background()

	_, err := svc.CreateContentType(ctx, schema.CreateContentTypeRequest{
		Name: "Broken",
		Fields: []schema.FieldInput{
			{Name: "Kind", FieldType: schema.FieldType("enum")},
		},
	})
	if !errors.Is(err, schema.ErrFieldTypeInvalid) {
		t.Fatalf("expected ErrFieldTypeInvalid, got %v", err)
	}

	_, err = svc.CreateContentType(ctx, schema.CreateContentTypeRequest{
		Name: "Broken",
		Fields: []schema.FieldInput{
			{Name: "Kind", FieldType: schema.FieldTypeSelect},
		},
	})
	if !errors.Is(err, schema.ErrSelectOptionsRequired) {
		t.Fatalf("expected ErrSelectOptionsRequired, got %v", err)
	}
}

func TestGetContentTypeByAPIID(t *testing.T) {
	svc := newSchemaService()
	ctx := context.Background()

	created, err := svc.CreateContentType(ctx, schema.CreateContentTypeRequest{Name: "Landing Page"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	found, err := svc.GetContentTypeByAPIID(ctx, "landing-page")
	if err != nil {
		t.Fatalf("get by api_id: %v", err)
	}
	if found.ID != created.ID {
		t.Fatal("lookup returned a different content type")
	}

	if _, err := svc.GetContentTypeByAPIID(ctx, "missing"); !schema.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestAddFieldAssignsOrderAndUniqueAPIID(t *testing.T) {
	svc := newSchemaService()
	ctx := context.Background()

	created, err := svc.CreateContentType(ctx, schema.CreateContentTypeRequest{
		Name: "Product",
		Fields: []schema.FieldInput{
			{Name: "Name", FieldType: schema.FieldTypeText},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	field, err := svc.AddField(ctx, created.ID, schema.FieldInput{
		Name:      "Price",
		FieldType: schema.FieldTypeNumber,
	})
	if err != nil {
		t.Fatalf("add field: %v", err)
	}
	if field.Order != 1 {
		t.Fatalf("expected order 1, got %d", field.Order)
	}

	duplicate, err := svc.AddField(ctx, created.ID, schema.FieldInput{
		Name:      "Price",
		FieldType: schema.FieldTypeNumber,
	})
	if err != nil {
		t.Fatalf("add duplicate-named field: %v", err)
	}
	if duplicate.APIID != "price-2" {
		t.Fatalf("expected suffixed api_id price-2, got %q", duplicate.APIID)
	}
}

func TestAddFieldExplicitAPIIDConflict(t *testing.T) {
	svc := newSchemaService()
	ctx := context.Background()

	created, err := svc.CreateContentType(ctx, schema.CreateContentTypeRequest{
		Name: "Product",
		Fields: []schema.FieldInput{
			{Name: "Name", APIID: "name", FieldType: schema.FieldTypeText},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	existing, err := svc.GetContentType(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(existing.Fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(existing.Fields))
	}

	// memory repository enforces the per-type unique constraint
	_, err = svc.AddField(ctx, created.ID, schema.FieldInput{
		Name:      "Other",
		APIID:     "name",
		FieldType: schema.FieldTypeText,
	})
	if !schema.IsConflict(err) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

type stubUsage struct {
	inUse bool
}

func (s stubUsage) ContentTypeInUse(context.Context, uuid.UUID) (bool, error) {
	return s.inUse, nil
}

func TestDeleteContentTypeProtectedWhenInUse(t *testing.T) {
	svc := newSchemaService(schema.WithUsageChecker(stubUsage{inUse: true}))
	ctx := context.Background()

	created, err := svc.CreateContentType(ctx, schema.CreateContentTypeRequest{Name: "Post"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteContentType(ctx, created.ID); !errors.Is(err, schema.ErrContentTypeInUse) {
		t.Fatalf("expected ErrContentTypeInUse, got %v", err)
	}
}

func TestDeleteContentTypeWithoutInstances(t *testing.T) {
	svc := newSchemaService(schema.WithUsageChecker(stubUsage{inUse: false}))
	ctx := context.Background()

	created, err := svc.CreateContentType(ctx, schema.CreateContentTypeRequest{Name: "Post"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := svc.DeleteContentType(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetContentType(ctx, created.ID); !schema.IsNotFound(err) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCreateComponentWithFields(t *testing.T) {
	svc := newSchemaService()
	ctx := context.Background()

	created, err := svc.CreateComponent(ctx, schema.CreateComponentRequest{
		Name: "Gallery Item",
		Fields: []schema.FieldInput{
			{Name: "Image", FieldType: schema.FieldTypeMedia},
			{Name: "Caption", FieldType: schema.FieldTypeText, Config: schema.FieldConfig{Localizable: true}},
		},
	})
	if err != nil {
		t.Fatalf("create component: %v", err)
	}
	if created.APIID != "gallery-item" {
		t.Fatalf("expected api_id gallery-item, got %q", created.APIID)
	}
	if len(created.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(created.Fields))
	}

	found, err := svc.GetComponentByAPIID(ctx, "gallery-item")
	if err != nil {
		t.Fatalf("get component: %v", err)
	}
	if found.ID != created.ID {
		t.Fatal("lookup returned a different component")
	}
}
