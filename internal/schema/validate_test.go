package schema_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-headless/internal/schema"
)

func fieldDef(ft schema.FieldType, config schema.FieldConfig) *schema.FieldDefinition {
	return &schema.FieldDefinition{
		APIID:     "field",
		FieldType: ft,
		Config:    config,
	}
}

func TestValidateFieldValueText(t *testing.T) {
	def := fieldDef(schema.FieldTypeText, schema.FieldConfig{})

	if err := schema.ValidateFieldValue(def, "hello"); err != nil {
		t.Fatalf("valid text rejected: %v", err)
	}
	if err := schema.ValidateFieldValue(def, 42); err == nil {
		t.Fatal("expected rejection of non-string")
	}
}

func TestValidateFieldValueRequired(t *testing.T) {
	def := fieldDef(schema.FieldTypeText, schema.FieldConfig{Required: true})

	if err := schema.ValidateFieldValue(def, nil); err == nil {
		t.Fatal("expected rejection of nil for required field")
	}
	if err := schema.ValidateFieldValue(def, ""); err == nil {
		t.Fatal("expected rejection of empty string for required field")
	}

	optional := fieldDef(schema.FieldTypeText, schema.FieldConfig{})
	if err := schema.ValidateFieldValue(optional, nil); err != nil {
		t.Fatalf("nil should be accepted for optional field: %v", err)
	}
}

func TestValidateFieldValueLengthRules(t *testing.T) {
	def := fieldDef(schema.FieldTypeText, schema.FieldConfig{
		ValidationRules: map[string]any{"min_length": 3, "max_length": 5},
	})

	if err := schema.ValidateFieldValue(def, "ok"); err == nil {
		t.Fatal("expected min_length violation")
	}
	if err := schema.ValidateFieldValue(def, "toolong"); err == nil {
		t.Fatal("expected max_length violation")
	}
	if err := schema.ValidateFieldValue(def, "fine"); err != nil {
		t.Fatalf("value within bounds rejected: %v", err)
	}
}

func TestValidateFieldValueNumber(t *testing.T) {
	def := fieldDef(schema.FieldTypeNumber, schema.FieldConfig{})

	for _, value := range []any{42, int64(7), 3.14} {
		if err := schema.ValidateFieldValue(def, value); err != nil {
			t.Fatalf("numeric value %v rejected: %v", value, err)
		}
	}
	if err := schema.ValidateFieldValue(def, "42"); err == nil {
		t.Fatal("expected rejection of string for number field")
	}
}

func TestValidateFieldValueBoolean(t *testing.T) {
	def := fieldDef(schema.FieldTypeBoolean, schema.FieldConfig{})

	if err := schema.ValidateFieldValue(def, true); err != nil {
		t.Fatalf("boolean rejected: %v", err)
	}
	if err := schema.ValidateFieldValue(def, "true"); err == nil {
		t.Fatal("expected rejection of string for boolean field")
	}
}

func TestValidateFieldValueDate(t *testing.T) {
	def := fieldDef(schema.FieldTypeDate, schema.FieldConfig{})

	if err := schema.ValidateFieldValue(def, "2025-03-10T12:00:00Z"); err != nil {
		t.Fatalf("RFC 3339 timestamp rejected: %v", err)
	}
	if err := schema.ValidateFieldValue(def, "2025-03-10"); err != nil {
		t.Fatalf("date-only value rejected: %v", err)
	}
	if err := schema.ValidateFieldValue(def, "10/03/2025"); err == nil {
		t.Fatal("expected rejection of non-ISO date")
	}
}

func TestValidateFieldValueEmail(t *testing.T) {
	def := fieldDef(schema.FieldTypeEmail, schema.FieldConfig{})

	if err := schema.ValidateFieldValue(def, "editor@example.com"); err != nil {
		t.Fatalf("valid email rejected: %v", err)
	}
	if err := schema.ValidateFieldValue(def, "not-an-email"); err == nil {
		t.Fatal("expected rejection of invalid email")
	}
}

func TestValidateFieldValueURL(t *testing.T) {
	def := fieldDef(schema.FieldTypeURL, schema.FieldConfig{})

	if err := schema.ValidateFieldValue(def, "https://example.com/path"); err != nil {
		t.Fatalf("valid URL rejected: %v", err)
	}
	if err := schema.ValidateFieldValue(def, "::not a url::"); err == nil {
		t.Fatal("expected rejection of invalid URL")
	}
}

func TestValidateFieldValueSelect(t *testing.T) {
	def := fieldDef(schema.FieldTypeSelect, schema.FieldConfig{
		SelectOptions: []string{"draft", "final"},
	})

	if err := schema.ValidateFieldValue(def, "draft"); err != nil {
		t.Fatalf("allowed option rejected: %v", err)
	}
	if err := schema.ValidateFieldValue(def, "other"); err == nil {
		t.Fatal("expected rejection of unknown option")
	}
}

func TestValidateFieldValueStructuredList(t *testing.T) {
	def := fieldDef(schema.FieldTypeStructuredList, schema.FieldConfig{})

	valid := []any{
		map[string]any{"caption": "one"},
		map[string]any{"caption": "two"},
	}
	if err := schema.ValidateFieldValue(def, valid); err != nil {
		t.Fatalf("valid list rejected: %v", err)
	}
	if err := schema.ValidateFieldValue(def, []any{"scalar"}); err == nil {
		t.Fatal("expected rejection of non-object items")
	}
	if err := schema.ValidateFieldValue(def, "not a list"); err == nil {
		t.Fatal("expected rejection of non-array value")
	}
}

func TestValidateFieldValueJSONSchema(t *testing.T) {
	def := fieldDef(schema.FieldTypeJSON, schema.FieldConfig{
		JSONSchema: map[string]any{
			"type":     "object",
			"required": []any{"kind"},
			"properties": map[string]any{
				"kind": map[string]any{"type": "string"},
			},
		},
	})

	if err := schema.ValidateFieldValue(def, map[string]any{"kind": "banner"}); err != nil {
		t.Fatalf("conforming payload rejected: %v", err)
	}
	if err := schema.ValidateFieldValue(def, map[string]any{"other": 1}); err == nil {
		t.Fatal("expected rejection by json schema")
	}

	unconstrained := fieldDef(schema.FieldTypeJSON, schema.FieldConfig{})
	if err := schema.ValidateFieldValue(unconstrained, map[string]any{"anything": true}); err != nil {
		t.Fatalf("json without schema rejected: %v", err)
	}
}

func TestValidateFieldValueErrorType(t *testing.T) {
	def := fieldDef(schema.FieldTypeNumber, schema.FieldConfig{})

	err := schema.ValidateFieldValue(def, "nope")
	var fieldErr *schema.FieldValidationError
	if !errors.As(err, &fieldErr) {
		t.Fatalf("expected FieldValidationError, got %T", err)
	}
	if fieldErr.FieldAPIID != "field" {
		t.Fatalf("unexpected field api_id %q", fieldErr.FieldAPIID)
	}
}
