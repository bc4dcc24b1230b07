package schema

import "strings"

// FieldType enumerates the value shapes a field definition can take.
type FieldType string

const (
	FieldTypeText           FieldType = "text"
	FieldTypeRichText       FieldType = "rich_text"
	FieldTypeNumber         FieldType = "number"
	FieldTypeDate           FieldType = "date"
	FieldTypeBoolean        FieldType = "boolean"
	FieldTypeEmail          FieldType = "email"
	FieldTypeURL            FieldType = "url"
	FieldTypeMedia          FieldType = "media"
	FieldTypeRelationship   FieldType = "relationship"
	FieldTypeSelect         FieldType = "select"
	FieldTypeStructuredList FieldType = "structured_list"
	FieldTypeJSON           FieldType = "json"
)

// FieldTypes lists every supported field type.
var FieldTypes = []FieldType{
	FieldTypeText,
	FieldTypeRichText,
	FieldTypeNumber,
	FieldTypeDate,
	FieldTypeBoolean,
	FieldTypeEmail,
	FieldTypeURL,
	FieldTypeMedia,
	FieldTypeRelationship,
	FieldTypeSelect,
	FieldTypeStructuredList,
	FieldTypeJSON,
}

// ValidFieldType reports whether the supplied value names a known field type.
func ValidFieldType(value FieldType) bool {
	for _, ft := range FieldTypes {
		if ft == value {
			return true
		}
	}
	return false
}

// NormalizeFieldType lowercases and trims the supplied value.
func NormalizeFieldType(value string) FieldType {
	return FieldType(strings.ToLower(strings.TrimSpace(value)))
}

// FieldConfig carries per-field behaviour flags and validation settings.
type FieldConfig struct {
	Required            bool           `json:"required,omitempty"`
	Localizable         bool           `json:"localizable,omitempty"`
	DefaultValue        any            `json:"default_value,omitempty"`
	ValidationRules     map[string]any `json:"validation_rules,omitempty"`
	SelectOptions       []string       `json:"select_options,omitempty"`
	AllowedContentTypes []string       `json:"allowed_content_types,omitempty"`
	AllowedMediaTypes   []string       `json:"allowed_media_types,omitempty"`
	ComponentAPIID      string         `json:"component_api_id,omitempty"`
	JSONSchema          map[string]any `json:"json_schema,omitempty"`
}
