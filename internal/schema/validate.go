package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidateFieldValue checks that value matches the shape required by the field
// definition. A nil value is accepted for optional fields; required fields
// reject nil and empty strings.
func ValidateFieldValue(def *FieldDefinition, value any) error {
	if def == nil {
		return fmt.Errorf("schema: field definition is nil")
	}

	if value == nil {
		if def.Config.Required {
			return invalid(def, "value is required")
		}
		return nil
	}

	switch def.FieldType {
	case FieldTypeText, FieldTypeRichText:
		str, ok := value.(string)
		if !ok {
			return invalid(def, "expected a string")
		}
		if def.Config.Required && str == "" {
			return invalid(def, "value is required")
		}
		return validateRules(def, str)

	case FieldTypeNumber:
		if !isNumeric(value) {
			return invalid(def, "expected a number")
		}
		return nil

	case FieldTypeBoolean:
		if _, ok := value.(bool); !ok {
			return invalid(def, "expected a boolean")
		}
		return nil

	case FieldTypeDate:
		str, ok := value.(string)
		if !ok {
			return invalid(def, "expected an RFC 3339 date string")
		}
		if _, err := time.Parse(time.RFC3339, str); err != nil {
			if _, err := time.Parse("2006-01-02", str); err != nil {
				return invalid(def, "expected an RFC 3339 date string")
			}
		}
		return nil

	case FieldTypeEmail:
		str, ok := value.(string)
		if !ok {
			return invalid(def, "expected an email address")
		}
		if err := validation.Validate(str, is.EmailFormat); err != nil {
			return invalid(def, "invalid email address")
		}
		return nil

	case FieldTypeURL:
		str, ok := value.(string)
		if !ok {
			return invalid(def, "expected a URL")
		}
		if err := validation.Validate(str, is.URL); err != nil {
			return invalid(def, "invalid URL")
		}
		return nil

	case FieldTypeMedia, FieldTypeRelationship:
		switch value.(type) {
		case string:
			return nil
		default:
			return invalid(def, "expected an identifier string")
		}

	case FieldTypeSelect:
		str, ok := value.(string)
		if !ok {
			return invalid(def, "expected a string option")
		}
		for _, option := range def.Config.SelectOptions {
			if option == str {
				return nil
			}
		}
		return invalid(def, fmt.Sprintf("value %q is not an allowed option", str))

	case FieldTypeStructuredList:
		items, ok := value.([]any)
		if !ok {
			return invalid(def, "expected an array of objects")
		}
		for i, item := range items {
			if _, ok := item.(map[string]any); !ok {
				return invalid(def, fmt.Sprintf("item %d is not an object", i))
			}
		}
		return nil

	case FieldTypeJSON:
		if len(def.Config.JSONSchema) == 0 {
			return nil
		}
		return validateAgainstJSONSchema(def, value)
	}

	return invalid(def, "unknown field type")
}

// validateRules applies optional length constraints from validation_rules.
func validateRules(def *FieldDefinition, str string) error {
	rules := def.Config.ValidationRules
	if len(rules) == 0 {
		return nil
	}
	if raw, ok := rules["min_length"]; ok {
		if min, ok := asInt(raw); ok && len(str) < min {
			return invalid(def, fmt.Sprintf("shorter than minimum length %d", min))
		}
	}
	if raw, ok := rules["max_length"]; ok {
		if max, ok := asInt(raw); ok && len(str) > max {
			return invalid(def, fmt.Sprintf("longer than maximum length %d", max))
		}
	}
	return nil
}

func validateAgainstJSONSchema(def *FieldDefinition, value any) error {
	compiled, err := compileJSONSchema(def.Config.JSONSchema)
	if err != nil {
		return invalid(def, fmt.Sprintf("invalid json schema: %v", err))
	}
	if err := compiled.Validate(value); err != nil {
		return invalid(def, err.Error())
	}
	return nil
}

func compileJSONSchema(schema map[string]any) (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(schema)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("field.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("field.json")
}

func invalid(def *FieldDefinition, message string) error {
	return &FieldValidationError{
		FieldAPIID: def.APIID,
		FieldType:  def.FieldType,
		Message:    message,
	}
}

func isNumeric(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, json.Number:
		return true
	default:
		return false
	}
}

func asInt(value any) (int, bool) {
	switch typed := value.(type) {
	case int:
		return typed, true
	case int64:
		return int(typed), true
	case float64:
		return int(typed), true
	case json.Number:
		if parsed, err := typed.Int64(); err == nil {
			return int(parsed), true
		}
	}
	return 0, false
}
