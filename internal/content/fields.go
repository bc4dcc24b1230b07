package content

import (
	"encoding/json"

	"github.com/goliatone/go-headless/internal/schema"
)

// FieldsInput is the structured write payload keyed by field api_id. Values
// for localizable fields may be a per-language map {lang: value}; any other
// shape is stored under the default language. Non-localizable fields take the
// value as-is.
type FieldsInput map[string]any

// fieldWrite is one normalized (field, language, value) tuple ready for
// validation and persistence.
type fieldWrite struct {
	def      *schema.FieldDefinition
	language *string
	value    any
}

// fieldKey identifies a stored row by definition and language.
type fieldKey struct {
	fieldID  string
	language string
}

func keyOf(fieldID string, language *string) fieldKey {
	key := fieldKey{fieldID: fieldID}
	if language != nil {
		key.language = *language
	}
	return key
}

// normalizeWrites turns the structured input into one write per (field,
// language). Unknown api_ids and inactive languages are silently dropped.
func normalizeWrites(ct *schema.ContentType, input FieldsInput, activeLanguages map[string]struct{}, defaultLanguage string) []fieldWrite {
	defs := make(map[string]*schema.FieldDefinition, len(ct.Fields))
	for _, def := range ct.Fields {
		defs[def.APIID] = def
	}

	writes := make([]fieldWrite, 0, len(input))
	for apiID, raw := range input {
		def, ok := defs[apiID]
		if !ok {
			continue
		}

		if !def.Config.Localizable {
			writes = append(writes, fieldWrite{def: def, value: raw})
			continue
		}

		if perLanguage, ok := asLanguageMap(raw, activeLanguages); ok {
			for code, value := range perLanguage {
				lang := code
				writes = append(writes, fieldWrite{def: def, language: &lang, value: value})
			}
			continue
		}

		lang := defaultLanguage
		writes = append(writes, fieldWrite{def: def, language: &lang, value: raw})
	}
	return writes
}

// asLanguageMap interprets raw as a per-language map when every key names a
// registered language. Inactive languages are dropped; a map with no
// registered keys is treated as a plain value.
func asLanguageMap(raw any, activeLanguages map[string]struct{}) (map[string]any, bool) {
	langMap, ok := raw.(map[string]any)
	if !ok || len(langMap) == 0 {
		return nil, false
	}

	out := make(map[string]any, len(langMap))
	matched := false
	for code, value := range langMap {
		if _, active := activeLanguages[code]; active {
			out[code] = value
			matched = true
		}
	}
	if !matched {
		return nil, false
	}
	return out, true
}

// buildSnapshot groups field rows for version storage:
// {lang: {api_id: value}} with non-localizable values under NonLocalizableKey.
func buildSnapshot(ct *schema.ContentType, rows []*ContentFieldInstance) VersionSnapshot {
	apiIDs := make(map[string]string, len(ct.Fields))
	for _, def := range ct.Fields {
		apiIDs[def.ID.String()] = def.APIID
	}

	snapshot := VersionSnapshot{}
	for _, row := range rows {
		apiID, ok := apiIDs[row.FieldDefinitionID.String()]
		if !ok {
			continue
		}
		group := NonLocalizableKey
		if row.LanguageCode != nil {
			group = *row.LanguageCode
		}
		if snapshot[group] == nil {
			snapshot[group] = map[string]any{}
		}
		snapshot[group][apiID] = row.Value
	}
	return snapshot
}

// valuesEqual compares two stored values through their JSON encoding so that
// numeric types coming from different decoders compare stable.
func valuesEqual(a, b any) bool {
	aJSON, errA := json.Marshal(a)
	bJSON, errB := json.Marshal(b)
	if errA != nil || errB != nil {
		return false
	}
	return string(aJSON) == string(bJSON)
}
