package identity

import (
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

// UUID derives a deterministic UUID from a stable key using go-hashid.
//
// Callers must ensure key construction prevents cross-entity collisions
// (prefix by domain/type).
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// LanguageUUID derives a stable identifier for seeded languages.
func LanguageUUID(code string) uuid.UUID {
	return UUID("go-headless:language:" + strings.ToLower(strings.TrimSpace(code)))
}

// SettingsUUID derives the identifier for the system settings record.
func SettingsUUID() uuid.UUID {
	return UUID("go-headless:settings")
}

// ProfileUUID derives a stable identifier for seeded optimization profiles.
func ProfileUUID(slug string) uuid.UUID {
	return UUID("go-headless:image_profile:" + strings.ToLower(strings.TrimSpace(slug)))
}
