package schema

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-slug"
)

// maxAPIIDAttempts bounds the numeric-suffix retry loop when deriving a
// unique api_id.
const maxAPIIDAttempts = 50

// DeriveAPIID slugifies the supplied name into an api_id candidate.
func DeriveAPIID(name string) (string, error) {
	normalized, err := slug.Normalize(strings.TrimSpace(name))
	if err != nil || normalized == "" {
		return "", fmt.Errorf("schema: cannot derive api_id from %q", name)
	}
	return normalized, nil
}

// apiIDCandidate appends a numeric suffix for retry attempts after a
// uniqueness conflict. Attempt 0 returns the base candidate unchanged.
func apiIDCandidate(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt+1)
}
