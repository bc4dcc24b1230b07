package i18n

import (
	"sort"
	"strings"
)

// Resolved carries the effective value for a localizable field together with
// the language that supplied it.
type Resolved struct {
	Value    any    `json:"value"`
	Language string `json:"language"`
}

// FallbackChain builds the deterministic lookup order for a requested
// language: exact code, base of the code, the site default, the base of the
// default. Duplicates are dropped while preserving priority.
func FallbackChain(requested, defaultCode string) []string {
	chain := make([]string, 0, 4)
	seen := map[string]struct{}{}

	push := func(code string) {
		code = strings.ToLower(strings.TrimSpace(code))
		if code == "" {
			return
		}
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		chain = append(chain, code)
	}

	push(requested)
	push(baseOf(requested))
	push(defaultCode)
	push(baseOf(defaultCode))
	return chain
}

// Resolve picks the effective value for a field from the per-language values
// stored for it. Values is keyed by language code; the requested code and the
// site default drive the fallback chain. When no chain entry matches, the
// first stored language in sorted-code order wins so resolution stays stable
// across runs. A nil result means no value exists at all.
//
// Resolution is pure: callers batch-load the rows up front and no I/O happens
// here.
func Resolve(requested, defaultCode string, values map[string]any) *Resolved {
	if len(values) == 0 {
		return nil
	}

	for _, code := range FallbackChain(requested, defaultCode) {
		if value, ok := values[code]; ok {
			return &Resolved{Value: value, Language: code}
		}
	}

	codes := make([]string, 0, len(values))
	for code := range values {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	first := codes[0]
	return &Resolved{Value: values[first], Language: first}
}

func baseOf(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if idx := strings.IndexByte(code, '-'); idx > 0 {
		return code[:idx]
	}
	return code
}
