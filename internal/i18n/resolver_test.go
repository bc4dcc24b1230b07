package i18n_test

import (
	"reflect"
	"testing"

	"github.com/goliatone/go-headless/internal/i18n"
)

func TestFallbackChain(t *testing.T) {
	cases := []struct {
		name        string
		requested   string
		defaultCode string
		want        []string
	}{
		{
			name:        "regional code expands to base and default",
			requested:   "es-MX",
			defaultCode: "en",
			want:        []string{"es-mx", "es", "en"},
		},
		{
			name:        "regional default expands to its base",
			requested:   "fr",
			defaultCode: "en-GB",
			want:        []string{"fr", "en-gb", "en"},
		},
		{
			name:        "requested equals default",
			requested:   "en",
			defaultCode: "en",
			want:        []string{"en"},
		},
		{
			name:        "empty requested falls back to default",
			requested:   "",
			defaultCode: "en",
			want:        []string{"en"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := i18n.FallbackChain(tc.requested, tc.defaultCode)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("FallbackChain(%q, %q) = %v, want %v", tc.requested, tc.defaultCode, got, tc.want)
			}
		})
	}
}

func TestResolveExactMatch(t *testing.T) {
	values := map[string]any{"es-mx": "hola", "en": "hello"}

	resolved := i18n.Resolve("es-MX", "en", values)
	if resolved == nil {
		t.Fatal("expected a resolved value")
	}
	if resolved.Language != "es-mx" || resolved.Value != "hola" {
		t.Fatalf("unexpected resolution: %+v", resolved)
	}
}

func TestResolveBaseLanguage(t *testing.T) {
	values := map[string]any{"es": "hola", "en": "hello"}

	resolved := i18n.Resolve("es-MX", "en", values)
	if resolved == nil {
		t.Fatal("expected a resolved value")
	}
	if resolved.Language != "es" {
		t.Fatalf("expected base language es, got %q", resolved.Language)
	}
}

func TestResolveDefaultFallback(t *testing.T) {
	values := map[string]any{"en": "hello"}

	resolved := i18n.Resolve("de", "en", values)
	if resolved == nil {
		t.Fatal("expected a resolved value")
	}
	if resolved.Language != "en" || resolved.Value != "hello" {
		t.Fatalf("unexpected resolution: %+v", resolved)
	}
}

func TestResolveFirstAvailableSorted(t *testing.T) {
	values := map[string]any{"pt": "ola", "ja": "konnichiwa"}

	resolved := i18n.Resolve("de", "en", values)
	if resolved == nil {
		t.Fatal("expected a resolved value")
	}
	if resolved.Language != "ja" {
		t.Fatalf("expected first sorted language ja, got %q", resolved.Language)
	}
}

func TestResolveEmptyValues(t *testing.T) {
	if resolved := i18n.Resolve("en", "en", nil); resolved != nil {
		t.Fatalf("expected nil resolution, got %+v", resolved)
	}
}
