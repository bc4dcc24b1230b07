package i18n_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-headless/internal/i18n"
)

func newLanguageService() i18n.Service {
	clock := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	return i18n.NewService(
		i18n.NewMemoryLanguageRepository(),
		i18n.WithClock(func() time.Time { return clock }),
	)
}

func TestRegisterFirstLanguageBecomesDefault(t *testing.T) {
	svc := newLanguageService()
	ctx := context.Background()

	created, err := svc.Register(ctx, i18n.RegisterLanguageRequest{Code: "EN", Name: "English"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if created.Code != "en" {
		t.Fatalf("expected normalized code en, got %q", created.Code)
	}
	if !created.IsDefault {
		t.Fatal("expected first language to become the default")
	}

	second, err := svc.Register(ctx, i18n.RegisterLanguageRequest{Code: "es", Name: "Spanish"})
	if err != nil {
		t.Fatalf("register second: %v", err)
	}
	if second.IsDefault {
		t.Fatal("second language should not replace the default")
	}
}

func TestRegisterDuplicateCode(t *testing.T) {
	svc := newLanguageService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, i18n.RegisterLanguageRequest{Code: "en", Name: "English"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, i18n.RegisterLanguageRequest{Code: "EN", Name: "English again"}); !errors.Is(err, i18n.ErrLanguageExists) {
		t.Fatalf("expected ErrLanguageExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newLanguageService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, i18n.RegisterLanguageRequest{Name: "English"}); !errors.Is(err, i18n.ErrLanguageCodeRequired) {
		t.Fatalf("expected ErrLanguageCodeRequired, got %v", err)
	}
	if _, err := svc.Register(ctx, i18n.RegisterLanguageRequest{Code: "en"}); !errors.Is(err, i18n.ErrLanguageNameRequired) {
		t.Fatalf("expected ErrLanguageNameRequired, got %v", err)
	}
}

func TestSetDefaultSwapsFlag(t *testing.T) {
	svc := newLanguageService()
	ctx := context.Background()

	mustRegister(t, svc, "en", "English")
	mustRegister(t, svc, "es", "Spanish")

	if _, err := svc.SetDefault(ctx, "es"); err != nil {
		t.Fatalf("set default: %v", err)
	}

	def, err := svc.Default(ctx)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if def.Code != "es" {
		t.Fatalf("expected es as default, got %q", def.Code)
	}

	en, err := svc.Get(ctx, "en")
	if err != nil {
		t.Fatalf("get en: %v", err)
	}
	if en.IsDefault {
		t.Fatal("previous default should have been cleared")
	}
}

func TestSetDefaultRejectsInactive(t *testing.T) {
	svc := newLanguageService()
	ctx := context.Background()

	mustRegister(t, svc, "en", "English")
	inactive := false
	if _, err := svc.Register(ctx, i18n.RegisterLanguageRequest{Code: "es", Name: "Spanish", IsActive: &inactive}); err != nil {
		t.Fatalf("register inactive: %v", err)
	}

	if _, err := svc.SetDefault(ctx, "es"); !errors.Is(err, i18n.ErrLanguageInactive) {
		t.Fatalf("expected ErrLanguageInactive, got %v", err)
	}
}

func TestRemoveDefaultPromotesNext(t *testing.T) {
	svc := newLanguageService()
	ctx := context.Background()

	mustRegister(t, svc, "en", "English")
	mustRegister(t, svc, "fr", "French")
	mustRegister(t, svc, "es", "Spanish")

	if err := svc.Remove(ctx, "en"); err != nil {
		t.Fatalf("remove: %v", err)
	}

	def, err := svc.Default(ctx)
	if err != nil {
		t.Fatalf("default after removal: %v", err)
	}
	if def.Code != "es" {
		t.Fatalf("expected es promoted (first sorted code), got %q", def.Code)
	}
}

func TestDeactivateDefaultPromotesNext(t *testing.T) {
	svc := newLanguageService()
	ctx := context.Background()

	mustRegister(t, svc, "en", "English")
	mustRegister(t, svc, "fr", "French")

	inactive := false
	updated, err := svc.Update(ctx, i18n.UpdateLanguageRequest{Code: "en", IsActive: &inactive})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.IsDefault {
		t.Fatal("deactivated language should lose the default flag")
	}

	def, err := svc.Default(ctx)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if def.Code != "fr" {
		t.Fatalf("expected fr promoted, got %q", def.Code)
	}
}

func TestDefaultWithNoActiveLanguages(t *testing.T) {
	svc := newLanguageService()
	ctx := context.Background()

	if _, err := svc.Default(ctx); !i18n.IsNotFound(err) {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestListSortsByCode(t *testing.T) {
	svc := newLanguageService()
	ctx := context.Background()

	mustRegister(t, svc, "fr", "French")
	mustRegister(t, svc, "de", "German")
	mustRegister(t, svc, "en", "English")

	records, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	codes := make([]string, 0, len(records))
	for _, record := range records {
		codes = append(codes, record.Code)
	}
	want := []string{"de", "en", "fr"}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("unexpected order %v, want %v", codes, want)
		}
	}
}

func mustRegister(t *testing.T, svc i18n.Service, code, name string) {
	t.Helper()
	if _, err := svc.Register(context.Background(), i18n.RegisterLanguageRequest{Code: code, Name: name}); err != nil {
		t.Fatalf("register %s: %v", code, err)
	}
}
