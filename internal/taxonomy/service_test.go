package taxonomy_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-headless/internal/taxonomy"
	"github.com/google/uuid"
)

func newTaxonomyService() taxonomy.Service {
	clock := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	return taxonomy.NewService(
		taxonomy.NewMemoryRepository(),
		taxonomy.WithClock(func() time.Time { return clock }),
	)
}

func createTaxonomy(t *testing.T, svc taxonomy.Service, name string, hierarchical bool, contentTypes ...uuid.UUID) *taxonomy.Taxonomy {
	t.Helper()
	created, err := svc.CreateTaxonomy(context.Background(), taxonomy.CreateTaxonomyRequest{
		Name:           name,
		Hierarchical:   hierarchical,
		ContentTypeIDs: contentTypes,
	})
	if err != nil {
		t.Fatalf("create taxonomy %s: %v", name, err)
	}
	return created
}

func createTerm(t *testing.T, svc taxonomy.Service, taxonomyID uuid.UUID, name string, parent *uuid.UUID) *taxonomy.Term {
	t.Helper()
	created, err := svc.CreateTerm(context.Background(), taxonomy.CreateTermRequest{
		TaxonomyID: taxonomyID,
		Names:      map[string]string{"en": name},
		ParentID:   parent,
	})
	if err != nil {
		t.Fatalf("create term %s: %v", name, err)
	}
	return created
}

func TestCreateTaxonomyDerivesAPIID(t *testing.T) {
	svc := newTaxonomyService()

	created := createTaxonomy(t, svc, "Article Categories", true)
	if created.APIID != "article-categories" {
		t.Fatalf("expected api_id article-categories, got %q", created.APIID)
	}

	duplicate := createTaxonomy(t, svc, "Article Categories", false)
	if duplicate.APIID != "article-categories-2" {
		t.Fatalf("expected suffixed api_id, got %q", duplicate.APIID)
	}
}

func TestCreateTermDerivesSlugsPerLanguage(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	tax := createTaxonomy(t, svc, "Topics", false)

	term, err := svc.CreateTerm(ctx, taxonomy.CreateTermRequest{
		TaxonomyID: tax.ID,
		Names:      map[string]string{"en": "Science Fiction", "es": "Ciencia Ficción"},
	})
	if err != nil {
		t.Fatalf("create term: %v", err)
	}
	if term.TranslatedSlugs["en"] != "science-fiction" {
		t.Fatalf("unexpected en slug %q", term.TranslatedSlugs["en"])
	}
	if term.TranslatedSlugs["es"] == "" {
		t.Fatal("expected a derived es slug")
	}
}

func TestCreateTermRequiresNames(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	tax := createTaxonomy(t, svc, "Topics", false)

	_, err := svc.CreateTerm(ctx, taxonomy.CreateTermRequest{
		TaxonomyID: tax.ID,
		Names:      map[string]string{"en": "   "},
	})
	if !errors.Is(err, taxonomy.ErrTermNamesRequired) {
		t.Fatalf("expected ErrTermNamesRequired, got %v", err)
	}
}

func TestParentRequiresHierarchicalTaxonomy(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	flat := createTaxonomy(t, svc, "Tags", false)
	parent := createTerm(t, svc, flat.ID, "Parent", nil)

	_, err := svc.CreateTerm(ctx, taxonomy.CreateTermRequest{
		TaxonomyID: flat.ID,
		Names:      map[string]string{"en": "Child"},
		ParentID:   &parent.ID,
	})
	if !errors.Is(err, taxonomy.ErrNotHierarchical) {
		t.Fatalf("expected ErrNotHierarchical, got %v", err)
	}
}

func TestParentMustShareTaxonomy(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	first := createTaxonomy(t, svc, "Categories", true)
	second := createTaxonomy(t, svc, "Regions", true)
	foreign := createTerm(t, svc, second.ID, "Europe", nil)

	_, err := svc.CreateTerm(ctx, taxonomy.CreateTermRequest{
		TaxonomyID: first.ID,
		Names:      map[string]string{"en": "News"},
		ParentID:   &foreign.ID,
	})
	if !errors.Is(err, taxonomy.ErrParentWrongTaxonomy) {
		t.Fatalf("expected ErrParentWrongTaxonomy, got %v", err)
	}
}

func TestSelfParentRejected(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	tax := createTaxonomy(t, svc, "Categories", true)
	term := createTerm(t, svc, tax.ID, "News", nil)

	_, err := svc.UpdateTerm(ctx, taxonomy.UpdateTermRequest{
		TermID:   term.ID,
		ParentID: &term.ID,
	})
	if !errors.Is(err, taxonomy.ErrTermSelfParent) {
		t.Fatalf("expected ErrTermSelfParent, got %v", err)
	}
}

func TestMultiHopCycleRejected(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	tax := createTaxonomy(t, svc, "Categories", true)
	a := createTerm(t, svc, tax.ID, "A", nil)
	b := createTerm(t, svc, tax.ID, "B", &a.ID)
	c := createTerm(t, svc, tax.ID, "C", &b.ID)

	// a -> c would close the loop a -> b -> c -> a
	_, err := svc.UpdateTerm(ctx, taxonomy.UpdateTermRequest{
		TermID:   a.ID,
		ParentID: &c.ID,
	})
	if !errors.Is(err, taxonomy.ErrTermCycle) {
		t.Fatalf("expected ErrTermCycle, got %v", err)
	}
}

func TestClearParentMovesTermToRoot(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	tax := createTaxonomy(t, svc, "Categories", true)
	parent := createTerm(t, svc, tax.ID, "Parent", nil)
	child := createTerm(t, svc, tax.ID, "Child", &parent.ID)

	updated, err := svc.UpdateTerm(ctx, taxonomy.UpdateTermRequest{
		TermID:      child.ID,
		ClearParent: true,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.ParentID != nil {
		t.Fatal("expected parent to be cleared")
	}
}

func TestDeleteTermWithChildrenRejected(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	tax := createTaxonomy(t, svc, "Categories", true)
	parent := createTerm(t, svc, tax.ID, "Parent", nil)
	createTerm(t, svc, tax.ID, "Child", &parent.ID)

	if err := svc.DeleteTerm(ctx, parent.ID); !errors.Is(err, taxonomy.ErrTermHasChildren) {
		t.Fatalf("expected ErrTermHasChildren, got %v", err)
	}
}

func TestValidateAttachment(t *testing.T) {
	svc := newTaxonomyService()
	ctx := context.Background()

	blogType := uuid.New()
	pageType := uuid.New()

	scoped := createTaxonomy(t, svc, "Blog Categories", false, blogType)
	open := createTaxonomy(t, svc, "Global Tags", false)

	scopedTerm := createTerm(t, svc, scoped.ID, "News", nil)
	openTerm := createTerm(t, svc, open.ID, "Featured", nil)

	if err := svc.ValidateAttachment(ctx, blogType, []uuid.UUID{scopedTerm.ID, openTerm.ID}); err != nil {
		t.Fatalf("attachment to applicable type rejected: %v", err)
	}
	if err := svc.ValidateAttachment(ctx, pageType, []uuid.UUID{scopedTerm.ID}); !errors.Is(err, taxonomy.ErrTermNotApplicable) {
		t.Fatalf("expected ErrTermNotApplicable, got %v", err)
	}
	// an unscoped taxonomy applies to every content type
	if err := svc.ValidateAttachment(ctx, pageType, []uuid.UUID{openTerm.ID}); err != nil {
		t.Fatalf("unscoped taxonomy should apply everywhere: %v", err)
	}
}
