package extraction

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/relation-engine/internal/data/repos/testutil"
)

func TestUpsertTripleIsIdempotent(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewSemanticRelationRepo(gdb, testutil.Logger(t))

	subject, object := uuid.New(), uuid.New()
	first, err := repo.UpsertTriple(ctx, tx, subject, "RELATED_TO", object)
	if err != nil {
		t.Fatalf("UpsertTriple: %v", err)
	}
	second, err := repo.UpsertTriple(ctx, tx, subject, "RELATED_TO", object)
	if err != nil {
		t.Fatalf("UpsertTriple(again): %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("same triple produced two relations: %s vs %s", first.ID, second.ID)
	}

	// The reversed direction is a distinct triple.
	reversed, err := repo.UpsertTriple(ctx, tx, object, "RELATED_TO", subject)
	if err != nil {
		t.Fatalf("UpsertTriple(reversed): %v", err)
	}
	if reversed.ID == first.ID {
		t.Fatalf("reversed triple collapsed into the original relation")
	}
}

// Promotion replayed with the same bundles, in any order, must converge on
// one relation carrying one provenance row per bundle.
func TestPromotionProvenanceConverges(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewSemanticRelationRepo(gdb, testutil.Logger(t))

	section := testutil.SeedSection(t, ctx, tx, "some text")
	bundles := []uuid.UUID{
		testutil.SeedBundle(t, ctx, tx, section, 0.9).ID,
		testutil.SeedBundle(t, ctx, tx, section, 0.8).ID,
		testutil.SeedBundle(t, ctx, tx, section, 0.75).ID,
	}
	subject, object := uuid.New(), uuid.New()

	attachAll := func(order []uuid.UUID) {
		for _, bid := range order {
			rel, err := repo.UpsertTriple(ctx, tx, subject, "RELATED_TO", object)
			if err != nil {
				t.Fatalf("UpsertTriple: %v", err)
			}
			if err := repo.AttachProvenance(ctx, tx, rel.ID, bid); err != nil {
				t.Fatalf("AttachProvenance: %v", err)
			}
		}
	}
	attachAll(bundles)
	attachAll([]uuid.UUID{bundles[2], bundles[0], bundles[1]}) // replay, shuffled

	rel, err := repo.UpsertTriple(ctx, tx, subject, "RELATED_TO", object)
	if err != nil {
		t.Fatalf("UpsertTriple: %v", err)
	}
	got, err := repo.ProvenanceBundleIDs(ctx, tx, rel.ID)
	if err != nil {
		t.Fatalf("ProvenanceBundleIDs: %v", err)
	}
	if len(got) != len(bundles) {
		t.Fatalf("provenance rows = %d, want %d", len(got), len(bundles))
	}
	want := map[uuid.UUID]bool{}
	for _, bid := range bundles {
		want[bid] = true
	}
	for _, bid := range got {
		if !want[bid] {
			t.Fatalf("unexpected provenance bundle %s", bid)
		}
	}
}

func TestGetByConceptMatchesEitherSide(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewSemanticRelationRepo(gdb, testutil.Logger(t))

	a, b, c := uuid.New(), uuid.New(), uuid.New()
	if _, err := repo.UpsertTriple(ctx, tx, a, "RELATED_TO", b); err != nil {
		t.Fatalf("UpsertTriple: %v", err)
	}
	if _, err := repo.UpsertTriple(ctx, tx, c, "RELATED_TO", a); err != nil {
		t.Fatalf("UpsertTriple: %v", err)
	}
	if _, err := repo.UpsertTriple(ctx, tx, b, "RELATED_TO", c); err != nil {
		t.Fatalf("UpsertTriple: %v", err)
	}

	rels, err := repo.GetByConcept(ctx, tx, a)
	if err != nil {
		t.Fatalf("GetByConcept: %v", err)
	}
	if len(rels) != 2 {
		t.Fatalf("relations touching concept = %d, want 2 (subject and object side)", len(rels))
	}
}

func TestGetByBundleIDsIsDistinct(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewSemanticRelationRepo(gdb, testutil.Logger(t))

	section := testutil.SeedSection(t, ctx, tx, "some text")
	b1 := testutil.SeedBundle(t, ctx, tx, section, 0.9).ID
	b2 := testutil.SeedBundle(t, ctx, tx, section, 0.9).ID

	rel, err := repo.UpsertTriple(ctx, tx, uuid.New(), "RELATED_TO", uuid.New())
	if err != nil {
		t.Fatalf("UpsertTriple: %v", err)
	}
	for _, bid := range []uuid.UUID{b1, b2} {
		if err := repo.AttachProvenance(ctx, tx, rel.ID, bid); err != nil {
			t.Fatalf("AttachProvenance: %v", err)
		}
	}

	rels, err := repo.GetByBundleIDs(ctx, tx, []uuid.UUID{b1, b2})
	if err != nil {
		t.Fatalf("GetByBundleIDs: %v", err)
	}
	if len(rels) != 1 {
		t.Fatalf("relations = %d, want 1 distinct row for two supporting bundles", len(rels))
	}
}
