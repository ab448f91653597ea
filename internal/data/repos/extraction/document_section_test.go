package extraction

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/relation-engine/internal/data/repos/testutil"
	types "github.com/yungbote/relation-engine/internal/domain"
)

func TestDocumentSectionUpsertByIdentity(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewDocumentSectionRepo(gdb, testutil.Logger(t))

	docID := uuid.New()
	row := &types.DocumentSection{
		ID:              uuid.New(),
		DocumentID:      docID,
		DocumentVersion: 1,
		SectionIndex:    0,
		Text:            "first pass",
		Language:        "en",
	}
	if err := repo.UpsertByIdentity(ctx, tx, row); err != nil {
		t.Fatalf("UpsertByIdentity: %v", err)
	}

	// Same identity with new text updates in place instead of inserting.
	again := &types.DocumentSection{
		ID:              uuid.New(),
		DocumentID:      docID,
		DocumentVersion: 1,
		SectionIndex:    0,
		Text:            "second pass",
		Language:        "en",
		CoNLLU:          "1\tsecond\tsecond\tADJ\t_\t_\t2\tamod\t_\t_",
	}
	if err := repo.UpsertByIdentity(ctx, tx, again); err != nil {
		t.Fatalf("UpsertByIdentity(again): %v", err)
	}

	rows, err := repo.GetByDocumentVersion(ctx, tx, docID, 1)
	if err != nil {
		t.Fatalf("GetByDocumentVersion: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1 after re-upsert", len(rows))
	}
	if rows[0].Text != "second pass" || rows[0].CoNLLU == "" {
		t.Fatalf("upsert did not refresh text/annotation: %+v", rows[0])
	}
}

func TestDocumentSectionOrderedByIndex(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewDocumentSectionRepo(gdb, testutil.Logger(t))

	docID := uuid.New()
	var seed []*types.DocumentSection
	for _, idx := range []int{2, 0, 1} {
		seed = append(seed, &types.DocumentSection{
			ID:              uuid.New(),
			DocumentID:      docID,
			DocumentVersion: 1,
			SectionIndex:    idx,
			Text:            "text",
			Language:        "en",
		})
	}
	if _, err := repo.Create(ctx, tx, seed); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rows, err := repo.GetByDocumentVersion(ctx, tx, docID, 1)
	if err != nil {
		t.Fatalf("GetByDocumentVersion: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	for i, row := range rows {
		if row.SectionIndex != i {
			t.Fatalf("row %d has section index %d", i, row.SectionIndex)
		}
	}
}

func TestDocumentSectionUpdateAnnotation(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := NewDocumentSectionRepo(gdb, testutil.Logger(t))

	section := testutil.SeedSection(t, ctx, tx, "Redis runs.")
	conllu := "1\tRedis\tredis\tPROPN\t_\t_\t2\tnsubj\t_\t_\n2\truns\trun\tVERB\t_\t_\t0\troot\t_\t_"
	if err := repo.UpdateAnnotation(ctx, tx, section.ID, conllu); err != nil {
		t.Fatalf("UpdateAnnotation: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, section.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CoNLLU != conllu {
		t.Fatalf("annotation not persisted")
	}
}
