package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/relation-engine/internal/domain"
)

func SeedSection(tb testing.TB, ctx context.Context, tx *gorm.DB, text string) *types.DocumentSection {
	tb.Helper()
	s := &types.DocumentSection{
		ID:              uuid.New(),
		DocumentID:      uuid.New(),
		DocumentVersion: 1,
		SectionIndex:    0,
		Text:            text,
		Language:        "en",
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed section: %v", err)
	}
	return s
}

func SeedMention(tb testing.TB, ctx context.Context, tx *gorm.DB, sectionID uuid.UUID, surface string, start, end int) *types.ConceptMention {
	tb.Helper()
	m := &types.ConceptMention{
		ID:         uuid.New(),
		ConceptID:  uuid.New(),
		SectionID:  sectionID,
		Surface:    surface,
		StartChar:  &start,
		EndChar:    &end,
		Confidence: 0.95,
		Method:     "lexical",
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed mention: %v", err)
	}
	return m
}

func SeedBundle(tb testing.TB, ctx context.Context, tx *gorm.DB, section *types.DocumentSection, confidences ...float64) *types.EvidenceBundle {
	tb.Helper()
	b := &types.EvidenceBundle{
		ID:               uuid.New(),
		DocumentID:       section.DocumentID,
		DocumentVersion:  section.DocumentVersion,
		SectionID:        section.ID,
		SubjectConceptID: uuid.New(),
		ObjectConceptID:  uuid.New(),
		RelationType:     "RELATED_TO",
		TypingConfidence: 0.5,
		Status:           types.StatusCandidate,
	}
	if err := tx.WithContext(ctx).Create(b).Error; err != nil {
		tb.Fatalf("seed bundle: %v", err)
	}
	for i, c := range confidences {
		f := &types.EvidenceFragment{
			ID:         uuid.New(),
			BundleID:   b.ID,
			Kind:       types.FragmentEntityMention,
			Role:       types.RoleSubject,
			Text:       "frag",
			SectionID:  section.ID,
			StartChar:  i,
			EndChar:    i + 4,
			Confidence: c,
		}
		if err := tx.WithContext(ctx).Create(f).Error; err != nil {
			tb.Fatalf("seed fragment: %v", err)
		}
		b.Fragments = append(b.Fragments, f)
	}
	return b
}
