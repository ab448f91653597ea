package steps

import (
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/relation-engine/internal/domain"
)

func locatedAt(conceptID, sectionID uuid.UUID, start, end int) LocatedMention {
	return LocatedMention{
		Mention: &types.ConceptMention{
			ID:        uuid.New(),
			ConceptID: conceptID,
			SectionID: sectionID,
			Surface:   "x",
		},
		Span:       types.CharSpan{Start: start, End: end},
		Tier:       TierExact,
		Confidence: 0.9,
	}
}

func TestFindCandidatePairsDedupesByConcept(t *testing.T) {
	sectionID := uuid.New()
	a, b := uuid.New(), uuid.New()

	located := []LocatedMention{
		locatedAt(a, sectionID, 40, 45), // later mention of a
		locatedAt(b, sectionID, 10, 15),
		locatedAt(a, sectionID, 0, 5), // earliest mention of a wins
	}
	pairs := FindCandidatePairs(located, sectionID, nil)
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	p := pairs[0]
	for _, lm := range []LocatedMention{p.Subject, p.Object} {
		if lm.Mention.ConceptID == a && lm.Span.Start != 0 {
			t.Fatalf("representative for concept a starts at %d, want earliest span 0", lm.Span.Start)
		}
	}
}

func TestFindCandidatePairsCanonicalOrderIsInputIndependent(t *testing.T) {
	sectionID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()

	forward := []LocatedMention{
		locatedAt(a, sectionID, 0, 5),
		locatedAt(b, sectionID, 10, 15),
		locatedAt(c, sectionID, 20, 25),
	}
	reversed := []LocatedMention{forward[2], forward[1], forward[0]}

	p1 := FindCandidatePairs(forward, sectionID, nil)
	p2 := FindCandidatePairs(reversed, sectionID, nil)
	if len(p1) != 3 || len(p2) != 3 {
		t.Fatalf("pair counts = %d, %d, want 3 each", len(p1), len(p2))
	}
	for i := range p1 {
		if p1[i].Key(sectionID) != p2[i].Key(sectionID) {
			t.Fatalf("pair %d differs between input orders", i)
		}
	}
	for _, p := range p1 {
		subj := p.Subject.Mention.ConceptID.String()
		obj := p.Object.Mention.ConceptID.String()
		if subj >= obj {
			t.Fatalf("pair not canonical: subject %s >= object %s", subj, obj)
		}
	}
}

func TestFindCandidatePairsSkipsSeenKeys(t *testing.T) {
	sectionID := uuid.New()
	a, b, c := uuid.New(), uuid.New(), uuid.New()
	located := []LocatedMention{
		locatedAt(a, sectionID, 0, 5),
		locatedAt(b, sectionID, 10, 15),
		locatedAt(c, sectionID, 20, 25),
	}

	all := FindCandidatePairs(located, sectionID, nil)
	seen := map[PairKey]bool{all[0].Key(sectionID): true}

	remaining := FindCandidatePairs(located, sectionID, seen)
	if len(remaining) != len(all)-1 {
		t.Fatalf("remaining = %d, want %d", len(remaining), len(all)-1)
	}
	for _, p := range remaining {
		if seen[p.Key(sectionID)] {
			t.Fatalf("seen pair emitted again")
		}
	}
}

func TestFindCandidatePairsNoSelfPairs(t *testing.T) {
	sectionID := uuid.New()
	a := uuid.New()
	located := []LocatedMention{
		locatedAt(a, sectionID, 0, 5),
		locatedAt(a, sectionID, 10, 15),
	}
	if pairs := FindCandidatePairs(located, sectionID, nil); len(pairs) != 0 {
		t.Fatalf("pairs = %d, want 0 for a single concept", len(pairs))
	}
}

func TestFindCandidatePairsIgnoresUnlocated(t *testing.T) {
	sectionID := uuid.New()
	a, b := uuid.New(), uuid.New()
	unlocated := locatedAt(b, sectionID, 10, 15)
	unlocated.Tier = TierNone
	located := []LocatedMention{
		locatedAt(a, sectionID, 0, 5),
		unlocated,
	}
	if pairs := FindCandidatePairs(located, sectionID, nil); len(pairs) != 0 {
		t.Fatalf("pairs = %d, want 0 when the second concept never resolved", len(pairs))
	}
}
