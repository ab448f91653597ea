package steps

import (
	"sort"
	"strings"

	"github.com/google/uuid"
)

// PairKey fixes candidate-pair identity: canonical (sorted) concept IDs
// plus the owning section. The same key also matches the bundle-store
// uniqueness, so dedup here and dedup there agree.
type PairKey struct {
	SubjectConceptID uuid.UUID
	ObjectConceptID  uuid.UUID
	SectionID        uuid.UUID
}

// FindCandidatePairs forms all unordered pairs of distinct canonical
// concepts among the located mentions of one section. Per concept, the
// first resolved mention in document order represents the concept; pairs
// whose key appears in seen (bundles already stored for this document
// version) are skipped. Output order is deterministic regardless of input
// order.
func FindCandidatePairs(located []LocatedMention, sectionID uuid.UUID, seen map[PairKey]bool) []CandidatePair {
	byConcept := map[uuid.UUID]LocatedMention{}
	for _, lm := range located {
		if lm.Mention == nil || lm.Mention.ConceptID == uuid.Nil || lm.Tier == TierNone {
			continue
		}
		cur, ok := byConcept[lm.Mention.ConceptID]
		if !ok || lm.Span.Start < cur.Span.Start {
			byConcept[lm.Mention.ConceptID] = lm
		}
	}

	ids := make([]uuid.UUID, 0, len(byConcept))
	for id := range byConcept {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return strings.Compare(ids[i].String(), ids[j].String()) < 0
	})

	var out []CandidatePair
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			key := PairKey{SubjectConceptID: ids[i], ObjectConceptID: ids[j], SectionID: sectionID}
			if seen != nil && seen[key] {
				continue
			}
			out = append(out, CandidatePair{
				Subject: byConcept[ids[i]],
				Object:  byConcept[ids[j]],
			})
		}
	}
	return out
}

// Key returns the canonical pair key for a candidate pair.
func (p CandidatePair) Key(sectionID uuid.UUID) PairKey {
	return PairKey{
		SubjectConceptID: p.Subject.Mention.ConceptID,
		ObjectConceptID:  p.Object.Mention.ConceptID,
		SectionID:        sectionID,
	}
}
