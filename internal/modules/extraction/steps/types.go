package steps

import (
	"github.com/google/uuid"

	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/nlp"
)

// Locator tiers, in fallback order. The tier that resolved a span decides
// the confidence multiplier applied to the mention confidence.
type LocatorTier int

const (
	TierNone LocatorTier = iota
	TierExact
	TierExpanded
	TierEntity
	TierSubstring
)

func (t LocatorTier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierExpanded:
		return "token_expanded"
	case TierEntity:
		return "entity_match"
	case TierSubstring:
		return "token_substring"
	default:
		return "none"
	}
}

// LocatedMention is a mention whose character interval survived the
// locator, carrying the tier-adjusted confidence.
type LocatedMention struct {
	Mention    *types.ConceptMention
	Span       types.CharSpan
	Tier       LocatorTier
	Confidence float64
}

// CandidatePair is one unordered concept pair to test for a relation.
// Subject/Object ordering is canonical (sorted concept IDs), which fixes
// pair identity across runs and drops symmetric duplicates.
type CandidatePair struct {
	Subject LocatedMention
	Object  LocatedMention
}

// PredicateContext is everything the validator rules may look at: the
// shared read-only parse plus the token indices the extractor resolved.
// Rules never see raw text, only structure.
type PredicateContext struct {
	Parse       *nlp.SectionParse
	PredIndex   int
	SubjectHead int
	ObjectHead  int

	SubjectSectionID uuid.UUID
	ObjectSectionID  uuid.UUID
}

func (pc PredicateContext) Predicate() *nlp.Token {
	return pc.Parse.TokenByIndex(pc.PredIndex)
}

// ExtractedPredicate is the verbatim predicate phrase between a pair.
type ExtractedPredicate struct {
	Span       types.CharSpan
	Text       string
	Confidence float64
	Context    PredicateContext
}

// Pair outcomes. Abstained and Rejected are designed results, not errors.
type OutcomeKind int

const (
	OutcomeAbstained OutcomeKind = iota
	OutcomeRejected
	OutcomeCandidate
)

// PairOutcome is the tagged result of processing one candidate pair.
// Bundle is nil only for OutcomeAbstained.
type PairOutcome struct {
	Kind   OutcomeKind
	Reason *types.RejectionReason
	Bundle *types.EvidenceBundle
}
