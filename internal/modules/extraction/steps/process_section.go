package steps

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/yungbote/relation-engine/internal/config"
	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/nlp"
)

// SectionResult is everything one section produced: bundles ready to
// persist (CANDIDATE and REJECTED alike) plus the abstain counters that
// make the audit add up: pairs == len(Bundles) + PredicateAbstains.
type SectionResult struct {
	SectionID uuid.UUID

	MentionsSeen    int
	LocatorAbstains int
	Pairs           int

	PredicateAbstains int
	Bundles           []*types.EvidenceBundle
	Fragments         map[uuid.UUID][]*types.EvidenceFragment
}

// ProcessSection runs the full pipeline for one parsed section: locate
// mention spans, form candidate pairs, extract and validate predicates,
// and assemble bundles. Pure over its inputs; the caller owns persistence
// and the shared parse is read-only throughout.
func ProcessSection(section *types.DocumentSection, parse *nlp.SectionParse, mentions []*types.ConceptMention, seen map[PairKey]bool, rules []Rule, cfg config.Extraction) (SectionResult, error) {
	out := SectionResult{Fragments: map[uuid.UUID][]*types.EvidenceFragment{}}
	if section == nil || parse == nil {
		return out, fmt.Errorf("process_section: missing section or parse")
	}
	out.SectionID = section.ID
	out.MentionsSeen = len(mentions)

	var located []LocatedMention
	for _, m := range mentions {
		lm, ok := LocateSpan(parse, m, cfg.Locator)
		if !ok {
			out.LocatorAbstains++
			continue
		}
		located = append(located, lm)
	}

	pairs := FindCandidatePairs(located, section.ID, seen)
	out.Pairs = len(pairs)

	for _, pair := range pairs {
		outcome := processPair(section, parse, pair, rules, cfg)
		if outcome.Kind == OutcomeAbstained {
			out.PredicateAbstains++
			continue
		}
		out.Bundles = append(out.Bundles, outcome.Bundle)
		out.Fragments[outcome.Bundle.ID] = outcome.Bundle.Fragments
	}
	return out, nil
}

// processPair turns one candidate pair into a tagged outcome. Every
// non-abstained pair yields exactly one bundle so the audit log stays
// complete even for rejections.
func processPair(section *types.DocumentSection, parse *nlp.SectionParse, pair CandidatePair, rules []Rule, cfg config.Extraction) PairOutcome {
	pred, ok := ExtractPredicate(parse, pair, cfg.Predicate)
	if !ok {
		return PairOutcome{Kind: OutcomeAbstained}
	}
	pred.Context.SubjectSectionID = pair.Subject.Mention.SectionID
	pred.Context.ObjectSectionID = pair.Object.Mention.SectionID

	bundle := &types.EvidenceBundle{
		ID:               uuid.New(),
		DocumentID:       section.DocumentID,
		DocumentVersion:  section.DocumentVersion,
		SectionID:        section.ID,
		SubjectConceptID: pair.Subject.Mention.ConceptID,
		ObjectConceptID:  pair.Object.Mention.ConceptID,
		RelationType:     "RELATED_TO",
		TypingConfidence: pred.Confidence,
		Status:           types.StatusCandidate,
	}
	bundle.Fragments = []*types.EvidenceFragment{
		mentionFragment(bundle, section, pair.Subject, types.RoleSubject),
		mentionFragment(bundle, section, pair.Object, types.RoleObject),
		{
			ID:         uuid.New(),
			BundleID:   bundle.ID,
			Kind:       types.FragmentPredicateLexical,
			Role:       types.RolePredicate,
			Text:       pred.Text,
			SectionID:  section.ID,
			StartChar:  pred.Span.Start,
			EndChar:    pred.Span.End,
			Confidence: pred.Confidence,
			Method:     "dependency_parse",
		},
	}

	if r := Validate(rules, pred.Context); r != nil {
		bundle.Status = types.StatusRejected
		bundle.RejectionReason = r
		return PairOutcome{Kind: OutcomeRejected, Reason: r, Bundle: bundle}
	}
	return PairOutcome{Kind: OutcomeCandidate, Bundle: bundle}
}

func mentionFragment(bundle *types.EvidenceBundle, section *types.DocumentSection, lm LocatedMention, role string) *types.EvidenceFragment {
	return &types.EvidenceFragment{
		ID:         uuid.New(),
		BundleID:   bundle.ID,
		Kind:       types.FragmentEntityMention,
		Role:       role,
		Text:       lm.Span.SliceOf(section.Text),
		SectionID:  section.ID,
		StartChar:  lm.Span.Start,
		EndChar:    lm.Span.End,
		Confidence: lm.Confidence,
		Method:     "span_locator:" + lm.Tier.String(),
	}
}
