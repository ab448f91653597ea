package steps

import (
	"github.com/yungbote/relation-engine/internal/config"
	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/domain/extraction"
	"github.com/yungbote/relation-engine/internal/nlp"
)

// Deprels that count as direct core-argument attachment to a predicate.
func coreArgument(deprel string) bool {
	switch deprel {
	case "nsubj", "csubj", "obj", "iobj", "obl":
		return true
	}
	return false
}

// phraseDeprel lists dependents folded into the verbatim predicate
// phrase when they sit between the two mention spans (auxiliaries,
// particles, negation-free function words attached to the predicate).
func phraseDeprel(deprel string) bool {
	switch deprel {
	case "aux", "cop", "mark", "compound", "fixed", "flat":
		return true
	}
	return false
}

// ExtractPredicate finds the predicate connecting a candidate pair inside
// one shared section parse. It searches only the token range strictly
// between the two spans, preferring the shared dependency governor of the
// two span heads when that governor is itself predicate-bearing and lies
// between them, and otherwise falling back to the predicate-bearing token
// nearest the left span. The second return is false when no
// predicate-bearing token exists between the spans: the pair abstains and
// no bundle is created.
func ExtractPredicate(parse *nlp.SectionParse, pair CandidatePair, cfg config.PredicateConfig) (ExtractedPredicate, bool) {
	out := ExtractedPredicate{}
	if parse == nil {
		return out, false
	}

	left, right := pair.Subject.Span, pair.Object.Span
	if right.Start < left.Start {
		left, right = right, left
	}
	between := parse.TokensBetween(left.End, right.Start)
	if len(between) == 0 {
		return out, false
	}
	betweenSet := make(map[int]bool, len(between))
	for _, idx := range between {
		betweenSet[idx] = true
	}

	subjHead := parse.HeadOfSpan(pair.Subject.Span.Start, pair.Subject.Span.End)
	objHead := parse.HeadOfSpan(pair.Object.Span.Start, pair.Object.Span.End)

	pred := 0
	if subjHead != 0 && objHead != 0 {
		if gov := parse.SharedGovernor(subjHead, objHead); gov != 0 && betweenSet[gov] {
			if tok := parse.TokenByIndex(gov); tok != nil && tok.PredicateBearing() {
				pred = gov
			}
		}
	}
	if pred == 0 {
		// Nearest predicate-bearing token, scanning outward from the left
		// span so the predicate closest to a mention wins.
		for _, idx := range between {
			tok := parse.TokenByIndex(idx)
			if tok != nil && tok.PredicateBearing() {
				pred = idx
				break
			}
		}
	}
	if pred == 0 {
		return out, false
	}

	conf := cfg.IndirectConfidence
	if directAttachment(parse, pred, subjHead) && directAttachment(parse, pred, objHead) {
		conf = cfg.DirectConfidence
	}

	span := predicatePhraseSpan(parse, pred, betweenSet)
	cs, err := extraction.NewCharSpan(span.Start, span.End, len(parse.Text))
	if err != nil {
		return out, false
	}

	out = ExtractedPredicate{
		Span:       cs,
		Text:       cs.SliceOf(parse.Text),
		Confidence: conf,
		Context: PredicateContext{
			Parse:       parse,
			PredIndex:   pred,
			SubjectHead: subjHead,
			ObjectHead:  objHead,
		},
	}
	return out, true
}

// directAttachment reports whether a span head hangs off the predicate as
// a core argument (or is the predicate itself, as happens when a copula
// or nominal predicate heads the span).
func directAttachment(parse *nlp.SectionParse, pred, head int) bool {
	if head == 0 {
		return false
	}
	if head == pred {
		return true
	}
	tok := parse.TokenByIndex(head)
	return tok != nil && tok.Head == pred && coreArgument(tok.BaseDeprel())
}

// predicatePhraseSpan widens the predicate token to cover its phrase-level
// dependents that also lie between the spans, so "can integrate" comes
// back whole rather than as a bare verb.
func predicatePhraseSpan(parse *nlp.SectionParse, pred int, betweenSet map[int]bool) types.CharSpan {
	tok := parse.TokenByIndex(pred)
	span := types.CharSpan{Start: tok.Start, End: tok.End}
	for _, child := range parse.Children(pred) {
		if !betweenSet[child] {
			continue
		}
		c := parse.TokenByIndex(child)
		if c == nil || !phraseDeprel(c.BaseDeprel()) {
			continue
		}
		if c.Start < span.Start {
			span.Start = c.Start
		}
		if c.End > span.End {
			span.End = c.End
		}
	}
	return span
}
