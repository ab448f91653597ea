package steps

import (
	"strings"

	"github.com/yungbote/relation-engine/internal/config"
	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/domain/extraction"
	"github.com/yungbote/relation-engine/internal/nlp"
)

// LocateSpan resolves a mention's character interval inside the parsed
// section through the four-tier fallback chain. Every tier re-verifies
// that the resolved slice still fold-matches the mention surface; a tier
// that cannot guarantee that falls through rather than guessing. When no
// tier succeeds the second return is false: the mention is abstained and
// the caller drops it without creating any evidence.
func LocateSpan(parse *nlp.SectionParse, mention *types.ConceptMention, cfg config.LocatorConfig) (LocatedMention, bool) {
	out := LocatedMention{Mention: mention, Tier: TierNone}
	if parse == nil || mention == nil || strings.TrimSpace(mention.Surface) == "" {
		return out, false
	}

	if mention.Anchored() {
		start, end := *mention.StartChar, *mention.EndChar

		if span, ok := locateExact(parse, mention.Surface, start, end); ok {
			out.Span, out.Tier = span, TierExact
			out.Confidence = mention.Confidence * cfg.TierExact
			return out, true
		}
		if span, ok := locateExpanded(parse, mention.Surface, start, end); ok {
			out.Span, out.Tier = span, TierExpanded
			out.Confidence = mention.Confidence * cfg.TierExpanded
			return out, true
		}
	}

	if span, ok := locateEntity(parse, mention.Surface); ok {
		out.Span, out.Tier = span, TierEntity
		out.Confidence = mention.Confidence * cfg.TierEntity
		return out, true
	}
	if span, ok := locateTokenSubstring(parse, mention.Surface); ok {
		out.Span, out.Tier = span, TierSubstring
		out.Confidence = mention.Confidence * cfg.TierSubstring
		return out, true
	}

	return out, false
}

// locateExact accepts the interval as given when it is token-aligned on
// both edges and its slice fold-matches the surface.
func locateExact(parse *nlp.SectionParse, surface string, start, end int) (types.CharSpan, bool) {
	span, err := extraction.NewCharSpan(start, end, len(parse.Text))
	if err != nil {
		return types.CharSpan{}, false
	}
	if !extraction.FoldEqual(span.SliceOf(parse.Text), surface) {
		return types.CharSpan{}, false
	}
	startAligned, endAligned := false, false
	for i := range parse.Tokens {
		if parse.Tokens[i].Start == start {
			startAligned = true
		}
		if parse.Tokens[i].End == end {
			endAligned = true
		}
	}
	if !startAligned || !endAligned {
		return types.CharSpan{}, false
	}
	return span, true
}

// locateExpanded widens an interval that falls strictly inside token
// boundaries out to the enclosing tokens. The widened slice must still
// fold-match the surface, otherwise the expansion would silently change
// what the mention says.
func locateExpanded(parse *nlp.SectionParse, surface string, start, end int) (types.CharSpan, bool) {
	if end <= start {
		return types.CharSpan{}, false
	}
	left := parse.TokenAt(start)
	right := parse.TokenAt(end - 1)
	if left == nil || right == nil {
		return types.CharSpan{}, false
	}
	span, err := extraction.NewCharSpan(left.Start, right.End, len(parse.Text))
	if err != nil {
		return types.CharSpan{}, false
	}
	if !extraction.FoldEqual(span.SliceOf(parse.Text), surface) {
		return types.CharSpan{}, false
	}
	return span, true
}

// locateEntity matches the surface case-insensitively against recognized
// entity spans carried with the parse.
func locateEntity(parse *nlp.SectionParse, surface string) (types.CharSpan, bool) {
	for _, e := range parse.Entities {
		if !extraction.FoldEqual(e.Text, surface) {
			continue
		}
		span, err := extraction.NewCharSpan(e.Start, e.End, len(parse.Text))
		if err != nil {
			continue
		}
		if !extraction.FoldEqual(span.SliceOf(parse.Text), surface) {
			continue
		}
		return span, true
	}
	return types.CharSpan{}, false
}

// locateTokenSubstring finds the surface as a case-insensitive substring
// of a single token and anchors to that sub-interval, so the span
// invariant keeps holding even at the loosest tier.
func locateTokenSubstring(parse *nlp.SectionParse, surface string) (types.CharSpan, bool) {
	needle := strings.ToLower(strings.TrimSpace(surface))
	if needle == "" {
		return types.CharSpan{}, false
	}
	for i := range parse.Tokens {
		tok := &parse.Tokens[i]
		at := strings.Index(strings.ToLower(tok.Text), needle)
		if at < 0 {
			continue
		}
		span, err := extraction.NewCharSpan(tok.Start+at, tok.Start+at+len(needle), len(parse.Text))
		if err != nil {
			continue
		}
		if !extraction.FoldEqual(span.SliceOf(parse.Text), surface) {
			continue
		}
		return span, true
	}
	return types.CharSpan{}, false
}
