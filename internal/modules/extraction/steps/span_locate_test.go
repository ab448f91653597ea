package steps

import (
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/relation-engine/internal/nlp"
)

func locatorParse(t *testing.T) *nlp.SectionParse {
	t.Helper()
	p := mkParse(t, "Redis integrates with Apache Kafka.", []tok{
		{"Redis", "PROPN", "nsubj", 2, ""},
		{"integrates", "VERB", "root", 0, "Mood=Ind|VerbForm=Fin"},
		{"with", "ADP", "case", 4, ""},
		{"Apache", "PROPN", "compound", 5, ""},
		{"Kafka", "PROPN", "obl", 2, ""},
		{".", "PUNCT", "punct", 2, ""},
	})
	p.Entities = []nlp.EntitySpan{{Start: 22, End: 34, Text: "Apache Kafka", Label: "PRODUCT"}}
	return p
}

func TestLocateSpanExactTier(t *testing.T) {
	parse := locatorParse(t)
	sectionID := uuid.New()
	cfg := testConfig().Locator

	m := anchoredMention(sectionID, "Redis", 0, 5, 0.9)
	lm, ok := LocateSpan(parse, m, cfg)
	if !ok {
		t.Fatalf("locator abstained")
	}
	if lm.Tier != TierExact {
		t.Fatalf("tier = %s, want exact", lm.Tier)
	}
	if lm.Span.Start != 0 || lm.Span.End != 5 {
		t.Fatalf("span = [%d,%d), want [0,5)", lm.Span.Start, lm.Span.End)
	}
	if lm.Confidence != 0.9 {
		t.Fatalf("confidence = %v, want 0.9 (exact tier keeps mention confidence)", lm.Confidence)
	}
}

func TestLocateSpanExpandsToTokenBoundaries(t *testing.T) {
	parse := locatorParse(t)
	cfg := testConfig().Locator

	// Interval clipped one rune short of the token edge; the surface still
	// matches the full token, so expansion must recover it.
	m := anchoredMention(uuid.New(), "integrates", 6, 15, 1.0)
	lm, ok := LocateSpan(parse, m, cfg)
	if !ok {
		t.Fatalf("locator abstained")
	}
	if lm.Tier != TierExpanded {
		t.Fatalf("tier = %s, want token_expanded", lm.Tier)
	}
	if got := lm.Span.SliceOf(parse.Text); got != "integrates" {
		t.Fatalf("expanded slice = %q", got)
	}
	if lm.Confidence != 0.9 {
		t.Fatalf("confidence = %v, want 0.9 after expansion penalty", lm.Confidence)
	}
}

func TestLocateSpanEntityTier(t *testing.T) {
	parse := locatorParse(t)
	cfg := testConfig().Locator

	m := unanchoredMention(uuid.New(), "apache kafka", 1.0)
	lm, ok := LocateSpan(parse, m, cfg)
	if !ok {
		t.Fatalf("locator abstained")
	}
	if lm.Tier != TierEntity {
		t.Fatalf("tier = %s, want entity_match", lm.Tier)
	}
	if got := lm.Span.SliceOf(parse.Text); got != "Apache Kafka" {
		t.Fatalf("entity slice = %q", got)
	}
	if lm.Confidence != 0.85 {
		t.Fatalf("confidence = %v, want 0.85", lm.Confidence)
	}
}

func TestLocateSpanTokenSubstringTier(t *testing.T) {
	parse := locatorParse(t)
	cfg := testConfig().Locator

	m := unanchoredMention(uuid.New(), "kafka", 1.0)
	lm, ok := LocateSpan(parse, m, cfg)
	if !ok {
		t.Fatalf("locator abstained")
	}
	if lm.Tier != TierSubstring {
		t.Fatalf("tier = %s, want token_substring", lm.Tier)
	}
	if got := lm.Span.SliceOf(parse.Text); got != "Kafka" {
		t.Fatalf("substring slice = %q", got)
	}
	if lm.Confidence != 0.7 {
		t.Fatalf("confidence = %v, want 0.7", lm.Confidence)
	}
}

func TestLocateSpanAbstains(t *testing.T) {
	parse := locatorParse(t)
	cfg := testConfig().Locator

	cases := []struct {
		name    string
		mention func() (lm LocatedMention, ok bool)
	}{
		{"surface absent everywhere", func() (LocatedMention, bool) {
			return LocateSpan(parse, unanchoredMention(uuid.New(), "Postgres", 1.0), cfg)
		}},
		{"anchored interval mismatches surface", func() (LocatedMention, bool) {
			// [0,5) is "Redis" but the claimed surface is different; no
			// tier may silently accept the wrong interval.
			return LocateSpan(parse, anchoredMention(uuid.New(), "Postgres", 0, 5, 1.0), cfg)
		}},
		{"interval out of range, surface unrecoverable", func() (LocatedMention, bool) {
			return LocateSpan(parse, anchoredMention(uuid.New(), "Kafkaesque", 30, 99, 1.0), cfg)
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, ok := tc.mention(); ok {
				t.Fatalf("want abstain")
			}
		})
	}
}

// Every resolved span must fold-match its surface regardless of tier.
func TestLocateSpanInvariant(t *testing.T) {
	parse := locatorParse(t)
	cfg := testConfig().Locator

	surfaces := []string{"Redis", "integrates", "apache kafka", "kafka"}
	for _, surface := range surfaces {
		lm, ok := LocateSpan(parse, unanchoredMention(uuid.New(), surface, 1.0), cfg)
		if !ok {
			t.Fatalf("locator abstained for %q", surface)
		}
		got := lm.Span.SliceOf(parse.Text)
		if !foldEqual(got, surface) {
			t.Fatalf("slice %q does not fold-match surface %q", got, surface)
		}
	}
}

func TestLocateSpanMultibyteText(t *testing.T) {
	parse := mkParse(t, "Redis s'intègre avec Kafka.", []tok{
		{"Redis", "PROPN", "nsubj", 3, ""},
		{"s'", "PRON", "expl", 3, ""},
		{"intègre", "VERB", "root", 0, "Mood=Ind|VerbForm=Fin"},
		{"avec", "ADP", "case", 5, ""},
		{"Kafka", "PROPN", "obl", 3, ""},
		{".", "PUNCT", "punct", 3, ""},
	})
	cfg := testConfig().Locator

	// Byte offsets spanning the two-byte rune: "s'intègre" is [6,16).
	lm, ok := LocateSpan(parse, anchoredMention(uuid.New(), "s'intègre", 6, 16, 1.0), cfg)
	if !ok {
		t.Fatalf("locator abstained on multibyte span")
	}
	if lm.Tier != TierExact {
		t.Fatalf("tier = %s, want exact", lm.Tier)
	}
	if got := lm.Span.SliceOf(parse.Text); got != "s'intègre" {
		t.Fatalf("slice = %q", got)
	}

	sub, ok := LocateSpan(parse, unanchoredMention(uuid.New(), "intègre", 1.0), cfg)
	if !ok {
		t.Fatalf("locator abstained on multibyte substring")
	}
	if sub.Tier != TierSubstring {
		t.Fatalf("tier = %s, want token_substring", sub.Tier)
	}
	if got := sub.Span.SliceOf(parse.Text); got != "intègre" {
		t.Fatalf("substring slice = %q", got)
	}
}
