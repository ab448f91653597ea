package steps

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/relation-engine/internal/config"
	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/nlp"
)

// tok is a compact token spec for hand-built parses: form text plus the
// grammatical columns under test. Offsets are derived by scanning the
// sentence left to right.
type tok struct {
	form   string
	upos   string
	deprel string
	head   int
	feats  string
}

func mkParse(t *testing.T, text string, toks []tok) *nlp.SectionParse {
	t.Helper()
	parse := &nlp.SectionParse{Text: text}
	cursor := 0
	for i, spec := range toks {
		at := strings.Index(text[cursor:], spec.form)
		if at < 0 {
			t.Fatalf("fixture token %q not found in %q after offset %d", spec.form, text, cursor)
		}
		start := cursor + at
		end := start + len(spec.form)
		cursor = end

		var feats map[string]string
		if spec.feats != "" {
			feats = map[string]string{}
			for _, pair := range strings.Split(spec.feats, "|") {
				k, v, _ := strings.Cut(pair, "=")
				feats[k] = v
			}
		}
		parse.Tokens = append(parse.Tokens, nlp.Token{
			Index:  i + 1,
			Text:   spec.form,
			Start:  start,
			End:    end,
			UPOS:   spec.upos,
			Feats:  feats,
			Head:   spec.head,
			Deprel: spec.deprel,
		})
	}
	return parse
}

func testConfig() config.Extraction {
	return config.Extraction{
		PromotionThreshold: 0.7,
		Predicate:          config.PredicateConfig{DirectConfidence: 0.8, IndirectConfidence: 0.6},
		Locator:            config.LocatorConfig{TierExact: 1.0, TierExpanded: 0.9, TierEntity: 0.85, TierSubstring: 0.7},
		Rules:              []string{"auxiliary", "copula", "modal_or_intentional", "proximity"},
		Concurrency:        config.ConcurrencyConfig{SectionWorkers: 2},
	}
}

func anchoredMention(sectionID uuid.UUID, surface string, start, end int, confidence float64) *types.ConceptMention {
	s, e := start, end
	return &types.ConceptMention{
		ID:         uuid.New(),
		ConceptID:  uuid.New(),
		SectionID:  sectionID,
		Surface:    surface,
		StartChar:  &s,
		EndChar:    &e,
		Confidence: confidence,
		Method:     "lexical",
	}
}

func unanchoredMention(sectionID uuid.UUID, surface string, confidence float64) *types.ConceptMention {
	return &types.ConceptMention{
		ID:         uuid.New(),
		ConceptID:  uuid.New(),
		SectionID:  sectionID,
		Surface:    surface,
		Confidence: confidence,
		Method:     "lexical",
	}
}

// locatePair anchors two surfaces in the parse text and runs the locator,
// failing the test on abstain.
func locatePair(t *testing.T, parse *nlp.SectionParse, sectionID uuid.UUID, subjSurface, objSurface string) CandidatePair {
	t.Helper()
	cfg := testConfig()

	mk := func(surface string) LocatedMention {
		at := strings.Index(parse.Text, surface)
		if at < 0 {
			t.Fatalf("surface %q not in text %q", surface, parse.Text)
		}
		m := anchoredMention(sectionID, surface, at, at+len(surface), 0.9)
		lm, ok := LocateSpan(parse, m, cfg.Locator)
		if !ok {
			t.Fatalf("locator abstained for %q", surface)
		}
		return lm
	}

	return CandidatePair{Subject: mk(subjSurface), Object: mk(objSurface)}
}

func foldEqual(a, b string) bool {
	fold := func(s string) string {
		return strings.Join(strings.Fields(strings.ToLower(s)), " ")
	}
	return fold(a) == fold(b)
}
