package steps

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	types "github.com/yungbote/relation-engine/internal/domain"
	"github.com/yungbote/relation-engine/internal/nlp"
)

// Four concepts in one section. Redis/Cluster are adjacent tokens (nothing
// between, predicate abstain), Kafka/Postgres connect only through a
// conditional auxiliary (modal rejection), and the remaining four pairs
// resolve through the transitive predicate of the first clause.
func sectionFixture(t *testing.T) (*types.DocumentSection, *nlp.SectionParse, []*types.ConceptMention) {
	t.Helper()
	text := "Redis Cluster integrates with Kafka. It could replace Postgres."
	parse := mkParse(t, text, []tok{
		{"Redis", "PROPN", "compound", 2, ""},
		{"Cluster", "PROPN", "nsubj", 3, ""},
		{"integrates", "VERB", "root", 0, "Mood=Ind|VerbForm=Fin"},
		{"with", "ADP", "case", 5, ""},
		{"Kafka", "PROPN", "obl", 3, ""},
		{".", "PUNCT", "punct", 3, ""},
		{"It", "PRON", "nsubj", 9, ""},
		{"could", "AUX", "aux", 9, "Mood=Cnd|VerbForm=Fin"},
		{"replace", "VERB", "root", 0, "VerbForm=Inf"},
		{"Postgres", "PROPN", "obj", 9, ""},
		{".", "PUNCT", "punct", 9, ""},
	})

	section := &types.DocumentSection{
		ID:              uuid.New(),
		DocumentID:      uuid.New(),
		DocumentVersion: 1,
		SectionIndex:    0,
		Text:            text,
		Language:        "en",
	}

	mention := func(surface string) *types.ConceptMention {
		at := strings.Index(text, surface)
		if at < 0 {
			t.Fatalf("surface %q not in fixture text", surface)
		}
		return anchoredMention(section.ID, surface, at, at+len(surface), 0.9)
	}
	mentions := []*types.ConceptMention{
		mention("Redis"),
		mention("Cluster"),
		mention("Kafka"),
		mention("Postgres"),
		unanchoredMention(section.ID, "Elasticsearch", 0.9), // locator abstain
	}
	return section, parse, mentions
}

func TestProcessSectionAuditCompleteness(t *testing.T) {
	section, parse, mentions := sectionFixture(t)
	cfg := testConfig()

	res, err := ProcessSection(section, parse, mentions, nil, DefaultRules(), cfg)
	if err != nil {
		t.Fatalf("ProcessSection: %v", err)
	}

	if res.MentionsSeen != 5 {
		t.Fatalf("mentions seen = %d, want 5", res.MentionsSeen)
	}
	if res.LocatorAbstains != 1 {
		t.Fatalf("locator abstains = %d, want 1 (unlocatable surface)", res.LocatorAbstains)
	}
	// Four located concepts form six pairs regardless of outcome.
	if res.Pairs != 6 {
		t.Fatalf("pairs = %d, want 6", res.Pairs)
	}
	if got := len(res.Bundles) + res.PredicateAbstains; got != res.Pairs {
		t.Fatalf("bundles(%d) + predicate abstains(%d) = %d, want pairs %d",
			len(res.Bundles), res.PredicateAbstains, got, res.Pairs)
	}

	candidates, rejected := 0, 0
	for _, b := range res.Bundles {
		if len(b.Fragments) != 3 {
			t.Fatalf("bundle has %d fragments, want subject+object+predicate", len(b.Fragments))
		}
		if got := res.Fragments[b.ID]; len(got) != 3 {
			t.Fatalf("fragment map missing entries for bundle %s", b.ID)
		}
		switch b.Status {
		case types.StatusCandidate:
			candidates++
			if b.RejectionReason != nil {
				t.Fatalf("candidate bundle carries rejection reason %s", *b.RejectionReason)
			}
		case types.StatusRejected:
			rejected++
			if b.RejectionReason == nil {
				t.Fatalf("rejected bundle has no reason")
			}
			if *b.RejectionReason != types.ReasonModalOrIntentional {
				t.Fatalf("rejection reason = %s, want modal", *b.RejectionReason)
			}
		default:
			t.Fatalf("unexpected status %q", b.Status)
		}
	}
	if candidates != 4 {
		t.Fatalf("candidates = %d, want 4", candidates)
	}
	if rejected != 1 {
		t.Fatalf("rejected = %d, want 1 (the modal-only pair)", rejected)
	}
	if res.PredicateAbstains != 1 {
		t.Fatalf("predicate abstains = %d, want 1 (the adjacent pair)", res.PredicateAbstains)
	}
}

func TestProcessSectionFragmentsRecordProvenance(t *testing.T) {
	section, parse, mentions := sectionFixture(t)

	res, err := ProcessSection(section, parse, mentions, nil, DefaultRules(), testConfig())
	if err != nil {
		t.Fatalf("ProcessSection: %v", err)
	}
	for _, b := range res.Bundles {
		for _, f := range b.Fragments {
			if f.BundleID != b.ID || f.SectionID != section.ID {
				t.Fatalf("fragment not stamped with bundle/section identity")
			}
			switch f.Kind {
			case types.FragmentEntityMention:
				if !strings.HasPrefix(f.Method, "span_locator:") {
					t.Fatalf("mention fragment method = %q", f.Method)
				}
				if got := section.Text[f.StartChar:f.EndChar]; got != f.Text {
					t.Fatalf("fragment text %q does not match its span slice %q", f.Text, got)
				}
			case types.FragmentPredicateLexical:
				if f.Method != "dependency_parse" {
					t.Fatalf("predicate fragment method = %q", f.Method)
				}
			default:
				t.Fatalf("unexpected fragment kind %q", f.Kind)
			}
		}
	}
}

func TestProcessSectionSkipsSeenPairs(t *testing.T) {
	section, parse, mentions := sectionFixture(t)
	cfg := testConfig()

	first, err := ProcessSection(section, parse, mentions, nil, DefaultRules(), cfg)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}

	seen := map[PairKey]bool{}
	for _, b := range first.Bundles {
		seen[PairKey{SubjectConceptID: b.SubjectConceptID, ObjectConceptID: b.ObjectConceptID, SectionID: b.SectionID}] = true
	}

	second, err := ProcessSection(section, parse, mentions, seen, DefaultRules(), cfg)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second.Bundles) != 0 {
		t.Fatalf("reprocessing produced %d new bundles, want 0", len(second.Bundles))
	}
	// Abstained pairs never wrote a bundle, so only they come back.
	if second.Pairs != first.PredicateAbstains {
		t.Fatalf("second run pairs = %d, want %d", second.Pairs, first.PredicateAbstains)
	}
}

func TestProcessSectionRequiresParse(t *testing.T) {
	section, _, mentions := sectionFixture(t)
	if _, err := ProcessSection(section, nil, mentions, nil, DefaultRules(), testConfig()); err == nil {
		t.Fatalf("want error for missing parse")
	}
}
