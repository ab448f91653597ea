package steps

import (
	"testing"

	"github.com/google/uuid"
)

func TestExtractPredicateDirectAttachment(t *testing.T) {
	parse := mkParse(t, "Redis integrates with Kafka.", []tok{
		{"Redis", "PROPN", "nsubj", 2, ""},
		{"integrates", "VERB", "root", 0, "Mood=Ind|VerbForm=Fin"},
		{"with", "ADP", "case", 4, ""},
		{"Kafka", "PROPN", "obl", 2, ""},
		{".", "PUNCT", "punct", 2, ""},
	})
	pair := locatePair(t, parse, uuid.New(), "Redis", "Kafka")

	pred, ok := ExtractPredicate(parse, pair, testConfig().Predicate)
	if !ok {
		t.Fatalf("predicate abstained")
	}
	if pred.Text != "integrates" {
		t.Fatalf("predicate text = %q", pred.Text)
	}
	if pred.Confidence != 0.8 {
		t.Fatalf("confidence = %v, want direct 0.8", pred.Confidence)
	}
}

func TestExtractPredicateIndirectAttachment(t *testing.T) {
	// Kafka hangs off the embedded infinitive, not the matrix predicate,
	// so attachment is indirect and the lower confidence applies.
	parse := mkParse(t, "Redis is designed to connect to Kafka.", []tok{
		{"Redis", "PROPN", "nsubj:pass", 3, ""},
		{"is", "AUX", "aux:pass", 3, "Mood=Ind|VerbForm=Fin"},
		{"designed", "VERB", "root", 0, "Tense=Past|VerbForm=Part"},
		{"to", "PART", "mark", 5, ""},
		{"connect", "VERB", "xcomp", 3, "VerbForm=Inf"},
		{"to", "ADP", "case", 7, ""},
		{"Kafka", "PROPN", "obl", 5, ""},
		{".", "PUNCT", "punct", 3, ""},
	})
	pair := locatePair(t, parse, uuid.New(), "Redis", "Kafka")

	pred, ok := ExtractPredicate(parse, pair, testConfig().Predicate)
	if !ok {
		t.Fatalf("predicate abstained")
	}
	if pred.Confidence != 0.6 {
		t.Fatalf("confidence = %v, want indirect 0.6", pred.Confidence)
	}
}

func TestExtractPredicatePhraseIncludesAuxiliaries(t *testing.T) {
	parse := mkParse(t, "Redis can integrate with Kafka.", []tok{
		{"Redis", "PROPN", "nsubj", 3, ""},
		{"can", "AUX", "aux", 3, "VerbForm=Fin"},
		{"integrate", "VERB", "root", 0, "VerbForm=Inf"},
		{"with", "ADP", "case", 5, ""},
		{"Kafka", "PROPN", "obl", 3, ""},
		{".", "PUNCT", "punct", 3, ""},
	})
	pair := locatePair(t, parse, uuid.New(), "Redis", "Kafka")

	pred, ok := ExtractPredicate(parse, pair, testConfig().Predicate)
	if !ok {
		t.Fatalf("predicate abstained")
	}
	if pred.Text != "can integrate" {
		t.Fatalf("predicate phrase = %q, want auxiliaries folded in", pred.Text)
	}
	if got := pred.Span.SliceOf(parse.Text); got != pred.Text {
		t.Fatalf("span slice %q != recorded text %q", got, pred.Text)
	}
}

func TestExtractPredicateAbstainsWithoutBetweenTokens(t *testing.T) {
	parse := mkParse(t, "Redis Kafka interoperate.", []tok{
		{"Redis", "PROPN", "compound", 2, ""},
		{"Kafka", "PROPN", "nsubj", 3, ""},
		{"interoperate", "VERB", "root", 0, "VerbForm=Fin"},
		{".", "PUNCT", "punct", 3, ""},
	})
	pair := locatePair(t, parse, uuid.New(), "Redis", "Kafka")

	if _, ok := ExtractPredicate(parse, pair, testConfig().Predicate); ok {
		t.Fatalf("want abstain: no tokens lie between the spans")
	}
}

func TestExtractPredicateAbstainsWithoutPredicateBearingToken(t *testing.T) {
	parse := mkParse(t, "Redis and Kafka interoperate.", []tok{
		{"Redis", "PROPN", "nsubj", 4, ""},
		{"and", "CCONJ", "cc", 3, ""},
		{"Kafka", "PROPN", "conj", 1, ""},
		{"interoperate", "VERB", "root", 0, "VerbForm=Fin"},
		{".", "PUNCT", "punct", 4, ""},
	})
	pair := locatePair(t, parse, uuid.New(), "Redis", "Kafka")

	if _, ok := ExtractPredicate(parse, pair, testConfig().Predicate); ok {
		t.Fatalf("want abstain: only a conjunction lies between the spans")
	}
}
