package nlp

import "strings"

// Token is one syntactic word of a Universal Dependencies parse, anchored
// to the owning section text by a half-open byte interval [Start, End).
type Token struct {
	Index  int // 1-based, global across sentences within the section
	Text   string
	Start  int
	End    int
	Lemma  string
	UPOS   string
	Feats  map[string]string
	Head   int // global Index of the governing token; 0 for a sentence root
	Deprel string
}

func (t Token) IsRoot() bool { return t.Head == 0 }

// Feat returns the value of a single morphological feature ("" when absent).
func (t Token) Feat(name string) string {
	if len(t.Feats) == 0 {
		return ""
	}
	return t.Feats[name]
}

// BaseDeprel strips any language-specific subtype, e.g. "nsubj:pass" -> "nsubj".
func (t Token) BaseDeprel() string {
	if i := strings.IndexByte(t.Deprel, ':'); i >= 0 {
		return t.Deprel[:i]
	}
	return t.Deprel
}

// PredicateBearing reports whether the token can carry a predicate
// (verbal or auxiliary class; validation decides whether it survives).
func (t Token) PredicateBearing() bool {
	return t.UPOS == "VERB" || t.UPOS == "AUX"
}

// EntitySpan is a named-entity annotation carried alongside the parse.
type EntitySpan struct {
	Start int
	End   int
	Text  string
	Label string
}
