package extraction

import (
	"fmt"
	"strings"
)

// CharSpan is a half-open character interval [Start, End) into one
// section's text. Construction validates bounds so an out-of-range span
// is unrepresentable downstream.
type CharSpan struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func NewCharSpan(start, end, textLen int) (CharSpan, error) {
	if start < 0 || end <= start || end > textLen {
		return CharSpan{}, fmt.Errorf("span [%d,%d) out of range for text of length %d", start, end, textLen)
	}
	return CharSpan{Start: start, End: end}, nil
}

func (s CharSpan) Len() int { return s.End - s.Start }

func (s CharSpan) SliceOf(text string) string {
	if s.Start < 0 || s.End > len(text) || s.End <= s.Start {
		return ""
	}
	return text[s.Start:s.End]
}

// Fold normalizes a surface string for anchoring comparisons: lower-cased
// with all whitespace runs collapsed to single spaces.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// FoldEqual reports whether two surfaces are equal after folding.
func FoldEqual(a, b string) bool { return Fold(a) == Fold(b) }
