package nlp

// SectionParse is the dependency structure of one section, built exactly
// once per section and shared read-only across all candidate pairs. It
// never outlives the processing of its document.
type SectionParse struct {
	Text     string
	Language string
	Tokens   []Token
	Entities []EntitySpan
}

// TokenByIndex returns the token with the given 1-based index, or nil.
func (p *SectionParse) TokenByIndex(i int) *Token {
	if p == nil || i < 1 || i > len(p.Tokens) {
		return nil
	}
	return &p.Tokens[i-1]
}

// TokenAt returns the token covering the byte offset, or nil.
func (p *SectionParse) TokenAt(offset int) *Token {
	if p == nil {
		return nil
	}
	for i := range p.Tokens {
		if p.Tokens[i].Start <= offset && offset < p.Tokens[i].End {
			return &p.Tokens[i]
		}
	}
	return nil
}

// TokensWithin returns indices of tokens fully contained in [start, end).
func (p *SectionParse) TokensWithin(start, end int) []int {
	if p == nil {
		return nil
	}
	var out []int
	for i := range p.Tokens {
		if p.Tokens[i].Start >= start && p.Tokens[i].End <= end {
			out = append(out, p.Tokens[i].Index)
		}
	}
	return out
}

// TokensBetween returns indices of tokens lying strictly between two byte
// offsets, i.e. fully inside (leftEnd, rightStart), in document order.
func (p *SectionParse) TokensBetween(leftEnd, rightStart int) []int {
	if p == nil || rightStart <= leftEnd {
		return nil
	}
	var out []int
	for i := range p.Tokens {
		if p.Tokens[i].Start >= leftEnd && p.Tokens[i].End <= rightStart {
			out = append(out, p.Tokens[i].Index)
		}
	}
	return out
}

// Children returns the indices of tokens directly governed by index i.
func (p *SectionParse) Children(i int) []int {
	if p == nil {
		return nil
	}
	var out []int
	for j := range p.Tokens {
		if p.Tokens[j].Head == i {
			out = append(out, p.Tokens[j].Index)
		}
	}
	return out
}

// PathToRoot returns the chain of indices from i up to its sentence root,
// i included. Malformed head cycles terminate the walk.
func (p *SectionParse) PathToRoot(i int) []int {
	if p == nil || p.TokenByIndex(i) == nil {
		return nil
	}
	seen := make(map[int]bool, 8)
	var out []int
	for cur := i; cur != 0 && !seen[cur]; {
		seen[cur] = true
		out = append(out, cur)
		tok := p.TokenByIndex(cur)
		if tok == nil {
			break
		}
		cur = tok.Head
	}
	return out
}

// HeadOfSpan returns the index of the token inside [start, end) whose
// governor lies outside the span (the span's syntactic head), or 0 when
// the span covers no token.
func (p *SectionParse) HeadOfSpan(start, end int) int {
	within := p.TokensWithin(start, end)
	if len(within) == 0 {
		return 0
	}
	inSpan := make(map[int]bool, len(within))
	for _, idx := range within {
		inSpan[idx] = true
	}
	for _, idx := range within {
		tok := p.TokenByIndex(idx)
		if tok == nil {
			continue
		}
		if tok.Head == 0 || !inSpan[tok.Head] {
			return idx
		}
	}
	return within[0]
}

// SharedGovernor returns the lowest common ancestor of two token indices
// in the dependency tree, or 0 when they share none (distinct sentences).
func (p *SectionParse) SharedGovernor(a, b int) int {
	pa := p.PathToRoot(a)
	if len(pa) == 0 {
		return 0
	}
	onA := make(map[int]bool, len(pa))
	for _, idx := range pa {
		onA[idx] = true
	}
	for _, idx := range p.PathToRoot(b) {
		if onA[idx] {
			return idx
		}
	}
	return 0
}
