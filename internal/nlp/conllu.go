package nlp

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Decode builds a SectionParse from the section's verbatim text and its
// CoNLL-U annotation. Token IDs are remapped to a single global index
// space so heads can be followed across the whole section.
//
// Character anchoring prefers explicit MISC offsets (start_char/end_char,
// as emitted by spaCy-style exporters, or TokenRange=beg:end); tokens
// without offsets are aligned against the text left to right. Alignment
// failure is a decode error, never a guessed offset.
func Decode(text, conllu string) (*SectionParse, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("conllu: empty section text")
	}
	if strings.TrimSpace(conllu) == "" {
		return nil, fmt.Errorf("conllu: empty annotation")
	}

	parse := &SectionParse{Text: text}

	type row struct {
		localID int
		form    string
		lemma   string
		upos    string
		feats   string
		head    int
		deprel  string
		misc    string
	}

	var (
		sentence []row
		cursor   int
		entOpen  *EntitySpan
	)

	closeEntity := func() {
		if entOpen != nil {
			parse.Entities = append(parse.Entities, *entOpen)
			entOpen = nil
		}
	}

	flush := func() error {
		if len(sentence) == 0 {
			return nil
		}
		base := len(parse.Tokens)
		for _, r := range sentence {
			start, end, ok := miscOffsets(r.misc)
			if !ok {
				var err error
				start, end, err = alignToken(text, r.form, cursor)
				if err != nil {
					return err
				}
			}
			if end > cursor {
				cursor = end
			}

			head := 0
			if r.head > 0 {
				head = base + r.head
			}
			tok := Token{
				Index:  base + r.localID,
				Text:   text[start:end],
				Start:  start,
				End:    end,
				Lemma:  r.lemma,
				UPOS:   r.upos,
				Feats:  parseFeats(r.feats),
				Head:   head,
				Deprel: r.deprel,
			}
			parse.Tokens = append(parse.Tokens, tok)

			label, bio := miscEntity(r.misc)
			switch bio {
			case "B":
				closeEntity()
				entOpen = &EntitySpan{Start: start, End: end, Text: text[start:end], Label: label}
			case "I":
				if entOpen != nil && entOpen.Label == label {
					entOpen.End = end
					entOpen.Text = text[entOpen.Start:end]
				}
			default:
				closeEntity()
			}
		}
		sentence = sentence[:0]
		return nil
	}

	for _, line := range strings.Split(conllu, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 8 {
			return nil, fmt.Errorf("conllu: malformed line %q", line)
		}
		// Multiword-token ranges ("3-4") and empty nodes ("5.1") carry no
		// dependency structure of their own.
		if strings.ContainsAny(cols[0], "-.") {
			continue
		}
		id, err := strconv.Atoi(cols[0])
		if err != nil || id < 1 {
			return nil, fmt.Errorf("conllu: bad token id %q", cols[0])
		}
		head, err := strconv.Atoi(cols[6])
		if err != nil || head < 0 {
			return nil, fmt.Errorf("conllu: bad head %q for token %d", cols[6], id)
		}
		misc := ""
		if len(cols) >= 10 {
			misc = cols[9]
		}
		sentence = append(sentence, row{
			localID: id,
			form:    cols[1],
			lemma:   cols[2],
			upos:    cols[3],
			feats:   cols[5],
			head:    head,
			deprel:  cols[7],
			misc:    misc,
		})
	}
	if err := flush(); err != nil {
		return nil, err
	}
	closeEntity()

	if len(parse.Tokens) == 0 {
		return nil, fmt.Errorf("conllu: no tokens decoded")
	}
	return parse, nil
}

func alignToken(text, form string, from int) (int, int, error) {
	for from < len(text) {
		r := rune(text[from])
		if !unicode.IsSpace(r) {
			break
		}
		from++
	}
	if idx := strings.Index(text[from:], form); idx >= 0 {
		start := from + idx
		return start, start + len(form), nil
	}
	lower := strings.ToLower(text[from:])
	if idx := strings.Index(lower, strings.ToLower(form)); idx >= 0 {
		start := from + idx
		return start, start + len(form), nil
	}
	return 0, 0, fmt.Errorf("conllu: cannot align token %q after offset %d", form, from)
}

func parseFeats(raw string) map[string]string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "_" {
		return nil
	}
	out := make(map[string]string, 4)
	for _, pair := range strings.Split(raw, "|") {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[strings.TrimSpace(k)] = strings.TrimSpace(v)
	}
	return out
}

func miscOffsets(misc string) (int, int, bool) {
	if misc == "" || misc == "_" {
		return 0, 0, false
	}
	var start, end = -1, -1
	for _, kv := range strings.Split(misc, "|") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		switch k {
		case "start_char":
			if n, err := strconv.Atoi(v); err == nil {
				start = n
			}
		case "end_char":
			if n, err := strconv.Atoi(v); err == nil {
				end = n
			}
		case "TokenRange":
			b, e, ok2 := strings.Cut(v, ":")
			if !ok2 {
				continue
			}
			if nb, err := strconv.Atoi(b); err == nil {
				start = nb
			}
			if ne, err := strconv.Atoi(e); err == nil {
				end = ne
			}
		}
	}
	if start >= 0 && end > start {
		return start, end, true
	}
	return 0, 0, false
}

func miscEntity(misc string) (label string, bio string) {
	if misc == "" || misc == "_" {
		return "", ""
	}
	for _, kv := range strings.Split(misc, "|") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || (k != "Entity" && k != "NER") {
			continue
		}
		tag, name, ok2 := strings.Cut(v, "-")
		if !ok2 {
			continue
		}
		if tag == "B" || tag == "I" {
			return name, tag
		}
	}
	return "", ""
}
