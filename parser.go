package lexd

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse reads grammar text into a Grammar: PATTERNS / PATTERN / LEXICON
// blocks, CLASS and MARKER directives, '#' comments. The text is
// normalized first, so grammar files and query inputs agree on encoding.
func Parse(text string) (*Grammar, error) {
	g := newGrammar()

	// current block targets; at most one is non-nil
	var curRows *[]Row
	var curLex *Lexicon

	for lineNo, raw := range strings.Split(Normalize(text), "\n") {
		line := raw
		if i := strings.IndexByte(line, '#'); i >= 0 {
			line = line[:i]
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		n := lineNo + 1

		fields := strings.Fields(line)
		switch fields[0] {
		case "PATTERNS":
			if len(fields) != 1 {
				return nil, &SyntaxError{Line: n, Msg: "PATTERNS takes no name"}
			}
			curRows, curLex = &g.Top, nil
			continue

		case "PATTERN":
			if len(fields) != 2 {
				return nil, &SyntaxError{Line: n, Msg: "expected PATTERN <name>"}
			}
			name := fields[1]
			p := g.Patterns[name]
			if p == nil {
				p = &Pattern{Name: name}
				g.Patterns[name] = p
			}
			curRows, curLex = &p.Rows, nil
			continue

		case "LEXICON":
			if len(fields) != 2 {
				return nil, &SyntaxError{Line: n, Msg: "expected LEXICON <name>"}
			}
			name := fields[1]
			lex := g.Lexicons[name]
			if lex == nil {
				lex = &Lexicon{Name: name}
				g.Lexicons[name] = lex
			}
			curRows, curLex = nil, lex
			continue

		case "CLASS":
			if len(fields) != 3 {
				return nil, &SyntaxError{Line: n, Msg: "expected CLASS <name> <symbols>"}
			}
			c := &Class{Name: fields[1], Symbols: make(map[string]bool)}
			for _, s := range segments(fields[2]) {
				c.Symbols[s] = true
			}
			g.Classes[c.Name] = c
			curRows, curLex = nil, nil
			continue

		case "MARKER":
			m, err := parseMarker(fields, n)
			if err != nil {
				return nil, err
			}
			g.Markers[m.Name] = m
			curRows, curLex = nil, nil
			continue
		}

		switch {
		case curLex != nil:
			e, err := parseEntry(line, n)
			if err != nil {
				return nil, err
			}
			curLex.Entries = append(curLex.Entries, e)
		case curRows != nil:
			row, err := parseRow(line, n)
			if err != nil {
				return nil, err
			}
			*curRows = append(*curRows, row)
		default:
			return nil, &SyntaxError{Line: n, Msg: "content outside any PATTERNS/PATTERN/LEXICON block"}
		}
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// parseMarker parses the two MARKER directive forms:
//
//	MARKER <name> drop
//	MARKER <name> <r1> after <class> else <r2>
//
// "0" denotes the empty realization.
func parseMarker(fields []string, line int) (*Marker, error) {
	if len(fields) == 3 && fields[2] == "drop" {
		return &Marker{Name: fields[1], Kind: MarkerDrop, Line: line}, nil
	}
	if len(fields) == 7 && fields[3] == "after" && fields[5] == "else" {
		zero := func(s string) string {
			if s == "0" {
				return ""
			}
			return s
		}
		return &Marker{
			Name:  fields[1],
			Kind:  MarkerContext,
			R1:    zero(fields[2]),
			Class: fields[4],
			R2:    zero(fields[6]),
			Line:  line,
		}, nil
	}
	return nil, &SyntaxError{Line: line, Msg: "expected MARKER <name> drop | MARKER <name> <r1> after <class> else <r2>"}
}

// parseEntry parses one lexicon entry line:
//
//	<pl>:ен[pl_all]    tags and stem on the lexical tape, realization on the
//	                   surface tape, trailing feature-variant label
//	дуст               single-sided: graphemes on both tapes, tags lexical-only
//	<3sg>:             empty surface realization
func parseEntry(line string, n int) (*Entry, error) {
	variant := ""
	if strings.HasSuffix(line, "]") {
		if i := strings.LastIndexByte(line, '['); i >= 0 && !strings.ContainsAny(line[i:], "<>{}") {
			variant = line[i+1 : len(line)-1]
			line = strings.TrimSpace(line[:i])
			if variant == "" {
				return nil, &SyntaxError{Line: n, Msg: "empty feature-variant label"}
			}
		}
	}

	lexSide, surfSide, twoSided := splitEntry(line)

	if strings.ContainsAny(lexSide, "{}") {
		return nil, &SyntaxError{Line: n, Msg: "alternation markers belong on the surface side; write an explicit lexical side"}
	}

	e := &Entry{Variant: variant, Line: n}
	e.Lexical = tokenizeLexical(lexSide)

	if !twoSided {
		// single-sided: literal graphemes realize themselves; tags and
		// the boundary symbol are lexical-only
		for _, sym := range e.Lexical {
			if !strings.HasPrefix(sym, "<") && sym != ">" {
				e.Surface = append(e.Surface, Seg{Ch: sym})
			}
		}
		return e, nil
	}

	surf, err := parseSurface(surfSide, n)
	if err != nil {
		return nil, err
	}
	e.Surface = surf
	return e, nil
}

// splitEntry splits an entry line at the first ':' outside a tag.
func splitEntry(line string) (lex, surf string, twoSided bool) {
	inTag := false
	for i, r := range line {
		switch {
		case r == '<':
			inTag = true
		case r == '>' && inTag:
			inTag = false
		case r == ':' && !inTag:
			return line[:i], line[i+len(":"):], true
		}
	}
	return line, "", false
}

// parseSurface parses a surface-side string into segments: {Name} marker
// references and graphemic segments.
func parseSurface(s string, n int) ([]Seg, error) {
	var out []Seg
	for len(s) > 0 {
		if s[0] == '{' {
			end := strings.IndexByte(s, '}')
			if end < 0 {
				return nil, &SyntaxError{Line: n, Msg: "unterminated marker reference"}
			}
			name := s[1:end]
			if name == "" {
				return nil, &SyntaxError{Line: n, Msg: "empty marker reference"}
			}
			out = append(out, Seg{Marker: name})
			s = s[end+1:]
			continue
		}
		r, size := utf8.DecodeRuneInString(s)
		if unicode.Is(unicode.Mn, r) && len(out) > 0 && out[len(out)-1].Ch != "" {
			out[len(out)-1].Ch += string(r)
		} else {
			out = append(out, Seg{Ch: string(r)})
		}
		s = s[size:]
	}
	return out, nil
}

// rowScanner is a recursive-descent scanner over one pattern-row line.
type rowScanner struct {
	src  []rune
	pos  int
	line int
}

// parseRow parses one pattern row: slot references with optional [label]
// selectors, (A|B) alternation groups with an optional trailing '?',
// junction tokens, inline [<tag>] elements, and an optional trailing row
// label.
func parseRow(line string, n int) (Row, error) {
	sc := &rowScanner{src: []rune(line), line: n}
	elems, rowVariant, err := sc.elements(false)
	if err != nil {
		return Row{}, err
	}
	if len(elems) == 0 {
		return Row{}, &SyntaxError{Line: n, Msg: "empty pattern row"}
	}
	return Row{Elements: elems, Variant: rowVariant, Line: n}, nil
}

func (sc *rowScanner) elements(inGroup bool) ([]Element, string, error) {
	var out []Element
	for {
		sc.skipSpace()
		if sc.pos >= len(sc.src) {
			if inGroup {
				return nil, "", &SyntaxError{Line: sc.line, Msg: "unterminated group, expected ')'"}
			}
			return out, "", nil
		}
		r := sc.src[sc.pos]
		switch {
		case r == ')':
			if !inGroup {
				return nil, "", &SyntaxError{Line: sc.line, Msg: "unmatched ')'"}
			}
			return out, "", nil

		case r == '(':
			// optional-junction token "(-)", alternation group "(A|B)"
			// or optionality group "(...)?"
			if sc.peekIs("(-)") {
				sc.pos += 3
				out = append(out, Element{Kind: ElemJunction, Junction: JoinHyphen, Optional: true, Line: sc.line})
				continue
			}
			sc.pos++
			var alts [][]Element
			for {
				alt, _, err := sc.elements(true)
				if err != nil {
					return nil, "", err
				}
				if len(alt) == 0 {
					return nil, "", &SyntaxError{Line: sc.line, Msg: "empty group alternative"}
				}
				alts = append(alts, alt)
				if sc.src[sc.pos] == '|' {
					sc.pos++
					continue
				}
				break
			}
			sc.pos++ // consume ')'
			optional := false
			if sc.pos < len(sc.src) && sc.src[sc.pos] == '?' {
				sc.pos++
				optional = true
			}
			if !optional && len(alts) < 2 {
				return nil, "", &SyntaxError{Line: sc.line, Msg: "expected '?' after group"}
			}
			out = append(out, Element{Kind: ElemGroup, Alts: alts, Optional: optional, Line: sc.line})

		case r == '|':
			if !inGroup {
				return nil, "", &SyntaxError{Line: sc.line, Msg: "alternation '|' outside a group"}
			}
			return out, "", nil

		case r == '-':
			sc.pos++
			out = append(out, Element{Kind: ElemJunction, Junction: JoinHyphen, Line: sc.line})

		case r == '>':
			sc.pos++
			out = append(out, Element{Kind: ElemJunction, Junction: JoinDirect, Line: sc.line})

		case r == '[':
			tags, label, err := sc.bracket()
			if err != nil {
				return nil, "", err
			}
			if tags != nil {
				out = append(out, Element{Kind: ElemTags, Tags: tags, Line: sc.line})
				continue
			}
			// bare [label]: only valid as the last token of a row
			sc.skipSpace()
			if inGroup || sc.pos < len(sc.src) {
				return nil, "", &SyntaxError{Line: sc.line, Msg: "row label [" + label + "] must end the row"}
			}
			return out, label, nil

		case isNameRune(r):
			el, err := sc.reference()
			if err != nil {
				return nil, "", err
			}
			out = append(out, el)

		default:
			return nil, "", &SyntaxError{Line: sc.line, Msg: "unexpected character " + string(r)}
		}
	}
}

// bracket parses a '['-introduced token: inline tags "[<a><b>]" (tags
// non-nil) or a bare label "[f]" (label non-empty).
func (sc *rowScanner) bracket() (tags []string, label string, err error) {
	start := sc.pos
	sc.pos++ // consume '['
	for sc.pos < len(sc.src) && sc.src[sc.pos] != ']' {
		sc.pos++
	}
	if sc.pos >= len(sc.src) {
		return nil, "", &SyntaxError{Line: sc.line, Msg: "unterminated '['"}
	}
	body := string(sc.src[start+1 : sc.pos])
	sc.pos++ // consume ']'
	if strings.HasPrefix(body, "<") {
		for _, sym := range tokenizeLexical(body) {
			if !strings.HasPrefix(sym, "<") {
				return nil, "", &SyntaxError{Line: sc.line, Msg: "inline tag element may contain only <tags>"}
			}
			tags = append(tags, sym)
		}
		if len(tags) == 0 {
			return nil, "", &SyntaxError{Line: sc.line, Msg: "empty inline tag element"}
		}
		return tags, "", nil
	}
	if body == "" {
		return nil, "", &SyntaxError{Line: sc.line, Msg: "empty feature-variant label"}
	}
	return nil, body, nil
}

// reference parses a lexicon/pattern name with an optional [label] selector.
func (sc *rowScanner) reference() (Element, error) {
	start := sc.pos
	for sc.pos < len(sc.src) && isNameRune(sc.src[sc.pos]) {
		sc.pos++
	}
	el := Element{Kind: ElemRef, Name: string(sc.src[start:sc.pos]), Line: sc.line}
	if sc.pos < len(sc.src) && sc.src[sc.pos] == '[' {
		tags, label, err := sc.bracket()
		if err != nil {
			return Element{}, err
		}
		if tags != nil {
			return Element{}, &SyntaxError{Line: sc.line, Msg: "expected [label] selector after " + el.Name}
		}
		el.Variant = label
	}
	return el, nil
}

func (sc *rowScanner) skipSpace() {
	for sc.pos < len(sc.src) && unicode.IsSpace(sc.src[sc.pos]) {
		sc.pos++
	}
}

func (sc *rowScanner) peekIs(s string) bool {
	return strings.HasPrefix(string(sc.src[sc.pos:]), s)
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
