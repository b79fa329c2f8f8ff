package lexd

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// repairReplacer fixes diacritic stacks that occur in hand-typed Cyrillic
// Pamir orthography: an extra caron or ring on a letter that already
// carries a diacritic, and the ц̌/ч spelling variant.
var repairReplacer = strings.NewReplacer(
	"х̆", "х̌", // х̆ → х̌
	"ҳ̌", "ҳ", // ҳ̌ → ҳ
	"ӯ̊", "ӯ", // ӯ̊ → ӯ
	"ц̌", "ч", // ц̌ → ч
)

// stressReplacer strips combining stress marks.
var stressReplacer = strings.NewReplacer(
	"́", "", // acute
	"̀", "", // grave
)

// Normalize canonicalizes a surface or grammar string: NFC composition,
// diacritic-stack repair, stress-mark removal. Applied to grammar text at
// compile time and to query inputs, so lookups never miss on an encoding
// difference.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = repairReplacer.Replace(s)
	s = stressReplacer.Replace(s)
	return s
}

// segments splits s into graphemic segments: each base rune together with
// the combining marks that follow it. Surface symbols like х̌ stay single
// segments, so alternation-class membership and tape symbols line up with
// what a reader sees.
func segments(s string) []string {
	var out []string
	for _, r := range s {
		if unicode.Is(unicode.Mn, r) && len(out) > 0 {
			out[len(out)-1] += string(r)
			continue
		}
		out = append(out, string(r))
	}
	return out
}

// lastSegment returns the final graphemic segment of s, or "" when empty.
func lastSegment(s string) string {
	if s == "" {
		return ""
	}
	segs := segments(s)
	return segs[len(segs)-1]
}

// tokenizeLexical splits a lexical-tape string into its symbols: "<...>"
// tags as single symbols, everything else as graphemic segments.
// "дуст<n><pl>" → ["д" "у" "с" "т" "<n>" "<pl>"].
func tokenizeLexical(s string) []string {
	var out []string
	for len(s) > 0 {
		if s[0] == '<' {
			end := strings.IndexByte(s, '>')
			if end < 0 {
				// unterminated tag: fall through as literal segments
				out = append(out, segments(s)...)
				return out
			}
			out = append(out, s[:end+1])
			s = s[end+1:]
			continue
		}
		r, size := utf8.DecodeRuneInString(s)
		if unicode.Is(unicode.Mn, r) && len(out) > 0 && !strings.HasPrefix(out[len(out)-1], "<") {
			out[len(out)-1] += string(r)
		} else {
			out = append(out, string(r))
		}
		s = s[size:]
	}
	return out
}
