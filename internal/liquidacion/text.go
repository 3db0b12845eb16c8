package liquidacion

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// Fold upper-cases s and strips accents. Whitespace is left untouched so
// line structure survives.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteString(foldRune(r))
	}
	return b.String()
}

// Normalize folds s and collapses every whitespace run to a single space.
func Normalize(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(Fold(s), " "))
}

func foldRune(r rune) string {
	if r < utf8.RuneSelf {
		return string(unicode.ToUpper(r))
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, string(r))
	if err != nil || out == "" {
		return strings.ToUpper(string(r))
	}
	return strings.ToUpper(out)
}

// foldedText keeps a folded copy of a text together with the offset of every
// folded byte in the original, so searches run accent/case-insensitively but
// slices are cut from the original text.
type foldedText struct {
	orig   string
	folded string
	offs   []int
}

func newFoldedText(s string) *foldedText {
	ft := &foldedText{orig: s, offs: make([]int, 0, len(s)+1)}
	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		f := foldRune(r)
		b.WriteString(f)
		for range len(f) {
			ft.offs = append(ft.offs, i)
		}
	}
	ft.offs = append(ft.offs, len(s))
	ft.folded = b.String()
	return ft
}

// index returns the original offset of the first occurrence of token (already
// folded) at or after the original offset from, or -1.
func (ft *foldedText) index(token string, from int) int {
	start := ft.foldedOffset(from)
	if start > len(ft.folded) {
		return -1
	}
	i := strings.Index(ft.folded[start:], token)
	if i < 0 {
		return -1
	}
	return ft.offs[start+i]
}

// firstIndex returns the smallest original offset among all tokens found at or
// after from, or -1.
func (ft *foldedText) firstIndex(from int, tokens ...string) int {
	best := -1
	for _, tok := range tokens {
		if i := ft.index(tok, from); i >= 0 && (best < 0 || i < best) {
			best = i
		}
	}
	return best
}

func (ft *foldedText) contains(token string) bool {
	return strings.Contains(ft.folded, token)
}

func (ft *foldedText) foldedOffset(orig int) int {
	if orig <= 0 {
		return 0
	}
	for i, o := range ft.offs {
		if o >= orig {
			return i
		}
	}
	return len(ft.folded)
}

// section returns the original text between the first start marker and the
// first end marker found after it. When no end marker exists the section runs
// to the end of the text. ok is false when start is missing.
func section(text string, starts, ends []string) (string, bool) {
	ft := newFoldedText(text)
	s := ft.firstIndex(0, starts...)
	if s < 0 {
		return "", false
	}
	e := ft.firstIndex(s+1, ends...)
	if e < 0 {
		e = len(text)
	}
	return text[s:e], true
}

// splitLines returns the trimmed, non-empty lines of s.
func splitLines(s string) []string {
	raw := strings.Split(strings.ReplaceAll(s, "\r", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func collapseSpaces(s string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}
