package liquidacion

import (
	"sort"
	"strings"
)

const (
	// lineTolerance is the vertical distance under which two words are
	// considered part of the same line.
	lineTolerance = 3.0
	// partyBlockHeight bounds the party block when no footer marker exists.
	partyBlockHeight = 200.0
)

// ColumnSplit is the result of splitting the buyer/seller block of the first
// page into two independent text streams.
type ColumnSplit struct {
	Buyer   string  `json:"buyer"`
	Seller  string  `json:"seller"`
	SplitX  float64 `json:"split_x"`
	Top     float64 `json:"top"`
	Bottom  float64 `json:"bottom"`
	Swapped bool    `json:"swapped"`
}

// SplitColumns partitions the party block of a page into the buyer (left) and
// seller (right) columns using word positions only, so the row order of the
// text extraction does not matter. The block starts at the COMPRADOR/VENDEDOR
// headers and ends before the "ACTUÓ" broker line. When the producer rendered
// the columns reversed, the two streams are swapped back.
func SplitColumns(words []Word, pageWidth float64) ColumnSplit {
	if len(words) == 0 {
		return ColumnSplit{}
	}

	buyerX, hasBuyer := firstX(words, "COMPRADOR")
	sellerX, hasSeller := firstX(words, "VENDEDOR")
	splitX := pageWidth / 2
	if hasBuyer && hasSeller && buyerX != sellerX {
		splitX = (buyerX + sellerX) / 2
	}

	top := 0.0
	if t, ok := minTop(words, "COMPRADOR", "VENDEDOR"); ok {
		top = t
	}
	bottom := top + partyBlockHeight
	if t, ok := minTop(words, "ACTUÓ", "ACTUO"); ok && t > top {
		bottom = t
	}

	var left, right []Word
	for _, w := range words {
		if w.Top < top || w.Top >= bottom {
			continue
		}
		if w.X0 < splitX {
			left = append(left, w)
		} else {
			right = append(right, w)
		}
	}

	split := ColumnSplit{
		Buyer:  strings.Join(GroupLines(left), "\n"),
		Seller: strings.Join(GroupLines(right), "\n"),
		SplitX: splitX,
		Top:    top,
		Bottom: bottom,
	}

	l, r := Normalize(split.Buyer), Normalize(split.Seller)
	crossed := strings.Contains(l, "VENDEDOR") && strings.Contains(r, "COMPRADOR")
	aligned := strings.Contains(l, "COMPRADOR") && strings.Contains(r, "VENDEDOR")
	if crossed && !aligned {
		split.Buyer, split.Seller = split.Seller, split.Buyer
		split.Swapped = true
	}
	return split
}

// GroupLines clusters words into lines by their top coordinate and returns
// each line's words joined left to right.
func GroupLines(words []Word) []string {
	if len(words) == 0 {
		return nil
	}
	ws := make([]Word, len(words))
	copy(ws, words)
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].Top != ws[j].Top {
			return ws[i].Top < ws[j].Top
		}
		return ws[i].X0 < ws[j].X0
	})

	var lines []string
	var current []Word
	currentTop := ws[0].Top
	flush := func() {
		if len(current) == 0 {
			return
		}
		sort.SliceStable(current, func(i, j int) bool { return current[i].X0 < current[j].X0 })
		parts := make([]string, 0, len(current))
		for _, w := range current {
			if t := strings.TrimSpace(w.Text); t != "" {
				parts = append(parts, t)
			}
		}
		if line := strings.Join(parts, " "); line != "" {
			lines = append(lines, line)
		}
		current = current[:0]
	}
	for _, w := range ws {
		if w.Top-currentTop > lineTolerance || currentTop-w.Top > lineTolerance {
			flush()
			currentTop = w.Top
		}
		current = append(current, w)
	}
	flush()
	return lines
}

// wordToken folds a word and strips the punctuation that commonly trails a
// header label.
func wordToken(s string) string {
	return strings.Trim(Normalize(s), ":.,;")
}

func firstX(words []Word, token string) (float64, bool) {
	for _, w := range words {
		if wordToken(w.Text) == token {
			return w.X0, true
		}
	}
	return 0, false
}

func minTop(words []Word, tokens ...string) (float64, bool) {
	found := false
	best := 0.0
	for _, tok := range tokens {
		tok = Fold(tok)
		for _, w := range words {
			if wordToken(w.Text) != tok {
				continue
			}
			if !found || w.Top < best {
				best = w.Top
				found = true
			}
		}
	}
	return best, found
}
