package wrapper

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"

	"github.com/a3tai/mcp-liquidaciones/internal/liquidacion"
)

const (
	rowTolerance    = 3.0
	wordGapFactor   = 0.3
	defaultFontSize = 10.0
	maxParentDepth  = 8
)

// Glyph is one positioned run of text as reported by the content stream.
// Y is the baseline measured from the bottom of the page.
type Glyph struct {
	S        string
	X, Y     float64
	W        float64
	FontSize float64
}

// LedongthucLibrary implements TextExtractor using ledongthuc/pdf
type LedongthucLibrary struct{}

// NewLedongthucLibrary creates a new ledongthuc library wrapper
func NewLedongthucLibrary() *LedongthucLibrary {
	return &LedongthucLibrary{}
}

// ExtractPages decodes every page into line-ordered text and words. A panic
// inside the library aborts the document with a WrapperError naming the page.
func (l *LedongthucLibrary) ExtractPages(data []byte, sizes []PageSize) (pages []liquidacion.Page, err error) {
	current := 0
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = &WrapperError{
				Library: LibraryLedongthuc,
				Op:      "extract_pages",
				Page:    current,
				Err:     &PanicError{Page: current, Value: r},
			}
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, &WrapperError{
			Library: LibraryLedongthuc,
			Op:      "open",
			Err:     fmt.Errorf("failed to open PDF: %w", err),
		}
	}

	total := reader.NumPage()
	pages = make([]liquidacion.Page, 0, total)
	for i := 1; i <= total; i++ {
		current = i
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, liquidacion.Page{Width: DefaultPageSize.Width})
			continue
		}

		size := pageSize(page, i, sizes)
		content := page.Content()
		glyphs := make([]Glyph, 0, len(content.Text))
		for _, t := range content.Text {
			glyphs = append(glyphs, Glyph{S: t.S, X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize})
		}

		words := WordsFromGlyphs(glyphs, size.Height)
		text := strings.Join(liquidacion.GroupLines(words), "\n")
		if text == "" {
			if plain, perr := page.GetPlainText(nil); perr == nil {
				text = strings.TrimSpace(plain)
			}
		}
		pages = append(pages, liquidacion.Page{Text: text, Words: words, Width: size.Width})
	}
	return pages, nil
}

// pageSize prefers the size measured by pdfcpu and falls back to the
// (possibly inherited) MediaBox of the page.
func pageSize(page pdf.Page, number int, sizes []PageSize) PageSize {
	if number-1 < len(sizes) {
		if s := sizes[number-1]; s.Width > 0 && s.Height > 0 {
			return s
		}
	}
	v := page.V
	for depth := 0; depth < maxParentDepth && !v.IsNull(); depth++ {
		box := v.Key("MediaBox")
		if box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return PageSize{Width: w, Height: h}
			}
		}
		v = v.Key("Parent")
	}
	return DefaultPageSize
}

type placedGlyph struct {
	s        string
	x, end   float64
	top      float64
	fontSize float64
}

// WordsFromGlyphs assembles glyphs into words. Glyphs are clustered into rows
// by their top edge; within a row a whitespace glyph or a horizontal gap wider
// than a fraction of the font size starts a new word.
func WordsFromGlyphs(glyphs []Glyph, pageHeight float64) []liquidacion.Word {
	placed := make([]placedGlyph, 0, len(glyphs))
	for _, g := range glyphs {
		placed = append(placed, place(g, pageHeight)...)
	}
	if len(placed) == 0 {
		return nil
	}

	sort.SliceStable(placed, func(i, j int) bool {
		if placed[i].top != placed[j].top {
			return placed[i].top < placed[j].top
		}
		return placed[i].x < placed[j].x
	})

	var words []liquidacion.Word
	var row []placedGlyph
	rowTop := placed[0].top
	for _, g := range placed {
		if g.top-rowTop > rowTolerance {
			words = append(words, rowWords(row, rowTop)...)
			row = row[:0]
			rowTop = g.top
		}
		row = append(row, g)
	}
	return append(words, rowWords(row, rowTop)...)
}

// place converts a glyph to top-down coordinates, splitting runs that carry
// embedded spaces into one entry per piece.
func place(g Glyph, pageHeight float64) []placedGlyph {
	if g.S == "" {
		return nil
	}
	fs := g.FontSize
	if fs <= 0 {
		fs = defaultFontSize
	}
	top := pageHeight - (g.Y + fs)

	n := utf8.RuneCountInString(g.S)
	width := g.W
	if width <= 0 {
		width = fs * 0.5 * float64(n)
	}
	if n <= 1 || !strings.ContainsAny(g.S, " \t") {
		return []placedGlyph{{s: g.S, x: g.X, end: g.X + width, top: top, fontSize: fs}}
	}

	perRune := width / float64(n)
	var out []placedGlyph
	offset := 0
	for _, r := range g.S {
		x := g.X + perRune*float64(offset)
		out = append(out, placedGlyph{s: string(r), x: x, end: x + perRune, top: top, fontSize: fs})
		offset++
	}
	return out
}

func rowWords(row []placedGlyph, top float64) []liquidacion.Word {
	sort.SliceStable(row, func(i, j int) bool { return row[i].x < row[j].x })

	var words []liquidacion.Word
	var b strings.Builder
	x0, prevEnd, prevX := 0.0, 0.0, 0.0
	prevS := ""
	flush := func() {
		if b.Len() > 0 {
			words = append(words, liquidacion.Word{Text: b.String(), X0: x0, Top: top})
			b.Reset()
		}
	}
	for _, g := range row {
		if strings.TrimSpace(g.s) == "" {
			flush()
			prevEnd = g.end
			continue
		}
		// overprinted glyphs used to simulate bold
		if b.Len() > 0 && g.s == prevS && g.x-prevX < 0.5 {
			continue
		}
		if b.Len() > 0 && g.x-prevEnd > wordGapFactor*g.fontSize {
			flush()
		}
		if b.Len() == 0 {
			x0 = g.x
		}
		b.WriteString(g.s)
		prevEnd, prevX, prevS = g.end, g.x, g.s
	}
	flush()
	return words
}
