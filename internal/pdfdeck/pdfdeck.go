// Package pdfdeck renders a positioned deck as a PDF, one page per slide.
//
// Pages use the deck's page size in inches. Text is set in the PDF core
// fonts with cp1252 translation, so no font files are needed. Characters
// outside cp1252 are replaced with "." rather than failing the render.
package pdfdeck

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/alnah/go-outline2deck/internal/layout"
)

// ContentType is the MIME type of a PDF file.
const ContentType = "application/pdf"

// Creator is recorded in the document information dictionary.
const Creator = "outline2deck"

// bullet prefixes each body paragraph. U+2022 exists in cp1252.
const bullet = "•  "

// lineSpacing is the line height as a multiple of the font size.
const lineSpacing = 1.2

// ErrEmptyDeck is returned when the deck has no slides.
var ErrEmptyDeck = errors.New("pdfdeck: deck has no slides")

// Metadata is written to the document information dictionary.
type Metadata struct {
	Title   string
	Author  string
	Created time.Time
}

// Encode renders d as PDF bytes.
func Encode(ctx context.Context, d *layout.Deck, meta Metadata) ([]byte, error) {
	if d == nil || len(d.Slides) == 0 {
		return nil, ErrEmptyDeck
	}

	pageW, pageH := layout.Inches(d.Page.Width), layout.Inches(d.Page.Height)
	// "P" keeps Wd/Ht as given; "L" would swap them.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "in",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCatalogSort(true)
	pdf.SetCreator(Creator, true)
	title := meta.Title
	if title == "" {
		title = d.Title
	}
	pdf.SetTitle(title, true)
	if meta.Author != "" {
		pdf.SetAuthor(meta.Author, true)
	}
	if !meta.Created.IsZero() {
		pdf.SetCreationDate(meta.Created.UTC())
	}

	p := &painter{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		family: coreFamily(d.Font),
	}
	for _, s := range d.Slides {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		pdf.AddPage()
		p.master(d.Master, pageW, pageH)
		p.textBox(s.Title)
		p.textBox(s.Body)
		if pdf.Err() {
			return nil, fmt.Errorf("pdfdeck: slide %d: %w", s.Number, pdf.Error())
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdfdeck: %w", err)
	}
	return buf.Bytes(), nil
}

type painter struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	family string
}

func (p *painter) master(m layout.Master, pageW, pageH float64) {
	r, g, b := rgb(m.Background)
	p.pdf.SetFillColor(r, g, b)
	p.pdf.Rect(0, 0, pageW, pageH, "F")

	acc := m.Accent
	r, g, b = rgb(acc.Color)
	p.pdf.SetDrawColor(r, g, b)
	p.pdf.SetLineWidth(layout.Inches(acc.Width))
	p.pdf.Line(layout.Inches(acc.X1), layout.Inches(acc.Y1), layout.Inches(acc.X2), layout.Inches(acc.Y2))

	if f := m.Footer; f != nil {
		x, y, w, h := f.Box.Inches()
		p.setFont(f.Style)
		p.pdf.SetXY(x, y)
		p.pdf.CellFormat(w, h, p.tr(f.Text()), "", 0, "LM", false, 0, "")
	}
}

func (p *painter) textBox(tb layout.TextBox) {
	x, y, w, _ := tb.Box.Inches()
	p.setFont(tb.Style)
	lh := tb.Style.Size / 72 * lineSpacing
	p.pdf.SetXY(x, y)
	for _, para := range tb.Paragraphs {
		if tb.Bulleted {
			para = bullet + para
		}
		p.pdf.SetX(x)
		p.pdf.MultiCell(w, lh, p.tr(para), "", "L", false)
	}
}

func (p *painter) setFont(s layout.TextStyle) {
	style := ""
	if s.Bold {
		style = "B"
	}
	p.pdf.SetFont(p.family, style, s.Size)
	r, g, b := rgb(s.Color)
	p.pdf.SetTextColor(r, g, b)
}

// coreFamily maps a font name to one of the PDF core families.
func coreFamily(font string) string {
	f := strings.ToLower(font)
	switch {
	case strings.Contains(f, "times"), strings.Contains(f, "georgia"), strings.Contains(f, "serif") && !strings.Contains(f, "sans"):
		return "Times"
	case strings.Contains(f, "courier"), strings.Contains(f, "mono"):
		return "Courier"
	default:
		return "Helvetica"
	}
}

// rgb parses RRGGBB. Invalid input yields black.
func rgb(hex string) (r, g, b int) {
	v, err := strconv.ParseUint(strings.TrimPrefix(hex, "#"), 16, 32)
	if err != nil || len(strings.TrimPrefix(hex, "#")) != 6 {
		return 0, 0, 0
	}
	return int(v >> 16 & 0xFF), int(v >> 8 & 0xFF), int(v & 0xFF)
}
