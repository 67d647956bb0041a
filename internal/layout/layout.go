// Package layout places canonical slides on a page.
//
// Build is a pure function from slides, style and page settings to a Deck
// of positioned text boxes. Every encoder (pptx, pdf, deck markup) reads
// the same Deck, so all formats share one geometry. Coordinates are in
// English Metric Units (EMU), the unit of Office Open XML.
package layout

import (
	"fmt"
	"math"
	"strings"
)

// Unit conversions.
const (
	EMUPerInch = 914400
	EMUPerPt   = 12700
)

// Page sizes in EMU.
var pages = map[string]Page{
	"16:9":  {Width: 12192000, Height: 6858000}, // 13.333 x 7.5 in
	"4:3":   {Width: 9144000, Height: 6858000},  // 10 x 7.5 in
	"16:10": {Width: 9144000, Height: 5715000},  // 10 x 6.25 in
}

// Fixed positions, in EMU.
const (
	marginX      = EMUPerInch / 2     // 0.5 in
	titleY       = EMUPerInch / 4     // 0.25 in
	titleH       = EMUPerInch         // 1 in
	bodyY        = EMUPerInch * 3 / 2 // 1.5 in
	bodyH        = EMUPerInch * 4     // 4 in
	accentY      = 594360             // 0.65 in
	accentWidth  = 2 * EMUPerPt
	footerH      = EMUPerInch * 3 / 10 // 0.3 in
	contentRatio = 0.90
	footerYRatio = 0.95
	footerWRatio = 0.50
)

// Page is a slide size in EMU.
type Page struct {
	Width  int64
	Height int64
}

// PageFor returns the page size for an aspect ratio ("16:9", "4:3", "16:10").
func PageFor(aspect string) (Page, error) {
	p, ok := pages[aspect]
	if !ok {
		return Page{}, fmt.Errorf("unknown aspect ratio %q", aspect)
	}
	return p, nil
}

// TextStyle is the appearance of one text role.
type TextStyle struct {
	Size  float64 // points
	Color string  // RRGGBB
	Bold  bool
}

// Style is the resolved template applied to a deck.
type Style struct {
	Name       string
	Background string
	Accent     string
	Font       string
	Title      TextStyle
	Body       TextStyle
	Footer     TextStyle
}

// Box is a rectangle in EMU.
type Box struct {
	X, Y, W, H int64
}

// Inches returns the box in inches.
func (b Box) Inches() (x, y, w, h float64) {
	return Inches(b.X), Inches(b.Y), Inches(b.W), Inches(b.H)
}

// Inches converts EMU to inches.
func Inches(v int64) float64 {
	return float64(v) / EMUPerInch
}

// TextBox is a positioned block of paragraphs.
type TextBox struct {
	Name       string
	Box        Box
	Paragraphs []string
	Style      TextStyle
	Bulleted   bool
}

// Text returns the paragraphs joined by newlines.
func (t TextBox) Text() string {
	return strings.Join(t.Paragraphs, "\n")
}

// Line is a straight stroke in EMU.
type Line struct {
	X1, Y1, X2, Y2 int64
	Width          int64
	Color          string
}

// Master holds the elements shared by every slide.
type Master struct {
	Background string
	Accent     Line
	Footer     *TextBox // nil when the footer label is empty
}

// Slide is one positioned slide: exactly one title and one body region.
type Slide struct {
	Number int // 1-based
	Title  TextBox
	Body   TextBox
	Notes  string
}

// Deck is the positioned document handed to encoders.
type Deck struct {
	Title  string
	Font   string
	Style  string
	Page   Page
	Master Master
	Slides []Slide
}

// Source is the layout input for one slide.
type Source struct {
	Title   string
	Bullets []string
	Notes   string
}

// Settings are deck-level options applied once.
type Settings struct {
	Title  string
	Footer string
	Page   Page
}

// Build positions src on the page. It never fails; slide order and count
// match src.
func Build(src []Source, style Style, s Settings) *Deck {
	page := s.Page
	contentW := scale(page.Width, contentRatio)

	d := &Deck{
		Title: s.Title,
		Font:  style.Font,
		Style: style.Name,
		Page:  page,
		Master: Master{
			Background: style.Background,
			Accent: Line{
				X1: 0, Y1: accentY, X2: page.Width, Y2: accentY,
				Width: accentWidth,
				Color: style.Accent,
			},
		},
		Slides: make([]Slide, len(src)),
	}

	if s.Footer != "" {
		d.Master.Footer = &TextBox{
			Name: "Footer",
			Box: Box{
				X: marginX,
				Y: scale(page.Height, footerYRatio),
				W: scale(page.Width, footerWRatio),
				H: footerH,
			},
			Paragraphs: []string{s.Footer},
			Style:      style.Footer,
		}
		// Keep the footer on the page for short aspect ratios.
		if over := d.Master.Footer.Box.Y + footerH - page.Height; over > 0 {
			d.Master.Footer.Box.Y -= over
		}
	}

	for i, sl := range src {
		n := i + 1
		d.Slides[i] = Slide{
			Number: n,
			Title: TextBox{
				Name:       fmt.Sprintf("Title %d", n),
				Box:        Box{X: marginX, Y: titleY, W: contentW, H: titleH},
				Paragraphs: []string{sl.Title},
				Style:      style.Title,
			},
			Body: TextBox{
				Name:       fmt.Sprintf("Content %d", n),
				Box:        Box{X: marginX, Y: bodyY, W: contentW, H: bodyH},
				Paragraphs: bodyParagraphs(sl.Bullets),
				Style:      style.Body,
				Bulleted:   true,
			},
			Notes: sl.Notes,
		}
	}
	return d
}

func scale(v int64, r float64) int64 {
	return int64(math.Round(float64(v) * r))
}

// bodyParagraphs joins bullets with newlines and splits again, so a bullet
// that itself contains a newline yields several bulleted paragraphs.
func bodyParagraphs(bullets []string) []string {
	if len(bullets) == 0 {
		return nil
	}
	return strings.Split(strings.Join(bullets, "\n"), "\n")
}
