// Package deckxml converts a positioned deck into deck markup, the XML
// format read by the ajstarks/deck toolchain (pdfdeck, svgdeck, pngdeck).
//
// Deck markup places elements in percentages of the canvas, with y measured
// from the bottom edge and font sizes as a percentage of canvas width.
package deckxml

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/ajstarks/deck"

	"github.com/alnah/go-outline2deck/internal/layout"
)

// ContentType is the MIME type of deck markup.
const ContentType = "application/xml"

// CanvasWidth is the canvas width in pixels; the height follows the page ratio.
const CanvasWidth = 1920

// listSpacing is the bullet line spacing as a multiple of the font size.
const listSpacing = 1.6

// ErrEmptyDeck is returned when the deck has no slides.
var ErrEmptyDeck = errors.New("deckxml: deck has no slides")

// Build converts d to a deck.Deck.
func Build(d *layout.Deck) *deck.Deck {
	var out deck.Deck
	out.Title = d.Title
	out.Canvas.Width = CanvasWidth
	out.Canvas.Height = int(math.Round(CanvasWidth * float64(d.Page.Height) / float64(d.Page.Width)))

	c := conv{page: d.Page}
	family := Family(d.Font)
	for _, s := range d.Slides {
		var sl deck.Slide
		sl.Bg = hexColor(d.Master.Background)
		sl.Fg = hexColor(s.Body.Style.Color)

		acc := d.Master.Accent
		var ln deck.Line
		ln.Xp1, ln.Yp1 = c.x(acc.X1), c.y(acc.Y1)
		ln.Xp2, ln.Yp2 = c.x(acc.X2), c.y(acc.Y2)
		ln.Sp = c.w(acc.Width)
		ln.Color = hexColor(acc.Color)
		sl.Line = append(sl.Line, ln)

		sl.Text = append(sl.Text, c.text(s.Title, family))
		if f := d.Master.Footer; f != nil {
			sl.Text = append(sl.Text, c.text(*f, family))
		}
		if len(s.Body.Paragraphs) > 0 {
			sl.List = append(sl.List, c.list(s.Body, family))
		}
		out.Slide = append(out.Slide, sl)
	}
	return &out
}

// Encode returns d as indented deck markup with an XML header.
func Encode(ctx context.Context, d *layout.Deck) ([]byte, error) {
	if d == nil || len(d.Slides) == 0 {
		return nil, ErrEmptyDeck
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.EncodeElement(Build(d), xml.StartElement{Name: xml.Name{Local: "deck"}}); err != nil {
		return nil, fmt.Errorf("deckxml: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return nil, fmt.Errorf("deckxml: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

// Decode parses deck markup.
func Decode(data []byte) (*deck.Deck, error) {
	var d deck.Deck
	if err := xml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("deckxml: %w", err)
	}
	return &d, nil
}

// Family maps a font name to a deck font family (sans, serif, mono).
func Family(font string) string {
	f := strings.ToLower(font)
	switch {
	case strings.Contains(f, "mono"), strings.Contains(f, "courier"):
		return "mono"
	case strings.Contains(f, "times"), strings.Contains(f, "georgia"), strings.Contains(f, "serif") && !strings.Contains(f, "sans"):
		return "serif"
	default:
		return "sans"
	}
}

// conv converts EMU to deck percentages for one page size.
type conv struct {
	page layout.Page
}

func (c conv) x(v int64) float64 { return round2(float64(v) / float64(c.page.Width) * 100) }
func (c conv) w(v int64) float64 { return round2(float64(v) / float64(c.page.Width) * 100) }

// y flips the axis: deck markup measures from the bottom.
func (c conv) y(v int64) float64 { return round2(100 - float64(v)/float64(c.page.Height)*100) }

// size converts points to a percentage of canvas width.
func (c conv) size(pt float64) float64 {
	return round2(pt * layout.EMUPerPt / float64(c.page.Width) * 100)
}

// baseline is the y of the first text line: one em below the box top.
func (c conv) baseline(tb layout.TextBox) float64 {
	return c.y(tb.Box.Y + int64(tb.Style.Size*layout.EMUPerPt))
}

func (c conv) text(tb layout.TextBox, family string) deck.Text {
	var t deck.Text
	t.Xp = c.x(tb.Box.X)
	t.Yp = c.baseline(tb)
	t.Sp = c.size(tb.Style.Size)
	t.Wp = c.w(tb.Box.W)
	t.Color = hexColor(tb.Style.Color)
	t.Font = family
	t.Tdata = tb.Text()
	return t
}

func (c conv) list(tb layout.TextBox, family string) deck.List {
	var l deck.List
	l.Xp = c.x(tb.Box.X)
	l.Yp = c.baseline(tb)
	l.Sp = c.size(tb.Style.Size)
	l.Wp = c.w(tb.Box.W)
	l.Lp = listSpacing
	l.Type = "bullet"
	l.Color = hexColor(tb.Style.Color)
	l.Font = family
	for _, p := range tb.Paragraphs {
		var li deck.ListItem
		li.ListText = p
		l.Li = append(l.Li, li)
	}
	return l
}

func hexColor(c string) string {
	if c == "" || strings.HasPrefix(c, "#") {
		return c
	}
	return "#" + c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
