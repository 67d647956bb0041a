// Package svgdeck renders deck markup slides as SVG for browser previews.
//
// It draws the subset of deck markup the renderer emits: slide background,
// lines, text and bullet lists.
package svgdeck

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/ajstarks/deck"
	svg "github.com/ajstarks/svgo/float"
)

const (
	strokefmt   = "stroke-width:%.2fpx;stroke:%s;stroke-opacity:%.2f"
	fillfmt     = "fill:%s;fill-opacity:%.2f"
	linespacing = 1.4
	listspacing = 2.0
	charwidth   = 0.55 // average glyph width as a fraction of font size
)

var fontmap = map[string]string{
	"sans":  "Helvetica, Arial, sans-serif",
	"serif": "Georgia, Times, serif",
	"mono":  "Monaco, Consolas, monospace",
}

// RenderAll renders every slide of d.
func RenderAll(ctx context.Context, d *deck.Deck) ([][]byte, error) {
	out := make([][]byte, len(d.Slide))
	for i := range d.Slide {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := Render(&buf, d, i); err != nil {
			return nil, err
		}
		out[i] = buf.Bytes()
	}
	return out, nil
}

// Render writes slide n of d as a standalone SVG document.
func Render(w *bytes.Buffer, d *deck.Deck, n int) error {
	if n < 0 || n >= len(d.Slide) {
		return fmt.Errorf("svgdeck: slide index %d out of range", n)
	}
	cw, ch := float64(d.Canvas.Width), float64(d.Canvas.Height)
	if cw <= 0 || ch <= 0 {
		return fmt.Errorf("svgdeck: invalid canvas %vx%v", cw, ch)
	}

	doc := svg.New(w)
	doc.Start(cw, ch)
	slide := d.Slide[n]
	if slide.Bg != "" {
		doc.Rect(0, 0, cw, ch, fmt.Sprintf(fillfmt, slide.Bg, 1.0))
	}
	fg := slide.Fg
	if fg == "" {
		fg = "black"
	}

	for _, l := range slide.Line {
		x1, y1, sw := dimen(cw, ch, l.Xp1, l.Yp1, l.Sp)
		x2, y2, _ := dimen(cw, ch, l.Xp2, l.Yp2, 0)
		if sw == 0 {
			sw = 2.0
		}
		doc.Line(x1, y1, x2, y2, fmt.Sprintf(strokefmt, sw, orDefault(l.Color, fg), setop(l.Opacity)))
	}

	for _, t := range slide.Text {
		x, y, fs := dimen(cw, ch, t.Xp, t.Yp, t.Sp)
		lines := wrap(t.Tdata, pct(t.Wp, cw), fs)
		doc.Gstyle(textStyle(orDefault(t.Color, fg), t.Font, fs, t.Opacity))
		for _, line := range lines {
			doc.Text(x, y, line, `xml:space="preserve"`)
			y += fs * linespacing
		}
		doc.Gend()
	}

	for _, l := range slide.List {
		x, y, fs := dimen(cw, ch, l.Xp, l.Yp, l.Sp)
		spacing := l.Lp
		if spacing == 0 {
			spacing = listspacing
		}
		color := orDefault(l.Color, fg)
		if l.Type == "bullet" {
			x += fs
		}
		doc.Gstyle(textStyle(color, l.Font, fs, l.Opacity))
		for _, li := range l.Li {
			if l.Type == "bullet" {
				bullet(doc, x, y, fs, color)
			}
			doc.Text(x, y, li.ListText, `xml:space="preserve"`)
			y += spacing * fs
		}
		doc.Gend()
	}

	doc.End()
	return nil
}

// pct converts percentages to canvas measures.
func pct(p, m float64) float64 {
	return (p / 100.0) * m
}

// dimen maps deck percentages to canvas coordinates, flipping y.
func dimen(w, h, xp, yp, sp float64) (float64, float64, float64) {
	return pct(xp, w), pct(100-yp, h), pct(sp, w)
}

// setop maps deck opacity (0 = opaque, -1 = transparent, else percent).
func setop(v float64) float64 {
	switch {
	case v == -1:
		return 0
	case v == 0:
		return 1
	default:
		return v / 100
	}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func fontlookup(s string) string {
	if f, ok := fontmap[s]; ok {
		return f
	}
	if s == "" {
		return fontmap["sans"]
	}
	return s
}

func textStyle(color, font string, fs, opacity float64) string {
	return fmt.Sprintf("fill-opacity:%.2f;fill:%s;font-family:%s;font-size:%.2fpx", setop(opacity), color, fontlookup(font), fs)
}

// bullet draws a bullet left of the text baseline.
func bullet(doc *svg.SVG, x, y, size float64, color string) {
	rs := size / 2
	doc.Circle(x-size, y-(rs*2)/3, rs/2, "fill:"+color)
}

// wrap breaks s into lines no wider than w, estimating glyph widths.
// Explicit newlines always break. A zero width disables wrapping.
func wrap(s string, w, fs float64) []string {
	var lines []string
	for _, para := range strings.Split(s, "\n") {
		if w <= 0 || fs <= 0 {
			lines = append(lines, para)
			continue
		}
		maxChars := int(w / (fs * charwidth))
		var line string
		for _, word := range strings.Fields(para) {
			switch {
			case line == "":
				line = word
			case len(line)+1+len(word) > maxChars:
				lines = append(lines, line)
				line = word
			default:
				line += " " + word
			}
		}
		lines = append(lines, line)
	}
	return lines
}
