// Package pptx writes a positioned deck as an Office Open XML presentation.
//
// Parts are rendered from embedded text/template files and stored in a zip
// archive in a fixed order with fixed timestamps, so equal input yields
// byte-identical output. Each slide holds two text boxes named "Title N"
// and "Content N" over a single blank layout; the background, accent line
// and footer live on the slide master. Slides with speaker notes get a
// notes slide, and the notes master is written only when one exists.
package pptx

import (
	"archive/zip"
	"bytes"
	"context"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"math"
	"strings"
	"text/template"
	"time"

	"github.com/alnah/go-outline2deck/internal/layout"
)

//go:embed parts/*.tmpl
var partsFS embed.FS

// ContentType is the MIME type of a .pptx file.
const ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

// Application is recorded in docProps/app.xml.
const Application = "outline2deck"

// ErrEmptyDeck is returned when the deck has no slides.
var ErrEmptyDeck = errors.New("pptx: deck has no slides")

// zipEpoch is the modification time of every archive entry.
var zipEpoch = time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC)

// Shape ids on a slide: 1 is the group, then title and body.
const (
	titleShapeID  = 2
	bodyShapeID   = 3
	accentShapeID = 2
	footerShapeID = 3
	firstSlideID  = 256
)

// Slide image on the notes page: 6in wide, height follows the aspect ratio.
const (
	notesImageX = 685800
	notesImageY = 1143000
	notesImageW = 5486400
)

// Metadata is written to the package core properties.
type Metadata struct {
	Title   string
	Author  string
	Created time.Time // zero omits the timestamps
}

// Encoder renders decks to .pptx bytes. It is safe for concurrent use.
type Encoder struct {
	tmpl *template.Template
}

// NewEncoder parses the embedded part templates.
func NewEncoder() (*Encoder, error) {
	tmpl, err := template.New("pptx").
		Funcs(template.FuncMap{"xml": escapeXML}).
		ParseFS(partsFS, "parts/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("pptx: parsing part templates: %w", err)
	}
	return &Encoder{tmpl: tmpl}, nil
}

// part is one archive entry.
type part struct {
	name string
	tmpl string
	data any
}

// Encode writes d as a .pptx archive.
func (e *Encoder) Encode(ctx context.Context, d *layout.Deck, meta Metadata) ([]byte, error) {
	if d == nil || len(d.Slides) == 0 {
		return nil, ErrEmptyDeck
	}
	p := newPackage(d, meta)

	parts := []part{
		{"[Content_Types].xml", "content_types.xml.tmpl", p},
		{"_rels/.rels", "package.rels.tmpl", p},
		{"docProps/core.xml", "core.xml.tmpl", p},
		{"docProps/app.xml", "app.xml.tmpl", p},
		{"ppt/presentation.xml", "presentation.xml.tmpl", p},
		{"ppt/_rels/presentation.xml.rels", "presentation.rels.tmpl", p},
		{"ppt/presProps.xml", "presProps.xml", p},
		{"ppt/viewProps.xml", "viewProps.xml", p},
		{"ppt/tableStyles.xml", "tableStyles.xml", p},
		{"ppt/theme/theme1.xml", "theme.xml.tmpl", p},
		{"ppt/slideMasters/slideMaster1.xml", "slideMaster.xml.tmpl", p},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", "slideMaster.rels.tmpl", p},
		{"ppt/slideLayouts/slideLayout1.xml", "slideLayout.xml.tmpl", p},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", "slideLayout.rels.tmpl", p},
	}
	if p.NotesCount > 0 {
		parts = append(parts,
			part{"ppt/theme/theme2.xml", "theme.xml.tmpl", p},
			part{"ppt/notesMasters/notesMaster1.xml", "notesMaster.xml.tmpl", p},
			part{"ppt/notesMasters/_rels/notesMaster1.xml.rels", "notesMaster.rels.tmpl", p},
		)
	}
	for _, s := range p.Slides {
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", s.Number), "slide.xml.tmpl", s},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", s.Number), "slide.rels.tmpl", s},
		)
		if len(s.Notes) > 0 {
			parts = append(parts,
				part{fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", s.Number), "notesSlide.xml.tmpl", s},
				part{fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", s.Number), "notesSlide.rels.tmpl", s},
			)
		}
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, pt := range parts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if err := e.writePart(zw, pt); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("pptx: closing archive: %w", err)
	}
	return buf.Bytes(), nil
}

func (e *Encoder) writePart(zw *zip.Writer, pt part) error {
	w, err := zw.CreateHeader(&zip.FileHeader{
		Name:     pt.name,
		Method:   zip.Deflate,
		Modified: zipEpoch,
	})
	if err != nil {
		return fmt.Errorf("pptx: creating %s: %w", pt.name, err)
	}
	if err := e.tmpl.ExecuteTemplate(w, pt.tmpl, pt.data); err != nil {
		return fmt.Errorf("pptx: rendering %s: %w", pt.name, err)
	}
	return nil
}

// escapeXML escapes text for element content and attribute values.
// Characters not allowed in XML are replaced with U+FFFD.
func escapeXML(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// ---------------------------------------------------------------------------
// Template data
// ---------------------------------------------------------------------------

type shapeData struct {
	ID         int
	Name       string
	X, Y, W, H int64
	Anchor     string
	Size       int // hundredths of a point
	Color      string
	Font       string
	Bold       bool
	Bulleted   bool
	UserDrawn  bool
	Paragraphs []string
}

type lineData struct {
	ID         int
	Name       string
	X, Y, W, H int64
	Width      int64
	Color      string
}

type slideData struct {
	Number int
	ID     int
	RelID  string
	Title  shapeData
	Body   shapeData
	Notes  []string // one entry per paragraph; nil writes no notes slide
}

type masterData struct {
	Background string
	Accent     lineData
	Footer     *shapeData
	TitleSize  int
	BodySize   int
}

type themeData struct {
	Name   string
	Font   string
	Accent string
}

type relIDs struct {
	PresProps   string
	ViewProps   string
	Theme       string
	TableStyles string
	NotesMaster string
}

type boxData struct {
	X, Y, W, H int64
}

type packageData struct {
	Title       string
	Author      string
	Created     string
	Application string
	Page        layout.Page
	Slides      []slideData
	NotesCount  int
	NotesImage  boxData
	Master      masterData
	Theme       themeData
	Rels        relIDs
}

func newPackage(d *layout.Deck, meta Metadata) *packageData {
	p := &packageData{
		Title:       meta.Title,
		Author:      meta.Author,
		Application: Application,
		Page:        d.Page,
		Slides:      make([]slideData, len(d.Slides)),
		Theme:       themeData{Name: d.Style, Font: d.Font, Accent: d.Master.Accent.Color},
	}
	if p.Title == "" {
		p.Title = d.Title
	}
	if !meta.Created.IsZero() {
		p.Created = meta.Created.UTC().Format(time.RFC3339)
	}

	for i, s := range d.Slides {
		p.Slides[i] = slideData{
			Number: s.Number,
			ID:     firstSlideID + i,
			RelID:  fmt.Sprintf("rId%d", i+2),
			Title:  newShape(titleShapeID, s.Title, d.Font, "b"),
			Body:   newShape(bodyShapeID, s.Body, d.Font, "t"),
			Notes:  notesParagraphs(s.Notes),
		}
		if p.Slides[i].Notes != nil {
			p.NotesCount++
		}
	}
	p.NotesImage = boxData{
		X: notesImageX,
		Y: notesImageY,
		W: notesImageW,
		H: notesImageW * d.Page.Height / max(d.Page.Width, 1),
	}

	// rId1 is the master and rId2..rId{n+1} are slides.
	n := len(d.Slides)
	p.Rels = relIDs{
		PresProps:   fmt.Sprintf("rId%d", n+2),
		ViewProps:   fmt.Sprintf("rId%d", n+3),
		Theme:       fmt.Sprintf("rId%d", n+4),
		TableStyles: fmt.Sprintf("rId%d", n+5),
		NotesMaster: fmt.Sprintf("rId%d", n+6),
	}

	acc := d.Master.Accent
	p.Master = masterData{
		Background: d.Master.Background,
		Accent: lineData{
			ID:    accentShapeID,
			Name:  "Accent Line",
			X:     acc.X1,
			Y:     acc.Y1,
			W:     acc.X2 - acc.X1,
			H:     acc.Y2 - acc.Y1,
			Width: acc.Width,
			Color: acc.Color,
		},
	}
	if len(d.Slides) > 0 {
		p.Master.TitleSize = hundredths(d.Slides[0].Title.Style.Size)
		p.Master.BodySize = hundredths(d.Slides[0].Body.Style.Size)
	}
	if f := d.Master.Footer; f != nil {
		fs := newShape(footerShapeID, *f, d.Font, "ctr")
		fs.UserDrawn = true
		p.Master.Footer = &fs
	}
	return p
}

func newShape(id int, tb layout.TextBox, font, anchor string) shapeData {
	return shapeData{
		ID:         id,
		Name:       tb.Name,
		X:          tb.Box.X,
		Y:          tb.Box.Y,
		W:          tb.Box.W,
		H:          tb.Box.H,
		Anchor:     anchor,
		Size:       hundredths(tb.Style.Size),
		Color:      tb.Style.Color,
		Font:       font,
		Bold:       tb.Style.Bold,
		Bulleted:   tb.Bulleted,
		Paragraphs: tb.Paragraphs,
	}
}

// notesParagraphs splits speaker notes into lines. Blank notes yield nil.
func notesParagraphs(notes string) []string {
	notes = strings.TrimSpace(strings.ReplaceAll(notes, "\r\n", "\n"))
	if notes == "" {
		return nil
	}
	return strings.Split(notes, "\n")
}

func hundredths(pt float64) int {
	return int(math.Round(pt * 100))
}
