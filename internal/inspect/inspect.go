// Package inspect reads a .pptx archive back into a small text model:
// slides in presentation order, their named shapes with paragraph text and
// run colour, speaker notes, and the master background colour.
package inspect

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"golang.org/x/net/html/charset"
)

// maxPartSize bounds the decompressed size of a single archive part.
const maxPartSize = 32 << 20

var (
	// ErrNotPresentation is returned when the archive lacks a presentation part.
	ErrNotPresentation = errors.New("not a presentation archive")

	// ErrMissingPart is returned when a referenced part is absent.
	ErrMissingPart = errors.New("missing archive part")
)

// Presentation is the text content of a .pptx file.
type Presentation struct {
	Background string
	Slides     []Slide
}

// Slide is one slide's shapes in document order.
type Slide struct {
	Number int
	Shapes []Shape
	Notes  string // empty when the slide has no notes slide
}

// Shape is a text-bearing shape.
type Shape struct {
	Name       string
	Paragraphs []string
	Color      string // colour of the first run, if any
	Bold       bool   // bold flag of the first run
}

// Text returns the paragraphs joined by newlines.
func (s Shape) Text() string {
	return strings.Join(s.Paragraphs, "\n")
}

// ShapesWithPrefix returns the shapes whose name starts with prefix.
func (s Slide) ShapesWithPrefix(prefix string) []Shape {
	var out []Shape
	for _, sh := range s.Shapes {
		if strings.HasPrefix(sh.Name, prefix) {
			out = append(out, sh)
		}
	}
	return out
}

// ReadFile reads and parses the .pptx at path.
func ReadFile(name string) (*Presentation, error) {
	data, err := os.ReadFile(name) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, err
	}
	return Read(data)
}

// Read parses .pptx bytes.
func Read(data []byte) (*Presentation, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotPresentation, err)
	}
	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}
	if files["ppt/presentation.xml"] == nil {
		return nil, ErrNotPresentation
	}

	targets, err := slideTargets(files)
	if err != nil {
		return nil, err
	}

	p := &Presentation{Slides: make([]Slide, 0, len(targets))}
	for i, target := range targets {
		shapes, err := readSlide(files, target)
		if err != nil {
			return nil, err
		}
		notes, err := readNotes(files, target)
		if err != nil {
			return nil, err
		}
		p.Slides = append(p.Slides, Slide{Number: i + 1, Shapes: shapes, Notes: notes})
	}

	if f := files["ppt/slideMasters/slideMaster1.xml"]; f != nil {
		if p.Background, err = readBackground(f); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// slideTargets resolves the slide parts listed in presentation.xml, in order.
func slideTargets(files map[string]*zip.File) ([]string, error) {
	var pres struct {
		Slides []struct {
			RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
		} `xml:"sldIdLst>sldId"`
	}
	if err := decodePart(files, "ppt/presentation.xml", &pres); err != nil {
		return nil, err
	}
	var rels relationships
	if err := decodePart(files, "ppt/_rels/presentation.xml.rels", &rels); err != nil {
		return nil, err
	}
	byID := make(map[string]string, len(rels.Rels))
	for _, r := range rels.Rels {
		byID[r.ID] = r.Target
	}

	targets := make([]string, 0, len(pres.Slides))
	for _, s := range pres.Slides {
		target, ok := byID[s.RID]
		if !ok {
			return nil, fmt.Errorf("%w: relationship %q", ErrMissingPart, s.RID)
		}
		if strings.HasPrefix(target, "/") {
			targets = append(targets, strings.TrimPrefix(target, "/"))
		} else {
			targets = append(targets, path.Join("ppt", target))
		}
	}
	return targets, nil
}

type relationships struct {
	Rels []struct {
		ID     string `xml:"Id,attr"`
		Type   string `xml:"Type,attr"`
		Target string `xml:"Target,attr"`
	} `xml:"Relationship"`
}

// readNotes returns the body text of the notes slide linked from slide.
func readNotes(files map[string]*zip.File, slide string) (string, error) {
	relsName := path.Join(path.Dir(slide), "_rels", path.Base(slide)+".rels")
	if files[relsName] == nil {
		return "", nil
	}
	var rels relationships
	if err := decodePart(files, relsName, &rels); err != nil {
		return "", err
	}
	for _, r := range rels.Rels {
		if !strings.HasSuffix(r.Type, "/notesSlide") {
			continue
		}
		shapes, err := readSlide(files, path.Join(path.Dir(slide), r.Target))
		if err != nil {
			return "", err
		}
		for _, sh := range shapes {
			if strings.HasPrefix(sh.Name, "Notes") {
				return sh.Text(), nil
			}
		}
	}
	return "", nil
}

func openPart(files map[string]*zip.File, name string) (io.ReadCloser, error) {
	f := files[name]
	if f == nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	return f.Open()
}

func newDecoder(r io.Reader) *xml.Decoder {
	dec := xml.NewDecoder(io.LimitReader(r, maxPartSize))
	dec.CharsetReader = charset.NewReaderLabel
	return dec
}

func decodePart(files map[string]*zip.File, name string, v any) error {
	rc, err := openPart(files, name)
	if err != nil {
		return err
	}
	defer func() { _ = rc.Close() }()
	if err := newDecoder(rc).Decode(v); err != nil {
		return fmt.Errorf("decoding %s: %w", name, err)
	}
	return nil
}

// readSlide collects text shapes (p:sp) with their paragraphs.
func readSlide(files map[string]*zip.File, name string) ([]Shape, error) {
	rc, err := openPart(files, name)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()

	var (
		shapes  []Shape
		cur     *Shape
		para    strings.Builder
		inPara  bool
		inText  bool
		inRPr   bool
		colored bool
	)
	dec := newDecoder(rc)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "sp":
				cur = &Shape{}
				colored = false
			case "cNvPr":
				if cur != nil && cur.Name == "" {
					cur.Name = attr(t, "name")
				}
			case "p":
				if cur != nil {
					inPara = true
					para.Reset()
				}
			case "t":
				inText = inPara
			case "rPr":
				inRPr = true
				if cur != nil && !colored {
					cur.Bold = attr(t, "b") == "1"
				}
			case "srgbClr":
				if cur != nil && inRPr && !colored {
					cur.Color = attr(t, "val")
					colored = true
				}
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "sp":
				if cur != nil {
					shapes = append(shapes, *cur)
					cur = nil
				}
			case "p":
				if cur != nil && inPara {
					if s := para.String(); s != "" {
						cur.Paragraphs = append(cur.Paragraphs, s)
					}
					inPara = false
				}
			case "t":
				inText = false
			case "rPr":
				inRPr = false
			}
		case xml.CharData:
			if inText {
				para.Write(t)
			}
		}
	}
	return shapes, nil
}

// readBackground returns the first solid colour under p:bg.
func readBackground(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = rc.Close() }()

	dec := newDecoder(rc)
	inBg := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("decoding %s: %w", f.Name, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "bg" {
				inBg = true
			}
			if inBg && t.Name.Local == "srgbClr" {
				return attr(t, "val"), nil
			}
		case xml.EndElement:
			if t.Name.Local == "bg" {
				inBg = false
			}
		}
	}
}

func attr(se xml.StartElement, local string) string {
	for _, a := range se.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
