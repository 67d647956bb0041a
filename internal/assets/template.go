package assets

import (
	"fmt"
	"strings"

	"github.com/alnah/go-outline2deck/internal/yamlutil"
)

// DefaultTemplateName is the built-in template used for unknown identifiers.
const DefaultTemplateName = "light"

// DefaultFont is used when a template names no font.
const DefaultFont = "Arial"

// Font size bounds in points.
const (
	minFontSize = 4
	maxFontSize = 200
)

// TextStyle describes one text role (title, body, footer).
type TextStyle struct {
	Size  float64 `yaml:"size"`
	Color string  `yaml:"color"`
	Bold  bool    `yaml:"bold"`
}

// Template is a named style record. Colours are six upper-case hex digits
// without '#' once validated.
type Template struct {
	Name        string    `yaml:"name"`
	Description string    `yaml:"description"`
	Background  string    `yaml:"background"`
	Accent      string    `yaml:"accent"`
	Font        string    `yaml:"font"`
	Title       TextStyle `yaml:"title"`
	Body        TextStyle `yaml:"body"`
	Footer      TextStyle `yaml:"footer"`
}

// ParseTemplate decodes a YAML record and validates it.
// The record's name must match name when both are set; an empty record
// name takes name.
func ParseTemplate(name string, data []byte) (*Template, error) {
	var t Template
	if err := yamlutil.UnmarshalStrict(data, &t); err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTemplate, name, err)
	}
	if t.Name == "" {
		t.Name = name
	}
	if t.Name != name {
		return nil, fmt.Errorf("%w: %q declares name %q", ErrInvalidTemplate, name, t.Name)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Validate normalizes colours and checks sizes in place.
func (t *Template) Validate() error {
	var err error
	for _, c := range []*string{&t.Background, &t.Accent, &t.Title.Color, &t.Body.Color, &t.Footer.Color} {
		if *c, err = NormalizeColor(*c); err != nil {
			return fmt.Errorf("template %q: %w", t.Name, err)
		}
	}
	sizes := []struct {
		role string
		size float64
	}{{"title", t.Title.Size}, {"body", t.Body.Size}, {"footer", t.Footer.Size}}
	for _, s := range sizes {
		if s.size < minFontSize || s.size > maxFontSize {
			return fmt.Errorf("%w: template %q: %s size %g out of range [%d, %d]",
				ErrInvalidTemplate, t.Name, s.role, s.size, minFontSize, maxFontSize)
		}
	}
	t.Font = strings.TrimSpace(t.Font)
	if t.Font == "" {
		t.Font = DefaultFont
	}
	return nil
}
