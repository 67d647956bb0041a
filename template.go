package outline2deck

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alnah/go-outline2deck/internal/assets"
	"github.com/alnah/go-outline2deck/internal/layout"
)

// TextStyle is the appearance of one text role.
type TextStyle struct {
	Size  float64 `json:"size"`
	Color string  `json:"color"`
	Bold  bool    `json:"bold"`
}

// Template is an immutable style record. Colours are six upper-case hex
// digits without '#'.
type Template struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Background  string    `json:"background"`
	Accent      string    `json:"accent"`
	Font        string    `json:"font"`
	Title       TextStyle `json:"title"`
	Body        TextStyle `json:"body"`
	Footer      TextStyle `json:"footer"`
}

// registry holds every template loaded at construction, keyed by id.
type registry struct {
	byID     map[string]Template
	ids      []string // sorted
	fallback string
}

// loadRegistry reads all templates from loader. The fallback template must
// exist; any other template that fails to load is a construction error.
func loadRegistry(loader assets.TemplateLoader, fallback string) (*registry, error) {
	ids, err := loader.ListTemplates()
	if err != nil {
		return nil, fmt.Errorf("listing templates: %w", err)
	}
	reg := &registry{byID: make(map[string]Template, len(ids)), fallback: fallback}
	for _, id := range ids {
		t, err := loader.LoadTemplate(id)
		if err != nil {
			return nil, convertTemplateError(err)
		}
		reg.byID[id] = fromAsset(t)
		reg.ids = append(reg.ids, id)
	}
	if _, ok := reg.byID[fallback]; !ok {
		return nil, fmt.Errorf("%w: default template %q", ErrTemplateNotFound, fallback)
	}
	return reg, nil
}

// resolve returns the template for id. Unknown or empty ids resolve to the
// fallback template, so resolution never fails.
func (r *registry) resolve(id string) Template {
	if t, ok := r.byID[strings.TrimSpace(id)]; ok {
		return t
	}
	return r.byID[r.fallback]
}

func fromAsset(t *assets.Template) Template {
	return Template{
		ID:          t.Name,
		Description: t.Description,
		Background:  t.Background,
		Accent:      t.Accent,
		Font:        t.Font,
		Title:       TextStyle(t.Title),
		Body:        TextStyle(t.Body),
		Footer:      TextStyle(t.Footer),
	}
}

// style converts t to the layout style.
func (t Template) style() layout.Style {
	return layout.Style{
		Name:       t.ID,
		Background: t.Background,
		Accent:     t.Accent,
		Font:       t.Font,
		Title:      layout.TextStyle(t.Title),
		Body:       layout.TextStyle(t.Body),
		Footer:     layout.TextStyle(t.Footer),
	}
}

// convertTemplateError maps internal asset errors to public sentinels.
func convertTemplateError(err error) error {
	switch {
	case errors.Is(err, assets.ErrTemplateNotFound):
		return fmt.Errorf("%w: %v", ErrTemplateNotFound, err)
	case errors.Is(err, assets.ErrInvalidTemplate), errors.Is(err, assets.ErrInvalidAssetName):
		return fmt.Errorf("%w: %v", ErrInvalidTemplate, err)
	default:
		return fmt.Errorf("loading template: %w", err)
	}
}
