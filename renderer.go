package outline2deck

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alnah/go-outline2deck/internal/assets"
	"github.com/alnah/go-outline2deck/internal/dateutil"
	"github.com/alnah/go-outline2deck/internal/deckxml"
	"github.com/alnah/go-outline2deck/internal/layout"
	"github.com/alnah/go-outline2deck/internal/pdfdeck"
	"github.com/alnah/go-outline2deck/internal/pptx"
	"github.com/alnah/go-outline2deck/internal/svgdeck"
)

// Compile-time interface implementation checks.
var (
	_ deckEncoder           = (*pptxEncoder)(nil)
	_ deckEncoder           = pdfEncoder{}
	_ deckEncoder           = deckMarkupEncoder{}
	_ assets.TemplateLoader = (*assets.AssetResolver)(nil)
)

// docMeta is the document metadata shared by every encoder.
type docMeta struct {
	Title   string
	Author  string
	Created time.Time
}

// deckEncoder turns a positioned deck into document bytes.
type deckEncoder interface {
	Encode(ctx context.Context, d *layout.Deck, meta docMeta) ([]byte, error)
}

type pptxEncoder struct{ enc *pptx.Encoder }

func (e *pptxEncoder) Encode(ctx context.Context, d *layout.Deck, meta docMeta) ([]byte, error) {
	return e.enc.Encode(ctx, d, pptx.Metadata(meta))
}

type pdfEncoder struct{}

func (pdfEncoder) Encode(ctx context.Context, d *layout.Deck, meta docMeta) ([]byte, error) {
	return pdfdeck.Encode(ctx, d, pdfdeck.Metadata(meta))
}

type deckMarkupEncoder struct{}

func (deckMarkupEncoder) Encode(ctx context.Context, d *layout.Deck, _ docMeta) ([]byte, error) {
	return deckxml.Encode(ctx, d)
}

// Renderer turns canonical outlines into documents.
// Create with NewRenderer. A Renderer is immutable and safe for concurrent use.
type Renderer struct {
	cfg       rendererConfig
	page      layout.Page
	templates *registry
	encoders  map[Format]deckEncoder
}

// NewRenderer creates a Renderer with default configuration.
// Templates are loaded once here; a missing default template, an invalid
// template file or an invalid asset path is an error.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg: rendererConfig{
			defaultTemplate: DefaultTemplate,
			footer:          DefaultFooter,
			aspect:          DefaultAspect,
			filename:        DefaultFilename,
			now:             time.Now,
		},
	}
	for _, opt := range opts {
		opt(r)
	}

	if err := ValidateAspect(r.cfg.aspect); err != nil {
		return nil, err
	}
	page, err := layout.PageFor(r.cfg.aspect)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAspect, err)
	}
	r.page = page

	if err := dateutil.Validate(r.cfg.footer); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFooter, err)
	}

	if strings.TrimSpace(r.cfg.filename) == "" {
		r.cfg.filename = DefaultFilename
	}

	resolver, err := assets.NewAssetResolver(r.cfg.assetPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssetPath, err)
	}
	r.templates, err = loadRegistry(resolver, r.cfg.defaultTemplate)
	if err != nil {
		return nil, err
	}

	// Encoders may be injected by tests.
	if r.encoders == nil {
		enc, err := pptx.NewEncoder()
		if err != nil {
			return nil, fmt.Errorf("initializing pptx encoder: %w", err)
		}
		r.encoders = map[Format]deckEncoder{
			FormatPPTX: &pptxEncoder{enc: enc},
			FormatPDF:  pdfEncoder{},
			FormatDeck: deckMarkupEncoder{},
		}
	}
	return r, nil
}

// Templates returns the available template ids, sorted.
func (r *Renderer) Templates() []string {
	return append([]string(nil), r.templates.ids...)
}

// DefaultTemplateID returns the id used for unknown templates.
func (r *Renderer) DefaultTemplateID() string {
	return r.templates.fallback
}

// Template resolves id to a template. Unknown or empty ids resolve to the
// default template.
func (r *Renderer) Template(id string) Template {
	return r.templates.resolve(id)
}

// Export normalizes raw JSON and renders it, the whole export contract in
// one call. Errors are ErrInvalidOutline, ErrUnsupportedFormat or ErrRender.
func (r *Renderer) Export(ctx context.Context, raw []byte, template string, format Format) (*DeckDocument, error) {
	outline, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	return r.Render(ctx, Input{Outline: outline, Template: template, Format: format})
}

// Render produces a document from a canonical outline.
// Recovers from internal panics; no partial document is ever returned.
func (r *Renderer) Render(ctx context.Context, input Input) (doc *DeckDocument, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("%w: internal error: %v", ErrRender, rec)
		}
	}()

	format, err := ParseFormat(string(input.Format))
	if err != nil {
		return nil, err
	}
	if err := validateOutline(input.Outline); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte
	if format == FormatJSON {
		data, err = MarshalCanonical(input.Outline)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrRender, err)
		}
	} else {
		enc, ok := r.encoders[format]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
		}
		d := r.layout(input)
		data, err = enc.Encode(ctx, d, r.meta(d.Title))
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("%w: %s: %w", ErrRender, format, err)
		}
	}

	return &DeckDocument{
		Data:        data,
		ContentType: format.ContentType(),
		Filename:    r.cfg.filename + format.Extension(),
		SlideCount:  len(input.Outline.Slides),
	}, nil
}

// Preview renders one SVG document per slide.
func (r *Renderer) Preview(ctx context.Context, input Input) (slides [][]byte, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			slides = nil
			err = fmt.Errorf("%w: internal error: %v", ErrRender, rec)
		}
	}()

	if err := validateOutline(input.Outline); err != nil {
		return nil, err
	}
	slides, err = svgdeck.RenderAll(ctx, deckxml.Build(r.layout(input)))
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: preview: %w", ErrRender, err)
	}
	return slides, nil
}

// layout resolves the template and positions the outline.
func (r *Renderer) layout(input Input) *layout.Deck {
	tmpl := r.templates.resolve(input.Template)
	src := make([]layout.Source, len(input.Outline.Slides))
	for i, s := range input.Outline.Slides {
		src[i] = layout.Source{Title: s.Title, Bullets: s.Bullets, Notes: s.SpeakerNotes}
	}
	return layout.Build(src, tmpl.style(), layout.Settings{
		Title:  documentTitle(input),
		Footer: r.footerLabel(),
		Page:   r.page,
	})
}

// footerLabel expands date placeholders against the renderer clock.
// NewRenderer has validated the label.
func (r *Renderer) footerLabel() string {
	label, err := dateutil.Expand(r.cfg.footer, r.cfg.now())
	if err != nil {
		return r.cfg.footer
	}
	return label
}

func (r *Renderer) meta(title string) docMeta {
	return docMeta{
		Title:   title,
		Author:  r.cfg.author,
		Created: r.cfg.now().UTC(),
	}
}

// documentTitle prefers the explicit title, then the first slide title.
func documentTitle(input Input) string {
	if t := strings.TrimSpace(input.Title); t != "" {
		return t
	}
	return input.Outline.Slides[0].Title
}

// validateOutline is the render-side check for outlines built by hand
// instead of by the normalizer.
func validateOutline(o *Outline) error {
	if o == nil {
		return fmt.Errorf("%w: nil outline", ErrRender)
	}
	if len(o.Slides) == 0 {
		return fmt.Errorf("%w: outline has no slides", ErrRender)
	}
	return nil
}
