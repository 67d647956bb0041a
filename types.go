package outline2deck

import (
	"fmt"
	"strings"
	"time"
)

// Outline is the canonical, normalized description of a deck.
// An Outline returned by the normalizer always has at least one slide.
type Outline struct {
	Slides []Slide `json:"slides"`
}

// Slide is one canonical slide. Title is never empty after normalization
// and Bullets is never nil.
type Slide struct {
	Title        string   `json:"title"`
	Bullets      []string `json:"bullets"`
	SpeakerNotes string   `json:"speakerNotes,omitempty"`
}

// Input contains the data for a single render.
type Input struct {
	Outline *Outline

	// Template is a template identifier. Unknown or empty identifiers
	// resolve to the renderer's default template.
	Template string

	// Format selects the encoder. Empty means FormatPPTX.
	Format Format

	// Title sets the document title metadata. Empty uses the first slide title.
	Title string
}

// DeckDocument is a rendered deck ready to be delivered.
type DeckDocument struct {
	Data        []byte
	ContentType string
	Filename    string
	SlideCount  int
}

// Format identifies an output encoding.
type Format string

// Supported formats.
const (
	FormatPPTX Format = "pptx"
	// FormatPDF sets text in the PDF core fonts, so only characters in
	// Windows-1252 survive. Others, such as CJK text or emoji, print as ".".
	FormatPDF  Format = "pdf"
	FormatDeck Format = "deck"
	FormatJSON Format = "json"
)

// Content types for each format.
const (
	ContentTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	ContentTypePDF  = "application/pdf"
	ContentTypeDeck = "application/xml"
	ContentTypeJSON = "application/json"
)

// Formats lists supported formats in display order.
func Formats() []Format {
	return []Format{FormatPPTX, FormatPDF, FormatDeck, FormatJSON}
}

// ParseFormat converts a user-provided string to a Format.
// Empty input yields FormatPPTX.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case "":
		return FormatPPTX, nil
	case FormatPPTX, FormatPDF, FormatDeck, FormatJSON:
		return f, nil
	case "xml":
		return FormatDeck, nil
	default:
		return "", fmt.Errorf("%w: %q (must be pptx, pdf, deck, or json)", ErrUnsupportedFormat, s)
	}
}

// Extension returns the file extension for the format, with leading dot.
func (f Format) Extension() string {
	switch f {
	case FormatDeck:
		return ".xml"
	case "":
		return ".pptx"
	default:
		return "." + string(f)
	}
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	switch f {
	case FormatPDF:
		return ContentTypePDF
	case FormatDeck:
		return ContentTypeDeck
	case FormatJSON:
		return ContentTypeJSON
	default:
		return ContentTypePPTX
	}
}

// Aspect ratios supported for the page.
const (
	Aspect16x9  = "16:9"
	Aspect4x3   = "4:3"
	Aspect16x10 = "16:10"
)

// ValidateAspect checks that s names a supported aspect ratio.
func ValidateAspect(s string) error {
	switch s {
	case Aspect16x9, Aspect4x3, Aspect16x10:
		return nil
	default:
		return fmt.Errorf("%w: %q (must be 16:9, 4:3, or 16:10)", ErrInvalidAspect, s)
	}
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds deck-level settings applied once per document.
type rendererConfig struct {
	assetPath       string
	defaultTemplate string
	footer          string
	aspect          string
	filename        string
	author          string
	now             func() time.Time
}

// Defaults for deck-level settings.
const (
	DefaultTemplate = "light"
	DefaultFooter   = "Company Inc."
	DefaultAspect   = Aspect16x9
	DefaultFilename = "YourPresentation"
)

// WithAssetPath loads additional templates from dir/templates/*.yaml.
// Custom templates override built-ins with the same name.
func WithAssetPath(dir string) Option {
	return func(r *Renderer) {
		r.cfg.assetPath = dir
	}
}

// WithDefaultTemplate sets the template used for unknown identifiers.
func WithDefaultTemplate(name string) Option {
	return func(r *Renderer) {
		r.cfg.defaultTemplate = name
	}
}

// WithFooter sets the footer label shown on every slide.
// An empty label hides the footer. {date} and {date:FORMAT} placeholders
// are replaced with the render date (FORMAT tokens: YYYY, YY, MMMM, MMM,
// MM, M, DD, D, or a preset: iso, european, us, long).
// In PDF output the label is limited to Windows-1252 characters like all
// other text; see FormatPDF.
func WithFooter(label string) Option {
	return func(r *Renderer) {
		r.cfg.footer = label
	}
}

// WithAspect sets the page aspect ratio (16:9, 4:3, or 16:10).
func WithAspect(aspect string) Option {
	return func(r *Renderer) {
		r.cfg.aspect = aspect
	}
}

// WithFilename sets the base name of produced documents, without extension.
func WithFilename(name string) Option {
	return func(r *Renderer) {
		r.cfg.filename = name
	}
}

// WithAuthor sets the author recorded in document metadata.
func WithAuthor(author string) Option {
	return func(r *Renderer) {
		r.cfg.author = author
	}
}

// WithClock sets the time source for document timestamps.
// Panics if now is nil (programmer error).
func WithClock(now func() time.Time) Option {
	if now == nil {
		panic("outline2deck: WithClock requires a non-nil function")
	}
	return func(r *Renderer) {
		r.cfg.now = now
	}
}
