package outline2deck

// Notes:
// - Render is tested end to end through the real encoders, and pptx output
//   is read back with the inspector to check regions, order and colours
// - Encoder failures and panics use injected encoders (withEncoders)
// - A fixed clock makes every format byte-identical across runs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alnah/go-outline2deck/internal/inspect"
	"github.com/alnah/go-outline2deck/internal/layout"
)

// ---------------------------------------------------------------------------
// Test Helpers
// ---------------------------------------------------------------------------

var fixedTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedTime }

// withEncoders replaces the format encoders (test only).
func withEncoders(m map[Format]deckEncoder) Option {
	return func(r *Renderer) {
		r.encoders = m
	}
}

type failingEncoder struct{ err error }

func (f failingEncoder) Encode(context.Context, *layout.Deck, docMeta) ([]byte, error) {
	return []byte("partial"), f.err
}

type panicEncoder struct{}

func (panicEncoder) Encode(context.Context, *layout.Deck, docMeta) ([]byte, error) {
	panic("encoder exploded")
}

type recordingEncoder struct {
	deck *layout.Deck
	meta docMeta
}

func (r *recordingEncoder) Encode(_ context.Context, d *layout.Deck, meta docMeta) ([]byte, error) {
	r.deck, r.meta = d, meta
	return []byte("ok"), nil
}

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()
	r, err := NewRenderer(append([]Option{WithClock(fixedClock)}, opts...)...)
	if err != nil {
		t.Fatalf("NewRenderer() error: %v", err)
	}
	return r
}

func threeSlides() *Outline {
	return &Outline{Slides: []Slide{
		{Title: "Intro", Bullets: []string{"A", "B"}},
		{Title: "Middle", Bullets: []string{"C"}},
		{Title: "End", Bullets: []string{"D", "E", "F"}},
	}}
}

// ---------------------------------------------------------------------------
// TestRender_PPTX - Regions, order and template colours
// ---------------------------------------------------------------------------

func TestRender_PPTX_Dark(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	doc, err := r.Render(context.Background(), Input{Outline: threeSlides(), Template: "dark"})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if doc.ContentType != ContentTypePPTX {
		t.Errorf("ContentType = %q", doc.ContentType)
	}
	if doc.Filename != "YourPresentation.pptx" {
		t.Errorf("Filename = %q", doc.Filename)
	}
	if doc.SlideCount != 3 {
		t.Errorf("SlideCount = %d, want 3", doc.SlideCount)
	}

	p, err := inspect.Read(doc.Data)
	if err != nil {
		t.Fatalf("inspect.Read() error: %v", err)
	}
	if p.Background != "363636" {
		t.Errorf("Background = %q, want 363636", p.Background)
	}
	if len(p.Slides) != 3 {
		t.Fatalf("slides = %d, want 3", len(p.Slides))
	}

	want := threeSlides()
	for i, s := range p.Slides {
		titles := s.ShapesWithPrefix("Title")
		bodies := s.ShapesWithPrefix("Content")
		if len(titles) != 1 || len(bodies) != 1 {
			t.Fatalf("slide %d: %d title and %d body regions, want 1 and 1", i+1, len(titles), len(bodies))
		}
		if titles[0].Text() != want.Slides[i].Title {
			t.Errorf("slide %d title = %q, want %q", i+1, titles[0].Text(), want.Slides[i].Title)
		}
		if !titles[0].Bold || titles[0].Color != "FFFFFF" {
			t.Errorf("slide %d title style = bold %v colour %q", i+1, titles[0].Bold, titles[0].Color)
		}
		if got := bodies[0].Text(); got != strings.Join(want.Slides[i].Bullets, "\n") {
			t.Errorf("slide %d body = %q", i+1, got)
		}
		if bodies[0].Color != "F1F1F1" {
			t.Errorf("slide %d body colour = %q, want F1F1F1", i+1, bodies[0].Color)
		}
	}
}

func TestExport_PlaceholderTitle(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	doc, err := r.Export(context.Background(), []byte(`{"slides":[{"title":"One"},{"points":["x"]}]}`), "light", "")
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}
	p, err := inspect.Read(doc.Data)
	if err != nil {
		t.Fatalf("inspect.Read() error: %v", err)
	}
	if got := p.Slides[1].ShapesWithPrefix("Title")[0].Text(); got != "Slide 2" {
		t.Errorf("second title = %q, want Slide 2", got)
	}
}

func TestRender_UnknownTemplateUsesDefault(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	in := Input{Outline: threeSlides(), Template: "does-not-exist"}
	got, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	in.Template = "light"
	want, err := r.Render(context.Background(), in)
	if err != nil {
		t.Fatalf("Render(light) error: %v", err)
	}
	if !bytes.Equal(got.Data, want.Data) {
		t.Error("unknown template output differs from light output")
	}
}

// ---------------------------------------------------------------------------
// Formats
// ---------------------------------------------------------------------------

func TestRender_Formats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format      Format
		contentType string
		filename    string
		prefix      string
	}{
		{FormatPPTX, ContentTypePPTX, "Deck.pptx", "PK"},
		{FormatPDF, ContentTypePDF, "Deck.pdf", "%PDF"},
		{FormatDeck, ContentTypeDeck, "Deck.xml", "<?xml"},
		{FormatJSON, ContentTypeJSON, "Deck.json", "{"},
	}

	r := newTestRenderer(t, WithFilename("Deck"))
	for _, tt := range tests {
		tt := tt
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			in := Input{Outline: threeSlides(), Template: "dark", Format: tt.format}
			doc, err := r.Render(context.Background(), in)
			if err != nil {
				t.Fatalf("Render() error: %v", err)
			}
			if doc.ContentType != tt.contentType || doc.Filename != tt.filename {
				t.Errorf("got %q %q, want %q %q", doc.ContentType, doc.Filename, tt.contentType, tt.filename)
			}
			if !bytes.HasPrefix(doc.Data, []byte(tt.prefix)) {
				t.Errorf("data starts with %q, want %q", doc.Data[:min(8, len(doc.Data))], tt.prefix)
			}

			again, err := r.Render(context.Background(), in)
			if err != nil {
				t.Fatalf("second Render() error: %v", err)
			}
			if !bytes.Equal(doc.Data, again.Data) {
				t.Error("output is not deterministic")
			}
		})
	}
}

func TestRender_JSONIsCanonical(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	doc, err := r.Render(context.Background(), Input{Outline: threeSlides(), Format: FormatJSON})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	back, err := Normalize(doc.Data)
	if err != nil {
		t.Fatalf("Normalize() error: %v", err)
	}
	if fmt.Sprint(back) != fmt.Sprint(threeSlides()) {
		t.Errorf("round trip = %+v", back)
	}
}

func TestRender_Metadata(t *testing.T) {
	t.Parallel()

	rec := &recordingEncoder{}
	r := newTestRenderer(t,
		WithAuthor("Ada"),
		WithFooter("Acme"),
		WithAspect(Aspect4x3),
		withEncoders(map[Format]deckEncoder{FormatPPTX: rec}),
	)

	if _, err := r.Render(context.Background(), Input{Outline: threeSlides()}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if rec.meta.Title != "Intro" || rec.meta.Author != "Ada" || !rec.meta.Created.Equal(fixedTime) {
		t.Errorf("meta = %+v", rec.meta)
	}
	if rec.deck.Master.Footer == nil || rec.deck.Master.Footer.Text() != "Acme" {
		t.Errorf("footer = %+v, want Acme", rec.deck.Master.Footer)
	}
	if rec.deck.Page.Width != 9144000 {
		t.Errorf("page width = %d, want 4:3 width", rec.deck.Page.Width)
	}

	if _, err := r.Render(context.Background(), Input{Outline: threeSlides(), Title: " Quarterly "}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if rec.meta.Title != "Quarterly" {
		t.Errorf("explicit title = %q, want Quarterly", rec.meta.Title)
	}
}

// ---------------------------------------------------------------------------
// Errors
// ---------------------------------------------------------------------------

func TestRender_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		encoders map[Format]deckEncoder
		input    Input
		wantErr  error
	}{
		{
			name:    "nil outline",
			input:   Input{},
			wantErr: ErrRender,
		},
		{
			name:    "empty outline",
			input:   Input{Outline: &Outline{}},
			wantErr: ErrRender,
		},
		{
			name:    "unsupported format",
			input:   Input{Outline: threeSlides(), Format: "docx"},
			wantErr: ErrUnsupportedFormat,
		},
		{
			name:     "encoder failure",
			encoders: map[Format]deckEncoder{FormatPPTX: failingEncoder{err: errors.New("disk full")}},
			input:    Input{Outline: threeSlides()},
			wantErr:  ErrRender,
		},
		{
			name:     "encoder panic",
			encoders: map[Format]deckEncoder{FormatPPTX: panicEncoder{}},
			input:    Input{Outline: threeSlides()},
			wantErr:  ErrRender,
		},
		{
			name:     "missing encoder",
			encoders: map[Format]deckEncoder{},
			input:    Input{Outline: threeSlides(), Format: FormatPDF},
			wantErr:  ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var opts []Option
			if tt.encoders != nil {
				opts = append(opts, withEncoders(tt.encoders))
			}
			r := newTestRenderer(t, opts...)
			doc, err := r.Render(context.Background(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Render() error = %v, want %v", err, tt.wantErr)
			}
			if doc != nil {
				t.Errorf("Render() returned a document with error: %+v", doc)
			}
		})
	}
}

func TestRender_EncoderErrorIsWrapped(t *testing.T) {
	t.Parallel()

	cause := errors.New("disk full")
	r := newTestRenderer(t, withEncoders(map[Format]deckEncoder{FormatPPTX: failingEncoder{err: cause}}))
	_, err := r.Render(context.Background(), Input{Outline: threeSlides()})
	if !errors.Is(err, cause) {
		t.Errorf("error = %v, want wrapped cause", err)
	}
	if KindOf(err) != KindRender {
		t.Errorf("KindOf() = %q, want %q", KindOf(err), KindRender)
	}
}

func TestRender_Canceled(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Render(ctx, Input{Outline: threeSlides()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
}

func TestExport_InvalidOutline(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	doc, err := r.Export(context.Background(), []byte(`{"slides":[]}`), "light", FormatPPTX)
	if !errors.Is(err, ErrInvalidOutline) {
		t.Fatalf("Export() error = %v, want ErrInvalidOutline", err)
	}
	if doc != nil {
		t.Error("Export() returned a document with error")
	}
}

func TestRender_FooterDate(t *testing.T) {
	t.Parallel()

	rec := &recordingEncoder{}
	r := newTestRenderer(t,
		WithFooter("Acme | {date:long}"),
		withEncoders(map[Format]deckEncoder{FormatPPTX: rec}),
	)

	if _, err := r.Render(context.Background(), Input{Outline: threeSlides()}); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if got := rec.deck.Master.Footer.Text(); got != "Acme | March 1, 2024" {
		t.Errorf("footer = %q, want expanded date", got)
	}
}

func TestNewRenderer_InvalidFooter(t *testing.T) {
	t.Parallel()

	_, err := NewRenderer(WithFooter("Acme {date:[oops}"))
	if !errors.Is(err, ErrInvalidFooter) {
		t.Fatalf("NewRenderer() error = %v, want ErrInvalidFooter", err)
	}
	if KindOf(err) != KindInvalidRequest {
		t.Errorf("KindOf() = %q, want %q", KindOf(err), KindInvalidRequest)
	}
}

func TestNewRenderer_InvalidAspect(t *testing.T) {
	t.Parallel()

	if _, err := NewRenderer(WithAspect("21:9")); !errors.Is(err, ErrInvalidAspect) {
		t.Errorf("NewRenderer() error = %v, want ErrInvalidAspect", err)
	}
}

// ---------------------------------------------------------------------------
// Preview and concurrency
// ---------------------------------------------------------------------------

func TestPreview(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	slides, err := r.Preview(context.Background(), Input{Outline: threeSlides(), Template: "dark"})
	if err != nil {
		t.Fatalf("Preview() error: %v", err)
	}
	if len(slides) != 3 {
		t.Fatalf("Preview() = %d slides, want 3", len(slides))
	}
	for i, s := range slides {
		if !bytes.Contains(s, []byte("<svg")) {
			t.Errorf("slide %d is not SVG", i+1)
		}
		if !bytes.Contains(s, []byte("#363636")) {
			t.Errorf("slide %d missing dark background", i+1)
		}
	}

	if _, err := r.Preview(context.Background(), Input{}); !errors.Is(err, ErrRender) {
		t.Errorf("Preview(nil) error = %v, want ErrRender", err)
	}
}

func TestRender_Concurrent(t *testing.T) {
	t.Parallel()

	r := newTestRenderer(t)
	want, err := r.Render(context.Background(), Input{Outline: threeSlides()})
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			doc, err := r.Render(context.Background(), Input{Outline: threeSlides()})
			if err != nil {
				errs <- err
				return
			}
			if !bytes.Equal(doc.Data, want.Data) {
				errs <- errors.New("concurrent output differs")
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
