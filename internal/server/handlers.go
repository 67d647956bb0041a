package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/alnah/go-outline2deck"
	"github.com/alnah/go-outline2deck/internal/yamlutil"
)

var (
	errBodyTooLarge     = fmt.Errorf("%w: request body too large", outline2deck.ErrInvalidRequest)
	errUnsupportedMedia = fmt.Errorf("%w: unsupported content type", outline2deck.ErrInvalidRequest)
)

// exportOptions are the request fields beside the outline itself.
type exportOptions struct {
	TemplateID string `json:"templateId"`
	Format     string `json:"format"`
	Title      string `json:"title"`
}

type templateInfo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Default     bool   `json:"default"`
}

type previewResponse struct {
	Title      string   `json:"title"`
	SlideCount int      `json:"slideCount"`
	Slides     []string `json:"slides"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": s.cfg.Version})
}

func (s *Server) handleTemplates(w http.ResponseWriter, _ *http.Request) {
	def := s.renderer.DefaultTemplateID()
	ids := s.renderer.Templates()
	out := make([]templateInfo, len(ids))
	for i, id := range ids {
		out[i] = templateInfo{ID: id, Description: s.renderer.Template(id).Description, Default: id == def}
	}
	writeJSON(w, http.StatusOK, map[string]any{"templates": out})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	input, err := s.decodeInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	doc, err := s.renderer.Render(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	disposition := mime.FormatMediaType("attachment", map[string]string{"filename": doc.Filename})
	h := w.Header()
	h.Set("Content-Type", doc.ContentType)
	h.Set("Content-Disposition", disposition)
	h.Set("X-FileName", doc.Filename)
	h.Set("Content-Length", strconv.Itoa(len(doc.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(doc.Data)
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	input, err := s.decodeInput(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	slides, err := s.renderer.Preview(r.Context(), input)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	resp := previewResponse{
		Title:      input.Title,
		SlideCount: len(input.Outline.Slides),
		Slides:     make([]string, len(slides)),
	}
	if resp.Title == "" {
		resp.Title = input.Outline.Slides[0].Title
	}
	for i, svg := range slides {
		resp.Slides[i] = string(svg)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	body, err := s.readBody(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	normalize, err := normalizerFor(r.Header.Get("Content-Type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	outline, err := normalize(body)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, outline)
}

// decodeInput reads an export or preview body: the outline object with
// optional templateId, format and title fields.
func (s *Server) decodeInput(w http.ResponseWriter, r *http.Request) (outline2deck.Input, error) {
	body, err := s.readBody(w, r)
	if err != nil {
		return outline2deck.Input{}, err
	}
	outline, err := outline2deck.Normalize(body)
	if err != nil {
		return outline2deck.Input{}, err
	}

	var opts exportOptions
	if err := json.Unmarshal(body, &opts); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return outline2deck.Input{}, fmt.Errorf("%w: %s must be a string", outline2deck.ErrInvalidRequest, typeErr.Field)
		}
		// A fenced body normalizes but does not decode here; it has no options.
		opts = exportOptions{}
	}
	format, err := outline2deck.ParseFormat(opts.Format)
	if err != nil {
		return outline2deck.Input{}, err
	}
	return outline2deck.Input{
		Outline:  outline,
		Template: opts.TemplateID,
		Format:   format,
		Title:    strings.TrimSpace(opts.Title),
	}, nil
}

// readBody reads the request body up to the configured limit.
func (s *Server) readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("%w (max %d bytes)", errBodyTooLarge, tooLarge.Limit)
		}
		return nil, fmt.Errorf("%w: reading body: %v", outline2deck.ErrInvalidRequest, err)
	}
	return body, nil
}

// normalizerFor picks the outline source from a Content-Type header.
func normalizerFor(contentType string) (func([]byte) (*outline2deck.Outline, error), error) {
	if contentType == "" {
		return outline2deck.Normalize, nil
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", errUnsupportedMedia, contentType)
	}
	switch mediaType {
	case "application/json", "text/json", "text/plain":
		return outline2deck.Normalize, nil
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return normalizeYAML, nil
	case "text/markdown", "text/x-markdown":
		return outline2deck.NormalizeMarkdown, nil
	default:
		return nil, fmt.Errorf("%w: %q", errUnsupportedMedia, mediaType)
	}
}

// normalizeYAML reports the YAML parser's own size limit as an oversized
// body rather than a malformed outline.
func normalizeYAML(body []byte) (*outline2deck.Outline, error) {
	outline, err := outline2deck.NormalizeYAML(body)
	if errors.Is(err, yamlutil.ErrInputTooLarge) {
		return nil, fmt.Errorf("%w (max %d bytes)", errBodyTooLarge, yamlutil.MaxInputSize)
	}
	return outline, err
}
