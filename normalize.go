package outline2deck

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alnah/go-outline2deck/internal/mdoutline"
	"github.com/alnah/go-outline2deck/internal/yamlutil"
)

// Field names accepted in raw slide objects.
const (
	fieldSlides       = "slides"
	fieldTitle        = "title"
	fieldPoints       = "points"
	fieldBullets      = "bullets"
	fieldSpeakerNotes = "speakerNotes"
	fieldNotes        = "notes"
)

// Normalize decodes raw JSON and returns the canonical outline.
// A surrounding Markdown code fence (```json ... ```) is stripped first,
// since language models often wrap their JSON answers in one.
func Normalize(data []byte) (*Outline, error) {
	data = stripCodeFence(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidOutline)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed JSON: %v", ErrInvalidOutline, err)
	}
	return NormalizeValue(raw)
}

// NormalizeYAML decodes raw YAML and returns the canonical outline.
func NormalizeYAML(data []byte) (*Outline, error) {
	var raw any
	if err := yamlutil.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: malformed YAML: %w", ErrInvalidOutline, err)
	}
	return NormalizeValue(raw)
}

// NormalizeMarkdown builds an outline from Markdown: level 1 and 2 headings
// start slides, list items become bullets, blockquotes become speaker notes.
func NormalizeMarkdown(data []byte) (*Outline, error) {
	sections := mdoutline.Parse(data)
	slides := make([]any, len(sections))
	for i, s := range sections {
		obj := map[string]any{
			fieldBullets:      stringsToAny(s.Bullets),
			fieldSpeakerNotes: s.Notes,
		}
		if s.Title != "" {
			obj[fieldTitle] = s.Title
		}
		slides[i] = obj
	}
	return NormalizeValue(map[string]any{fieldSlides: slides})
}

// NormalizeValue applies the normalization rules to an already decoded value
// (the result of decoding JSON or YAML into an empty interface).
//
// The top level must be an object with a non-empty "slides" array. Each entry
// yields exactly one slide, in order: a missing or non-string title becomes
// "Slide N", "points" is preferred over "bullets", non-string bullet entries
// are dropped, and a lone string becomes a single bullet.
func NormalizeValue(v any) (*Outline, error) {
	root, ok := asObject(v)
	if !ok {
		return nil, fmt.Errorf("%w: top level must be an object", ErrInvalidOutline)
	}
	rawSlides, present := root[fieldSlides]
	if !present || rawSlides == nil {
		return nil, fmt.Errorf("%w: missing %q", ErrInvalidOutline, fieldSlides)
	}
	entries, ok := rawSlides.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: %q must be an array", ErrInvalidOutline, fieldSlides)
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: %q is empty", ErrInvalidOutline, fieldSlides)
	}

	out := &Outline{Slides: make([]Slide, len(entries))}
	for i, entry := range entries {
		out.Slides[i] = normalizeSlide(i, entry)
	}
	return out, nil
}

// normalizeSlide never fails: every raw entry maps to one slide.
func normalizeSlide(index int, entry any) Slide {
	s := Slide{Title: placeholderTitle(index), Bullets: []string{}}
	obj, ok := asObject(entry)
	if !ok {
		return s
	}

	if title, ok := obj[fieldTitle].(string); ok && strings.TrimSpace(title) != "" {
		s.Title = strings.TrimSpace(title)
	}

	list := obj[fieldPoints]
	if list == nil {
		list = obj[fieldBullets]
	}
	s.Bullets = normalizeBullets(list)

	if notes, ok := obj[fieldSpeakerNotes].(string); ok {
		s.SpeakerNotes = notes
	} else if notes, ok := obj[fieldNotes].(string); ok {
		s.SpeakerNotes = notes
	}
	return s
}

func normalizeBullets(v any) []string {
	switch list := v.(type) {
	case string:
		return []string{list}
	case []any:
		bullets := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				bullets = append(bullets, s)
			}
		}
		return bullets
	case []string:
		return append([]string{}, list...)
	default:
		return []string{}
	}
}

func placeholderTitle(index int) string {
	return "Slide " + strconv.Itoa(index+1)
}

// asObject accepts both JSON-style and YAML-style maps.
func asObject(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			if ks, ok := k.(string); ok {
				out[ks] = val
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func stringsToAny(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

// stripCodeFence removes one surrounding ``` fence, with or without a
// language tag, and trims whitespace.
func stripCodeFence(data []byte) []byte {
	data = bytes.TrimSpace(data)
	if !bytes.HasPrefix(data, []byte("```")) {
		return data
	}
	if nl := bytes.IndexByte(data, '\n'); nl >= 0 {
		data = data[nl+1:]
	} else {
		data = data[3:]
	}
	data = bytes.TrimSpace(data)
	data = bytes.TrimSuffix(data, []byte("```"))
	return bytes.TrimSpace(data)
}

// MarshalCanonical returns the canonical JSON form of o.
// Normalizing the result yields an equal outline.
func MarshalCanonical(o *Outline) ([]byte, error) {
	if o == nil {
		return nil, fmt.Errorf("%w: nil outline", ErrInvalidOutline)
	}
	return json.MarshalIndent(o, "", "  ")
}
