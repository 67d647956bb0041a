package outline2deck

import "errors"

// Sentinel errors for library operations.
var (
	// ErrInvalidOutline is returned when raw input cannot be normalized
	// into an outline with at least one slide.
	ErrInvalidOutline = errors.New("invalid slides data provided")

	// ErrRender is returned when a canonical outline cannot be turned into
	// a document. No partial document accompanies it.
	ErrRender = errors.New("failed to generate presentation")

	// Request validation errors.
	ErrInvalidRequest    = errors.New("invalid request")
	ErrUnsupportedFormat = errors.New("unsupported output format")
	ErrInvalidAspect     = errors.New("invalid aspect ratio")
	ErrInvalidFooter     = errors.New("invalid footer label")

	// Template loading errors (construction time).
	ErrTemplateNotFound = errors.New("template not found")
	ErrInvalidTemplate  = errors.New("invalid template")
	ErrInvalidAssetPath = errors.New("invalid asset path")
)

// Kind classifies an error for boundary layers (HTTP status, exit code).
type Kind string

// Error kinds.
const (
	KindInvalidOutline Kind = "invalid_outline"
	KindInvalidRequest Kind = "invalid_request"
	KindRender         Kind = "render_error"
	KindInternal       Kind = "internal_error"
)

// KindOf returns the kind of err. Unknown errors are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidOutline):
		return KindInvalidOutline
	case errors.Is(err, ErrInvalidRequest), errors.Is(err, ErrUnsupportedFormat), errors.Is(err, ErrInvalidAspect),
		errors.Is(err, ErrInvalidFooter):
		return KindInvalidRequest
	case errors.Is(err, ErrRender):
		return KindRender
	default:
		return KindInternal
	}
}
