package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"go.uber.org/zap"

	"github.com/alnah/go-outline2deck"
)

// errorResponse is the JSON body of every failed request.
type errorResponse struct {
	Kind    outline2deck.Kind `json:"kind"`
	Error   string            `json:"error"`
	Details string            `json:"details,omitempty"`
}

// Client-facing messages per kind.
var messages = map[outline2deck.Kind]string{
	outline2deck.KindInvalidOutline: "Invalid slides data provided.",
	outline2deck.KindInvalidRequest: "Invalid request.",
	outline2deck.KindRender:         "Failed to generate presentation.",
	outline2deck.KindInternal:       "Internal error.",
}

// statusFor maps an error kind to an HTTP status.
func statusFor(kind outline2deck.Kind) int {
	switch kind {
	case outline2deck.KindInvalidOutline, outline2deck.KindInvalidRequest:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// writeError classifies err and writes it as JSON. Internal errors are
// logged with details and returned without them.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	kind := outline2deck.KindOf(err)
	status := statusFor(kind)
	if errors.Is(err, errBodyTooLarge) {
		status = http.StatusRequestEntityTooLarge
	}
	if errors.Is(err, errUnsupportedMedia) {
		status = http.StatusUnsupportedMediaType
	}

	resp := errorResponse{Kind: kind, Error: messages[kind], Details: err.Error()}
	if kind == outline2deck.KindInternal {
		resp.Details = ""
	}
	if errors.Is(err, context.DeadlineExceeded) {
		status = http.StatusGatewayTimeout
		resp.Error = "Request timed out."
	}
	if status >= 500 {
		s.log.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("kind", string(kind)),
			zap.Error(err),
		)
	}
	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
