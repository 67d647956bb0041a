package server

import (
	"net/http"
	"strings"
)

// MaskHeaders returns a flat copy of headers with credentials masked,
// keeping the last four characters so values can still be correlated.
func MaskHeaders(headers http.Header) map[string]string {
	masked := make(map[string]string, len(headers))
	for key, values := range headers {
		joined := strings.Join(values, ",")
		switch strings.ToLower(key) {
		case "authorization", "proxy-authorization":
			masked[key] = maskAuthorization(joined)
		case "cookie":
			masked[key] = maskCookie(joined)
		case "x-api-key":
			masked[key] = maskLast4(joined)
		default:
			masked[key] = joined
		}
	}
	return masked
}

// maskAuthorization preserves the scheme.
func maskAuthorization(value string) string {
	parts := strings.Fields(value)
	if len(parts) == 2 {
		return parts[0] + " " + maskLast4(parts[1])
	}
	return maskLast4(value)
}

// maskCookie preserves cookie names.
func maskCookie(value string) string {
	parts := strings.Split(value, ";")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		if idx := strings.Index(segment, "="); idx >= 0 {
			segment = strings.TrimSpace(segment[:idx]) + "=" + maskLast4(segment[idx+1:])
		} else {
			segment = maskLast4(segment)
		}
		out = append(out, segment)
	}
	return strings.Join(out, "; ")
}

func maskLast4(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "****"
	}
	return "****" + value[len(value)-4:]
}
