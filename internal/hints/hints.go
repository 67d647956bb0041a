// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"os"
	"strings"

	"github.com/alnah/go-outline2deck/internal/fileutil"
)

// IsInContainer detects if running inside a Docker container or similar.
// Checks for /.dockerenv file which Docker creates automatically.
var IsInContainer = func() bool {
	return fileutil.FileExists("/.dockerenv")
}

// ForInvalidOutline returns the expected outline shape.
func ForInvalidOutline() string {
	return format(`expected {"slides":[{"title":"...","bullets":["..."]}]} with at least one slide`)
}

// ForListen returns hints for a server that cannot bind its address.
// In containers the server must bind all interfaces to be reachable.
func ForListen(addr string) string {
	var hints []string
	if strings.HasPrefix(addr, "127.0.0.1") || strings.HasPrefix(addr, "localhost") {
		if IsInContainer() {
			hints = append(hints, "bind 0.0.0.0 inside containers")
		}
	}
	if os.Getenv("PORT") == "" {
		hints = append(hints, "use --addr or set PORT to pick another port")
	}
	return formatHints(hints)
}

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config flag and creating a config in ~/.config/outline2deck/.
func ForConfigNotFound(searchedPaths []string) string {
	hint := "use --config /path/to/file.yaml"

	// Find a user config path (contains .config/outline2deck) to suggest
	for _, p := range searchedPaths {
		if strings.Contains(p, ".config/outline2deck") {
			hint += " or create " + p
			break
		}
	}

	return format(hint)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTemplates returns the available template ids.
func ForTemplates(available []string) string {
	if len(available) == 0 {
		return ""
	}
	return format("available templates: " + strings.Join(available, ", "))
}

// ForFormats returns the supported output formats.
func ForFormats(formats []string) string {
	if len(formats) == 0 {
		return ""
	}
	return format("supported formats: " + strings.Join(formats, ", "))
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
