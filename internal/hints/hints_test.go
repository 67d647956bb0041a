package hints

// Notes:
// - ForListen tests cannot use t.Parallel() because they:
//   1. Use t.Setenv() which modifies process environment
//   2. Modify the package-level IsInContainer variable

import (
	"strings"
	"testing"
)

func TestForListen_LoopbackInContainer(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return true }

	t.Setenv("PORT", "")

	hint := ForListen("127.0.0.1:5001")

	if !strings.Contains(hint, "hint:") {
		t.Error("expected hint prefix")
	}
	if !strings.Contains(hint, "0.0.0.0") {
		t.Error("expected bind-all suggestion in container")
	}
	if !strings.Contains(hint, "PORT") {
		t.Error("expected PORT suggestion")
	}
}

func TestForListen_OutsideContainer(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("PORT", "")

	hint := ForListen("127.0.0.1:5001")

	if strings.Contains(hint, "0.0.0.0") {
		t.Error("should not suggest bind-all outside containers")
	}
}

func TestForListen_PortAlreadySet(t *testing.T) {
	orig := IsInContainer
	defer func() { IsInContainer = orig }()
	IsInContainer = func() bool { return false }

	t.Setenv("PORT", "8080")

	if hint := ForListen(":8080"); hint != "" {
		t.Errorf("ForListen() = %q, want empty", hint)
	}
}

func TestForConfigNotFound(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		paths    []string
		contains []string
		excludes []string
	}{
		{
			name:     "suggests user config path",
			paths:    []string{"team.yaml", "team.yml", "/home/u/.config/outline2deck/team.yaml"},
			contains: []string{"--config", "or create /home/u/.config/outline2deck/team.yaml"},
		},
		{
			name:     "no user path",
			paths:    []string{"team.yaml"},
			contains: []string{"--config"},
			excludes: []string{"or create"},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hint := ForConfigNotFound(tt.paths)
			for _, s := range tt.contains {
				if !strings.Contains(hint, s) {
					t.Errorf("hint %q missing %q", hint, s)
				}
			}
			for _, s := range tt.excludes {
				if strings.Contains(hint, s) {
					t.Errorf("hint %q should not contain %q", hint, s)
				}
			}
		})
	}
}

func TestListHints(t *testing.T) {
	t.Parallel()

	if got := ForTemplates(nil); got != "" {
		t.Errorf("ForTemplates(nil) = %q, want empty", got)
	}
	if got := ForTemplates([]string{"dark", "light"}); got != "\n  hint: available templates: dark, light" {
		t.Errorf("ForTemplates() = %q", got)
	}
	if got := ForFormats([]string{"pptx", "pdf"}); got != "\n  hint: supported formats: pptx, pdf" {
		t.Errorf("ForFormats() = %q", got)
	}
	if got := ForFormats(nil); got != "" {
		t.Errorf("ForFormats(nil) = %q, want empty", got)
	}
}

func TestStaticHints(t *testing.T) {
	t.Parallel()

	for name, hint := range map[string]string{
		"ForInvalidOutline":  ForInvalidOutline(),
		"ForOutputDirectory": ForOutputDirectory(),
	} {
		if !strings.HasPrefix(hint, "\n  hint: ") {
			t.Errorf("%s() = %q, want hint prefix", name, hint)
		}
	}
}

func TestFormatHints(t *testing.T) {
	t.Parallel()

	if got := formatHints(nil); got != "" {
		t.Errorf("formatHints(nil) = %q, want empty", got)
	}
	if got := formatHints([]string{"a", "b"}); got != "\n  hint: a; b" {
		t.Errorf("formatHints() = %q", got)
	}
	if got := format(""); got != "" {
		t.Errorf("format(\"\") = %q, want empty", got)
	}
}
