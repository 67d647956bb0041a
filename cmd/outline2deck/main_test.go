package main

// Notes:
// - runMain: we test dispatch and exit codes end to end against the real
//   renderer with temp files. Commands that block (serve) are covered in
//   serve_test.go.
// - hasVerboseFlag: we test pre-parse detection used for maxprocs logging.
// - Tests that read environment variables do not run in parallel.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-outline2deck/internal/inspect"
)

// ---------------------------------------------------------------------------
// Test Infrastructure
// ---------------------------------------------------------------------------

const sampleOutline = `{"slides":[{"title":"Intro","points":["One","Two"]},{"bullets":["Three"]}]}`

func testEnv() (*Environment, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Environment{
		Now:    func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) },
		Stdout: &stdout,
		Stderr: &stderr,
	}, &stdout, &stderr
}

// setupTestDir creates a temp directory with the given file structure.
// Files map paths to content. Returns the temp directory path.
func setupTestDir(t *testing.T, files map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	for path, content := range files {
		fullPath := filepath.Join(tempDir, path)
		if err := os.MkdirAll(filepath.Dir(fullPath), 0o750); err != nil {
			t.Fatalf("failed to create dir for %s: %v", path, err)
		}
		if err := os.WriteFile(fullPath, []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", path, err)
		}
	}

	return tempDir
}

func runArgs(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	env, stdout, stderr := testEnv()
	code := runMain(context.Background(), append([]string{"outline2deck"}, args...), env)
	return code, stdout.String(), stderr.String()
}

// ---------------------------------------------------------------------------
// TestRunMain - Dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain_NoCommand(t *testing.T) {
	code, _, stderr := runArgs(t)
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr, "Usage: outline2deck") {
		t.Errorf("stderr should contain usage, got %q", stderr)
	}
}

func TestRunMain_UnknownCommand(t *testing.T) {
	code, _, stderr := runArgs(t, "convert")
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr, "Unknown command: convert") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunMain_Version(t *testing.T) {
	code, stdout, _ := runArgs(t, "version")
	if code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	if stdout != "outline2deck dev\n" {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunMain_Help(t *testing.T) {
	code, stdout, _ := runArgs(t, "help", "export")
	if code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stdout, "outline2deck export <input>") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunMain_FlagHelpIsSuccess(t *testing.T) {
	code, _, stderr := runArgs(t, "export", "--help")
	if code != ExitSuccess {
		t.Errorf("exit = %d, want %d", code, ExitSuccess)
	}
	if !strings.Contains(stderr, "--template") {
		t.Errorf("usage should list flags, got %q", stderr)
	}
}

func TestRunMain_ExportSingleFile(t *testing.T) {
	dir := setupTestDir(t, map[string]string{"talk.json": sampleOutline})

	code, stdout, stderr := runArgs(t, "export", "-t", "dark", filepath.Join(dir, "talk.json"))
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr = %q", code, stderr)
	}
	out := filepath.Join(dir, "talk.pptx")
	if !strings.Contains(stdout, "Created "+out) {
		t.Errorf("stdout = %q", stdout)
	}

	p, err := inspect.ReadFile(out)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	if len(p.Slides) != 2 {
		t.Fatalf("slides = %d, want 2", len(p.Slides))
	}
	if got := p.Slides[1].ShapesWithPrefix("Title")[0].Text(); got != "Slide 2" {
		t.Errorf("second title = %q, want placeholder", got)
	}
}

func TestRunMain_ExitCodes(t *testing.T) {
	dir := setupTestDir(t, map[string]string{
		"empty.json":   `{"slides":[]}`,
		"broken.json":  `{"slides":`,
		"notes.txt":    "hello",
		"ok.json":      sampleOutline,
		"bad.yaml":     "deck:\n  format: gif\n",
		"unknown.yaml": "nope: 1\n",
	})

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"empty slides", []string{"export", filepath.Join(dir, "empty.json")}, ExitUsage},
		{"malformed json", []string{"export", filepath.Join(dir, "broken.json")}, ExitUsage},
		{"wrong extension", []string{"export", filepath.Join(dir, "notes.txt")}, ExitUsage},
		{"missing input", []string{"export", filepath.Join(dir, "missing.json")}, ExitIO},
		{"no input", []string{"export"}, ExitIO},
		{"bad format flag", []string{"export", "-f", "gif", filepath.Join(dir, "ok.json")}, ExitUsage},
		{"bad aspect flag", []string{"export", "--aspect", "1:1", filepath.Join(dir, "ok.json")}, ExitUsage},
		{"bad workers", []string{"export", "-w", "-1", filepath.Join(dir, "ok.json")}, ExitUsage},
		{"unknown flag", []string{"export", "--nope", filepath.Join(dir, "ok.json")}, ExitUsage},
		{"invalid config value", []string{"export", "-c", filepath.Join(dir, "bad.yaml"), filepath.Join(dir, "ok.json")}, ExitUsage},
		{"unknown config field", []string{"export", "-c", filepath.Join(dir, "unknown.yaml"), filepath.Join(dir, "ok.json")}, ExitUsage},
		{"missing config", []string{"export", "-c", filepath.Join(dir, "none.yaml"), filepath.Join(dir, "ok.json")}, ExitUsage},
		{"inspect non pptx", []string{"inspect", filepath.Join(dir, "ok.json")}, ExitUsage},
		{"inspect missing", []string{"inspect", filepath.Join(dir, "missing.pptx")}, ExitIO},
		{"normalize invalid", []string{"normalize", filepath.Join(dir, "empty.json")}, ExitUsage},
		{"templates with args", []string{"templates", "extra"}, ExitUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := runArgs(t, tt.args...)
			if code != tt.want {
				t.Errorf("exit = %d, want %d (stderr %q)", code, tt.want, stderr)
			}
			if code != ExitSuccess && !strings.Contains(stderr, "error:") {
				t.Errorf("stderr should report the error, got %q", stderr)
			}
		})
	}
}

func TestRunMain_InvalidOutlineHint(t *testing.T) {
	dir := setupTestDir(t, map[string]string{"empty.json": `{"slides":[]}`})

	_, _, stderr := runArgs(t, "export", filepath.Join(dir, "empty.json"))
	if !strings.Contains(stderr, "hint:") {
		t.Errorf("stderr should carry a hint, got %q", stderr)
	}
}

func TestRunMain_WarnsUnknownEnv(t *testing.T) {
	t.Setenv("OUTLINE2DECK_TEMPLAT", "dark")

	_, _, stderr := runArgs(t, "version")
	if !strings.Contains(stderr, "OUTLINE2DECK_TEMPLAT") {
		t.Errorf("stderr should warn about typo, got %q", stderr)
	}
}

// ---------------------------------------------------------------------------
// TestHasVerboseFlag - Pre-parse verbose detection
// ---------------------------------------------------------------------------

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"export", "-v", "a.json"}, true},
		{[]string{"export", "--verbose"}, true},
		{[]string{"export", "a.json"}, false},
		{[]string{"export", "--", "-v"}, false},
		{nil, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			if got := hasVerboseFlag(tt.args); got != tt.want {
				t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
			}
		})
	}
}
