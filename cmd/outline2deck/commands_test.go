package main

// Notes:
// - normalize, inspect, templates: we test their stdout through runMain
//   with real files.
// - serve: we replace the listener factory to learn the bound address,
//   hit /health, then cancel the context and expect a clean shutdown.
// - help: we test every command's usage and the unknown-command path.
// These are acceptable gaps: we test observable behavior, not implementation details.

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	outline2deck "github.com/alnah/go-outline2deck"
	"github.com/alnah/go-outline2deck/internal/yamlutil"
)

// ---------------------------------------------------------------------------
// TestRunNormalize - Canonical output
// ---------------------------------------------------------------------------

func TestRunNormalize(t *testing.T) {
	dir := setupTestDir(t, map[string]string{
		"a.json":   "```json\n" + sampleOutline + "\n```",
		"b.yaml":   "slides:\n  - title: Intro\n    points: [One, Two]\n  - bullets: [Three]\n",
		"c.txt":    sampleOutline,
		"multi.md": "# Intro\n\n- One\n- Two\n\n## Next\n\n- Three\n",
	})

	var jsonOut string
	for _, name := range []string{"a.json", "b.yaml"} {
		code, stdout, stderr := runArgs(t, "normalize", filepath.Join(dir, name))
		if code != ExitSuccess {
			t.Fatalf("%s: exit = %d, stderr %q", name, code, stderr)
		}
		var o outline2deck.Outline
		if err := json.Unmarshal([]byte(stdout), &o); err != nil {
			t.Fatalf("%s: output is not JSON: %v", name, err)
		}
		if len(o.Slides) != 2 || o.Slides[1].Title != "Slide 2" {
			t.Errorf("%s: outline = %+v", name, o)
		}
		if jsonOut == "" {
			jsonOut = stdout
		} else if stdout != jsonOut {
			t.Errorf("JSON and YAML sources should normalize identically:\n%s\n%s", jsonOut, stdout)
		}
	}

	code, stdout, _ := runArgs(t, "normalize", filepath.Join(dir, "multi.md"))
	if code != ExitSuccess || !strings.Contains(stdout, `"Next"`) {
		t.Errorf("markdown: exit %d, stdout %q", code, stdout)
	}

	if code, _, _ := runArgs(t, "normalize", filepath.Join(dir, "c.txt")); code != ExitUsage {
		t.Errorf("unsupported extension exit = %d, want %d", code, ExitUsage)
	}
	if code, _, _ := runArgs(t, "normalize"); code != ExitIO {
		t.Errorf("missing input exit = %d, want %d", code, ExitIO)
	}
}

func TestRunNormalize_YAML(t *testing.T) {
	dir := setupTestDir(t, map[string]string{"a.json": sampleOutline})
	path := filepath.Join(dir, "a.json")

	code, jsonOut, _ := runArgs(t, "normalize", path)
	if code != ExitSuccess {
		t.Fatalf("json exit = %d", code)
	}
	code, yamlOut, stderr := runArgs(t, "normalize", "--yaml", path)
	if code != ExitSuccess {
		t.Fatalf("yaml exit = %d, stderr %q", code, stderr)
	}
	if !strings.Contains(yamlOut, "title: Intro") {
		t.Errorf("YAML output missing title line:\n%s", yamlOut)
	}

	var fromJSON, fromYAML outline2deck.Outline
	if err := json.Unmarshal([]byte(jsonOut), &fromJSON); err != nil {
		t.Fatal(err)
	}
	if err := yamlutil.Unmarshal([]byte(yamlOut), &fromYAML); err != nil {
		t.Fatalf("YAML output does not parse: %v", err)
	}
	if !reflect.DeepEqual(fromJSON, fromYAML) {
		t.Errorf("YAML outline = %+v, want %+v", fromYAML, fromJSON)
	}
}

// ---------------------------------------------------------------------------
// TestRunInspect - Reading decks back
// ---------------------------------------------------------------------------

func TestRunInspect(t *testing.T) {
	dir := setupTestDir(t, map[string]string{"talk.json": sampleOutline})
	if code, _, stderr := runArgs(t, "export", "-q", "-t", "dark", filepath.Join(dir, "talk.json")); code != ExitSuccess {
		t.Fatalf("export failed: %s", stderr)
	}
	deck := filepath.Join(dir, "talk.pptx")

	code, stdout, _ := runArgs(t, "inspect", deck)
	if code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	for _, want := range []string{"Slide 1: Intro", "  - One", "  - Two", "Slide 2: Slide 2", "  - Three", "2 slide(s)"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "Background") {
		t.Error("colours should only appear with -v")
	}

	_, verbose, _ := runArgs(t, "inspect", "-v", deck)
	for _, want := range []string{"Background: #363636", "title colour: #FFFFFF"} {
		if !strings.Contains(verbose, want) {
			t.Errorf("verbose stdout missing %q:\n%s", want, verbose)
		}
	}
}

func TestRunInspect_SpeakerNotes(t *testing.T) {
	dir := setupTestDir(t, map[string]string{"talk.md": "# Intro\n\n- One\n\n> Welcome everyone\n"})
	if code, _, stderr := runArgs(t, "export", "-q", filepath.Join(dir, "talk.md")); code != ExitSuccess {
		t.Fatalf("export failed: %s", stderr)
	}

	code, stdout, _ := runArgs(t, "inspect", filepath.Join(dir, "talk.pptx"))
	if code != ExitSuccess {
		t.Fatalf("exit = %d", code)
	}
	if !strings.Contains(stdout, "  > Welcome everyone") {
		t.Errorf("stdout missing speaker notes:\n%s", stdout)
	}
}

// ---------------------------------------------------------------------------
// TestRunTemplates - Template listing
// ---------------------------------------------------------------------------

func TestRunTemplates(t *testing.T) {
	code, stdout, stderr := runArgs(t, "templates")
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stdout, "* light") {
		t.Errorf("default template should be marked:\n%s", stdout)
	}
	if !strings.Contains(stdout, "  dark") {
		t.Errorf("dark template missing:\n%s", stdout)
	}

	_, quiet, _ := runArgs(t, "templates", "-q")
	if quiet != "dark\nlight\n" {
		t.Errorf("quiet output = %q, want ids only", quiet)
	}

	_, verbose, _ := runArgs(t, "templates", "-v")
	if !strings.Contains(verbose, "bg #363636") {
		t.Errorf("verbose output should list colours:\n%s", verbose)
	}
}

func TestRunTemplates_CustomAssetPath(t *testing.T) {
	dir := setupTestDir(t, map[string]string{
		"templates/ocean.yaml": `name: ocean
description: Deep blue
background: "#003366"
accent: "#66CCFF"
title: {size: 40, color: "#FFFFFF", bold: true}
body: {size: 24, color: "#DDEEFF"}
footer: {size: 12, color: "#99BBDD"}
`,
	})
	t.Setenv("OUTLINE2DECK_ASSET_PATH", dir)
	t.Setenv("OUTLINE2DECK_DEFAULT_TEMPLATE", "ocean")

	code, stdout, stderr := runArgs(t, "templates")
	if code != ExitSuccess {
		t.Fatalf("exit = %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stdout, "* ocean") || !strings.Contains(stdout, "Deep blue") {
		t.Errorf("custom default template missing:\n%s", stdout)
	}
}

func TestRunTemplates_MissingDefault(t *testing.T) {
	t.Setenv("OUTLINE2DECK_DEFAULT_TEMPLATE", "nope")

	code, _, stderr := runArgs(t, "templates")
	if code != ExitUsage {
		t.Errorf("exit = %d, want %d", code, ExitUsage)
	}
	if !strings.Contains(stderr, "available templates: dark, light") {
		t.Errorf("stderr should list templates, got %q", stderr)
	}
}

// ---------------------------------------------------------------------------
// TestRunServe - HTTP boundary lifecycle
// ---------------------------------------------------------------------------

func TestRunServe(t *testing.T) {
	bound := make(chan net.Addr, 1)
	orig := listen
	listen = func(network, addr string) (net.Listener, error) {
		ln, err := orig(network, addr)
		if err == nil {
			bound <- ln.Addr()
		}
		return ln, err
	}
	t.Cleanup(func() { listen = orig })
	t.Setenv("OUTLINE2DECK_LOG_LEVEL", "error")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	env, _, _ := testEnv()
	env.Stderr = io.Discard
	done := make(chan error, 1)
	go func() { done <- runServe(ctx, []string{"--addr", "127.0.0.1:0"}, env) }()

	var addr net.Addr
	select {
	case addr = <-bound:
	case err := <-done:
		t.Fatalf("serve exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not start")
	}

	resp, err := http.Get("http://" + addr.String() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serve returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunServe_ListenError(t *testing.T) {
	orig := listen
	listen = func(string, string) (net.Listener, error) {
		return nil, errors.New("address already in use")
	}
	t.Cleanup(func() { listen = orig })

	env, _, _ := testEnv()
	err := runServe(context.Background(), []string{"--addr", "127.0.0.1:5001"}, env)
	if !errors.Is(err, ErrListen) {
		t.Fatalf("error = %v, want ErrListen", err)
	}
	if exitCodeFor(err) != ExitIO {
		t.Errorf("exit = %d, want %d", exitCodeFor(err), ExitIO)
	}
}

func TestRunServe_RejectsArguments(t *testing.T) {
	env, _, _ := testEnv()
	err := runServe(context.Background(), []string{"extra"}, env)
	if !errors.Is(err, ErrUsage) {
		t.Errorf("error = %v, want ErrUsage", err)
	}
}

// ---------------------------------------------------------------------------
// TestRunHelp - Command usage
// ---------------------------------------------------------------------------

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{nil, "Commands:"},
		{[]string{"export"}, "--workers"},
		{[]string{"normalize"}, "canonical JSON"},
		{[]string{"inspect"}, "file.pptx"},
		{[]string{"templates"}, "marked with '*'"},
		{[]string{"serve"}, "POST /api/export/final"},
		{[]string{"version"}, "outline2deck version"},
		{[]string{"help"}, "help [command]"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			t.Parallel()
			env, stdout, _ := testEnv()
			runHelp(tt.args, env)
			if !strings.Contains(stdout.String(), tt.want) {
				t.Errorf("help %v missing %q:\n%s", tt.args, tt.want, stdout.String())
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		env, stdout, stderr := testEnv()
		runHelp([]string{"nope"}, env)
		if stdout.Len() != 0 || !strings.Contains(stderr.String(), "Unknown command: nope") {
			t.Errorf("stdout %q, stderr %q", stdout.String(), stderr.String())
		}
	})
}
