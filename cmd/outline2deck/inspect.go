package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-outline2deck/internal/inspect"
)

// runInspect prints the slide titles and bullets of a .pptx file.
func runInspect(args []string, env *Environment) error {
	flags, positional, err := parseSimpleFlags("inspect", printInspectUsage, args, env.Stderr)
	if err != nil {
		return err
	}
	input, err := resolveInputPath(positional)
	if err != nil {
		return err
	}

	p, err := inspect.ReadFile(input)
	if err != nil {
		return fmt.Errorf("inspecting %s: %w", input, err)
	}
	printPresentation(env.Stdout, p, flags.verbose)
	return nil
}

// printPresentation writes one block per slide. Verbose output adds colours.
func printPresentation(w io.Writer, p *inspect.Presentation, verbose bool) {
	if verbose && p.Background != "" {
		fmt.Fprintf(w, "Background: #%s\n\n", p.Background)
	}
	for i, s := range p.Slides {
		if i > 0 {
			fmt.Fprintln(w)
		}
		title, color := "(untitled)", ""
		if shapes := s.ShapesWithPrefix("Title"); len(shapes) > 0 {
			title, color = shapes[0].Text(), shapes[0].Color
		}
		fmt.Fprintf(w, "Slide %d: %s\n", s.Number, title)
		if verbose && color != "" {
			fmt.Fprintf(w, "  title colour: #%s\n", color)
		}
		for _, body := range s.ShapesWithPrefix("Content") {
			for _, para := range body.Paragraphs {
				fmt.Fprintf(w, "  - %s\n", para)
			}
		}
		if s.Notes != "" {
			for _, line := range strings.Split(s.Notes, "\n") {
				fmt.Fprintf(w, "  > %s\n", line)
			}
		}
	}
	if len(p.Slides) > 0 {
		fmt.Fprintf(w, "\n%d slide(s)\n", len(p.Slides))
	}
}
