package main

import (
	"fmt"
	"text/tabwriter"
)

// runTemplates lists the available template ids, marking the default.
func runTemplates(args []string, env *Environment) error {
	flags, positional, err := parseSimpleFlags("templates", printTemplatesUsage, args, env.Stderr)
	if err != nil {
		return err
	}
	if len(positional) > 0 {
		return fmt.Errorf("%w: templates takes no arguments", ErrUsage)
	}

	cfg, err := loadConfig(flags.config)
	if err != nil {
		return err
	}
	renderer, err := newRenderer(cfg, env)
	if err != nil {
		return err
	}

	if flags.quiet {
		for _, id := range renderer.Templates() {
			fmt.Fprintln(env.Stdout, id)
		}
		return nil
	}

	tw := tabwriter.NewWriter(env.Stdout, 0, 4, 2, ' ', 0)
	for _, id := range renderer.Templates() {
		t := renderer.Template(id)
		marker := " "
		if id == renderer.DefaultTemplateID() {
			marker = "*"
		}
		line := fmt.Sprintf("%s %s\t%s", marker, id, t.Description)
		if flags.verbose {
			line += fmt.Sprintf("\tbg #%s, accent #%s, %s", t.Background, t.Accent, t.Font)
		}
		fmt.Fprintln(tw, line)
	}
	return tw.Flush()
}
