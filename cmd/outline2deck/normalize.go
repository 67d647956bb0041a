package main

import (
	"fmt"

	outline2deck "github.com/alnah/go-outline2deck"
	"github.com/alnah/go-outline2deck/internal/yamlutil"
)

// runNormalize prints the canonical outline for one file, as JSON or YAML.
func runNormalize(args []string, env *Environment) error {
	flags, positional, err := parseNormalizeFlags(args, env.Stderr)
	if err != nil {
		return err
	}
	input, err := resolveInputPath(positional)
	if err != nil {
		return err
	}
	if err := validateOutlineExtension(input); err != nil {
		return err
	}

	outline, err := readOutline(input)
	if err != nil {
		return err
	}

	var data []byte
	if flags.yaml {
		data, err = yamlutil.Marshal(outline)
	} else {
		data, err = outline2deck.MarshalCanonical(outline)
	}
	if err != nil {
		return err
	}
	fmt.Fprintln(env.Stdout, string(data))
	return nil
}
