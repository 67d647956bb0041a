package assets

import (
	"fmt"
	"strings"
)

// ValidateAssetName checks that an asset name is safe for use as a filename.
// Returns ErrInvalidAssetName if the name is empty or contains path separators,
// dots (which could allow extension manipulation), or traversal characters.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\. \t\n") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}

// NormalizeColor upper-cases a hex colour and strips a leading '#'.
// Returns an error unless the result is exactly six hex digits.
func NormalizeColor(s string) (string, error) {
	c := strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(s), "#"))
	if len(c) != 6 {
		return "", fmt.Errorf("%w: colour %q must have 6 hex digits", ErrInvalidTemplate, s)
	}
	for _, r := range c {
		if !strings.ContainsRune("0123456789ABCDEF", r) {
			return "", fmt.Errorf("%w: colour %q is not hex", ErrInvalidTemplate, s)
		}
	}
	return c, nil
}
