package assets

// TemplateLoader defines the contract for loading deck templates.
type TemplateLoader interface {
	// LoadTemplate loads and validates a template by name (without extension).
	// Returns ErrTemplateNotFound if the template doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	// Returns ErrInvalidTemplate if the record is malformed.
	LoadTemplate(name string) (*Template, error)

	// ListTemplates returns the available template names, sorted.
	ListTemplates() ([]string, error)
}
