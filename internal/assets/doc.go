// Package assets provides the deck template records (colours, font sizes)
// used by the renderer.
//
// # Loader Architecture
//
//	TemplateLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - built-in templates compiled into the binary
//	    ├── FilesystemLoader  - templates from a custom directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// AssetResolver tries the custom FilesystemLoader first and falls back to
// EmbeddedLoader when a template is not found, so a custom directory can
// override one built-in template and add new ones without copying the rest.
//
// # Directory Structure
//
//	{basePath}/
//	└── templates/
//	    └── {name}.yaml
//
// # Security
//
// Template names are validated to prevent path traversal.
// FilesystemLoader resolves symlinks and verifies paths stay within basePath.
package assets
