package assets

import (
	"errors"
	"reflect"
	"testing"
)

func TestEmbeddedLoader_LoadTemplate(t *testing.T) {
	t.Parallel()

	loader := NewEmbeddedLoader()

	tests := []struct {
		name       string
		template   string
		wantErr    error
		background string
		titleColor string
	}{
		{name: "light", template: "light", background: "FFFFFF", titleColor: "363636"},
		{name: "dark", template: "dark", background: "363636", titleColor: "FFFFFF"},
		{name: "nonexistent", template: "neon", wantErr: ErrTemplateNotFound},
		{name: "empty name", template: "", wantErr: ErrInvalidAssetName},
		{name: "path traversal", template: "../secret", wantErr: ErrInvalidAssetName},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tpl, err := loader.LoadTemplate(tt.template)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("LoadTemplate(%q) error = %v, want %v", tt.template, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadTemplate(%q) unexpected error: %v", tt.template, err)
			}
			if tpl.Background != tt.background {
				t.Errorf("Background = %q, want %q", tpl.Background, tt.background)
			}
			if tpl.Title.Color != tt.titleColor {
				t.Errorf("Title.Color = %q, want %q", tpl.Title.Color, tt.titleColor)
			}
			if tpl.Accent != "00A6E2" {
				t.Errorf("Accent = %q, want %q", tpl.Accent, "00A6E2")
			}
			if tpl.Title.Size != 32 || tpl.Body.Size != 18 || tpl.Footer.Size != 10 {
				t.Errorf("sizes = %g/%g/%g, want 32/18/10", tpl.Title.Size, tpl.Body.Size, tpl.Footer.Size)
			}
		})
	}
}

func TestEmbeddedLoader_ListTemplates(t *testing.T) {
	t.Parallel()

	names, err := NewEmbeddedLoader().ListTemplates()
	if err != nil {
		t.Fatalf("ListTemplates() error = %v", err)
	}
	want := []string{"dark", "light"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("ListTemplates() = %v, want %v", names, want)
	}
}
