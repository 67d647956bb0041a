// Package outline2deck turns loosely shaped slide outlines into
// presentation files.
//
// # Quick Start
//
// Create a renderer once and share it:
//
//	r, err := outline2deck.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	doc, err := r.Export(ctx, rawJSON, "dark", outline2deck.FormatPPTX)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile(doc.Filename, doc.Data, 0644)
//
// # Pipeline
//
//  1. Normalization: raw JSON (optionally wrapped in a ``` fence), YAML or
//     Markdown becomes a canonical Outline. Titles fall back to "Slide N",
//     "points" wins over "bullets", non-string bullets are dropped.
//  2. Template resolution: unknown template ids resolve to the default.
//  3. Layout: every slide gets one title region and one bulleted body
//     region; background, accent line and footer are applied once per deck.
//  4. Encoding: .pptx (Office Open XML), PDF, deck markup or canonical JSON.
//
// # Configuration
//
// Deck-level settings are renderer options:
//
//	r, err := outline2deck.NewRenderer(
//	    outline2deck.WithAspect(outline2deck.Aspect4x3),
//	    outline2deck.WithFooter("Acme Corp - {date:long}"),
//	    outline2deck.WithAssetPath("/path/to/assets"),
//	)
//
// Custom templates live in {assetPath}/templates/{name}.yaml and override
// built-in templates with the same name:
//
//	name: ocean
//	description: Deep blue
//	background: "003366"
//	accent: "FFCC00"
//	font: Georgia
//	title:  {size: 36, color: "FFFFFF", bold: true}
//	body:   {size: 20, color: "DDEEFF"}
//	footer: {size: 9, color: "AABBCC"}
//
// # Errors
//
// Errors wrap sentinel values; use errors.Is or KindOf:
//
//	doc, err := r.Export(ctx, raw, id, format)
//	switch outline2deck.KindOf(err) {
//	case outline2deck.KindInvalidOutline, outline2deck.KindInvalidRequest:
//	    // client error, do not retry
//	case outline2deck.KindRender:
//	    // no partial document is returned
//	}
//
// # Concurrency
//
// A Renderer is immutable after construction and safe for concurrent use.
// Use ResolveWorkers to size a worker pool for batch rendering.
package outline2deck
