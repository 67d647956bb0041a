// Package mdoutline extracts slide sections from Markdown.
//
// Level 1 and 2 headings start a section, thematic breaks (---) end one,
// list items and loose paragraphs become bullets, and blockquotes become
// speaker notes. Content before the first heading forms an untitled section.
package mdoutline

import (
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// MaxSlideLevel is the deepest heading level that starts a new section.
const MaxSlideLevel = 2

// Section is one slide worth of Markdown content.
// Title is empty when the section had no heading.
type Section struct {
	Title   string
	Bullets []string
	Notes   string
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Parse returns the sections of src in document order.
func Parse(src []byte) []Section {
	doc := md.Parser().Parse(text.NewReader(src))

	b := &builder{src: src}
	for n := doc.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			if node.Level <= MaxSlideLevel {
				b.start(inlineText(node, src))
				continue
			}
			b.addBullet(inlineText(node, src))
		case *ast.ThematicBreak:
			b.flush()
		case *ast.List:
			b.addList(node)
		case *ast.Paragraph, *ast.TextBlock:
			b.addBullet(inlineText(node, src))
		case *ast.Blockquote:
			b.addNotes(blockText(node, src))
		}
	}
	b.flush()
	return b.sections
}

type builder struct {
	src      []byte
	sections []Section
	current  *Section
	titled   bool
}

func (b *builder) start(title string) {
	b.flush()
	b.current = &Section{Title: title}
	b.titled = true
}

func (b *builder) ensure() *Section {
	if b.current == nil {
		b.current = &Section{}
		b.titled = false
	}
	return b.current
}

// flush keeps headed sections even when empty and drops empty untitled ones.
func (b *builder) flush() {
	if b.current == nil {
		return
	}
	s := b.current
	if b.titled || len(s.Bullets) > 0 || s.Notes != "" {
		b.sections = append(b.sections, *s)
	}
	b.current = nil
	b.titled = false
}

func (b *builder) addBullet(s string) {
	if s == "" {
		return
	}
	sec := b.ensure()
	sec.Bullets = append(sec.Bullets, s)
}

func (b *builder) addNotes(s string) {
	if s == "" {
		return
	}
	sec := b.ensure()
	if sec.Notes != "" {
		sec.Notes += "\n"
	}
	sec.Notes += s
}

// addList flattens nested lists: an item's own text comes before its children.
func (b *builder) addList(list *ast.List) {
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		var parts []string
		var nested []*ast.List
		for c := item.FirstChild(); c != nil; c = c.NextSibling() {
			if sub, ok := c.(*ast.List); ok {
				nested = append(nested, sub)
				continue
			}
			if s := blockText(c, b.src); s != "" {
				parts = append(parts, s)
			}
		}
		b.addBullet(strings.Join(parts, " "))
		for _, sub := range nested {
			b.addList(sub)
		}
	}
}

// blockText returns the text of a block, one line per inner paragraph.
func blockText(n ast.Node, src []byte) string {
	switch n.(type) {
	case *ast.Paragraph, *ast.TextBlock, *ast.Heading:
		return inlineText(n, src)
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock, *ast.ThematicBreak:
		return ""
	}
	var lines []string
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if s := blockText(c, src); s != "" {
			lines = append(lines, s)
		}
	}
	return strings.Join(lines, "\n")
}

func inlineText(n ast.Node, src []byte) string {
	var sb strings.Builder
	writeInline(&sb, n, src)
	return strings.TrimSpace(sb.String())
}

func writeInline(sb *strings.Builder, n ast.Node, src []byte) {
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch node := c.(type) {
		case *ast.Text:
			sb.Write(node.Segment.Value(src))
			if node.SoftLineBreak() || node.HardLineBreak() {
				sb.WriteByte(' ')
			}
		case *ast.String:
			sb.Write(node.Value)
		case *ast.AutoLink:
			sb.Write(node.Label(src))
		case *ast.RawHTML:
			// dropped
		default:
			writeInline(sb, c, src)
		}
	}
}
