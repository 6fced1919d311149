package templating

import (
	"strings"

	"github.com/jonathan/resume-builder/internal/document"
)

// ExpandMultiline replaces token in p with a multi-line text. The first line
// takes the token's place; each later line becomes a new paragraph directly
// after the previous one, carrying p's paragraph format. It returns the number
// of paragraphs inserted. Nothing happens when token is not in p.
func ExpandMultiline(p *document.Paragraph, token, text string) int {
	if !containsToken(p, token) {
		return 0
	}
	lines := splitLines(text)
	SubstituteScalar(p, token, lines[0])

	cur := p
	for _, line := range lines[1:] {
		next := cur.InsertParagraphAfter()
		document.CopyParagraphFormat(p, next)
		next.AddRun(line)
		cur = next
	}
	return len(lines) - 1
}

// ExpandBullets replaces token in p with a bulleted list using BulletGlyph.
func ExpandBullets(p *document.Paragraph, token string, items []string) int {
	return ExpandBulletsWithGlyph(p, token, items, BulletGlyph)
}

// ExpandBulletsWithGlyph replaces token in p with one glyph-prefixed paragraph
// per item. The first item takes the token's place; the rest are inserted
// directly after p in order, with p's paragraph format and the font of the run
// that held the token. An empty list just removes the token. It returns the
// number of paragraphs inserted.
func ExpandBulletsWithGlyph(p *document.Paragraph, token string, items []string, glyph string) int {
	if !containsToken(p, token) {
		return 0
	}
	if len(items) == 0 {
		SubstituteScalar(p, token, "")
		return 0
	}
	source := templateRun(p, token)
	if source == nil {
		return 0
	}
	SubstituteScalar(p, token, glyph+items[0])

	cur := p
	for _, item := range items[1:] {
		next := cur.InsertParagraphAfter()
		document.CopyParagraphFormat(p, next)
		run := next.AddRun(glyph + item)
		document.CopyRunFormat(source, run)
		cur = next
	}
	return len(items) - 1
}

func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}
