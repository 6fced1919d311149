// Package templating fills placeholder tokens in a .docx template from a resume record.
//
// Scalars are replaced in place, multi-line values and lists grow the anchor
// paragraph into contiguous sibling paragraphs, and work experience entries are
// rendered by cloning a template table row once per entry.
package templating

import (
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/document"
)

// spanSeparator stands in for a tab or break between text spans, so a token
// can run across w:t nodes and runs but never across a tab or break.
const spanSeparator = "\n"

// textIndex maps offsets in a paragraph's logical text to the w:t nodes
// holding them, so tokens split across runs can be matched.
type textIndex struct {
	nodes  []*document.TextNode
	starts []int
	text   string
}

func buildTextIndex(p *document.Paragraph) *textIndex {
	ix := &textIndex{}
	var sb strings.Builder
	for i, span := range p.TextSpans() {
		if i > 0 {
			sb.WriteString(spanSeparator)
		}
		for _, n := range span {
			ix.nodes = append(ix.nodes, n)
			ix.starts = append(ix.starts, sb.Len())
			sb.WriteString(n.Value())
		}
	}
	ix.text = sb.String()
	return ix
}

// containsToken reports whether token occurs in p within one text span.
func containsToken(p *document.Paragraph, token string) bool {
	return token != "" && strings.Contains(buildTextIndex(p).text, token)
}

// nodeAt returns the node holding the byte at offset, or nil.
func (ix *textIndex) nodeAt(offset int) *document.TextNode {
	for i, n := range ix.nodes {
		if offset >= ix.starts[i] && offset < ix.starts[i]+len(n.Value()) {
			return n
		}
	}
	return nil
}

// replace swaps text[pos:pos+length] for value. The value goes into the node
// holding the first replaced byte; the rest of the span is cut from the
// following nodes. Nodes left empty stay in place.
func (ix *textIndex) replace(pos, length int, value string) {
	end := pos + length
	placed := false
	for i, n := range ix.nodes {
		val := n.Value()
		start, stop := ix.starts[i], ix.starts[i]+len(val)
		if stop <= pos || start >= end {
			continue
		}
		lo := max(pos-start, 0)
		hi := min(end-start, len(val))
		if !placed {
			n.SetValue(val[:lo] + value + val[hi:])
			placed = true
			continue
		}
		n.SetValue(val[:lo] + val[hi:])
	}
}

// SubstituteScalar replaces every occurrence of token in p with the textual
// form of value and returns the number of replacements. Run formatting is
// not touched. A nil value renders as the empty string.
func SubstituteScalar(p *document.Paragraph, token string, value any) int {
	if token == "" {
		return 0
	}
	replacement := textOf(value)
	count := 0
	from := 0
	for {
		ix := buildTextIndex(p)
		if from > len(ix.text) {
			break
		}
		pos := strings.Index(ix.text[from:], token)
		if pos < 0 {
			break
		}
		pos += from
		ix.replace(pos, len(token), replacement)
		count++
		from = pos + len(replacement)
	}
	return count
}

// templateRun returns the run holding the first character of token in p.
func templateRun(p *document.Paragraph, token string) *document.Run {
	ix := buildTextIndex(p)
	pos := strings.Index(ix.text, token)
	if pos < 0 {
		return nil
	}
	if n := ix.nodeAt(pos); n != nil {
		return n.Run()
	}
	return nil
}

func textOf(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}
