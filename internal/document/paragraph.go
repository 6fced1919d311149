package document

import (
	"strings"

	"github.com/beevik/etree"
)

// Elements whose children are runs that still belong to the enclosing
// paragraph's text flow.
var runContainers = map[string]bool{
	"hyperlink":  true,
	"ins":        true,
	"moveTo":     true,
	"smartTag":   true,
	"fldSimple":  true,
	"customXml":  true,
	"sdt":        true,
	"sdtContent": true,
}

// Paragraph is a w:p element.
type Paragraph struct {
	el *etree.Element
	ns string
}

func paragraphsOf(parent *etree.Element, ns string) []*Paragraph {
	var paras []*Paragraph
	for _, el := range childElements(parent, ns, "p") {
		paras = append(paras, &Paragraph{el: el, ns: ns})
	}
	return paras
}

// Runs returns the runs of the paragraph in reading order, including runs
// nested in hyperlinks, insertions, fields and content controls.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	var walk func(el *etree.Element)
	walk = func(el *etree.Element) {
		for _, c := range el.ChildElements() {
			if c.Space != p.ns {
				continue
			}
			switch {
			case c.Tag == "r":
				runs = append(runs, &Run{el: c, ns: p.ns})
			case runContainers[c.Tag]:
				walk(c)
			}
		}
	}
	walk(p.el)
	return runs
}

// TextNodes returns every w:t of the paragraph in reading order.
func (p *Paragraph) TextNodes() []*TextNode {
	var nodes []*TextNode
	for _, r := range p.Runs() {
		nodes = append(nodes, r.textNodes()...)
	}
	return nodes
}

// textBreaks are run children that interrupt the text flow
var textBreaks = map[string]bool{
	"tab":  true,
	"ptab": true,
	"br":   true,
	"cr":   true,
}

// TextSpans returns the w:t nodes of the paragraph grouped into spans of
// uninterrupted text. A tab, break or carriage return ends a span.
func (p *Paragraph) TextSpans() [][]*TextNode {
	var spans [][]*TextNode
	var cur []*TextNode
	for _, r := range p.Runs() {
		for _, c := range r.el.ChildElements() {
			if c.Space != r.ns {
				continue
			}
			switch {
			case c.Tag == "t":
				cur = append(cur, &TextNode{el: c, run: r})
			case textBreaks[c.Tag] && len(cur) > 0:
				spans = append(spans, cur)
				cur = nil
			}
		}
	}
	if len(cur) > 0 {
		spans = append(spans, cur)
	}
	return spans
}

// Text returns the concatenated text of all runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// AddRun appends a run holding text and returns it.
func (p *Paragraph) AddRun(text string) *Run {
	el := p.el.CreateElement(qualify(p.ns, "r"))
	r := &Run{el: el, ns: p.ns}
	r.SetText(text)
	return r
}

// InsertParagraphAfter creates an empty paragraph and inserts it as the
// sibling immediately following p. The position is taken from p's current
// index in its parent.
func (p *Paragraph) InsertParagraphAfter() *Paragraph {
	el := etree.NewElement(qualify(p.ns, "p"))
	if parent := p.el.Parent(); parent != nil {
		parent.InsertChildAt(p.el.Index()+1, el)
	}
	return &Paragraph{el: el, ns: p.ns}
}

// Next returns the paragraph immediately following p in the same container,
// or nil if the next block is not a paragraph.
func (p *Paragraph) Next() *Paragraph {
	next := p.el.NextSibling()
	if !isElement(next, p.ns, "p") {
		return nil
	}
	return &Paragraph{el: next, ns: p.ns}
}

// Same reports whether p and other refer to the same paragraph element.
func (p *Paragraph) Same(other *Paragraph) bool {
	return other != nil && p.el == other.el
}

// Run is a w:r element.
type Run struct {
	el *etree.Element
	ns string
}

// Text returns the concatenated content of the run's w:t children.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, t := range r.textNodes() {
		sb.WriteString(t.Value())
	}
	return sb.String()
}

// SetText replaces the run's text content with a single w:t holding text.
// Existing text, tab and break children are removed; the new w:t takes the
// place of the first of them. Drawings and other children are kept.
func (r *Run) SetText(text string) {
	var content []*etree.Element
	for _, c := range r.el.ChildElements() {
		if c.Space == r.ns && (c.Tag == "t" || textBreaks[c.Tag]) {
			content = append(content, c)
		}
	}

	el := etree.NewElement(qualify(r.ns, "t"))
	if len(content) == 0 {
		r.el.AddChild(el)
	} else {
		at := content[0].Index()
		for _, c := range content {
			r.el.RemoveChild(c)
		}
		r.el.InsertChildAt(at, el)
	}
	(&TextNode{el: el, run: r}).SetValue(text)
}

func (r *Run) textNodes() []*TextNode {
	var nodes []*TextNode
	for _, el := range childElements(r.el, r.ns, "t") {
		nodes = append(nodes, &TextNode{el: el, run: r})
	}
	return nodes
}

func (r *Run) remove() {
	if parent := r.el.Parent(); parent != nil {
		parent.RemoveChild(r.el)
	}
}

// TextNode is a single w:t element inside a run.
type TextNode struct {
	el  *etree.Element
	run *Run
}

// Value returns the node's character data.
func (t *TextNode) Value() string {
	return t.el.Text()
}

// SetValue replaces the node's character data, marking it xml:space="preserve"
// when the value has leading or trailing whitespace.
func (t *TextNode) SetValue(s string) {
	t.el.SetText(s)
	if s != strings.TrimSpace(s) {
		t.el.CreateAttr("xml:space", "preserve")
	}
}

// Run returns the run holding the node.
func (t *TextNode) Run() *Run {
	return t.run
}
