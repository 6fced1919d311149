package document

import (
	"strings"

	"github.com/beevik/etree"
)

// Table is a w:tbl element.
type Table struct {
	el *etree.Element
	ns string
}

// Rows returns the table rows in visual order.
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, el := range childElements(t.el, t.ns, "tr") {
		rows = append(rows, &Row{el: el, ns: t.ns})
	}
	return rows
}

// IndexOf returns the position of r among the table rows, or -1.
func (t *Table) IndexOf(r *Row) int {
	for i, row := range t.Rows() {
		if row.el == r.el {
			return i
		}
	}
	return -1
}

// InsertRowAt inserts r so that it becomes row i. An index past the last row
// appends. The DOM position is resolved from the current rows at call time.
func (t *Table) InsertRowAt(i int, r *Row) {
	rows := t.Rows()
	if i < 0 {
		i = 0
	}
	switch {
	case i < len(rows):
		t.el.InsertChildAt(rows[i].el.Index(), r.el)
	case len(rows) > 0:
		t.el.InsertChildAt(rows[len(rows)-1].el.Index()+1, r.el)
	default:
		t.el.AddChild(r.el)
	}
}

// RemoveRow detaches r from the table. It reports whether r was a row of t.
func (t *Table) RemoveRow(r *Row) bool {
	return t.el.RemoveChild(r.el) != nil
}

// AddRow appends a row of cols cells, each holding one empty paragraph.
func (t *Table) AddRow(cols int) *Row {
	el := etree.NewElement(qualify(t.ns, "tr"))
	for c := 0; c < cols; c++ {
		tc := el.CreateElement(qualify(t.ns, "tc"))
		tc.CreateElement(qualify(t.ns, "p"))
	}
	row := &Row{el: el, ns: t.ns}
	t.InsertRowAt(len(t.Rows()), row)
	return row
}

// Text returns the text of every row, one row per line.
func (t *Table) Text() string {
	var lines []string
	for _, r := range t.Rows() {
		lines = append(lines, r.Text())
	}
	return strings.Join(lines, "\n")
}

// Row is a w:tr element.
type Row struct {
	el *etree.Element
	ns string
}

// Cells returns the row cells in order.
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, el := range childElements(r.el, r.ns, "tc") {
		cells = append(cells, &Cell{el: el, ns: r.ns})
	}
	return cells
}

// Paragraphs returns the paragraphs of every cell, in cell order.
func (r *Row) Paragraphs() []*Paragraph {
	var paras []*Paragraph
	for _, c := range r.Cells() {
		paras = append(paras, c.Paragraphs()...)
	}
	return paras
}

// Text returns the cell texts joined by tabs.
func (r *Row) Text() string {
	cells := r.Cells()
	texts := make([]string, len(cells))
	for i, c := range cells {
		texts[i] = c.Text()
	}
	return strings.Join(texts, "\t")
}

// Clone returns a detached deep copy of the row, including every cell,
// paragraph, run and property element.
func (r *Row) Clone() *Row {
	return &Row{el: r.el.Copy(), ns: r.ns}
}

// Attached reports whether the row is part of a table.
func (r *Row) Attached() bool {
	return r.el.Parent() != nil
}

// Cell is a w:tc element.
type Cell struct {
	el *etree.Element
	ns string
}

// Paragraphs returns the cell paragraphs in order.
func (c *Cell) Paragraphs() []*Paragraph {
	return paragraphsOf(c.el, c.ns)
}

// Text returns the paragraph texts joined by newlines.
func (c *Cell) Text() string {
	paras := c.Paragraphs()
	texts := make([]string, len(paras))
	for i, p := range paras {
		texts[i] = p.Text()
	}
	return strings.Join(texts, "\n")
}

// AddParagraph appends a paragraph holding text to the cell.
func (c *Cell) AddParagraph(text string) *Paragraph {
	el := c.el.CreateElement(qualify(c.ns, "p"))
	p := &Paragraph{el: el, ns: c.ns}
	if text != "" {
		p.AddRun(text)
	}
	return p
}

// SetText replaces the text of the first paragraph of the cell with a single
// run holding text.
func (c *Cell) SetText(text string) {
	paras := c.Paragraphs()
	if len(paras) == 0 {
		c.AddParagraph(text)
		return
	}
	p := paras[0]
	for _, run := range p.Runs() {
		run.remove()
	}
	if text != "" {
		p.AddRun(text)
	}
}
