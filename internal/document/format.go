package document

import (
	"strconv"

	"github.com/beevik/etree"
)

// ParagraphFormat holds the paragraph-level attributes carried over to
// synthesized paragraphs. Zero values mean "not set".
type ParagraphFormat struct {
	Style       string // w:pStyle, a style ID
	Alignment   string // w:jc (left, center, right, both, ...)
	SpaceBefore *int   // w:spacing/@w:before, twentieths of a point
	SpaceAfter  *int   // w:spacing/@w:after
	LeftIndent  *int   // w:ind/@w:left (or w:start)
	RightIndent *int   // w:ind/@w:right (or w:end)
}

// RunFormat holds the character attributes carried over to synthesized runs.
// Zero values mean "not set".
type RunFormat struct {
	FontFamily string // w:rFonts/@w:ascii
	Size       *int   // w:sz, half-points
	Bold       *bool
	Italic     *bool
	Underline  string // w:u/@w:val (single, double, ...)
	Color      string // w:color/@w:val, hex RGB or "auto"
}

// Format reads the paragraph's formatting.
func (p *Paragraph) Format() ParagraphFormat {
	var f ParagraphFormat
	pPr := firstChild(p.el, p.ns, "pPr")
	if pPr == nil {
		return f
	}
	f.Style = attrValue(firstChild(pPr, p.ns, "pStyle"), p.ns, "val")
	f.Alignment = attrValue(firstChild(pPr, p.ns, "jc"), p.ns, "val")
	if spacing := firstChild(pPr, p.ns, "spacing"); spacing != nil {
		f.SpaceBefore = intAttr(spacing, p.ns, "before")
		f.SpaceAfter = intAttr(spacing, p.ns, "after")
	}
	if ind := firstChild(pPr, p.ns, "ind"); ind != nil {
		f.LeftIndent = intAttr(ind, p.ns, "left")
		if f.LeftIndent == nil {
			f.LeftIndent = intAttr(ind, p.ns, "start")
		}
		f.RightIndent = intAttr(ind, p.ns, "right")
		if f.RightIndent == nil {
			f.RightIndent = intAttr(ind, p.ns, "end")
		}
	}
	return f
}

// SetFormat applies f to the paragraph. Fields left unset in f are removed
// from the paragraph; other paragraph properties are untouched.
func (p *Paragraph) SetFormat(f ParagraphFormat) {
	pPr := ensureFirstChild(p.el, p.ns, "pPr")
	ns := p.ns

	setValElement(pPr, ns, "pStyle", f.Style, paragraphPropertyOrder)
	setValElement(pPr, ns, "jc", f.Alignment, paragraphPropertyOrder)

	spacing := ensureChild(pPr, ns, "spacing", paragraphPropertyOrder)
	setIntAttr(spacing, ns, "before", f.SpaceBefore)
	setIntAttr(spacing, ns, "after", f.SpaceAfter)
	removeIfEmpty(spacing)

	ind := ensureChild(pPr, ns, "ind", paragraphPropertyOrder)
	ind.RemoveAttr(qualify(ns, "start"))
	ind.RemoveAttr(qualify(ns, "end"))
	setIntAttr(ind, ns, "left", f.LeftIndent)
	setIntAttr(ind, ns, "right", f.RightIndent)
	removeIfEmpty(ind)

	removeIfEmpty(pPr)
}

// Format reads the run's formatting.
func (r *Run) Format() RunFormat {
	var f RunFormat
	rPr := firstChild(r.el, r.ns, "rPr")
	if rPr == nil {
		return f
	}
	if fonts := firstChild(rPr, r.ns, "rFonts"); fonts != nil {
		f.FontFamily = attrValue(fonts, r.ns, "ascii")
		if f.FontFamily == "" {
			f.FontFamily = attrValue(fonts, r.ns, "hAnsi")
		}
	}
	f.Size = intAttr(firstChild(rPr, r.ns, "sz"), r.ns, "val")
	f.Bold = toggleValue(firstChild(rPr, r.ns, "b"), r.ns)
	f.Italic = toggleValue(firstChild(rPr, r.ns, "i"), r.ns)
	f.Underline = attrValue(firstChild(rPr, r.ns, "u"), r.ns, "val")
	f.Color = attrValue(firstChild(rPr, r.ns, "color"), r.ns, "val")
	return f
}

// SetFormat applies f to the run. Fields left unset in f are removed from the
// run; other run properties are untouched.
func (r *Run) SetFormat(f RunFormat) {
	rPr := ensureFirstChild(r.el, r.ns, "rPr")
	ns := r.ns

	fonts := ensureChild(rPr, ns, "rFonts", runPropertyOrder)
	if f.FontFamily != "" {
		fonts.CreateAttr(qualify(ns, "ascii"), f.FontFamily)
		fonts.CreateAttr(qualify(ns, "hAnsi"), f.FontFamily)
	} else {
		fonts.RemoveAttr(qualify(ns, "ascii"))
		fonts.RemoveAttr(qualify(ns, "hAnsi"))
	}
	removeIfEmpty(fonts)

	setToggle(rPr, ns, "b", f.Bold)
	setToggle(rPr, ns, "i", f.Italic)
	setValElement(rPr, ns, "color", f.Color, runPropertyOrder)

	size := ""
	if f.Size != nil {
		size = strconv.Itoa(*f.Size)
	}
	setValElement(rPr, ns, "sz", size, runPropertyOrder)
	setValElement(rPr, ns, "szCs", size, runPropertyOrder)
	setValElement(rPr, ns, "u", f.Underline, runPropertyOrder)

	removeIfEmpty(rPr)
}

// CopyParagraphFormat copies style, alignment, spacing and indentation from
// src to dst.
func CopyParagraphFormat(src, dst *Paragraph) {
	dst.SetFormat(src.Format())
}

// CopyRunFormat copies font family, size, bold, italic, underline and color
// from src to dst. dst keeps its own color when src has none.
func CopyRunFormat(src, dst *Run) {
	f := src.Format()
	if f.Color == "" {
		f.Color = dst.Format().Color
	}
	dst.SetFormat(f)
}

// setValElement sets <ns:local ns:val="value"/>, or removes the element when
// value is empty.
func setValElement(parent *etree.Element, ns, local, value string, order []string) {
	if value == "" {
		if el := firstChild(parent, ns, local); el != nil {
			parent.RemoveChild(el)
		}
		return
	}
	ensureChild(parent, ns, local, order).CreateAttr(qualify(ns, "val"), value)
}

func setIntAttr(el *etree.Element, ns, key string, v *int) {
	if v == nil {
		el.RemoveAttr(qualify(ns, key))
		return
	}
	el.CreateAttr(qualify(ns, key), strconv.Itoa(*v))
}

func setToggle(rPr *etree.Element, ns, local string, v *bool) {
	if v == nil {
		if el := firstChild(rPr, ns, local); el != nil {
			rPr.RemoveChild(el)
		}
		return
	}
	el := ensureChild(rPr, ns, local, runPropertyOrder)
	if *v {
		el.RemoveAttr(qualify(ns, "val"))
	} else {
		el.CreateAttr(qualify(ns, "val"), "0")
	}
}
