package document

import (
	"strconv"

	"github.com/beevik/etree"
)

// WordNamespace is the WordprocessingML main namespace URI.
const WordNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Child element order inside w:pPr and w:rPr. The schema is a sequence, so new
// property elements have to land in the right slot or Word rejects the file.
var (
	paragraphPropertyOrder = []string{
		"pStyle", "keepNext", "keepLines", "pageBreakBefore", "framePr", "widowControl",
		"numPr", "suppressLineNumbers", "pBdr", "shd", "tabs", "suppressAutoHyphens",
		"kinsoku", "wordWrap", "overflowPunct", "topLinePunct", "autoSpaceDE", "autoSpaceDN",
		"bidi", "adjustRightInd", "snapToGrid", "spacing", "ind", "contextualSpacing",
		"mirrorIndents", "suppressOverlap", "jc", "textDirection", "textAlignment",
		"textboxTightWrap", "outlineLvl", "divId", "cnfStyle", "rPr", "sectPr", "pPrChange",
	}
	runPropertyOrder = []string{
		"rStyle", "rFonts", "b", "bCs", "i", "iCs", "caps", "smallCaps", "strike", "dstrike",
		"outline", "shadow", "emboss", "imprint", "noProof", "snapToGrid", "vanish", "webHidden",
		"color", "spacing", "w", "kern", "position", "sz", "szCs", "highlight", "u", "effect",
		"bdr", "shd", "fitText", "vertAlign", "rtl", "cs", "em", "lang", "eastAsianLayout",
		"specVanish", "oMath",
	}
)

// qualify joins a namespace prefix and a local name.
func qualify(ns, local string) string {
	if ns == "" {
		return local
	}
	return ns + ":" + local
}

func isElement(el *etree.Element, ns, local string) bool {
	return el != nil && el.Tag == local && el.Space == ns
}

func childElements(el *etree.Element, ns, local string) []*etree.Element {
	var out []*etree.Element
	for _, c := range el.ChildElements() {
		if isElement(c, ns, local) {
			out = append(out, c)
		}
	}
	return out
}

func firstChild(el *etree.Element, ns, local string) *etree.Element {
	if el == nil {
		return nil
	}
	for _, c := range el.ChildElements() {
		if isElement(c, ns, local) {
			return c
		}
	}
	return nil
}

// ensureChild returns the first ns:local child of el, creating it in schema
// order when missing.
func ensureChild(el *etree.Element, ns, local string, order []string) *etree.Element {
	if c := firstChild(el, ns, local); c != nil {
		return c
	}
	c := etree.NewElement(qualify(ns, local))
	rank := indexOf(order, local)
	if rank >= 0 {
		for _, tok := range el.Child {
			sib, ok := tok.(*etree.Element)
			if !ok || sib.Space != ns {
				continue
			}
			if r := indexOf(order, sib.Tag); r > rank {
				el.InsertChildAt(sib.Index(), c)
				return c
			}
		}
	}
	el.AddChild(c)
	return c
}

// ensureFirstChild returns the ns:local child of el, creating it as the first
// child element when missing. Used for w:pPr, w:rPr and w:tcPr.
func ensureFirstChild(el *etree.Element, ns, local string) *etree.Element {
	if c := firstChild(el, ns, local); c != nil {
		return c
	}
	c := etree.NewElement(qualify(ns, local))
	for _, tok := range el.Child {
		if sib, ok := tok.(*etree.Element); ok {
			el.InsertChildAt(sib.Index(), c)
			return c
		}
	}
	el.AddChild(c)
	return c
}

// removeIfEmpty drops el from its parent when it carries neither attributes
// nor child tokens.
func removeIfEmpty(el *etree.Element) {
	if el == nil || el.Parent() == nil {
		return
	}
	if len(el.Attr) == 0 && len(el.Child) == 0 {
		el.Parent().RemoveChild(el)
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func attrValue(el *etree.Element, ns, key string) string {
	if el == nil {
		return ""
	}
	return el.SelectAttrValue(qualify(ns, key), "")
}

func intAttr(el *etree.Element, ns, key string) *int {
	v := attrValue(el, ns, key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil
	}
	return &n
}

// toggleValue reads an on/off property such as w:b. Presence without a value
// means on.
func toggleValue(el *etree.Element, ns string) *bool {
	if el == nil {
		return nil
	}
	v := attrValue(el, ns, "val")
	on := v == "" || (v != "0" && v != "false" && v != "off")
	return &on
}
