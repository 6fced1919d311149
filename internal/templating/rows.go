package templating

import (
	"errors"
	"strings"

	"github.com/jonathan/resume-builder/internal/document"
)

// ErrTemplateRowNotFound is returned when no table row carries a record marker.
var ErrTemplateRowNotFound = errors.New("template row not found")

// RowFiller fills a freshly cloned template row with the values of record i.
// The row is detached from the table while it is being filled.
type RowFiller func(row *document.Row, i int)

// TableExpansion describes what ExpandFirstRecordTable did.
type TableExpansion struct {
	TableIndex    int   // index of the expanded table among the document's tables
	Rows          int   // rows generated
	SkippedTables []int // later tables that also had a template row
}

// FindTemplateRow returns the first row of t whose text contains any marker,
// with its index, or nil and -1.
func FindTemplateRow(t *document.Table, markers []string) (*document.Row, int) {
	for i, row := range t.Rows() {
		text := row.Text()
		for _, m := range markers {
			if m != "" && strings.Contains(text, m) {
				return row, i
			}
		}
	}
	return nil, -1
}

// ExpandRecordRows renders n records through the template row of t. Each
// record gets its own clone of the template row, filled by fill and inserted
// below the previous one, so records read top to bottom in input order at the
// template's former position. The template row is removed afterwards, also
// when n is zero. It returns the number of rows inserted, or
// ErrTemplateRowNotFound when t has no template row.
func ExpandRecordRows(t *document.Table, markers []string, n int, fill RowFiller) (int, error) {
	template, index := FindTemplateRow(t, markers)
	if template == nil {
		return 0, ErrTemplateRowNotFound
	}
	for i := 0; i < n; i++ {
		clone := template.Clone()
		if fill != nil {
			fill(clone, i)
		}
		t.InsertRowAt(index+1+i, clone)
	}
	t.RemoveRow(template)
	return n, nil
}

// ExpandFirstRecordTable runs ExpandRecordRows on the first table, in document
// order, that has a template row. Later tables with a template row are left
// untouched and listed in SkippedTables.
func ExpandFirstRecordTable(doc *document.Document, markers []string, n int, fill RowFiller) (*TableExpansion, error) {
	result := &TableExpansion{TableIndex: -1}
	for i, t := range doc.Tables() {
		if result.TableIndex >= 0 {
			if row, _ := FindTemplateRow(t, markers); row != nil {
				result.SkippedTables = append(result.SkippedTables, i)
			}
			continue
		}
		rows, err := ExpandRecordRows(t, markers, n, fill)
		if errors.Is(err, ErrTemplateRowNotFound) {
			continue
		}
		if err != nil {
			return result, err
		}
		result.TableIndex = i
		result.Rows = rows
	}
	if result.TableIndex < 0 {
		return result, ErrTemplateRowNotFound
	}
	return result, nil
}
