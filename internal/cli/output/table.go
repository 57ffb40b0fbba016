package output

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table is a titled grid of values rendered according to the output mode.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]any
	// Empty is shown instead of the grid when there are no rows.
	Empty string
}

// NewTable creates an empty table.
func NewTable(title string, columns ...string) *Table {
	return &Table{Title: title, Columns: columns, Empty: "(0 rows)"}
}

// Append adds a row.
func (t *Table) Append(values ...any) {
	t.Rows = append(t.Rows, values)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

func (t *Table) writer() table.Writer {
	tw := table.NewWriter()
	header := make(table.Row, len(t.Columns))
	for i, c := range t.Columns {
		header[i] = c
	}
	tw.AppendHeader(header)
	for _, row := range t.Rows {
		tw.AppendRow(table.Row(row))
	}
	return tw
}

// writeCSV writes RFC 4180 records: header first, then one record per row.
func (t *Table) writeCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i := range record {
			record[i] = ""
			if i < len(row) {
				record[i] = fmt.Sprint(row[i])
			}
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Table renders t. CSV output carries no title so that it stays parseable.
func (r *Renderer) Table(t *Table) error {
	mode := r.EffectiveMode()
	switch mode {
	case ModeCSV:
		return t.writeCSV(r.out)
	case ModeMarkdown:
		if t.Title != "" {
			r.Header(2, t.Title)
		}
		if t.Len() == 0 {
			r.Muted(t.Empty)
			r.Println("")
			return nil
		}
		tw := t.writer()
		tw.SetOutputMirror(r.out)
		tw.RenderMarkdown()
		r.Println("")
		return nil
	case ModeText:
		if t.Title != "" {
			r.Header(2, t.Title)
		}
		if t.Len() == 0 {
			r.Muted(t.Empty)
			return nil
		}
		tw := t.writer()
		tw.SetOutputMirror(r.out)
		tw.SetStyle(table.StyleLight)
		tw.Render()
		r.Muted(fmt.Sprintf("(%d rows)", t.Len()))
		return nil
	default:
		return fmt.Errorf("table output is not supported in %s mode", mode)
	}
}
