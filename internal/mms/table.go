package mms

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// envelopeColumns is the number of bookkeeping columns (record type,
// report name, sub-report name, report version) that prefix every record.
const envelopeColumns = 4

// headerRecordType marks the column header record.
const headerRecordType = "I"

// Field is one named value of a record, in archive column order.
type Field struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Table is a normalised archive table: preamble, header, trailer and
// envelope columns removed, data rows in source order.
type Table struct {
	Name    string
	Columns []string
	rows    [][]string
	index   map[string]int
}

// NewTable builds a Table from already-normalised columns and rows.
// Rows shorter than the header are padded with empty cells.
func NewTable(name string, columns []string, rows [][]string) *Table {
	t := &Table{
		Name:    name,
		Columns: columns,
		rows:    make([][]string, 0, len(rows)),
		index:   make(map[string]int, len(columns)),
	}
	for i, c := range columns {
		key := strings.ToUpper(strings.TrimSpace(c))
		if _, dup := t.index[key]; !dup {
			t.index[key] = i
		}
	}
	for _, r := range rows {
		t.rows = append(t.rows, padRow(r, len(columns)))
	}
	return t
}

func padRow(r []string, n int) []string {
	if len(r) >= n {
		return r[:n]
	}
	out := make([]string, n)
	copy(out, r)
	return out
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether the table has the named column.
func (t *Table) Has(column string) bool {
	_, ok := t.index[strings.ToUpper(column)]
	return ok
}

// Row returns the i-th data row.
func (t *Table) Row(i int) Row {
	return Row{table: t, n: i, values: t.rows[i]}
}

// Rows returns all data rows in source order.
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// Row gives named-field access to one data row.
type Row struct {
	table  *Table
	n      int
	values []string
}

// Index returns the zero-based position of the row in its table.
func (r Row) Index() int {
	return r.n
}

// String returns the trimmed value of a column, or "" when absent.
func (r Row) String(column string) string {
	i, ok := r.table.index[strings.ToUpper(column)]
	if !ok {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

// Optional returns the value of a column and whether it is set. Empty cells
// and the literal "nan" are treated as unset.
func (r Row) Optional(column string) (string, bool) {
	v := r.String(column)
	if v == "" || strings.EqualFold(v, "nan") {
		return "", false
	}
	return v, true
}

// Float parses a numeric column.
func (r Row) Float(column string) (float64, error) {
	v := r.String(column)
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) {
		return 0, r.fieldError(column, fmt.Errorf("not a number: %q", v))
	}
	return f, nil
}

// Int parses an integer column. Values such as "3.0" are accepted.
func (r Row) Int(column string) (int, error) {
	v := r.String(column)
	if n, err := strconv.Atoi(v); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, r.fieldError(column, fmt.Errorf("not an integer: %q", v))
	}
	return int(f), nil
}

// Fields returns every column of the row in archive order.
func (r Row) Fields() []Field {
	out := make([]Field, len(r.table.Columns))
	for i, c := range r.table.Columns {
		out[i] = Field{Name: c, Value: strings.TrimSpace(r.values[i])}
	}
	return out
}

func (r Row) fieldError(column string, err error) error {
	return &DecodeError{Table: r.table.Name, Row: r.n, Column: column, Err: err}
}

// ParseTable reads a raw archive extract and applies the declared
// normalisation: the preamble line is skipped, the second line is the
// header, the last record (the trailer) is dropped and the envelope
// columns are stripped from header and rows.
func ParseTable(name string, r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = false

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", name, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("parse %s: extract has no header line", name)
	}

	header := records[1]
	if len(header) <= envelopeColumns || strings.TrimSpace(header[0]) != headerRecordType {
		return nil, fmt.Errorf("parse %s: malformed header %q", name, strings.Join(header, ","))
	}

	data := records[2:]
	if len(data) > 0 {
		data = data[:len(data)-1]
	}

	columns := make([]string, 0, len(header)-envelopeColumns)
	for _, c := range header[envelopeColumns:] {
		columns = append(columns, strings.TrimSpace(c))
	}

	rows := make([][]string, 0, len(data))
	for _, rec := range data {
		if len(rec) <= envelopeColumns {
			rows = append(rows, nil)
			continue
		}
		rows = append(rows, rec[envelopeColumns:])
	}

	return NewTable(name, columns, rows), nil
}

// parseArchiveText decodes the archive charset before parsing.
func parseArchiveText(name string, raw []byte) (*Table, error) {
	text, err := decodeText(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s text: %w", name, err)
	}
	return ParseTable(name, bytes.NewReader(text))
}
