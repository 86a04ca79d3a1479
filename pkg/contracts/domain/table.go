package domain

// Row is a single record of a Table. Cells is keyed by header name; every
// header present in the Table has an entry, possibly the empty string.
// SourceLine is the 1-based position of the row in the original input and is
// stable across the whole pipeline so issues and fixes can reference exact
// locations even after rows are removed.
type Row struct {
	Cells      map[string]string `json:"cells"`
	SourceLine int               `json:"source_line"`
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	cells := make(map[string]string, len(r.Cells))
	for k, v := range r.Cells {
		cells[k] = v
	}
	return Row{Cells: cells, SourceLine: r.SourceLine}
}

// Get returns the cell value for a header, or "" when absent.
func (r Row) Get(header string) string {
	return r.Cells[header]
}

// Table is the in-memory representation of a tabular dataset. Headers are
// ordered; Rows are ordered. The analyzer treats a Table as read-only; only
// the cleaner mutates one, and only ever a clone of the input.
type Table struct {
	Headers []string `json:"headers"`
	Rows    []Row    `json:"rows"`
}

// NewTable builds a Table from raw header and row data, assigning source line
// numbers starting at startLine (typically 2 for files with a header row).
func NewTable(headers []string, records [][]string, startLine int) *Table {
	t := &Table{Headers: headers, Rows: make([]Row, 0, len(records))}
	for i, record := range records {
		cells := make(map[string]string, len(headers))
		for j, h := range headers {
			if j < len(record) {
				cells[h] = record[j]
			} else {
				cells[h] = ""
			}
		}
		t.Rows = append(t.Rows, Row{Cells: cells, SourceLine: startLine + i})
	}
	return t
}

// Clone returns a deep copy of the table. The cleaner always operates on a
// clone so the original survives for before/after reporting.
func (t *Table) Clone() *Table {
	headers := make([]string, len(t.Headers))
	copy(headers, t.Headers)
	rows := make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.Clone()
	}
	return &Table{Headers: headers, Rows: rows}
}

// RowCount returns the number of data rows.
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// Column returns the values of a single column in row order.
func (t *Table) Column(header string) []string {
	values := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		values[i] = r.Cells[header]
	}
	return values
}
