package domain

// ChangeRecord types beyond per-cell mutations.
const (
	ChangeTypeSummary  = "SUMMARY"
	ChangeTypeCell     = "CELL"
	ChangeTypeRowDrop  = "ROW_REMOVED"
)

// ChangeRecord is one entry of the cleaner's append-only change log. A SUMMARY
// record describes a whole category of fixes (Operation + Count + Message);
// a CELL record describes one mutation (Row/Column/OldValue/NewValue); a
// ROW_REMOVED record names a dropped row by source line.
type ChangeRecord struct {
	Type      string `json:"type"`
	Operation string `json:"operation,omitempty"`
	Count     int    `json:"count,omitempty"`
	Message   string `json:"message,omitempty"`
	Row       int    `json:"row,omitempty"`
	Column    string `json:"column,omitempty"`
	OldValue  string `json:"old_value,omitempty"`
	NewValue  string `json:"new_value,omitempty"`
}

// CleanStats summarizes one cleaning run.
type CleanStats struct {
	TotalChanges     int `json:"total_changes"`
	RowsAffected     int `json:"rows_affected"`
	CellsModified    int `json:"cells_modified"`
	OriginalRowCount int `json:"original_row_count"`
	CleanedRowCount  int `json:"cleaned_row_count"`
	RowsRemoved      int `json:"rows_removed"`
}
