package domain

// ColumnType is the semantic type inferred for a column.
type ColumnType string

const (
	ColumnTypeString     ColumnType = "string"
	ColumnTypeNumber     ColumnType = "number"
	ColumnTypeCurrency   ColumnType = "currency"
	ColumnTypeDate       ColumnType = "date"
	ColumnTypeEmail      ColumnType = "email"
	ColumnTypePhone      ColumnType = "phone"
	ColumnTypeNationalID ColumnType = "national_id"
	ColumnTypeTaxID      ColumnType = "tax_id"
	ColumnTypePercentage ColumnType = "percentage"
	ColumnTypeBoolean    ColumnType = "boolean"
	ColumnTypeEmpty      ColumnType = "empty"
)

// ColumnTypeInfo is the result of type inference for one column. It is created
// once per analysis run and never mutated afterwards; re-run inference if the
// table changes materially.
type ColumnTypeInfo struct {
	Type         ColumnType         `json:"type"`
	Confidence   float64            `json:"confidence"`
	Distribution map[ColumnType]int `json:"distribution"`
	SampleSize   int                `json:"sample_size"`
}
