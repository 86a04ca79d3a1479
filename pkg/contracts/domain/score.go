package domain

// QualityScore is the aggregated data-quality rating of a dataset. It is a
// pure function of the issue list and row count; no state persists between
// runs.
type QualityScore struct {
	Score int    `json:"score"`
	Grade string `json:"grade"`
	Label string `json:"label"`
}
