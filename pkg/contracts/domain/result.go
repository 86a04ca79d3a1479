package domain

import "time"

// AnalysisMode biases which detection passes run and their thresholds.
type AnalysisMode string

const (
	ModeAuto    AnalysisMode = "auto"
	ModeFinance AnalysisMode = "finance"
	ModeSales   AnalysisMode = "sales"
	ModeData    AnalysisMode = "data"
	ModeStrict  AnalysisMode = "strict"
)

// AnalysisResult is everything the rule engine produces for one table.
type AnalysisResult struct {
	Issues       []Issue                   `json:"issues"`
	QualityScore QualityScore              `json:"quality_score"`
	Categorized  map[Severity][]Issue      `json:"categorized"`
	ColumnTypes  map[string]ColumnTypeInfo `json:"column_types"`
	RowCount     int                       `json:"row_count"`
	Mode         AnalysisMode              `json:"mode"`
}

// CleanResult is everything the auto-fix engine produces for one table.
type CleanResult struct {
	Table   *Table         `json:"table"`
	Stats   CleanStats     `json:"stats"`
	Changes []ChangeRecord `json:"changes"`
}

// StageTiming records how long one pipeline stage took.
type StageTiming struct {
	Stage    string        `json:"stage"`
	Duration time.Duration `json:"duration"`
	Success  bool          `json:"success"`
}

// PipelineResult is the orchestrator's structured result. Success is false
// when any stage failed; Stage then names the originating stage.
type PipelineResult struct {
	Success   bool            `json:"success"`
	Stage     string          `json:"stage,omitempty"`
	Error     string          `json:"error,omitempty"`
	Analysis  *AnalysisResult `json:"analysis,omitempty"`
	Clean     *CleanResult    `json:"clean,omitempty"`
	Timings   []StageTiming   `json:"timings,omitempty"`
	StartedAt time.Time       `json:"started_at"`
	Duration  time.Duration   `json:"duration"`
}
