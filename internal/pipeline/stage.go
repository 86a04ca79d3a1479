// Package pipeline sequences the Parse, Analyze, Clean, Format and Report
// stages of one dataset run. Execution is strictly sequential and
// synchronous; concurrent runs share no mutable state because every Run call
// constructs fresh state.
package pipeline

import (
	"context"
	"time"
)

// Stage identifiers.
const (
	StageIDParse   = "parse"
	StageIDAnalyze = "analyze"
	StageIDClean   = "clean"
	StageIDFormat  = "format"
	StageIDReport  = "report"
)

// Stage names.
const (
	StageNameParse   = "File Ingestion"
	StageNameAnalyze = "Quality Analysis"
	StageNameClean   = "Auto Fix"
	StageNameFormat  = "Output Rendering"
	StageNameReport  = "Report Assembly"
)

// Step is a single stage of the pipeline.
type Step interface {
	// ID returns the unique identifier for this step.
	ID() string

	// Name returns the human-readable name for this step.
	Name() string

	// Execute runs the step against the run state.
	Execute(ctx context.Context, state *State) error
}

// StepStatus represents the current status of a step.
type StepStatus string

const (
	StepStatusPending   StepStatus = "pending"
	StepStatusActive    StepStatus = "active"
	StepStatusCompleted StepStatus = "completed"
	StepStatusFailed    StepStatus = "failed"
	StepStatusSkipped   StepStatus = "skipped"
)

// StepState is the runtime record of one step within one run. Runs are
// single-threaded, so no locking is needed here; the state is only published
// to observers through progress events.
type StepState struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Status    StepStatus             `json:"status"`
	StartTime *time.Time             `json:"start_time,omitempty"`
	EndTime   *time.Time             `json:"end_time,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
}

// NewStepState creates a pending step state.
func NewStepState(id, name string) *StepState {
	return &StepState{
		ID:       id,
		Name:     name,
		Status:   StepStatusPending,
		Metadata: make(map[string]interface{}),
	}
}

// Start marks the step active.
func (s *StepState) Start() {
	now := time.Now()
	s.StartTime = &now
	s.Status = StepStatusActive
}

// Complete marks the step completed.
func (s *StepState) Complete() {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusCompleted
}

// Fail marks the step failed.
func (s *StepState) Fail(err error) {
	now := time.Now()
	s.EndTime = &now
	s.Status = StepStatusFailed
	if err != nil {
		s.Error = err.Error()
	}
}

// Duration returns how long the step ran, or 0 if it never started.
func (s *StepState) Duration() time.Duration {
	if s.StartTime == nil {
		return 0
	}
	end := time.Now()
	if s.EndTime != nil {
		end = *s.EndTime
	}
	return end.Sub(*s.StartTime)
}
