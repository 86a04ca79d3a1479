package pipeline

import (
	"time"

	"rapihcli/internal/cleanse"
	"rapihcli/pkg/contracts/domain"
)

// RunStatus is the overall status of one pipeline run.
type RunStatus string

const (
	RunStatusPending   RunStatus = "pending"
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
)

// State is the complete state of one pipeline run. A fresh State is built for
// every Run call; nothing in it outlives the run.
type State struct {
	ID        string                `json:"id"`
	Status    RunStatus             `json:"status"`
	StartTime time.Time             `json:"start_time"`
	EndTime   *time.Time            `json:"end_time,omitempty"`
	Steps     map[string]*StepState `json:"steps"`

	// Request parameters.
	Mode         domain.AnalysisMode `json:"mode"`
	CleanOptions cleanse.Options     `json:"clean_options"`

	// Stage artifacts, populated as stages complete.
	Table      *domain.Table             `json:"-"`
	Types      map[string]domain.ColumnTypeInfo `json:"-"`
	Analysis   *domain.AnalysisResult    `json:"-"`
	Clean      *domain.CleanResult       `json:"-"`
	OutputPath string                    `json:"output_path,omitempty"`
}

// NewState creates the state of a fresh run.
func NewState(id string, mode domain.AnalysisMode, opts cleanse.Options) *State {
	return &State{
		ID:           id,
		Status:       RunStatusPending,
		StartTime:    time.Now(),
		Steps:        make(map[string]*StepState),
		Mode:         mode,
		CleanOptions: opts,
	}
}

// Timings collects the per-stage timings in stage order.
func (s *State) Timings(order []Step) []domain.StageTiming {
	timings := make([]domain.StageTiming, 0, len(order))
	for _, step := range order {
		st, ok := s.Steps[step.ID()]
		if !ok || st.StartTime == nil {
			continue
		}
		timings = append(timings, domain.StageTiming{
			Stage:    st.ID,
			Duration: st.Duration(),
			Success:  st.Status == StepStatusCompleted,
		})
	}
	return timings
}
