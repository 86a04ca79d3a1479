package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"rapihcli/internal/analyze"
	"rapihcli/internal/cleanse"
	"rapihcli/pkg/contracts/domain"
)

// ProgressEvent is published to observers as steps advance.
type ProgressEvent struct {
	RunID   string     `json:"run_id"`
	StageID string     `json:"stage_id"`
	Name    string     `json:"name"`
	Status  StepStatus `json:"status"`
	Message string     `json:"message,omitempty"`
}

// Notifier receives progress events. The websocket hub implements it; a nil
// notifier disables progress reporting.
type Notifier interface {
	NotifyProgress(event ProgressEvent)
}

// Request describes one pipeline run.
type Request struct {
	Source       Source
	Renderer     Renderer
	Mode         domain.AnalysisMode
	CleanOptions cleanse.Options
}

// Manager owns the stage sequence. It holds only immutable collaborators, so
// a single Manager serves concurrent runs safely.
type Manager struct {
	logger   *slog.Logger
	analyzer *analyze.Analyzer
	cleaner  *cleanse.Cleaner
	notifier Notifier
}

// NewManager wires the pipeline. A nil logger falls back to slog.Default.
func NewManager(logger *slog.Logger, analyzer *analyze.Analyzer, cleaner *cleanse.Cleaner, notifier Notifier) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		logger:   logger.With(slog.String("component", "pipeline")),
		analyzer: analyzer,
		cleaner:  cleaner,
		notifier: notifier,
	}
}

// Run executes the five stages in order. Any stage failure short-circuits the
// remainder and the result carries the originating stage; Run itself never
// returns an error past this boundary.
func (m *Manager) Run(ctx context.Context, req Request) *domain.PipelineResult {
	runID := uuid.NewString()
	state := NewState(runID, req.Mode, req.CleanOptions)
	state.Status = RunStatusRunning

	steps := []Step{
		&parseStep{source: req.Source},
		&analyzeStep{analyzer: m.analyzer},
		&cleanStep{cleaner: m.cleaner},
		&formatStep{renderer: req.Renderer},
		&reportStep{},
	}
	for _, step := range steps {
		state.Steps[step.ID()] = NewStepState(step.ID(), step.Name())
	}

	m.logger.InfoContext(ctx, "pipeline run starting",
		slog.String("run_id", runID),
		slog.String("mode", string(req.Mode)))

	for _, step := range steps {
		if err := m.executeStep(ctx, step, state); err != nil {
			state.Status = RunStatusFailed
			m.logger.ErrorContext(ctx, "pipeline run failed",
				slog.String("run_id", runID),
				slog.String("stage", step.ID()),
				slog.Any("error", err))
			return m.failureResult(state, steps, step.ID(), err)
		}
	}

	now := time.Now()
	state.EndTime = &now
	state.Status = RunStatusCompleted

	m.logger.InfoContext(ctx, "pipeline run completed",
		slog.String("run_id", runID),
		slog.Duration("duration", now.Sub(state.StartTime)))

	return &domain.PipelineResult{
		Success:   true,
		Analysis:  state.Analysis,
		Clean:     state.Clean,
		Timings:   state.Timings(steps),
		StartedAt: state.StartTime,
		Duration:  now.Sub(state.StartTime),
	}
}

// executeStep runs one step with timing, progress events, and panic
// containment. A stage panic becomes a stage-attributed failure instead of
// escaping the pipeline boundary.
func (m *Manager) executeStep(ctx context.Context, step Step, state *State) (err error) {
	stepState := state.Steps[step.ID()]
	stepState.Start()
	m.notify(state, stepState)

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("stage %s panicked: %v", step.ID(), rec)
		}
		if err != nil {
			stepState.Fail(err)
		} else if stepState.Status != StepStatusSkipped {
			stepState.Complete()
		}
		m.notify(state, stepState)
		m.logger.DebugContext(ctx, "stage finished",
			slog.String("run_id", state.ID),
			slog.String("stage", step.ID()),
			slog.String("status", string(stepState.Status)),
			slog.Duration("duration", stepState.Duration()))
	}()

	if err := ctx.Err(); err != nil {
		return err
	}
	return step.Execute(ctx, state)
}

func (m *Manager) notify(state *State, stepState *StepState) {
	if m.notifier == nil {
		return
	}
	m.notifier.NotifyProgress(ProgressEvent{
		RunID:   state.ID,
		StageID: stepState.ID,
		Name:    stepState.Name,
		Status:  stepState.Status,
		Message: stepState.Message,
	})
}

func (m *Manager) failureResult(state *State, steps []Step, stageID string, err error) *domain.PipelineResult {
	now := time.Now()
	state.EndTime = &now
	return &domain.PipelineResult{
		Success:   false,
		Stage:     stageID,
		Error:     err.Error(),
		Analysis:  state.Analysis,
		Clean:     state.Clean,
		Timings:   state.Timings(steps),
		StartedAt: state.StartTime,
		Duration:  now.Sub(state.StartTime),
	}
}
