package pipeline

import (
	"context"
	"fmt"

	"rapihcli/internal/analyze"
	"rapihcli/internal/cleanse"
	"rapihcli/internal/inference"
	"rapihcli/pkg/contracts/domain"
)

// Source produces the raw table for a run. Ingesters (xlsx, CSV, HTTP
// uploads) implement it; the pipeline never parses file bytes itself.
type Source interface {
	// Parse reads the input and returns the table. An unreadable or empty
	// input is a ParseFailure and aborts the run before analysis.
	Parse(ctx context.Context) (*domain.Table, error)
}

// Renderer consumes the cleaned table and renders an output artifact.
// Exporters implement it; a nil renderer skips the format stage.
type Renderer interface {
	Render(ctx context.Context, table *domain.Table, analysis *domain.AnalysisResult) (string, error)
}

// parseStep ingests the input table.
type parseStep struct {
	source Source
}

func (s *parseStep) ID() string   { return StageIDParse }
func (s *parseStep) Name() string { return StageNameParse }

func (s *parseStep) Execute(ctx context.Context, state *State) error {
	table, err := s.source.Parse(ctx)
	if err != nil {
		return fmt.Errorf("parse failed: %w", err)
	}
	if table == nil || len(table.Headers) == 0 {
		return fmt.Errorf("parse produced no columns")
	}
	state.Table = table
	state.Steps[StageIDParse].Metadata["rows"] = table.RowCount()
	state.Steps[StageIDParse].Metadata["columns"] = len(table.Headers)
	return nil
}

// analyzeStep runs type inference and the rule engine.
type analyzeStep struct {
	analyzer *analyze.Analyzer
}

func (s *analyzeStep) ID() string   { return StageIDAnalyze }
func (s *analyzeStep) Name() string { return StageNameAnalyze }

func (s *analyzeStep) Execute(ctx context.Context, state *State) error {
	state.Types = inference.Infer(state.Table.Headers, state.Table.Rows)
	state.Analysis = s.analyzer.Analyze(ctx, state.Table, state.Types, state.Mode)
	state.Steps[StageIDAnalyze].Metadata["issues"] = len(state.Analysis.Issues)
	state.Steps[StageIDAnalyze].Metadata["score"] = state.Analysis.QualityScore.Score
	return nil
}

// cleanStep applies the auto-fix engine.
type cleanStep struct {
	cleaner *cleanse.Cleaner
}

func (s *cleanStep) ID() string   { return StageIDClean }
func (s *cleanStep) Name() string { return StageNameClean }

func (s *cleanStep) Execute(ctx context.Context, state *State) error {
	state.Clean = s.cleaner.Clean(ctx, state.Table, state.Analysis, state.CleanOptions)
	state.Steps[StageIDClean].Metadata["cells_modified"] = state.Clean.Stats.CellsModified
	state.Steps[StageIDClean].Metadata["rows_removed"] = state.Clean.Stats.RowsRemoved
	return nil
}

// formatStep renders the cleaned output through the external renderer.
type formatStep struct {
	renderer Renderer
}

func (s *formatStep) ID() string   { return StageIDFormat }
func (s *formatStep) Name() string { return StageNameFormat }

func (s *formatStep) Execute(ctx context.Context, state *State) error {
	if s.renderer == nil {
		state.Steps[StageIDFormat].Status = StepStatusSkipped
		return nil
	}
	path, err := s.renderer.Render(ctx, state.Clean.Table, state.Analysis)
	if err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	state.OutputPath = path
	state.Steps[StageIDFormat].Metadata["output"] = path
	return nil
}

// reportStep is a checkpoint: it verifies every artifact the final result
// needs is present before the manager assembles it.
type reportStep struct{}

func (s *reportStep) ID() string   { return StageIDReport }
func (s *reportStep) Name() string { return StageNameReport }

func (s *reportStep) Execute(ctx context.Context, state *State) error {
	if state.Analysis == nil {
		return fmt.Errorf("no analysis result to report")
	}
	if state.Clean == nil {
		return fmt.Errorf("no clean result to report")
	}
	return nil
}
