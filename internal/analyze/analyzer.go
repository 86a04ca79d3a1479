// Package analyze is the rule engine: it runs independent detection passes
// over a typed table and emits Issue records. The analyzer never mutates the
// table; repairs are the cleaner's job.
package analyze

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"rapihcli/pkg/contracts/domain"
)

// Analyzer runs the detection passes. Instances hold configuration only; all
// per-run state lives in the run struct so concurrent Analyze calls are
// independent.
type Analyzer struct {
	logger *slog.Logger
	cfg    Config
}

// New creates an Analyzer. A nil logger falls back to slog.Default.
func New(logger *slog.Logger, cfg Config) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{
		logger: logger.With(slog.String("component", "analyzer")),
		cfg:    cfg,
	}
}

// run is the per-call context: one Analyze invocation, one run value.
type run struct {
	table *domain.Table
	types map[string]domain.ColumnTypeInfo
	cfg   Config
}

// pass is one independent detection pass.
type pass struct {
	name string
	fn   func(*run) []domain.Issue
}

// Analyze executes every detection pass and aggregates the results into an
// AnalysisResult. A panic inside one pass is isolated: the pass is logged and
// skipped, the others still contribute.
func (a *Analyzer) Analyze(ctx context.Context, table *domain.Table, types map[string]domain.ColumnTypeInfo, mode domain.AnalysisMode) *domain.AnalysisResult {
	if mode == "" {
		mode = domain.ModeAuto
	}
	r := &run{table: table, types: types, cfg: a.cfg.forMode(mode)}

	passes := []pass{
		{"structure", (*run).structurePass},
		{"format", (*run).formatPass},
		{"quality", (*run).qualityPass},
		{"duplicates", (*run).duplicatePass},
		{"outliers", (*run).outlierPass},
		{"country", (*run).countryPass},
	}
	if r.cfg.RunLogicPasses {
		passes = append(passes,
			pass{"logic", (*run).logicPass},
			pass{"tax", (*run).taxPass},
		)
	}

	var issues []domain.Issue
	for _, p := range passes {
		found, err := a.runPass(ctx, p, r)
		if err != nil {
			a.logger.ErrorContext(ctx, "detection pass failed, skipping",
				slog.String("pass", p.name),
				slog.Any("error", err))
			continue
		}
		issues = append(issues, found...)
	}

	result := &domain.AnalysisResult{
		Issues:       issues,
		QualityScore: Score(issues, table.RowCount()),
		Categorized:  categorize(issues),
		ColumnTypes:  types,
		RowCount:     table.RowCount(),
		Mode:         mode,
	}

	a.logger.InfoContext(ctx, "analysis complete",
		slog.Int("rows", table.RowCount()),
		slog.Int("issues", len(issues)),
		slog.Int("score", result.QualityScore.Score),
		slog.String("mode", string(mode)))
	return result
}

// runPass executes one pass, converting a panic into an error so a single
// broken pass never aborts the whole analysis.
func (a *Analyzer) runPass(ctx context.Context, p pass, r *run) (issues []domain.Issue, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			issues = nil
			err = fmt.Errorf("pass %s panicked: %v", p.name, rec)
		}
	}()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return p.fn(r), nil
}

func categorize(issues []domain.Issue) map[domain.Severity][]domain.Issue {
	out := map[domain.Severity][]domain.Issue{
		domain.SeverityAutoFix:     {},
		domain.SeverityNeedsReview: {},
		domain.SeverityCritical:    {},
	}
	for _, issue := range issues {
		out[issue.Severity] = append(out[issue.Severity], issue)
	}
	return out
}

// newIssue builds an Issue with a fresh ID. AutoFix follows the severity.
func newIssue(t domain.IssueType, severity domain.Severity, message string) domain.Issue {
	return domain.Issue{
		ID:       uuid.NewString(),
		Type:     t,
		Severity: severity,
		Message:  message,
		AutoFix:  severity == domain.SeverityAutoFix,
	}
}
