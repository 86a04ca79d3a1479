// Package cleanse is the auto-fix engine. It consumes the analyzer's issue
// list, applies the deterministic repairs to a deep copy of the table, and
// logs every change.
package cleanse

import (
	"context"
	"fmt"
	"log/slog"

	"rapihcli/internal/parsing"
	"rapihcli/pkg/contracts/domain"
)

// Options configures one cleaning run.
type Options struct {
	// DateFormat is the target pattern for date canonicalization.
	// Defaults to parsing.DefaultDateFormat.
	DateFormat string `json:"date_format,omitempty" validate:"omitempty,oneof=DD-MMM-YYYY YYYY-MM-DD DD/MM/YYYY DD-MM-YYYY"`
	// TextCase requests the optional uniform case transform on string
	// columns: upper, lower, title or sentence. Empty skips the pass.
	TextCase string `json:"text_case,omitempty" validate:"omitempty,oneof=upper lower title sentence"`
}

// Cleaner applies deterministic fixes. Instances hold no per-run state;
// concurrent Clean calls are independent.
type Cleaner struct {
	logger *slog.Logger
}

// New creates a Cleaner. A nil logger falls back to slog.Default.
func New(logger *slog.Logger) *Cleaner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{logger: logger.With(slog.String("component", "cleaner"))}
}

// changeLog is the per-run accumulator behind the ChangeRecord contract.
type changeLog struct {
	records       []domain.ChangeRecord
	cellsModified int
	rowsTouched   map[int]bool
	rowsRemoved   int
}

func newChangeLog() *changeLog {
	return &changeLog{rowsTouched: map[int]bool{}}
}

func (l *changeLog) cell(line int, column, oldValue, newValue string) {
	l.records = append(l.records, domain.ChangeRecord{
		Type:     domain.ChangeTypeCell,
		Row:      line,
		Column:   column,
		OldValue: oldValue,
		NewValue: newValue,
	})
	l.cellsModified++
	l.rowsTouched[line] = true
}

func (l *changeLog) rowDrop(line int, reason string) {
	l.records = append(l.records, domain.ChangeRecord{
		Type:    domain.ChangeTypeRowDrop,
		Row:     line,
		Message: reason,
	})
	l.rowsRemoved++
	l.rowsTouched[line] = true
}

func (l *changeLog) summary(operation string, count int, message string) {
	l.records = append(l.records, domain.ChangeRecord{
		Type:      domain.ChangeTypeSummary,
		Operation: operation,
		Count:     count,
		Message:   message,
	})
}

// Clean applies every fix whose AUTO_FIX issue type is present in the
// analysis. The input table is never mutated; all work happens on a clone.
//
// Fix ordering is a contract: whitespace normalization runs before exact
// dedupe, so rows differing only by whitespace collapse into one; duplicate
// and empty rows are removed before the content fixes, so those operate on
// the final row set.
func (c *Cleaner) Clean(ctx context.Context, table *domain.Table, analysis *domain.AnalysisResult, opts Options) *domain.CleanResult {
	if opts.DateFormat == "" {
		opts.DateFormat = parsing.DefaultDateFormat
	}

	work := table.Clone()
	log := newChangeLog()
	originalRows := len(work.Rows)
	present := issueTypesPresent(analysis)

	if present[domain.IssueDuplicateHeader] {
		c.fixDuplicateHeaders(work, log)
	}
	if present[domain.IssueWhitespace] {
		c.fixWhitespace(work, analysis, log)
	}
	if present[domain.IssueDuplicateRows] {
		c.removeDuplicateRows(work, log)
	}
	if present[domain.IssueEmptyRows] {
		c.removeEmptyRows(work, log)
	}
	if present[domain.IssueInconsistentDates] {
		c.fixDates(work, analysis, opts.DateFormat, log)
	}
	if present[domain.IssueUnformattedCurrency] {
		c.fixCurrency(work, analysis, log)
	}
	if present[domain.IssueNumberStoredAsText] {
		c.fixNumbers(work, analysis, log)
	}
	if present[domain.IssueUnformattedPhone] || present[domain.IssueInvalidPhone] {
		c.fixPhones(work, analysis, log)
	}
	if present[domain.IssueFixableEmail] || present[domain.IssueMixedCaseEmail] {
		c.fixEmails(work, analysis, log)
	}
	if present[domain.IssueCalculationError] {
		c.repairCalculations(ctx, work, analysis, log)
	}
	if present[domain.IssueTaxCalculationError] {
		c.repairTax(ctx, work, analysis, log)
	}
	if present[domain.IssueUnformattedNPWP] {
		c.fixNPWP(work, analysis, log)
	}
	if opts.TextCase != "" {
		c.applyTextCase(work, analysis, opts.TextCase, log)
	}

	stats := domain.CleanStats{
		TotalChanges:     log.cellsModified + log.rowsRemoved,
		RowsAffected:     len(log.rowsTouched),
		CellsModified:    log.cellsModified,
		OriginalRowCount: originalRows,
		CleanedRowCount:  len(work.Rows),
		RowsRemoved:      log.rowsRemoved,
	}

	c.logger.InfoContext(ctx, "cleaning complete",
		slog.Int("cells_modified", stats.CellsModified),
		slog.Int("rows_removed", stats.RowsRemoved),
		slog.Int("rows_affected", stats.RowsAffected))

	return &domain.CleanResult{Table: work, Stats: stats, Changes: log.records}
}

func issueTypesPresent(analysis *domain.AnalysisResult) map[domain.IssueType]bool {
	present := map[domain.IssueType]bool{}
	if analysis == nil {
		return present
	}
	for _, issue := range analysis.Issues {
		present[issue.Type] = true
	}
	return present
}

// columnsWithIssue collects the distinct columns carrying issues of the given
// types, preserving header order.
func columnsWithIssue(table *domain.Table, analysis *domain.AnalysisResult, types ...domain.IssueType) []string {
	wanted := map[domain.IssueType]bool{}
	for _, t := range types {
		wanted[t] = true
	}
	flagged := map[string]bool{}
	for _, issue := range analysis.Issues {
		if wanted[issue.Type] && issue.Column != "" {
			flagged[issue.Column] = true
		}
	}
	var ordered []string
	for _, h := range table.Headers {
		if flagged[h] {
			ordered = append(ordered, h)
		}
	}
	return ordered
}

// columnType looks up the inferred type, defaulting to string. A nil
// analysis means no inference ran; every column is treated as string.
func columnType(analysis *domain.AnalysisResult, header string) domain.ColumnType {
	if analysis == nil {
		return domain.ColumnTypeString
	}
	if info, ok := analysis.ColumnTypes[header]; ok {
		return info.Type
	}
	return domain.ColumnTypeString
}

func fixSummaryMessage(operation string, count int) string {
	return fmt.Sprintf("%s applied to %d cell(s)", operation, count)
}
