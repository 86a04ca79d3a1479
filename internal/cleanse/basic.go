package cleanse

import (
	"context"
	"log/slog"
	"strings"

	"rapihcli/internal/parsing"
	"rapihcli/pkg/contracts/domain"
)

// BasicOptions selects the fast cleaning steps that run without a full
// analysis.
type BasicOptions struct {
	RemoveDuplicates bool   `json:"remove_duplicates"`
	RemoveEmpty      bool   `json:"remove_empty"`
	TrimWhitespace   bool   `json:"trim_whitespace"`
	TextCase         string `json:"text_case,omitempty" validate:"omitempty,oneof=upper lower title sentence"`
}

// BasicClean applies only the structural steps (whitespace, dedupe, empty
// rows) plus the optional case transform, skipping the rule engine entirely.
// Whitespace runs first for the same reason as in Clean: whitespace-only
// variants must collapse into the dedupe.
func (c *Cleaner) BasicClean(ctx context.Context, table *domain.Table, opts BasicOptions) *domain.CleanResult {
	work := table.Clone()
	log := newChangeLog()
	originalRows := len(work.Rows)

	if opts.TrimWhitespace {
		c.basicWhitespace(work, log)
	}
	if opts.RemoveDuplicates {
		c.removeDuplicateRows(work, log)
	}
	if opts.RemoveEmpty {
		c.removeEmptyRows(work, log)
	}
	if opts.TextCase != "" {
		c.basicTextCase(work, opts.TextCase, log)
	}

	stats := domain.CleanStats{
		TotalChanges:     log.cellsModified + log.rowsRemoved,
		RowsAffected:     len(log.rowsTouched),
		CellsModified:    log.cellsModified,
		OriginalRowCount: originalRows,
		CleanedRowCount:  len(work.Rows),
		RowsRemoved:      log.rowsRemoved,
	}

	c.logger.InfoContext(ctx, "basic clean complete",
		slog.Int("cells_modified", stats.CellsModified),
		slog.Int("rows_removed", stats.RowsRemoved))

	return &domain.CleanResult{Table: work, Stats: stats, Changes: log.records}
}

// basicWhitespace normalizes every cell; without type inference there is no
// way to exempt non-string columns, and trimming is safe for all of them.
func (c *Cleaner) basicWhitespace(table *domain.Table, log *changeLog) {
	fixed := 0
	for _, header := range table.Headers {
		for i := range table.Rows {
			old := table.Rows[i].Cells[header]
			cleaned := parsing.NormalizeWhitespace(old)
			if cleaned != old {
				table.Rows[i].Cells[header] = cleaned
				log.cell(table.Rows[i].SourceLine, header, old, cleaned)
				fixed++
			}
		}
	}
	if fixed > 0 {
		log.summary("normalize_whitespace", fixed, fixSummaryMessage("whitespace normalization", fixed))
	}
}

func (c *Cleaner) basicTextCase(table *domain.Table, style string, log *changeLog) {
	fixed := 0
	for _, header := range table.Headers {
		for i := range table.Rows {
			old := table.Rows[i].Cells[header]
			if strings.TrimSpace(old) == "" {
				continue
			}
			transformed := parsing.ApplyTextCase(old, style)
			if transformed != old {
				table.Rows[i].Cells[header] = transformed
				log.cell(table.Rows[i].SourceLine, header, old, transformed)
				fixed++
			}
		}
	}
	if fixed > 0 {
		log.summary("apply_text_case", fixed, fixSummaryMessage("text case transform", fixed))
	}
}
