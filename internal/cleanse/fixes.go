package cleanse

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"rapihcli/internal/analyze"
	"rapihcli/internal/identity"
	"rapihcli/internal/parsing"
	"rapihcli/pkg/contracts/domain"
)

// fixDuplicateHeaders renames later occurrences of a case-insensitively
// duplicated header with a numeric suffix and rewrites the row cells under
// the new names. Headers are unique afterwards.
func (c *Cleaner) fixDuplicateHeaders(table *domain.Table, log *changeLog) {
	seen := map[string]int{}
	renamed := 0
	for i, h := range table.Headers {
		key := strings.ToLower(strings.TrimSpace(h))
		seen[key]++
		if seen[key] == 1 {
			continue
		}
		newName := fmt.Sprintf("%s_%d", h, seen[key])
		for r := range table.Rows {
			table.Rows[r].Cells[newName] = table.Rows[r].Cells[h]
		}
		table.Headers[i] = newName
		renamed++
	}
	if renamed > 0 {
		log.summary("rename_duplicate_headers", renamed,
			fmt.Sprintf("renamed %d duplicate header(s) with numeric suffixes", renamed))
	}
}

// fixWhitespace trims and collapses internal spaces in every string-typed
// cell. It runs before dedupe so whitespace-only variants collapse.
func (c *Cleaner) fixWhitespace(table *domain.Table, analysis *domain.AnalysisResult, log *changeLog) {
	fixed := 0
	for _, header := range table.Headers {
		if columnType(analysis, header) != domain.ColumnTypeString {
			continue
		}
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

// removeDuplicateRows drops exact duplicates, keeping the first occurrence in
// stable order. The key is the case-insensitive trimmed cell tuple.
func (c *Cleaner) removeDuplicateRows(table *domain.Table, log *changeLog) {
	seen := map[string]bool{}
	kept := table.Rows[:0]
	removed := 0
	for _, row := range table.Rows {
		key := dedupeKey(table.Headers, row)
		if seen[key] {
			log.rowDrop(row.SourceLine, "exact duplicate of an earlier row")
			removed++
			continue
		}
		seen[key] = true
		kept = append(kept, row)
	}
	table.Rows = kept
	if removed > 0 {
		log.summary("remove_duplicates", removed,
			fmt.Sprintf("removed %d exact duplicate row(s)", removed))
	}
}

// dedupeKey must agree with the analyzer's duplicate detection key, so every
// detected duplicate actually collapses.
func dedupeKey(headers []string, row domain.Row) string {
	parts := make([]string, len(headers))
	for i, h := range headers {
		parts[i] = strings.ToLower(parsing.NormalizeWhitespace(row.Cells[h]))
	}
	return strings.Join(parts, "\x1f")
}

// removeEmptyRows drops rows whose every cell is blank.
func (c *Cleaner) removeEmptyRows(table *domain.Table, log *changeLog) {
	kept := table.Rows[:0]
	removed := 0
	for _, row := range table.Rows {
		empty := true
		for _, v := range row.Cells {
			if strings.TrimSpace(v) != "" {
				empty = false
				break
			}
		}
		if empty {
			log.rowDrop(row.SourceLine, "row is completely empty")
			removed++
			continue
		}
		kept = append(kept, row)
	}
	table.Rows = kept
	if removed > 0 {
		log.summary("remove_empty_rows", removed,
			fmt.Sprintf("removed %d empty row(s)", removed))
	}
}

// fixDates canonicalizes every parseable cell of the flagged date columns to
// the target format.
func (c *Cleaner) fixDates(table *domain.Table, analysis *domain.AnalysisResult, format string, log *changeLog) {
	fixed := 0
	for _, header := range columnsWithIssue(table, analysis, domain.IssueInconsistentDates) {
		for i := range table.Rows {
			old := strings.TrimSpace(table.Rows[i].Cells[header])
			if old == "" {
				continue
			}
			t, ok := parsing.ParseDate(old)
			if !ok {
				continue
			}
			canonical := parsing.FormatDate(t, format)
			if canonical != old {
				table.Rows[i].Cells[header] = canonical
				log.cell(table.Rows[i].SourceLine, header, old, canonical)
				fixed++
			}
		}
	}
	if fixed > 0 {
		log.summary("canonicalize_dates", fixed, fixSummaryMessage("date canonicalization", fixed))
	}
}

// fixCurrency reformats flagged currency columns to the canonical Rp form.
func (c *Cleaner) fixCurrency(table *domain.Table, analysis *domain.AnalysisResult, log *changeLog) {
	fixed := 0
	for _, header := range columnsWithIssue(table, analysis, domain.IssueUnformattedCurrency) {
		for i := range table.Rows {
			old := strings.TrimSpace(table.Rows[i].Cells[header])
			if old == "" || parsing.IsCanonicalRupiah(old) {
				continue
			}
			v, ok := parsing.ParseCurrency(old)
			if !ok {
				continue
			}
			canonical := parsing.FormatRupiah(v)
			table.Rows[i].Cells[header] = canonical
			log.cell(table.Rows[i].SourceLine, header, old, canonical)
			fixed++
		}
	}
	if fixed > 0 {
		log.summary("format_currency", fixed, fixSummaryMessage("currency formatting", fixed))
	}
}

// fixNumbers coerces formatted numeric text to plain numeric representation.
func (c *Cleaner) fixNumbers(table *domain.Table, analysis *domain.AnalysisResult, log *changeLog) {
	fixed := 0
	for _, header := range columnsWithIssue(table, analysis, domain.IssueNumberStoredAsText) {
		for i := range table.Rows {
			old := strings.TrimSpace(table.Rows[i].Cells[header])
			if old == "" {
				continue
			}
			v, ok := parsing.ParseNumber(old)
			if !ok {
				continue
			}
			plain := parsing.FormatNumber(v)
			if plain != old {
				table.Rows[i].Cells[header] = plain
				log.cell(table.Rows[i].SourceLine, header, old, plain)
				fixed++
			}
		}
	}
	if fixed > 0 {
		log.summary("coerce_numbers", fixed, fixSummaryMessage("numeric coercion", fixed))
	}
}

// fixPhones canonicalizes valid Indonesian numbers. Invalid numbers have no
// deterministic repair and are left alone.
func (c *Cleaner) fixPhones(table *domain.Table, analysis *domain.AnalysisResult, log *changeLog) {
	fixed := 0
	for _, header := range columnsWithIssue(table, analysis, domain.IssueUnformattedPhone, domain.IssueInvalidPhone) {
		for i := range table.Rows {
			old := strings.TrimSpace(table.Rows[i].Cells[header])
			if old == "" || !parsing.IsValidIndonesianPhone(old) {
				continue
			}
			canonical := parsing.FormatIndonesianPhone(old)
			if canonical != old {
				table.Rows[i].Cells[header] = canonical
				log.cell(table.Rows[i].SourceLine, header, old, canonical)
				fixed++
			}
		}
	}
	if fixed > 0 {
		log.summary("format_phones", fixed, fixSummaryMessage("phone formatting", fixed))
	}
}

// fixEmails normalizes email cells, but only when the normalized form passes
// validation; anything else stays for manual review.
func (c *Cleaner) fixEmails(table *domain.Table, analysis *domain.AnalysisResult, log *changeLog) {
	fixed := 0
	for _, header := range columnsWithIssue(table, analysis, domain.IssueFixableEmail, domain.IssueMixedCaseEmail) {
		for i := range table.Rows {
			old := strings.TrimSpace(table.Rows[i].Cells[header])
			if old == "" {
				continue
			}
			normalized := parsing.NormalizeEmail(old)
			if normalized == old || !parsing.IsValidEmail(normalized) {
				continue
			}
			table.Rows[i].Cells[header] = normalized
			log.cell(table.Rows[i].SourceLine, header, old, normalized)
			fixed++
		}
	}
	if fixed > 0 {
		log.summary("normalize_emails", fixed, fixSummaryMessage("email normalization", fixed))
	}
}

// repairCalculations overwrites the total column with qty*price wherever the
// stored value is missing or outside tolerance, using the columns the
// analyzer recorded in fixInfo. Missing columns mean the precondition no
// longer holds; the fix is skipped.
func (c *Cleaner) repairCalculations(ctx context.Context, table *domain.Table, analysis *domain.AnalysisResult, log *changeLog) {
	info := fixInfoFor(analysis, domain.IssueCalculationError)
	if info == nil {
		return
	}
	qtyCol, _ := info["quantity_column"].(string)
	priceCol, _ := info["price_column"].(string)
	totalCol, _ := info["total_column"].(string)
	if !hasHeaders(table, qtyCol, priceCol, totalCol) {
		c.logger.WarnContext(ctx, "calculation repair skipped: referenced column missing",
			slog.String("quantity", qtyCol),
			slog.String("price", priceCol),
			slog.String("total", totalCol))
		return
	}

	asCurrency := columnType(analysis, totalCol) == domain.ColumnTypeCurrency
	fixed := 0
	for i := range table.Rows {
		row := &table.Rows[i]
		qty, okQ := parsing.ParseCurrency(row.Cells[qtyCol])
		price, okP := parsing.ParseCurrency(row.Cells[priceCol])
		if !okQ || !okP {
			continue
		}
		want := qty * price
		old := strings.TrimSpace(row.Cells[totalCol])
		if stored, ok := parsing.ParseCurrency(old); ok && stored == want {
			continue
		}
		var corrected string
		if asCurrency {
			corrected = parsing.FormatRupiah(want)
		} else {
			corrected = parsing.FormatNumber(want)
		}
		if corrected == old {
			continue
		}
		row.Cells[totalCol] = corrected
		log.cell(row.SourceLine, totalCol, old, corrected)
		fixed++
	}
	if fixed > 0 {
		log.summary("repair_calculations", fixed,
			fmt.Sprintf("recomputed %s as %s * %s for %d row(s)", totalCol, qtyCol, priceCol, fixed))
	}
}

// repairTax overwrites the VAT column with round(dpp * rate).
func (c *Cleaner) repairTax(ctx context.Context, table *domain.Table, analysis *domain.AnalysisResult, log *changeLog) {
	info := fixInfoFor(analysis, domain.IssueTaxCalculationError)
	if info == nil {
		return
	}
	dppCol, _ := info["dpp_column"].(string)
	vatCol, _ := info["vat_column"].(string)
	rate, _ := info["rate"].(float64)
	if rate == 0 {
		rate = analyze.VATRate
	}
	if !hasHeaders(table, dppCol, vatCol) {
		c.logger.WarnContext(ctx, "tax repair skipped: referenced column missing",
			slog.String("dpp", dppCol),
			slog.String("vat", vatCol))
		return
	}

	asCurrency := columnType(analysis, vatCol) == domain.ColumnTypeCurrency
	fixed := 0
	for i := range table.Rows {
		row := &table.Rows[i]
		dpp, ok := parsing.ParseCurrency(row.Cells[dppCol])
		if !ok {
			continue
		}
		want := math.Round(dpp * rate)
		old := strings.TrimSpace(row.Cells[vatCol])
		if stored, okV := parsing.ParseCurrency(old); okV && stored == want {
			continue
		}
		var corrected string
		if asCurrency {
			corrected = parsing.FormatRupiah(want)
		} else {
			corrected = parsing.FormatNumber(want)
		}
		if corrected == old {
			continue
		}
		row.Cells[vatCol] = corrected
		log.cell(row.SourceLine, vatCol, old, corrected)
		fixed++
	}
	if fixed > 0 {
		log.summary("repair_tax", fixed,
			fmt.Sprintf("recomputed %s as round(%s * %.2f) for %d row(s)", vatCol, dppCol, rate, fixed))
	}
}

// fixNPWP applies canonical punctuation to valid but unformatted tax ids.
func (c *Cleaner) fixNPWP(table *domain.Table, analysis *domain.AnalysisResult, log *changeLog) {
	fixed := 0
	for _, header := range columnsWithIssue(table, analysis, domain.IssueUnformattedNPWP) {
		for i := range table.Rows {
			old := strings.TrimSpace(table.Rows[i].Cells[header])
			if old == "" || !identity.ValidateNPWP(old).Valid {
				continue
			}
			canonical := identity.FormatNPWP(old)
			if canonical != old {
				table.Rows[i].Cells[header] = canonical
				log.cell(table.Rows[i].SourceLine, header, old, canonical)
				fixed++
			}
		}
	}
	if fixed > 0 {
		log.summary("format_npwp", fixed, fixSummaryMessage("NPWP formatting", fixed))
	}
}

// applyTextCase is the optional uniform case transform over string columns.
// It is driven by the request, not by detected issues.
func (c *Cleaner) applyTextCase(table *domain.Table, analysis *domain.AnalysisResult, style string, log *changeLog) {
	fixed := 0
	for _, header := range table.Headers {
		if columnType(analysis, header) != domain.ColumnTypeString {
			continue
		}
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
		log.summary("apply_text_case", fixed,
			fmt.Sprintf("applied %s case to %d cell(s)", style, fixed))
	}
}

func fixInfoFor(analysis *domain.AnalysisResult, t domain.IssueType) map[string]interface{} {
	for _, issue := range analysis.Issues {
		if issue.Type == t && issue.FixInfo != nil {
			return issue.FixInfo
		}
	}
	return nil
}

func hasHeaders(table *domain.Table, headers ...string) bool {
	present := map[string]bool{}
	for _, h := range table.Headers {
		present[h] = true
	}
	for _, h := range headers {
		if h == "" || !present[h] {
			return false
		}
	}
	return true
}
