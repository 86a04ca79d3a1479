package analyze

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"rapihcli/internal/parsing"
	"rapihcli/pkg/contracts/domain"
)

// formatPass checks per-column format consistency, dispatched by the inferred
// column type.
func (r *run) formatPass() []domain.Issue {
	var issues []domain.Issue
	for _, header := range r.table.Headers {
		info, ok := r.types[header]
		if !ok {
			continue
		}
		switch info.Type {
		case domain.ColumnTypeDate:
			issues = append(issues, r.checkDateColumn(header)...)
		case domain.ColumnTypeCurrency:
			issues = append(issues, r.checkCurrencyColumn(header)...)
		case domain.ColumnTypeNumber:
			issues = append(issues, r.checkNumberColumn(header)...)
		case domain.ColumnTypePhone:
			issues = append(issues, r.checkPhoneColumn(header)...)
		case domain.ColumnTypeEmail:
			issues = append(issues, r.checkEmailColumn(header)...)
		case domain.ColumnTypeString:
			issues = append(issues, r.checkStringColumn(header)...)
		}
	}
	return issues
}

func (r *run) checkDateColumn(header string) []domain.Issue {
	var issues []domain.Issue
	formats := map[string]int{}
	now := time.Now()

	for _, row := range r.table.Rows {
		value := strings.TrimSpace(row.Cells[header])
		if value == "" {
			continue
		}
		if t, ok := parsing.ParseDate(value); ok {
			formats[parsing.DetectDateFormat(value)]++
			if t.After(now) {
				issue := newIssue(domain.IssueFutureDate, r.cfg.FutureDateSeverity,
					fmt.Sprintf("date %q in column %q is in the future", value, header))
				issue.Row = row.SourceLine
				issue.Column = header
				issue.Value = value
				issue.Suggestion = "Verify the date; future dates are usually entry errors"
				issues = append(issues, issue)
			}
		}
	}

	if len(formats) > 1 {
		names := make([]string, 0, len(formats))
		affected := 0
		for f, n := range formats {
			names = append(names, f)
			affected += n
		}
		sort.Strings(names)
		issue := newIssue(domain.IssueInconsistentDates, domain.SeverityAutoFix,
			fmt.Sprintf("column %q mixes %d date formats: %s", header, len(formats), strings.Join(names, ", ")))
		issue.Column = header
		issue.Suggestion = fmt.Sprintf("Convert every date to %s", parsing.DefaultDateFormat)
		issue.AffectedRows = affected
		issue.Details = map[string]interface{}{"formats": formats}
		issues = append(issues, issue)
	}
	return issues
}

func (r *run) checkCurrencyColumn(header string) []domain.Issue {
	var unformatted []int
	for _, row := range r.table.Rows {
		value := strings.TrimSpace(row.Cells[header])
		if value == "" {
			continue
		}
		if _, ok := parsing.ParseCurrency(value); ok && !parsing.IsCanonicalRupiah(value) {
			unformatted = append(unformatted, row.SourceLine)
		}
	}
	if len(unformatted) == 0 {
		return nil
	}
	issue := newIssue(domain.IssueUnformattedCurrency, domain.SeverityAutoFix,
		fmt.Sprintf("column %q has %d currency value(s) not in canonical Rp form", header, len(unformatted)))
	issue.Column = header
	issue.Suggestion = "Reformat as Rp with thousand separators"
	issue.AffectedRows = len(unformatted)
	issue.Details = map[string]interface{}{"lines": capInts(unformatted, MaxDuplicateDetails)}
	return []domain.Issue{issue}
}

func (r *run) checkNumberColumn(header string) []domain.Issue {
	var textStored []int
	for _, row := range r.table.Rows {
		value := strings.TrimSpace(row.Cells[header])
		if value == "" {
			continue
		}
		if v, ok := parsing.ParseNumber(value); ok && value != parsing.FormatNumber(v) {
			textStored = append(textStored, row.SourceLine)
		}
	}
	if len(textStored) == 0 {
		return nil
	}
	issue := newIssue(domain.IssueNumberStoredAsText, domain.SeverityAutoFix,
		fmt.Sprintf("column %q has %d numeric value(s) stored as formatted text", header, len(textStored)))
	issue.Column = header
	issue.Suggestion = "Store plain numeric values"
	issue.AffectedRows = len(textStored)
	issue.Details = map[string]interface{}{"lines": capInts(textStored, MaxDuplicateDetails)}
	return []domain.Issue{issue}
}

func (r *run) checkPhoneColumn(header string) []domain.Issue {
	var issues []domain.Issue
	var invalid, unformatted []int
	for _, row := range r.table.Rows {
		value := strings.TrimSpace(row.Cells[header])
		if value == "" {
			continue
		}
		switch {
		case !parsing.IsValidIndonesianPhone(value):
			invalid = append(invalid, row.SourceLine)
		case !parsing.IsCanonicalPhone(value):
			unformatted = append(unformatted, row.SourceLine)
		}
	}
	if len(invalid) > 0 {
		issue := newIssue(domain.IssueInvalidPhone, domain.SeverityAutoFix,
			fmt.Sprintf("column %q has %d value(s) failing the Indonesian phone pattern", header, len(invalid)))
		issue.Column = header
		issue.Suggestion = "Check prefix (+62/62/0) and digit count"
		issue.AffectedRows = len(invalid)
		issue.Details = map[string]interface{}{"lines": capInts(invalid, MaxDuplicateDetails)}
		issues = append(issues, issue)
	}
	if len(unformatted) > 0 {
		issue := newIssue(domain.IssueUnformattedPhone, domain.SeverityAutoFix,
			fmt.Sprintf("column %q has %d valid but unformatted phone number(s)", header, len(unformatted)))
		issue.Column = header
		issue.Suggestion = "Reformat as +62 XXX-XXXX-XXXX"
		issue.AffectedRows = len(unformatted)
		issues = append(issues, issue)
	}
	return issues
}

func (r *run) checkEmailColumn(header string) []domain.Issue {
	var issues []domain.Issue
	var mixedCase []int
	for _, row := range r.table.Rows {
		value := strings.TrimSpace(row.Cells[header])
		if value == "" {
			continue
		}
		if parsing.IsValidEmail(value) {
			if value != strings.ToLower(value) {
				mixedCase = append(mixedCase, row.SourceLine)
			}
			continue
		}
		fixed := parsing.NormalizeEmail(value)
		if parsing.IsValidEmail(fixed) {
			issue := newIssue(domain.IssueFixableEmail, domain.SeverityAutoFix,
				fmt.Sprintf("email %q in column %q is repairable", value, header))
			issue.Row = row.SourceLine
			issue.Column = header
			issue.Value = value
			issue.Suggestion = fmt.Sprintf("Replace with %q", fixed)
			issues = append(issues, issue)
		} else {
			issue := newIssue(domain.IssueInvalidEmail, domain.SeverityCritical,
				fmt.Sprintf("email %q in column %q is invalid and not repairable", value, header))
			issue.Row = row.SourceLine
			issue.Column = header
			issue.Value = value
			issue.Suggestion = "Correct the address manually"
			issues = append(issues, issue)
		}
	}
	if len(mixedCase) > 0 {
		issue := newIssue(domain.IssueMixedCaseEmail, domain.SeverityAutoFix,
			fmt.Sprintf("column %q has %d valid email(s) with mixed case", header, len(mixedCase)))
		issue.Column = header
		issue.Suggestion = "Lowercase all addresses"
		issue.AffectedRows = len(mixedCase)
		issues = append(issues, issue)
	}
	return issues
}

func (r *run) checkStringColumn(header string) []domain.Issue {
	var issues []domain.Issue
	var whitespace []int
	caseCounts := map[parsing.CasePattern]int{}
	total := 0

	for _, row := range r.table.Rows {
		value := row.Cells[header]
		if strings.TrimSpace(value) == "" {
			continue
		}
		total++
		if parsing.HasWhitespaceIssue(value) {
			whitespace = append(whitespace, row.SourceLine)
		}
		caseCounts[parsing.DetectCasePattern(value)]++
	}

	if len(whitespace) > 0 {
		issue := newIssue(domain.IssueWhitespace, domain.SeverityAutoFix,
			fmt.Sprintf("column %q has %d value(s) with whitespace irregularities", header, len(whitespace)))
		issue.Column = header
		issue.Suggestion = "Trim and collapse internal spaces"
		issue.AffectedRows = len(whitespace)
		issues = append(issues, issue)
	}

	if total > 0 {
		dominant := 0
		for pattern, n := range caseCounts {
			if pattern != parsing.CaseMixed && n > dominant {
				dominant = n
			}
		}
		mixedShare := float64(caseCounts[parsing.CaseMixed]) / float64(total)
		if float64(dominant)/float64(total) < CasePatternThreshold && mixedShare < MixedCaseTolerance {
			issue := newIssue(domain.IssueInconsistentCase, domain.SeverityNeedsReview,
				fmt.Sprintf("column %q has no dominant capitalization style", header))
			issue.Column = header
			issue.Suggestion = "Pick one style (e.g. title case) and apply it"
			issue.AffectedRows = total
			issue.Details = map[string]interface{}{"case_counts": caseCounts}
			issues = append(issues, issue)
		}
	}
	return issues
}

func capInts(values []int, max int) []int {
	if len(values) <= max {
		return values
	}
	return values[:max]
}
