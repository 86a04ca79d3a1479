package analyze

import (
	"fmt"
	"strings"

	"rapihcli/internal/parsing"
	"rapihcli/internal/stats"
	"rapihcli/pkg/contracts/domain"
)

// outlierPass flags IQR outliers in numeric columns and negative values in
// columns that should never be negative (quantities, prices, amounts).
func (r *run) outlierPass() []domain.Issue {
	var issues []domain.Issue
	for _, header := range r.table.Headers {
		info, ok := r.types[header]
		if !ok {
			continue
		}
		numeric := info.Type == domain.ColumnTypeNumber || info.Type == domain.ColumnTypeCurrency
		if !numeric {
			continue
		}
		issues = append(issues, r.checkIQROutliers(header)...)
		if matchesAny(header, moneyKeywords) {
			issues = append(issues, r.checkNegatives(header)...)
		}
	}
	return issues
}

type numericCell struct {
	line  int
	value float64
	text  string
}

func (r *run) numericCells(header string) []numericCell {
	var cells []numericCell
	for _, row := range r.table.Rows {
		text := strings.TrimSpace(row.Cells[header])
		if text == "" {
			continue
		}
		if v, ok := parsing.ParseCurrency(text); ok {
			cells = append(cells, numericCell{line: row.SourceLine, value: v, text: text})
		}
	}
	return cells
}

func (r *run) checkIQROutliers(header string) []domain.Issue {
	cells := r.numericCells(header)
	if len(cells) < MinOutlierSampleSize {
		return nil
	}
	values := make([]float64, len(cells))
	for i, c := range cells {
		values[i] = c.value
	}
	summary := stats.Describe(values)
	lower, upper := summary.OutlierBounds(r.cfg.IQRMultiplier)

	var issues []domain.Issue
	for _, c := range cells {
		if c.value < lower || c.value > upper {
			issue := newIssue(domain.IssueStatisticalOutlier, domain.SeverityNeedsReview,
				fmt.Sprintf("value %s in column %q is %.1f standard deviations from the mean",
					c.text, header, summary.Deviations(c.value)))
			issue.Row = c.line
			issue.Column = header
			issue.Value = c.text
			issue.Suggestion = "Verify the value; it sits outside the IQR fences"
			issue.Details = map[string]interface{}{
				"lower_bound": lower,
				"upper_bound": upper,
				"deviations":  summary.Deviations(c.value),
			}
			issues = append(issues, issue)
		}
	}
	return issues
}

func (r *run) checkNegatives(header string) []domain.Issue {
	var issues []domain.Issue
	for _, c := range r.numericCells(header) {
		if c.value < 0 {
			issue := newIssue(domain.IssueNegativeValue, domain.SeverityNeedsReview,
				fmt.Sprintf("negative value %s in column %q", c.text, header))
			issue.Row = c.line
			issue.Column = header
			issue.Value = c.text
			issue.Suggestion = "Quantities and amounts should not be negative"
			issues = append(issues, issue)
		}
	}
	return issues
}
