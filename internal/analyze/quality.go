package analyze

import (
	"fmt"
	"strings"

	"rapihcli/pkg/contracts/domain"
)

// qualityPass flags columns with a high share of empty cells. Fully empty
// columns are excluded; those surface through type inference as type empty.
func (r *run) qualityPass() []domain.Issue {
	var issues []domain.Issue
	total := len(r.table.Rows)
	if total == 0 {
		return nil
	}
	for _, header := range r.table.Headers {
		empty := 0
		for _, row := range r.table.Rows {
			if strings.TrimSpace(row.Cells[header]) == "" {
				empty++
			}
		}
		ratio := float64(empty) / float64(total)
		if ratio > r.cfg.EmptyRatioThreshold && ratio < 1 {
			issue := newIssue(domain.IssueHighEmptyRatio, domain.SeverityNeedsReview,
				fmt.Sprintf("column %q is %.0f%% empty (%d of %d cells)", header, ratio*100, empty, total))
			issue.Column = header
			issue.Suggestion = "Fill the missing values or drop the column"
			issue.AffectedRows = empty
			issue.Details = map[string]interface{}{"empty_ratio": ratio}
			issues = append(issues, issue)
		}
	}
	return issues
}
