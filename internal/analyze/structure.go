package analyze

import (
	"fmt"
	"regexp"
	"strings"

	"rapihcli/pkg/contracts/domain"
)

// autoGeneratedHeaderPattern matches placeholder headers an ingester invents
// for unnamed columns.
var autoGeneratedHeaderPattern = regexp.MustCompile(`^Column_\d+$`)

// structurePass checks headers and empty rows.
func (r *run) structurePass() []domain.Issue {
	var issues []domain.Issue

	var unnamed []string
	for i, h := range r.table.Headers {
		if strings.TrimSpace(h) == "" || autoGeneratedHeaderPattern.MatchString(h) {
			unnamed = append(unnamed, fmt.Sprintf("column %d (%q)", i+1, h))
		}
	}
	if len(unnamed) > 0 {
		issue := newIssue(domain.IssueEmptyHeader, domain.SeverityNeedsReview,
			fmt.Sprintf("%d column(s) have empty or auto-generated headers", len(unnamed)))
		issue.Suggestion = "Name every column; generated names like Column_1 carry no meaning"
		issue.Details = map[string]interface{}{"columns": unnamed}
		issues = append(issues, issue)
	}

	seen := map[string][]string{}
	for _, h := range r.table.Headers {
		key := strings.ToLower(strings.TrimSpace(h))
		seen[key] = append(seen[key], h)
	}
	for _, group := range seen {
		if len(group) > 1 {
			issue := newIssue(domain.IssueDuplicateHeader, domain.SeverityAutoFix,
				fmt.Sprintf("duplicate header %q appears %d times", group[0], len(group)))
			issue.Suggestion = "Rename duplicates with a numeric suffix"
			issue.Details = map[string]interface{}{"headers": group}
			issues = append(issues, issue)
		}
	}

	var emptyLines []int
	for i, row := range r.table.Rows {
		if i == len(r.table.Rows)-1 {
			// A trailing blank row is a file artifact, not a defect.
			break
		}
		if rowIsEmpty(row) {
			emptyLines = append(emptyLines, row.SourceLine)
		}
	}
	if len(emptyLines) > 0 {
		issue := newIssue(domain.IssueEmptyRows, domain.SeverityAutoFix,
			fmt.Sprintf("%d interior row(s) are completely empty", len(emptyLines)))
		issue.Suggestion = "Remove empty rows"
		issue.AffectedRows = len(emptyLines)
		issue.Details = map[string]interface{}{"lines": emptyLines}
		issues = append(issues, issue)
	}

	return issues
}

func rowIsEmpty(row domain.Row) bool {
	for _, v := range row.Cells {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
