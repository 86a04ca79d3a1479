package analyze

import (
	"fmt"
	"strings"

	"rapihcli/internal/parsing"
	"rapihcli/internal/stats"
	"rapihcli/pkg/contracts/domain"
)

// duplicatePass finds exact duplicate rows and, on identity-like columns,
// fuzzy near-duplicates. The row key normalizes whitespace the same way the
// cleaner does before its dedupe, so rows differing only by spacing count as
// duplicates here and collapse there.
func (r *run) duplicatePass() []domain.Issue {
	var issues []domain.Issue
	if issue, ok := r.exactDuplicates(); ok {
		issues = append(issues, issue)
	}
	if issue, ok := r.fuzzyDuplicates(); ok {
		issues = append(issues, issue)
	}
	return issues
}

// rowKey builds a case-insensitive, whitespace-normalized key over all cells
// in header order.
func rowKey(headers []string, row domain.Row) string {
	parts := make([]string, len(headers))
	for i, h := range headers {
		parts[i] = strings.ToLower(parsing.NormalizeWhitespace(row.Cells[h]))
	}
	return strings.Join(parts, "\x1f")
}

func (r *run) exactDuplicates() (domain.Issue, bool) {
	firstSeen := map[string]int{}
	var pairs [][2]int
	duplicates := 0
	for _, row := range r.table.Rows {
		if rowIsEmpty(row) {
			continue
		}
		key := rowKey(r.table.Headers, row)
		if first, ok := firstSeen[key]; ok {
			duplicates++
			if len(pairs) < MaxDuplicateDetails {
				pairs = append(pairs, [2]int{first, row.SourceLine})
			}
		} else {
			firstSeen[key] = row.SourceLine
		}
	}
	if duplicates == 0 {
		return domain.Issue{}, false
	}
	issue := newIssue(domain.IssueDuplicateRows, domain.SeverityAutoFix,
		fmt.Sprintf("%d exact duplicate row(s) found", duplicates))
	issue.Suggestion = "Remove duplicates, keeping the first occurrence"
	issue.AffectedRows = duplicates
	issue.Details = map[string]interface{}{"pairs": pairs}
	return issue, true
}

func (r *run) fuzzyDuplicates() (domain.Issue, bool) {
	var compared []string
	for _, h := range r.table.Headers {
		if matchesAny(h, identityKeywords) {
			compared = append(compared, h)
		}
	}
	if len(compared) == 0 {
		return domain.Issue{}, false
	}

	var pairs [][2]int
	rows := r.table.Rows
	for i := 0; i < len(rows) && len(pairs) < r.cfg.MaxFuzzyPairs; i++ {
		for j := i + 1; j < len(rows) && len(pairs) < r.cfg.MaxFuzzyPairs; j++ {
			if r.isFuzzyPair(rows[i], rows[j], compared) {
				pairs = append(pairs, [2]int{rows[i].SourceLine, rows[j].SourceLine})
			}
		}
	}
	if len(pairs) == 0 {
		return domain.Issue{}, false
	}
	issue := newIssue(domain.IssueFuzzyDuplicates, domain.SeverityNeedsReview,
		fmt.Sprintf("%d near-duplicate row pair(s) on identity columns %s", len(pairs), strings.Join(compared, ", ")))
	issue.Suggestion = "Review the pairs and merge true duplicates"
	issue.AffectedRows = len(pairs)
	issue.Details = map[string]interface{}{"pairs": pairs, "columns": compared}
	return issue, true
}

// isFuzzyPair requires every compared column to exceed the similarity
// threshold, while at least one column differs (otherwise the pair belongs to
// the exact-duplicate issue).
func (r *run) isFuzzyPair(a, b domain.Row, compared []string) bool {
	identical := true
	for _, h := range compared {
		va := strings.ToLower(strings.TrimSpace(a.Cells[h]))
		vb := strings.ToLower(strings.TrimSpace(b.Cells[h]))
		if va == "" && vb == "" {
			continue
		}
		if va != vb {
			identical = false
		}
		if stats.Similarity(va, vb) <= r.cfg.SimilarityThreshold {
			return false
		}
	}
	return !identical
}
