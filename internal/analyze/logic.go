package analyze

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"rapihcli/internal/parsing"
	"rapihcli/pkg/contracts/domain"
)

// logicPass verifies qty*price==total relationships and looks for gaps in
// sequential identifier columns.
func (r *run) logicPass() []domain.Issue {
	var issues []domain.Issue
	if issue, ok := r.checkCalculation(); ok {
		issues = append(issues, issue)
	}
	issues = append(issues, r.checkSequenceGaps()...)
	return issues
}

// withinTolerance reports whether got is within the relative tolerance of
// want, with an absolute floor for small amounts.
func withinTolerance(want, got, relTol, absTol float64) bool {
	tol := math.Abs(want) * relTol
	if tol < absTol {
		tol = absTol
	}
	return math.Abs(got-want) <= tol
}

func (r *run) checkCalculation() (domain.Issue, bool) {
	qtyCol, okQty := firstMatching(r.table.Headers, quantityKeywords)
	priceCol, okPrice := firstMatching(r.table.Headers, priceKeywords)
	totalCol, okTotal := firstMatching(r.table.Headers, totalKeywords)
	if !okQty || !okPrice || !okTotal ||
		qtyCol == priceCol || qtyCol == totalCol || priceCol == totalCol {
		return domain.Issue{}, false
	}

	var badLines []int
	for _, row := range r.table.Rows {
		qty, okQ := parsing.ParseCurrency(row.Cells[qtyCol])
		price, okP := parsing.ParseCurrency(row.Cells[priceCol])
		if !okQ || !okP {
			continue
		}
		want := qty * price
		total, okT := parsing.ParseCurrency(row.Cells[totalCol])
		if !okT || !withinTolerance(want, total, r.cfg.CalcTolerance, r.cfg.CalcAbsTolerance) {
			badLines = append(badLines, row.SourceLine)
		}
	}
	if len(badLines) == 0 {
		return domain.Issue{}, false
	}
	issue := newIssue(domain.IssueCalculationError, domain.SeverityAutoFix,
		fmt.Sprintf("%d row(s) where %s * %s does not equal %s", len(badLines), qtyCol, priceCol, totalCol))
	issue.Suggestion = fmt.Sprintf("Recompute %s as %s * %s", totalCol, qtyCol, priceCol)
	issue.AffectedRows = len(badLines)
	issue.Details = map[string]interface{}{"lines": capInts(badLines, MaxDuplicateDetails)}
	issue.FixInfo = map[string]interface{}{
		"quantity_column": qtyCol,
		"price_column":    priceCol,
		"total_column":    totalCol,
	}
	return issue, true
}

var trailingDigitsPattern = regexp.MustCompile(`(\d+)\D*$`)

// checkSequenceGaps reports runs of missing integers in identifier columns.
// Columns reporting more than MaxSequenceGaps gaps are assumed to be
// non-sequential and produce nothing.
func (r *run) checkSequenceGaps() []domain.Issue {
	var issues []domain.Issue
	for _, header := range r.table.Headers {
		if !matchesAny(header, sequenceKeywords) {
			continue
		}
		seen := map[int]bool{}
		for _, row := range r.table.Rows {
			m := trailingDigitsPattern.FindStringSubmatch(strings.TrimSpace(row.Cells[header]))
			if m == nil {
				continue
			}
			if n, err := strconv.Atoi(m[1]); err == nil {
				seen[n] = true
			}
		}
		if len(seen) < 2 {
			continue
		}
		ordered := make([]int, 0, len(seen))
		for n := range seen {
			ordered = append(ordered, n)
		}
		sort.Ints(ordered)

		var missing []int
		gaps := 0
		tooMany := false
		for i := 1; i < len(ordered); i++ {
			gap := ordered[i] - ordered[i-1] - 1
			if gap <= MinSequenceGapSize {
				continue
			}
			gaps++
			if gaps > MaxSequenceGaps {
				tooMany = true
				break
			}
			for n := ordered[i-1] + 1; n <= ordered[i]-1 && len(missing) < 100; n++ {
				missing = append(missing, n)
			}
		}
		if tooMany || gaps == 0 {
			continue
		}
		issue := newIssue(domain.IssueSequenceGap, domain.SeverityNeedsReview,
			fmt.Sprintf("column %q has %d gap(s) of more than %d missing value(s)", header, gaps, MinSequenceGapSize))
		issue.Column = header
		issue.Suggestion = "Check whether records were lost"
		issue.Details = map[string]interface{}{"missing": missing, "gaps": gaps}
		issues = append(issues, issue)
	}
	return issues
}
