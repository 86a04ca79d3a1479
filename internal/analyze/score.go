package analyze

import "rapihcli/pkg/contracts/domain"

// Per-severity deduction model: each issue deducts weight * impact%, where
// impact is the fraction of rows it affects, capped per issue.
const (
	criticalWeight = 2.0
	reviewWeight   = 1.0
	autoFixWeight  = 0.5

	criticalCap = 20.0
	reviewCap   = 10.0
	autoFixCap  = 5.0
)

// gradeThresholds maps score floors to letter grades.
var gradeThresholds = []struct {
	floor int
	grade string
	label string
}{
	{90, "A", "Excellent"},
	{80, "B", "Good"},
	{70, "C", "Fair"},
	{60, "D", "Poor"},
	{0, "F", "Failing"},
}

// Score aggregates an issue list into a 0-100 quality score with a letter
// grade. It is a pure function; an empty issue list always yields 100/A.
func Score(issues []domain.Issue, rowCount int) domain.QualityScore {
	score := 100.0
	for _, issue := range issues {
		affected := issue.AffectedRows
		if affected <= 0 {
			affected = 1
		}
		impact := 100.0
		if rowCount > 0 {
			impact = float64(affected) / float64(rowCount) * 100
			if impact > 100 {
				impact = 100
			}
		}
		var deduction, limit float64
		switch issue.Severity {
		case domain.SeverityCritical:
			deduction, limit = impact*criticalWeight, criticalCap
		case domain.SeverityNeedsReview:
			deduction, limit = impact*reviewWeight, reviewCap
		default:
			deduction, limit = impact*autoFixWeight, autoFixCap
		}
		if deduction > limit {
			deduction = limit
		}
		score -= deduction
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	final := int(score + 0.5)
	for _, t := range gradeThresholds {
		if final >= t.floor {
			return domain.QualityScore{Score: final, Grade: t.grade, Label: t.label}
		}
	}
	return domain.QualityScore{Score: final, Grade: "F", Label: "Failing"}
}
