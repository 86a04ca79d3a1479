package analyze

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"rapihcli/pkg/contracts/domain"
)

func TestScoreNoIssues(t *testing.T) {
	score := Score(nil, 100)
	assert.Equal(t, 100, score.Score)
	assert.Equal(t, "A", score.Grade)
	assert.Equal(t, "Excellent", score.Label)
}

func TestScoreDeductions(t *testing.T) {
	// One critical issue touching 5 of 100 rows: 5% impact * 2.0 = 10 points.
	issues := []domain.Issue{
		{Severity: domain.SeverityCritical, AffectedRows: 5},
	}
	score := Score(issues, 100)
	assert.Equal(t, 90, score.Score)
	assert.Equal(t, "A", score.Grade)
}

func TestScorePerIssueCaps(t *testing.T) {
	tests := []struct {
		name     string
		severity domain.Severity
		want     int
	}{
		// Full-table issues hit the per-severity cap, not weight*100.
		{name: "critical capped at 20", severity: domain.SeverityCritical, want: 80},
		{name: "review capped at 10", severity: domain.SeverityNeedsReview, want: 90},
		{name: "autofix capped at 5", severity: domain.SeverityAutoFix, want: 95},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := []domain.Issue{{Severity: tt.severity, AffectedRows: 100}}
			assert.Equal(t, tt.want, Score(issues, 100).Score)
		})
	}
}

func TestScoreNeverNegative(t *testing.T) {
	issues := make([]domain.Issue, 50)
	for i := range issues {
		issues[i] = domain.Issue{Severity: domain.SeverityCritical, AffectedRows: 100}
	}
	score := Score(issues, 100)
	assert.Equal(t, 0, score.Score)
	assert.Equal(t, "F", score.Grade)
}

func TestScoreGrades(t *testing.T) {
	// Critical issues on 1 of 100 rows deduct 2 points each.
	grade := func(n int) string {
		issues := make([]domain.Issue, n)
		for i := range issues {
			issues[i] = domain.Issue{Severity: domain.SeverityCritical, AffectedRows: 1}
		}
		return Score(issues, 100).Grade
	}
	assert.Equal(t, "A", grade(5))  // 90
	assert.Equal(t, "B", grade(10)) // 80
	assert.Equal(t, "C", grade(15)) // 70
	assert.Equal(t, "D", grade(20)) // 60
	assert.Equal(t, "F", grade(21)) // 58
}

func TestScoreZeroRows(t *testing.T) {
	issues := []domain.Issue{{Severity: domain.SeverityAutoFix}}
	score := Score(issues, 0)
	assert.Equal(t, 95, score.Score)
}
