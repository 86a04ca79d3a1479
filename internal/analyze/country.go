package analyze

import (
	"fmt"
	"math"
	"strings"

	"rapihcli/internal/identity"
	"rapihcli/internal/parsing"
	"rapihcli/pkg/contracts/domain"
)

// countryPass validates Indonesia-specific identifiers (NIK, NPWP) on
// columns inferred to those types. Structural failures are CRITICAL; they are
// invalid data, not formatting inconsistencies, and are never auto-fixed.
func (r *run) countryPass() []domain.Issue {
	var issues []domain.Issue
	for _, header := range r.table.Headers {
		info, ok := r.types[header]
		if !ok {
			continue
		}
		switch info.Type {
		case domain.ColumnTypeNationalID:
			issues = append(issues, r.checkNIKColumn(header)...)
		case domain.ColumnTypeTaxID:
			issues = append(issues, r.checkNPWPColumn(header)...)
		}
	}
	return issues
}

func (r *run) checkNIKColumn(header string) []domain.Issue {
	var issues []domain.Issue
	for _, row := range r.table.Rows {
		value := strings.TrimSpace(row.Cells[header])
		if value == "" {
			continue
		}
		result := identity.ValidateNIK(value)
		if result.Valid {
			continue
		}
		issue := newIssue(domain.IssueInvalidNIK, domain.SeverityCritical,
			fmt.Sprintf("NIK %q in column %q is invalid: %s", value, header, result.Reason))
		issue.Row = row.SourceLine
		issue.Column = header
		issue.Value = value
		issue.Suggestion = "Verify against the identity card"
		issue.Details = map[string]interface{}{"reason": result.Reason}
		issues = append(issues, issue)
	}
	return issues
}

func (r *run) checkNPWPColumn(header string) []domain.Issue {
	var issues []domain.Issue
	var unformatted []int
	for _, row := range r.table.Rows {
		value := strings.TrimSpace(row.Cells[header])
		if value == "" {
			continue
		}
		result := identity.ValidateNPWP(value)
		switch {
		case !result.Valid:
			issue := newIssue(domain.IssueInvalidNPWP, domain.SeverityCritical,
				fmt.Sprintf("NPWP %q in column %q is invalid: %s", value, header, result.Reason))
			issue.Row = row.SourceLine
			issue.Column = header
			issue.Value = value
			issue.Suggestion = "Verify against the tax registration"
			issues = append(issues, issue)
		case !result.Canonical:
			unformatted = append(unformatted, row.SourceLine)
		}
	}
	if len(unformatted) > 0 {
		issue := newIssue(domain.IssueUnformattedNPWP, domain.SeverityAutoFix,
			fmt.Sprintf("column %q has %d valid NPWP(s) without canonical punctuation", header, len(unformatted)))
		issue.Column = header
		issue.Suggestion = "Reformat as XX.XXX.XXX.X-XXX.XXX"
		issue.AffectedRows = len(unformatted)
		issues = append(issues, issue)
	}
	return issues
}

// taxPass verifies PPN == round(DPP * rate) when both a tax-base and a VAT
// column exist.
func (r *run) taxPass() []domain.Issue {
	dppCol, okDpp := firstMatching(r.table.Headers, taxBaseKeywords)
	vatCol, okVat := firstMatching(r.table.Headers, vatKeywords)
	if !okDpp || !okVat || dppCol == vatCol {
		return nil
	}

	var badLines []int
	for _, row := range r.table.Rows {
		dpp, okD := parsing.ParseCurrency(row.Cells[dppCol])
		if !okD {
			continue
		}
		want := math.Round(dpp * r.cfg.VATRate)
		ppn, okP := parsing.ParseCurrency(row.Cells[vatCol])
		if !okP || !withinTolerance(want, ppn, 0, r.cfg.CalcAbsTolerance) {
			badLines = append(badLines, row.SourceLine)
		}
	}
	if len(badLines) == 0 {
		return nil
	}
	issue := newIssue(domain.IssueTaxCalculationError, domain.SeverityAutoFix,
		fmt.Sprintf("%d row(s) where %s is not %.0f%% of %s", len(badLines), vatCol, r.cfg.VATRate*100, dppCol))
	issue.Suggestion = fmt.Sprintf("Recompute %s as round(%s * %.2f)", vatCol, dppCol, r.cfg.VATRate)
	issue.AffectedRows = len(badLines)
	issue.Details = map[string]interface{}{"lines": capInts(badLines, MaxDuplicateDetails)}
	issue.FixInfo = map[string]interface{}{
		"dpp_column": dppCol,
		"vat_column": vatCol,
		"rate":       r.cfg.VATRate,
	}
	return []domain.Issue{issue}
}
