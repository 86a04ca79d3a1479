package analyze

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapihcli/internal/inference"
	"rapihcli/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func analyzeTable(t *testing.T, headers []string, records [][]string, mode domain.AnalysisMode) *domain.AnalysisResult {
	t.Helper()
	table := domain.NewTable(headers, records, 2)
	types := inference.Infer(table.Headers, table.Rows)
	analyzer := New(testLogger(), DefaultConfig())
	return analyzer.Analyze(context.Background(), table, types, mode)
}

func issuesOfType(result *domain.AnalysisResult, it domain.IssueType) []domain.Issue {
	var out []domain.Issue
	for _, issue := range result.Issues {
		if issue.Type == it {
			out = append(out, issue)
		}
	}
	return out
}

func TestAnalyzeCleanTable(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Nama", "Email"},
		[][]string{
			{"Budi Santoso", "budi@example.com"},
			{"Ani Wijaya", "ani@example.com"},
		},
		domain.ModeAuto)

	assert.Empty(t, result.Issues)
	assert.Equal(t, 100, result.QualityScore.Score)
	assert.Equal(t, "A", result.QualityScore.Grade)
}

func TestAnalyzeDuplicateHeaders(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Name", "name"},
		[][]string{{"a", "b"}},
		domain.ModeAuto)

	found := issuesOfType(result, domain.IssueDuplicateHeader)
	require.Len(t, found, 1)
	assert.Equal(t, domain.SeverityAutoFix, found[0].Severity)
	assert.True(t, found[0].AutoFix)
}

func TestAnalyzeEmptyRows(t *testing.T) {
	result := analyzeTable(t,
		[]string{"A"},
		[][]string{{"x"}, {""}, {"y"}, {""}},
		domain.ModeAuto)

	found := issuesOfType(result, domain.IssueEmptyRows)
	require.Len(t, found, 1)
	// The trailing blank row is a file artifact and does not count.
	assert.Equal(t, 1, found[0].AffectedRows)
}

func TestAnalyzeCalculationError(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Qty", "Harga Satuan", "Total Harga"},
		[][]string{
			{"10", "50000", "500000"},
			{"10", "50000", "400000"},
		},
		domain.ModeFinance)

	found := issuesOfType(result, domain.IssueCalculationError)
	require.Len(t, found, 1)
	issue := found[0]
	assert.Equal(t, domain.SeverityAutoFix, issue.Severity)
	assert.Equal(t, 1, issue.AffectedRows)
	assert.Equal(t, "Qty", issue.FixInfo["quantity_column"])
	assert.Equal(t, "Harga Satuan", issue.FixInfo["price_column"])
	assert.Equal(t, "Total Harga", issue.FixInfo["total_column"])
}

func TestAnalyzeCalculationNeedsDistinctColumns(t *testing.T) {
	// "Jumlah Harga" matches both the quantity and the price keywords; the
	// pass must not verify v*v == total against a single column.
	result := analyzeTable(t,
		[]string{"Jumlah Harga", "Total"},
		[][]string{
			{"10", "500000"},
			{"20", "400000"},
		},
		domain.ModeFinance)

	assert.Empty(t, issuesOfType(result, domain.IssueCalculationError))
}

func TestAnalyzeModeDataSkipsLogic(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Qty", "Harga Satuan", "Total Harga"},
		[][]string{{"10", "50000", "400000"}},
		domain.ModeData)

	assert.Empty(t, issuesOfType(result, domain.IssueCalculationError))
}

func TestAnalyzeTaxError(t *testing.T) {
	result := analyzeTable(t,
		[]string{"DPP", "PPN"},
		[][]string{
			{"1000000", "110000"},
			{"2000000", "200000"},
		},
		domain.ModeFinance)

	found := issuesOfType(result, domain.IssueTaxCalculationError)
	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].AffectedRows)
	assert.Equal(t, "DPP", found[0].FixInfo["dpp_column"])
	assert.Equal(t, "PPN", found[0].FixInfo["vat_column"])
	assert.Equal(t, VATRate, found[0].FixInfo["rate"])
}

func TestAnalyzeInvalidNIK(t *testing.T) {
	result := analyzeTable(t,
		[]string{"NIK"},
		[][]string{
			{"3201011505990001"},
			{"9901011505990001"},
		},
		domain.ModeAuto)

	found := issuesOfType(result, domain.IssueInvalidNIK)
	require.Len(t, found, 1)
	issue := found[0]
	assert.Equal(t, domain.SeverityCritical, issue.Severity)
	assert.False(t, issue.AutoFix)
	assert.Equal(t, 3, issue.Row)
	assert.Equal(t, "9901011505990001", issue.Value)
}

func TestAnalyzeUnformattedNPWP(t *testing.T) {
	result := analyzeTable(t,
		[]string{"NPWP"},
		[][]string{
			{"012345678901234"},
			{"01.234.567.8-901.234"},
		},
		domain.ModeAuto)

	found := issuesOfType(result, domain.IssueUnformattedNPWP)
	require.Len(t, found, 1)
	assert.Equal(t, domain.SeverityAutoFix, found[0].Severity)
	assert.Equal(t, 1, found[0].AffectedRows)
}

func TestAnalyzeInconsistentDates(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Tanggal"},
		[][]string{
			{"15/03/2024"},
			{"2024-03-16"},
			{"17-Mar-2024"},
		},
		domain.ModeAuto)

	found := issuesOfType(result, domain.IssueInconsistentDates)
	require.Len(t, found, 1)
	assert.Equal(t, 3, found[0].AffectedRows)
}

func TestAnalyzeFutureDate(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Tanggal"},
		[][]string{
			{"15/03/2024"},
			{"15/03/2099"},
		},
		domain.ModeAuto)

	found := issuesOfType(result, domain.IssueFutureDate)
	require.Len(t, found, 1)
	assert.Equal(t, domain.SeverityNeedsReview, found[0].Severity)
}

func TestAnalyzeFutureDateStrictMode(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Tanggal"},
		[][]string{
			{"15/03/2024"},
			{"15/03/2099"},
		},
		domain.ModeStrict)

	found := issuesOfType(result, domain.IssueFutureDate)
	require.Len(t, found, 1)
	assert.Equal(t, domain.SeverityCritical, found[0].Severity)
}

func TestAnalyzeEmailColumn(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Email"},
		[][]string{
			{"budi@example.com"},
			{"ani@example.com"},
			{"citra@example.com"},
			{"Foo@@Bar..com"},
			{"not an email"},
		},
		domain.ModeAuto)

	fixable := issuesOfType(result, domain.IssueFixableEmail)
	require.Len(t, fixable, 1)
	assert.Equal(t, domain.SeverityAutoFix, fixable[0].Severity)
	assert.Contains(t, fixable[0].Suggestion, "foo@bar.com")

	invalid := issuesOfType(result, domain.IssueInvalidEmail)
	require.Len(t, invalid, 1)
	assert.Equal(t, domain.SeverityCritical, invalid[0].Severity)
}

func TestAnalyzeDuplicateRows(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Nama", "Kota"},
		[][]string{
			{"Budi", "Jakarta"},
			{"BUDI ", "jakarta"},
			{"Ani", "Surabaya"},
		},
		domain.ModeAuto)

	found := issuesOfType(result, domain.IssueDuplicateRows)
	require.Len(t, found, 1)
	assert.Equal(t, 1, found[0].AffectedRows)
}

func TestAnalyzeEmptyRatioByMode(t *testing.T) {
	headers := []string{"Val"}
	records := [][]string{
		{"alpha"}, {"bravo"}, {"charlie"}, {"delta"},
		{"echo"}, {"foxtrot"}, {"golf"}, {""},
	}

	// 1 of 8 empty (12.5%): over the strict threshold, under the default.
	auto := analyzeTable(t, headers, records, domain.ModeAuto)
	assert.Empty(t, issuesOfType(auto, domain.IssueHighEmptyRatio))

	strict := analyzeTable(t, headers, records, domain.ModeStrict)
	assert.Len(t, issuesOfType(strict, domain.IssueHighEmptyRatio), 1)
}

func TestAnalyzeWhitespace(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Nama"},
		[][]string{
			{"  Budi Santoso"},
			{"Ani  Wijaya"},
			{"Citra Lestari"},
		},
		domain.ModeAuto)

	found := issuesOfType(result, domain.IssueWhitespace)
	require.Len(t, found, 1)
	assert.Equal(t, 2, found[0].AffectedRows)
}

func TestAnalyzeStatisticalOutlier(t *testing.T) {
	records := [][]string{
		{"100"}, {"102"}, {"98"}, {"101"}, {"99"},
		{"103"}, {"97"}, {"100"}, {"102"}, {"98"},
		{"5000"},
	}
	result := analyzeTable(t, []string{"Skor"}, records, domain.ModeAuto)

	found := issuesOfType(result, domain.IssueStatisticalOutlier)
	require.Len(t, found, 1)
	assert.Equal(t, domain.SeverityNeedsReview, found[0].Severity)
	assert.Equal(t, "5000", found[0].Value)
}

func TestAnalyzeOutlierNeedsMinimumSample(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Skor"},
		[][]string{{"100"}, {"101"}, {"5000"}},
		domain.ModeAuto)

	assert.Empty(t, issuesOfType(result, domain.IssueStatisticalOutlier))
}

func TestAnalyzeNegativeAmount(t *testing.T) {
	result := analyzeTable(t,
		[]string{"Total Harga"},
		[][]string{{"50000"}, {"-2500"}},
		domain.ModeAuto)

	found := issuesOfType(result, domain.IssueNegativeValue)
	require.Len(t, found, 1)
	assert.Equal(t, "-2500", found[0].Value)
}

func TestAnalyzeCategorized(t *testing.T) {
	result := analyzeTable(t,
		[]string{"NIK"},
		[][]string{{"123"}},
		domain.ModeAuto)

	require.NotNil(t, result.Categorized)
	assert.Len(t, result.Categorized[domain.SeverityCritical], len(issuesOfType(result, domain.IssueInvalidNIK)))
	assert.NotNil(t, result.Categorized[domain.SeverityAutoFix])
}
