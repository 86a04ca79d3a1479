package cleanse

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rapihcli/internal/analyze"
	"rapihcli/internal/inference"
	"rapihcli/pkg/contracts/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// analyzeAndClean runs the full analyze-then-clean cycle the pipeline would.
func analyzeAndClean(t *testing.T, table *domain.Table, opts Options) (*domain.CleanResult, *domain.AnalysisResult) {
	t.Helper()
	ctx := context.Background()
	types := inference.Infer(table.Headers, table.Rows)
	analysis := analyze.New(testLogger(), analyze.DefaultConfig()).Analyze(ctx, table, types, domain.ModeAuto)
	return New(testLogger()).Clean(ctx, table, analysis, opts), analysis
}

func newTable(headers []string, records [][]string) *domain.Table {
	return domain.NewTable(headers, records, 2)
}

func cellValues(table *domain.Table, header string) []string {
	out := make([]string, len(table.Rows))
	for i, row := range table.Rows {
		out[i] = row.Cells[header]
	}
	return out
}

func TestCleanDoesNotMutateInput(t *testing.T) {
	table := newTable([]string{"Nama"}, [][]string{{"  Budi  "}})
	result, _ := analyzeAndClean(t, table, Options{})

	assert.Equal(t, "  Budi  ", table.Rows[0].Cells["Nama"])
	assert.Equal(t, "Budi", result.Table.Rows[0].Cells["Nama"])
}

func TestCleanWhitespaceBeforeDedupe(t *testing.T) {
	table := newTable([]string{"Nama"}, [][]string{
		{"Budi Santoso"},
		{"  Budi   Santoso  "},
		{"Ani Wijaya"},
	})
	result, _ := analyzeAndClean(t, table, Options{})

	require.Equal(t, 2, result.Table.RowCount())
	assert.Equal(t, []string{"Budi Santoso", "Ani Wijaya"}, cellValues(result.Table, "Nama"))
	assert.Equal(t, 1, result.Stats.RowsRemoved)
	assert.Equal(t, result.Stats.OriginalRowCount-result.Stats.CleanedRowCount, result.Stats.RowsRemoved)
}

func TestCleanRemovesEmptyRows(t *testing.T) {
	table := newTable([]string{"A", "B"}, [][]string{
		{"x", "1"},
		{"", ""},
		{"y", "2"},
	})
	result, _ := analyzeAndClean(t, table, Options{})

	assert.Equal(t, 2, result.Table.RowCount())
	assert.Equal(t, 1, result.Stats.RowsRemoved)
}

func TestCleanKeepsFirstDuplicate(t *testing.T) {
	table := newTable([]string{"Nama", "Kota"}, [][]string{
		{"Budi", "Jakarta"},
		{"Ani", "Surabaya"},
		{"BUDI", "JAKARTA"},
	})
	result, _ := analyzeAndClean(t, table, Options{})

	require.Equal(t, 2, result.Table.RowCount())
	// Stable order, first occurrence wins.
	assert.Equal(t, "Budi", result.Table.Rows[0].Cells["Nama"])
	assert.Equal(t, "Ani", result.Table.Rows[1].Cells["Nama"])
}

func TestCleanCanonicalizesDates(t *testing.T) {
	table := newTable([]string{"Tanggal"}, [][]string{
		{"15/03/2024"},
		{"2024-03-16"},
		{"17-Mar-2024"},
	})
	result, _ := analyzeAndClean(t, table, Options{})

	assert.Equal(t, []string{"15-Mar-2024", "16-Mar-2024", "17-Mar-2024"}, cellValues(result.Table, "Tanggal"))
}

func TestCleanDateFormatOption(t *testing.T) {
	table := newTable([]string{"Tanggal"}, [][]string{
		{"15/03/2024"},
		{"2024-03-16"},
	})
	result, _ := analyzeAndClean(t, table, Options{DateFormat: "YYYY-MM-DD"})

	assert.Equal(t, []string{"2024-03-15", "2024-03-16"}, cellValues(result.Table, "Tanggal"))
}

func TestCleanFormatsCurrency(t *testing.T) {
	table := newTable([]string{"Harga"}, [][]string{
		{"Rp 1.500.000"},
		{"Rp1500000"},
		{"IDR 2,500"},
	})
	result, _ := analyzeAndClean(t, table, Options{})

	assert.Equal(t, []string{"Rp 1.500.000", "Rp 1.500.000", "Rp 2.500"}, cellValues(result.Table, "Harga"))
}

func TestCleanFormatsPhonesButLeavesInvalid(t *testing.T) {
	table := newTable([]string{"Telepon"}, [][]string{
		{"081234567890"},
		{"+62 812-3456-7891"},
		{"0812345"},
	})
	result, _ := analyzeAndClean(t, table, Options{})

	got := cellValues(result.Table, "Telepon")
	assert.Equal(t, "+62 812-3456-7890", got[0])
	assert.Equal(t, "+62 812-3456-7891", got[1])
	// Too short to be valid: no deterministic repair exists.
	assert.Equal(t, "0812345", got[2])
}

func TestCleanRepairsEmails(t *testing.T) {
	table := newTable([]string{"Email"}, [][]string{
		{"budi@example.com"},
		{"ani@example.com"},
		{"citra@example.com"},
		{"Foo@@Bar..com"},
		{"not an email"},
	})
	result, _ := analyzeAndClean(t, table, Options{})

	got := cellValues(result.Table, "Email")
	assert.Equal(t, "foo@bar.com", got[3])
	// Unrepairable addresses are left for manual review.
	assert.Equal(t, "not an email", got[4])
}

func TestCleanRepairsCalculation(t *testing.T) {
	table := newTable([]string{"Qty", "Harga Satuan", "Total Harga"}, [][]string{
		{"10", "50000", "500000"},
		{"10", "50000", "400000"},
	})
	result, analysis := analyzeAndClean(t, table, Options{})

	require.NotEmpty(t, analysis.Issues)
	assert.Equal(t, "500000", result.Table.Rows[1].Cells["Total Harga"])
	assert.Equal(t, "500000", result.Table.Rows[0].Cells["Total Harga"])
}

func TestCleanRepairsTax(t *testing.T) {
	table := newTable([]string{"DPP", "PPN"}, [][]string{
		{"1000000", "110000"},
		{"2000000", "200000"},
	})
	result, _ := analyzeAndClean(t, table, Options{})

	assert.Equal(t, "220000", result.Table.Rows[1].Cells["PPN"])
	assert.Equal(t, "110000", result.Table.Rows[0].Cells["PPN"])
}

func TestCleanFormatsNPWP(t *testing.T) {
	table := newTable([]string{"NPWP"}, [][]string{
		{"012345678901234"},
		{"01.234.567.8-901.234"},
	})
	result, _ := analyzeAndClean(t, table, Options{})

	assert.Equal(t, []string{"01.234.567.8-901.234", "01.234.567.8-901.234"}, cellValues(result.Table, "NPWP"))
}

func TestCleanTextCaseOption(t *testing.T) {
	table := newTable([]string{"Nama"}, [][]string{
		{"budi santoso"},
		{"ANI WIJAYA"},
	})
	result, _ := analyzeAndClean(t, table, Options{TextCase: "title"})

	assert.Equal(t, []string{"Budi Santoso", "Ani Wijaya"}, cellValues(result.Table, "Nama"))
}

// Cleaning a cleaned table must change nothing.
func TestCleanIsIdempotent(t *testing.T) {
	table := newTable(
		[]string{"Nama", "Email", "Telepon", "Tanggal", "Harga", "NPWP"},
		[][]string{
			{"  Budi Santoso", "Budi@@Example..com", "081234567890", "15/03/2024", "Rp1500000", "012345678901234"},
			{"Ani Wijaya", "ani@example.com", "+62 812-3456-7891", "2024-03-16", "Rp 2.500", "01.234.567.8-901.234"},
			{"Citra  Lestari", "citra@example.com", "+62 812-3456-7892", "16-Mar-2024", "Rp 2.500", "01.234.567.8-901.234"},
		})
	first, _ := analyzeAndClean(t, table, Options{})
	require.Positive(t, first.Stats.TotalChanges)

	second, _ := analyzeAndClean(t, first.Table, Options{})
	assert.Zero(t, second.Stats.TotalChanges, "changes on second pass: %+v", second.Changes)
	assert.Equal(t, first.Table, second.Table)
}

func TestCleanChangeLog(t *testing.T) {
	table := newTable([]string{"Nama"}, [][]string{
		{"  Budi"},
		{"Budi"},
	})
	result, _ := analyzeAndClean(t, table, Options{})

	var cellChanges, rowDrops, summaries int
	for _, change := range result.Changes {
		switch change.Type {
		case domain.ChangeTypeCell:
			cellChanges++
			assert.Equal(t, "Nama", change.Column)
			assert.Equal(t, "  Budi", change.OldValue)
			assert.Equal(t, "Budi", change.NewValue)
		case domain.ChangeTypeRowDrop:
			rowDrops++
		case domain.ChangeTypeSummary:
			summaries++
		}
	}
	assert.Equal(t, 1, cellChanges)
	assert.Equal(t, 1, rowDrops)
	assert.Equal(t, 2, summaries)
	assert.Equal(t, 2, result.Stats.TotalChanges)
	assert.Equal(t, 2, result.Stats.RowsAffected)
}

func TestBasicClean(t *testing.T) {
	table := newTable([]string{"Nama"}, [][]string{
		{"  Budi "},
		{"Budi"},
		{""},
		{"ani"},
	})
	result := New(testLogger()).BasicClean(context.Background(), table, BasicOptions{
		RemoveDuplicates: true,
		RemoveEmpty:      true,
		TrimWhitespace:   true,
		TextCase:         "title",
	})

	assert.Equal(t, []string{"Budi", "Ani"}, cellValues(result.Table, "Nama"))
	assert.Equal(t, 4, result.Stats.OriginalRowCount)
	assert.Equal(t, 2, result.Stats.CleanedRowCount)
	assert.Equal(t, 2, result.Stats.RowsRemoved)
}

func TestCleanNilAnalysis(t *testing.T) {
	table := newTable([]string{"Nama"}, [][]string{{"  Budi "}})
	result := New(testLogger()).Clean(context.Background(), table, nil, Options{})

	// No analysis means no issues, so nothing changes.
	assert.Zero(t, result.Stats.TotalChanges)
	assert.Equal(t, "  Budi ", result.Table.Rows[0].Cells["Nama"])
}

func TestCleanNilAnalysisWithTextCase(t *testing.T) {
	table := newTable([]string{"Nama"}, [][]string{{"budi santoso"}})
	result := New(testLogger()).Clean(context.Background(), table, nil, Options{TextCase: "upper"})

	// The case transform is request-driven, so it still runs without an
	// analysis; every column counts as string then.
	assert.Equal(t, "BUDI SANTOSO", result.Table.Rows[0].Cells["Nama"])
	assert.Equal(t, 1, result.Stats.CellsModified)
}
