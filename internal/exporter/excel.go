package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"rapihcli/pkg/contracts/domain"
)

const (
	dataSheetName   = "Cleaned Data"
	issueSheetName  = "Issues"
	defaultColWidth = 18
)

// ExcelWriter renders cleaned tables as styled xlsx workbooks with an
// optional issue report sheet.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates an Excel writer. A nil logger falls back to
// slog.Default.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger.With(slog.String("component", "excel_writer"))}
}

// Write renders the workbook to w. When analysis is non-nil a second sheet
// lists every detected issue.
func (e *ExcelWriter) Write(w io.Writer, table *domain.Table, analysis *domain.AnalysisResult) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet, err := f.NewSheet(dataSheetName)
	if err != nil {
		return fmt.Errorf("failed to create sheet: %w", err)
	}
	f.SetActiveSheet(sheet)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("failed to drop default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, h := range table.Headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(dataSheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write header %q: %w", h, err)
		}
		if err := f.SetCellStyle(dataSheetName, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("failed to style header %q: %w", h, err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(table.Headers))
	_ = f.SetColWidth(dataSheetName, "A", lastCol, defaultColWidth)

	for r, row := range table.Rows {
		for c, h := range table.Headers {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(dataSheetName, cell, row.Cells[h]); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if analysis != nil {
		if err := e.writeIssueSheet(f, analysis, headerStyle); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	e.logger.Info("workbook written",
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Headers)))
	return nil
}

func (e *ExcelWriter) writeIssueSheet(f *excelize.File, analysis *domain.AnalysisResult, headerStyle int) error {
	if _, err := f.NewSheet(issueSheetName); err != nil {
		return fmt.Errorf("failed to create issue sheet: %w", err)
	}
	headers := []string{"Severity", "Type", "Row", "Column", "Value", "Message", "Suggestion"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(issueSheetName, cell, h); err != nil {
			return fmt.Errorf("failed to write issue header: %w", err)
		}
		_ = f.SetCellStyle(issueSheetName, cell, cell, headerStyle)
	}
	for r, issue := range analysis.Issues {
		rowText := ""
		if issue.Row > 0 {
			rowText = strconv.Itoa(issue.Row)
		}
		values := []string{
			string(issue.Severity),
			string(issue.Type),
			rowText,
			issue.Column,
			issue.Value,
			issue.Message,
			issue.Suggestion,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+2)
			if err := f.SetCellValue(issueSheetName, cell, v); err != nil {
				return fmt.Errorf("failed to write issue row: %w", err)
			}
		}
	}
	return nil
}
