// Package ingest turns spreadsheet and CSV bytes into the core Table shape.
// It is the external collaborator the pipeline's parse stage delegates to;
// nothing downstream touches file formats.
package ingest

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"rapihcli/pkg/contracts/domain"
)

// headerRowOffset is the 1-based source line of the first data row when the
// file carries a header row.
const headerRowOffset = 2

// ExcelSource reads the first non-empty worksheet of an .xlsx stream.
type ExcelSource struct {
	reader io.Reader
	logger *slog.Logger
}

// NewExcelSource creates an Excel ingester. A nil logger falls back to
// slog.Default.
func NewExcelSource(r io.Reader, logger *slog.Logger) *ExcelSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelSource{reader: r, logger: logger.With(slog.String("component", "excel_ingest"))}
}

// Parse implements pipeline.Source.
func (s *ExcelSource) Parse(ctx context.Context) (*domain.Table, error) {
	f, err := excelize.OpenReader(s.reader)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	var rows [][]string
	var sheetName string
	for _, name := range f.GetSheetList() {
		candidate, err := f.GetRows(name)
		if err != nil {
			continue
		}
		if len(candidate) > 0 {
			rows = candidate
			sheetName = name
			break
		}
	}
	if sheetName == "" {
		return nil, fmt.Errorf("workbook has no non-empty sheet")
	}

	s.logger.InfoContext(ctx, "worksheet selected",
		slog.String("sheet_name", sheetName),
		slog.Int("total_rows", len(rows)))

	return tableFromRecords(rows)
}

// tableFromRecords converts raw records (header row first) into a Table.
// Blank headers get generated Column_N names; trailing fully-empty rows are
// dropped as file artifacts.
func tableFromRecords(records [][]string) (*domain.Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("input is empty")
	}

	width := 0
	for _, record := range records {
		if len(record) > width {
			width = len(record)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("input has no columns")
	}

	headers := make([]string, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(records[0]) {
			name = strings.TrimSpace(records[0][i])
		}
		if name == "" {
			name = fmt.Sprintf("Column_%d", i+1)
		}
		headers[i] = name
	}

	data := records[1:]
	for len(data) > 0 && recordIsEmpty(data[len(data)-1]) {
		data = data[:len(data)-1]
	}

	return domain.NewTable(headers, data, headerRowOffset), nil
}

func recordIsEmpty(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
