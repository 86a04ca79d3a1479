// Package exporter renders cleaned tables to CSV and xlsx files, plus the
// issue report sheet. It consumes the core's output shape and holds no
// analysis logic.
package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"rapihcli/pkg/contracts/domain"
)

// CSVWriter writes cleaned tables as CSV files.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a CSV writer. A nil logger falls back to
// slog.Default.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger.With(slog.String("component", "csv_writer"))}
}

// CSVOptions configures CSV writing behavior.
type CSVOptions struct {
	// BOMPrefix adds a UTF-8 BOM for Excel compatibility.
	BOMPrefix bool
}

// Write renders the table to filePath, creating parent directories.
func (w *CSVWriter) Write(filePath string, table *domain.Table, options CSVOptions) error {
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Headers); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, row := range table.Rows {
		record := make([]string, len(table.Headers))
		for i, h := range table.Headers {
			record[i] = row.Cells[h]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write row %d: %w", row.SourceLine, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	w.logger.Info("CSV file written",
		slog.String("file_path", filePath),
		slog.Int("record_count", len(table.Rows)))
	return nil
}
