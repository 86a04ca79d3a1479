package ingest

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"

	"rapihcli/pkg/contracts/domain"
)

// utf8BOM is stripped from the stream head; spreadsheet tools prepend it to
// CSV exports.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVSource reads a comma-separated stream with a header row.
type CSVSource struct {
	reader io.Reader
	logger *slog.Logger
}

// NewCSVSource creates a CSV ingester. A nil logger falls back to
// slog.Default.
func NewCSVSource(r io.Reader, logger *slog.Logger) *CSVSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVSource{reader: r, logger: logger.With(slog.String("component", "csv_ingest"))}
}

// Parse implements pipeline.Source.
func (s *CSVSource) Parse(ctx context.Context) (*domain.Table, error) {
	buffered := bufio.NewReader(s.reader)
	if head, err := buffered.Peek(len(utf8BOM)); err == nil && string(head) == string(utf8BOM) {
		if _, err := buffered.Discard(len(utf8BOM)); err != nil {
			return nil, fmt.Errorf("failed to skip BOM: %w", err)
		}
	}

	reader := csv.NewReader(buffered)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}

	s.logger.InfoContext(ctx, "CSV read",
		slog.Int("total_rows", len(records)))

	return tableFromRecords(records)
}
