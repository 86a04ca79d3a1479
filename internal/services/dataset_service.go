// Package services holds the application services between transport and the
// core pipeline.
package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"rapihcli/internal/cache"
	"rapihcli/internal/cleanse"
	"rapihcli/internal/exporter"
	"rapihcli/internal/infrastructure"
	"rapihcli/internal/ingest"
	"rapihcli/internal/pipeline"
	"rapihcli/pkg/contracts/domain"
)

// Dataset is the cached artifact of one upload.
type Dataset struct {
	ID       string        `json:"id"`
	Filename string        `json:"filename"`
	Format   string        `json:"format"`
	Table    *domain.Table `json:"-"`
	Rows     int           `json:"rows"`
	Columns  int           `json:"columns"`
}

// DatasetService owns the upload → analyze → clean → export flow. All state
// lives in the cache store; the service itself is safe for concurrent use.
type DatasetService struct {
	logger    *slog.Logger
	store     *cache.Store
	manager   *pipeline.Manager
	cleaner   *cleanse.Cleaner
	csvWriter *exporter.CSVWriter
	xlsx      *exporter.ExcelWriter
	providers *infrastructure.Providers
}

// NewDatasetService wires the service. A nil logger falls back to
// slog.Default; providers may be nil to disable metrics.
func NewDatasetService(logger *slog.Logger, store *cache.Store, manager *pipeline.Manager, cleaner *cleanse.Cleaner, providers *infrastructure.Providers) *DatasetService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DatasetService{
		logger:    logger.With(slog.String("component", "dataset_service")),
		store:     store,
		manager:   manager,
		cleaner:   cleaner,
		csvWriter: exporter.NewCSVWriter(logger),
		xlsx:      exporter.NewExcelWriter(logger),
		providers: providers,
	}
}

// Upload parses the raw bytes and caches the dataset under its content hash.
// Re-uploading identical bytes returns the existing dataset.
func (s *DatasetService) Upload(ctx context.Context, filename string, data []byte) (*Dataset, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("uploaded file is empty")
	}
	format, err := formatForFilename(filename)
	if err != nil {
		return nil, err
	}

	key := cache.KeyFor(data)
	entry, err := s.store.GetOrCompute(ctx, key, filename, data, func(ctx context.Context) (interface{}, error) {
		table, err := parseBytes(ctx, format, data, s.logger)
		if err != nil {
			return nil, err
		}
		return table, nil
	})
	if err != nil {
		return nil, err
	}

	table, ok := entry.Value.(*domain.Table)
	if !ok {
		return nil, fmt.Errorf("cached value for %s has unexpected type", key)
	}
	return &Dataset{
		ID:       string(key),
		Filename: entry.Filename,
		Format:   format,
		Table:    table,
		Rows:     table.RowCount(),
		Columns:  len(table.Headers),
	}, nil
}

// Get returns a cached dataset by id.
func (s *DatasetService) Get(id string) (*Dataset, bool) {
	entry, ok := s.store.Get(cache.Key(id))
	if !ok {
		return nil, false
	}
	table, ok := entry.Value.(*domain.Table)
	if !ok {
		return nil, false
	}
	return &Dataset{
		ID:       id,
		Filename: entry.Filename,
		Format:   strings.TrimPrefix(filepath.Ext(entry.Filename), "."),
		Table:    table,
		Rows:     table.RowCount(),
		Columns:  len(table.Headers),
	}, true
}

// Process runs the full pipeline over a cached dataset.
func (s *DatasetService) Process(ctx context.Context, id string, mode domain.AnalysisMode, opts cleanse.Options) (*domain.PipelineResult, error) {
	dataset, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("dataset %s not found", id)
	}

	result := s.manager.Run(ctx, pipeline.Request{
		Source:       tableSource{table: dataset.Table},
		Mode:         mode,
		CleanOptions: opts,
	})
	s.recordMetrics(ctx, result)
	return result, nil
}

// BasicClean applies only the structural fixes to a cached dataset.
func (s *DatasetService) BasicClean(ctx context.Context, id string, opts cleanse.BasicOptions) (*domain.CleanResult, error) {
	dataset, ok := s.Get(id)
	if !ok {
		return nil, fmt.Errorf("dataset %s not found", id)
	}
	return s.cleaner.BasicClean(ctx, dataset.Table, opts), nil
}

// ExportCSV renders a cleaned table to a BOM-prefixed CSV byte stream.
func (s *DatasetService) ExportCSV(table *domain.Table) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write([]byte{0xEF, 0xBB, 0xBF})
	w := csv.NewWriter(&buf)
	if err := w.Write(table.Headers); err != nil {
		return nil, err
	}
	record := make([]string, len(table.Headers))
	for _, row := range table.Rows {
		for i, h := range table.Headers {
			record[i] = row.Cells[h]
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ExportXLSX renders a cleaned table plus issue sheet to an xlsx stream.
func (s *DatasetService) ExportXLSX(table *domain.Table, analysis *domain.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.xlsx.Write(&buf, table, analysis); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *DatasetService) recordMetrics(ctx context.Context, result *domain.PipelineResult) {
	if s.providers == nil || result == nil {
		return
	}
	s.providers.AnalysesTotal.Add(ctx, 1,
		metric.WithAttributes(attribute.Bool("success", result.Success)))
	if result.Analysis != nil {
		for severity, issues := range result.Analysis.Categorized {
			s.providers.IssuesTotal.Add(ctx, int64(len(issues)),
				metric.WithAttributes(attribute.String("severity", string(severity))))
		}
	}
	if result.Clean != nil {
		s.providers.FixesTotal.Add(ctx, int64(result.Clean.Stats.TotalChanges))
	}
	for _, timing := range result.Timings {
		s.providers.RecordStage(ctx, timing.Stage, timing.Duration, timing.Success)
	}
}

// tableSource adapts an already-parsed table to the pipeline's Source
// interface. The clone keeps the cached copy immutable.
type tableSource struct {
	table *domain.Table
}

func (t tableSource) Parse(ctx context.Context) (*domain.Table, error) {
	return t.table.Clone(), nil
}

func formatForFilename(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return "xlsx", nil
	case ".csv", ".txt":
		return "csv", nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", filepath.Ext(filename))
	}
}

func parseBytes(ctx context.Context, format string, data []byte, logger *slog.Logger) (*domain.Table, error) {
	var source pipeline.Source
	switch format {
	case "xlsx":
		source = ingest.NewExcelSource(bytes.NewReader(data), logger)
	default:
		source = ingest.NewCSVSource(bytes.NewReader(data), logger)
	}
	return source.Parse(ctx)
}
