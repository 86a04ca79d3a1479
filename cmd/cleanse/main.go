// Command cleanse is the one-shot CLI: parse a spreadsheet or CSV, analyze
// it, apply the automatic fixes and write the cleaned table back out.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"rapihcli/internal/analyze"
	"rapihcli/internal/cleanse"
	"rapihcli/internal/exporter"
	"rapihcli/internal/ingest"
	"rapihcli/internal/pipeline"
	"rapihcli/pkg/contracts/domain"
)

func main() {
	in := flag.String("in", "", "input file (.xlsx, .xlsm, .csv)")
	out := flag.String("out", "", "output file; format follows the extension (.xlsx or .csv)")
	mode := flag.String("mode", "auto", "analysis mode: auto, finance, sales, data or strict")
	report := flag.String("report", "", "optional path for the JSON analysis report")
	dateFormat := flag.String("date-format", "", "target date format (default DD-MMM-YYYY)")
	textCase := flag.String("text-case", "", "optional uniform text case: upper, lower, title or sentence")
	analyzeOnly := flag.Bool("analyze-only", false, "report issues without writing a cleaned file")
	verbose := flag.Bool("v", false, "verbose logging")
	flag.Parse()

	if *in == "" {
		fmt.Fprintln(os.Stderr, "usage: cleanse -in data.xlsx [-out cleaned.xlsx] [-mode auto] [-report report.json]")
		os.Exit(2)
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(context.Background(), logger, options{
		in:          *in,
		out:         *out,
		mode:        domain.AnalysisMode(*mode),
		report:      *report,
		dateFormat:  *dateFormat,
		textCase:    *textCase,
		analyzeOnly: *analyzeOnly,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "cleanse: %v\n", err)
		os.Exit(1)
	}
}

type options struct {
	in          string
	out         string
	mode        domain.AnalysisMode
	report      string
	dateFormat  string
	textCase    string
	analyzeOnly bool
}

func run(ctx context.Context, logger *slog.Logger, opts options) error {
	source, err := sourceForPath(opts.in, logger)
	if err != nil {
		return err
	}

	analyzer := analyze.New(logger, analyze.DefaultConfig())
	cleaner := cleanse.New(logger)
	manager := pipeline.NewManager(logger, analyzer, cleaner, nil)

	result := manager.Run(ctx, pipeline.Request{
		Source: source,
		Mode:   opts.mode,
		CleanOptions: cleanse.Options{
			DateFormat: opts.dateFormat,
			TextCase:   opts.textCase,
		},
	})
	if !result.Success {
		return fmt.Errorf("stage %s failed: %s", result.Stage, result.Error)
	}

	printSummary(result)

	if opts.report != "" {
		if err := writeReport(opts.report, result); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("report written to %s\n", opts.report)
	}

	if opts.analyzeOnly || result.Clean == nil {
		return nil
	}

	outPath := opts.out
	if outPath == "" {
		ext := filepath.Ext(opts.in)
		outPath = strings.TrimSuffix(opts.in, ext) + "_cleaned" + ext
	}
	if err := writeCleaned(outPath, result, logger); err != nil {
		return err
	}
	fmt.Printf("cleaned table written to %s (%d rows, %d changes)\n",
		outPath, result.Clean.Stats.CleanedRowCount, result.Clean.Stats.TotalChanges)
	return nil
}

func sourceForPath(path string, logger *slog.Logger) (pipeline.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ingest.NewExcelSource(f, logger), nil
	case ".csv", ".txt":
		return ingest.NewCSVSource(f, logger), nil
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported input extension %q", filepath.Ext(path))
	}
}

func printSummary(result *domain.PipelineResult) {
	analysis := result.Analysis
	if analysis == nil {
		return
	}
	fmt.Printf("quality score: %d (%s, %s)\n",
		analysis.QualityScore.Score, analysis.QualityScore.Grade, analysis.QualityScore.Label)
	fmt.Printf("issues: %d critical, %d need review, %d auto-fixable\n",
		len(analysis.Categorized[domain.SeverityCritical]),
		len(analysis.Categorized[domain.SeverityNeedsReview]),
		len(analysis.Categorized[domain.SeverityAutoFix]))
	for _, issue := range analysis.Issues {
		if issue.Severity != domain.SeverityCritical {
			continue
		}
		fmt.Printf("  CRITICAL %s: %s\n", issue.Column, issue.Message)
	}
}

func writeReport(path string, result *domain.PipelineResult) error {
	report := result
	if report.Clean != nil {
		// Keep the report small: stats and change log, not the full table.
		clean := *report.Clean
		clean.Table = nil
		report = &domain.PipelineResult{
			Success:   result.Success,
			Analysis:  result.Analysis,
			Clean:     &clean,
			Timings:   result.Timings,
			StartedAt: result.StartedAt,
			Duration:  result.Duration,
		}
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func writeCleaned(path string, result *domain.PipelineResult, logger *slog.Logger) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return exporter.NewCSVWriter(logger).Write(path, result.Clean.Table, exporter.CSVOptions{BOMPrefix: true})
	case ".xlsx":
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		return exporter.NewExcelWriter(logger).Write(f, result.Clean.Table, result.Analysis)
	default:
		return fmt.Errorf("unsupported output extension %q", filepath.Ext(path))
	}
}
