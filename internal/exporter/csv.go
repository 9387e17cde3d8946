package exporter

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"cohortpay/internal/config"
)

// CSVWriter provides CSV export functionality
type CSVWriter struct {
	paths  *config.Paths
	bom    bool
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance. When bom is set, files
// start with a UTF-8 BOM for Excel.
func NewCSVWriter(paths *config.Paths, bom bool, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{paths: paths, bom: bom, logger: logger}
}

// WriteOptions configures CSV writing behavior
type WriteOptions struct {
	Headers   []string
	Records   [][]string
	BOMPrefix bool // Add UTF-8 BOM for Excel compatibility
}

// WriteTable implements files.TableWriter, writing <name>.csv in the
// reports directory.
func (w *CSVWriter) WriteTable(ctx context.Context, name string, header []string, rows [][]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath := w.paths.GetReportPath(name + ".csv")
	err := w.WriteCSV(ctx, fullPath, WriteOptions{
		Headers:   header,
		Records:   rows,
		BOMPrefix: w.bom,
	})
	return fullPath, err
}

// WriteCSV writes data to a CSV file with the given options
func (w *CSVWriter) WriteCSV(ctx context.Context, filePath string, options WriteOptions) error {
	fullPath := w.paths.GetReportPath(filePath)

	w.logger.InfoContext(ctx, "Writing CSV file",
		slog.String("file_path", filePath),
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(options.Records)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	// Write BOM if requested (helps Excel recognize UTF-8)
	if options.BOMPrefix {
		if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
			return fmt.Errorf("failed to write BOM: %w", err)
		}
	}

	writer := csv.NewWriter(file)

	if len(options.Headers) > 0 {
		if err := writer.Write(options.Headers); err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
	}

	for i, record := range options.Records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return file.Close()
}
