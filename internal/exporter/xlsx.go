package exporter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"cohortpay/internal/config"
)

// XLSXWriter writes each table to its own workbook.
type XLSXWriter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(paths *config.Paths, logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{paths: paths, logger: logger}
}

// WriteTable implements files.TableWriter, writing <name>.xlsx with a single
// sheet named after the table. Cells are written as text.
func (w *XLSXWriter) WriteTable(ctx context.Context, name string, header []string, rows [][]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	fullPath := w.paths.GetReportPath(name + ".xlsx")

	w.logger.InfoContext(ctx, "Writing XLSX file",
		slog.String("full_path", fullPath),
		slog.Int("record_count", len(rows)))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := name
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return "", fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return "", fmt.Errorf("failed to create header style: %w", err)
	}

	if err := setRow(f, sheet, 1, header); err != nil {
		return "", err
	}
	if len(header) > 0 {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
			return "", fmt.Errorf("failed to style header: %w", err)
		}
	}
	for i, row := range rows {
		if err := setRow(f, sheet, i+2, row); err != nil {
			return "", err
		}
	}

	if err := f.SaveAs(fullPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}
	return fullPath, nil
}

func setRow(f *excelize.File, sheet string, rowNum int, values []string) error {
	if len(values) == 0 {
		return nil
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", rowNum, err)
	}
	return nil
}
