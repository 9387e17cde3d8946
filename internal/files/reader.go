package files

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"cohortpay/internal/config"
	apperrors "cohortpay/internal/errors"
)

// Reader reads payroll tables from the input directory.
type Reader struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewReader creates a new table reader instance
func NewReader(paths *config.Paths, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reader{paths: paths, logger: logger}
}

// ReadTable implements TableReader. The format is chosen by extension:
// .xlsx is read with excelize, anything else as CSV.
func (r *Reader) ReadTable(ctx context.Context, name string) (Table, error) {
	fullPath := r.paths.GetInputPath(name)

	if _, err := os.Stat(fullPath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Table{}, apperrors.NewNotFoundError(name, err).WithContext("path", fullPath)
		}
		return Table{}, apperrors.NewStorageError("failed to stat source", err).WithContext("path", fullPath)
	}

	var (
		table Table
		err   error
	)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		table, err = readXLSX(fullPath)
	default:
		table, err = readCSVFile(fullPath)
	}
	if err != nil {
		return Table{}, apperrors.NewParsingError("failed to read source table", err).WithContext("path", fullPath)
	}
	table.Name = name

	r.logger.InfoContext(ctx, "Read source table",
		slog.String("source", name),
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Header)))

	return table, nil
}

func readCSVFile(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	return ReadCSV(f)
}

// ReadCSV parses a header-bearing CSV stream. A leading UTF-8 BOM is
// dropped and blank lines are skipped.
func ReadCSV(in io.Reader) (Table, error) {
	reader := csv.NewReader(in)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return Table{}, nil
	}
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	header = normalizeHeader(header)

	var (
		records [][]string
		lines   []int
	)
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("read record: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		line, _ := reader.FieldPos(0)
		records = append(records, rec)
		lines = append(lines, line)
	}

	return Table{Header: header, Rows: buildRows(header, records, lines)}, nil
}

// readXLSX reads the first sheet; its first non-blank row is the header.
func readXLSX(path string) (Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Table{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return Table{}, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}

	var (
		header  []string
		records [][]string
		lines   []int
	)
	for i, row := range rows {
		if isBlank(row) {
			continue
		}
		if header == nil {
			header = normalizeHeader(row)
			continue
		}
		records = append(records, row)
		lines = append(lines, i+1)
	}

	return Table{Header: header, Rows: buildRows(header, records, lines)}, nil
}

func normalizeHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		out[i] = strings.TrimSpace(h)
	}
	return out
}
