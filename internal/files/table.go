package files

import (
	"context"
	"strings"
	"sync"

	apperrors "cohortpay/internal/errors"
)

// Row is one data row of a table, keyed by column header.
type Row struct {
	// Line is the 1-based line (CSV) or row number (XLSX) in the source.
	Line   int
	values map[string]string
}

// NewRow builds a row from header-keyed values. Values are trimmed.
func NewRow(line int, values map[string]string) Row {
	trimmed := make(map[string]string, len(values))
	for k, v := range values {
		trimmed[k] = strings.TrimSpace(v)
	}
	return Row{Line: line, values: trimmed}
}

// Get returns the value for column, or "" when the column is absent.
func (r Row) Get(column string) string {
	return r.values[column]
}

// Table is a named, header-bearing sequence of rows.
type Table struct {
	Name   string
	Header []string
	Rows   []Row
}

// TableReader reads a table from a named source.
type TableReader interface {
	ReadTable(ctx context.Context, name string) (Table, error)
}

// MemoryReader serves tables held in memory, keyed by name.
type MemoryReader map[string]Table

// ReadTable implements TableReader.
func (m MemoryReader) ReadTable(ctx context.Context, name string) (Table, error) {
	if err := ctx.Err(); err != nil {
		return Table{}, err
	}
	t, ok := m[name]
	if !ok {
		return Table{}, apperrors.NewNotFoundError(name, nil)
	}
	if t.Name == "" {
		t.Name = name
	}
	return t, nil
}

// buildRows maps raw records onto header names. Records shorter than the
// header leave the trailing columns empty; extra cells are ignored.
func buildRows(header []string, records [][]string, lines []int) []Row {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		values := make(map[string]string, len(header))
		for j, col := range header {
			if _, dup := values[col]; dup {
				continue
			}
			if j < len(rec) {
				values[col] = rec[j]
			} else {
				values[col] = ""
			}
		}
		rows = append(rows, NewRow(lines[i], values))
	}
	return rows
}

// isBlank reports whether every cell of rec is empty after trimming.
func isBlank(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// TableWriter writes a header-bearing table to a named sink. Implementations
// pick the file extension.
type TableWriter interface {
	WriteTable(ctx context.Context, name string, header []string, rows [][]string) (string, error)
}

// MemoryWriter keeps written tables in memory, keyed by name.
type MemoryWriter struct {
	mu     sync.Mutex
	Tables map[string]Table
}

// NewMemoryWriter creates an empty MemoryWriter.
func NewMemoryWriter() *MemoryWriter {
	return &MemoryWriter{Tables: make(map[string]Table)}
}

// WriteTable implements TableWriter. Rows are stored positionally, keyed by
// header; the returned location is "memory://<name>".
func (m *MemoryWriter) WriteTable(ctx context.Context, name string, header []string, rows [][]string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	lines := make([]int, len(rows))
	for i := range rows {
		lines[i] = i + 2
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.Tables[name] = Table{
		Name:   name,
		Header: append([]string(nil), header...),
		Rows:   buildRows(header, rows, lines),
	}
	return "memory://" + name, nil
}
