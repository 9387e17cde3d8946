package exporter

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"cohortpay/internal/config"
)

func TestXLSXWriter_WriteTable(t *testing.T) {
	tempDir := t.TempDir()
	writer := NewXLSXWriter(&config.Paths{ReportsDir: tempDir}, nil)

	header := []string{"command", "officers", "avg_total_paid"}
	rows := [][]string{
		{"ALL SRG", "412", "131000.25"},
		{"", "", ""},
		{"By Rank"},
	}

	loc, err := writer.WriteTable(context.Background(), "rankyear", header, rows)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(tempDir, "rankyear.xlsx"), loc)

	f, err := excelize.OpenFile(loc)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"rankyear"}, f.GetSheetList())

	got, err := f.GetRows("rankyear")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(got), 4)
	assert.Equal(t, header, got[0])
	assert.Equal(t, rows[0], got[1])
	assert.Equal(t, "By Rank", got[3][0])

	styleID, err := f.GetCellStyle("rankyear", "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)
}

func TestNewWriter(t *testing.T) {
	paths := &config.Paths{ReportsDir: t.TempDir()}

	w, err := NewWriter(config.OutputConfig{Format: "csv", BOM: true}, paths, nil)
	require.NoError(t, err)
	assert.IsType(t, &CSVWriter{}, w)

	w, err = NewWriter(config.OutputConfig{Format: "xlsx"}, paths, nil)
	require.NoError(t, err)
	assert.IsType(t, &XLSXWriter{}, w)

	_, err = NewWriter(config.OutputConfig{Format: "json"}, paths, nil)
	assert.Error(t, err)
}
