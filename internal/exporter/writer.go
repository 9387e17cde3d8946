package exporter

import (
	"fmt"
	"log/slog"

	"cohortpay/internal/config"
	apperrors "cohortpay/internal/errors"
	"cohortpay/internal/files"
)

// NewWriter returns the table writer for the configured output format.
func NewWriter(cfg config.OutputConfig, paths *config.Paths, logger *slog.Logger) (files.TableWriter, error) {
	switch cfg.Format {
	case "", "csv":
		return NewCSVWriter(paths, cfg.BOM, logger), nil
	case "xlsx":
		return NewXLSXWriter(paths, logger), nil
	default:
		return nil, apperrors.NewConfigError(fmt.Sprintf("unsupported output format %q", cfg.Format), nil)
	}
}
