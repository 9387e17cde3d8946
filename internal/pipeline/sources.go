package pipeline

import (
	"cohortpay/internal/config"
	apperrors "cohortpay/internal/errors"
	"cohortpay/internal/files"
)

// ResolveSources returns the source names for a run: the configured file
// list, or the payroll files discovered in the input directory.
func ResolveSources(cfg *config.Config, paths *config.Paths) ([]string, error) {
	if !cfg.Input.Discover {
		return cfg.Input.Files, nil
	}

	found, err := files.NewDiscovery(paths.BaseDir).FindPayrollFiles(paths.InputDir)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to discover payroll files", err).
			WithContext("dir", paths.InputDir)
	}
	if len(found) == 0 {
		return nil, apperrors.NewNoInputError(0).WithContext("dir", paths.InputDir)
	}
	return files.Names(found), nil
}
