package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Paths contains the resolved directories used by a run.
// Relative config entries are resolved against BaseDir.
type Paths struct {
	BaseDir    string
	InputDir   string
	ReportsDir string
	LogsDir    string
}

// GetPaths resolves the configured directories against the working directory.
func GetPaths(cfg *Config) (*Paths, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	return ResolvePaths(wd, cfg), nil
}

// ResolvePaths resolves the configured directories against baseDir.
func ResolvePaths(baseDir string, cfg *Config) *Paths {
	resolve := func(p string) string {
		if filepath.IsAbs(p) {
			return filepath.Clean(p)
		}
		return filepath.Join(baseDir, p)
	}

	logsDir := baseDir
	if cfg.Logging.FilePath != "" {
		logsDir = filepath.Dir(resolve(cfg.Logging.FilePath))
	}

	return &Paths{
		BaseDir:    baseDir,
		InputDir:   resolve(cfg.Input.Dir),
		ReportsDir: resolve(cfg.Output.Dir),
		LogsDir:    logsDir,
	}
}

// EnsureDirectories creates the output directories if they don't exist.
// The input directory is never created; a missing one is a user error.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.ReportsDir, p.LogsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		slog.Debug("Ensured directory exists", slog.String("directory", dir))
	}
	return nil
}

// GetInputPath returns the path for a payroll source file
func (p *Paths) GetInputPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.InputDir, filename)
}

// GetReportPath returns the path for a report file
func (p *Paths) GetReportPath(filename string) string {
	if filepath.IsAbs(filename) {
		return filename
	}
	return filepath.Join(p.ReportsDir, filename)
}
