package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"cohortpay/internal/config"
	"cohortpay/internal/files"
	"cohortpay/internal/infrastructure"
)

type rootOptions struct {
	configPath string
	inDir      string
	discover   bool
	logLevel   string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           config.AppName,
		Short:         "Payroll cohort analysis: command, rank, tenure and pay-change reports",
		Version:       config.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to a YAML config file (default: config.yaml or configs/config.yaml if present)")
	cmd.PersistentFlags().StringVar(&opts.inDir, "in", "", "Directory holding the yearly payroll files")
	cmd.PersistentFlags().BoolVar(&opts.discover, "discover", false, "Use every payroll_<year>.csv|xlsx in the input directory")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(newReportCmd(opts))
	cmd.AddCommand(newRanksCmd(opts))
	return cmd
}

// env is what every subcommand needs once config is resolved.
type env struct {
	cfg    *config.Config
	paths  *config.Paths
	logger *slog.Logger
	ctx    context.Context
}

// setup loads config, applies flag overrides and initializes logging.
// apply may adjust cfg before validation.
func (o *rootOptions) setup(cmd *cobra.Command, apply func(cfg *config.Config)) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("in") {
		cfg.Input.Dir = o.inDir
	}
	if flags.Changed("discover") {
		cfg.Input.Discover = o.discover
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = o.logLevel
	}
	if apply != nil {
		apply(cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	paths, err := config.GetPaths(cfg)
	if err != nil {
		return nil, err
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, err
	}

	ctx := infrastructure.EnsureTraceID(cmd.Context())
	logger.InfoContext(ctx, "Configuration loaded",
		slog.String("input_dir", paths.InputDir),
		slog.String("reports_dir", paths.ReportsDir),
		slog.String("format", cfg.Output.Format))

	return &env{cfg: cfg, paths: paths, logger: logger, ctx: ctx}, nil
}

func (e *env) reader() files.TableReader {
	return files.NewReader(e.paths, e.logger)
}
