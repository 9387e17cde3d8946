// Package config provides centralized configuration management for cohortpay.
// It handles loading configuration from multiple sources, validation, and
// resolving the run's directories.
//
// # Configuration Sources
//
// Configuration is loaded from the following sources in order of precedence:
//
//	1. Command line flags (highest priority, applied by cmd/cohortpay)
//	2. Environment variables
//	3. YAML configuration file
//	4. Default values (lowest priority)
//
// # Environment Variables
//
// All environment variables follow the pattern COHORTPAY_<SECTION>_<FIELD>:
//
//	COHORTPAY_INPUT_DIR=/data/payroll
//	COHORTPAY_INPUT_FILES=payroll_2020.csv,payroll_2021.csv
//	COHORTPAY_ANALYSIS_RANK_MINIMUM=5
//	COHORTPAY_OUTPUT_FORMAT=xlsx
//	COHORTPAY_LOGGING_LEVEL=debug
//
// # Path Management
//
// Paths resolves the input, report and log directories against the working
// directory:
//
//	paths, err := config.GetPaths(cfg)
//	src := paths.GetInputPath("payroll_2021.csv")
//	out := paths.GetReportPath("commands.csv")
//
// # Validation
//
// Validate checks the validator struct tags plus the rules they cannot
// express: tenure boundaries must be strictly ascending, and an input file
// list is required unless discovery is enabled.
//
// # Testing
//
// Use config.Default() for a configuration that needs no file and no
// environment.
package config
