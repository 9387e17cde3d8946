package config

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	apperrors "cohortpay/internal/errors"
)

// EnvPrefix is the prefix for environment overrides, e.g. COHORTPAY_ANALYSIS_RANK_MINIMUM.
const EnvPrefix = "COHORTPAY"

// Config represents the complete application configuration
type Config struct {
	Logging   LoggingConfig   `yaml:"logging" envconfig:"LOGGING"`
	Input     InputConfig     `yaml:"input" envconfig:"INPUT"`
	Output    OutputConfig    `yaml:"output" envconfig:"OUTPUT"`
	Analysis  AnalysisConfig  `yaml:"analysis" envconfig:"ANALYSIS"`
	Telemetry TelemetryConfig `yaml:"telemetry" envconfig:"TELEMETRY"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn warning error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// InputConfig names the yearly payroll sources, in order. With Discover set,
// payroll_<year>.csv|xlsx files found in Dir replace the Files list.
type InputConfig struct {
	Dir         string   `yaml:"dir" envconfig:"DIR" validate:"required"`
	Files       []string `yaml:"files" envconfig:"FILES" validate:"dive,required"`
	Discover    bool     `yaml:"discover" envconfig:"DISCOVER"`
	Concurrency int      `yaml:"concurrency" envconfig:"CONCURRENCY" validate:"gte=1,lte=32"`
}

// OutputConfig controls where and how report tables are written.
type OutputConfig struct {
	Dir          string `yaml:"dir" envconfig:"DIR" validate:"required"`
	Format       string `yaml:"format" envconfig:"FORMAT" validate:"oneof=csv xlsx"`
	BOM          bool   `yaml:"bom" envconfig:"BOM"`
	Precision    int32  `yaml:"precision" envconfig:"PRECISION" validate:"gte=0,lte=10"`
	CommandsName string `yaml:"commands_name" envconfig:"COMMANDS_NAME" validate:"required"`
	RankYearName string `yaml:"rankyear_name" envconfig:"RANKYEAR_NAME" validate:"required"`
	PayName      string `yaml:"pay_name" envconfig:"PAY_NAME" validate:"required"`
}

// AnalysisConfig holds the cohort definition and the analytical policies.
type AnalysisConfig struct {
	CohortLabel         string   `yaml:"cohort_label" envconfig:"COHORT_LABEL" validate:"required"`
	CohortCommands      []string `yaml:"cohort_commands" envconfig:"COHORT_COMMANDS" validate:"required,min=1,dive,required"`
	SpecializedCommands []string `yaml:"specialized_commands" envconfig:"SPECIALIZED_COMMANDS" validate:"dive,required"`
	AsOfDate            string   `yaml:"as_of_date" envconfig:"AS_OF_DATE" validate:"required,datetime=2006-01-02"`
	RankMinimum         int      `yaml:"rank_minimum" envconfig:"RANK_MINIMUM" validate:"gte=0"`
	TenureBoundaries    []int    `yaml:"tenure_boundaries" envconfig:"TENURE_BOUNDARIES" validate:"required,min=1,dive,gt=0"`
	ExecutiveRankPrefix string   `yaml:"executive_rank_prefix" envconfig:"EXECUTIVE_RANK_PREFIX"`
	TargetYear          int      `yaml:"target_year" envconfig:"TARGET_YEAR" validate:"gte=0"`
	LeavePolicy         string   `yaml:"leave_policy" envconfig:"LEAVE_POLICY" validate:"oneof=all active"`
	PayLeavePolicy      string   `yaml:"pay_leave_policy" envconfig:"PAY_LEAVE_POLICY" validate:"oneof=all active"`
	EmptyGroups         string   `yaml:"empty_groups" envconfig:"EMPTY_GROUPS" validate:"oneof=placeholder omit"`
}

// TelemetryConfig controls tracing and the metrics textfile.
type TelemetryConfig struct {
	TraceFile   string `yaml:"trace_file" envconfig:"TRACE_FILE"`
	MetricsFile string `yaml:"metrics_file" envconfig:"METRICS_FILE"`
}

// AsOf returns the parsed tenure reference date.
func (a AnalysisConfig) AsOf() (time.Time, error) {
	return time.Parse("2006-01-02", a.AsOfDate)
}

// Load builds the configuration from defaults, an optional YAML file and
// COHORTPAY_* environment variables, in that order of precedence.
// An empty path falls back to the well-known config file locations.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = getConfigFilePath()
	}
	if path != "" {
		if err := loadFromFile(path, cfg); err != nil {
			return nil, apperrors.NewConfigError("failed to load config file", err).WithContext("path", path)
		}
	}

	// No default tags on the structs: only variables that are set override.
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, apperrors.NewConfigError("failed to load config from env", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFromFile overlays the YAML file onto cfg
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Validate checks struct tags plus the cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return apperrors.NewConfigError("config validation failed", err)
	}

	if !sort.IntsAreSorted(c.Analysis.TenureBoundaries) {
		return apperrors.NewConfigError("tenure boundaries must be ascending", nil).
			WithContext("tenure_boundaries", c.Analysis.TenureBoundaries)
	}
	for i := 1; i < len(c.Analysis.TenureBoundaries); i++ {
		if c.Analysis.TenureBoundaries[i] == c.Analysis.TenureBoundaries[i-1] {
			return apperrors.NewConfigError("tenure boundaries must be distinct", nil).
				WithContext("tenure_boundaries", c.Analysis.TenureBoundaries)
		}
	}

	if !c.Input.Discover && len(c.Input.Files) == 0 {
		return apperrors.NewConfigError("input files required unless discovery is enabled", nil)
	}

	if (c.Logging.Output == "file" || c.Logging.Output == "both") && c.Logging.FilePath == "" {
		return apperrors.NewConfigError("logging file path required for file output", nil)
	}
	return nil
}

// getConfigFilePath returns the path to the config file
func getConfigFilePath() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}

	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Output:   "console",
			FilePath: "logs/cohortpay.log",
		},
		Input: InputConfig{
			Dir:         ".",
			Files:       DefaultInputFiles(),
			Concurrency: 4,
		},
		Output: OutputConfig{
			Dir:          "reports",
			Format:       "csv",
			BOM:          false,
			Precision:    2,
			CommandsName: "commands",
			RankYearName: "rankyear",
			PayName:      "pay",
		},
		Analysis: AnalysisConfig{
			CohortLabel:         DefaultCohortLabel,
			CohortCommands:      append([]string(nil), DefaultCohortCommands...),
			SpecializedCommands: append([]string(nil), DefaultSpecializedCommands...),
			AsOfDate:            DefaultAsOfDate,
			RankMinimum:         DefaultRankMinimum,
			TenureBoundaries:    append([]int(nil), DefaultTenureBoundaries...),
			ExecutiveRankPrefix: DefaultExecutiveRankPrefix,
			TargetYear:          0,
			LeavePolicy:         "all",
			PayLeavePolicy:      "all",
			EmptyGroups:         "placeholder",
		},
	}
}

// DefaultInputFiles returns payroll_<year>.csv for every default fiscal year.
func DefaultInputFiles() []string {
	files := make([]string, 0, DefaultLastYear-DefaultFirstYear+1)
	for year := DefaultFirstYear; year <= DefaultLastYear; year++ {
		files = append(files, fmt.Sprintf("payroll_%d.csv", year))
	}
	return files
}
