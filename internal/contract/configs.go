package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/planhorizon/stockcast/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit    = 50
	MaxResultLimit        = 10000
	DefaultPrecision      = 2
	MaxPrecision          = 4
	DefaultMinCoverage    = 1.0
	DefaultMaxCoverage    = 3.0
	DefaultSafetyCoverage = 1.0
	DefaultReplenDuration = 1
	DefaultMOQ            = 1.0
)

// Gate threshold defaults. A value of -1 disables the corresponding limit.
const (
	DefaultMaxShortagePeriods = 0
	DefaultMaxAlertPeriods    = -1
	DefaultMinCoverageFloor   = 0.0
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for a batch run.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath     string
	BaseInputPath string // compare command only

	Mode     schema.RunMode
	Interval schema.BucketInterval

	// Policy analysis parameters
	MinCoverage float64
	MaxCoverage float64

	// Replenishment planning parameters
	SafetyCoverage float64
	ReplenDuration int
	MOQ            float64
	FrozenPeriods  int // leading frozen prefix when the input has no horizon column

	EntityPatterns []string
	ResultLimit    int
	Workers        int
	Precision      int
	Output         schema.OutputMode
	OutputFile     string
	Width          int // Terminal width override (0 = auto-detect)

	StoreBackend   schema.DatabaseBackend
	StoreDBConnect string // Please use env var as this is plaintext

	Thresholds schema.GateThresholds

	RunID      int64 // run export only; 0 means latest
	ExportFile string

	UseColors bool
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tags
	InputPathStr     string
	BaseInputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Mode           string `mapstructure:"mode"`
	Interval       string `mapstructure:"interval"`
	Entity         string `mapstructure:"entity"`
	Limit          int    `mapstructure:"limit"`
	Workers        int    `mapstructure:"workers"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	StoreBackend   string `mapstructure:"store-backend"`
	StoreDBConnect string `mapstructure:"store-db-connect"`

	// --- Fields from policyCmd.Flags() ---
	MinCov float64 `mapstructure:"min-cov"`
	MaxCov float64 `mapstructure:"max-cov"`

	// --- Fields from planCmd.Flags() ---
	SafetyCov      float64 `mapstructure:"safety-cov"`
	ReplenDuration int     `mapstructure:"replen-duration"`
	MOQ            float64 `mapstructure:"moq"`
	Frozen         int     `mapstructure:"frozen"`

	// --- Fields from checkCmd.Flags() ---
	MaxShortagePeriods int     `mapstructure:"max-shortage-periods"`
	MaxAlertPeriods    int     `mapstructure:"max-alert-periods"`
	MinCoverageFloor   float64 `mapstructure:"min-coverage-floor"`

	// --- Fields from run exportCmd.Flags() ---
	RunID      int64  `mapstructure:"run-id"`
	ExportFile string `mapstructure:"export-file"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.EntityPatterns != nil {
		clone.EntityPatterns = make([]string, len(c.EntityPatterns))
		copy(clone.EntityPatterns, c.EntityPatterns)
	}
	return &clone
}

// CloneWithMode creates a copy of the Config and sets the new run mode.
func (c *Config) CloneWithMode(mode schema.RunMode) *Config {
	clone := c.Clone()
	clone.Mode = mode
	return clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateModeInputs(cfg, input); err != nil {
		return err
	}
	if err := validatePolicyInputs(cfg, input); err != nil {
		return err
	}
	if err := validatePlanInputs(cfg, input); err != nil {
		return err
	}
	if err := processGateThresholds(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfig(cfg, input); err != nil {
		return err
	}
	if err := resolveInputPaths(cfg, input); err != nil {
		return err
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfig validates the plan store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.StoreBackend = schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.StoreBackend]; !ok {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreDBConnect = input.StoreDBConnect
	if err := ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreDBConnect); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.RunID = input.RunID
	cfg.ExportFile = input.ExportFile

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Precision and Output Validation ---
	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json", cfg.Output)
	}

	// --- 4. Entity Patterns Processing ---
	cfg.EntityPatterns = nil
	if input.Entity != "" {
		for p := range strings.SplitSeq(input.Entity, ",") {
			trimmedP := strings.TrimSpace(p)
			if trimmedP != "" {
				cfg.EntityPatterns = append(cfg.EntityPatterns, trimmedP)
			}
		}
	}

	return nil
}

// validateModeInputs validates the run mode and bucket interval.
func validateModeInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Mode = schema.RunMode(strings.ToLower(input.Mode))
	if _, ok := schema.ValidRunModes[cfg.Mode]; !ok {
		return fmt.Errorf("invalid mode '%s'. must be project, policy, plan", input.Mode)
	}

	cfg.Interval = schema.BucketInterval(strings.ToLower(input.Interval))
	if _, ok := schema.ValidBucketIntervals[cfg.Interval]; !ok {
		return fmt.Errorf("invalid interval '%s'. must be none, daily, weekly, monthly", input.Interval)
	}

	return nil
}

// validatePolicyInputs validates the coverage band for policy analysis.
func validatePolicyInputs(cfg *Config, input *ConfigRawInput) error {
	if input.MinCov < 0 {
		return fmt.Errorf("min-cov must be zero or greater (received %.2f)", input.MinCov)
	}
	if input.MaxCov < 0 {
		return fmt.Errorf("max-cov must be zero or greater (received %.2f)", input.MaxCov)
	}
	if input.MaxCov < input.MinCov {
		return fmt.Errorf("max-cov (%.2f) cannot be below min-cov (%.2f)", input.MaxCov, input.MinCov)
	}
	cfg.MinCoverage = input.MinCov
	cfg.MaxCoverage = input.MaxCov
	return nil
}

// validatePlanInputs validates the replenishment parameters.
func validatePlanInputs(cfg *Config, input *ConfigRawInput) error {
	if input.SafetyCov < 0 {
		return fmt.Errorf("safety-cov must be zero or greater (received %.2f)", input.SafetyCov)
	}
	if input.ReplenDuration < 1 {
		return fmt.Errorf("replen-duration must be at least 1 period (received %d)", input.ReplenDuration)
	}
	if input.MOQ <= 0 {
		return fmt.Errorf("moq must be greater than 0 (received %.2f)", input.MOQ)
	}
	if input.Frozen < 0 {
		return fmt.Errorf("frozen must be zero or greater (received %d)", input.Frozen)
	}
	cfg.SafetyCoverage = input.SafetyCov
	cfg.ReplenDuration = input.ReplenDuration
	cfg.MOQ = input.MOQ
	cfg.FrozenPeriods = input.Frozen
	return nil
}

// RevalidatePolicyBand applies coverage band overrides onto cfg with the same
// bounds the CLI enforces. Used by the MCP tool handlers.
func RevalidatePolicyBand(cfg *Config, minCov, maxCov float64) error {
	input := &ConfigRawInput{MinCov: minCov, MaxCov: maxCov}
	return validatePolicyInputs(cfg, input)
}

// RevalidatePlanParams applies replenishment parameter overrides onto cfg with
// the same bounds the CLI enforces. Used by the MCP tool handlers.
func RevalidatePlanParams(cfg *Config, safetyCov float64, replenDuration int, moq float64, frozen int) error {
	input := &ConfigRawInput{SafetyCov: safetyCov, ReplenDuration: replenDuration, MOQ: moq, Frozen: frozen}
	return validatePlanInputs(cfg, input)
}

// processGateThresholds converts the raw threshold input into cfg.Thresholds.
// A value of -1 disables the corresponding limit.
func processGateThresholds(cfg *Config, input *ConfigRawInput) error {
	if input.MaxShortagePeriods < -1 {
		return fmt.Errorf("max-shortage-periods must be -1 or greater (received %d)", input.MaxShortagePeriods)
	}
	if input.MaxAlertPeriods < -1 {
		return fmt.Errorf("max-alert-periods must be -1 or greater (received %d)", input.MaxAlertPeriods)
	}
	if input.MinCoverageFloor < 0 {
		return fmt.Errorf("min-coverage-floor must be zero or greater (received %.2f)", input.MinCoverageFloor)
	}
	cfg.Thresholds = schema.GateThresholds{
		MaxShortagePeriods: input.MaxShortagePeriods,
		MaxAlertPeriods:    input.MaxAlertPeriods,
		MinCoverage:        schema.Coverage(input.MinCoverageFloor),
	}
	return nil
}

// ValidateInputPath resolves a dataset path to an absolute path and verifies
// it points at an existing regular file.
func ValidateInputPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	absPath = filepath.Clean(absPath)

	info, err := os.Stat(absPath)
	if err != nil {
		return "", fmt.Errorf("input file %s is not readable: %w", absPath, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("input path %s is a directory, expected a CSV file", absPath)
	}
	return absPath, nil
}

// resolveInputPaths resolves the positional dataset paths. Commands without a
// dataset argument (run, mcp, version) leave them empty.
func resolveInputPaths(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = ""
	if input.InputPathStr != "" {
		resolved, err := ValidateInputPath(input.InputPathStr)
		if err != nil {
			return err
		}
		cfg.InputPath = resolved
	}

	cfg.BaseInputPath = ""
	if input.BaseInputPathStr != "" {
		resolved, err := ValidateInputPath(input.BaseInputPathStr)
		if err != nil {
			return err
		}
		cfg.BaseInputPath = resolved
	}

	return nil
}
