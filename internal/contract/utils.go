package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/planhorizon/stockcast/schema"
)

// Color variables for console output.
var (
	ShortageColor  = color.New(color.FgRed, color.Bold)     // shortageColor flags projected stockouts.
	OverStockColor = color.New(color.FgMagenta, color.Bold) // overStockColor flags excess working capital.
	AlertColor     = color.New(color.FgYellow)              // alertColor warns below safety stock, not bold.
	TBCColor       = color.New(color.FgCyan)                // tbcColor marks periods awaiting demand data.
	OKColor        = color.New(color.FgGreen)               // okColor marks periods inside the band.
)

// GetPlainClassLabel returns the plain text label for a stock classification.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainClassLabel(class schema.Classification) string {
	return string(class)
}

// GetColorClassLabel returns a colored text label for console output (table).
// It uses GetPlainClassLabel to determine the string, and then applies the
// appropriate color.
func GetColorClassLabel(class schema.Classification) string {
	text := GetPlainClassLabel(class)

	switch class {
	case schema.ShortageClass:
		return ShortageColor.Sprint(text)
	case schema.OverStockClass:
		return OverStockColor.Sprint(text)
	case schema.AlertClass:
		return AlertColor.Sprint(text)
	case schema.TBCClass:
		return TBCColor.Sprint(text)
	default: // "OK"
		return OKColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// MatchesEntity returns true if the given entity ID matches any of the
// configured patterns. It supports simple glob patterns (using filepath.Match)
// when the pattern contains wildcard characters (*, ?, [ ]); other patterns
// are treated as substring matches. An empty pattern list matches everything.
func MatchesEntity(entityID string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, p := range patterns {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}

		if strings.ContainsAny(p, "*?[") {
			if ok, err := filepath.Match(p, entityID); err == nil && ok {
				return true
			}
			continue
		}

		if strings.Contains(entityID, p) {
			return true
		}
	}
	return false
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogRunHeader prints a concise, 2-line header for a batch run. Machine
// readable output modes stay clean, so the header only appears for text
// output going to stdout.
func LogRunHeader(cfg *Config) {
	if cfg.Output != schema.TextOut || cfg.OutputFile != "" {
		return
	}

	// Line 1: The run summary (Input and Mode)
	fmt.Printf("🔎 Input: %s (Mode: %s)\n", filepath.Base(cfg.InputPath), cfg.Mode)

	// Line 2: The parameters that shape this mode's results
	switch cfg.Mode {
	case schema.PolicyMode:
		fmt.Printf("📐 Band: %.2f → %.2f coverage periods\n", cfg.MinCoverage, cfg.MaxCoverage)
	case schema.PlanMode:
		fmt.Printf("📐 Safety: %.2f periods, MOQ: %g, frozen: %d\n", cfg.SafetyCoverage, cfg.MOQ, cfg.FrozenPeriods)
	default:
		fmt.Printf("📐 Bucket interval: %s\n", cfg.Interval)
	}
}

// LogCompareHeader prints a header for scenario comparison runs. The same
// text-to-stdout guard as LogRunHeader applies.
func LogCompareHeader(cfg *Config) {
	if cfg.Output != schema.TextOut || cfg.OutputFile != "" {
		return
	}
	fmt.Printf("🔎 Comparing: %s ↔ %s (Mode: %s)\n", filepath.Base(cfg.BaseInputPath), filepath.Base(cfg.InputPath), cfg.Mode)
}

// GetStoreDBFilePath returns the path to the SQLite DB file for plan storage.
func GetStoreDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".stockcast_plans.db"
	}
	return filepath.Join(homeDir, ".stockcast_plans.db")
}

// TruncateEntityID truncates an entity ID to a maximum width with an ellipsis
// prefix. Requires maxWidth > 3 so there is room for both the "..." prefix and
// at least one character of content.
func TruncateEntityID(entityID string, maxWidth int) string {
	runes := []rune(entityID)
	if len(runes) > maxWidth && maxWidth > 3 {
		return "..." + string(runes[len(runes)-maxWidth+3:])
	}
	return entityID
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
