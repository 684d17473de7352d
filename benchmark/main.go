// Package main provides a performance benchmarking tool for the Stockcast CLI.
// It measures execution times across synthetic datasets of different sizes and
// command types, running each test multiple times, treating the first
// successful tracked run as cold and averaging the rest as warm, generating
// CSV output for performance analysis and documentation.
//
// Prerequisites:
// - stockcast binary installed and available in PATH
// - A writable directory for the generated datasets
//
// Usage: go run benchmark/main.go [data-base-dir]
//
//	data-base-dir: Directory where test datasets are generated
package main

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-store average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoStoreTime string
	ColdTime    string
	WarmTime    string
}

// DatasetSpec describes one synthetic dataset to generate.
type DatasetSpec struct {
	Name     string
	Entities int
	Periods  int
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DataBase    string
	Timeout     time.Duration
	Workers     int
	NoStoreRuns int
	StoreRuns   int
	Datasets    []DatasetSpec
}

func main() {
	// Parse command line arguments
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [data-base-dir]\n", os.Args[0])
		os.Exit(1)
	}
	dataBase := os.Args[1]

	config := BenchmarkConfig{
		DataBase:    dataBase,
		Timeout:     5 * time.Minute,
		Workers:     14,
		NoStoreRuns: 3,
		StoreRuns:   4,
		Datasets: []DatasetSpec{
			{Name: "small", Entities: 100, Periods: 52},
			{Name: "medium", Entities: 1000, Periods: 52},
			{Name: "large", Entities: 5000, Periods: 104},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	if err := generateDatasets(config); err != nil {
		fmt.Printf("Dataset generation failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the run store using stockcast run clear
	fmt.Printf("Clearing run store...\n")
	clearCmd := exec.Command("stockcast", "run", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear run store: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Run store cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the stockcast binary and data directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	// Check if stockcast is available
	if _, err := exec.LookPath("stockcast"); err != nil {
		return fmt.Errorf("stockcast binary not found in PATH")
	}

	// Check if the data directory exists
	if err := os.MkdirAll(config.DataBase, 0o755); err != nil {
		return fmt.Errorf("data directory %s is not writable: %w", config.DataBase, err)
	}

	return nil
}

// generateDatasets writes a base and a revised CSV for every dataset size.
// The revised file shares entities and periods with the base but shifts
// demand, so compare runs produce non-trivial deltas.
func generateDatasets(config BenchmarkConfig) error {
	for _, spec := range config.Datasets {
		basePath := datasetPath(config, spec.Name, false)
		if err := generateDataset(basePath, spec, 1); err != nil {
			return fmt.Errorf("failed to generate %s: %w", basePath, err)
		}
		revisedPath := datasetPath(config, spec.Name, true)
		if err := generateDataset(revisedPath, spec, 2); err != nil {
			return fmt.Errorf("failed to generate %s: %w", revisedPath, err)
		}
		fmt.Printf("Generated %s dataset: %d entities x %d periods\n", spec.Name, spec.Entities, spec.Periods)
	}
	return nil
}

func datasetPath(config BenchmarkConfig, name string, revised bool) string {
	if revised {
		return filepath.Join(config.DataBase, name+"_revised.csv")
	}
	return filepath.Join(config.DataBase, name+".csv")
}

// generateDataset writes one synthetic weekly demand file. The seed keeps runs
// reproducible while letting base and revised scenarios differ.
func generateDataset(path string, spec DatasetSpec, seed int64) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"entity_id", "period", "demand", "scheduled_supply", "opening_inventory"}); err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(seed))
	start := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)

	for e := range spec.Entities {
		entityID := fmt.Sprintf("SKU-%05d", e)
		baseDemand := 50.0 + rng.Float64()*200.0
		opening := fmt.Sprintf("%.0f", baseDemand*3)

		for p := range spec.Periods {
			period := start.AddDate(0, 0, 7*p).Format("2006-01-02")
			demand := fmt.Sprintf("%.0f", baseDemand*(0.7+rng.Float64()*0.6))
			supply := ""
			if p > 0 && p%4 == 0 {
				supply = fmt.Sprintf("%.0f", baseDemand*4)
			}
			row := []string{entityID, period, demand, supply, ""}
			if p == 0 {
				row[4] = opening
			}
			if err := writer.Write(row); err != nil {
				return err
			}
		}
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, %d workers, no-store: %d runs, store: %d runs\n",
		len(config.Datasets), config.Timeout, config.Workers, config.NoStoreRuns, config.StoreRuns)

	for _, spec := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", spec.Name)

		basePath := datasetPath(config, spec.Name, false)
		revisedPath := datasetPath(config, spec.Name, true)

		// Projection
		result := runBenchmarkSuite(config, spec.Name, basePath, "project", "inventory projection", "")
		results = append(results, result)

		// Policy analysis
		result = runBenchmarkSuite(config, spec.Name, basePath, "policy", "policy analysis", "--min-cov 1 --max-cov 3")
		results = append(results, result)

		// Replenishment planning
		result = runBenchmarkSuite(config, spec.Name, basePath, "plan", "replenishment planning", "--moq 50 --frozen 2")
		results = append(results, result)

		// Scenario comparison
		desc := fmt.Sprintf("scenario comparison (%s -> revised)", spec.Name)
		result = runBenchmarkSuite(config, spec.Name, basePath, "compare", desc, "--revised "+revisedPath+" --mode plan")
		results = append(results, result)
	}

	return results
}

// runBenchmarkSuite runs both no-store and store benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset, datasetPath, command, description, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", description, dataset)

	// Helper to run a benchmark phase
	runPhase := func(storeBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, datasetPath, command, extraArgs, storeBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-store runs measure raw computation
	_, noStoreAvg := runPhase("none", config.NoStoreRuns, "No-store")

	// Phase 2: Store runs measure run tracking overhead
	coldTime, warmAvg := runPhase("sqlite", config.StoreRuns, "Store")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-store average: %s, Cold time: %s, Warm average: %s\n", noStoreAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoStoreTime: noStoreAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a stockcast command multiple times with the specified store backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, datasetPath, command, extraArgs, storeBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	// Prepare command arguments
	args := []string{command, datasetPath, "--store-backend", storeBackend, "--workers", fmt.Sprintf("%d", config.Workers)}
	if extraArgs != "" {
		args = append(args, parseArgs(extraArgs)...)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("stockcast", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

func parseArgs(argsStr string) []string {
	var args []string
	var current strings.Builder
	inQuotes := false

	for _, r := range argsStr {
		switch r {
		case '"':
			inQuotes = !inQuotes
		case ' ':
			if !inQuotes && current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			} else if inQuotes {
				current.WriteRune(r)
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		args = append(args, current.String())
	}
	return args
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)

	// Every command footer ends with "<analysis> completed in <duration> with <n> workers"
	return strings.Contains(outputStr, "completed in") &&
		strings.Contains(outputStr, "workers")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/stockcast_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	if err := writer.Write([]string{"dataset", "cmd", "no_store_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	// Write results
	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoStoreTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	printCommandSummary(results, "project", "Inventory Projection:")
	printCommandSummary(results, "policy", "Policy Analysis:")
	printCommandSummary(results, "plan", "Replenishment Planning:")
	printCommandSummary(results, "compare", "Scenario Comparison:")

	fmt.Printf("Benchmark script completed successfully\n")
}

// printCommandSummary displays results for a specific command type
func printCommandSummary(results []BenchmarkResult, command, title string) {
	fmt.Printf("%s\n", title)
	for _, result := range results {
		if result.Command == command {
			fmt.Printf("  %-12s: No-store: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoStoreTime, result.ColdTime, result.WarmTime)
		}
	}
}
