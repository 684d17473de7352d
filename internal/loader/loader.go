// Package loader reads period series input files into datasets.
package loader

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/planhorizon/stockcast/schema"
)

// Input column names. Extra columns in the file are ignored.
const (
	colEntityID       = "entity_id"
	colPeriod         = "period"
	colDemand         = "demand"
	colOpening        = "opening_inventory"
	colSupply         = "scheduled_supply"
	colMinCoverage    = "min_coverage_periods"
	colMaxCoverage    = "max_coverage_periods"
	colSafetyCoverage = "safety_cov"
	colReplenDuration = "replen_duration"
	colMOQ            = "moq"
	colHorizon        = "horizon_status"
)

// requiredColumns must be present in the header. The remaining columns are
// per-entity parameter overrides and may be omitted entirely.
var requiredColumns = []string{colEntityID, colPeriod, colDemand}

// columnIndex maps a normalized column name to its position in the header.
type columnIndex map[string]int

// LoadDataset reads a CSV input file and groups its rows by entity.
// Value-level validation (negative demand, duplicate periods) happens later
// during series normalization; the loader only enforces shape and syntax.
func LoadDataset(path string) (schema.Dataset, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read input CSV: %w", err)
	}

	if len(records) < 2 {
		return nil, fmt.Errorf("input CSV must have a header and at least one data row")
	}

	cols, err := mapColumns(records[0])
	if err != nil {
		return nil, err
	}

	dataset := make(schema.Dataset)
	for i, record := range records[1:] {
		row, err := parseRow(record, cols)
		if err != nil {
			return nil, fmt.Errorf("input CSV row %d: %w", i+2, err)
		}
		dataset[row.EntityID] = append(dataset[row.EntityID], row)
	}

	return dataset, nil
}

// mapColumns resolves header cells to column positions, tolerating mixed
// case and surrounding whitespace. The first occurrence of a name wins.
func mapColumns(header []string) (columnIndex, error) {
	cols := make(columnIndex, len(header))
	for i, cell := range header {
		name := strings.ToLower(strings.TrimSpace(cell))
		if _, seen := cols[name]; !seen {
			cols[name] = i
		}
	}

	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("input CSV is missing required column %q", name)
		}
	}

	return cols, nil
}

// parseRow converts one CSV record into a period row. Blank demand marks the
// row incomplete so policy analysis can classify it TBC instead of trusting
// an implicit zero. Blank optional cells leave the global parameter in force.
func parseRow(record []string, cols columnIndex) (schema.PeriodRow, error) {
	get := func(name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[idx])
	}

	var row schema.PeriodRow

	row.EntityID = get(colEntityID)
	if row.EntityID == "" {
		return row, fmt.Errorf("blank entity_id")
	}

	period, err := schema.ParsePeriod(get(colPeriod))
	if err != nil {
		return row, err
	}
	row.Period = period

	if raw := get(colDemand); raw == "" {
		row.Incomplete = true
	} else {
		row.Demand, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return row, fmt.Errorf("invalid demand %q", raw)
		}
	}

	if raw := get(colOpening); raw != "" {
		row.OpeningInventory, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return row, fmt.Errorf("invalid opening_inventory %q", raw)
		}
	}

	if raw := get(colSupply); raw != "" {
		row.ScheduledSupply, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return row, fmt.Errorf("invalid scheduled_supply %q", raw)
		}
	}

	if row.MinCoverage, err = parseOptionalFloat(get(colMinCoverage), colMinCoverage); err != nil {
		return row, err
	}
	if row.MaxCoverage, err = parseOptionalFloat(get(colMaxCoverage), colMaxCoverage); err != nil {
		return row, err
	}
	if row.SafetyCoverage, err = parseOptionalFloat(get(colSafetyCoverage), colSafetyCoverage); err != nil {
		return row, err
	}
	if row.MOQ, err = parseOptionalFloat(get(colMOQ), colMOQ); err != nil {
		return row, err
	}

	if raw := get(colReplenDuration); raw != "" {
		duration, err := strconv.Atoi(raw)
		if err != nil {
			return row, fmt.Errorf("invalid %s %q", colReplenDuration, raw)
		}
		row.ReplenDuration = &duration
	}

	row.Horizon, err = schema.ParseHorizonStatus(get(colHorizon))
	if err != nil {
		return row, err
	}

	return row, nil
}

// parseOptionalFloat parses a blank-or-numeric override cell.
func parseOptionalFloat(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", name, raw)
	}
	return &v, nil
}
