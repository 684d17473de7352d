package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/planhorizon/stockcast/internal/contract"
	"github.com/planhorizon/stockcast/schema"
	"golang.org/x/term"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// limitEntities caps the entity list at the configured result limit so that
// every output format renders the same slice. The batch result itself stays
// complete for summaries, gating and run storage.
func limitEntities(results []schema.EntityResult, limit int) []schema.EntityResult {
	if limit <= 0 || len(results) <= limit {
		return results
	}
	return results[:limit]
}

// countRows totals the derived rows across the given entity results.
func countRows(results []schema.EntityResult) int {
	total := 0
	for _, r := range results {
		total += len(r.Projection) + len(r.Policy) + len(r.Plan)
	}
	return total
}

// classLabel picks the colored or plain label for a classification cell.
func classLabel(class schema.Classification, useColors bool) string {
	if useColors {
		return contract.GetColorClassLabel(class)
	}
	return contract.GetPlainClassLabel(class)
}

// getMaxTableEntityWidth calculates the maximum width for entity IDs in table
// output based on terminal width and the fixed column budget of the table.
func getMaxTableEntityWidth(cfg *contract.Config, fixedWidth int) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		// Get terminal width
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve generous space for table borders, separators, and padding
	fixedWidth += 20

	// Calculate available space for the entity ID column
	available := termWidth - fixedWidth
	if available < 10 {
		// Minimum reasonable entity width
		return 10
	}
	if available > 40 {
		// Maximum entity width to prevent overly wide ID columns
		return 40
	}
	return available
}
