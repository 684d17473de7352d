package schema

import "fmt"

// ValidationError reports malformed input rows for one entity: out-of-order
// or duplicate periods, negative quantities, or a misplaced opening balance.
type ValidationError struct {
	EntityID string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entity %s: invalid series: %s", e.EntityID, e.Reason)
}

// InvalidSeriesError reports an empty period series for one entity.
type InvalidSeriesError struct {
	EntityID string
}

func (e *InvalidSeriesError) Error() string {
	return fmt.Sprintf("entity %s: period series is empty", e.EntityID)
}

// InvalidHorizonError reports a horizon grid that does not line up with the
// period series, or that contains an unknown state.
type InvalidHorizonError struct {
	EntityID string
	Reason   string
}

func (e *InvalidHorizonError) Error() string {
	return fmt.Sprintf("entity %s: invalid horizon grid: %s", e.EntityID, e.Reason)
}

// ConfigurationError reports missing or inconsistent planning parameters for
// the requested run mode.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid planning configuration: %s", e.Reason)
}
