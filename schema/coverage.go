package schema

import (
	"encoding/json"
	"math"
	"strconv"
)

// Coverage counts the forward periods of demand that projected inventory can
// satisfy. It is fractional when inventory covers part of a period, zero when
// projected inventory is not positive, and BeyondHorizon when the remaining
// demand never exhausts it.
type Coverage float64

// BeyondHorizon is the sentinel for coverage that outlives the horizon.
var BeyondHorizon = Coverage(math.Inf(1))

// IsBeyondHorizon reports whether the coverage outlives the horizon.
func (c Coverage) IsBeyondHorizon() bool {
	return math.IsInf(float64(c), 1)
}

// Format renders the coverage with the given decimal precision, or the
// ">horizon" marker for the sentinel.
func (c Coverage) Format(precision int) string {
	if c.IsBeyondHorizon() {
		return ">horizon"
	}
	return strconv.FormatFloat(float64(c), 'f', precision, 64)
}

// String renders the coverage with two decimals.
func (c Coverage) String() string {
	return c.Format(2)
}

// MarshalJSON emits a plain number, or the string "inf" for the sentinel
// since JSON has no representation for infinity.
func (c Coverage) MarshalJSON() ([]byte, error) {
	if c.IsBeyondHorizon() {
		return []byte(`"inf"`), nil
	}
	return json.Marshal(float64(c))
}

// UnmarshalJSON accepts either a number or the "inf" sentinel string.
func (c *Coverage) UnmarshalJSON(data []byte) error {
	if string(data) == `"inf"` {
		*c = BeyondHorizon
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*c = Coverage(v)
	return nil
}

// Ratio relates projected inventory to a stock threshold. It is undefined
// when the threshold is zero.
type Ratio float64

// UndefinedRatio is the sentinel for a ratio against a zero threshold.
var UndefinedRatio = Ratio(math.NaN())

// IsDefined reports whether the ratio has a usable value.
func (r Ratio) IsDefined() bool {
	return !math.IsNaN(float64(r))
}

// Format renders the ratio with the given decimal precision, or "n/a" for
// the undefined sentinel.
func (r Ratio) Format(precision int) string {
	if !r.IsDefined() {
		return "n/a"
	}
	return strconv.FormatFloat(float64(r), 'f', precision, 64)
}

// String renders the ratio with two decimals.
func (r Ratio) String() string {
	return r.Format(2)
}

// MarshalJSON emits a plain number, or null for the undefined sentinel.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.IsDefined() {
		return []byte("null"), nil
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON accepts either a number or null.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = UndefinedRatio
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*r = Ratio(v)
	return nil
}

// NewRatio divides inventory by a threshold, returning the undefined sentinel
// when the threshold is zero.
func NewRatio(inventory, threshold float64) Ratio {
	if threshold == 0 {
		return UndefinedRatio
	}
	return Ratio(inventory / threshold)
}
