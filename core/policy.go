package core

import (
	"fmt"

	"github.com/planhorizon/stockcast/schema"
)

// PolicyParams hold the coverage band for stock policy analysis, expressed in
// periods of forward demand.
type PolicyParams struct {
	MinCoverage float64
	MaxCoverage float64
}

func (p PolicyParams) validate() error {
	if p.MinCoverage < 0 {
		return &schema.ConfigurationError{Reason: fmt.Sprintf("minimum coverage %.2f is negative", p.MinCoverage)}
	}
	if p.MaxCoverage < p.MinCoverage {
		return &schema.ConfigurationError{
			Reason: fmt.Sprintf("maximum coverage %.2f is below minimum coverage %.2f", p.MaxCoverage, p.MinCoverage),
		}
	}
	return nil
}

// AnalyzeSeries projects a normalized series and classifies every period
// against the safety and maximum stock bands. Thresholds scale with that
// period's own demand, so a zero-demand period has zero-quantity bands and
// undefined ratios.
func AnalyzeSeries(entityID string, rows []schema.PeriodRow, params PolicyParams) ([]schema.PolicyRow, error) {
	if err := params.validate(); err != nil {
		return nil, err
	}

	projection, err := ProjectSeries(entityID, rows)
	if err != nil {
		return nil, err
	}

	out := make([]schema.PolicyRow, len(projection))
	for i, proj := range projection {
		safety := params.MinCoverage * rows[i].Demand
		maximum := params.MaxCoverage * rows[i].Demand
		out[i] = schema.PolicyRow{
			ProjectionRow:   proj,
			SafetyStockQty:  safety,
			MaximumStockQty: maximum,
			Classification:  classifyPeriod(rows[i], proj.ProjectedInventory, safety, maximum),
			SafetyRatio:     schema.NewRatio(proj.ProjectedInventory, safety),
			MaximumRatio:    schema.NewRatio(proj.ProjectedInventory, maximum),
		}
	}

	return out, nil
}

// classifyPeriod applies the five-way classification in precedence order.
// Incomplete input data wins over every computed signal.
func classifyPeriod(row schema.PeriodRow, inventory, safety, maximum float64) schema.Classification {
	switch {
	case row.Incomplete:
		return schema.TBCClass
	case inventory < 0:
		return schema.ShortageClass
	case inventory > maximum:
		return schema.OverStockClass
	case inventory < safety:
		return schema.AlertClass
	default:
		return schema.OKClass
	}
}
