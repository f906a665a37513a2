package engine

import (
	"github.com/shopspring/decimal"

	domain "github.com/donaldgifford/dealhound/pkg/types"
)

// AlertDecision is the result of comparing an observation to the threshold.
type AlertDecision struct {
	Alert       bool
	Observation *domain.Observation
	Price       decimal.Decimal
	Threshold   decimal.Decimal
}

// Evaluate alerts when the observation has a price strictly below threshold.
// A price equal to the threshold does not alert.
func Evaluate(obs *domain.Observation, threshold decimal.Decimal) AlertDecision {
	d := AlertDecision{Observation: obs, Threshold: threshold}
	if obs == nil || !obs.HasPrice() {
		return d
	}
	d.Price = *obs.Price
	d.Alert = obs.Price.LessThan(threshold)
	return d
}
