package pricing

import (
	"github.com/shopspring/decimal"

	"vault-analytics-lab/internal/domain"
	"vault-analytics-lab/internal/scale"
)

// SpotPrice computes the pair price implied by one swap: units of the
// pricing-asset leg per unit of the priced leg.
//
// Weighted pools divide each leg by its cached normalized weight, which makes
// the ratio the pool's true spot price. Every other pool type uses the plain
// amount ratio. A zero weight on either side substitutes 1/1 weights;
// weightFallback reports that substitution so the caller can log it.
func SpotPrice(poolType domain.PoolType, pricingAmount, pricingWeight, pricedAmount, pricedWeight decimal.Decimal) (price decimal.Decimal, weightFallback bool) {
	if poolType != domain.PoolTypeWeighted {
		return pricingAmount.Div(pricedAmount), false
	}
	if pricingWeight.IsZero() || pricedWeight.IsZero() {
		pricingWeight = scale.One
		pricedWeight = scale.One
		weightFallback = true
	}
	return pricingAmount.Div(pricingWeight).Div(pricedAmount.Div(pricedWeight)), weightFallback
}
