package utils

import "fmt"

// Price tiers by bag count and weight. A booking falls into the cheapest
// tier whose limits cover both its bag count and weight.
const (
	priceTierLow    = 99.0  // up to 2 bags and 20kg
	priceTierMedium = 149.0 // up to 4 bags and 40kg
	priceTierHigh   = 199.0 // anything heavier

	lateNightSurcharge = 20.0
	prioritySurcharge  = 30.0
)

// PriceBreakdown is the result of a price calculation
type PriceBreakdown struct {
	Base               float64 `json:"base"`
	LateNightSurcharge float64 `json:"late_night_surcharge"`
	PrioritySurcharge  float64 `json:"priority_surcharge"`
	Total              float64 `json:"total"`
}

// CalculatePrice computes a booking price from its parameters. Pure:
// identical input always yields an identical breakdown. The server calls
// this at booking creation, never trusting a client-computed price.
func CalculatePrice(bags int, weightKg float64, lateNight, priority bool) (PriceBreakdown, error) {
	var out PriceBreakdown

	if bags <= 0 {
		return out, fmt.Errorf("bags must be a positive integer, got %d", bags)
	}
	if weightKg <= 0 {
		return out, fmt.Errorf("weight must be positive, got %v", weightKg)
	}

	switch {
	case bags <= 2 && weightKg <= 20:
		out.Base = priceTierLow
	case bags <= 4 && weightKg <= 40:
		out.Base = priceTierMedium
	default:
		out.Base = priceTierHigh
	}

	if lateNight {
		out.LateNightSurcharge = lateNightSurcharge
	}
	if priority {
		out.PrioritySurcharge = prioritySurcharge
	}

	out.Total = out.Base + out.LateNightSurcharge + out.PrioritySurcharge
	return out, nil
}
