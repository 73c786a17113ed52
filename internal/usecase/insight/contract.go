package insight

// RateProvider converts listing currencies to the base currency for price
// comparisons.
type RateProvider interface {
	// Rate returns the multiplier to base currency units. ok is false for an
	// unknown currency; callers treat unknown currencies as already in base.
	Rate(currency string) (rate float64, ok bool)
}

// StaticRates is a fixed currency table, typically loaded from configuration.
type StaticRates map[string]float64

// Rate implements RateProvider.
func (r StaticRates) Rate(currency string) (float64, bool) {
	rate, ok := r[currency]
	return rate, ok
}
