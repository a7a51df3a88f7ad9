package salary

import "github.com/hh-tools/go-analyzer/internal/domain"

// Rates maps a currency code to its approximate value in rubles. The
// defaults are deliberately fixed approximations, not live market rates;
// analysis results are reproducible at the cost of exactness. Bounds in
// rubles or in a currency without a rate pass through unconverted.
type Rates map[string]float64

// DefaultRates returns the built-in conversion table. Override per
// deployment through configuration rather than editing these constants.
func DefaultRates() Rates {
	return Rates{
		"USD": 90,
		"EUR": 100,
	}
}

// Convert applies the rate to both bounds of a range. Missing bounds stay
// missing.
func (r Rates) Convert(rng domain.SalaryRange) (from, to *float64) {
	rate, ok := r[rng.Currency]
	if !ok {
		rate = 1
	}
	if rng.HasFrom {
		v := rng.From * rate
		from = &v
	}
	if rng.HasTo {
		v := rng.To * rate
		to = &v
	}
	return from, to
}
