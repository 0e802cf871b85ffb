package mortgage

// regionTaxPct holds typical effective property-tax rates (percent of
// value per year) for the states the brokerage serves.
var regionTaxPct = map[string]float64{
	"TX": 1.60,
	"OK": 0.90,
	"LA": 0.55,
	"NM": 0.67,
	"AR": 0.62,
}

// NationalTaxPct is used for visitors outside the served states.
const NationalTaxPct = 1.0

// DefaultTaxPct returns the calculator's starting property-tax rate for a
// US state code.  Unknown or empty regions get NationalTaxPct.
func DefaultTaxPct(region string) float64 {
	if pct, ok := regionTaxPct[region]; ok {
		return pct
	}
	return NationalTaxPct
}
