package tax

// ============================================================================
// French Income Tax Bracket Definitions
// ============================================================================

// Bracket is a single progressive income-tax tier. Threshold is the
// inclusive lower bound of the tier; the rate applies to income strictly
// above it, up to the next tier's threshold.
type Bracket struct {
	Threshold float64
	Rate      float64
}

// frenchBrackets2025 is the barème for 2025 income.
// Source: https://www.service-public.fr/particuliers/vosdroits/F1419
var frenchBrackets2025 = []Bracket{
	{Threshold: 0, Rate: 0},
	{Threshold: 11_497, Rate: 0.11},
	{Threshold: 29_315, Rate: 0.30},
	{Threshold: 83_823, Rate: 0.41},
	{Threshold: 180_294, Rate: 0.45},
}

// Brackets returns a copy of the 2025 bracket table, for reference display.
func Brackets() []Bracket {
	out := make([]Bracket, len(frenchBrackets2025))
	copy(out, frenchBrackets2025)
	return out
}

// MarginalRate returns the TMI: the rate of the highest bracket whose lower
// bound is strictly below the income. Income exactly on a threshold keeps
// the previous tier's rate.
func MarginalRate(income float64) float64 {
	var rate float64
	for _, b := range frenchBrackets2025 {
		if income > b.Threshold {
			rate = b.Rate
		} else {
			break
		}
	}
	return rate
}

// ProgressiveTax computes the total income tax on an annual income by
// walking the bracket table bottom-up. Non-positive income yields zero.
func ProgressiveTax(income float64) float64 {
	if income <= 0 {
		return 0
	}
	var total float64
	for i, b := range frenchBrackets2025 {
		if income <= b.Threshold {
			break
		}
		upper := income
		if i+1 < len(frenchBrackets2025) && frenchBrackets2025[i+1].Threshold < upper {
			upper = frenchBrackets2025[i+1].Threshold
		}
		slice := upper - b.Threshold
		if slice < 0 {
			slice = 0
		}
		total += slice * b.Rate
	}
	return total
}

// TaxOnAdditionalIncome computes the tax attributable to an increment
// stacked on top of an existing annual income:
//
//	tax(base + increment) - tax(base)
//
// This spreads the increment across every bracket it spans instead of
// taxing all of it at the top marginal rate, which would overstate the tax.
func TaxOnAdditionalIncome(baseIncome, increment float64) float64 {
	return ProgressiveTax(baseIncome+increment) - ProgressiveTax(baseIncome)
}
