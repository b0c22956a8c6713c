package cba

import "github.com/frostworks/blastcost/pkg/payback"

// InvestmentGrade returns a letter grade and message based on the
// lifespan-amortized (or single-year) ROI percentage.
func InvestmentGrade(roiPct float64) (grade, message string) {
	switch {
	case roiPct >= 500:
		return "A+", "Exceptional return"
	case roiPct >= 200:
		return "A", "Compelling investment"
	case roiPct >= 100:
		return "B", "Solid investment"
	case roiPct >= 50:
		return "C", "Marginal"
	case roiPct > 0:
		return "D", "Weak return"
	default:
		return "F", "Loses money"
	}
}

// PaybackGrade returns a grade based on how quickly the capital cost is
// recovered. Faster recovery means less exposure to demand changes and
// equipment obsolescence.
func PaybackGrade(p payback.Payback) (grade, message string) {
	switch p.Kind {
	case payback.WithinFirstYear:
		return "A+", "Pays for itself immediately"
	case payback.NotApplicable:
		return "A", "Nothing to recover"
	case payback.NeverAtCurrentRate:
		return "F", "Never recovers the purchase cost"
	case payback.Recovered:
	default:
		return "F", "Never recovers the purchase cost"
	}

	switch {
	case p.Years <= 1:
		return "A", "Recovered within the second year"
	case p.Years <= 2:
		return "B", "Quick recovery"
	case p.Years <= 4:
		return "C", "Moderate recovery"
	case p.Years <= 7:
		return "D", "Slow recovery"
	default:
		return "F", "Longer than typical machine lifespan"
	}
}
