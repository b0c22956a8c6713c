// Package payback models the simple payback period of a capital purchase.
// The payback period is the time for cumulative net benefit to equal the
// initial capital cost, assuming a constant annual return after year 1.
package payback

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies the outcome of a payback calculation.
type Kind string

const (
	// Recovered means the capital cost is recovered after a fractional
	// number of years greater than one.
	Recovered Kind = "recovered"

	// WithinFirstYear means the first year's return already covers the
	// capital cost.
	WithinFirstYear Kind = "within_first_year"

	// NeverAtCurrentRate means the annual return is zero or negative, so
	// the capital cost is never recovered at current rates.
	NeverAtCurrentRate Kind = "never_at_current_rate"

	// NotApplicable means there is no capital cost to recover.
	NotApplicable Kind = "not_applicable"
)

// Payback is the outcome of a payback-period calculation. Years is only
// meaningful when Kind is Recovered.
type Payback struct {
	Kind  Kind    `json:"kind"`
	Years float64 `json:"years,omitempty"`
}

// Compute calculates the payback period for a capital purchase.
//
// capitalCost is the one-time year-1 purchase cost. annualReturn is the
// constant net benefit per year excluding the purchase (operational
// savings plus revenue gain).
//
// The outcome is one of:
//   - NotApplicable when capitalCost is zero (nothing to recover)
//   - WithinFirstYear when the first year's return covers the cost
//   - NeverAtCurrentRate when annualReturn <= 0 and cost remains
//   - Recovered otherwise, with Years = remaining cost / annualReturn
//     rounded to two decimals
func Compute(capitalCost, annualReturn float64) Payback {
	if capitalCost == 0 {
		return Payback{Kind: NotApplicable}
	}

	remaining := capitalCost - annualReturn
	if remaining <= 0 {
		return Payback{Kind: WithinFirstYear}
	}

	if annualReturn <= 0 {
		return Payback{Kind: NeverAtCurrentRate}
	}

	// Fractional years to recover what the first year's return left over.
	years := remaining / annualReturn

	// Two-decimal precision for reporting.
	rounded, _ := decimal.NewFromFloat(years).Round(2).Float64()

	return Payback{Kind: Recovered, Years: rounded}
}

// String renders the payback outcome as a human-readable sentence
// fragment suitable for summaries.
func (p Payback) String() string {
	switch p.Kind {
	case Recovered:
		return fmt.Sprintf("%.2f years", p.Years)
	case WithinFirstYear:
		return "under one year"
	case NeverAtCurrentRate:
		return "never at current rates"
	case NotApplicable:
		return "not applicable (no capital cost)"
	default:
		return string(p.Kind)
	}
}
