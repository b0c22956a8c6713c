// Package cba calculates the annual cost-benefit comparison between manual
// conveyor-belt cleaning and dry-ice (CO2) blasting for a food-processing
// facility. Costs are broken down into itemized categories with summary
// metrics for savings, ROI, and capital payback.
package cba

import (
	"github.com/frostworks/blastcost/pkg/payback"
)

// Operating days per year. The model assumes cleaning happens every day
// of a fixed 365-day year with no calendar awareness.
const daysPerYear = 365

// ConsumableKind selects the blasting medium.
type ConsumableKind string

const (
	// ConsumableDryIce is dry-ice pellets, consumed in kg per blasting hour.
	ConsumableDryIce ConsumableKind = "dry_ice"
	// ConsumableLiquidCO2 is liquid CO2, consumed in litres per blasting hour.
	ConsumableLiquidCO2 ConsumableKind = "liquid_co2"
)

// ROIPolicy selects how return on investment is computed.
type ROIPolicy string

const (
	// ROISingleYear reports one steady-state year's net benefit against
	// the capital cost.
	ROISingleYear ROIPolicy = "single_year"
	// ROILifespanAmortized reports the net benefit accumulated over the
	// machine's full lifespan against the capital cost.
	ROILifespanAmortized ROIPolicy = "lifespan_amortized"
)

// Options holds the capability switches for a calculation.
type Options struct {
	// Include electricity consumption as a blaster operating cost.
	// Deployments without utility tracking disable this.
	IncludePowerCost bool `json:"include_power_cost"`

	// ROI computation policy (default: lifespan-amortized).
	ROIPolicy ROIPolicy `json:"roi_policy"`

	// Blasting consumable kind; affects table labels and units only.
	Consumable ConsumableKind `json:"consumable"`

	// Three-letter currency code used for display. The engine never
	// converts currencies; this is a pass-through label.
	Currency string `json:"currency"`
}

// DefaultOptions returns the options used by the reference deployment.
func DefaultOptions() Options {
	return Options{
		IncludePowerCost: true,
		ROIPolicy:        ROILifespanAmortized,
		Consumable:       ConsumableDryIce,
		Currency:         "FJD",
	}
}

// Params holds all operating inputs for a calculation. All cost and rate
// fields are per-unit amounts in the deployment currency. The validate
// tags document each field's legal range; Calculate rejects violations.
type Params struct {
	// Cleaning sessions per day.
	SessionsPerDay int `json:"sessions_per_day" validate:"gte=1"`

	// Staff assigned to one manual cleaning session.
	ManualStaffCount int `json:"manual_staff_count" validate:"gte=1"`

	// Duration of one manual cleaning session in hours.
	ManualHoursPerSession float64 `json:"manual_hours_per_session" validate:"gt=0"`

	// Loaded hourly cost of one staff member (wage + benefits + overhead).
	StaffHourlyCost float64 `json:"staff_hourly_cost" validate:"gte=0"`

	// Revenue generated per hour of production uptime.
	RevenuePerProductionHour float64 `json:"revenue_per_production_hour" validate:"gte=0"`

	// Manual-method per-session consumable costs.
	ChemicalCostPerSession      float64 `json:"chemical_cost_per_session" validate:"gte=0"`
	WaterCostPerSession         float64 `json:"water_cost_per_session" validate:"gte=0"`
	WasteDisposalCostPerSession float64 `json:"waste_disposal_cost_per_session" validate:"gte=0"`

	// One-time purchase cost of the blaster (year 1 capital expenditure).
	BlasterPurchaseCost float64 `json:"blaster_purchase_cost" validate:"gte=0"`

	// Consumable cost per unit (per kg of dry ice or per litre of liquid CO2).
	ConsumableCostPerUnit float64 `json:"consumable_cost_per_unit" validate:"gte=0"`

	// Consumable units consumed per blasting hour.
	ConsumableUnitsPerHour float64 `json:"consumable_units_per_hour" validate:"gte=0"`

	// Flat annual maintenance cost for the blaster.
	AnnualMaintenanceCost float64 `json:"annual_maintenance_cost" validate:"gte=0"`

	// Blaster power draw in kW and the electricity tariff per kWh.
	PowerDrawKW           float64 `json:"power_draw_kw" validate:"gte=0"`
	ElectricityCostPerKWH float64 `json:"electricity_cost_per_kwh" validate:"gte=0"`

	// Percentage reduction of cleaning time versus the manual method.
	// Must stay below 100 so blasting hours remain positive.
	TimeReductionPercent float64 `json:"time_reduction_percent" validate:"gte=0,lt=100"`

	// Expected machine lifespan in whole years; divides the amortized ROI.
	LifespanYears int `json:"lifespan_years" validate:"gte=1"`
}

// DefaultParams returns the reference deployment's form defaults.
func DefaultParams() Params {
	return Params{
		SessionsPerDay:              1,
		ManualStaffCount:            3,
		ManualHoursPerSession:       3.0,
		StaffHourlyCost:             6.00,
		RevenuePerProductionHour:    500.00,
		ChemicalCostPerSession:      10.00,
		WaterCostPerSession:         5.00,
		WasteDisposalCostPerSession: 5.00,
		BlasterPurchaseCost:         15000.00,
		ConsumableCostPerUnit:       2.50,
		ConsumableUnitsPerHour:      20.0,
		AnnualMaintenanceCost:       500.00,
		PowerDrawKW:                 3.0,
		ElectricityCostPerKWH:       0.35,
		TimeReductionPercent:        60,
		LifespanYears:               5,
	}
}

// ManualCostDetail itemizes the manual method's annual operating costs.
type ManualCostDetail struct {
	LaborCost         float64 `json:"labor_cost"`
	ChemicalCost      float64 `json:"chemical_cost"`
	WaterCost         float64 `json:"water_cost"`
	WasteDisposalCost float64 `json:"waste_disposal_cost"`
	TotalCost         float64 `json:"total_cost"`
}

// BlasterCostDetail itemizes the blasting method's annual operating costs.
// MaintenanceAndPower carries the flat maintenance cost plus electricity
// (zero when power tracking is disabled).
type BlasterCostDetail struct {
	LaborCost           float64 `json:"labor_cost"`
	ConsumableCost      float64 `json:"consumable_cost"`
	MaintenanceAndPower float64 `json:"maintenance_and_power"`
	PowerCost           float64 `json:"power_cost"`
	TotalCost           float64 `json:"total_cost"`
}

// Breakdown is the full result of one calculation: intermediate
// quantities, itemized annual costs for both methods, the category
// comparison table, and the summary metrics. It is recomputed fresh on
// every call and never mutated afterwards.
type Breakdown struct {
	// Derived operating quantities.
	AnnualSessions           int     `json:"annual_sessions"`
	BlastingHoursPerSession  float64 `json:"blasting_hours_per_session"`
	DowntimeSavedPerSession  float64 `json:"downtime_saved_per_session"`
	AnnualDowntimeSavedHours float64 `json:"annual_downtime_saved_hours"`
	AnnualRevenueGain        float64 `json:"annual_revenue_gain"`

	// Itemized annual costs per method.
	Manual  ManualCostDetail  `json:"manual"`
	Blaster BlasterCostDetail `json:"blaster"`

	// Category comparison table (manual vs. blaster columns).
	Table []CategoryRow `json:"table"`

	// Summary metrics.
	OperationalSavings   float64         `json:"operational_savings"`
	NetBenefitYear1      float64         `json:"net_benefit_year1"`
	NetBenefitSubsequent float64         `json:"net_benefit_subsequent"`
	ROIPercent           float64         `json:"roi_percent"`
	ROIPolicy            ROIPolicy       `json:"roi_policy"`
	Payback              payback.Payback `json:"payback"`

	// Display currency code, copied from Options.
	Currency string `json:"currency"`
}

// Calculate produces the cost-benefit comparison for the given inputs.
// It is a pure function: no I/O, no retained state, identical inputs
// yield identical outputs. Inputs outside their documented ranges are
// rejected with a *DomainError before any arithmetic runs.
func Calculate(p Params, opts Options) (Breakdown, error) {
	if err := Validate(p); err != nil {
		return Breakdown{}, err
	}
	opts = normalizeOptions(opts)
	if err := validateOptions(opts); err != nil {
		return Breakdown{}, err
	}

	annualSessions := p.SessionsPerDay * daysPerYear
	sessions := float64(annualSessions)

	// Manual method.
	manualLabor := float64(p.ManualStaffCount) * p.ManualHoursPerSession * p.StaffHourlyCost * sessions
	manualChemical := p.ChemicalCostPerSession * sessions
	manualWater := p.WaterCostPerSession * sessions
	manualWaste := p.WasteDisposalCostPerSession * sessions
	manual := ManualCostDetail{
		LaborCost:         manualLabor,
		ChemicalCost:      manualChemical,
		WaterCost:         manualWater,
		WasteDisposalCost: manualWaste,
		TotalCost:         manualLabor + manualChemical + manualWater + manualWaste,
	}

	// Blasting method. A single operator runs the blaster.
	blastingHours := p.ManualHoursPerSession * (1 - p.TimeReductionPercent/100)
	blasterLabor := 1 * blastingHours * p.StaffHourlyCost * sessions
	consumable := p.ConsumableUnitsPerHour * blastingHours * p.ConsumableCostPerUnit * sessions

	var powerCost float64
	if opts.IncludePowerCost {
		powerCost = p.PowerDrawKW * blastingHours * p.ElectricityCostPerKWH * sessions
	}
	// Maintenance and electricity share a table row; summing them here
	// keeps the table cells reconcilable with the totals bit-for-bit.
	maintenanceAndPower := p.AnnualMaintenanceCost + powerCost

	blaster := BlasterCostDetail{
		LaborCost:           blasterLabor,
		ConsumableCost:      consumable,
		MaintenanceAndPower: maintenanceAndPower,
		PowerCost:           powerCost,
		TotalCost:           blasterLabor + consumable + maintenanceAndPower,
	}

	// Downtime benefit. Non-negative because TimeReductionPercent < 100.
	downtimeSaved := p.ManualHoursPerSession - blastingHours
	annualDowntimeSaved := downtimeSaved * sessions
	revenueGain := annualDowntimeSaved * p.RevenuePerProductionHour

	// Summary metrics.
	operationalSavings := manual.TotalCost - blaster.TotalCost
	netYear1 := operationalSavings + revenueGain - p.BlasterPurchaseCost
	netSubsequent := operationalSavings + revenueGain

	roi := computeROI(opts.ROIPolicy, p, netYear1, netSubsequent)
	pb := payback.Compute(p.BlasterPurchaseCost, netSubsequent)

	b := Breakdown{
		AnnualSessions:           annualSessions,
		BlastingHoursPerSession:  blastingHours,
		DowntimeSavedPerSession:  downtimeSaved,
		AnnualDowntimeSavedHours: annualDowntimeSaved,
		AnnualRevenueGain:        revenueGain,
		Manual:                   manual,
		Blaster:                  blaster,
		OperationalSavings:       operationalSavings,
		NetBenefitYear1:          netYear1,
		NetBenefitSubsequent:     netSubsequent,
		ROIPercent:               roi,
		ROIPolicy:                opts.ROIPolicy,
		Payback:                  pb,
		Currency:                 opts.Currency,
	}
	b.Table = buildTable(p, b, opts)

	return b, nil
}

// computeROI applies the selected ROI policy. A zero capital cost is
// defined as 0% ROI rather than an error: an infinite return is not an
// actionable figure.
func computeROI(policy ROIPolicy, p Params, netYear1, netSubsequent float64) float64 {
	if p.BlasterPurchaseCost == 0 {
		return 0
	}
	switch policy {
	case ROISingleYear:
		return netSubsequent / p.BlasterPurchaseCost * 100
	case ROILifespanAmortized:
		lifetime := netYear1 + netSubsequent*float64(p.LifespanYears-1)
		return lifetime / p.BlasterPurchaseCost * 100
	default:
		// validateOptions rejects unknown policies before this runs.
		return 0
	}
}

// validateOptions rejects unknown enum values so typos surface as
// errors instead of silently picking a policy.
func validateOptions(opts Options) error {
	switch opts.ROIPolicy {
	case ROISingleYear, ROILifespanAmortized:
	default:
		return &DomainError{Field: "roi_policy", Range: "single_year or lifespan_amortized", Value: opts.ROIPolicy}
	}
	switch opts.Consumable {
	case ConsumableDryIce, ConsumableLiquidCO2:
	default:
		return &DomainError{Field: "consumable", Range: "dry_ice or liquid_co2", Value: opts.Consumable}
	}
	return nil
}

// normalizeOptions fills zero-valued option fields with defaults so a
// partially populated options record behaves predictably.
func normalizeOptions(opts Options) Options {
	if opts.ROIPolicy == "" {
		opts.ROIPolicy = ROILifespanAmortized
	}
	if opts.Consumable == "" {
		opts.Consumable = ConsumableDryIce
	}
	if opts.Currency == "" {
		opts.Currency = DefaultOptions().Currency
	}
	return opts
}
