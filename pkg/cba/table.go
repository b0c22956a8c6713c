package cba

// Category labels for the comparison table. The consumable row label
// names the blasting medium so dry-ice and liquid-CO2 deployments read
// correctly.
const (
	CategoryCapital     = "Initial Capital Expenditure"
	CategoryLabor       = "Annual Labor Costs"
	CategoryWater       = "Annual Water Usage Costs"
	CategoryWaste       = "Annual Waste Disposal Costs"
	CategoryMaintenance = "Annual Maintenance & Utilities (Blaster)"
	CategoryRevenueGain = "Annual Revenue Gain from Reduced Downtime"
)

// CategoryRow is one line of the comparison table: a cost or benefit
// category with the manual method's annual figure and the blasting
// method's annual figure. Capital expenditure appears in the blaster
// column only, attributed entirely to year 1.
type CategoryRow struct {
	Category string  `json:"category"`
	Manual   float64 `json:"manual"`
	Blaster  float64 `json:"blaster"`
}

// consumableCategory returns the consumable row label for the configured
// blasting medium.
func consumableCategory(kind ConsumableKind) string {
	if kind == ConsumableLiquidCO2 {
		return "Annual Consumable Costs (Chemicals/Liquid CO2)"
	}
	return "Annual Consumable Costs (Chemicals/Dry Ice)"
}

// buildTable assembles the seven-row comparison table from an already
// computed breakdown. Cell values are the raw figures used in the
// totals, so summing a column's operational rows reproduces the
// corresponding total exactly.
func buildTable(p Params, b Breakdown, opts Options) []CategoryRow {
	return []CategoryRow{
		{Category: CategoryCapital, Manual: 0, Blaster: p.BlasterPurchaseCost},
		{Category: CategoryLabor, Manual: b.Manual.LaborCost, Blaster: b.Blaster.LaborCost},
		{Category: consumableCategory(opts.Consumable), Manual: b.Manual.ChemicalCost, Blaster: b.Blaster.ConsumableCost},
		{Category: CategoryWater, Manual: b.Manual.WaterCost, Blaster: 0},
		{Category: CategoryWaste, Manual: b.Manual.WasteDisposalCost, Blaster: 0},
		{Category: CategoryMaintenance, Manual: 0, Blaster: b.Blaster.MaintenanceAndPower},
		{Category: CategoryRevenueGain, Manual: 0, Blaster: b.AnnualRevenueGain},
	}
}
