// Package main implements a CLI tool to compare the annual cost of
// manual conveyor-belt cleaning against dry-ice (CO2) blasting.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/frostworks/blastcost/pkg/cba"
	"github.com/frostworks/blastcost/pkg/money"
	"github.com/frostworks/blastcost/pkg/payback"
)

func main() {
	def := cba.DefaultParams()
	defOpts := cba.DefaultOptions()

	// Operational parameters
	sessions := flag.Int("sessions", def.SessionsPerDay, "Cleaning sessions per day")
	staff := flag.Int("staff", def.ManualStaffCount, "Staff assigned to manual cleaning")
	manualHours := flag.Float64("manual-hours", def.ManualHoursPerSession, "Manual cleaning hours per session")
	hourlyCost := flag.Float64("hourly-cost", def.StaffHourlyCost, "Loaded staff hourly cost")
	revenue := flag.Float64("revenue-per-hour", def.RevenuePerProductionHour, "Revenue per hour of production uptime")

	// Manual-method per-session costs
	chemical := flag.Float64("chemical", def.ChemicalCostPerSession, "Chemical cost per manual session")
	water := flag.Float64("water", def.WaterCostPerSession, "Water cost per manual session")
	waste := flag.Float64("waste", def.WasteDisposalCostPerSession, "Waste disposal cost per manual session")

	// Blaster parameters
	capital := flag.Float64("capital", def.BlasterPurchaseCost, "Blaster purchase cost (one-time)")
	consumableCost := flag.Float64("consumable-cost", def.ConsumableCostPerUnit, "Consumable cost per unit (kg or litre)")
	consumableRate := flag.Float64("consumable-rate", def.ConsumableUnitsPerHour, "Consumable units per blasting hour")
	maintenance := flag.Float64("maintenance", def.AnnualMaintenanceCost, "Annual blaster maintenance cost")
	powerKW := flag.Float64("power-kw", def.PowerDrawKW, "Blaster power draw in kW")
	electricity := flag.Float64("electricity", def.ElectricityCostPerKWH, "Electricity cost per kWh")
	reduction := flag.Float64("reduction", def.TimeReductionPercent, "Cleaning time reduction percentage (0-90)")
	lifespan := flag.Int("lifespan", def.LifespanYears, "Machine lifespan in years")

	// Capability options
	noPower := flag.Bool("no-power-cost", false, "Exclude electricity from blaster operating costs")
	roiPolicy := flag.String("roi-policy", string(defOpts.ROIPolicy), "ROI policy: single_year or lifespan_amortized")
	consumable := flag.String("consumable", string(defOpts.Consumable), "Blasting consumable: dry_ice or liquid_co2")
	currency := flag.String("currency", defOpts.Currency, "Three-letter currency code for display")
	format := flag.String("format", "human", "Output format: human or json")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Compare the annual cost of manual conveyor-belt cleaning against dry-ice blasting.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --capital 22000 --reduction 70 --revenue-per-hour 650\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --consumable liquid_co2 --roi-policy single_year --format json\n", os.Args[0])
	}

	flag.Parse()

	if flag.NArg() != 0 {
		flag.Usage()
		os.Exit(1)
	}

	params := cba.Params{
		SessionsPerDay:              *sessions,
		ManualStaffCount:            *staff,
		ManualHoursPerSession:       *manualHours,
		StaffHourlyCost:             *hourlyCost,
		RevenuePerProductionHour:    *revenue,
		ChemicalCostPerSession:      *chemical,
		WaterCostPerSession:         *water,
		WasteDisposalCostPerSession: *waste,
		BlasterPurchaseCost:         *capital,
		ConsumableCostPerUnit:       *consumableCost,
		ConsumableUnitsPerHour:      *consumableRate,
		AnnualMaintenanceCost:       *maintenance,
		PowerDrawKW:                 *powerKW,
		ElectricityCostPerKWH:       *electricity,
		TimeReductionPercent:        *reduction,
		LifespanYears:               *lifespan,
	}

	opts := cba.Options{
		IncludePowerCost: !*noPower,
		ROIPolicy:        cba.ROIPolicy(*roiPolicy),
		Consumable:       cba.ConsumableKind(*consumable),
		Currency:         *currency,
	}

	if opts.ROIPolicy != cba.ROISingleYear && opts.ROIPolicy != cba.ROILifespanAmortized {
		log.Fatalf("Unknown ROI policy: %s (must be single_year or lifespan_amortized)", *roiPolicy)
	}
	if opts.Consumable != cba.ConsumableDryIce && opts.Consumable != cba.ConsumableLiquidCO2 {
		log.Fatalf("Unknown consumable: %s (must be dry_ice or liquid_co2)", *consumable)
	}

	breakdown, err := cba.Calculate(params, opts)
	if err != nil {
		log.Fatalf("Calculation rejected: %v", err)
	}

	switch *format {
	case "human":
		printHumanReadable(breakdown)
	case "json":
		printJSON(breakdown)
	default:
		log.Fatalf("Unknown format: %s (must be human or json)", *format)
	}
}

// printHumanReadable outputs a detailed itemized comparison in
// human-readable format.
func printHumanReadable(b cba.Breakdown) {
	cur := b.Currency

	fmt.Printf("CLEANING COST-BENEFIT ANALYSIS\n")
	fmt.Printf("==============================\n\n")
	fmt.Printf("Annual Sessions:   %d\n", b.AnnualSessions)
	fmt.Printf("Blasting Hours:    %.2f per session (%.2f saved)\n\n",
		b.BlastingHoursPerSession, b.DowntimeSavedPerSession)

	fmt.Printf("MANUAL CLEANING (ANNUAL)\n")
	fmt.Printf("  Labor                       %14s\n", money.Format(b.Manual.LaborCost, cur))
	fmt.Printf("  Chemicals                   %14s\n", money.Format(b.Manual.ChemicalCost, cur))
	fmt.Printf("  Water                       %14s\n", money.Format(b.Manual.WaterCost, cur))
	fmt.Printf("  Waste Disposal              %14s\n", money.Format(b.Manual.WasteDisposalCost, cur))
	fmt.Printf("  ---\n")
	fmt.Printf("  Manual Subtotal             %14s\n\n", money.Format(b.Manual.TotalCost, cur))

	fmt.Printf("DRY-ICE BLASTING (ANNUAL)\n")
	fmt.Printf("  Labor (1 operator)          %14s\n", money.Format(b.Blaster.LaborCost, cur))
	fmt.Printf("  Consumables                 %14s\n", money.Format(b.Blaster.ConsumableCost, cur))
	fmt.Printf("  Maintenance & Utilities     %14s\n", money.Format(b.Blaster.MaintenanceAndPower, cur))
	fmt.Printf("  ---\n")
	fmt.Printf("  Blaster Subtotal            %14s\n\n", money.Format(b.Blaster.TotalCost, cur))

	fmt.Printf("BENEFITS\n")
	fmt.Printf("  Downtime Saved              %14.2f hrs/yr\n", b.AnnualDowntimeSavedHours)
	fmt.Printf("  Revenue Gain from Uptime    %14s\n\n", money.Format(b.AnnualRevenueGain, cur))

	fmt.Printf("==============================\n")
	fmt.Printf("Operational Savings           %14s\n", money.Format(b.OperationalSavings, cur))
	fmt.Printf("Net Benefit (Year 1)          %14s\n", money.Format(b.NetBenefitYear1, cur))
	fmt.Printf("Net Benefit (Subsequent)      %14s\n", money.Format(b.NetBenefitSubsequent, cur))
	fmt.Printf("ROI (%s)  %.1f%%\n", roiPolicyLabel(b.ROIPolicy), b.ROIPercent)
	fmt.Printf("Payback Period                %s\n", paybackLabel(b.Payback))

	grade, message := cba.InvestmentGrade(b.ROIPercent)
	fmt.Printf("Verdict                       %s - %s\n", grade, message)
	fmt.Printf("==============================\n")
}

func roiPolicyLabel(p cba.ROIPolicy) string {
	if p == cba.ROISingleYear {
		return "single year"
	}
	return "lifespan amortized"
}

func paybackLabel(p payback.Payback) string {
	if p.Kind == payback.Recovered {
		return fmt.Sprintf("%s after year 1", p.String())
	}
	return p.String()
}

// printJSON outputs the breakdown in JSON format.
func printJSON(b cba.Breakdown) {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(b); err != nil {
		log.Fatalf("Failed to encode JSON: %v", err)
	}
}
