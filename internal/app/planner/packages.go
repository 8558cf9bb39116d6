package planner

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/itsyashbisht/tripsage-client-sub000/internal/app/models"
)

// Package tier multipliers over the base trip cost. This is pure
// presentation-layer estimation, independent of the server's own
// /generate/packages estimate.
var tierMultipliers = []struct {
	tier       string
	multiplier float64
}{
	{models.TierEconomy, 0.55},
	{models.TierStandard, 1.0},
	{models.TierLuxury, 2.3},
}

var pricePrinter = message.NewPrinter(language.English)

// ComputePackages derives the three package options from the trip shape.
// Base cost = dailyBudget x days x (adults + children x 0.5); per-person is
// the tier total divided by adults.
func ComputePackages(days, adults, children int, dailyBudget float64) []models.PackageOption {
	if days < 1 {
		days = 1
	}
	if adults < 1 {
		adults = 1
	}

	base := dailyBudget * float64(days) * (float64(adults) + float64(children)*0.5)

	options := make([]models.PackageOption, 0, len(tierMultipliers))
	for _, t := range tierMultipliers {
		total := math.Round(base * t.multiplier)
		perPerson := math.Round(total / float64(adults))
		options = append(options, models.PackageOption{
			Tier:             t.tier,
			Total:            total,
			PerPerson:        perPerson,
			DisplayTotal:     FormatPrice(total),
			DisplayPerPerson: FormatPrice(perPerson),
		})
	}
	return options
}

// FormatPrice renders an amount with digit grouping for display.
func FormatPrice(amount float64) string {
	return pricePrinter.Sprintf("₹%.0f", amount)
}

// ValidTier reports whether tier is one of the known package tiers.
func ValidTier(tier string) bool {
	for _, t := range tierMultipliers {
		if t.tier == tier {
			return true
		}
	}
	return false
}
