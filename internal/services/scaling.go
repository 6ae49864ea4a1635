package services

import (
	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/shopspring/decimal"
)

// Precision is the number of decimal places kept when a scaled macro is
// written.
type Precision struct {
	KcalPlaces  int32
	GramsPlaces int32
}

var DefaultPrecision = Precision{KcalPlaces: 0, GramsPlaces: 1}

var hundred = decimal.NewFromInt(100)

// Scale converts per-100 g values to the amounts in quantityG grams.
func Scale(per100g models.Macros, quantityG float64, precision Precision) models.Macros {
	quantity := decimal.NewFromFloat(quantityG)
	return models.Macros{
		Kcal:     scaleField(per100g.Kcal, quantity, precision.KcalPlaces),
		ProteinG: scaleField(per100g.ProteinG, quantity, precision.GramsPlaces),
		CarbG:    scaleField(per100g.CarbG, quantity, precision.GramsPlaces),
		FatG:     scaleField(per100g.FatG, quantity, precision.GramsPlaces),
	}
}

func scaleField(per100g float64, quantity decimal.Decimal, places int32) float64 {
	scaled, _ := decimal.NewFromFloat(per100g).Mul(quantity).Div(hundred).Round(places).Float64()
	return scaled
}
