package services_test

import (
	"testing"

	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/services"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name      string
		per100g   models.Macros
		quantityG float64
		precision services.Precision
		expected  models.Macros
	}{
		{
			name:      "exact",
			per100g:   models.Macros{Kcal: 200, ProteinG: 10, CarbG: 20, FatG: 5},
			quantityG: 150,
			precision: services.DefaultPrecision,
			expected:  models.Macros{Kcal: 300, ProteinG: 15, CarbG: 30, FatG: 7.5},
		},
		{
			name:      "rounds kcal whole and grams to one decimal",
			per100g:   models.Macros{Kcal: 97, ProteinG: 1.33, CarbG: 22.84, FatG: 0.37},
			quantityG: 120,
			precision: services.DefaultPrecision,
			expected:  models.Macros{Kcal: 116, ProteinG: 1.6, CarbG: 27.4, FatG: 0.4},
		},
		{
			name:      "caller precision",
			per100g:   models.Macros{Kcal: 97, ProteinG: 1.33},
			quantityG: 120,
			precision: services.Precision{KcalPlaces: 1, GramsPlaces: 3},
			expected:  models.Macros{Kcal: 116.4, ProteinG: 1.596},
		},
		{
			name:      "zero quantity",
			per100g:   models.Macros{Kcal: 350, ProteinG: 12},
			quantityG: 0,
			precision: services.DefaultPrecision,
			expected:  models.Macros{},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := services.Scale(test.per100g, test.quantityG, test.precision)
			if got != test.expected {
				t.Errorf("expected %+v, got %+v", test.expected, got)
			}
		})
	}
}
