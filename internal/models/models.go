package models

import "time"

type GlutenFlag string

const (
	GlutenContains       GlutenFlag = "contains"
	GlutenDoesNotContain GlutenFlag = "does_not_contain"
	GlutenUnspecified    GlutenFlag = "unspecified"
)

type EventSource string

const (
	EventSourceManual    EventSource = "manual"
	EventSourceReference EventSource = "reference"
	EventSourceImport    EventSource = "import"
)

// Macros holds energy and macronutrient amounts. On a ReferenceFood they
// are per 100 g; everywhere else they are absolute amounts.
type Macros struct {
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
	FatG     float64 `json:"fat_g"`
}

func (macros Macros) Add(other Macros) Macros {
	return Macros{
		Kcal:     macros.Kcal + other.Kcal,
		ProteinG: macros.ProteinG + other.ProteinG,
		CarbG:    macros.CarbG + other.CarbG,
		FatG:     macros.FatG + other.FatG,
	}
}

type ReferenceFood struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Per100g   Macros    `json:"per_100g"`
	CreatedAt time.Time `json:"created_at"`
}

// ConsumptionEvent macros are frozen at write time, already scaled to
// QuantityG.
type ConsumptionEvent struct {
	ID         string      `json:"id"`
	ConsumedAt time.Time   `json:"consumed_at"`
	Date       string      `json:"date"`
	FoodName   string      `json:"food_name"`
	QuantityG  float64     `json:"quantity_g"`
	Macros     Macros      `json:"macros"`
	Gluten     GlutenFlag  `json:"gluten"`
	Source     EventSource `json:"source"`
	CreatedAt  time.Time   `json:"created_at"`
}

type WeightSample struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	WeightKg  float64   `json:"weight_kg"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DayTotals is the macro sum for one civil day.
type DayTotals struct {
	Date   string `json:"date"`
	Macros Macros `json:"macros"`
}

type DailyTarget struct {
	Kcal     float64 `json:"kcal"`
	ProteinG float64 `json:"protein_g"`
	CarbG    float64 `json:"carb_g"`
	FatG     float64 `json:"fat_g"`
}

type WeightGoal struct {
	TargetKg     float64 `json:"target_kg"`
	WeeklyRateKg float64 `json:"weekly_rate_kg"`
}
