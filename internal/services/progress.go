package services

import (
	"context"
	"fmt"
	"time"

	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/repository"
)

// GoalDelta compares actual totals with the daily target. Remaining may be
// negative when over target. Percent is raw; DisplayPercent is clamped to
// [0, 1] for progress bars.
type GoalDelta struct {
	Remaining      models.Macros `json:"remaining"`
	Percent        models.Macros `json:"percent"`
	DisplayPercent models.Macros `json:"display_percent"`
}

// EnergySplit attributes energy to macros at 4/4/9 kcal per gram.
type EnergySplit struct {
	ProteinKcal  float64 `json:"protein_kcal"`
	CarbKcal     float64 `json:"carb_kcal"`
	FatKcal      float64 `json:"fat_kcal"`
	ProteinShare float64 `json:"protein_share"`
	CarbShare    float64 `json:"carb_share"`
	FatShare     float64 `json:"fat_share"`
}

type ProjectionPoint struct {
	Date     string  `json:"date"`
	WeightKg float64 `json:"weight_kg"`
}

// WeightTrend keeps the observed series and the reference line apart.
type WeightTrend struct {
	Goal       models.WeightGoal     `json:"goal"`
	Observed   []models.WeightSample `json:"observed"`
	Projection []ProjectionPoint     `json:"projection"`
}

type DaySummary struct {
	Date   string                    `json:"date"`
	Totals models.Macros             `json:"totals"`
	Target models.DailyTarget        `json:"target"`
	Delta  GoalDelta                 `json:"delta"`
	Split  EnergySplit               `json:"energy_split"`
	Gluten []string                  `json:"gluten_foods"`
	Events []models.ConsumptionEvent `json:"events"`
}

type ProgressSettings struct {
	Target         models.DailyTarget
	Goal           models.WeightGoal
	ProjectionDays int
	HistoryDays    int
}

type ProgressService struct {
	eventRepo  repository.ConsumptionEventRepository
	weightRepo repository.WeightSampleRepository
	calendar   *Calendar
	settings   ProgressSettings
}

func NewProgressService(
	eventRepo repository.ConsumptionEventRepository,
	weightRepo repository.WeightSampleRepository,
	calendar *Calendar,
	settings ProgressSettings,
) *ProgressService {
	return &ProgressService{
		eventRepo:  eventRepo,
		weightRepo: weightRepo,
		calendar:   calendar,
		settings:   settings,
	}
}

// DailyTotals sums the ledger for one civil day. A day without events is
// all zeros.
func (service *ProgressService) DailyTotals(ctx context.Context, date string) (models.DayTotals, error) {
	if _, err := ParseDate("date", date); err != nil {
		return models.DayTotals{}, err
	}
	sums, err := service.eventRepo.SumByDate(ctx, repository.ConsumptionFilter{DateFrom: date, DateTo: date})
	if err != nil {
		return models.DayTotals{}, fmt.Errorf("summing day %s: %w", date, err)
	}
	if len(sums) == 0 {
		return models.DayTotals{Date: date}, nil
	}
	return sums[0], nil
}

func (service *ProgressService) GoalDelta(totals models.Macros) GoalDelta {
	return ComputeGoalDelta(totals, service.settings.Target)
}

// MaxSeriesDays bounds the span Series will zero-fill.
const MaxSeriesDays = 366

// Series returns one entry per day from..to, zero-filled. Spans longer than
// MaxSeriesDays are rejected.
func (service *ProgressService) Series(ctx context.Context, from, to string) ([]models.DayTotals, error) {
	start, end, err := parseRange(from, to)
	if err != nil {
		return nil, err
	}
	if end.Sub(start) >= MaxSeriesDays*24*time.Hour {
		return nil, invalid("to", fmt.Sprintf("range must not exceed %d days", MaxSeriesDays))
	}
	sums, err := service.eventRepo.SumByDate(ctx, repository.ConsumptionFilter{DateFrom: from, DateTo: to})
	if err != nil {
		return nil, fmt.Errorf("summing %s..%s: %w", from, to, err)
	}

	byDate := make(map[string]models.Macros, len(sums))
	for _, sum := range sums {
		byDate[sum.Date] = sum.Macros
	}

	days := DaysBetween(start, end)
	series := make([]models.DayTotals, 0, len(days))
	for _, day := range days {
		series = append(series, models.DayTotals{Date: day, Macros: byDate[day]})
	}
	return series, nil
}

// History is the series for the last HistoryDays days ending today.
func (service *ProgressService) History(ctx context.Context) ([]models.DayTotals, error) {
	days := service.settings.HistoryDays
	if days < 1 {
		days = 1
	}
	if days > MaxSeriesDays {
		days = MaxSeriesDays
	}
	today, err := ParseDate("date", service.calendar.Today())
	if err != nil {
		return nil, err
	}
	start := today.AddDate(0, 0, -(days - 1))
	return service.Series(ctx, start.Format(DateLayout), today.Format(DateLayout))
}

func (service *ProgressService) GlutenReport(ctx context.Context, date string) ([]string, error) {
	if _, err := ParseDate("date", date); err != nil {
		return nil, err
	}
	events, err := service.eventRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return glutenFoods(events), nil
}

// DaySummary gathers everything the day view shows from a single read of
// the day's events.
func (service *ProgressService) DaySummary(ctx context.Context, date string) (DaySummary, error) {
	if _, err := ParseDate("date", date); err != nil {
		return DaySummary{}, err
	}
	events, err := service.eventRepo.FindByDate(ctx, date)
	if err != nil {
		return DaySummary{}, err
	}
	if events == nil {
		events = []models.ConsumptionEvent{}
	}

	var totals models.Macros
	for _, event := range events {
		totals = totals.Add(event.Macros)
	}

	return DaySummary{
		Date:   date,
		Totals: totals,
		Target: service.settings.Target,
		Delta:  ComputeGoalDelta(totals, service.settings.Target),
		Split:  ComputeEnergySplit(totals),
		Gluten: glutenFoods(events),
		Events: events,
	}, nil
}

// WeightTrend projects from the first sample over the observed span plus
// ProjectionDays.
func (service *ProgressService) WeightTrend(ctx context.Context) (WeightTrend, error) {
	samples, err := service.weightRepo.FindAll(ctx, repository.WeightFilter{})
	if err != nil {
		return WeightTrend{}, err
	}
	trend := WeightTrend{
		Goal:       service.settings.Goal,
		Observed:   []models.WeightSample{},
		Projection: []ProjectionPoint{},
	}
	if len(samples) == 0 {
		return trend, nil
	}
	trend.Observed = samples

	first, err := ParseDate("date", samples[0].Date)
	if err != nil {
		return WeightTrend{}, err
	}
	last, err := ParseDate("date", samples[len(samples)-1].Date)
	if err != nil {
		return WeightTrend{}, err
	}
	span := int(last.Sub(first).Hours() / 24)
	trend.Projection = ProjectWeight(samples, service.settings.Goal, span+service.settings.ProjectionDays)
	return trend, nil
}

// ComputeGoalDelta is remaining = target - actual and percent =
// actual / target per field. A non-positive target yields a zero percent.
func ComputeGoalDelta(totals models.Macros, target models.DailyTarget) GoalDelta {
	percent := models.Macros{
		Kcal:     ratio(totals.Kcal, target.Kcal),
		ProteinG: ratio(totals.ProteinG, target.ProteinG),
		CarbG:    ratio(totals.CarbG, target.CarbG),
		FatG:     ratio(totals.FatG, target.FatG),
	}
	return GoalDelta{
		Remaining: models.Macros{
			Kcal:     target.Kcal - totals.Kcal,
			ProteinG: target.ProteinG - totals.ProteinG,
			CarbG:    target.CarbG - totals.CarbG,
			FatG:     target.FatG - totals.FatG,
		},
		Percent: percent,
		DisplayPercent: models.Macros{
			Kcal:     clamp(percent.Kcal),
			ProteinG: clamp(percent.ProteinG),
			CarbG:    clamp(percent.CarbG),
			FatG:     clamp(percent.FatG),
		},
	}
}

func ComputeEnergySplit(totals models.Macros) EnergySplit {
	split := EnergySplit{
		ProteinKcal: totals.ProteinG * 4,
		CarbKcal:    totals.CarbG * 4,
		FatKcal:     totals.FatG * 9,
	}
	total := split.ProteinKcal + split.CarbKcal + split.FatKcal
	split.ProteinShare = ratio(split.ProteinKcal, total)
	split.CarbShare = ratio(split.CarbKcal, total)
	split.FatShare = ratio(split.FatKcal, total)
	return split
}

// ProjectWeight draws a straight line from the first sample, losing
// WeeklyRateKg/7 per day and never dropping below TargetKg. It does not fit
// the samples.
//
// The floor is min(TargetKg, start) rather than TargetKg itself. A literal
// max(TargetKg, line) would lift a start already below target up to the
// target on day one; here such a start stays flat at its own weight.
func ProjectWeight(samples []models.WeightSample, goal models.WeightGoal, days int) []ProjectionPoint {
	if len(samples) == 0 || days <= 0 {
		return []ProjectionPoint{}
	}
	start, err := ParseDate("date", samples[0].Date)
	if err != nil {
		return []ProjectionPoint{}
	}

	startKg := samples[0].WeightKg
	floor := goal.TargetKg
	if startKg < floor {
		floor = startKg
	}
	daily := goal.WeeklyRateKg / 7

	points := make([]ProjectionPoint, 0, days)
	for i := 0; i < days; i++ {
		projected := startKg - daily*float64(i)
		if projected < floor {
			projected = floor
		}
		points = append(points, ProjectionPoint{
			Date:     start.AddDate(0, 0, i).Format(DateLayout),
			WeightKg: projected,
		})
	}
	return points
}

func glutenFoods(events []models.ConsumptionEvent) []string {
	seen := make(map[string]bool)
	foods := []string{}
	for _, event := range events {
		if event.Gluten != models.GlutenContains || seen[event.FoodName] {
			continue
		}
		seen[event.FoodName] = true
		foods = append(foods, event.FoodName)
	}
	return foods
}

func ratio(value, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return value / total
}

func clamp(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 1 {
		return 1
	}
	return value
}
