package services_test

import (
	"testing"
	"time"

	"github.com/lgrando1/leo-tracker/internal/database"
	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/repository"
	"github.com/lgrando1/leo-tracker/internal/services"
	"github.com/lgrando1/leo-tracker/internal/testutil"
)

type fixture struct {
	client      *database.Client
	calendar    *services.Calendar
	foodRepo    *repository.SQLReferenceFoodRepository
	eventRepo   *repository.SQLConsumptionEventRepository
	weightRepo  *repository.SQLWeightSampleRepository
	consumption *services.ConsumptionService
	references  *services.ReferenceService
	weights     *services.WeightService
	progress    *services.ProgressService
}

var testTarget = models.DailyTarget{Kcal: 2000, ProteinG: 110, CarbG: 200, FatG: 50}

// setup builds every service over one in-memory database. The clock is
// frozen at 2025-06-15 12:00 in São Paulo.
func setup(t *testing.T) fixture {
	t.Helper()
	client := testutil.NewTestDatabase(t)
	location := testutil.SaoPaulo(t)

	calendar := services.NewCalendar(location)
	calendar.Now = func() time.Time {
		return time.Date(2025, 6, 15, 12, 0, 0, 0, location)
	}

	foodRepo := repository.NewReferenceFoodRepository(client)
	eventRepo := repository.NewConsumptionEventRepository(client)
	weightRepo := repository.NewWeightSampleRepository(client)

	return fixture{
		client:      client,
		calendar:    calendar,
		foodRepo:    foodRepo,
		eventRepo:   eventRepo,
		weightRepo:  weightRepo,
		consumption: services.NewConsumptionService(eventRepo, foodRepo, calendar),
		references:  services.NewReferenceService(foodRepo, nil),
		weights:     services.NewWeightService(weightRepo),
		progress: services.NewProgressService(eventRepo, weightRepo, calendar, services.ProgressSettings{
			Target:         testTarget,
			Goal:           models.WeightGoal{TargetKg: 120, WeeklyRateKg: 0.7},
			ProjectionDays: 30,
			HistoryDays:    7,
		}),
	}
}

func at(t *testing.T, date string, hour, minute int) *time.Time {
	t.Helper()
	parsed, err := time.ParseInLocation("2006-01-02", date, testutil.SaoPaulo(t))
	if err != nil {
		t.Fatalf("parsing %s: %v", date, err)
	}
	instant := parsed.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
	return &instant
}
