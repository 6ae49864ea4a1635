package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"

	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/repository"
)

// ConsumptionInput is one intake record before it is placed on the ledger.
// A nil ConsumedAt means now.
type ConsumptionInput struct {
	ConsumedAt *time.Time        `json:"consumed_at,omitempty"`
	FoodName   string            `json:"food_name"`
	QuantityG  float64           `json:"quantity_g"`
	Macros     models.Macros     `json:"macros"`
	Gluten     models.GlutenFlag `json:"gluten,omitempty"`
}

type ConsumptionService struct {
	eventRepo repository.ConsumptionEventRepository
	foodRepo  repository.ReferenceFoodRepository
	calendar  *Calendar
}

func NewConsumptionService(
	eventRepo repository.ConsumptionEventRepository,
	foodRepo repository.ReferenceFoodRepository,
	calendar *Calendar,
) *ConsumptionService {
	return &ConsumptionService{
		eventRepo: eventRepo,
		foodRepo:  foodRepo,
		calendar:  calendar,
	}
}

// Append stores input as given; macros are never re-derived.
func (service *ConsumptionService) Append(ctx context.Context, input ConsumptionInput) (models.ConsumptionEvent, error) {
	event, err := service.buildEvent(input, models.EventSourceManual)
	if err != nil {
		return models.ConsumptionEvent{}, err
	}
	return service.eventRepo.Create(ctx, event)
}

// LogReference scales a reference food to quantityG and appends the result.
// The scaled values are frozen on the event.
func (service *ConsumptionService) LogReference(ctx context.Context, foodID string, quantityG float64, consumedAt *time.Time) (models.ConsumptionEvent, error) {
	food, err := service.foodRepo.FindByID(ctx, foodID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ConsumptionEvent{}, fmt.Errorf("reference food %s: %w", foodID, ErrNotFound)
	}
	if err != nil {
		return models.ConsumptionEvent{}, err
	}

	if err := validQuantity("quantity_g", quantityG); err != nil {
		return models.ConsumptionEvent{}, err
	}

	event, err := service.buildEvent(ConsumptionInput{
		ConsumedAt: consumedAt,
		FoodName:   food.Name,
		QuantityG:  quantityG,
		Macros:     Scale(food.Per100g, quantityG, DefaultPrecision),
	}, models.EventSourceReference)
	if err != nil {
		return models.ConsumptionEvent{}, err
	}
	return service.eventRepo.Create(ctx, event)
}

// Import appends every producer record in payload, or none of them.
func (service *ConsumptionService) Import(ctx context.Context, payload []byte) ([]models.ConsumptionEvent, error) {
	inputs, err := DecodeProducerRecords(payload)
	if err != nil {
		return nil, err
	}

	events := make([]models.ConsumptionEvent, 0, len(inputs))
	for i, input := range inputs {
		event, err := service.buildEvent(input, models.EventSourceImport)
		if err != nil {
			var validationErr *ValidationError
			if errors.As(err, &validationErr) {
				validationErr.Field = fmt.Sprintf("records[%d].%s", i, validationErr.Field)
			}
			return nil, err
		}
		events = append(events, event)
	}

	created, err := service.eventRepo.CreateBatch(ctx, events)
	if err != nil {
		return nil, err
	}
	slog.Info("consumption records imported", "count", len(created))
	return created, nil
}

func (service *ConsumptionService) Delete(ctx context.Context, id string) error {
	return service.eventRepo.Delete(ctx, id)
}

func (service *ConsumptionService) Day(ctx context.Context, date string) ([]models.ConsumptionEvent, error) {
	if _, err := ParseDate("date", date); err != nil {
		return nil, err
	}
	events, err := service.eventRepo.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.ConsumptionEvent{}
	}
	return events, nil
}

// Range returns events for from..to inclusive, ascending by day and most
// recent first within a day.
func (service *ConsumptionService) Range(ctx context.Context, from, to string) ([]models.ConsumptionEvent, error) {
	if _, _, err := parseRange(from, to); err != nil {
		return nil, err
	}
	events, err := service.eventRepo.FindAll(ctx, repository.ConsumptionFilter{DateFrom: from, DateTo: to})
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []models.ConsumptionEvent{}
	}
	return events, nil
}

func (service *ConsumptionService) buildEvent(input ConsumptionInput, source models.EventSource) (models.ConsumptionEvent, error) {
	name := strings.TrimSpace(input.FoodName)
	if name == "" {
		return models.ConsumptionEvent{}, invalid("food_name", "required")
	}
	if err := validQuantity("quantity_g", input.QuantityG); err != nil {
		return models.ConsumptionEvent{}, err
	}
	if err := validMacros(input.Macros); err != nil {
		return models.ConsumptionEvent{}, err
	}

	gluten := input.Gluten
	switch gluten {
	case "":
		gluten = models.GlutenUnspecified
	case models.GlutenContains, models.GlutenDoesNotContain, models.GlutenUnspecified:
	default:
		return models.ConsumptionEvent{}, invalid("gluten", fmt.Sprintf("unknown flag %q", gluten))
	}

	consumedAt := service.calendar.now()
	if input.ConsumedAt != nil {
		consumedAt = *input.ConsumedAt
	}

	return models.ConsumptionEvent{
		ConsumedAt: consumedAt,
		Date:       service.calendar.DateOf(consumedAt),
		FoodName:   name,
		QuantityG:  input.QuantityG,
		Macros:     input.Macros,
		Gluten:     gluten,
		Source:     source,
	}, nil
}

func validMacros(macros models.Macros) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"kcal", macros.Kcal},
		{"protein_g", macros.ProteinG},
		{"carb_g", macros.CarbG},
		{"fat_g", macros.FatG},
	}
	for _, field := range fields {
		if err := validQuantity(field.name, field.value); err != nil {
			return err
		}
	}
	return nil
}

func validQuantity(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return invalid(field, "must be a finite number")
	}
	if value < 0 {
		return invalid(field, "must not be negative")
	}
	return nil
}
