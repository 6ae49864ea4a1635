package services

import (
	"context"
	"math"

	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/repository"
)

type WeightService struct {
	weightRepo repository.WeightSampleRepository
}

func NewWeightService(weightRepo repository.WeightSampleRepository) *WeightService {
	return &WeightService{weightRepo: weightRepo}
}

// Record writes the sample for date. Last write for a date wins.
func (service *WeightService) Record(ctx context.Context, date string, weightKg float64) (models.WeightSample, error) {
	if _, err := ParseDate("date", date); err != nil {
		return models.WeightSample{}, err
	}
	if math.IsNaN(weightKg) || math.IsInf(weightKg, 0) || weightKg <= 0 {
		return models.WeightSample{}, invalid("weight_kg", "must be a positive number")
	}
	return service.weightRepo.Upsert(ctx, date, weightKg)
}

func (service *WeightService) Delete(ctx context.Context, id string) error {
	return service.weightRepo.Delete(ctx, id)
}

// Range returns samples ordered by date. Empty bounds are open.
func (service *WeightService) Range(ctx context.Context, from, to string) ([]models.WeightSample, error) {
	if from != "" {
		if _, err := ParseDate("from", from); err != nil {
			return nil, err
		}
	}
	if to != "" {
		if _, err := ParseDate("to", to); err != nil {
			return nil, err
		}
	}
	samples, err := service.weightRepo.FindAll(ctx, repository.WeightFilter{DateFrom: from, DateTo: to})
	if err != nil {
		return nil, err
	}
	if samples == nil {
		samples = []models.WeightSample{}
	}
	return samples, nil
}
