package services

import (
	"context"
	"log/slog"
	"strings"

	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/reference"
	"github.com/lgrando1/leo-tracker/internal/repository"
)

// IngestReport describes a completed reference replace.
type IngestReport struct {
	Encoding string            `json:"encoding"`
	Headers  []string          `json:"headers,omitempty"`
	Columns  reference.Columns `json:"columns"`
	Inserted int               `json:"inserted"`
	Skipped  int               `json:"skipped"`
}

type ReferenceService struct {
	foodRepo  repository.ReferenceFoodRepository
	encodings []string
}

func NewReferenceService(foodRepo repository.ReferenceFoodRepository, encodings []string) *ReferenceService {
	return &ReferenceService{foodRepo: foodRepo, encodings: encodings}
}

// Ingest parses raw and replaces the whole reference set with the result.
// Nothing is written unless parsing succeeds.
func (service *ReferenceService) Ingest(ctx context.Context, raw []byte, options reference.Options) (IngestReport, error) {
	if len(options.Encodings) == 0 {
		options.Encodings = service.encodings
	}

	result, err := reference.Parse(raw, options)
	if err != nil {
		slog.Error("parsing reference table", "error", err)
		return IngestReport{}, err
	}

	inserted, err := service.foodRepo.ReplaceAll(ctx, result.Items)
	if err != nil {
		slog.Error("replacing reference foods", "error", err)
		return IngestReport{}, err
	}

	slog.Info("reference table ingested",
		"encoding", result.Encoding,
		"columns", result.Columns,
		"inserted", inserted,
		"skipped", result.Skipped,
	)

	return IngestReport{
		Encoding: result.Encoding,
		Headers:  result.Headers,
		Columns:  result.Columns,
		Inserted: inserted,
		Skipped:  result.Skipped,
	}, nil
}

// Create appends one reference food without touching the rest of the set.
func (service *ReferenceService) Create(ctx context.Context, name string, per100g models.Macros) (models.ReferenceFood, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.ReferenceFood{}, invalid("name", "required")
	}
	if err := validMacros(per100g); err != nil {
		return models.ReferenceFood{}, err
	}
	return service.foodRepo.Create(ctx, models.ReferenceFood{Name: name, Per100g: per100g})
}

// Search returns foods whose name contains term, ignoring case and accents.
// An empty term lists the first limit foods.
func (service *ReferenceService) Search(ctx context.Context, term string, limit int) ([]models.ReferenceFood, error) {
	foods, err := service.foodRepo.Search(ctx, term, limit)
	if err != nil {
		return nil, err
	}
	if foods == nil {
		foods = []models.ReferenceFood{}
	}
	return foods, nil
}
