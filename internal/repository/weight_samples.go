package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lgrando1/leo-tracker/internal/database"
	"github.com/lgrando1/leo-tracker/internal/models"
)

type WeightFilter struct {
	DateFrom string
	DateTo   string
}

type WeightSampleRepository interface {
	Upsert(ctx context.Context, date string, weightKg float64) (models.WeightSample, error)
	FindByDate(ctx context.Context, date string) (models.WeightSample, error)
	FindAll(ctx context.Context, filter WeightFilter) ([]models.WeightSample, error)
	Delete(ctx context.Context, id string) error
}

type SQLWeightSampleRepository struct {
	client *database.Client
}

func NewWeightSampleRepository(client *database.Client) *SQLWeightSampleRepository {
	return &SQLWeightSampleRepository{client: client}
}

// Upsert writes the sample for date in one conditional statement; a second
// write for the same date overwrites the first.
func (repository *SQLWeightSampleRepository) Upsert(ctx context.Context, date string, weightKg float64) (models.WeightSample, error) {
	db, err := repository.client.DB(ctx)
	if err != nil {
		return models.WeightSample{}, fmt.Errorf("upserting weight sample: %w", err)
	}

	now := time.Now().UTC()
	_, err = db.ExecContext(ctx, repository.client.Rebind(
		`INSERT INTO weight_samples (id, date, weight_kg, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (date) DO UPDATE SET
			weight_kg = excluded.weight_kg,
			updated_at = excluded.updated_at`),
		uuid.New().String(), date, weightKg, now, now,
	)
	if err != nil {
		return models.WeightSample{}, fmt.Errorf("upserting weight sample: %w", err)
	}
	return repository.FindByDate(ctx, date)
}

func (repository *SQLWeightSampleRepository) FindByDate(ctx context.Context, date string) (models.WeightSample, error) {
	db, err := repository.client.DB(ctx)
	if err != nil {
		return models.WeightSample{}, fmt.Errorf("finding weight sample: %w", err)
	}
	var sample models.WeightSample
	err = db.QueryRowContext(ctx, repository.client.Rebind(
		`SELECT id, date, weight_kg, created_at, updated_at FROM weight_samples WHERE date = ?`), date,
	).Scan(&sample.ID, &sample.Date, &sample.WeightKg, &sample.CreatedAt, &sample.UpdatedAt)
	if err != nil {
		return models.WeightSample{}, fmt.Errorf("finding weight sample: %w", err)
	}
	return sample, nil
}

func (repository *SQLWeightSampleRepository) FindAll(ctx context.Context, filter WeightFilter) ([]models.WeightSample, error) {
	query := `SELECT id, date, weight_kg, created_at, updated_at FROM weight_samples WHERE 1=1`

	var args []interface{}

	if filter.DateFrom != "" {
		query += " AND date >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND date <= ?"
		args = append(args, filter.DateTo)
	}

	query += " ORDER BY date ASC"

	db, err := repository.client.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("finding weight samples: %w", err)
	}
	rows, err := db.QueryContext(ctx, repository.client.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("finding weight samples: %w", err)
	}
	defer rows.Close()

	var samples []models.WeightSample
	for rows.Next() {
		var sample models.WeightSample
		if err := rows.Scan(&sample.ID, &sample.Date, &sample.WeightKg, &sample.CreatedAt, &sample.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning weight sample: %w", err)
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

func (repository *SQLWeightSampleRepository) Delete(ctx context.Context, id string) error {
	db, err := repository.client.DB(ctx)
	if err != nil {
		return fmt.Errorf("deleting weight sample: %w", err)
	}
	if _, err := db.ExecContext(ctx, repository.client.Rebind("DELETE FROM weight_samples WHERE id = ?"), id); err != nil {
		return fmt.Errorf("deleting weight sample: %w", err)
	}
	return nil
}
