package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lgrando1/leo-tracker/internal/database"
	"github.com/lgrando1/leo-tracker/internal/models"
	"github.com/lgrando1/leo-tracker/internal/normalize"
)

// ErrReplaceRolledBack marks a failed reference replace. The previous
// reference set is left untouched.
var ErrReplaceRolledBack = errors.New("reference replace rolled back")

type ReferenceFoodRepository interface {
	ReplaceAll(ctx context.Context, foods []models.ReferenceFood) (int, error)
	Create(ctx context.Context, food models.ReferenceFood) (models.ReferenceFood, error)
	FindByID(ctx context.Context, id string) (models.ReferenceFood, error)
	Search(ctx context.Context, term string, limit int) ([]models.ReferenceFood, error)
	FindAll(ctx context.Context) ([]models.ReferenceFood, error)
	Count(ctx context.Context) (int, error)
}

type SQLReferenceFoodRepository struct {
	client *database.Client
}

func NewReferenceFoodRepository(client *database.Client) *SQLReferenceFoodRepository {
	return &SQLReferenceFoodRepository{client: client}
}

const referenceFoodColumns = `id, name, kcal_per_100g, protein_per_100g, carb_per_100g, fat_per_100g, created_at`

const insertReferenceFood = `INSERT INTO reference_foods
	(id, name, search_key, kcal_per_100g, protein_per_100g, carb_per_100g, fat_per_100g, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

// ReplaceAll clears the reference set and inserts foods in a single
// transaction. Any failed row rolls the whole replace back.
func (repository *SQLReferenceFoodRepository) ReplaceAll(ctx context.Context, foods []models.ReferenceFood) (int, error) {
	now := time.Now().UTC()

	err := repository.client.WithTx(ctx, func(transaction *sql.Tx) error {
		if _, err := transaction.ExecContext(ctx, "DELETE FROM reference_foods"); err != nil {
			return fmt.Errorf("%w: clearing reference foods: %w", ErrReplaceRolledBack, err)
		}

		statement, err := transaction.PrepareContext(ctx, repository.client.Rebind(insertReferenceFood))
		if err != nil {
			return fmt.Errorf("%w: preparing insert: %w", ErrReplaceRolledBack, err)
		}
		defer statement.Close()

		for i, food := range foods {
			if _, err := statement.ExecContext(ctx,
				uuid.New().String(), food.Name, normalize.Fold(food.Name),
				food.Per100g.Kcal, food.Per100g.ProteinG, food.Per100g.CarbG, food.Per100g.FatG, now,
			); err != nil {
				return fmt.Errorf("%w: inserting row %d (%q): %w", ErrReplaceRolledBack, i+1, food.Name, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("replacing reference foods: %w", err)
	}
	return len(foods), nil
}

func (repository *SQLReferenceFoodRepository) Create(ctx context.Context, food models.ReferenceFood) (models.ReferenceFood, error) {
	if food.ID == "" {
		food.ID = uuid.New().String()
	}
	food.CreatedAt = time.Now().UTC()

	db, err := repository.client.DB(ctx)
	if err != nil {
		return models.ReferenceFood{}, fmt.Errorf("creating reference food: %w", err)
	}
	_, err = db.ExecContext(ctx, repository.client.Rebind(insertReferenceFood),
		food.ID, food.Name, normalize.Fold(food.Name),
		food.Per100g.Kcal, food.Per100g.ProteinG, food.Per100g.CarbG, food.Per100g.FatG, food.CreatedAt,
	)
	if err != nil {
		return models.ReferenceFood{}, fmt.Errorf("creating reference food: %w", err)
	}
	return food, nil
}

func (repository *SQLReferenceFoodRepository) FindByID(ctx context.Context, id string) (models.ReferenceFood, error) {
	db, err := repository.client.DB(ctx)
	if err != nil {
		return models.ReferenceFood{}, fmt.Errorf("finding reference food by id: %w", err)
	}
	food, err := scanReferenceFood(db.QueryRowContext(ctx,
		repository.client.Rebind("SELECT "+referenceFoodColumns+" FROM reference_foods WHERE id = ?"), id,
	))
	if err != nil {
		return models.ReferenceFood{}, fmt.Errorf("finding reference food by id: %w", err)
	}
	return food, nil
}

// Search matches term as a case- and accent-insensitive substring of the
// food name.
func (repository *SQLReferenceFoodRepository) Search(ctx context.Context, term string, limit int) ([]models.ReferenceFood, error) {
	if limit <= 0 {
		limit = 50
	}
	pattern := "%" + escapeLike(normalize.Fold(term)) + "%"

	return repository.query(ctx, "searching reference foods",
		"SELECT "+referenceFoodColumns+` FROM reference_foods
		WHERE search_key LIKE ? ESCAPE '\' ORDER BY name ASC LIMIT ?`,
		pattern, limit,
	)
}

func (repository *SQLReferenceFoodRepository) FindAll(ctx context.Context) ([]models.ReferenceFood, error) {
	return repository.query(ctx, "finding reference foods",
		"SELECT "+referenceFoodColumns+" FROM reference_foods ORDER BY name ASC, id ASC",
	)
}

func (repository *SQLReferenceFoodRepository) Count(ctx context.Context) (int, error) {
	db, err := repository.client.DB(ctx)
	if err != nil {
		return 0, fmt.Errorf("counting reference foods: %w", err)
	}
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM reference_foods").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting reference foods: %w", err)
	}
	return count, nil
}

func (repository *SQLReferenceFoodRepository) query(ctx context.Context, action string, query string, args ...interface{}) ([]models.ReferenceFood, error) {
	db, err := repository.client.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	rows, err := db.QueryContext(ctx, repository.client.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer rows.Close()

	var foods []models.ReferenceFood
	for rows.Next() {
		food, err := scanReferenceFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning reference food: %w", err)
		}
		foods = append(foods, food)
	}
	return foods, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanReferenceFood(row rowScanner) (models.ReferenceFood, error) {
	var food models.ReferenceFood
	err := row.Scan(
		&food.ID, &food.Name,
		&food.Per100g.Kcal, &food.Per100g.ProteinG, &food.Per100g.CarbG, &food.Per100g.FatG,
		&food.CreatedAt,
	)
	return food, err
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
