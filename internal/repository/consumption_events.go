package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lgrando1/leo-tracker/internal/database"
	"github.com/lgrando1/leo-tracker/internal/models"
)

type ConsumptionFilter struct {
	DateFrom string
	DateTo   string
}

type ConsumptionEventRepository interface {
	Create(ctx context.Context, event models.ConsumptionEvent) (models.ConsumptionEvent, error)
	CreateBatch(ctx context.Context, events []models.ConsumptionEvent) ([]models.ConsumptionEvent, error)
	Delete(ctx context.Context, id string) error
	FindByDate(ctx context.Context, date string) ([]models.ConsumptionEvent, error)
	FindAll(ctx context.Context, filter ConsumptionFilter) ([]models.ConsumptionEvent, error)
	SumByDate(ctx context.Context, filter ConsumptionFilter) ([]models.DayTotals, error)
}

type SQLConsumptionEventRepository struct {
	client *database.Client
}

func NewConsumptionEventRepository(client *database.Client) *SQLConsumptionEventRepository {
	return &SQLConsumptionEventRepository{client: client}
}

const consumptionEventColumns = `id, consumed_at, civil_date, food_name, quantity_g,
	kcal, protein_g, carb_g, fat_g, gluten, source, created_at`

const insertConsumptionEvent = `INSERT INTO consumption_events
	(id, consumed_at, civil_date, food_name, quantity_g, kcal, protein_g, carb_g, fat_g, gluten, source, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Create stores event as given. The caller sets Date to the civil day of
// ConsumedAt; the repository never derives it.
func (repository *SQLConsumptionEventRepository) Create(ctx context.Context, event models.ConsumptionEvent) (models.ConsumptionEvent, error) {
	db, err := repository.client.DB(ctx)
	if err != nil {
		return models.ConsumptionEvent{}, fmt.Errorf("creating consumption event: %w", err)
	}
	created, err := repository.insert(ctx, db, event)
	if err != nil {
		return models.ConsumptionEvent{}, fmt.Errorf("creating consumption event: %w", err)
	}
	return created, nil
}

// CreateBatch stores all events or none.
func (repository *SQLConsumptionEventRepository) CreateBatch(ctx context.Context, events []models.ConsumptionEvent) ([]models.ConsumptionEvent, error) {
	created := make([]models.ConsumptionEvent, 0, len(events))
	err := repository.client.WithTx(ctx, func(transaction *sql.Tx) error {
		for i, event := range events {
			stored, err := repository.insert(ctx, transaction, event)
			if err != nil {
				return fmt.Errorf("inserting event %d (%q): %w", i+1, event.FoodName, err)
			}
			created = append(created, stored)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating consumption events: %w", err)
	}
	return created, nil
}

func (repository *SQLConsumptionEventRepository) insert(ctx context.Context, target execer, event models.ConsumptionEvent) (models.ConsumptionEvent, error) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Gluten == "" {
		event.Gluten = models.GlutenUnspecified
	}
	if event.Source == "" {
		event.Source = models.EventSourceManual
	}
	event.CreatedAt = time.Now().UTC()

	_, err := target.ExecContext(ctx, repository.client.Rebind(insertConsumptionEvent),
		event.ID, event.ConsumedAt.UTC(), event.Date, event.FoodName, event.QuantityG,
		event.Macros.Kcal, event.Macros.ProteinG, event.Macros.CarbG, event.Macros.FatG,
		event.Gluten, event.Source, event.CreatedAt,
	)
	if err != nil {
		return models.ConsumptionEvent{}, err
	}
	return event, nil
}

// Delete removes one event. Unknown ids are not an error.
func (repository *SQLConsumptionEventRepository) Delete(ctx context.Context, id string) error {
	db, err := repository.client.DB(ctx)
	if err != nil {
		return fmt.Errorf("deleting consumption event: %w", err)
	}
	if _, err := db.ExecContext(ctx, repository.client.Rebind("DELETE FROM consumption_events WHERE id = ?"), id); err != nil {
		return fmt.Errorf("deleting consumption event: %w", err)
	}
	return nil
}

func (repository *SQLConsumptionEventRepository) FindByDate(ctx context.Context, date string) ([]models.ConsumptionEvent, error) {
	return repository.query(ctx, "finding consumption events by date",
		"SELECT "+consumptionEventColumns+` FROM consumption_events
		WHERE civil_date = ? ORDER BY consumed_at DESC`,
		date,
	)
}

// FindAll orders by civil day ascending, most recent first within a day.
func (repository *SQLConsumptionEventRepository) FindAll(ctx context.Context, filter ConsumptionFilter) ([]models.ConsumptionEvent, error) {
	query, args := filteredQuery("SELECT "+consumptionEventColumns+" FROM consumption_events WHERE 1=1", filter)
	query += " ORDER BY civil_date ASC, consumed_at DESC"
	return repository.query(ctx, "finding consumption events", query, args...)
}

// SumByDate returns one row per civil day that has events. Days without
// events are absent; filling gaps is the caller's concern.
func (repository *SQLConsumptionEventRepository) SumByDate(ctx context.Context, filter ConsumptionFilter) ([]models.DayTotals, error) {
	query, args := filteredQuery(`SELECT civil_date, SUM(kcal), SUM(protein_g), SUM(carb_g), SUM(fat_g)
		FROM consumption_events WHERE 1=1`, filter)
	query += " GROUP BY civil_date ORDER BY civil_date ASC"

	db, err := repository.client.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("summing consumption by date: %w", err)
	}
	rows, err := db.QueryContext(ctx, repository.client.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("summing consumption by date: %w", err)
	}
	defer rows.Close()

	var totals []models.DayTotals
	for rows.Next() {
		var day models.DayTotals
		if err := rows.Scan(&day.Date, &day.Macros.Kcal, &day.Macros.ProteinG, &day.Macros.CarbG, &day.Macros.FatG); err != nil {
			return nil, fmt.Errorf("scanning day totals: %w", err)
		}
		totals = append(totals, day)
	}
	return totals, rows.Err()
}

func filteredQuery(query string, filter ConsumptionFilter) (string, []interface{}) {
	var args []interface{}
	if filter.DateFrom != "" {
		query += " AND civil_date >= ?"
		args = append(args, filter.DateFrom)
	}
	if filter.DateTo != "" {
		query += " AND civil_date <= ?"
		args = append(args, filter.DateTo)
	}
	return query, args
}

func (repository *SQLConsumptionEventRepository) query(ctx context.Context, action string, query string, args ...interface{}) ([]models.ConsumptionEvent, error) {
	db, err := repository.client.DB(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	rows, err := db.QueryContext(ctx, repository.client.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	defer rows.Close()

	var events []models.ConsumptionEvent
	for rows.Next() {
		var event models.ConsumptionEvent
		if err := rows.Scan(
			&event.ID, &event.ConsumedAt, &event.Date, &event.FoodName, &event.QuantityG,
			&event.Macros.Kcal, &event.Macros.ProteinG, &event.Macros.CarbG, &event.Macros.FatG,
			&event.Gluten, &event.Source, &event.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning consumption event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
