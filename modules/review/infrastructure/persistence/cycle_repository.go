package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/review-sdk/modules/review/domain/entities/cycle"
	"github.com/iota-uz/review-sdk/pkg/composables"
)

const (
	cycleColumns = `id, label, start_date, end_date, status, review_days, equalization_days, created_at`

	selectCycleByLabelQuery = `SELECT ` + cycleColumns + ` FROM review_cycles WHERE label = $1`
	// a concurrent import may have created the label; the no-op update returns that row
	insertCycleQuery = `INSERT INTO review_cycles (label, start_date, end_date, status, review_days, equalization_days)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (label) DO UPDATE SET label = EXCLUDED.label
		RETURNING ` + cycleColumns
)

type CycleRepository struct{}

func NewCycleRepository() cycle.Repository {
	return &CycleRepository{}
}

func (r *CycleRepository) GetByLabel(ctx context.Context, label string) (cycle.Cycle, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return cycle.Cycle{}, err
	}
	c, err := scanCycle(tx.QueryRow(ctx, selectCycleByLabelQuery, label))
	if errors.Is(err, pgx.ErrNoRows) {
		return cycle.Cycle{}, cycle.ErrNotFound
	}
	if err != nil {
		return cycle.Cycle{}, gerrors.Wrap(err, "failed to get cycle")
	}
	return c, nil
}

func (r *CycleRepository) Create(ctx context.Context, c cycle.Cycle) (cycle.Cycle, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return cycle.Cycle{}, err
	}
	created, err := scanCycle(tx.QueryRow(ctx, insertCycleQuery,
		c.Label(), c.StartDate(), c.EndDate(), string(c.Status()), c.ReviewDays(), c.EqualizationDays(),
	))
	if err != nil {
		return cycle.Cycle{}, gerrors.Wrap(err, "failed to create cycle")
	}
	return created, nil
}

func scanCycle(row pgx.Row) (cycle.Cycle, error) {
	var (
		id                           uuid.UUID
		label, status                string
		startDate, endDate           time.Time
		reviewDays, equalizationDays int
		createdAt                    time.Time
	)
	if err := row.Scan(&id, &label, &startDate, &endDate, &status, &reviewDays, &equalizationDays, &createdAt); err != nil {
		return cycle.Cycle{}, err
	}
	return cycle.Hydrate(
		id, label, startDate.UTC(), endDate.UTC(), cycle.Status(status), reviewDays, equalizationDays, createdAt,
	), nil
}
