package persistence

import (
	"context"
	"errors"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/review-sdk/modules/review/domain/entities/criterion"
	"github.com/iota-uz/review-sdk/pkg/composables"
)

const selectCriterionByNameQuery = `SELECT id, name, leadership_only FROM criteria WHERE name = $1`

type CriterionRepository struct{}

func NewCriterionRepository() criterion.Repository {
	return &CriterionRepository{}
}

func (r *CriterionRepository) GetByName(ctx context.Context, name string) (criterion.Criterion, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return criterion.Criterion{}, err
	}
	var (
		id             uuid.UUID
		dbName         string
		leadershipOnly bool
	)
	err = tx.QueryRow(ctx, selectCriterionByNameQuery, name).Scan(&id, &dbName, &leadershipOnly)
	if errors.Is(err, pgx.ErrNoRows) {
		return criterion.Criterion{}, criterion.ErrNotFound
	}
	if err != nil {
		return criterion.Criterion{}, gerrors.Wrap(err, "failed to get criterion")
	}
	return criterion.Hydrate(id, dbName, leadershipOnly), nil
}
