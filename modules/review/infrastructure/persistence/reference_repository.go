package persistence

import (
	"context"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"

	"github.com/iota-uz/review-sdk/modules/review/domain/entities/reference"
	"github.com/iota-uz/review-sdk/pkg/composables"
)

const (
	nominationExistsQuery = `SELECT EXISTS (
		SELECT 1 FROM reference_nominations
		WHERE cycle_id = $1 AND nominator_id = $2 AND nominee_id = $3 AND category = $4
	)`
	insertNominationQuery = `INSERT INTO reference_nominations (cycle_id, nominator_id, nominee_id, category, justification)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`
)

type ReferenceRepository struct{}

func NewReferenceRepository() reference.Repository {
	return &ReferenceRepository{}
}

func (r *ReferenceRepository) Exists(ctx context.Context, key reference.Key) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, nominationExistsQuery,
		key.CycleID, key.NominatorID, key.NomineeID, string(key.Category),
	).Scan(&exists); err != nil {
		return false, gerrors.Wrap(err, "failed to check reference nomination")
	}
	return exists, nil
}

func (r *ReferenceRepository) Create(ctx context.Context, n reference.Nomination) (reference.Nomination, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return reference.Nomination{}, err
	}
	var (
		id        uuid.UUID
		createdAt time.Time
	)
	if err := tx.QueryRow(ctx, insertNominationQuery,
		n.CycleID(), n.NominatorID(), n.NomineeID(), string(n.Category()), n.Justification(),
	).Scan(&id, &createdAt); err != nil {
		return reference.Nomination{}, gerrors.Wrap(err, "failed to create reference nomination")
	}
	return reference.Hydrate(
		id, n.CycleID(), n.NominatorID(), n.NomineeID(), n.Category(), n.Justification(), createdAt,
	), nil
}
