package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	"github.com/iota-uz/review-sdk/modules/review/domain/aggregates/review"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/criterion"
)

func TestStore_RollbackDiscardsWrites(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	persons := store.PersonRepository()

	boom := errors.New("boom")
	err := store.InTx(ctx, func(ctx context.Context) error {
		_, err := persons.Create(ctx, person.New("a@x.com", "A", "TI", "hash"))
		require.NoError(t, err)

		_, err = persons.GetByEmail(ctx, "a@x.com")
		require.NoError(t, err, "uncommitted write visible inside the transaction")
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = persons.GetByEmail(ctx, "a@x.com")
	require.ErrorIs(t, err, person.ErrNotFound)
	assert.Equal(t, 0, store.Counts().Persons)
}

func TestStore_CommitAndUniqueEmail(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	persons := store.PersonRepository()

	created, err := persons.Create(ctx, person.New(" A@X.com ", "A", "TI", "hash"))
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, created.ID())
	assert.Equal(t, "a@x.com", created.Email())

	_, err = persons.Create(ctx, person.New("a@x.com", "Other", "RH", "hash"))
	require.ErrorIs(t, err, person.ErrEmailTaken)

	updated, err := persons.UpdateDisplay(ctx, created.WithDisplay("Ana", "Produto"))
	require.NoError(t, err)
	assert.Equal(t, "Ana", updated.FullName())
	assert.Equal(t, "Produto", updated.Unit())
	assert.Equal(t, "hash", updated.PasswordHash())
}

func TestStore_FaultAbortsTransaction(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	reviews := store.ReviewRepository()

	store.SetFault(func(op string, entity any) error {
		if op == "review.create_peer" {
			return errors.New("disk full")
		}
		return nil
	})

	err := store.InTx(ctx, func(ctx context.Context) error {
		rv, err := reviews.Create(ctx, review.New(uuid.New(), uuid.New(), uuid.New(), review.KindPeer))
		if err != nil {
			return err
		}
		_, err = reviews.CreatePeerReview(ctx, review.NewPeerReview(rv.ID(), uuid.NullUUID{}, decimal.Zero, "s", "w", nil))
		return err
	})
	require.Error(t, err)
	assert.Equal(t, 0, store.Counts().Reviews)
}

func TestStore_ReviewNaturalKey(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	reviews := store.ReviewRepository()
	header := review.New(uuid.New(), uuid.New(), uuid.New(), review.KindSelf)

	created, err := reviews.Create(ctx, header)
	require.NoError(t, err)
	_, err = reviews.Create(ctx, header)
	require.ErrorIs(t, err, review.ErrAlreadyExists)

	exists, err := reviews.Exists(ctx, header.Key())
	require.NoError(t, err)
	assert.True(t, exists)

	got, err := reviews.GetByKey(ctx, header.Key())
	require.NoError(t, err)
	assert.Equal(t, created.ID(), got.ID())
}

func TestStore_SeededCriteria(t *testing.T) {
	store := NewStore()
	c, err := store.CriterionRepository().GetByName(context.Background(), criterion.PeopleManagement)
	require.NoError(t, err)
	assert.True(t, c.LeadershipOnly())

	empty := NewStore(WithCriteria())
	_, err = empty.CriterionRepository().GetByName(context.Background(), criterion.PeopleManagement)
	require.ErrorIs(t, err, criterion.ErrNotFound)
}
