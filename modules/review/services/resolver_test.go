package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/cycle"
)

func TestResolver_UpsertCycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	first, err := h.resolver.UpsertCycle(ctx, "Ciclo 2023/2")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), first.StartDate())
	assert.Equal(t, time.Date(2023, 3, 31, 0, 0, 0, 0, time.UTC), first.EndDate())
	assert.Equal(t, cycle.StatusClosed, first.Status())

	again, err := h.resolver.UpsertCycle(ctx, " Ciclo 2023/2 ")
	require.NoError(t, err)
	assert.Equal(t, first.ID(), again.ID())

	fallback, err := h.resolver.UpsertCycle(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "2025", fallback.Label())
	assert.Equal(t, 2025, fallback.StartDate().Year())
	assert.Equal(t, 2, h.store.Counts().Cycles)
}

func TestResolver_UpsertPerson(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	stub, err := h.resolver.EnsurePerson(ctx, "Ana@X.com")
	require.NoError(t, err)
	assert.Equal(t, "ana", stub.FullName())
	assert.Empty(t, stub.Unit())

	filled, err := h.resolver.UpsertPerson(ctx, &person.ProfileDTO{Email: "ana@x.com", FullName: "Ana Lima", Unit: "TI"})
	require.NoError(t, err)
	assert.Equal(t, stub.ID(), filled.ID())
	assert.Equal(t, "Ana Lima", filled.FullName())
	assert.Equal(t, "TI", filled.Unit())

	_, err = h.resolver.UpsertPerson(ctx, &person.ProfileDTO{Email: "z@x.com", FullName: "Z"})
	require.ErrorIs(t, err, person.ErrProfileIncomplete)
	assert.Equal(t, 1, h.store.Counts().Persons)
}

func TestResolver_AllocationDedupesOnPair(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	p, err := h.resolver.EnsurePerson(ctx, "a@x.com")
	require.NoError(t, err)
	proj, err := h.resolver.UpsertProject(ctx, " Apollo ")
	require.NoError(t, err)
	sameProj, err := h.resolver.UpsertProject(ctx, "Apollo")
	require.NoError(t, err)
	require.Equal(t, proj.ID(), sameProj.ID())

	jan := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jun := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	a1, err := h.resolver.UpsertAllocation(ctx, p.ID(), proj.ID(), jan, jun)
	require.NoError(t, err)
	a2, err := h.resolver.UpsertAllocation(ctx, p.ID(), proj.ID(), jun, jun.AddDate(0, 3, 0))
	require.NoError(t, err)

	assert.Equal(t, a1.ID(), a2.ID())
	assert.Equal(t, jan, a2.EntryDate())
	assert.Equal(t, 1, h.store.Counts().Allocations)
}
