package criterion

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("criterion not found")

// Criterion is canonical reference data; imports only read it.
type Criterion struct {
	id             uuid.UUID
	name           string
	leadershipOnly bool
}

func Hydrate(id uuid.UUID, name string, leadershipOnly bool) Criterion {
	return Criterion{id: id, name: name, leadershipOnly: leadershipOnly}
}

func (c Criterion) ID() uuid.UUID        { return c.id }
func (c Criterion) Name() string         { return c.name }
func (c Criterion) LeadershipOnly() bool { return c.leadershipOnly }

type Repository interface {
	GetByName(ctx context.Context, name string) (Criterion, error)
}
