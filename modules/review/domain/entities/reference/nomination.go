package reference

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("reference nomination not found")

type Category string

// CategoryReferenceSearch marks nominations collected by the reference search form.
const CategoryReferenceSearch Category = "reference_search"

// Nomination records that the nominator pointed to the nominee as a reference.
// The justification is stored encrypted.
type Nomination struct {
	id            uuid.UUID
	cycleID       uuid.UUID
	nominatorID   uuid.UUID
	nomineeID     uuid.UUID
	category      Category
	justification string
	createdAt     time.Time
}

func New(cycleID, nominatorID, nomineeID uuid.UUID, category Category, encryptedJustification string) Nomination {
	return Nomination{
		cycleID:       cycleID,
		nominatorID:   nominatorID,
		nomineeID:     nomineeID,
		category:      category,
		justification: encryptedJustification,
	}
}

func Hydrate(
	id, cycleID, nominatorID, nomineeID uuid.UUID,
	category Category,
	justification string,
	createdAt time.Time,
) Nomination {
	return Nomination{
		id:            id,
		cycleID:       cycleID,
		nominatorID:   nominatorID,
		nomineeID:     nomineeID,
		category:      category,
		justification: justification,
		createdAt:     createdAt,
	}
}

func (n Nomination) ID() uuid.UUID          { return n.id }
func (n Nomination) CycleID() uuid.UUID     { return n.cycleID }
func (n Nomination) NominatorID() uuid.UUID { return n.nominatorID }
func (n Nomination) NomineeID() uuid.UUID   { return n.nomineeID }
func (n Nomination) Category() Category     { return n.category }
func (n Nomination) Justification() string  { return n.justification }
func (n Nomination) CreatedAt() time.Time   { return n.createdAt }

func (n Nomination) WithID(id uuid.UUID) Nomination {
	n.id = id
	return n
}

// Key is the natural key of a nomination.
type Key struct {
	CycleID     uuid.UUID
	NominatorID uuid.UUID
	NomineeID   uuid.UUID
	Category    Category
}

func (n Nomination) Key() Key {
	return Key{CycleID: n.cycleID, NominatorID: n.nominatorID, NomineeID: n.nomineeID, Category: n.category}
}

type Repository interface {
	Exists(ctx context.Context, key Key) (bool, error)
	Create(ctx context.Context, n Nomination) (Nomination, error)
}
