package person

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("person not found")
	ErrEmailTaken = errors.New("person email already exists")
)

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (Person, error)
	GetByEmail(ctx context.Context, email string) (Person, error)
	Create(ctx context.Context, p Person) (Person, error)
	UpdateDisplay(ctx context.Context, p Person) (Person, error)
}
