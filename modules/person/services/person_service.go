package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	"github.com/iota-uz/review-sdk/pkg/crypto"
)

type PersonService struct {
	repo   person.Repository
	hasher crypto.Hasher
}

func NewPersonService(repo person.Repository, hasher crypto.Hasher) *PersonService {
	return &PersonService{repo: repo, hasher: hasher}
}

func (s *PersonService) GetByID(ctx context.Context, id uuid.UUID) (person.Person, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PersonService) GetByEmail(ctx context.Context, email string) (person.Person, error) {
	return s.repo.GetByEmail(ctx, email)
}

// UpsertProfile creates the profile's person or refreshes its display fields.
// Missing mandatory fields yield person.ErrProfileIncomplete before anything is written.
func (s *PersonService) UpsertProfile(ctx context.Context, dto *person.ProfileDTO) (person.Person, error) {
	if dto == nil {
		return person.Person{}, errors.New("missing dto")
	}
	if err := dto.Validate(); err != nil {
		return person.Person{}, err
	}

	existing, err := s.repo.GetByEmail(ctx, dto.Email)
	switch {
	case err == nil:
		return s.repo.UpdateDisplay(ctx, existing.WithDisplay(dto.FullName, dto.Unit).WithRoleTrack(dto.Role, dto.Track))
	case !errors.Is(err, person.ErrNotFound):
		return person.Person{}, err
	}

	return s.create(ctx, person.New(dto.Email, dto.FullName, dto.Unit, "").WithRoleTrack(dto.Role, dto.Track))
}

// Ensure resolves a person known only by e-mail, creating a stub the person's own profile import completes later.
func (s *PersonService) Ensure(ctx context.Context, email string) (person.Person, error) {
	email = person.NormalizeEmail(email)
	if email == "" {
		return person.Person{}, fmt.Errorf("%w: empty email", person.ErrNotFound)
	}
	existing, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, person.ErrNotFound) {
		return person.Person{}, err
	}
	return s.create(ctx, person.New(email, person.StubName(email), "", ""))
}

func (s *PersonService) create(ctx context.Context, p person.Person) (person.Person, error) {
	hash, err := crypto.PlaceholderCredential(s.hasher)
	if err != nil {
		return person.Person{}, err
	}
	entity := person.Hydrate(uuid.Nil, p.Email(), p.FullName(), p.Unit(), p.Role(), p.Track(), hash, person.StatusActive, p.CreatedAt(), p.UpdatedAt())
	created, err := s.repo.Create(ctx, entity)
	if errors.Is(err, person.ErrEmailTaken) {
		// another import created the same address first
		return s.repo.GetByEmail(ctx, p.Email())
	}
	return created, err
}
