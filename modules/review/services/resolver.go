package services

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	personservices "github.com/iota-uz/review-sdk/modules/person/services"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/cycle"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/project"
)

// Resolver finds entities by natural key and creates the missing ones.
type Resolver struct {
	persons     *personservices.PersonService
	cycles      cycle.Repository
	projects    project.Repository
	defaultYear int
}

func NewResolver(
	persons *personservices.PersonService,
	cycles cycle.Repository,
	projects project.Repository,
	defaultYear int,
) *Resolver {
	return &Resolver{
		persons:     persons,
		cycles:      cycles,
		projects:    projects,
		defaultYear: defaultYear,
	}
}

// UpsertPerson returns person.ErrProfileIncomplete before writing when email, name or unit is missing.
func (r *Resolver) UpsertPerson(ctx context.Context, dto *person.ProfileDTO) (person.Person, error) {
	return r.persons.UpsertProfile(ctx, dto)
}

func (r *Resolver) EnsurePerson(ctx context.Context, email string) (person.Person, error) {
	return r.persons.Ensure(ctx, email)
}

// UpsertCycle looks the label up and otherwise creates a closed first-quarter cycle.
// A blank label falls back to the default year.
func (r *Resolver) UpsertCycle(ctx context.Context, label string) (cycle.Cycle, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		label = strconv.Itoa(r.defaultYear)
	}
	existing, err := r.cycles.GetByLabel(ctx, label)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, cycle.ErrNotFound) {
		return cycle.Cycle{}, err
	}
	return r.cycles.Create(ctx, cycle.New(label, r.defaultYear))
}

func (r *Resolver) UpsertProject(ctx context.Context, name string) (project.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return project.Project{}, project.ErrNotFound
	}
	existing, err := r.projects.GetByName(ctx, name)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, project.ErrNotFound) {
		return project.Project{}, err
	}
	return r.projects.Create(ctx, project.New(name))
}

// UpsertAllocation dedupes on the (person, project) pair; dates of an existing allocation are kept.
func (r *Resolver) UpsertAllocation(
	ctx context.Context,
	personID, projectID uuid.UUID,
	entry, exit time.Time,
) (project.Allocation, error) {
	existing, err := r.projects.GetAllocation(ctx, personID, projectID)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, project.ErrAllocationNotFound) {
		return project.Allocation{}, err
	}
	return r.projects.CreateAllocation(ctx, project.NewAllocation(personID, projectID, entry, exit))
}
