package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/iota-uz/review-sdk/modules/review/domain/entities/project"
	"github.com/iota-uz/review-sdk/pkg/composables"
)

const (
	projectColumns    = `id, name, status, created_at`
	allocationColumns = `id, person_id, project_id, entry_date, exit_date`

	selectProjectByNameQuery = `SELECT ` + projectColumns + ` FROM projects WHERE name = $1`
	insertProjectQuery       = `INSERT INTO projects (name, status) VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING ` + projectColumns

	selectAllocationQuery = `SELECT ` + allocationColumns + ` FROM allocations WHERE person_id = $1 AND project_id = $2`
	insertAllocationQuery = `INSERT INTO allocations (person_id, project_id, entry_date, exit_date)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (person_id, project_id) DO NOTHING`
)

type ProjectRepository struct{}

func NewProjectRepository() project.Repository {
	return &ProjectRepository{}
}

func (r *ProjectRepository) GetByName(ctx context.Context, name string) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}
	p, err := scanProject(tx.QueryRow(ctx, selectProjectByNameQuery, strings.TrimSpace(name)))
	if errors.Is(err, pgx.ErrNoRows) {
		return project.Project{}, project.ErrNotFound
	}
	if err != nil {
		return project.Project{}, gerrors.Wrap(err, "failed to get project")
	}
	return p, nil
}

func (r *ProjectRepository) Create(ctx context.Context, p project.Project) (project.Project, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Project{}, err
	}
	created, err := scanProject(tx.QueryRow(ctx, insertProjectQuery, p.Name(), string(p.Status())))
	if err != nil {
		return project.Project{}, gerrors.Wrap(err, "failed to create project")
	}
	return created, nil
}

func (r *ProjectRepository) GetAllocation(ctx context.Context, personID, projectID uuid.UUID) (project.Allocation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Allocation{}, err
	}
	a, err := scanAllocation(tx.QueryRow(ctx, selectAllocationQuery, personID, projectID))
	if errors.Is(err, pgx.ErrNoRows) {
		return project.Allocation{}, project.ErrAllocationNotFound
	}
	if err != nil {
		return project.Allocation{}, gerrors.Wrap(err, "failed to get allocation")
	}
	return a, nil
}

// CreateAllocation keeps the first allocation of a pair and returns it.
func (r *ProjectRepository) CreateAllocation(ctx context.Context, a project.Allocation) (project.Allocation, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return project.Allocation{}, err
	}
	if _, err := tx.Exec(ctx, insertAllocationQuery, a.PersonID(), a.ProjectID(), a.EntryDate(), a.ExitDate()); err != nil {
		return project.Allocation{}, gerrors.Wrap(err, "failed to create allocation")
	}
	return r.GetAllocation(ctx, a.PersonID(), a.ProjectID())
}

func scanProject(row pgx.Row) (project.Project, error) {
	var (
		id           uuid.UUID
		name, status string
		createdAt    time.Time
	)
	if err := row.Scan(&id, &name, &status, &createdAt); err != nil {
		return project.Project{}, err
	}
	return project.Hydrate(id, name, project.Status(status), createdAt), nil
}

func scanAllocation(row pgx.Row) (project.Allocation, error) {
	var (
		id, personID, projectID uuid.UUID
		entry, exit             time.Time
	)
	if err := row.Scan(&id, &personID, &projectID, &entry, &exit); err != nil {
		return project.Allocation{}, err
	}
	return project.HydrateAllocation(id, personID, projectID, entry.UTC(), exit.UTC()), nil
}
