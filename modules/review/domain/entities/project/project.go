package project

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound           = errors.New("project not found")
	ErrAllocationNotFound = errors.New("allocation not found")
)

type Status string

const (
	StatusActive   Status = "active"
	StatusFinished Status = "finished"
)

type Project struct {
	id        uuid.UUID
	name      string
	status    Status
	createdAt time.Time
}

// New creates a project known only by name. Imported projects belong to past cycles and start finished.
func New(name string) Project {
	return Project{name: strings.TrimSpace(name), status: StatusFinished}
}

func Hydrate(id uuid.UUID, name string, status Status, createdAt time.Time) Project {
	return Project{id: id, name: name, status: status, createdAt: createdAt}
}

func (p Project) ID() uuid.UUID        { return p.id }
func (p Project) Name() string         { return p.name }
func (p Project) Status() Status       { return p.status }
func (p Project) CreatedAt() time.Time { return p.createdAt }

func (p Project) WithID(id uuid.UUID) Project {
	p.id = id
	return p
}

// Allocation places a person on a project. At most one exists per (person, project).
type Allocation struct {
	id        uuid.UUID
	personID  uuid.UUID
	projectID uuid.UUID
	entryDate time.Time
	exitDate  time.Time
}

func NewAllocation(personID, projectID uuid.UUID, entry, exit time.Time) Allocation {
	return Allocation{personID: personID, projectID: projectID, entryDate: entry, exitDate: exit}
}

func HydrateAllocation(id, personID, projectID uuid.UUID, entry, exit time.Time) Allocation {
	return Allocation{id: id, personID: personID, projectID: projectID, entryDate: entry, exitDate: exit}
}

func (a Allocation) ID() uuid.UUID        { return a.id }
func (a Allocation) PersonID() uuid.UUID  { return a.personID }
func (a Allocation) ProjectID() uuid.UUID { return a.projectID }
func (a Allocation) EntryDate() time.Time { return a.entryDate }
func (a Allocation) ExitDate() time.Time  { return a.exitDate }

func (a Allocation) WithID(id uuid.UUID) Allocation {
	a.id = id
	return a
}

type Repository interface {
	GetByName(ctx context.Context, name string) (Project, error)
	Create(ctx context.Context, p Project) (Project, error)
	GetAllocation(ctx context.Context, personID, projectID uuid.UUID) (Allocation, error)
	CreateAllocation(ctx context.Context, a Allocation) (Allocation, error)
}
