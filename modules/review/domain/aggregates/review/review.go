package review

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("review not found")
	ErrAlreadyExists = errors.New("review already exists")
)

type Kind string

const (
	KindSelf              Kind = "self"
	KindPeer              Kind = "peer"
	KindLeaderSubordinate Kind = "leader_subordinate"
	KindMenteeMentor      Kind = "mentee_mentor"
)

func (k Kind) IsValid() bool {
	switch k {
	case KindSelf, KindPeer, KindLeaderSubordinate, KindMenteeMentor:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
)

// Key is the natural key of a review header: one per (author, subject, kind, cycle).
type Key struct {
	CycleID   uuid.UUID
	SubjectID uuid.UUID
	AuthorID  uuid.UUID
	Kind      Kind
}

// Review is the header shared by every review kind. Its body is created in the same transaction.
type Review struct {
	id        uuid.UUID
	cycleID   uuid.UUID
	subjectID uuid.UUID
	authorID  uuid.UUID
	kind      Kind
	status    Status
	createdAt time.Time
}

// New creates a completed review; imported reviews belong to closed cycles.
func New(cycleID, subjectID, authorID uuid.UUID, kind Kind) Review {
	return Review{
		cycleID:   cycleID,
		subjectID: subjectID,
		authorID:  authorID,
		kind:      kind,
		status:    StatusCompleted,
	}
}

func Hydrate(
	id, cycleID, subjectID, authorID uuid.UUID,
	kind Kind,
	status Status,
	createdAt time.Time,
) Review {
	return Review{
		id:        id,
		cycleID:   cycleID,
		subjectID: subjectID,
		authorID:  authorID,
		kind:      kind,
		status:    status,
		createdAt: createdAt,
	}
}

func (r Review) ID() uuid.UUID        { return r.id }
func (r Review) CycleID() uuid.UUID   { return r.cycleID }
func (r Review) SubjectID() uuid.UUID { return r.subjectID }
func (r Review) AuthorID() uuid.UUID  { return r.authorID }
func (r Review) Kind() Kind           { return r.kind }
func (r Review) Status() Status       { return r.status }
func (r Review) CreatedAt() time.Time { return r.createdAt }

func (r Review) Key() Key {
	return Key{CycleID: r.cycleID, SubjectID: r.subjectID, AuthorID: r.authorID, Kind: r.kind}
}

func (r Review) WithID(id uuid.UUID) Review {
	r.id = id
	return r
}
