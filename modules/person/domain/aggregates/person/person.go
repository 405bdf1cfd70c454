package person

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

type Person struct {
	id           uuid.UUID
	email        string
	fullName     string
	unit         string
	role         string
	track        string
	passwordHash string
	status       Status
	createdAt    time.Time
	updatedAt    time.Time
}

func New(email, fullName, unit, passwordHash string) Person {
	return Person{
		email:        NormalizeEmail(email),
		fullName:     strings.TrimSpace(fullName),
		unit:         strings.TrimSpace(unit),
		passwordHash: passwordHash,
		status:       StatusActive,
	}
}

func Hydrate(
	id uuid.UUID,
	email string,
	fullName string,
	unit string,
	role string,
	track string,
	passwordHash string,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
) Person {
	return Person{
		id:           id,
		email:        NormalizeEmail(email),
		fullName:     strings.TrimSpace(fullName),
		unit:         strings.TrimSpace(unit),
		role:         strings.TrimSpace(role),
		track:        strings.TrimSpace(track),
		passwordHash: passwordHash,
		status:       status,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (p Person) ID() uuid.UUID        { return p.id }
func (p Person) Email() string        { return p.email }
func (p Person) FullName() string     { return p.fullName }
func (p Person) Unit() string         { return p.unit }
func (p Person) Role() string         { return p.role }
func (p Person) Track() string        { return p.track }
func (p Person) PasswordHash() string { return p.passwordHash }
func (p Person) Status() Status       { return p.status }
func (p Person) CreatedAt() time.Time { return p.createdAt }
func (p Person) UpdatedAt() time.Time { return p.updatedAt }
func (p Person) IsZero() bool         { return p.id == uuid.Nil && p.email == "" }
func (p Person) WithID(id uuid.UUID) Person {
	p.id = id
	return p
}

// WithDisplay returns a copy carrying the given display fields. Blank values keep the current ones.
func (p Person) WithDisplay(fullName, unit string) Person {
	if v := strings.TrimSpace(fullName); v != "" {
		p.fullName = v
	}
	if v := strings.TrimSpace(unit); v != "" {
		p.unit = v
	}
	return p
}

func (p Person) WithRoleTrack(role, track string) Person {
	if v := strings.TrimSpace(role); v != "" {
		p.role = v
	}
	if v := strings.TrimSpace(track); v != "" {
		p.track = v
	}
	return p
}

func NormalizeEmail(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// StubName derives a display name from an e-mail local part for people known only by address.
func StubName(email string) string {
	local, _, _ := strings.Cut(NormalizeEmail(email), "@")
	return local
}
