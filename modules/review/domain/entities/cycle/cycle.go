package cycle

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("cycle not found")

type Status string

const StatusClosed Status = "closed"

const (
	DefaultReviewDays       = 15
	DefaultEqualizationDays = 10
)

var yearPattern = regexp.MustCompile(`\d{4}`)

// Cycle is a review period identified by its label, e.g. "2024.1".
type Cycle struct {
	id               uuid.UUID
	label            string
	startDate        time.Time
	endDate          time.Time
	status           Status
	reviewDays       int
	equalizationDays int
	createdAt        time.Time
}

// New builds a closed cycle spanning Jan 1 to Mar 31 of the year found in label.
// fallbackYear is used when the label carries no four-digit run.
func New(label string, fallbackYear int) Cycle {
	year := YearFromLabel(label, fallbackYear)
	return Cycle{
		label:            strings.TrimSpace(label),
		startDate:        time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		endDate:          time.Date(year, time.March, 31, 0, 0, 0, 0, time.UTC),
		status:           StatusClosed,
		reviewDays:       DefaultReviewDays,
		equalizationDays: DefaultEqualizationDays,
	}
}

func Hydrate(
	id uuid.UUID,
	label string,
	startDate, endDate time.Time,
	status Status,
	reviewDays, equalizationDays int,
	createdAt time.Time,
) Cycle {
	return Cycle{
		id:               id,
		label:            label,
		startDate:        startDate,
		endDate:          endDate,
		status:           status,
		reviewDays:       reviewDays,
		equalizationDays: equalizationDays,
		createdAt:        createdAt,
	}
}

// YearFromLabel returns the first four consecutive digits of label as a year.
func YearFromLabel(label string, fallback int) int {
	m := yearPattern.FindString(label)
	if m == "" {
		return fallback
	}
	year, err := strconv.Atoi(m)
	if err != nil {
		return fallback
	}
	return year
}

func (c Cycle) ID() uuid.UUID         { return c.id }
func (c Cycle) Label() string         { return c.label }
func (c Cycle) StartDate() time.Time  { return c.startDate }
func (c Cycle) EndDate() time.Time    { return c.endDate }
func (c Cycle) Status() Status        { return c.status }
func (c Cycle) ReviewDays() int       { return c.reviewDays }
func (c Cycle) EqualizationDays() int { return c.equalizationDays }
func (c Cycle) CreatedAt() time.Time  { return c.createdAt }

func (c Cycle) WithID(id uuid.UUID) Cycle {
	c.id = id
	return c
}

type Repository interface {
	GetByLabel(ctx context.Context, label string) (Cycle, error)
	Create(ctx context.Context, c Cycle) (Cycle, error)
}
