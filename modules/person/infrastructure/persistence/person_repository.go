package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	"github.com/iota-uz/review-sdk/pkg/composables"
)

const (
	personColumns = `id, email, full_name, unit, role, track, password_hash, status, created_at, updated_at`

	selectPersonByIDQuery    = `SELECT ` + personColumns + ` FROM persons WHERE id = $1`
	selectPersonByEmailQuery = `SELECT ` + personColumns + ` FROM persons WHERE email = $1`
	insertPersonQuery        = `INSERT INTO persons (email, full_name, unit, role, track, password_hash, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + personColumns
	updatePersonDisplayQuery = `UPDATE persons
		SET full_name = $2, unit = $3, role = $4, track = $5, updated_at = now()
		WHERE id = $1
		RETURNING ` + personColumns
)

type PersonRepository struct{}

func NewPersonRepository() person.Repository {
	return &PersonRepository{}
}

func (r *PersonRepository) GetByID(ctx context.Context, id uuid.UUID) (person.Person, error) {
	return r.queryOne(ctx, selectPersonByIDQuery, pgUUIDFromUUID(id))
}

func (r *PersonRepository) GetByEmail(ctx context.Context, email string) (person.Person, error) {
	return r.queryOne(ctx, selectPersonByEmailQuery, person.NormalizeEmail(email))
}

func (r *PersonRepository) Create(ctx context.Context, p person.Person) (person.Person, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return person.Person{}, err
	}
	row := tx.QueryRow(ctx, insertPersonQuery,
		p.Email(), p.FullName(), p.Unit(), p.Role(), p.Track(), p.PasswordHash(), string(p.Status()),
	)
	created, err := scanPerson(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return person.Person{}, person.ErrEmailTaken
		}
		return person.Person{}, fmt.Errorf("create person: %w", err)
	}
	return created, nil
}

func (r *PersonRepository) UpdateDisplay(ctx context.Context, p person.Person) (person.Person, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return person.Person{}, err
	}
	row := tx.QueryRow(ctx, updatePersonDisplayQuery, pgUUIDFromUUID(p.ID()), p.FullName(), p.Unit(), p.Role(), p.Track())
	updated, err := scanPerson(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return person.Person{}, person.ErrNotFound
		}
		return person.Person{}, fmt.Errorf("update person %s: %w", p.ID(), err)
	}
	return updated, nil
}

func (r *PersonRepository) queryOne(ctx context.Context, query string, args ...any) (person.Person, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return person.Person{}, err
	}
	p, err := scanPerson(tx.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return person.Person{}, person.ErrNotFound
		}
		return person.Person{}, err
	}
	return p, nil
}

func scanPerson(row pgx.Row) (person.Person, error) {
	var (
		id                                          pgtype.UUID
		email, fullName, unit, role, track, pwd, st string
		createdAt, updatedAt                        pgtype.Timestamptz
	)
	if err := row.Scan(&id, &email, &fullName, &unit, &role, &track, &pwd, &st, &createdAt, &updatedAt); err != nil {
		return person.Person{}, err
	}
	return person.Hydrate(uuid.UUID(id.Bytes), email, fullName, unit, role, track, pwd, person.Status(st), createdAt.Time, updatedAt.Time), nil
}
