package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
)

type fakeRepo struct {
	byEmail   map[string]person.Person
	createErr error
	creates   int
	updates   int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{byEmail: map[string]person.Person{}}
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (person.Person, error) {
	for _, p := range r.byEmail {
		if p.ID() == id {
			return p, nil
		}
	}
	return person.Person{}, person.ErrNotFound
}

func (r *fakeRepo) GetByEmail(_ context.Context, email string) (person.Person, error) {
	if p, ok := r.byEmail[email]; ok {
		return p, nil
	}
	return person.Person{}, person.ErrNotFound
}

func (r *fakeRepo) Create(_ context.Context, p person.Person) (person.Person, error) {
	r.creates++
	if r.createErr != nil {
		return person.Person{}, r.createErr
	}
	saved := p.WithID(uuid.New())
	r.byEmail[saved.Email()] = saved
	return saved, nil
}

func (r *fakeRepo) UpdateDisplay(_ context.Context, p person.Person) (person.Person, error) {
	r.updates++
	r.byEmail[p.Email()] = p
	return p, nil
}

type fakeHasher struct{ calls int }

func (h *fakeHasher) Hash(secret string) (string, error) {
	h.calls++
	return "hashed:" + secret, nil
}

func TestUpsertProfile_CreatesWithPlaceholderCredential(t *testing.T) {
	repo, hasher := newFakeRepo(), &fakeHasher{}
	svc := NewPersonService(repo, hasher)

	p, err := svc.UpsertProfile(context.Background(), &person.ProfileDTO{
		Email: " Ana@Example.com ", FullName: "Ana Souza", Unit: "Payments", Role: "Engineer",
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID())
	assert.Equal(t, "ana@example.com", p.Email())
	assert.Equal(t, "Engineer", p.Role())
	assert.Contains(t, p.PasswordHash(), "hashed:")
	assert.Equal(t, 1, hasher.calls)
}

func TestUpsertProfile_UpdatesDisplayOfExisting(t *testing.T) {
	repo, hasher := newFakeRepo(), &fakeHasher{}
	svc := NewPersonService(repo, hasher)
	ctx := context.Background()

	first, err := svc.UpsertProfile(ctx, &person.ProfileDTO{Email: "ana@example.com", FullName: "Ana", Unit: "Payments"})
	require.NoError(t, err)
	second, err := svc.UpsertProfile(ctx, &person.ProfileDTO{Email: "ana@example.com", FullName: "Ana Souza", Unit: "Risk"})
	require.NoError(t, err)

	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, "Ana Souza", second.FullName())
	assert.Equal(t, "Risk", second.Unit())
	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, 1, hasher.calls)
}

func TestUpsertProfile_IncompleteProfile(t *testing.T) {
	repo := newFakeRepo()
	svc := NewPersonService(repo, &fakeHasher{})

	_, err := svc.UpsertProfile(context.Background(), &person.ProfileDTO{Email: "ana@example.com", FullName: "  "})
	require.ErrorIs(t, err, person.ErrProfileIncomplete)
	assert.Contains(t, err.Error(), "FullName")
	assert.Contains(t, err.Error(), "Unit")
	assert.Zero(t, repo.creates)

	_, err = svc.UpsertProfile(context.Background(), nil)
	require.Error(t, err)
}

func TestEnsure_CreatesStubOnce(t *testing.T) {
	repo := newFakeRepo()
	svc := NewPersonService(repo, &fakeHasher{})
	ctx := context.Background()

	stub, err := svc.Ensure(ctx, "Bruno.Lima@example.com")
	require.NoError(t, err)
	assert.Equal(t, "bruno.lima@example.com", stub.Email())
	assert.Equal(t, person.StubName("bruno.lima@example.com"), stub.FullName())
	assert.Empty(t, stub.Unit())

	again, err := svc.Ensure(ctx, "bruno.lima@example.com")
	require.NoError(t, err)
	assert.Equal(t, stub.ID(), again.ID())
	assert.Equal(t, 1, repo.creates)
}

func TestEnsure_RejectsBlankEmail(t *testing.T) {
	_, err := NewPersonService(newFakeRepo(), &fakeHasher{}).Ensure(context.Background(), "  ")
	require.ErrorIs(t, err, person.ErrNotFound)
}

func TestCreate_EmailTakenReturnsWinner(t *testing.T) {
	repo := newFakeRepo()
	winner := person.New("ana@example.com", "Ana", "Payments", "x").WithID(uuid.New())
	repo.byEmail[winner.Email()] = winner
	repo.createErr = person.ErrEmailTaken
	svc := NewPersonService(repo, &fakeHasher{})

	got, err := svc.create(context.Background(), person.New("ana@example.com", "Ana", "Payments", ""))
	require.NoError(t, err)
	assert.Equal(t, winner.ID(), got.ID())
	assert.Equal(t, 1, repo.creates)
}
