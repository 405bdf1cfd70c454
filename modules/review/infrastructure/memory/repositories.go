package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	"github.com/iota-uz/review-sdk/modules/review/domain/aggregates/review"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/criterion"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/cycle"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/project"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/reference"
)

type personRepository struct{ store *Store }

func (r *personRepository) GetByID(ctx context.Context, id uuid.UUID) (person.Person, error) {
	var out person.Person
	err := r.store.read(ctx, func(st *state) error {
		p, ok := st.persons[id]
		if !ok {
			return person.ErrNotFound
		}
		out = p
		return nil
	})
	return out, err
}

func (r *personRepository) GetByEmail(ctx context.Context, email string) (person.Person, error) {
	email = person.NormalizeEmail(email)
	var out person.Person
	err := r.store.read(ctx, func(st *state) error {
		for _, p := range st.persons {
			if p.Email() == email {
				out = p
				return nil
			}
		}
		return person.ErrNotFound
	})
	return out, err
}

func (r *personRepository) Create(ctx context.Context, p person.Person) (person.Person, error) {
	var out person.Person
	err := r.store.write(ctx, "person.create", p, func(st *state) error {
		for _, existing := range st.persons {
			if existing.Email() == p.Email() {
				return person.ErrEmailTaken
			}
		}
		now := r.store.now()
		out = person.Hydrate(
			uuid.New(), p.Email(), p.FullName(), p.Unit(), p.Role(), p.Track(),
			p.PasswordHash(), p.Status(), now, now,
		)
		st.persons[out.ID()] = out
		return nil
	})
	return out, err
}

func (r *personRepository) UpdateDisplay(ctx context.Context, p person.Person) (person.Person, error) {
	var out person.Person
	err := r.store.write(ctx, "person.update", p, func(st *state) error {
		current, ok := st.persons[p.ID()]
		if !ok {
			return person.ErrNotFound
		}
		out = person.Hydrate(
			current.ID(), current.Email(), p.FullName(), p.Unit(), p.Role(), p.Track(),
			current.PasswordHash(), current.Status(), current.CreatedAt(), r.store.now(),
		)
		st.persons[out.ID()] = out
		return nil
	})
	return out, err
}

type cycleRepository struct{ store *Store }

func (r *cycleRepository) GetByLabel(ctx context.Context, label string) (cycle.Cycle, error) {
	var out cycle.Cycle
	err := r.store.read(ctx, func(st *state) error {
		for _, c := range st.cycles {
			if c.Label() == label {
				out = c
				return nil
			}
		}
		return cycle.ErrNotFound
	})
	return out, err
}

func (r *cycleRepository) Create(ctx context.Context, c cycle.Cycle) (cycle.Cycle, error) {
	var out cycle.Cycle
	err := r.store.write(ctx, "cycle.create", c, func(st *state) error {
		out = cycle.Hydrate(
			uuid.New(), c.Label(), c.StartDate(), c.EndDate(), c.Status(),
			c.ReviewDays(), c.EqualizationDays(), r.store.now(),
		)
		st.cycles[out.ID()] = out
		return nil
	})
	return out, err
}

type projectRepository struct{ store *Store }

func (r *projectRepository) GetByName(ctx context.Context, name string) (project.Project, error) {
	name = strings.TrimSpace(name)
	var out project.Project
	err := r.store.read(ctx, func(st *state) error {
		for _, p := range st.projects {
			if p.Name() == name {
				out = p
				return nil
			}
		}
		return project.ErrNotFound
	})
	return out, err
}

func (r *projectRepository) Create(ctx context.Context, p project.Project) (project.Project, error) {
	var out project.Project
	err := r.store.write(ctx, "project.create", p, func(st *state) error {
		out = project.Hydrate(uuid.New(), p.Name(), p.Status(), r.store.now())
		st.projects[out.ID()] = out
		return nil
	})
	return out, err
}

func (r *projectRepository) GetAllocation(ctx context.Context, personID, projectID uuid.UUID) (project.Allocation, error) {
	var out project.Allocation
	err := r.store.read(ctx, func(st *state) error {
		a, ok := st.allocations[allocationKey{personID: personID, projectID: projectID}]
		if !ok {
			return project.ErrAllocationNotFound
		}
		out = a
		return nil
	})
	return out, err
}

func (r *projectRepository) CreateAllocation(ctx context.Context, a project.Allocation) (project.Allocation, error) {
	var out project.Allocation
	err := r.store.write(ctx, "project.create_allocation", a, func(st *state) error {
		key := allocationKey{personID: a.PersonID(), projectID: a.ProjectID()}
		if existing, ok := st.allocations[key]; ok {
			out = existing
			return nil
		}
		out = a.WithID(uuid.New())
		st.allocations[key] = out
		return nil
	})
	return out, err
}

type criterionRepository struct{ store *Store }

func (r *criterionRepository) GetByName(ctx context.Context, name string) (criterion.Criterion, error) {
	var out criterion.Criterion
	err := r.store.read(ctx, func(st *state) error {
		for _, c := range st.criteria {
			if c.Name() == name {
				out = c
				return nil
			}
		}
		return criterion.ErrNotFound
	})
	return out, err
}

type reviewRepository struct{ store *Store }

func findReview(st *state, key review.Key) (review.Review, bool) {
	for _, rv := range st.reviews {
		if rv.Key() == key {
			return rv, true
		}
	}
	return review.Review{}, false
}

func (r *reviewRepository) Exists(ctx context.Context, key review.Key) (bool, error) {
	var found bool
	err := r.store.read(ctx, func(st *state) error {
		_, found = findReview(st, key)
		return nil
	})
	return found, err
}

func (r *reviewRepository) GetByKey(ctx context.Context, key review.Key) (review.Review, error) {
	var out review.Review
	err := r.store.read(ctx, func(st *state) error {
		rv, ok := findReview(st, key)
		if !ok {
			return review.ErrNotFound
		}
		out = rv
		return nil
	})
	return out, err
}

func (r *reviewRepository) Create(ctx context.Context, rv review.Review) (review.Review, error) {
	var out review.Review
	err := r.store.write(ctx, "review.create", rv, func(st *state) error {
		if _, ok := findReview(st, rv.Key()); ok {
			return review.ErrAlreadyExists
		}
		out = review.Hydrate(
			uuid.New(), rv.CycleID(), rv.SubjectID(), rv.AuthorID(), rv.Kind(), rv.Status(), r.store.now(),
		)
		st.reviews[out.ID()] = out
		return nil
	})
	return out, err
}

func (r *reviewRepository) CreateSelfReview(ctx context.Context, body review.SelfReview) (review.SelfReview, error) {
	var out review.SelfReview
	err := r.store.write(ctx, "review.create_self", body, func(st *state) error {
		if _, ok := st.reviews[body.ReviewID()]; !ok {
			return review.ErrNotFound
		}
		if _, ok := st.selfBodies[body.ReviewID()]; ok {
			return review.ErrAlreadyExists
		}
		cards := body.Cards()
		for i := range cards {
			cards[i] = cards[i].WithID(uuid.New())
		}
		out = body.WithID(uuid.New()).WithCards(cards)
		st.selfBodies[body.ReviewID()] = out
		return nil
	})
	return out, err
}

func (r *reviewRepository) CreatePeerReview(ctx context.Context, body review.PeerReview) (review.PeerReview, error) {
	var out review.PeerReview
	err := r.store.write(ctx, "review.create_peer", body, func(st *state) error {
		if _, ok := st.reviews[body.ReviewID()]; !ok {
			return review.ErrNotFound
		}
		if _, ok := st.peerBodies[body.ReviewID()]; ok {
			return review.ErrAlreadyExists
		}
		out = body.WithID(uuid.New())
		st.peerBodies[body.ReviewID()] = out
		return nil
	})
	return out, err
}

func (r *reviewRepository) GetSelfReview(ctx context.Context, reviewID uuid.UUID) (review.SelfReview, error) {
	var out review.SelfReview
	err := r.store.read(ctx, func(st *state) error {
		body, ok := st.selfBodies[reviewID]
		if !ok {
			return review.ErrNotFound
		}
		out = body
		return nil
	})
	return out, err
}

func (r *reviewRepository) GetPeerReview(ctx context.Context, reviewID uuid.UUID) (review.PeerReview, error) {
	var out review.PeerReview
	err := r.store.read(ctx, func(st *state) error {
		body, ok := st.peerBodies[reviewID]
		if !ok {
			return review.ErrNotFound
		}
		out = body
		return nil
	})
	return out, err
}

type referenceRepository struct{ store *Store }

func (r *referenceRepository) Exists(ctx context.Context, key reference.Key) (bool, error) {
	var found bool
	err := r.store.read(ctx, func(st *state) error {
		for _, n := range st.nominations {
			if n.Key() == key {
				found = true
				return nil
			}
		}
		return nil
	})
	return found, err
}

func (r *referenceRepository) Create(ctx context.Context, n reference.Nomination) (reference.Nomination, error) {
	var out reference.Nomination
	err := r.store.write(ctx, "reference.create", n, func(st *state) error {
		out = reference.Hydrate(
			uuid.New(), n.CycleID(), n.NominatorID(), n.NomineeID(), n.Category(), n.Justification(), r.store.now(),
		)
		st.nominations[out.ID()] = out
		return nil
	})
	return out, err
}
