package persistence

import (
	"context"
	"errors"
	"time"

	gerrors "github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/review-sdk/modules/review/domain/aggregates/review"
	"github.com/iota-uz/review-sdk/pkg/composables"
)

const (
	reviewColumns = `id, cycle_id, subject_id, author_id, kind, status, created_at`

	reviewExistsQuery = `SELECT EXISTS (
		SELECT 1 FROM reviews WHERE cycle_id = $1 AND subject_id = $2 AND author_id = $3 AND kind = $4
	)`
	selectReviewByKeyQuery = `SELECT ` + reviewColumns + ` FROM reviews
		WHERE cycle_id = $1 AND subject_id = $2 AND author_id = $3 AND kind = $4`
	insertReviewQuery = `INSERT INTO reviews (cycle_id, subject_id, author_id, kind, status)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (cycle_id, subject_id, author_id, kind) DO NOTHING
		RETURNING ` + reviewColumns

	insertSelfReviewQuery = `INSERT INTO self_reviews (review_id, score) VALUES ($1, $2) RETURNING id`
	insertCardQuery       = `INSERT INTO criterion_cards (self_review_id, criterion_id, score, justification)
		VALUES ($1, $2, $3, $4)
		RETURNING id`
	selectSelfReviewQuery = `SELECT id, score FROM self_reviews WHERE review_id = $1`
	selectCardsQuery      = `SELECT id, criterion_id, score, justification FROM criterion_cards
		WHERE self_review_id = $1 ORDER BY id`

	insertPeerReviewQuery = `INSERT INTO peer_reviews (review_id, project_id, score, strengths, weaknesses, would_work_again)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	selectPeerReviewQuery = `SELECT id, project_id, score, strengths, weaknesses, would_work_again
		FROM peer_reviews WHERE review_id = $1`
)

type ReviewRepository struct{}

func NewReviewRepository() review.Repository {
	return &ReviewRepository{}
}

func (r *ReviewRepository) Exists(ctx context.Context, key review.Key) (bool, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return false, err
	}
	var exists bool
	if err := tx.QueryRow(ctx, reviewExistsQuery, keyArgs(key)...).Scan(&exists); err != nil {
		return false, gerrors.Wrap(err, "failed to check review")
	}
	return exists, nil
}

func (r *ReviewRepository) GetByKey(ctx context.Context, key review.Key) (review.Review, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return review.Review{}, err
	}
	rv, err := scanReview(tx.QueryRow(ctx, selectReviewByKeyQuery, keyArgs(key)...))
	if errors.Is(err, pgx.ErrNoRows) {
		return review.Review{}, review.ErrNotFound
	}
	if err != nil {
		return review.Review{}, gerrors.Wrap(err, "failed to get review")
	}
	return rv, nil
}

func (r *ReviewRepository) Create(ctx context.Context, rv review.Review) (review.Review, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return review.Review{}, err
	}
	args := append(keyArgs(rv.Key()), string(rv.Status()))
	created, err := scanReview(tx.QueryRow(ctx, insertReviewQuery, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return review.Review{}, review.ErrAlreadyExists
	}
	if err != nil {
		return review.Review{}, gerrors.Wrap(err, "failed to create review")
	}
	return created, nil
}

func (r *ReviewRepository) CreateSelfReview(ctx context.Context, body review.SelfReview) (review.SelfReview, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return review.SelfReview{}, err
	}
	var id uuid.UUID
	if err := tx.QueryRow(ctx, insertSelfReviewQuery, body.ReviewID(), body.Score()).Scan(&id); err != nil {
		return review.SelfReview{}, gerrors.Wrap(err, "failed to create self review")
	}

	cards := body.Cards()
	for i, card := range cards {
		var cardID uuid.UUID
		if err := tx.QueryRow(ctx, insertCardQuery,
			id, card.CriterionID(), card.Score(), card.Justification(),
		).Scan(&cardID); err != nil {
			return review.SelfReview{}, gerrors.Wrap(err, "failed to create criterion card")
		}
		cards[i] = card.WithID(cardID)
	}
	return body.WithID(id).WithCards(cards), nil
}

func (r *ReviewRepository) CreatePeerReview(ctx context.Context, body review.PeerReview) (review.PeerReview, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return review.PeerReview{}, err
	}
	var id uuid.UUID
	if err := tx.QueryRow(ctx, insertPeerReviewQuery,
		body.ReviewID(), body.ProjectID(), body.Score(), body.Strengths(), body.Weaknesses(), body.WouldWorkAgain(),
	).Scan(&id); err != nil {
		return review.PeerReview{}, gerrors.Wrap(err, "failed to create peer review")
	}
	return body.WithID(id), nil
}

func (r *ReviewRepository) GetSelfReview(ctx context.Context, reviewID uuid.UUID) (review.SelfReview, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return review.SelfReview{}, err
	}
	var (
		id    uuid.UUID
		score decimal.Decimal
	)
	err = tx.QueryRow(ctx, selectSelfReviewQuery, reviewID).Scan(&id, &score)
	if errors.Is(err, pgx.ErrNoRows) {
		return review.SelfReview{}, review.ErrNotFound
	}
	if err != nil {
		return review.SelfReview{}, gerrors.Wrap(err, "failed to get self review")
	}

	rows, err := tx.Query(ctx, selectCardsQuery, id)
	if err != nil {
		return review.SelfReview{}, gerrors.Wrap(err, "failed to list criterion cards")
	}
	defer rows.Close()

	var cards []review.CriterionCard
	for rows.Next() {
		var (
			cardID, criterionID uuid.UUID
			cardScore           int
			justification       string
		)
		if err := rows.Scan(&cardID, &criterionID, &cardScore, &justification); err != nil {
			return review.SelfReview{}, gerrors.Wrap(err, "failed to scan criterion card")
		}
		cards = append(cards, review.HydrateCriterionCard(cardID, criterionID, cardScore, justification))
	}
	if err := rows.Err(); err != nil {
		return review.SelfReview{}, gerrors.Wrap(err, "failed to list criterion cards")
	}
	return review.HydrateSelfReview(id, reviewID, score, cards), nil
}

func (r *ReviewRepository) GetPeerReview(ctx context.Context, reviewID uuid.UUID) (review.PeerReview, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return review.PeerReview{}, err
	}
	var (
		id                    uuid.UUID
		projectID             uuid.NullUUID
		score                 decimal.Decimal
		strengths, weaknesses string
		wouldWorkAgain        *string
	)
	err = tx.QueryRow(ctx, selectPeerReviewQuery, reviewID).
		Scan(&id, &projectID, &score, &strengths, &weaknesses, &wouldWorkAgain)
	if errors.Is(err, pgx.ErrNoRows) {
		return review.PeerReview{}, review.ErrNotFound
	}
	if err != nil {
		return review.PeerReview{}, gerrors.Wrap(err, "failed to get peer review")
	}
	return review.HydratePeerReview(id, reviewID, projectID, score, strengths, weaknesses, wouldWorkAgain), nil
}

func keyArgs(key review.Key) []any {
	return []any{key.CycleID, key.SubjectID, key.AuthorID, string(key.Kind)}
}

func scanReview(row pgx.Row) (review.Review, error) {
	var (
		id, cycleID, subjectID, authorID uuid.UUID
		kind, status                     string
		createdAt                        time.Time
	)
	if err := row.Scan(&id, &cycleID, &subjectID, &authorID, &kind, &status, &createdAt); err != nil {
		return review.Review{}, err
	}
	return review.Hydrate(id, cycleID, subjectID, authorID, review.Kind(kind), review.Status(status), createdAt), nil
}
