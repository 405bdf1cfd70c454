package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	"github.com/iota-uz/review-sdk/modules/review/domain/aggregates/review"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/criterion"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/cycle"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/reference"
	"github.com/iota-uz/review-sdk/pkg/composables"
	"github.com/iota-uz/review-sdk/pkg/crypto"
	"github.com/iota-uz/review-sdk/pkg/repo"
)

type OutcomeStatus string

const (
	OutcomeCreated OutcomeStatus = "created"
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome is the result of assembling one logical record.
type Outcome struct {
	Status OutcomeStatus
	Reason string
	// Warnings counts rows dropped inside a created record.
	Warnings int
}

func created(warnings int) Outcome  { return Outcome{Status: OutcomeCreated, Warnings: warnings} }
func skipped(reason string) Outcome { return Outcome{Status: OutcomeSkipped, Reason: reason} }
func failed(err error) Outcome      { return Outcome{Status: OutcomeFailed, Reason: err.Error()} }

// errAlreadyImported rolls back a record whose natural key is already taken.
var errAlreadyImported = errors.New("already imported")

// Subject is the person a workbook is about, within its cycle.
type Subject struct {
	Person person.Person
	Cycle  cycle.Cycle
}

func (s Subject) fields() logrus.Fields {
	return logrus.Fields{"subject": s.Person.Email(), "cycle": s.Cycle.Label()}
}

// SelfRow is one Self-Assessment line, in clear text.
type SelfRow struct {
	Line          int
	Criterion     string
	Score         string
	Justification string
}

// GraphWriter creates each logical record in its own transaction.
type GraphWriter struct {
	tx         repo.Transactor
	reviews    review.Repository
	criteria   criterion.Repository
	references reference.Repository
	cipher     crypto.Cipher
	logger     *logrus.Logger
}

func NewGraphWriter(
	tx repo.Transactor,
	reviews review.Repository,
	criteria criterion.Repository,
	references reference.Repository,
	cipher crypto.Cipher,
	logger *logrus.Logger,
) *GraphWriter {
	return &GraphWriter{
		tx:         tx,
		reviews:    reviews,
		criteria:   criteria,
		references: references,
		cipher:     cipher,
		logger:     logger,
	}
}

func (w *GraphWriter) log(ctx context.Context) *logrus.Entry {
	if entry, err := composables.UseLogger(ctx); err == nil {
		return entry
	}
	return logrus.NewEntry(w.logger)
}

// WriteSelfReview creates the subject's self review with one card per usable row.
// Rows with an invalid score, an unmapped label or an unknown criterion are dropped
// with a warning; the review is still created when no card survives.
func (w *GraphWriter) WriteSelfReview(ctx context.Context, subject Subject, rows []SelfRow) Outcome {
	logger := w.log(ctx).WithFields(subject.fields()).WithField("kind", review.KindSelf)
	header := review.New(subject.Cycle.ID(), subject.Person.ID(), subject.Person.ID(), review.KindSelf)

	warnings := 0
	err := w.tx.InTx(ctx, func(ctx context.Context) error {
		saved, err := w.createHeader(ctx, header)
		if err != nil {
			return err
		}

		cards := make([]review.CriterionCard, 0, len(rows))
		for _, row := range rows {
			rowLog := logger.WithFields(logrus.Fields{"line": row.Line, "criterion": row.Criterion})
			score, err := review.ParseCardScore(row.Score)
			if err != nil {
				rowLog.WithError(err).Warn("skipping self-assessment row")
				warnings++
				continue
			}
			mapping, ok := criterion.Map(row.Criterion)
			if !ok {
				rowLog.Warn("skipping self-assessment row: unmapped criterion label")
				warnings++
				continue
			}
			crit, err := w.criteria.GetByName(ctx, mapping.Canonical)
			if errors.Is(err, criterion.ErrNotFound) {
				rowLog.WithField("canonical", mapping.Canonical).Warn("skipping self-assessment row: unknown criterion")
				warnings++
				continue
			}
			if err != nil {
				return err
			}
			justification, err := w.cipher.Encrypt(strings.TrimSpace(row.Justification))
			if err != nil {
				return fmt.Errorf("encrypt justification: %w", err)
			}
			cards = append(cards, review.NewCriterionCard(crit.ID(), score, justification))
		}

		_, err = w.reviews.CreateSelfReview(ctx, review.NewSelfReview(saved.ID(), cards))
		return err
	})
	return w.outcome(logger, err, warnings)
}

// WritePeerReview creates the subject's review of evaluated from the aggregated answers.
func (w *GraphWriter) WritePeerReview(
	ctx context.Context,
	subject Subject,
	evaluated person.Person,
	projectID uuid.NullUUID,
	agg review.PeerAggregate,
) Outcome {
	logger := w.log(ctx).WithFields(subject.fields()).WithFields(logrus.Fields{
		"kind":      review.KindPeer,
		"evaluated": evaluated.Email(),
	})
	header := review.New(subject.Cycle.ID(), evaluated.ID(), subject.Person.ID(), review.KindPeer)

	err := w.tx.InTx(ctx, func(ctx context.Context) error {
		saved, err := w.createHeader(ctx, header)
		if err != nil {
			return err
		}
		strengths, err := w.cipher.Encrypt(agg.Strengths)
		if err != nil {
			return fmt.Errorf("encrypt strengths: %w", err)
		}
		weaknesses, err := w.cipher.Encrypt(agg.Weaknesses)
		if err != nil {
			return fmt.Errorf("encrypt weaknesses: %w", err)
		}
		var again *string
		if agg.WouldWorkAgain != nil {
			v, err := w.cipher.Encrypt(*agg.WouldWorkAgain)
			if err != nil {
				return fmt.Errorf("encrypt would work again: %w", err)
			}
			again = &v
		}
		_, err = w.reviews.CreatePeerReview(ctx, review.NewPeerReview(
			saved.ID(), projectID, agg.Score, strengths, weaknesses, again,
		))
		return err
	})
	return w.outcome(logger, err, 0)
}

// WriteReference records the subject's nomination of nominee.
func (w *GraphWriter) WriteReference(ctx context.Context, subject Subject, nominee person.Person, justification string) Outcome {
	logger := w.log(ctx).WithFields(subject.fields()).WithField("nominee", nominee.Email())

	err := w.tx.InTx(ctx, func(ctx context.Context) error {
		key := reference.Key{
			CycleID:     subject.Cycle.ID(),
			NominatorID: subject.Person.ID(),
			NomineeID:   nominee.ID(),
			Category:    reference.CategoryReferenceSearch,
		}
		exists, err := w.references.Exists(ctx, key)
		if err != nil {
			return err
		}
		if exists {
			return errAlreadyImported
		}
		encrypted, err := w.cipher.Encrypt(strings.TrimSpace(justification))
		if err != nil {
			return fmt.Errorf("encrypt justification: %w", err)
		}
		_, err = w.references.Create(ctx, reference.New(key.CycleID, key.NominatorID, key.NomineeID, key.Category, encrypted))
		return err
	})
	return w.outcome(logger, err, 0)
}

func (w *GraphWriter) createHeader(ctx context.Context, header review.Review) (review.Review, error) {
	exists, err := w.reviews.Exists(ctx, header.Key())
	if err != nil {
		return review.Review{}, err
	}
	if exists {
		return review.Review{}, errAlreadyImported
	}
	saved, err := w.reviews.Create(ctx, header)
	if errors.Is(err, review.ErrAlreadyExists) {
		return review.Review{}, errAlreadyImported
	}
	return saved, err
}

func (w *GraphWriter) outcome(logger *logrus.Entry, err error, warnings int) Outcome {
	switch {
	case err == nil:
		return created(warnings)
	case errors.Is(err, errAlreadyImported):
		logger.Info("record already imported, skipping")
		return skipped(errAlreadyImported.Error())
	default:
		logger.WithError(err).Error("failed to write record")
		return failed(err)
	}
}
