package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/iota-uz/review-sdk/modules/person/domain/aggregates/person"
	"github.com/iota-uz/review-sdk/modules/review/domain/aggregates/review"
	"github.com/iota-uz/review-sdk/modules/review/domain/entities/cycle"
	"github.com/iota-uz/review-sdk/pkg/crypto"
)

// CardView is a criterion card with its justification decrypted.
type CardView struct {
	CriterionID   uuid.UUID
	Score         int
	Justification string
}

type SelfReviewView struct {
	ReviewID uuid.UUID
	Subject  string
	Cycle    string
	Score    decimal.Decimal
	Cards    []CardView
}

type PeerReviewView struct {
	ReviewID       uuid.UUID
	Author         string
	Subject        string
	Cycle          string
	ProjectID      uuid.NullUUID
	Score          decimal.Decimal
	Strengths      string
	Weaknesses     string
	WouldWorkAgain *string
}

// ReviewQueryService reads imported reviews back for downstream synthesis.
type ReviewQueryService struct {
	persons person.Repository
	cycles  cycle.Repository
	reviews review.Repository
	cipher  crypto.Cipher
}

func NewReviewQueryService(
	persons person.Repository,
	cycles cycle.Repository,
	reviews review.Repository,
	cipher crypto.Cipher,
) *ReviewQueryService {
	return &ReviewQueryService{persons: persons, cycles: cycles, reviews: reviews, cipher: cipher}
}

func (s *ReviewQueryService) GetSelfReview(ctx context.Context, cycleLabel, email string) (SelfReviewView, error) {
	c, subject, err := s.resolve(ctx, cycleLabel, email)
	if err != nil {
		return SelfReviewView{}, err
	}
	header, err := s.reviews.GetByKey(ctx, review.Key{
		CycleID: c.ID(), SubjectID: subject.ID(), AuthorID: subject.ID(), Kind: review.KindSelf,
	})
	if err != nil {
		return SelfReviewView{}, err
	}
	body, err := s.reviews.GetSelfReview(ctx, header.ID())
	if err != nil {
		return SelfReviewView{}, err
	}

	view := SelfReviewView{ReviewID: header.ID(), Subject: subject.Email(), Cycle: c.Label(), Score: body.Score()}
	for _, card := range body.Cards() {
		text, err := s.cipher.Decrypt(card.Justification())
		if err != nil {
			return SelfReviewView{}, fmt.Errorf("decrypt card %s: %w", card.ID(), err)
		}
		view.Cards = append(view.Cards, CardView{CriterionID: card.CriterionID(), Score: card.Score(), Justification: text})
	}
	return view, nil
}

func (s *ReviewQueryService) GetPeerReview(ctx context.Context, cycleLabel, authorEmail, subjectEmail string) (PeerReviewView, error) {
	c, subject, err := s.resolve(ctx, cycleLabel, subjectEmail)
	if err != nil {
		return PeerReviewView{}, err
	}
	author, err := s.persons.GetByEmail(ctx, authorEmail)
	if err != nil {
		return PeerReviewView{}, err
	}
	header, err := s.reviews.GetByKey(ctx, review.Key{
		CycleID: c.ID(), SubjectID: subject.ID(), AuthorID: author.ID(), Kind: review.KindPeer,
	})
	if err != nil {
		return PeerReviewView{}, err
	}
	body, err := s.reviews.GetPeerReview(ctx, header.ID())
	if err != nil {
		return PeerReviewView{}, err
	}

	strengths, err := s.cipher.Decrypt(body.Strengths())
	if err != nil {
		return PeerReviewView{}, fmt.Errorf("decrypt strengths: %w", err)
	}
	weaknesses, err := s.cipher.Decrypt(body.Weaknesses())
	if err != nil {
		return PeerReviewView{}, fmt.Errorf("decrypt weaknesses: %w", err)
	}
	var again *string
	if body.WouldWorkAgain() != nil {
		v, err := s.cipher.Decrypt(*body.WouldWorkAgain())
		if err != nil {
			return PeerReviewView{}, fmt.Errorf("decrypt would work again: %w", err)
		}
		again = &v
	}
	return PeerReviewView{
		ReviewID:       header.ID(),
		Author:         author.Email(),
		Subject:        subject.Email(),
		Cycle:          c.Label(),
		ProjectID:      body.ProjectID(),
		Score:          body.Score(),
		Strengths:      strengths,
		Weaknesses:     weaknesses,
		WouldWorkAgain: again,
	}, nil
}

func (s *ReviewQueryService) resolve(ctx context.Context, cycleLabel, email string) (cycle.Cycle, person.Person, error) {
	c, err := s.cycles.GetByLabel(ctx, cycleLabel)
	if err != nil {
		return cycle.Cycle{}, person.Person{}, err
	}
	p, err := s.persons.GetByEmail(ctx, email)
	if err != nil {
		return cycle.Cycle{}, person.Person{}, err
	}
	return c, p, nil
}
