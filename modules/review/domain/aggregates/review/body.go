package review

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CriterionCard scores one canonical criterion inside a self or leader review.
type CriterionCard struct {
	id            uuid.UUID
	criterionID   uuid.UUID
	score         int
	justification string
}

// NewCriterionCard expects an already encrypted justification.
func NewCriterionCard(criterionID uuid.UUID, score int, encryptedJustification string) CriterionCard {
	return CriterionCard{criterionID: criterionID, score: score, justification: encryptedJustification}
}

func HydrateCriterionCard(id, criterionID uuid.UUID, score int, justification string) CriterionCard {
	return CriterionCard{id: id, criterionID: criterionID, score: score, justification: justification}
}

func (c CriterionCard) ID() uuid.UUID          { return c.id }
func (c CriterionCard) CriterionID() uuid.UUID { return c.criterionID }
func (c CriterionCard) Score() int             { return c.score }
func (c CriterionCard) Justification() string  { return c.justification }

func (c CriterionCard) WithID(id uuid.UUID) CriterionCard {
	c.id = id
	return c
}

// SelfReview is the body of a self review. Score is the mean of its card scores.
type SelfReview struct {
	id       uuid.UUID
	reviewID uuid.UUID
	score    decimal.Decimal
	cards    []CriterionCard
}

func NewSelfReview(reviewID uuid.UUID, cards []CriterionCard) SelfReview {
	scores := make([]decimal.Decimal, 0, len(cards))
	for _, c := range cards {
		scores = append(scores, decimal.NewFromInt(int64(c.score)))
	}
	return SelfReview{reviewID: reviewID, score: Mean(scores), cards: cards}
}

func HydrateSelfReview(id, reviewID uuid.UUID, score decimal.Decimal, cards []CriterionCard) SelfReview {
	return SelfReview{id: id, reviewID: reviewID, score: score, cards: cards}
}

func (s SelfReview) ID() uuid.UUID          { return s.id }
func (s SelfReview) ReviewID() uuid.UUID    { return s.reviewID }
func (s SelfReview) Score() decimal.Decimal { return s.score }

func (s SelfReview) Cards() []CriterionCard {
	out := make([]CriterionCard, len(s.cards))
	copy(out, s.cards)
	return out
}

func (s SelfReview) WithID(id uuid.UUID) SelfReview {
	s.id = id
	return s
}

func (s SelfReview) WithCards(cards []CriterionCard) SelfReview {
	s.cards = cards
	return s
}

// PeerReview is the body of a peer review built from one or more raw answers.
// Narrative fields hold ciphertext.
type PeerReview struct {
	id             uuid.UUID
	reviewID       uuid.UUID
	projectID      uuid.NullUUID
	score          decimal.Decimal
	strengths      string
	weaknesses     string
	wouldWorkAgain *string
}

func NewPeerReview(
	reviewID uuid.UUID,
	projectID uuid.NullUUID,
	score decimal.Decimal,
	strengths, weaknesses string,
	wouldWorkAgain *string,
) PeerReview {
	return PeerReview{
		reviewID:       reviewID,
		projectID:      projectID,
		score:          score,
		strengths:      strengths,
		weaknesses:     weaknesses,
		wouldWorkAgain: wouldWorkAgain,
	}
}

func HydratePeerReview(
	id, reviewID uuid.UUID,
	projectID uuid.NullUUID,
	score decimal.Decimal,
	strengths, weaknesses string,
	wouldWorkAgain *string,
) PeerReview {
	p := NewPeerReview(reviewID, projectID, score, strengths, weaknesses, wouldWorkAgain)
	p.id = id
	return p
}

func (p PeerReview) ID() uuid.UUID            { return p.id }
func (p PeerReview) ReviewID() uuid.UUID      { return p.reviewID }
func (p PeerReview) ProjectID() uuid.NullUUID { return p.projectID }
func (p PeerReview) Score() decimal.Decimal   { return p.score }
func (p PeerReview) Strengths() string        { return p.strengths }
func (p PeerReview) Weaknesses() string       { return p.weaknesses }
func (p PeerReview) WouldWorkAgain() *string  { return p.wouldWorkAgain }

func (p PeerReview) WithID(id uuid.UUID) PeerReview {
	p.id = id
	return p
}
