package review

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Exists(ctx context.Context, key Key) (bool, error)
	GetByKey(ctx context.Context, key Key) (Review, error)
	// Create returns ErrAlreadyExists when a review with the same key is present.
	Create(ctx context.Context, r Review) (Review, error)
	CreateSelfReview(ctx context.Context, body SelfReview) (SelfReview, error)
	CreatePeerReview(ctx context.Context, body PeerReview) (PeerReview, error)
	GetSelfReview(ctx context.Context, reviewID uuid.UUID) (SelfReview, error)
	GetPeerReview(ctx context.Context, reviewID uuid.UUID) (PeerReview, error)
}
