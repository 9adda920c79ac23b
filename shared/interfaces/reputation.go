package interfaces

import (
	"context"

	"github.com/gofrs/uuid"
)

// ReputationAdjuster applies a fixed reputation delta to a user.
// The users repository implements it; votes, questions and answers depend on it.
type ReputationAdjuster interface {
	AdjustReputation(ctx context.Context, userID uuid.UUID, delta int) error
}

// SavedChecker reports whether a user has saved a question.
type SavedChecker interface {
	IsSaved(ctx context.Context, userID, questionID uuid.UUID) (bool, error)
}
