// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/votes/models"
)

// VoteRepository defines the interface for vote-specific database operations.
// Targets are addressed by (targetType, targetID) so one table serves
// questions and answers.
type VoteRepository interface {
	// Find returns the user's vote on the target, or an error wrapping
	// sql.ErrNoRows when there is none.
	Find(ctx context.Context, targetType string, targetID, userID uuid.UUID) (*models.Vote, error)

	// Upsert inserts the vote or overwrites the type of an existing one.
	Upsert(ctx context.Context, vote *models.Vote) error

	// Delete removes a vote (toggle off).
	// Returns: (deleted bool, previousVoteType int, err error)
	Delete(ctx context.Context, targetType string, targetID, userID uuid.UUID) (bool, int, error)

	// StatesFor bulk retrieves a user's votes on many targets of one type.
	// Targets without a vote are absent from the map.
	StatesFor(ctx context.Context, targetType string, targetIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]int, error)

	DeleteForTargets(ctx context.Context, targetType string, targetIDs []uuid.UUID) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Vote, error)
	DeleteByUser(ctx context.Context, userID uuid.UUID) error

	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
