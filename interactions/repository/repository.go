// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/interactions/models"
	"github.com/qolzam/devflow/shared/interfaces"
)

// InteractionRepository defines the data access operations for activity records.
type InteractionRepository interface {
	// Insert writes the event. An event without tag ids inherits the tags
	// currently linked to its question.
	Insert(ctx context.Context, id uuid.UUID, event interfaces.InteractionEvent) error
	DeleteForQuestion(ctx context.Context, questionID uuid.UUID) error
	DeleteForAnswers(ctx context.Context, answerIDs []uuid.UUID) error
	TopTags(ctx context.Context, userID uuid.UUID, limit int) ([]models.TopTag, error)
}
