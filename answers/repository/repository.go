// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/answers/models"
	"github.com/qolzam/devflow/shared/interfaces"
)

// AnswerRepository defines the data access contract for answers.
type AnswerRepository interface {
	interfaces.VoteTarget

	Create(ctx context.Context, answer *models.Answer) error
	// FindByID returns an error wrapping sql.ErrNoRows when the answer does not exist.
	FindByID(ctx context.Context, answerID uuid.UUID) (*models.Answer, error)
	Delete(ctx context.Context, answerID uuid.UUID) error
	DeleteByQuestion(ctx context.Context, questionID uuid.UUID) error

	ListByQuestion(ctx context.Context, questionID uuid.UUID, sort string, limit, offset int) ([]models.Answer, int64, error)
	ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Answer, int64, error)
	IDsByQuestion(ctx context.Context, questionID uuid.UUID) ([]uuid.UUID, error)
	KeysByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.AnswerKey, error)

	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
