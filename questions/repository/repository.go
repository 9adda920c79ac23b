// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/questions/models"
	"github.com/qolzam/devflow/shared/interfaces"
)

// ListParams narrows and orders a question listing. Zero ids mean no constraint.
type ListParams struct {
	Search   string
	Sort     string
	TagID    uuid.UUID
	AuthorID uuid.UUID
	Limit    int
	Offset   int
}

// QuestionRepository defines the data access contract for questions.
type QuestionRepository interface {
	interfaces.VoteTarget
	interfaces.AnswerCounter

	Create(ctx context.Context, question *models.Question) error
	// FindByID returns an error wrapping sql.ErrNoRows when the question does not exist.
	FindByID(ctx context.Context, questionID uuid.UUID) (*models.Question, error)
	Update(ctx context.Context, questionID uuid.UUID, title, content string) error
	Delete(ctx context.Context, questionID uuid.UUID) error

	List(ctx context.Context, params ListParams) ([]models.Question, int64, error)
	Hot(ctx context.Context, limit int) ([]models.Question, error)
	TagsFor(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]interfaces.TagRef, error)
	IDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error)

	// IncrementViews returns the new view count.
	IncrementViews(ctx context.Context, questionID uuid.UUID) (int64, error)

	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
