package interfaces

import (
	"context"

	"github.com/gofrs/uuid"
)

// AnswerCascader removes the answers of a question together with their votes
// and interaction records. The answers service implements it.
type AnswerCascader interface {
	DeleteAnswersForQuestion(ctx context.Context, questionID uuid.UUID) error
}

// AuthoredContentRemover deletes everything a user authored, cascading like
// an explicit delete would. Questions and answers services implement it.
type AuthoredContentRemover interface {
	RemoveContentByAuthor(ctx context.Context, authorID uuid.UUID) error
}

// AnswerCounter keeps questions.answer_count in step with the answers table.
// The questions repository implements it; the error wraps sql.ErrNoRows when
// the question does not exist.
type AnswerCounter interface {
	AdjustAnswerCount(ctx context.Context, questionID uuid.UUID, delta int) error
}
