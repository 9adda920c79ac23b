package interfaces

import (
	"context"

	"github.com/gofrs/uuid"
)

// Interaction actions.
const (
	ActionAskQuestion  = "ask_question"
	ActionViewQuestion = "view_question"
	ActionPostAnswer   = "post_answer"
)

// InteractionEvent is one append-only activity record.
type InteractionEvent struct {
	UserID     uuid.UUID
	Action     string
	QuestionID uuid.UUID
	AnswerID   *uuid.UUID
	TagIDs     []uuid.UUID
}

// InteractionRecorder writes and prunes activity records.
// The interactions service implements it.
type InteractionRecorder interface {
	RecordInteraction(ctx context.Context, event InteractionEvent) error

	// DeleteForQuestion removes every record that references the question.
	DeleteForQuestion(ctx context.Context, questionID uuid.UUID) error

	DeleteForAnswers(ctx context.Context, answerIDs []uuid.UUID) error
}
