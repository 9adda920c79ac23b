package services

import (
	"context"
	"errors"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	interactionErrors "github.com/qolzam/devflow/interactions/errors"
	"github.com/qolzam/devflow/interactions/models"
	"github.com/qolzam/devflow/shared/interfaces"
)

func TestRecordInteraction(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV4())
	questionID := uuid.Must(uuid.NewV4())

	t.Run("writes known actions", func(t *testing.T) {
		repo := new(MockInteractionRepository)
		svc := NewInteractionService(repo)
		event := interfaces.InteractionEvent{UserID: userID, Action: interfaces.ActionViewQuestion, QuestionID: questionID}
		repo.On("Insert", mock.Anything, mock.MatchedBy(func(id uuid.UUID) bool { return id != uuid.Nil }), event).Return(nil)

		require.NoError(t, svc.RecordInteraction(ctx, event))
		repo.AssertExpectations(t)
	})

	t.Run("rejects unknown action and anonymous user", func(t *testing.T) {
		repo := new(MockInteractionRepository)
		svc := NewInteractionService(repo)

		err := svc.RecordInteraction(ctx, interfaces.InteractionEvent{UserID: userID, Action: "bookmark"})
		assert.ErrorIs(t, err, interactionErrors.ErrInvalidInteraction)
		err = svc.RecordInteraction(ctx, interfaces.InteractionEvent{Action: interfaces.ActionAskQuestion})
		assert.ErrorIs(t, err, interactionErrors.ErrInvalidInteraction)
		repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("wraps repository failures", func(t *testing.T) {
		repo := new(MockInteractionRepository)
		svc := NewInteractionService(repo)
		repo.On("Insert", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("connection reset"))

		err := svc.RecordInteraction(ctx, interfaces.InteractionEvent{UserID: userID, Action: interfaces.ActionAskQuestion})
		assert.ErrorIs(t, err, interactionErrors.ErrDatabaseOperation)
	})
}

func TestDeleteDelegates(t *testing.T) {
	repo := new(MockInteractionRepository)
	svc := NewInteractionService(repo)
	questionID := uuid.Must(uuid.NewV4())
	answerIDs := []uuid.UUID{uuid.Must(uuid.NewV4())}

	repo.On("DeleteForQuestion", mock.Anything, questionID).Return(nil)
	repo.On("DeleteForAnswers", mock.Anything, answerIDs).Return(nil)

	require.NoError(t, svc.DeleteForQuestion(context.Background(), questionID))
	require.NoError(t, svc.DeleteForAnswers(context.Background(), answerIDs))
	repo.AssertExpectations(t)
}

func TestTopTags_Limit(t *testing.T) {
	userID := uuid.Must(uuid.NewV4())
	cases := map[int]int{0: models.DefaultTopTags, -4: models.DefaultTopTags, 7: 7, 500: models.MaxTopTags}

	for requested, expected := range cases {
		repo := new(MockInteractionRepository)
		svc := NewInteractionService(repo)
		repo.On("TopTags", mock.Anything, userID, expected).Return([]models.TopTag{{Name: "go", Count: 2}}, nil)

		tags, err := svc.TopTags(context.Background(), userID, &models.TopTagsQuery{Limit: requested})
		require.NoError(t, err)
		assert.Len(t, tags, 1)
		repo.AssertExpectations(t)
	}
}
