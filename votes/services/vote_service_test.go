package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/devflow/internal/types"
	"github.com/qolzam/devflow/shared/interfaces"
	voteErrors "github.com/qolzam/devflow/votes/errors"
	"github.com/qolzam/devflow/votes/models"
)

var notFound = fmt.Errorf("vote not found: %w", sql.ErrNoRows)

type fixture struct {
	repo      *MockVoteRepository
	questions *MockVoteTarget
	answers   *MockVoteTarget
	rep       *MockReputation
	svc       VoteService
}

func newFixture() *fixture {
	f := &fixture{
		repo:      new(MockVoteRepository),
		questions: new(MockVoteTarget),
		answers:   new(MockVoteTarget),
		rep:       new(MockReputation),
	}
	f.svc = NewVoteService(f.repo, Dependencies{
		Targets: map[string]interfaces.VoteTarget{
			interfaces.TargetQuestion: f.questions,
			interfaces.TargetAnswer:   f.answers,
		},
		Reputation: f.rep,
	})
	return f
}

func newUser() *types.UserContext {
	return &types.UserContext{UserID: uuid.Must(uuid.NewV4())}
}

func TestVoteService_Vote(t *testing.T) {
	ctx := context.Background()
	targetID := uuid.Must(uuid.NewV4())
	authorID := uuid.Must(uuid.NewV4())

	t.Run("New Vote - Up on question", func(t *testing.T) {
		f := newFixture()
		user := newUser()

		f.questions.On("LockVoteTarget", mock.Anything, targetID).Return(authorID, nil)
		f.repo.On("Find", mock.Anything, interfaces.TargetQuestion, targetID, user.UserID).Return(nil, notFound)
		f.repo.On("Upsert", mock.Anything, &models.Vote{
			TargetType: interfaces.TargetQuestion,
			TargetID:   targetID,
			UserID:     user.UserID,
			VoteType:   interfaces.VoteUp,
		}).Return(nil)
		f.questions.On("ApplyVoteDelta", mock.Anything, targetID, 1, 0).Return(4, 1, nil)
		f.rep.On("AdjustReputation", mock.Anything, user.UserID, 1).Return(nil)
		f.rep.On("AdjustReputation", mock.Anything, authorID, 10).Return(nil)

		result, err := f.svc.Vote(ctx, interfaces.TargetQuestion, targetID, interfaces.VoteUp, user)
		require.NoError(t, err)
		assert.Equal(t, &models.VoteResult{UpVotes: 4, DownVotes: 1, HasUpVoted: true}, result)
		f.repo.AssertExpectations(t)
		f.questions.AssertExpectations(t)
		f.rep.AssertExpectations(t)
	})

	t.Run("Toggle Off - Down on answer", func(t *testing.T) {
		f := newFixture()
		user := newUser()

		f.answers.On("LockVoteTarget", mock.Anything, targetID).Return(authorID, nil)
		f.repo.On("Find", mock.Anything, interfaces.TargetAnswer, targetID, user.UserID).
			Return(&models.Vote{VoteType: interfaces.VoteDown}, nil)
		f.repo.On("Delete", mock.Anything, interfaces.TargetAnswer, targetID, user.UserID).Return(true, interfaces.VoteDown, nil)
		f.answers.On("ApplyVoteDelta", mock.Anything, targetID, 0, -1).Return(0, 0, nil)
		f.rep.On("AdjustReputation", mock.Anything, user.UserID, 2).Return(nil)
		f.rep.On("AdjustReputation", mock.Anything, authorID, 10).Return(nil)

		result, err := f.svc.Vote(ctx, interfaces.TargetAnswer, targetID, interfaces.VoteDown, user)
		require.NoError(t, err)
		assert.False(t, result.HasUpVoted)
		assert.False(t, result.HasDownVoted)
		f.repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
		f.rep.AssertExpectations(t)
	})

	t.Run("Switch Vote - Up to Down on question", func(t *testing.T) {
		f := newFixture()
		user := newUser()

		f.questions.On("LockVoteTarget", mock.Anything, targetID).Return(authorID, nil)
		f.repo.On("Find", mock.Anything, interfaces.TargetQuestion, targetID, user.UserID).
			Return(&models.Vote{VoteType: interfaces.VoteUp}, nil)
		f.repo.On("Upsert", mock.Anything, mock.MatchedBy(func(v *models.Vote) bool {
			return v.VoteType == interfaces.VoteDown
		})).Return(nil)
		f.questions.On("ApplyVoteDelta", mock.Anything, targetID, -1, 1).Return(0, 1, nil)
		f.rep.On("AdjustReputation", mock.Anything, user.UserID, -2).Return(nil)
		f.rep.On("AdjustReputation", mock.Anything, authorID, -12).Return(nil)

		result, err := f.svc.Vote(ctx, interfaces.TargetQuestion, targetID, interfaces.VoteDown, user)
		require.NoError(t, err)
		assert.True(t, result.HasDownVoted)
		assert.Equal(t, 1, result.DownVotes)
		f.rep.AssertExpectations(t)
	})

	t.Run("Self Vote skips author delta", func(t *testing.T) {
		f := newFixture()
		user := newUser()

		f.answers.On("LockVoteTarget", mock.Anything, targetID).Return(user.UserID, nil)
		f.repo.On("Find", mock.Anything, interfaces.TargetAnswer, targetID, user.UserID).Return(nil, notFound)
		f.repo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		f.answers.On("ApplyVoteDelta", mock.Anything, targetID, 1, 0).Return(1, 0, nil)
		f.rep.On("AdjustReputation", mock.Anything, user.UserID, 2).Return(nil).Once()

		_, err := f.svc.Vote(ctx, interfaces.TargetAnswer, targetID, interfaces.VoteUp, user)
		require.NoError(t, err)
		f.rep.AssertNumberOfCalls(t, "AdjustReputation", 1)
	})

	t.Run("Target Not Found", func(t *testing.T) {
		f := newFixture()
		f.questions.On("LockVoteTarget", mock.Anything, targetID).Return(uuid.Nil, fmt.Errorf("failed to lock question: %w", sql.ErrNoRows))

		_, err := f.svc.Vote(ctx, interfaces.TargetQuestion, targetID, interfaces.VoteUp, newUser())
		assert.ErrorIs(t, err, voteErrors.ErrTargetNotFound)
		f.repo.AssertNotCalled(t, "Find", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Invalid Input", func(t *testing.T) {
		f := newFixture()

		_, err := f.svc.Vote(ctx, interfaces.TargetQuestion, targetID, 3, newUser())
		assert.ErrorIs(t, err, voteErrors.ErrInvalidVoteType)

		_, err = f.svc.Vote(ctx, "comment", targetID, interfaces.VoteUp, newUser())
		assert.ErrorIs(t, err, voteErrors.ErrInvalidTarget)

		_, err = f.svc.Vote(ctx, interfaces.TargetQuestion, targetID, interfaces.VoteUp, nil)
		assert.ErrorIs(t, err, voteErrors.ErrInvalidUserContext)
	})

	t.Run("Repository Error", func(t *testing.T) {
		f := newFixture()
		user := newUser()
		f.questions.On("LockVoteTarget", mock.Anything, targetID).Return(authorID, nil)
		f.repo.On("Find", mock.Anything, interfaces.TargetQuestion, targetID, user.UserID).Return(nil, errors.New("connection reset"))

		_, err := f.svc.Vote(ctx, interfaces.TargetQuestion, targetID, interfaces.VoteUp, user)
		assert.ErrorIs(t, err, voteErrors.ErrDatabaseOperation)
	})
}

func TestVoteService_RetractVotesByUser(t *testing.T) {
	f := newFixture()
	userID := uuid.Must(uuid.NewV4())
	authorID := uuid.Must(uuid.NewV4())
	q, a, gone := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	f.repo.On("ListByUser", mock.Anything, userID).Return([]models.Vote{
		{TargetType: interfaces.TargetQuestion, TargetID: q, VoteType: interfaces.VoteDown},
		{TargetType: interfaces.TargetAnswer, TargetID: a, VoteType: interfaces.VoteUp},
		{TargetType: interfaces.TargetAnswer, TargetID: gone, VoteType: interfaces.VoteUp},
	}, nil)
	f.questions.On("LockVoteTarget", mock.Anything, q).Return(authorID, nil)
	f.questions.On("ApplyVoteDelta", mock.Anything, q, 0, -1).Return(0, 0, nil)
	f.answers.On("LockVoteTarget", mock.Anything, a).Return(authorID, nil)
	f.answers.On("ApplyVoteDelta", mock.Anything, a, -1, 0).Return(0, 0, nil)
	f.answers.On("LockVoteTarget", mock.Anything, gone).Return(uuid.Nil, sql.ErrNoRows)
	f.rep.On("AdjustReputation", mock.Anything, authorID, 2).Return(nil)
	f.rep.On("AdjustReputation", mock.Anything, authorID, -10).Return(nil)
	f.repo.On("DeleteByUser", mock.Anything, userID).Return(nil)

	require.NoError(t, f.svc.RetractVotesByUser(context.Background(), userID))
	f.repo.AssertExpectations(t)
	f.rep.AssertExpectations(t)
	f.rep.AssertNotCalled(t, "AdjustReputation", mock.Anything, userID, mock.Anything)
}

func TestVoteService_Delegates(t *testing.T) {
	f := newFixture()
	ids := []uuid.UUID{uuid.Must(uuid.NewV4())}
	userID := uuid.Must(uuid.NewV4())

	f.repo.On("StatesFor", mock.Anything, interfaces.TargetAnswer, ids, userID).Return(map[uuid.UUID]int{ids[0]: interfaces.VoteUp}, nil)
	f.repo.On("DeleteForTargets", mock.Anything, interfaces.TargetQuestion, ids).Return(nil)

	states, err := f.svc.VoteStates(context.Background(), interfaces.TargetAnswer, ids, userID)
	require.NoError(t, err)
	assert.Equal(t, interfaces.VoteUp, states[ids[0]])
	require.NoError(t, f.svc.DeleteVotesForTargets(context.Background(), interfaces.TargetQuestion, ids))
}
