package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/shared/interfaces"
)

// MockCollaborators backs every field of Dependencies.
type MockCollaborators struct {
	mock.Mock
}

var (
	_ interfaces.AnswerCounter       = (*MockCollaborators)(nil)
	_ interfaces.InteractionRecorder = (*MockCollaborators)(nil)
	_ interfaces.VoteStateReader     = (*MockCollaborators)(nil)
	_ interfaces.VoteCleaner         = (*MockCollaborators)(nil)
	_ interfaces.ReputationAdjuster  = (*MockCollaborators)(nil)
	_ interfaces.ListingInvalidator  = (*MockCollaborators)(nil)
)

func (m *MockCollaborators) Deps() Dependencies {
	return Dependencies{
		Questions:    m,
		Interactions: m,
		VoteStates:   m,
		VoteCleaner:  m,
		Reputation:   m,
		Invalidators: []interfaces.ListingInvalidator{m},
	}
}

func (m *MockCollaborators) AdjustAnswerCount(ctx context.Context, questionID uuid.UUID, delta int) error {
	args := m.Called(ctx, questionID, delta)
	return args.Error(0)
}

func (m *MockCollaborators) RecordInteraction(ctx context.Context, event interfaces.InteractionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCollaborators) DeleteForQuestion(ctx context.Context, questionID uuid.UUID) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockCollaborators) DeleteForAnswers(ctx context.Context, answerIDs []uuid.UUID) error {
	args := m.Called(ctx, answerIDs)
	return args.Error(0)
}

func (m *MockCollaborators) VoteStates(ctx context.Context, targetType string, targetIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, targetType, targetIDs, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

func (m *MockCollaborators) DeleteVotesForTargets(ctx context.Context, targetType string, targetIDs []uuid.UUID) error {
	args := m.Called(ctx, targetType, targetIDs)
	return args.Error(0)
}

func (m *MockCollaborators) AdjustReputation(ctx context.Context, userID uuid.UUID, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

// InvalidateListings records the call only when an expectation was set.
func (m *MockCollaborators) InvalidateListings(ctx context.Context) {
	for _, call := range m.ExpectedCalls {
		if call.Method == "InvalidateListings" {
			m.Called(ctx)
			return
		}
	}
}
