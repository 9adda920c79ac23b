package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/shared/interfaces"
)

// MockCollaborators implements every cross-domain contract the question
// service depends on, so one mock can back all of Dependencies.
type MockCollaborators struct {
	mock.Mock
}

var (
	_ interfaces.TagLinker           = (*MockCollaborators)(nil)
	_ interfaces.TagReader           = (*MockCollaborators)(nil)
	_ interfaces.InteractionRecorder = (*MockCollaborators)(nil)
	_ interfaces.AnswerCascader      = (*MockCollaborators)(nil)
	_ interfaces.VoteStateReader     = (*MockCollaborators)(nil)
	_ interfaces.VoteCleaner         = (*MockCollaborators)(nil)
	_ interfaces.ReputationAdjuster  = (*MockCollaborators)(nil)
	_ interfaces.SavedChecker        = (*MockCollaborators)(nil)
	_ interfaces.ListingInvalidator  = (*MockCollaborators)(nil)
)

// Deps returns Dependencies with every field backed by m.
func (m *MockCollaborators) Deps() Dependencies {
	return Dependencies{
		Tags:         m,
		TagReader:    m,
		Interactions: m,
		Answers:      m,
		VoteStates:   m,
		VoteCleaner:  m,
		Reputation:   m,
		Saved:        m,
		Invalidators: []interfaces.ListingInvalidator{m},
	}
}

func (m *MockCollaborators) LinkTags(ctx context.Context, questionID uuid.UUID, names []string) ([]interfaces.TagRef, error) {
	args := m.Called(ctx, questionID, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]interfaces.TagRef), args.Error(1)
}

func (m *MockCollaborators) UnlinkTags(ctx context.Context, questionID uuid.UUID) error {
	args := m.Called(ctx, questionID)
	return args.Error(0)
}

func (m *MockCollaborators) GetTagRef(ctx context.Context, tagID uuid.UUID) (*interfaces.TagRef, error) {
	args := m.Called(ctx, tagID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*interfaces.TagRef), args.Error(1)
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

func (m *MockCollaborators) DeleteAnswersForQuestion(ctx context.Context, questionID uuid.UUID) error {
	args := m.Called(ctx, questionID)
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

func (m *MockCollaborators) IsSaved(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, questionID)
	return args.Bool(0), args.Error(1)
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
