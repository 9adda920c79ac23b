package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/shared/interfaces"
)

// MockVoteTarget stands in for the question or answer repository.
type MockVoteTarget struct {
	mock.Mock
}

var _ interfaces.VoteTarget = (*MockVoteTarget)(nil)

func (m *MockVoteTarget) LockVoteTarget(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *MockVoteTarget) ApplyVoteDelta(ctx context.Context, id uuid.UUID, upDelta, downDelta int) (int, int, error) {
	args := m.Called(ctx, id, upDelta, downDelta)
	return args.Int(0), args.Int(1), args.Error(2)
}

// MockReputation records reputation deltas.
type MockReputation struct {
	mock.Mock
}

var _ interfaces.ReputationAdjuster = (*MockReputation)(nil)

func (m *MockReputation) AdjustReputation(ctx context.Context, userID uuid.UUID, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}
