package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/shared/interfaces"
)

// MockCollaborators backs the vote retractor and the listing invalidators.
type MockCollaborators struct {
	mock.Mock
}

var (
	_ interfaces.VoteRetractor      = (*MockCollaborators)(nil)
	_ interfaces.ListingInvalidator = (*MockCollaborators)(nil)
)

func (m *MockCollaborators) RetractVotesByUser(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
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

// MockContentRemover stands in for the questions or answers service.
type MockContentRemover struct {
	mock.Mock
}

func (m *MockContentRemover) RemoveContentByAuthor(ctx context.Context, authorID uuid.UUID) error {
	args := m.Called(ctx, authorID)
	return args.Error(0)
}
