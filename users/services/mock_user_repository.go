package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/devflow/users/models"
	"github.com/qolzam/devflow/users/repository"
)

// MockUserRepository is a mock implementation of UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

var _ repository.UserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) userResult(args mock.Arguments) (*models.User, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateIdentity(ctx context.Context, identity *models.IdentityUser) (*models.User, error) {
	return m.userResult(m.Called(ctx, identity))
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {
	return m.userResult(m.Called(ctx, userID, req))
}

func (m *MockUserRepository) FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return m.userResult(m.Called(ctx, userID))
}

func (m *MockUserRepository) FindByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	return m.userResult(m.Called(ctx, clerkID))
}

func (m *MockUserRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, params repository.ListParams) ([]models.User, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) Stats(ctx context.Context, userID uuid.UUID) (*models.Stats, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Stats), args.Error(1)
}

func (m *MockUserRepository) AdjustReputation(ctx context.Context, userID uuid.UUID, delta int) error {
	args := m.Called(ctx, userID, delta)
	return args.Error(0)
}

func (m *MockUserRepository) IsSaved(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, questionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ToggleSaved(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, questionID)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) ListSaved(ctx context.Context, userID uuid.UUID, params repository.ListParams) ([]models.SavedQuestion, int64, error) {
	args := m.Called(ctx, userID, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.SavedQuestion), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}
