// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/users/models"
)

// ErrDuplicateClerkID is returned by Create when the external id is taken.
var ErrDuplicateClerkID = errors.New("clerk id already registered")

// ListParams narrows a user or saved-question listing.
type ListParams struct {
	Search string
	Sort   string
	Limit  int
	Offset int
}

// UserRepository defines the data access operations for users and their
// saved questions. Lookups that miss return an error wrapping sql.ErrNoRows.
type UserRepository interface {
	interfaces.ReputationAdjuster
	interfaces.SavedChecker

	Create(ctx context.Context, user *models.User) error
	UpdateIdentity(ctx context.Context, identity *models.IdentityUser) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error)
	FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
	FindByClerkID(ctx context.Context, clerkID string) (*models.User, error)
	Delete(ctx context.Context, userID uuid.UUID) error
	List(ctx context.Context, params ListParams) ([]models.User, int64, error)

	Stats(ctx context.Context, userID uuid.UUID) (*models.Stats, error)

	// ToggleSaved removes the saved entry if present, otherwise adds it, and
	// reports the new state. A missing question wraps sql.ErrNoRows.
	ToggleSaved(ctx context.Context, userID, questionID uuid.UUID) (bool, error)
	ListSaved(ctx context.Context, userID uuid.UUID, params ListParams) ([]models.SavedQuestion, int64, error)

	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
