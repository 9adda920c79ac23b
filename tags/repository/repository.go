// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/tags/models"
)

// TagRepository defines the data access contract for tags and question links.
type TagRepository interface {
	// Upsert returns the tag whose name matches case-insensitively, creating it
	// with the given spelling when absent.
	Upsert(ctx context.Context, name string) (interfaces.TagRef, error)

	// LinkQuestion is idempotent: an existing link is left untouched.
	LinkQuestion(ctx context.Context, questionID, tagID uuid.UUID) error
	UnlinkQuestion(ctx context.Context, questionID uuid.UUID) error

	FindByID(ctx context.Context, tagID uuid.UUID) (*models.Tag, error)
	List(ctx context.Context, search, filter string, limit, offset int) ([]models.Tag, int64, error)
	Popular(ctx context.Context, limit int) ([]models.Tag, error)

	WithTransaction(ctx context.Context, fn func(context.Context) error) error
}
