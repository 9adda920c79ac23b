// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"

	"github.com/qolzam/devflow/search/models"
)

// SearchRepository runs a substring search over one kind of row.
type SearchRepository interface {
	Search(ctx context.Context, kind, query string, limit int) ([]models.Result, error)
}
