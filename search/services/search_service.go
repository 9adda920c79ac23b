// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/qolzam/devflow/internal/pkg/log"
	searchErrors "github.com/qolzam/devflow/search/errors"
	"github.com/qolzam/devflow/search/models"
	"github.com/qolzam/devflow/search/repository"
	"golang.org/x/sync/errgroup"
)

// SearchService runs the global search box.
type SearchService interface {
	Search(ctx context.Context, query *models.SearchQuery) ([]models.Result, error)
}

type searchService struct {
	repo repository.SearchRepository
}

// NewSearchService creates a new search service
func NewSearchService(repo repository.SearchRepository) SearchService {
	return &searchService{repo: repo}
}

// Search queries every kind in scope concurrently and concatenates the hits
// in kind order. A blank query returns no results.
func (s *searchService) Search(ctx context.Context, query *models.SearchQuery) ([]models.Result, error) {
	if query == nil {
		query = &models.SearchQuery{}
	}
	text := strings.TrimSpace(query.Query)
	if text == "" {
		return []models.Result{}, nil
	}
	if utf8.RuneCountInString(text) > models.MaxQueryLength {
		return nil, fmt.Errorf("%w: query longer than %d characters", searchErrors.ErrInvalidQuery, models.MaxQueryLength)
	}

	kinds, limit := query.Scope()
	perKind := make([][]models.Result, len(kinds))

	g, gctx := errgroup.WithContext(ctx)
	for i, kind := range kinds {
		g.Go(func() error {
			results, err := s.repo.Search(gctx, kind, text, limit)
			if err != nil {
				return err
			}
			perKind[i] = results
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		log.ErrorWithContext(ctx, "search %q: %v", text, err)
		return nil, fmt.Errorf("%w: %v", searchErrors.ErrDatabaseOperation, err)
	}

	results := []models.Result{}
	for _, hits := range perKind {
		results = append(results, hits...)
	}
	return results, nil
}
