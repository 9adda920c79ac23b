// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/internal/cache"
	dbi "github.com/qolzam/devflow/internal/database/interfaces"
	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/shared/interfaces"
	tagErrors "github.com/qolzam/devflow/tags/errors"
	"github.com/qolzam/devflow/tags/models"
	"github.com/qolzam/devflow/tags/repository"
)

// TagService defines the interface for tag operations
type TagService interface {
	interfaces.TagLinker
	interfaces.TagReader

	ListTags(ctx context.Context, filter *models.TagQueryFilter) (*models.TagsPage, error)
	PopularTags(ctx context.Context, limit int) ([]models.Tag, error)
	GetTag(ctx context.Context, tagID uuid.UUID) (*models.Tag, error)
}

type tagService struct {
	repo  repository.TagRepository
	cache *cache.ListingCache
}

var _ TagService = (*tagService)(nil)

// NewTagService creates a new tag service. listings may be nil.
func NewTagService(repo repository.TagRepository, listings *cache.ListingCache) TagService {
	return &tagService{repo: repo, cache: listings}
}

// NormalizeNames trims names, drops empties and case-insensitive duplicates
// (first spelling wins) and enforces the per-question limits.
func NormalizeNames(names []string) ([]string, error) {
	seen := make(map[string]struct{}, len(names))
	normalized := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if utf8.RuneCountInString(name) > models.MaxTagLength {
			return nil, fmt.Errorf("%w: tag %q exceeds %d characters", tagErrors.ErrInvalidTags, name, models.MaxTagLength)
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		normalized = append(normalized, name)
	}
	if len(normalized) > models.MaxTagsPerQuestion {
		return nil, fmt.Errorf("%w: at most %d tags are allowed", tagErrors.ErrInvalidTags, models.MaxTagsPerQuestion)
	}
	return normalized, nil
}

// LinkTags upserts every name and links it to the question, joining the
// caller's transaction when ctx carries one.
func (s *tagService) LinkTags(ctx context.Context, questionID uuid.UUID, names []string) ([]interfaces.TagRef, error) {
	normalized, err := NormalizeNames(names)
	if err != nil {
		return nil, err
	}

	refs := make([]interfaces.TagRef, 0, len(normalized))
	err = s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		for _, name := range normalized {
			ref, err := s.repo.Upsert(txCtx, name)
			if err != nil {
				return err
			}
			if err := s.repo.LinkQuestion(txCtx, questionID, ref.ID); err != nil {
				return err
			}
			refs = append(refs, ref)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tagErrors.ErrDatabaseOperation, err)
	}

	s.cache.InvalidateListings(ctx)
	return refs, nil
}

func (s *tagService) UnlinkTags(ctx context.Context, questionID uuid.UUID) error {
	if err := s.repo.UnlinkQuestion(ctx, questionID); err != nil {
		return fmt.Errorf("%w: %v", tagErrors.ErrDatabaseOperation, err)
	}
	s.cache.InvalidateListings(ctx)
	return nil
}

func (s *tagService) GetTag(ctx context.Context, tagID uuid.UUID) (*models.Tag, error) {
	tag, err := s.repo.FindByID(ctx, tagID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, tagErrors.ErrTagNotFound
		}
		return nil, fmt.Errorf("%w: %v", tagErrors.ErrDatabaseOperation, err)
	}
	return tag, nil
}

func (s *tagService) GetTagRef(ctx context.Context, tagID uuid.UUID) (*interfaces.TagRef, error) {
	tag, err := s.GetTag(ctx, tagID)
	if errors.Is(err, tagErrors.ErrTagNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &interfaces.TagRef{ID: tag.ID, Name: tag.Name}, nil
}

func (s *tagService) ListTags(ctx context.Context, filter *models.TagQueryFilter) (*models.TagsPage, error) {
	if filter == nil {
		filter = &models.TagQueryFilter{}
	}
	page := dbi.NewPagination(filter.Page, filter.PageSize, dbi.DefaultPageSize)
	sortKey := filter.NormalizedFilter()

	key := s.cache.Key("list", map[string]interface{}{
		"q":        strings.TrimSpace(filter.Search),
		"filter":   sortKey,
		"page":     page.Page,
		"pageSize": page.PageSize,
	})
	var cached models.TagsPage
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	tags, total, err := s.repo.List(ctx, filter.Search, sortKey, page.PageSize, page.Offset())
	if err != nil {
		log.ErrorWithContext(ctx, "list tags: %v", err)
		return nil, fmt.Errorf("%w: %v", tagErrors.ErrDatabaseOperation, err)
	}

	result := &models.TagsPage{Tags: tags, IsNext: page.IsNext(total, len(tags))}
	s.cache.Put(ctx, key, result)
	return result, nil
}

func (s *tagService) PopularTags(ctx context.Context, limit int) ([]models.Tag, error) {
	if limit <= 0 {
		limit = models.DefaultPopularLimit
	}
	if limit > models.MaxPopularLimit {
		limit = models.MaxPopularLimit
	}

	key := s.cache.Key("popular", map[string]interface{}{"limit": limit})
	var cached []models.Tag
	if s.cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	tags, err := s.repo.Popular(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", tagErrors.ErrDatabaseOperation, err)
	}
	s.cache.Put(ctx, key, tags)
	return tags, nil
}
