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
	"net/url"
	"strings"
	"unicode/utf8"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/internal/cache"
	dbi "github.com/qolzam/devflow/internal/database/interfaces"
	"github.com/qolzam/devflow/internal/pkg/log"
	"github.com/qolzam/devflow/internal/types"
	"github.com/qolzam/devflow/shared/interfaces"
	userErrors "github.com/qolzam/devflow/users/errors"
	"github.com/qolzam/devflow/users/models"
	"github.com/qolzam/devflow/users/repository"
	"github.com/qolzam/devflow/users/reputation"
)

// UserService defines the interface for user, profile and collection operations
type UserService interface {
	ListUsers(ctx context.Context, filter *models.UserQueryFilter) (*models.UsersPage, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetMe(ctx context.Context, user *types.UserContext) (*models.User, error)
	UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest, user *types.UserContext) (*models.User, error)

	ToggleSaved(ctx context.Context, questionID uuid.UUID, user *types.UserContext) (*models.SaveResult, error)
	ListSaved(ctx context.Context, filter *models.SavedQueryFilter, user *types.UserContext) (*models.SavedPage, error)

	// Identity provider events.
	CreateFromIdentity(ctx context.Context, identity *models.IdentityUser) (*models.User, error)
	UpdateFromIdentity(ctx context.Context, identity *models.IdentityUser) (*models.User, error)
	DeleteFromIdentity(ctx context.Context, clerkID string) error
}

// Dependencies are the collaborators owned by other domains.
type Dependencies struct {
	Votes     interfaces.VoteRetractor
	Questions interfaces.AuthoredContentRemover
	Answers   interfaces.AuthoredContentRemover
	// Invalidators are listing caches of other domains that embed user rows.
	Invalidators []interfaces.ListingInvalidator
}

type userService struct {
	repo  repository.UserRepository
	deps  Dependencies
	cache *cache.ListingCache
}

var _ UserService = (*userService)(nil)

// NewUserService creates a new user service. listings may be nil.
func NewUserService(repo repository.UserRepository, deps Dependencies, listings *cache.ListingCache) UserService {
	return &userService{repo: repo, deps: deps, cache: listings}
}

func (s *userService) invalidate(ctx context.Context) {
	s.cache.InvalidateListings(ctx)
	for _, inv := range s.deps.Invalidators {
		inv.InvalidateListings(ctx)
	}
}

func wrap(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, userErrors.ErrUserNotFound) ||
		errors.Is(err, userErrors.ErrQuestionNotFound) ||
		errors.Is(err, userErrors.ErrInvalidProfileData) {
		return err
	}
	if errors.Is(err, repository.ErrDuplicateClerkID) {
		return fmt.Errorf("%w: %v", userErrors.ErrUserAlreadyExists, err)
	}
	if errors.Is(err, sql.ErrNoRows) {
		return userErrors.ErrUserNotFound
	}
	return fmt.Errorf("%w: %v", userErrors.ErrDatabaseOperation, err)
}

func (s *userService) ListUsers(ctx context.Context, filter *models.UserQueryFilter) (*models.UsersPage, error) {
	if filter == nil {
		filter = &models.UserQueryFilter{}
	}
	page := dbi.NewPagination(filter.Page, filter.PageSize, dbi.DefaultPageSize)
	params := repository.ListParams{
		Search: strings.TrimSpace(filter.Search),
		Sort:   filter.NormalizedFilter(),
		Limit:  page.PageSize,
		Offset: page.Offset(),
	}

	key := s.cache.Key("list", map[string]interface{}{
		"q":        params.Search,
		"filter":   params.Sort,
		"page":     page.Page,
		"pageSize": page.PageSize,
	})
	var cached models.UsersPage
	if s.cache.Get(ctx, key, &cached) {
		return &cached, nil
	}

	users, total, err := s.repo.List(ctx, params)
	if err != nil {
		log.ErrorWithContext(ctx, "list users: %v", err)
		return nil, wrap(err)
	}
	result := &models.UsersPage{Users: users, IsNext: page.IsNext(total, len(users))}
	s.cache.Put(ctx, key, result)
	return result, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, wrap(err)
	}
	stats, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return nil, wrap(err)
	}
	return &models.Profile{
		User:   *user,
		Stats:  *stats,
		Badges: reputation.AssignBadges(stats.Criteria()),
	}, nil
}

func (s *userService) GetMe(ctx context.Context, user *types.UserContext) (*models.User, error) {
	if user == nil {
		return nil, userErrors.ErrInvalidUserContext
	}
	me, err := s.repo.FindByID(ctx, user.UserID)
	if err != nil {
		return nil, wrap(err)
	}
	return me, nil
}

func checkLength(field string, value *string, min, max int) error {
	if value == nil {
		return nil
	}
	*value = strings.TrimSpace(*value)
	if n := utf8.RuneCountInString(*value); n < min || n > max {
		return fmt.Errorf("%w: %s must be between %d and %d characters", userErrors.ErrInvalidProfileData, field, min, max)
	}
	return nil
}

func validateProfile(req *models.UpdateProfileRequest) error {
	if err := checkLength("name", req.Name, 1, models.MaxNameLength); err != nil {
		return err
	}
	if err := checkLength("username", req.Username, 1, models.MaxUsernameLength); err != nil {
		return err
	}
	if err := checkLength("bio", req.Bio, 0, models.MaxBioLength); err != nil {
		return err
	}
	if err := checkLength("location", req.Location, 0, models.MaxLocationLength); err != nil {
		return err
	}
	if err := checkLength("portfolio", req.Portfolio, 0, models.MaxPortfolioURL); err != nil {
		return err
	}
	if req.Portfolio != nil && *req.Portfolio != "" {
		u, err := url.Parse(*req.Portfolio)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: portfolio must be an http(s) URL", userErrors.ErrInvalidProfileData)
		}
	}
	return nil
}

func (s *userService) UpdateProfile(ctx context.Context, req *models.UpdateProfileRequest, user *types.UserContext) (*models.User, error) {
	if user == nil {
		return nil, userErrors.ErrInvalidUserContext
	}
	if req == nil {
		return nil, fmt.Errorf("%w: request body is required", userErrors.ErrInvalidProfileData)
	}
	if err := validateProfile(req); err != nil {
		return nil, err
	}

	updated, err := s.repo.UpdateProfile(ctx, user.UserID, req)
	if err != nil {
		log.ErrorWithContext(ctx, "update profile %s: %v", user.UserID, err)
		return nil, wrap(err)
	}
	s.invalidate(ctx)
	return updated, nil
}

func (s *userService) ToggleSaved(ctx context.Context, questionID uuid.UUID, user *types.UserContext) (*models.SaveResult, error) {
	if user == nil {
		return nil, userErrors.ErrInvalidUserContext
	}
	saved, err := s.repo.ToggleSaved(ctx, user.UserID, questionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, userErrors.ErrQuestionNotFound
		}
		return nil, wrap(err)
	}
	return &models.SaveResult{IsSaved: saved}, nil
}

// ListSaved is per caller and never cached.
func (s *userService) ListSaved(ctx context.Context, filter *models.SavedQueryFilter, user *types.UserContext) (*models.SavedPage, error) {
	if user == nil {
		return nil, userErrors.ErrInvalidUserContext
	}
	if filter == nil {
		filter = &models.SavedQueryFilter{}
	}
	page := dbi.NewPagination(filter.Page, filter.PageSize, dbi.DefaultPageSize)
	questions, total, err := s.repo.ListSaved(ctx, user.UserID, repository.ListParams{
		Search: strings.TrimSpace(filter.Search),
		Sort:   filter.NormalizedFilter(),
		Limit:  page.PageSize,
		Offset: page.Offset(),
	})
	if err != nil {
		log.ErrorWithContext(ctx, "list saved questions: %v", err)
		return nil, wrap(err)
	}
	return &models.SavedPage{Questions: questions, IsNext: page.IsNext(total, len(questions))}, nil
}

func validateIdentity(identity *models.IdentityUser) error {
	if identity == nil || strings.TrimSpace(identity.ClerkID) == "" {
		return fmt.Errorf("%w: external user id is required", userErrors.ErrInvalidProfileData)
	}
	identity.Name = strings.TrimSpace(identity.Name)
	return nil
}

func (s *userService) CreateFromIdentity(ctx context.Context, identity *models.IdentityUser) (*models.User, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}
	userID, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}
	user := &models.User{
		ID:       userID,
		ClerkID:  identity.ClerkID,
		Name:     identity.Name,
		Username: identity.Username,
		Email:    identity.Email,
		Picture:  identity.Picture,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		log.ErrorWithContext(ctx, "create user %s: %v", identity.ClerkID, err)
		return nil, wrap(err)
	}
	log.InfoWithContext(ctx, "user %s created for %s", user.ID, user.ClerkID)
	s.invalidate(ctx)
	return user, nil
}

func (s *userService) UpdateFromIdentity(ctx context.Context, identity *models.IdentityUser) (*models.User, error) {
	if err := validateIdentity(identity); err != nil {
		return nil, err
	}
	user, err := s.repo.UpdateIdentity(ctx, identity)
	if err != nil {
		return nil, wrap(err)
	}
	s.invalidate(ctx)
	return user, nil
}

// DeleteFromIdentity removes the user and everything they produced in one
// transaction: their votes are retracted first so counters and the other
// authors' reputation roll back, then their questions (with every answer on
// them) and their remaining answers go. Saved entries and interactions
// cascade with the user row.
func (s *userService) DeleteFromIdentity(ctx context.Context, clerkID string) error {
	if strings.TrimSpace(clerkID) == "" {
		return fmt.Errorf("%w: external user id is required", userErrors.ErrInvalidProfileData)
	}

	err := s.repo.WithTransaction(ctx, func(txCtx context.Context) error {
		user, err := s.repo.FindByClerkID(txCtx, clerkID)
		if err != nil {
			return err
		}
		if err := s.deps.Votes.RetractVotesByUser(txCtx, user.ID); err != nil {
			return err
		}
		if err := s.deps.Questions.RemoveContentByAuthor(txCtx, user.ID); err != nil {
			return err
		}
		if err := s.deps.Answers.RemoveContentByAuthor(txCtx, user.ID); err != nil {
			return err
		}
		return s.repo.Delete(txCtx, user.ID)
	})
	if err != nil {
		log.ErrorWithContext(ctx, "delete user %s: %v", clerkID, err)
		return wrap(err)
	}
	log.InfoWithContext(ctx, "user %s deleted", clerkID)
	s.invalidate(ctx)
	return nil
}
