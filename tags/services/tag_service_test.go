package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/devflow/internal/cache"
	"github.com/qolzam/devflow/shared/interfaces"
	tagErrors "github.com/qolzam/devflow/tags/errors"
	"github.com/qolzam/devflow/tags/models"
)

func TestNormalizeNames(t *testing.T) {
	names, err := NormalizeNames([]string{" Go ", "", "rust", "go", "RUST", "  "})
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "rust"}, names)

	_, err = NormalizeNames([]string{"a", "b", "c", "d", "e", "f"})
	assert.ErrorIs(t, err, interfaces.ErrInvalidTags)

	_, err = NormalizeNames([]string{strings.Repeat("x", models.MaxTagLength+1)})
	assert.ErrorIs(t, err, interfaces.ErrInvalidTags)

	names, err = NormalizeNames([]string{"a", "A", "b", "c", "d", "e"})
	require.NoError(t, err, "duplicates do not count toward the limit")
	assert.Len(t, names, 5)
}

func TestLinkTags(t *testing.T) {
	ctx := context.Background()
	questionID := uuid.Must(uuid.NewV4())
	goRef := interfaces.TagRef{ID: uuid.Must(uuid.NewV4()), Name: "go"}
	rustRef := interfaces.TagRef{ID: uuid.Must(uuid.NewV4()), Name: "Rust"}

	repo := new(MockTagRepository)
	repo.On("Upsert", mock.Anything, "go").Return(goRef, nil).Once()
	repo.On("Upsert", mock.Anything, "rust").Return(rustRef, nil).Once()
	repo.On("LinkQuestion", mock.Anything, questionID, goRef.ID).Return(nil).Once()
	repo.On("LinkQuestion", mock.Anything, questionID, rustRef.ID).Return(nil).Once()

	svc := NewTagService(repo, nil)
	refs, err := svc.LinkTags(ctx, questionID, []string{"go", "rust", "Go"})
	require.NoError(t, err)
	assert.Equal(t, []interfaces.TagRef{goRef, rustRef}, refs)
	repo.AssertExpectations(t)
}

func TestLinkTags_InvalidNamesNeverReachRepository(t *testing.T) {
	repo := new(MockTagRepository)
	svc := NewTagService(repo, nil)

	_, err := svc.LinkTags(context.Background(), uuid.Must(uuid.NewV4()), []string{"a", "b", "c", "d", "e", "f"})
	require.ErrorIs(t, err, tagErrors.ErrInvalidTags)
	repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestLinkTags_RepositoryFailure(t *testing.T) {
	repo := new(MockTagRepository)
	repo.On("Upsert", mock.Anything, "go").Return(interfaces.TagRef{}, errors.New("connection reset"))
	svc := NewTagService(repo, nil)

	_, err := svc.LinkTags(context.Background(), uuid.Must(uuid.NewV4()), []string{"go"})
	require.ErrorIs(t, err, tagErrors.ErrDatabaseOperation)
}

func TestGetTag(t *testing.T) {
	ctx := context.Background()
	id := uuid.Must(uuid.NewV4())

	repo := new(MockTagRepository)
	repo.On("FindByID", mock.Anything, id).Return(nil, fmt.Errorf("failed to find tag: %w", sql.ErrNoRows)).Once()
	svc := NewTagService(repo, nil)

	_, err := svc.GetTag(ctx, id)
	assert.ErrorIs(t, err, tagErrors.ErrTagNotFound)

	repo.On("FindByID", mock.Anything, id).Return(nil, fmt.Errorf("failed to find tag: %w", sql.ErrNoRows)).Once()
	missing, err := svc.GetTagRef(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, missing)

	repo.On("FindByID", mock.Anything, id).Return(&models.Tag{ID: id, Name: "go", Questions: 3}, nil).Once()
	ref, err := svc.GetTagRef(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "go", ref.Name)
}

func TestListTags_PaginationAndDefaults(t *testing.T) {
	ctx := context.Background()
	repo := new(MockTagRepository)
	tags := []models.Tag{{Name: "a"}, {Name: "b"}}

	repo.On("List", mock.Anything, "", models.FilterPopular, 2, 2).Return(tags, int64(5), nil).Once()
	svc := NewTagService(repo, nil)

	page, err := svc.ListTags(ctx, &models.TagQueryFilter{Filter: "bogus", Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.True(t, page.IsNext)
	assert.Len(t, page.Tags, 2)

	repo.On("List", mock.Anything, "", models.FilterName, 2, 4).Return(tags[:1], int64(5), nil).Once()
	page, err = svc.ListTags(ctx, &models.TagQueryFilter{Filter: models.FilterName, Page: 3, PageSize: 2})
	require.NoError(t, err)
	assert.False(t, page.IsNext)

	repo.On("List", mock.Anything, "", models.FilterPopular, 10, 990).Return([]models.Tag{}, int64(5), nil).Once()
	page, err = svc.ListTags(ctx, &models.TagQueryFilter{Page: 100})
	require.NoError(t, err)
	assert.Empty(t, page.Tags)
	assert.False(t, page.IsNext)
	repo.AssertExpectations(t)
}

func TestListTags_UsesCacheUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	backend := cache.NewMemoryCache(nil)
	defer backend.Close()
	listings := cache.NewListingCache(backend, "devflow:tags", time.Minute)

	repo := new(MockTagRepository)
	repo.On("List", mock.Anything, "", models.FilterPopular, 10, 0).Return([]models.Tag{{Name: "go"}}, int64(1), nil).Twice()
	repo.On("UnlinkQuestion", mock.Anything, mock.Anything).Return(nil)

	svc := NewTagService(repo, listings)
	for i := 0; i < 3; i++ {
		_, err := svc.ListTags(ctx, nil)
		require.NoError(t, err)
	}
	repo.AssertNumberOfCalls(t, "List", 1)

	require.NoError(t, svc.UnlinkTags(ctx, uuid.Must(uuid.NewV4())))
	_, err := svc.ListTags(ctx, nil)
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 2)
}

func TestPopularTags_ClampsLimit(t *testing.T) {
	repo := new(MockTagRepository)
	repo.On("Popular", mock.Anything, models.DefaultPopularLimit).Return([]models.Tag{}, nil).Once()
	repo.On("Popular", mock.Anything, models.MaxPopularLimit).Return([]models.Tag{}, nil).Once()
	svc := NewTagService(repo, nil)

	_, err := svc.PopularTags(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.PopularTags(context.Background(), 1000)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
