package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	searchErrors "github.com/qolzam/devflow/search/errors"
	"github.com/qolzam/devflow/search/models"
)

func hit(kind, title string) models.Result {
	return models.Result{Type: kind, ID: uuid.Must(uuid.NewV4()), Title: title}
}

func TestSearch_AllKinds(t *testing.T) {
	repo := new(MockSearchRepository)
	svc := NewSearchService(repo)

	repo.On("Search", mock.Anything, models.KindQuestion, "go", models.PerKindLimit).
		Return([]models.Result{hit(models.KindQuestion, "Go channels"), hit(models.KindQuestion, "Go maps")}, nil)
	repo.On("Search", mock.Anything, models.KindAnswer, "go", models.PerKindLimit).
		Return([]models.Result{hit(models.KindAnswer, "Go channels")}, nil)
	repo.On("Search", mock.Anything, models.KindUser, "go", models.PerKindLimit).
		Return([]models.Result{}, nil)
	repo.On("Search", mock.Anything, models.KindTag, "go", models.PerKindLimit).
		Return([]models.Result{hit(models.KindTag, "go")}, nil)

	results, err := svc.Search(context.Background(), &models.SearchQuery{Query: " go "})
	require.NoError(t, err)
	require.Len(t, results, 4)
	assert.Equal(t, models.KindQuestion, results[0].Type)
	assert.Equal(t, models.KindQuestion, results[1].Type)
	assert.Equal(t, models.KindAnswer, results[2].Type)
	assert.Equal(t, models.KindTag, results[3].Type)
	repo.AssertExpectations(t)
}

func TestSearch_SingleKind(t *testing.T) {
	repo := new(MockSearchRepository)
	svc := NewSearchService(repo)
	repo.On("Search", mock.Anything, models.KindUser, "ada", models.SingleKindLimit).
		Return([]models.Result{hit(models.KindUser, "Ada")}, nil)

	results, err := svc.Search(context.Background(), &models.SearchQuery{Query: "ada", Type: "USER"})
	require.NoError(t, err)
	assert.Len(t, results, 1)
	repo.AssertNumberOfCalls(t, "Search", 1)
}

func TestSearch_BlankAndInvalid(t *testing.T) {
	repo := new(MockSearchRepository)
	svc := NewSearchService(repo)

	results, err := svc.Search(context.Background(), &models.SearchQuery{Query: "   "})
	require.NoError(t, err)
	assert.Empty(t, results)

	_, err = svc.Search(context.Background(), &models.SearchQuery{Query: strings.Repeat("x", models.MaxQueryLength+1)})
	assert.ErrorIs(t, err, searchErrors.ErrInvalidQuery)
	repo.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSearch_RepositoryError(t *testing.T) {
	repo := new(MockSearchRepository)
	svc := NewSearchService(repo)
	repo.On("Search", mock.Anything, models.KindTag, "go", models.SingleKindLimit).Return(nil, errors.New("timeout"))

	_, err := svc.Search(context.Background(), &models.SearchQuery{Query: "go", Type: models.KindTag})
	assert.ErrorIs(t, err, searchErrors.ErrDatabaseOperation)
}
