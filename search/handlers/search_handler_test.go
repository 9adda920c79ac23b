package handlers_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/devflow/internal/testutil"
	"github.com/qolzam/devflow/search"
	searchErrors "github.com/qolzam/devflow/search/errors"
	"github.com/qolzam/devflow/search/handlers"
	"github.com/qolzam/devflow/search/models"
)

type MockSearchService struct {
	mock.Mock
}

func (m *MockSearchService) Search(ctx context.Context, query *models.SearchQuery) ([]models.Result, error) {
	args := m.Called(ctx, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Result), args.Error(1)
}

func TestSearchEndpoint(t *testing.T) {
	env := testutil.NewTestEnv(t)
	svc := new(MockSearchService)
	app := fiber.New()
	search.RegisterRoutes(app, &search.SearchHandlers{SearchHandler: handlers.NewSearchHandler(svc)}, env.Config)
	h := testutil.NewHTTPHelper(t, app)

	questionID := uuid.Must(uuid.NewV4())
	svc.On("Search", mock.Anything, &models.SearchQuery{Query: "channels", Type: "answer"}).
		Return([]models.Result{{Type: models.KindAnswer, ID: questionID, Title: "Buffered channels"}}, nil)
	svc.On("Search", mock.Anything, &models.SearchQuery{Query: "boom"}).
		Return(nil, searchErrors.ErrDatabaseOperation)

	var results []models.Result
	h.NewRequest(http.MethodGet, "/search?q=channels&type=answer", nil).SendJSON(http.StatusOK, &results)
	require.Len(t, results, 1)
	assert.Equal(t, questionID, results[0].ID)

	var errBody searchErrors.ErrorResponse
	h.NewRequest(http.MethodGet, "/search?q=boom", nil).SendJSON(http.StatusInternalServerError, &errBody)
	assert.Equal(t, searchErrors.CodeDatabaseOperation, errBody.Code)
}
