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

	"github.com/qolzam/devflow/answers"
	answerErrors "github.com/qolzam/devflow/answers/errors"
	"github.com/qolzam/devflow/answers/handlers"
	"github.com/qolzam/devflow/answers/models"
	"github.com/qolzam/devflow/internal/testutil"
	"github.com/qolzam/devflow/internal/types"
)

type MockAnswerService struct {
	mock.Mock
}

func (m *MockAnswerService) CreateAnswer(ctx context.Context, questionID uuid.UUID, req *models.CreateAnswerRequest, user *types.UserContext) (*models.Answer, error) {
	args := m.Called(ctx, questionID, req, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Answer), args.Error(1)
}

func (m *MockAnswerService) ListAnswers(ctx context.Context, questionID uuid.UUID, filter *models.AnswerQueryFilter, viewer *types.UserContext) (*models.AnswersPage, error) {
	args := m.Called(ctx, questionID, filter, viewer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.AnswersPage), args.Error(1)
}

func (m *MockAnswerService) DeleteAnswer(ctx context.Context, answerID uuid.UUID, user *types.UserContext) error {
	return m.Called(ctx, answerID, user).Error(0)
}

func (m *MockAnswerService) AnswersByUser(ctx context.Context, userID uuid.UUID, filter *models.AnswerQueryFilter) (*models.AnswersPage, error) {
	args := m.Called(ctx, userID, filter)
	return args.Get(0).(*models.AnswersPage), args.Error(1)
}

func (m *MockAnswerService) DeleteAnswersForQuestion(ctx context.Context, questionID uuid.UUID) error {
	return m.Called(ctx, questionID).Error(0)
}

func (m *MockAnswerService) RemoveContentByAuthor(ctx context.Context, authorID uuid.UUID) error {
	return m.Called(ctx, authorID).Error(0)
}

func newTestApp(t *testing.T) (*testutil.HTTPHelper, *MockAnswerService, *testutil.TestEnv) {
	env := testutil.NewTestEnv(t)
	svc := new(MockAnswerService)
	app := fiber.New()
	answers.RegisterRoutes(app, &answers.AnswersHandlers{AnswerHandler: handlers.NewAnswerHandler(svc)}, env.Config)
	return testutil.NewHTTPHelper(t, app), svc, env
}

func TestCreateAnswer(t *testing.T) {
	h, svc, env := newTestApp(t)
	questionID := uuid.Must(uuid.NewV4())
	userID := uuid.Must(uuid.NewV4())

	resp := h.NewRequest(http.MethodPost, "/questions/"+questionID.String()+"/answers", models.CreateAnswerRequest{Content: "x"}).Send()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	svc.On("CreateAnswer", mock.Anything, questionID, &models.CreateAnswerRequest{Content: "use select"}, mock.MatchedBy(func(u *types.UserContext) bool {
		return u.UserID == userID
	})).Return(&models.Answer{ID: uuid.Must(uuid.NewV4()), QuestionID: questionID}, nil)

	var body models.Answer
	h.NewRequest(http.MethodPost, "/questions/"+questionID.String()+"/answers", models.CreateAnswerRequest{Content: "use select"}).
		WithUserJWT(env.Token(t, userID)).
		SendJSON(http.StatusCreated, &body)
	assert.Equal(t, questionID, body.QuestionID)
}

func TestCreateAnswer_QuestionMissing(t *testing.T) {
	h, svc, env := newTestApp(t)
	questionID := uuid.Must(uuid.NewV4())
	svc.On("CreateAnswer", mock.Anything, questionID, mock.Anything, mock.Anything).Return(nil, answerErrors.ErrQuestionNotFound)

	var errBody answerErrors.ErrorResponse
	h.NewRequest(http.MethodPost, "/questions/"+questionID.String()+"/answers", models.CreateAnswerRequest{Content: "x"}).
		WithUserJWT(env.Token(t, uuid.Must(uuid.NewV4()))).
		SendJSON(http.StatusNotFound, &errBody)
	assert.Equal(t, answerErrors.CodeQuestionNotFound, errBody.Code)
}

func TestListAnswers(t *testing.T) {
	h, svc, env := newTestApp(t)
	questionID := uuid.Must(uuid.NewV4())
	userID := uuid.Must(uuid.NewV4())
	filter := &models.AnswerQueryFilter{SortBy: models.SortOld, Page: 2}

	svc.On("ListAnswers", mock.Anything, questionID, filter, (*types.UserContext)(nil)).
		Return(&models.AnswersPage{Answers: []models.Answer{}}, nil).Once()
	svc.On("ListAnswers", mock.Anything, questionID, filter, mock.MatchedBy(func(u *types.UserContext) bool {
		return u != nil && u.UserID == userID
	})).Return(&models.AnswersPage{Answers: []models.Answer{{HasUpVoted: true}}, IsNext: true}, nil).Once()

	path := "/questions/" + questionID.String() + "/answers?sortBy=old&page=2"
	var anon models.AnswersPage
	h.NewRequest(http.MethodGet, path, nil).SendJSON(http.StatusOK, &anon)
	assert.Empty(t, anon.Answers)

	var mine models.AnswersPage
	h.NewRequest(http.MethodGet, path, nil).WithUserJWT(env.Token(t, userID)).SendJSON(http.StatusOK, &mine)
	require.Len(t, mine.Answers, 1)
	assert.True(t, mine.Answers[0].HasUpVoted)
	svc.AssertExpectations(t)
}

func TestDeleteAnswer(t *testing.T) {
	h, svc, env := newTestApp(t)
	own, other := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
	svc.On("DeleteAnswer", mock.Anything, own, mock.Anything).Return(nil)
	svc.On("DeleteAnswer", mock.Anything, other, mock.Anything).Return(answerErrors.ErrAnswerOwnershipRequired)
	token := env.Token(t, uuid.Must(uuid.NewV4()))

	resp := h.NewRequest(http.MethodDelete, "/answers/"+own.String(), nil).WithUserJWT(token).Send()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = h.NewRequest(http.MethodDelete, "/answers/"+other.String(), nil).WithUserJWT(token).Send()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp = h.NewRequest(http.MethodDelete, "/answers/not-a-uuid", nil).WithUserJWT(token).Send()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAnswersByUser(t *testing.T) {
	h, svc, _ := newTestApp(t)
	userID := uuid.Must(uuid.NewV4())
	svc.On("AnswersByUser", mock.Anything, userID, &models.AnswerQueryFilter{PageSize: 3}).
		Return(&models.AnswersPage{Answers: []models.Answer{{UpVotes: 9}}}, nil)

	var page models.AnswersPage
	h.NewRequest(http.MethodGet, "/users/"+userID.String()+"/answers?pageSize=3", nil).SendJSON(http.StatusOK, &page)
	require.Len(t, page.Answers, 1)
	assert.Equal(t, 9, page.Answers[0].UpVotes)
}
