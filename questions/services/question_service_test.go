package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/devflow/internal/types"
	questionErrors "github.com/qolzam/devflow/questions/errors"
	"github.com/qolzam/devflow/questions/models"
	"github.com/qolzam/devflow/questions/repository"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/users/reputation"
)

var validContent = strings.Repeat("How do goroutines work? ", 2)

func newUser() *types.UserContext {
	return &types.UserContext{UserID: uuid.Must(uuid.NewV4()), Username: "asker"}
}

func setup() (*MockQuestionRepository, *MockCollaborators, QuestionService) {
	repo := new(MockQuestionRepository)
	collab := new(MockCollaborators)
	return repo, collab, NewQuestionService(repo, collab.Deps(), nil)
}

func TestCreateQuestion_Success(t *testing.T) {
	ctx := context.Background()
	repo, collab, svc := setup()
	user := newUser()
	refs := []interfaces.TagRef{
		{ID: uuid.Must(uuid.NewV4()), Name: "go"},
		{ID: uuid.Must(uuid.NewV4()), Name: "rust"},
	}

	var createdID uuid.UUID
	repo.On("Create", mock.Anything, mock.MatchedBy(func(q *models.Question) bool {
		createdID = q.ID
		return q.Title == "Goroutines vs threads" && q.AuthorID == user.UserID
	})).Return(nil)
	collab.On("LinkTags", mock.Anything, mock.AnythingOfType("uuid.UUID"), []string{"go", "rust"}).Return(refs, nil)
	collab.On("RecordInteraction", mock.Anything, mock.MatchedBy(func(e interfaces.InteractionEvent) bool {
		return e.Action == interfaces.ActionAskQuestion && e.UserID == user.UserID && len(e.TagIDs) == 2
	})).Return(nil)
	collab.On("AdjustReputation", mock.Anything, user.UserID, reputation.AskQuestion).Return(nil)
	collab.On("InvalidateListings", mock.Anything).Return()
	repo.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&models.Question{
		Title:    "Goroutines vs threads",
		Content:  "**bold** body",
		AuthorID: user.UserID,
	}, nil)

	question, err := svc.CreateQuestion(ctx, &models.CreateQuestionRequest{
		Title:   "  Goroutines vs threads ",
		Content: validContent,
		Tags:    []string{"go", "rust"},
	}, user)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, createdID)
	assert.Equal(t, refs, question.Tags)
	assert.Contains(t, question.ContentHTML, "<strong>bold</strong>")
	repo.AssertExpectations(t)
	collab.AssertExpectations(t)
}

func TestCreateQuestion_Validation(t *testing.T) {
	_, _, svc := setup()
	user := newUser()

	cases := map[string]*models.CreateQuestionRequest{
		"short title":   {Title: "Hey", Content: validContent, Tags: []string{"go"}},
		"short content": {Title: "A fine title", Content: "too short", Tags: []string{"go"}},
		"no tags":       {Title: "A fine title", Content: validContent, Tags: []string{" ", ""}},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := svc.CreateQuestion(context.Background(), req, user)
			assert.ErrorIs(t, err, questionErrors.ErrInvalidQuestionData)
		})
	}

	_, err := svc.CreateQuestion(context.Background(), cases["no tags"], nil)
	assert.ErrorIs(t, err, questionErrors.ErrInvalidUserContext)
}

func TestCreateQuestion_TagLimitIsValidation(t *testing.T) {
	repo, collab, svc := setup()
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	collab.On("LinkTags", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, fmt.Errorf("%w: at most 5 tags are allowed", interfaces.ErrInvalidTags))

	_, err := svc.CreateQuestion(context.Background(), &models.CreateQuestionRequest{
		Title: "A fine title", Content: validContent, Tags: []string{"a", "b", "c", "d", "e", "f"},
	}, newUser())
	assert.ErrorIs(t, err, interfaces.ErrInvalidTags)
	collab.AssertNotCalled(t, "AdjustReputation", mock.Anything, mock.Anything, mock.Anything)
}

func TestGetQuestion_Personalized(t *testing.T) {
	ctx := context.Background()
	repo, collab, svc := setup()
	id := uuid.Must(uuid.NewV4())
	viewer := newUser()
	tag := interfaces.TagRef{ID: uuid.Must(uuid.NewV4()), Name: "go"}

	repo.On("FindByID", mock.Anything, id).Return(&models.Question{ID: id, Title: "t", Content: "c"}, nil)
	repo.On("TagsFor", mock.Anything, []uuid.UUID{id}).Return(map[uuid.UUID][]interfaces.TagRef{id: {tag}}, nil)
	collab.On("VoteStates", mock.Anything, interfaces.TargetQuestion, []uuid.UUID{id}, viewer.UserID).
		Return(map[uuid.UUID]int{id: interfaces.VoteDown}, nil)
	collab.On("IsSaved", mock.Anything, viewer.UserID, id).Return(true, nil)

	detail, err := svc.GetQuestion(ctx, id, viewer)
	require.NoError(t, err)
	assert.False(t, detail.HasUpVoted)
	assert.True(t, detail.HasDownVoted)
	assert.True(t, detail.HasSaved)
	assert.Equal(t, []interfaces.TagRef{tag}, detail.Tags)

	anon, err := svc.GetQuestion(ctx, id, nil)
	require.NoError(t, err)
	assert.False(t, anon.HasDownVoted)
	collab.AssertNumberOfCalls(t, "VoteStates", 1)
}

func TestGetQuestion_NotFound(t *testing.T) {
	repo, _, svc := setup()
	id := uuid.Must(uuid.NewV4())
	repo.On("FindByID", mock.Anything, id).Return(nil, fmt.Errorf("failed to find question: %w", sql.ErrNoRows))

	_, err := svc.GetQuestion(context.Background(), id, nil)
	assert.ErrorIs(t, err, questionErrors.ErrQuestionNotFound)
}

func TestUpdateQuestion_RequiresOwner(t *testing.T) {
	repo, _, svc := setup()
	id := uuid.Must(uuid.NewV4())
	repo.On("FindByID", mock.Anything, id).Return(&models.Question{ID: id, AuthorID: uuid.Must(uuid.NewV4())}, nil)

	_, err := svc.UpdateQuestion(context.Background(), id, &models.UpdateQuestionRequest{
		Title: "A fine title", Content: validContent, Tags: []string{"go"},
	}, newUser())
	assert.ErrorIs(t, err, questionErrors.ErrQuestionOwnershipRequired)
	repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateQuestion_Retags(t *testing.T) {
	repo, collab, svc := setup()
	user := newUser()
	id := uuid.Must(uuid.NewV4())
	refs := []interfaces.TagRef{{ID: uuid.Must(uuid.NewV4()), Name: "python"}}

	repo.On("FindByID", mock.Anything, id).Return(&models.Question{ID: id, AuthorID: user.UserID, Content: "x"}, nil)
	repo.On("Update", mock.Anything, id, "A better title", validContent).Return(nil)
	collab.On("UnlinkTags", mock.Anything, id).Return(nil)
	collab.On("LinkTags", mock.Anything, id, []string{"python"}).Return(refs, nil)

	updated, err := svc.UpdateQuestion(context.Background(), id, &models.UpdateQuestionRequest{
		Title: "A better title", Content: validContent, Tags: []string{"python"},
	}, user)
	require.NoError(t, err)
	assert.Equal(t, refs, updated.Tags)
	collab.AssertExpectations(t)
}

func TestDeleteQuestion_CascadesInOrder(t *testing.T) {
	repo, collab, svc := setup()
	user := newUser()
	id := uuid.Must(uuid.NewV4())

	var order []string
	record := func(name string) func(mock.Arguments) {
		return func(mock.Arguments) { order = append(order, name) }
	}

	repo.On("FindByID", mock.Anything, id).Return(&models.Question{ID: id, AuthorID: user.UserID}, nil)
	collab.On("DeleteForQuestion", mock.Anything, id).Return(nil).Run(record("interactions"))
	collab.On("DeleteAnswersForQuestion", mock.Anything, id).Return(nil).Run(record("answers"))
	collab.On("DeleteVotesForTargets", mock.Anything, interfaces.TargetQuestion, []uuid.UUID{id}).Return(nil).Run(record("votes"))
	collab.On("UnlinkTags", mock.Anything, id).Return(nil).Run(record("tags"))
	repo.On("Delete", mock.Anything, id).Return(nil).Run(record("question"))

	require.NoError(t, svc.DeleteQuestion(context.Background(), id, user))
	assert.Equal(t, []string{"interactions", "answers", "votes", "tags", "question"}, order)
}

func TestDeleteQuestion_StopsOnFailure(t *testing.T) {
	repo, collab, svc := setup()
	user := newUser()
	id := uuid.Must(uuid.NewV4())

	repo.On("FindByID", mock.Anything, id).Return(&models.Question{ID: id, AuthorID: user.UserID}, nil)
	collab.On("DeleteForQuestion", mock.Anything, id).Return(nil)
	collab.On("DeleteAnswersForQuestion", mock.Anything, id).Return(errors.New("deadlock detected"))

	err := svc.DeleteQuestion(context.Background(), id, user)
	assert.ErrorIs(t, err, questionErrors.ErrDatabaseOperation)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestRemoveContentByAuthor(t *testing.T) {
	repo, collab, svc := setup()
	author := uuid.Must(uuid.NewV4())
	q1, q2 := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())

	repo.On("IDsByAuthor", mock.Anything, author).Return([]uuid.UUID{q1, q2}, nil)
	collab.On("DeleteForQuestion", mock.Anything, mock.Anything).Return(nil)
	collab.On("DeleteAnswersForQuestion", mock.Anything, mock.Anything).Return(nil)
	collab.On("DeleteVotesForTargets", mock.Anything, interfaces.TargetQuestion, mock.Anything).Return(nil)
	collab.On("UnlinkTags", mock.Anything, mock.Anything).Return(nil)
	repo.On("Delete", mock.Anything, mock.Anything).Return(nil)

	require.NoError(t, svc.RemoveContentByAuthor(context.Background(), author))
	repo.AssertNumberOfCalls(t, "Delete", 2)
}

func TestListQuestions_FilterMappingAndTags(t *testing.T) {
	repo, _, svc := setup()
	q := models.Question{ID: uuid.Must(uuid.NewV4())}

	repo.On("List", mock.Anything, repository.ListParams{Search: "chan", Sort: models.FilterNewest, Limit: 10, Offset: 10}).
		Return([]models.Question{q}, int64(11), nil)
	repo.On("TagsFor", mock.Anything, []uuid.UUID{q.ID}).Return(map[uuid.UUID][]interfaces.TagRef{}, nil)

	page, err := svc.ListQuestions(context.Background(), &models.QuestionQueryFilter{Search: "chan", Filter: models.FilterRecommended, Page: 2})
	require.NoError(t, err)
	assert.False(t, page.IsNext)
	require.Len(t, page.Questions, 1)
	assert.NotNil(t, page.Questions[0].Tags)
}

func TestListQuestions_Unanswered(t *testing.T) {
	repo, _, svc := setup()
	repo.On("List", mock.Anything, repository.ListParams{Sort: models.FilterUnanswered, Limit: 5, Offset: 0}).
		Return([]models.Question{}, int64(7), nil)

	page, err := svc.ListQuestions(context.Background(), &models.QuestionQueryFilter{Filter: models.FilterUnanswered, PageSize: 5})
	require.NoError(t, err)
	assert.True(t, page.IsNext, "isNext compares total against skip plus returned rows")
}

func TestQuestionsByTag(t *testing.T) {
	repo, collab, svc := setup()
	tagID := uuid.Must(uuid.NewV4())

	collab.On("GetTagRef", mock.Anything, tagID).Return(nil, nil).Once()
	_, err := svc.QuestionsByTag(context.Background(), tagID, nil)
	assert.ErrorIs(t, err, questionErrors.ErrTagNotFound)

	collab.On("GetTagRef", mock.Anything, tagID).Return(&interfaces.TagRef{ID: tagID, Name: "go"}, nil).Once()
	repo.On("List", mock.Anything, repository.ListParams{Sort: models.FilterNewest, TagID: tagID, Limit: 10}).
		Return([]models.Question{}, int64(0), nil)
	page, err := svc.QuestionsByTag(context.Background(), tagID, nil)
	require.NoError(t, err)
	assert.Equal(t, "go", page.Tag.Name)
}

func TestQuestionsByUser_SortsByViews(t *testing.T) {
	repo, _, svc := setup()
	userID := uuid.Must(uuid.NewV4())
	repo.On("List", mock.Anything, repository.ListParams{Sort: models.SortTop, AuthorID: userID, Limit: 10}).
		Return([]models.Question{}, int64(0), nil)

	_, err := svc.QuestionsByUser(context.Background(), userID, nil)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestViewQuestion(t *testing.T) {
	repo, collab, svc := setup()
	id := uuid.Must(uuid.NewV4())
	viewer := newUser()

	repo.On("IncrementViews", mock.Anything, id).Return(int64(42), nil)
	collab.On("RecordInteraction", mock.Anything, interfaces.InteractionEvent{
		UserID: viewer.UserID, Action: interfaces.ActionViewQuestion, QuestionID: id,
	}).Return(nil).Once()

	result, err := svc.ViewQuestion(context.Background(), id, viewer)
	require.NoError(t, err)
	assert.Equal(t, int64(42), result.Views)

	_, err = svc.ViewQuestion(context.Background(), id, nil)
	require.NoError(t, err)
	collab.AssertNumberOfCalls(t, "RecordInteraction", 1)
}

func TestHotQuestions(t *testing.T) {
	repo, _, svc := setup()
	repo.On("Hot", mock.Anything, models.HotLimit).Return([]models.Question{}, nil)

	hot, err := svc.HotQuestions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, hot)
}
