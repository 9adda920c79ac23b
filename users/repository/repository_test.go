package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/devflow/internal/database/postgres"
	"github.com/qolzam/devflow/internal/testutil"
	"github.com/qolzam/devflow/users/models"
)

func insertQuestion(t *testing.T, client *postgres.Client, authorID uuid.UUID, title string, views, upVotes, answers int) uuid.UUID {
	t.Helper()
	id := uuid.Must(uuid.NewV4())
	_, err := client.DB().Exec(`
		INSERT INTO questions (id, title, content, author_id, views, up_votes, answer_count)
		VALUES ($1, $2, 'body', $3, $4, $5, $6)`, id, title, authorID, views, upVotes, answers)
	require.NoError(t, err)
	return id
}

func TestPostgresRepository_Integration(t *testing.T) {
	if !testutil.ShouldRunDatabaseTests() {
		t.Skip("set RUN_DB_TESTS=1 to run database tests")
	}

	client := testutil.NewIsolatedDB(t)
	repo := NewPostgresRepository(client)
	ctx := context.Background()

	t.Run("CreateAndFind", func(t *testing.T) {
		user := &models.User{ID: uuid.Must(uuid.NewV4()), ClerkID: "user_create", Name: "Ada", Username: "ada"}
		require.NoError(t, repo.Create(ctx, user))
		assert.False(t, user.CreatedAt.IsZero())
		assert.Equal(t, 0, user.Reputation)

		byID, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada", byID.Username)

		byClerk, err := repo.FindByClerkID(ctx, "user_create")
		require.NoError(t, err)
		assert.Equal(t, user.ID, byClerk.ID)

		_, err = repo.FindByClerkID(ctx, "user_missing")
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})

	t.Run("Create_DuplicateClerkID", func(t *testing.T) {
		first := &models.User{ID: uuid.Must(uuid.NewV4()), ClerkID: "user_dup"}
		require.NoError(t, repo.Create(ctx, first))

		err := repo.Create(ctx, &models.User{ID: uuid.Must(uuid.NewV4()), ClerkID: "user_dup"})
		assert.ErrorIs(t, err, ErrDuplicateClerkID)
	})

	t.Run("UpdateIdentityAndProfile", func(t *testing.T) {
		user := &models.User{ID: uuid.Must(uuid.NewV4()), ClerkID: "user_update", Name: "Old", Bio: "keep me"}
		require.NoError(t, repo.Create(ctx, user))

		updated, err := repo.UpdateIdentity(ctx, &models.IdentityUser{ClerkID: "user_update", Name: "New", Email: "new@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "New", updated.Name)
		assert.Equal(t, "keep me", updated.Bio)

		location := "Lisbon"
		profile, err := repo.UpdateProfile(ctx, user.ID, &models.UpdateProfileRequest{Location: &location})
		require.NoError(t, err)
		assert.Equal(t, "Lisbon", profile.Location)
		assert.Equal(t, "New", profile.Name)

		_, err = repo.UpdateIdentity(ctx, &models.IdentityUser{ClerkID: "user_nobody"})
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})

	t.Run("AdjustReputation", func(t *testing.T) {
		id := testutil.InsertUser(t, client, "rep user")
		require.NoError(t, repo.AdjustReputation(ctx, id, 10))
		require.NoError(t, repo.AdjustReputation(ctx, id, -12))
		assert.Equal(t, -2, testutil.Reputation(t, client, id))

		err := repo.AdjustReputation(ctx, uuid.Must(uuid.NewV4()), 1)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})

	t.Run("SavedQuestions", func(t *testing.T) {
		saver := testutil.InsertUser(t, client, "saver")
		author := testutil.InsertUser(t, client, "saved author")
		popular := insertQuestion(t, client, author, "Popular channels question", 500, 3, 1)
		quiet := insertQuestion(t, client, author, "Quiet generics question", 5, 9, 4)
		tagID := uuid.Must(uuid.NewV4())
		_, err := client.DB().Exec(`INSERT INTO tags (id, name) VALUES ($1, 'golang-saved')`, tagID)
		require.NoError(t, err)
		_, err = client.DB().Exec(`INSERT INTO question_tags (question_id, tag_id) VALUES ($1, $2)`, popular, tagID)
		require.NoError(t, err)

		saved, err := repo.ToggleSaved(ctx, saver, popular)
		require.NoError(t, err)
		assert.True(t, saved)
		saved, err = repo.ToggleSaved(ctx, saver, quiet)
		require.NoError(t, err)
		assert.True(t, saved)

		isSaved, err := repo.IsSaved(ctx, saver, popular)
		require.NoError(t, err)
		assert.True(t, isSaved)

		list, total, err := repo.ListSaved(ctx, saver, ListParams{Sort: models.SavedMostViewed, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		require.Len(t, list, 2)
		assert.Equal(t, popular, list[0].ID)
		require.Len(t, list[0].Tags, 1)
		assert.Equal(t, "golang-saved", list[0].Tags[0].Name)
		assert.Empty(t, list[1].Tags)
		assert.Equal(t, "saved author", list[1].Author.Name)

		list, _, err = repo.ListSaved(ctx, saver, ListParams{Sort: models.SavedMostAnswered, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, quiet, list[0].ID)

		list, total, err = repo.ListSaved(ctx, saver, ListParams{Search: "GENERICS", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, quiet, list[0].ID)

		saved, err = repo.ToggleSaved(ctx, saver, popular)
		require.NoError(t, err)
		assert.False(t, saved)
		assert.Equal(t, 1, testutil.Count(t, client, `SELECT COUNT(*) FROM saved_questions WHERE user_id = $1`, saver))

		_, err = repo.ToggleSaved(ctx, saver, uuid.Must(uuid.NewV4()))
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})

	t.Run("Stats", func(t *testing.T) {
		author := testutil.InsertUser(t, client, "stats author")
		q := insertQuestion(t, client, author, "Stats question", 40, 7, 0)
		insertQuestion(t, client, author, "Second stats question", 60, 1, 0)
		_, err := client.DB().Exec(`INSERT INTO answers (id, question_id, author_id, content, up_votes) VALUES ($1, $2, $3, 'answer', 4)`,
			uuid.Must(uuid.NewV4()), q, author)
		require.NoError(t, err)

		stats, err := repo.Stats(ctx, author)
		require.NoError(t, err)
		assert.Equal(t, models.Stats{
			TotalQuestions:  2,
			TotalAnswers:    1,
			QuestionUpvotes: 8,
			AnswerUpvotes:   4,
			TotalViews:      100,
		}, *stats)
	})

	t.Run("ListFiltersAndSearch", func(t *testing.T) {
		isolated := testutil.NewIsolatedDB(t)
		listRepo := NewPostgresRepository(isolated)
		oldest := testutil.InsertUser(t, isolated, "Zed Oldest")
		_, err := isolated.DB().Exec(`UPDATE users SET created_at = NOW() - INTERVAL '1 day' WHERE id = $1`, oldest)
		require.NoError(t, err)
		top := testutil.InsertUser(t, isolated, "Top Contributor")
		require.NoError(t, listRepo.AdjustReputation(ctx, top, 50))
		testutil.InsertUser(t, isolated, "Newest Member")

		users, total, err := listRepo.List(ctx, ListParams{Sort: models.FilterOldUsers, Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Equal(t, oldest, users[0].ID)

		users, _, err = listRepo.List(ctx, ListParams{Sort: models.FilterTopContributors, Limit: 1})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, top, users[0].ID)

		users, total, err = listRepo.List(ctx, ListParams{Search: "zed", Limit: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, oldest, users[0].ID)
	})

	t.Run("Delete_CascadesSavedAndInteractions", func(t *testing.T) {
		doomed := testutil.InsertUser(t, client, "doomed")
		author := testutil.InsertUser(t, client, "survivor")
		q := insertQuestion(t, client, author, "Survives user delete", 0, 0, 0)
		_, err := repo.ToggleSaved(ctx, doomed, q)
		require.NoError(t, err)
		_, err = client.DB().Exec(`INSERT INTO interactions (id, user_id, action, question_id) VALUES ($1, $2, 'view_question', $3)`,
			uuid.Must(uuid.NewV4()), doomed, q)
		require.NoError(t, err)

		require.NoError(t, repo.Delete(ctx, doomed))
		assert.Equal(t, 0, testutil.Count(t, client, `SELECT COUNT(*) FROM saved_questions WHERE user_id = $1`, doomed))
		assert.Equal(t, 0, testutil.Count(t, client, `SELECT COUNT(*) FROM interactions WHERE user_id = $1`, doomed))

		err = repo.Delete(ctx, doomed)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}
