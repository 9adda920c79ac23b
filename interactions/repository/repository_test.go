package repository

import (
	"context"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/devflow/internal/database/postgres"
	"github.com/qolzam/devflow/internal/testutil"
	"github.com/qolzam/devflow/shared/interfaces"
)

func seedQuestion(t *testing.T, client *postgres.Client, authorID uuid.UUID, tags ...string) (uuid.UUID, []uuid.UUID) {
	t.Helper()
	questionID := uuid.Must(uuid.NewV4())
	_, err := client.DB().Exec(`INSERT INTO questions (id, title, content, author_id) VALUES ($1, 'title', 'body', $2)`, questionID, authorID)
	require.NoError(t, err)

	var tagIDs []uuid.UUID
	for _, name := range tags {
		id := uuid.Must(uuid.NewV4())
		err := client.DB().QueryRowx(
			`INSERT INTO tags (id, name) VALUES ($1, $2) ON CONFLICT ((LOWER(name))) DO UPDATE SET name = tags.name RETURNING id`,
			id, name).Scan(&id)
		require.NoError(t, err)
		_, err = client.DB().Exec(`INSERT INTO question_tags (question_id, tag_id) VALUES ($1, $2)`, questionID, id)
		require.NoError(t, err)
		tagIDs = append(tagIDs, id)
	}
	return questionID, tagIDs
}

func TestPostgresRepository_Integration(t *testing.T) {
	if !testutil.ShouldRunDatabaseTests() {
		t.Skip("set RUN_DB_TESTS=1 to run database tests")
	}

	client := testutil.NewIsolatedDB(t)
	repo := NewPostgresRepository(client)
	ctx := context.Background()
	user := testutil.InsertUser(t, client, "interacting user")
	author := testutil.InsertUser(t, client, "interaction author")

	goQuestion, goTags := seedQuestion(t, client, author, "go", "concurrency")
	rustQuestion, _ := seedQuestion(t, client, author, "rust")

	t.Run("InsertAndTopTags", func(t *testing.T) {
		require.NoError(t, repo.Insert(ctx, uuid.Must(uuid.NewV4()), interfaces.InteractionEvent{
			UserID: user, Action: interfaces.ActionAskQuestion, QuestionID: goQuestion, TagIDs: goTags,
		}))
		// No tag ids: inherited from question_tags.
		require.NoError(t, repo.Insert(ctx, uuid.Must(uuid.NewV4()), interfaces.InteractionEvent{
			UserID: user, Action: interfaces.ActionViewQuestion, QuestionID: goQuestion,
		}))
		require.NoError(t, repo.Insert(ctx, uuid.Must(uuid.NewV4()), interfaces.InteractionEvent{
			UserID: user, Action: interfaces.ActionViewQuestion, QuestionID: rustQuestion,
		}))

		top, err := repo.TopTags(ctx, user, 2)
		require.NoError(t, err)
		require.Len(t, top, 2)
		assert.Equal(t, "concurrency", top[0].Name)
		assert.Equal(t, int64(2), top[0].Count)
		assert.Equal(t, "go", top[1].Name)

		none, err := repo.TopTags(ctx, author, 3)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("DeleteForQuestionAndAnswers", func(t *testing.T) {
		answerID := uuid.Must(uuid.NewV4())
		_, err := client.DB().Exec(`INSERT INTO answers (id, question_id, author_id, content) VALUES ($1, $2, $3, 'answer')`,
			answerID, rustQuestion, user)
		require.NoError(t, err)
		require.NoError(t, repo.Insert(ctx, uuid.Must(uuid.NewV4()), interfaces.InteractionEvent{
			UserID: user, Action: interfaces.ActionPostAnswer, QuestionID: rustQuestion, AnswerID: &answerID,
		}))

		require.NoError(t, repo.DeleteForAnswers(ctx, []uuid.UUID{answerID}))
		assert.Equal(t, 0, testutil.Count(t, client, `SELECT COUNT(*) FROM interactions WHERE answer_id = $1`, answerID))

		require.NoError(t, repo.DeleteForQuestion(ctx, goQuestion))
		assert.Equal(t, 0, testutil.Count(t, client, `SELECT COUNT(*) FROM interactions WHERE question_id = $1`, goQuestion))
		assert.Equal(t, 1, testutil.Count(t, client, `SELECT COUNT(*) FROM interactions WHERE question_id = $1`, rustQuestion))
	})
}
