package repository

import (
	"context"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/devflow/internal/testutil"
	"github.com/qolzam/devflow/search/models"
)

func TestPostgresRepository_Integration(t *testing.T) {
	if !testutil.ShouldRunDatabaseTests() {
		t.Skip("set RUN_DB_TESTS=1 to run database tests")
	}

	client := testutil.NewIsolatedDB(t)
	repo := NewPostgresRepository(client)
	ctx := context.Background()
	author := testutil.InsertUser(t, client, "Gopher Search")

	questionID := uuid.Must(uuid.NewV4())
	_, err := client.DB().Exec(`INSERT INTO questions (id, title, content, author_id) VALUES ($1, 'Closing channels', 'when to close', $2)`, questionID, author)
	require.NoError(t, err)
	for i := 0; i < 2; i++ {
		_, err = client.DB().Exec(`INSERT INTO answers (id, question_id, author_id, content) VALUES ($1, $2, $3, 'Only the SENDER closes')`,
			uuid.Must(uuid.NewV4()), questionID, author)
		require.NoError(t, err)
	}
	_, err = client.DB().Exec(`INSERT INTO tags (id, name) VALUES ($1, 'channels')`, uuid.Must(uuid.NewV4()))
	require.NoError(t, err)

	questions, err := repo.Search(ctx, models.KindQuestion, "CHANNEL", 8)
	require.NoError(t, err)
	require.Len(t, questions, 1)
	assert.Equal(t, "Closing channels", questions[0].Title)

	answers, err := repo.Search(ctx, models.KindAnswer, "sender", 8)
	require.NoError(t, err)
	require.Len(t, answers, 1, "answers on the same question collapse to one hit")
	assert.Equal(t, questionID, answers[0].ID)

	users, err := repo.Search(ctx, models.KindUser, "gopher", 8)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, author, users[0].ID)

	tags, err := repo.Search(ctx, models.KindTag, "chan", 8)
	require.NoError(t, err)
	require.Len(t, tags, 1)
	assert.Equal(t, models.KindTag, tags[0].Type)

	none, err := repo.Search(ctx, models.KindTag, "100%", 8)
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.Search(ctx, "comment", "x", 8)
	assert.Error(t, err)
}
