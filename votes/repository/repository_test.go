package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qolzam/devflow/internal/testutil"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/votes/models"
)

// TestPostgresVoteRepository_Integration focuses on the repository layer, bypassing the service layer.
func TestPostgresVoteRepository_Integration(t *testing.T) {
	if !testutil.ShouldRunDatabaseTests() {
		t.Skip("set RUN_DB_TESTS=1 to run database tests")
	}

	client := testutil.NewIsolatedDB(t)
	repo := NewPostgresVoteRepository(client)
	ctx := context.Background()
	voter := testutil.InsertUser(t, client, "voter")
	q := interfaces.TargetQuestion

	t.Run("UpsertFindDelete", func(t *testing.T) {
		target := uuid.Must(uuid.NewV4())

		_, err := repo.Find(ctx, q, target, voter)
		assert.True(t, errors.Is(err, sql.ErrNoRows))

		require.NoError(t, repo.Upsert(ctx, &models.Vote{TargetType: q, TargetID: target, UserID: voter, VoteType: interfaces.VoteUp}))
		require.NoError(t, repo.Upsert(ctx, &models.Vote{TargetType: q, TargetID: target, UserID: voter, VoteType: interfaces.VoteDown}))
		assert.Equal(t, 1, testutil.Count(t, client, `SELECT COUNT(*) FROM votes WHERE target_id = $1`, target),
			"a user holds at most one vote per target")

		vote, err := repo.Find(ctx, q, target, voter)
		require.NoError(t, err)
		assert.Equal(t, interfaces.VoteDown, vote.VoteType)

		deleted, previous, err := repo.Delete(ctx, q, target, voter)
		require.NoError(t, err)
		assert.True(t, deleted)
		assert.Equal(t, interfaces.VoteDown, previous)

		deleted, previous, err = repo.Delete(ctx, q, target, voter)
		require.NoError(t, err)
		assert.False(t, deleted)
		assert.Equal(t, 0, previous)
	})

	t.Run("StatesFor", func(t *testing.T) {
		up, down, none := uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4()), uuid.Must(uuid.NewV4())
		require.NoError(t, repo.Upsert(ctx, &models.Vote{TargetType: interfaces.TargetAnswer, TargetID: up, UserID: voter, VoteType: interfaces.VoteUp}))
		require.NoError(t, repo.Upsert(ctx, &models.Vote{TargetType: interfaces.TargetAnswer, TargetID: down, UserID: voter, VoteType: interfaces.VoteDown}))

		states, err := repo.StatesFor(ctx, interfaces.TargetAnswer, []uuid.UUID{up, down, none}, voter)
		require.NoError(t, err)
		assert.Equal(t, interfaces.VoteUp, states[up])
		assert.Equal(t, interfaces.VoteDown, states[down])
		_, present := states[none]
		assert.False(t, present)

		states, err = repo.StatesFor(ctx, q, []uuid.UUID{up}, voter)
		require.NoError(t, err)
		assert.Empty(t, states, "target type is part of the key")

		require.NoError(t, repo.DeleteForTargets(ctx, interfaces.TargetAnswer, []uuid.UUID{up, down}))
		states, err = repo.StatesFor(ctx, interfaces.TargetAnswer, []uuid.UUID{up, down}, voter)
		require.NoError(t, err)
		assert.Empty(t, states)
	})

	t.Run("ListAndDeleteByUser", func(t *testing.T) {
		other := testutil.InsertUser(t, client, "other voter")
		for i := 0; i < 3; i++ {
			require.NoError(t, repo.Upsert(ctx, &models.Vote{TargetType: q, TargetID: uuid.Must(uuid.NewV4()), UserID: other, VoteType: interfaces.VoteUp}))
		}

		votes, err := repo.ListByUser(ctx, other)
		require.NoError(t, err)
		assert.Len(t, votes, 3)

		require.NoError(t, repo.DeleteByUser(ctx, other))
		votes, err = repo.ListByUser(ctx, other)
		require.NoError(t, err)
		assert.Empty(t, votes)
	})

	t.Run("Transaction_RollsBack", func(t *testing.T) {
		target := uuid.Must(uuid.NewV4())
		err := repo.WithTransaction(ctx, func(txCtx context.Context) error {
			if err := repo.Upsert(txCtx, &models.Vote{TargetType: q, TargetID: target, UserID: voter, VoteType: interfaces.VoteUp}); err != nil {
				return err
			}
			return errors.New("abort")
		})
		require.Error(t, err)
		_, err = repo.Find(ctx, q, target, voter)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}
