// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/qolzam/devflow/internal/database/postgres"
	"github.com/qolzam/devflow/votes/models"
)

// postgresVoteRepository implements VoteRepository using raw SQL queries
type postgresVoteRepository struct {
	client *postgres.Client
}

// NewPostgresVoteRepository creates a new PostgreSQL repository for votes
func NewPostgresVoteRepository(client *postgres.Client) VoteRepository {
	return &postgresVoteRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresVoteRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	return r.client.Executor(ctx)
}

func idStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (r *postgresVoteRepository) Find(ctx context.Context, targetType string, targetID, userID uuid.UUID) (*models.Vote, error) {
	query := `
		SELECT target_type, target_id, user_id, vote_type, created_at
		FROM votes
		WHERE target_type = $1 AND target_id = $2 AND user_id = $3`

	var vote models.Vote
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &vote, query, targetType, targetID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("vote not found: %w", err)
		}
		return nil, fmt.Errorf("failed to find vote: %w", err)
	}
	return &vote, nil
}

func (r *postgresVoteRepository) Upsert(ctx context.Context, vote *models.Vote) error {
	query := `
		INSERT INTO votes (target_type, target_id, user_id, vote_type)
		VALUES (:target_type, :target_id, :user_id, :vote_type)
		ON CONFLICT (target_type, target_id, user_id) DO UPDATE SET vote_type = EXCLUDED.vote_type`

	if _, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, vote); err != nil {
		return fmt.Errorf("failed to upsert vote: %w", err)
	}
	return nil
}

func (r *postgresVoteRepository) Delete(ctx context.Context, targetType string, targetID, userID uuid.UUID) (bool, int, error) {
	query := `
		DELETE FROM votes
		WHERE target_type = $1 AND target_id = $2 AND user_id = $3
		RETURNING vote_type`

	var previous int
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &previous, query, targetType, targetID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, fmt.Errorf("failed to delete vote: %w", err)
	}
	return true, previous, nil
}

func (r *postgresVoteRepository) StatesFor(ctx context.Context, targetType string, targetIDs []uuid.UUID, userID uuid.UUID) (map[uuid.UUID]int, error) {
	states := make(map[uuid.UUID]int, len(targetIDs))
	if len(targetIDs) == 0 {
		return states, nil
	}

	query := `
		SELECT target_id, vote_type
		FROM votes
		WHERE user_id = $1 AND target_type = $2 AND target_id = ANY($3::uuid[])`

	var rows []struct {
		TargetID uuid.UUID `db:"target_id"`
		VoteType int       `db:"vote_type"`
	}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &rows, query, userID, targetType, pq.Array(idStrings(targetIDs))); err != nil {
		return nil, fmt.Errorf("failed to get vote states: %w", err)
	}
	for _, row := range rows {
		states[row.TargetID] = row.VoteType
	}
	return states, nil
}

func (r *postgresVoteRepository) DeleteForTargets(ctx context.Context, targetType string, targetIDs []uuid.UUID) error {
	if len(targetIDs) == 0 {
		return nil
	}
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`DELETE FROM votes WHERE target_type = $1 AND target_id = ANY($2::uuid[])`,
		targetType, pq.Array(idStrings(targetIDs)))
	if err != nil {
		return fmt.Errorf("failed to delete votes for targets: %w", err)
	}
	return nil
}

func (r *postgresVoteRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Vote, error) {
	query := `
		SELECT target_type, target_id, user_id, vote_type, created_at
		FROM votes
		WHERE user_id = $1
		ORDER BY created_at`

	votes := []models.Vote{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &votes, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list votes by user: %w", err)
	}
	return votes, nil
}

func (r *postgresVoteRepository) DeleteByUser(ctx context.Context, userID uuid.UUID) error {
	if _, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM votes WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete votes by user: %w", err)
	}
	return nil
}

func (r *postgresVoteRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return r.client.WithTransaction(ctx, fn)
}
