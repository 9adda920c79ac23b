// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"

	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/qolzam/devflow/interactions/models"
	"github.com/qolzam/devflow/internal/database/postgres"
	"github.com/qolzam/devflow/shared/interfaces"
)

// PostgresRepository implements InteractionRepository on PostgreSQL.
type PostgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository creates a new PostgreSQL interaction repository.
func NewPostgresRepository(client *postgres.Client) *PostgresRepository {
	return &PostgresRepository{client: client}
}

func (r *PostgresRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	return r.client.Executor(ctx)
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

func (r *PostgresRepository) Insert(ctx context.Context, id uuid.UUID, event interfaces.InteractionEvent) error {
	query := `
		INSERT INTO interactions (id, user_id, action, question_id, answer_id, tag_ids)
		VALUES ($1, $2, $3, $4, $5,
			CASE WHEN cardinality($6::uuid[]) > 0 THEN $6::uuid[]
			ELSE COALESCE((SELECT array_agg(tag_id) FROM question_tags WHERE question_id = $4), '{}')
			END)`

	questionID := uuid.NullUUID{UUID: event.QuestionID, Valid: event.QuestionID != uuid.Nil}
	var answerID uuid.NullUUID
	if event.AnswerID != nil {
		answerID = uuid.NullUUID{UUID: *event.AnswerID, Valid: true}
	}

	_, err := r.getExecutor(ctx).ExecContext(ctx, query,
		id, event.UserID, event.Action, questionID, answerID, pq.Array(uuidStrings(event.TagIDs)))
	if err != nil {
		return fmt.Errorf("failed to insert interaction: %w", err)
	}
	return nil
}

// DeleteForQuestion also drops records of answers posted on the question.
func (r *PostgresRepository) DeleteForQuestion(ctx context.Context, questionID uuid.UUID) error {
	query := `
		DELETE FROM interactions
		WHERE question_id = $1
			OR answer_id IN (SELECT id FROM answers WHERE question_id = $1)`
	if _, err := r.getExecutor(ctx).ExecContext(ctx, query, questionID); err != nil {
		return fmt.Errorf("failed to delete interactions for question: %w", err)
	}
	return nil
}

func (r *PostgresRepository) DeleteForAnswers(ctx context.Context, answerIDs []uuid.UUID) error {
	if len(answerIDs) == 0 {
		return nil
	}
	_, err := r.getExecutor(ctx).ExecContext(ctx,
		`DELETE FROM interactions WHERE answer_id = ANY($1::uuid[])`, pq.Array(uuidStrings(answerIDs)))
	if err != nil {
		return fmt.Errorf("failed to delete interactions for answers: %w", err)
	}
	return nil
}

func (r *PostgresRepository) TopTags(ctx context.Context, userID uuid.UUID, limit int) ([]models.TopTag, error) {
	query := `
		SELECT t.id, t.name, COUNT(*) AS count
		FROM interactions i
		CROSS JOIN LATERAL unnest(i.tag_ids) AS it(tag_id)
		JOIN tags t ON t.id = it.tag_id
		WHERE i.user_id = $1
		GROUP BY t.id, t.name
		ORDER BY count DESC, t.name
		LIMIT $2`

	tags := []models.TopTag{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &tags, query, userID, limit); err != nil {
		return nil, fmt.Errorf("failed to load top tags: %w", err)
	}
	return tags, nil
}
