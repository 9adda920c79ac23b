// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"fmt"

	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/qolzam/devflow/answers/models"
	"github.com/qolzam/devflow/internal/database/postgres"
)

const answerSelect = `
	SELECT a.id, a.question_id, q.title AS question_title, a.content, a.author_id,
		a.up_votes, a.down_votes, a.created_at,
		u.id AS "author.id", u.name AS "author.name", u.username AS "author.username",
		u.picture AS "author.picture"
	FROM answers a
	JOIN questions q ON q.id = a.question_id
	JOIN users u ON u.id = a.author_id`

var answerOrderings = map[string]string{
	models.SortHighestUpvotes: "a.up_votes DESC, a.created_at DESC",
	models.SortLowestUpvotes:  "a.up_votes ASC, a.created_at DESC",
	models.SortRecent:         "a.created_at DESC",
	models.SortOld:            "a.created_at ASC",
	models.SortTop:            "a.up_votes DESC, a.created_at DESC",
}

// PostgresRepository implements AnswerRepository on PostgreSQL.
type PostgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository creates a new PostgreSQL answer repository.
func NewPostgresRepository(client *postgres.Client) *PostgresRepository {
	return &PostgresRepository{client: client}
}

func (r *PostgresRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	return r.client.Executor(ctx)
}

func (r *PostgresRepository) Create(ctx context.Context, answer *models.Answer) error {
	query := `
		INSERT INTO answers (id, question_id, author_id, content)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	row := r.getExecutor(ctx).QueryRowxContext(ctx, query, answer.ID, answer.QuestionID, answer.AuthorID, answer.Content)
	if err := row.Scan(&answer.CreatedAt); err != nil {
		return fmt.Errorf("failed to insert answer: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, answerID uuid.UUID) (*models.Answer, error) {
	var answer models.Answer
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &answer, answerSelect+` WHERE a.id = $1`, answerID); err != nil {
		return nil, fmt.Errorf("failed to find answer: %w", err)
	}
	return &answer, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, answerID uuid.UUID) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM answers WHERE id = $1`, answerID)
	if err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete answer: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("failed to delete answer: %w", sql.ErrNoRows)
	}
	return nil
}

func (r *PostgresRepository) DeleteByQuestion(ctx context.Context, questionID uuid.UUID) error {
	if _, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM answers WHERE question_id = $1`, questionID); err != nil {
		return fmt.Errorf("failed to delete answers of question: %w", err)
	}
	return nil
}

func (r *PostgresRepository) list(ctx context.Context, column string, id uuid.UUID, sort string, limit, offset int) ([]models.Answer, int64, error) {
	var total int64
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM answers a WHERE a.%s = $1`, column)
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &total, countQuery, id); err != nil {
		return nil, 0, fmt.Errorf("failed to count answers: %w", err)
	}

	orderBy, ok := answerOrderings[sort]
	if !ok {
		orderBy = answerOrderings[models.SortRecent]
	}
	query := fmt.Sprintf(`%s WHERE a.%s = $1 ORDER BY %s, a.id LIMIT $2 OFFSET $3`, answerSelect, column, orderBy)

	answers := []models.Answer{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &answers, query, id, limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list answers: %w", err)
	}
	return answers, total, nil
}

func (r *PostgresRepository) ListByQuestion(ctx context.Context, questionID uuid.UUID, sort string, limit, offset int) ([]models.Answer, int64, error) {
	return r.list(ctx, "question_id", questionID, sort, limit, offset)
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID uuid.UUID, limit, offset int) ([]models.Answer, int64, error) {
	return r.list(ctx, "author_id", authorID, models.SortTop, limit, offset)
}

func (r *PostgresRepository) IDsByQuestion(ctx context.Context, questionID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &ids, `SELECT id FROM answers WHERE question_id = $1`, questionID); err != nil {
		return nil, fmt.Errorf("failed to list answer ids: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) KeysByAuthor(ctx context.Context, authorID uuid.UUID) ([]models.AnswerKey, error) {
	keys := []models.AnswerKey{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &keys, `SELECT id, question_id FROM answers WHERE author_id = $1`, authorID); err != nil {
		return nil, fmt.Errorf("failed to list answers by author: %w", err)
	}
	return keys, nil
}

// LockVoteTarget locks the answer row until the enclosing transaction ends.
func (r *PostgresRepository) LockVoteTarget(ctx context.Context, answerID uuid.UUID) (uuid.UUID, error) {
	var authorID uuid.UUID
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &authorID,
		`SELECT author_id FROM answers WHERE id = $1 FOR UPDATE`, answerID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to lock answer: %w", err)
	}
	return authorID, nil
}

func (r *PostgresRepository) ApplyVoteDelta(ctx context.Context, answerID uuid.UUID, upDelta, downDelta int) (int, int, error) {
	var counts struct {
		Up   int `db:"up_votes"`
		Down int `db:"down_votes"`
	}
	query := `
		UPDATE answers
		SET up_votes = up_votes + $2, down_votes = down_votes + $3
		WHERE id = $1
		RETURNING up_votes, down_votes`
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &counts, query, answerID, upDelta, downDelta); err != nil {
		return 0, 0, fmt.Errorf("failed to apply answer vote delta: %w", err)
	}
	return counts.Up, counts.Down, nil
}

func (r *PostgresRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return r.client.WithTransaction(ctx, fn)
}
