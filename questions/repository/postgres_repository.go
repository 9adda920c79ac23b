// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	dbi "github.com/qolzam/devflow/internal/database/interfaces"
	"github.com/qolzam/devflow/internal/database/postgres"
	"github.com/qolzam/devflow/questions/models"
	"github.com/qolzam/devflow/shared/interfaces"
)

const questionSelect = `
	SELECT q.id, q.title, q.content, q.author_id, q.views, q.up_votes, q.down_votes,
		q.answer_count, q.created_at, q.updated_at,
		u.id AS "author.id", u.name AS "author.name", u.username AS "author.username",
		u.picture AS "author.picture"
	FROM questions q
	JOIN users u ON u.id = q.author_id`

var questionOrderings = map[string]string{
	models.FilterNewest:     "q.created_at DESC",
	models.FilterFrequent:   "q.views DESC, q.created_at DESC",
	models.FilterUnanswered: "q.created_at DESC",
	models.SortTop:          "q.views DESC, q.up_votes DESC",
}

// PostgresRepository implements QuestionRepository on PostgreSQL.
type PostgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository creates a new PostgreSQL question repository.
func NewPostgresRepository(client *postgres.Client) *PostgresRepository {
	return &PostgresRepository{client: client}
}

func (r *PostgresRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	return r.client.Executor(ctx)
}

func (r *PostgresRepository) Create(ctx context.Context, question *models.Question) error {
	query := `
		INSERT INTO questions (id, title, content, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`

	row := r.getExecutor(ctx).QueryRowxContext(ctx, query, question.ID, question.Title, question.Content, question.AuthorID)
	if err := row.Scan(&question.CreatedAt, &question.UpdatedAt); err != nil {
		return fmt.Errorf("failed to insert question: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, questionID uuid.UUID) (*models.Question, error) {
	var question models.Question
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &question, questionSelect+` WHERE q.id = $1`, questionID); err != nil {
		return nil, fmt.Errorf("failed to find question: %w", err)
	}
	return &question, nil
}

func (r *PostgresRepository) Update(ctx context.Context, questionID uuid.UUID, title, content string) error {
	query := `UPDATE questions SET title = $2, content = $3, updated_at = NOW() WHERE id = $1`
	result, err := r.getExecutor(ctx).ExecContext(ctx, query, questionID, title, content)
	if err != nil {
		return fmt.Errorf("failed to update question: %w", err)
	}
	return requireRow(result, "update question")
}

// Delete removes the question row. Dependent rows must already be gone,
// except saved_questions and question_tags which cascade.
func (r *PostgresRepository) Delete(ctx context.Context, questionID uuid.UUID) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, questionID)
	if err != nil {
		return fmt.Errorf("failed to delete question: %w", err)
	}
	return requireRow(result, "delete question")
}

func (r *PostgresRepository) List(ctx context.Context, params ListParams) ([]models.Question, int64, error) {
	var (
		where []string
		args  []interface{}
	)
	if strings.TrimSpace(params.Search) != "" {
		args = append(args, dbi.ContainsPattern(params.Search))
		where = append(where, fmt.Sprintf("(q.title ILIKE $%d OR q.content ILIKE $%d)", len(args), len(args)))
	}
	if params.TagID != uuid.Nil {
		args = append(args, params.TagID)
		where = append(where, fmt.Sprintf("EXISTS (SELECT 1 FROM question_tags qt WHERE qt.question_id = q.id AND qt.tag_id = $%d)", len(args)))
	}
	if params.AuthorID != uuid.Nil {
		args = append(args, params.AuthorID)
		where = append(where, fmt.Sprintf("q.author_id = $%d", len(args)))
	}
	if params.Sort == models.FilterUnanswered {
		where = append(where, "q.answer_count = 0")
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &total, `SELECT COUNT(*) FROM questions q`+whereClause, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count questions: %w", err)
	}

	orderBy, ok := questionOrderings[params.Sort]
	if !ok {
		orderBy = questionOrderings[models.FilterNewest]
	}

	query := fmt.Sprintf(`%s%s ORDER BY %s, q.id LIMIT $%d OFFSET $%d`,
		questionSelect, whereClause, orderBy, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	questions := []models.Question{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &questions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list questions: %w", err)
	}
	return questions, total, nil
}

func (r *PostgresRepository) Hot(ctx context.Context, limit int) ([]models.Question, error) {
	query := questionSelect + ` ORDER BY q.views DESC, q.up_votes DESC, q.created_at DESC LIMIT $1`

	questions := []models.Question{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &questions, query, limit); err != nil {
		return nil, fmt.Errorf("failed to load hot questions: %w", err)
	}
	return questions, nil
}

type questionTagRow struct {
	QuestionID uuid.UUID `db:"question_id"`
	ID         uuid.UUID `db:"id"`
	Name       string    `db:"name"`
}

func (r *PostgresRepository) TagsFor(ctx context.Context, questionIDs []uuid.UUID) (map[uuid.UUID][]interfaces.TagRef, error) {
	result := make(map[uuid.UUID][]interfaces.TagRef, len(questionIDs))
	if len(questionIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT qt.question_id, t.id, t.name
		FROM question_tags qt
		JOIN tags t ON t.id = qt.tag_id
		WHERE qt.question_id = ANY($1::uuid[])
		ORDER BY qt.created_at, t.name`

	var rows []questionTagRow
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &rows, query, pq.Array(uuidStrings(questionIDs))); err != nil {
		return nil, fmt.Errorf("failed to load question tags: %w", err)
	}
	for _, row := range rows {
		result[row.QuestionID] = append(result[row.QuestionID], interfaces.TagRef{ID: row.ID, Name: row.Name})
	}
	return result, nil
}

func (r *PostgresRepository) IDsByAuthor(ctx context.Context, authorID uuid.UUID) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &ids, `SELECT id FROM questions WHERE author_id = $1`, authorID); err != nil {
		return nil, fmt.Errorf("failed to list questions by author: %w", err)
	}
	return ids, nil
}

func (r *PostgresRepository) IncrementViews(ctx context.Context, questionID uuid.UUID) (int64, error) {
	var views int64
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &views,
		`UPDATE questions SET views = views + 1 WHERE id = $1 RETURNING views`, questionID)
	if err != nil {
		return 0, fmt.Errorf("failed to increment views: %w", err)
	}
	return views, nil
}

// LockVoteTarget locks the question row until the enclosing transaction ends.
func (r *PostgresRepository) LockVoteTarget(ctx context.Context, questionID uuid.UUID) (uuid.UUID, error) {
	var authorID uuid.UUID
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &authorID,
		`SELECT author_id FROM questions WHERE id = $1 FOR UPDATE`, questionID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to lock question: %w", err)
	}
	return authorID, nil
}

func (r *PostgresRepository) ApplyVoteDelta(ctx context.Context, questionID uuid.UUID, upDelta, downDelta int) (int, int, error) {
	var counts struct {
		Up   int `db:"up_votes"`
		Down int `db:"down_votes"`
	}
	query := `
		UPDATE questions
		SET up_votes = up_votes + $2, down_votes = down_votes + $3
		WHERE id = $1
		RETURNING up_votes, down_votes`
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &counts, query, questionID, upDelta, downDelta); err != nil {
		return 0, 0, fmt.Errorf("failed to apply question vote delta: %w", err)
	}
	return counts.Up, counts.Down, nil
}

func (r *PostgresRepository) AdjustAnswerCount(ctx context.Context, questionID uuid.UUID, delta int) error {
	var id uuid.UUID
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &id,
		`UPDATE questions SET answer_count = GREATEST(answer_count + $2, 0) WHERE id = $1 RETURNING id`, questionID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust answer count: %w", err)
	}
	return nil
}

func (r *PostgresRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return r.client.WithTransaction(ctx, fn)
}

func requireRow(result sql.Result, op string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: rows affected: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, sql.ErrNoRows)
	}
	return nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
