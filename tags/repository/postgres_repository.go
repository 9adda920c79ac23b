// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"
	"strings"

	uuid "github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"
	dbi "github.com/qolzam/devflow/internal/database/interfaces"
	"github.com/qolzam/devflow/internal/database/postgres"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/tags/models"
)

const tagColumns = `t.id, t.name, t.description, t.created_at,
	(SELECT COUNT(*) FROM question_tags qt WHERE qt.tag_id = t.id) AS question_count`

var tagOrderings = map[string]string{
	models.FilterPopular: "question_count DESC, t.created_at DESC",
	models.FilterRecent:  "t.created_at DESC",
	models.FilterName:    "LOWER(t.name) ASC",
	models.FilterOld:     "t.created_at ASC",
}

// PostgresRepository implements TagRepository on PostgreSQL.
type PostgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository creates a new PostgreSQL tag repository.
func NewPostgresRepository(client *postgres.Client) *PostgresRepository {
	return &PostgresRepository{client: client}
}

func (r *PostgresRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	return r.client.Executor(ctx)
}

// Upsert inserts the tag or returns the existing one. The no-op DO UPDATE makes
// RETURNING yield the existing row, keeping the first spelling.
func (r *PostgresRepository) Upsert(ctx context.Context, name string) (interfaces.TagRef, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return interfaces.TagRef{}, fmt.Errorf("failed to generate tag id: %w", err)
	}

	query := `
		INSERT INTO tags (id, name)
		VALUES ($1, $2)
		ON CONFLICT ((LOWER(name))) DO UPDATE SET name = tags.name
		RETURNING id, name`

	var ref interfaces.TagRef
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &ref, query, id, name); err != nil {
		return interfaces.TagRef{}, fmt.Errorf("failed to upsert tag %q: %w", name, err)
	}
	return ref, nil
}

func (r *PostgresRepository) LinkQuestion(ctx context.Context, questionID, tagID uuid.UUID) error {
	query := `
		INSERT INTO question_tags (question_id, tag_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`

	if _, err := r.getExecutor(ctx).ExecContext(ctx, query, questionID, tagID); err != nil {
		return fmt.Errorf("failed to link tag: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UnlinkQuestion(ctx context.Context, questionID uuid.UUID) error {
	if _, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM question_tags WHERE question_id = $1`, questionID); err != nil {
		return fmt.Errorf("failed to unlink tags: %w", err)
	}
	return nil
}

// FindByID returns an error wrapping sql.ErrNoRows when the tag does not exist.
func (r *PostgresRepository) FindByID(ctx context.Context, tagID uuid.UUID) (*models.Tag, error) {
	query := `SELECT ` + tagColumns + ` FROM tags t WHERE t.id = $1`

	var tag models.Tag
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &tag, query, tagID); err != nil {
		return nil, fmt.Errorf("failed to find tag: %w", err)
	}
	return &tag, nil
}

func (r *PostgresRepository) List(ctx context.Context, search, filter string, limit, offset int) ([]models.Tag, int64, error) {
	var (
		where []string
		args  []interface{}
	)
	if strings.TrimSpace(search) != "" {
		args = append(args, dbi.ContainsPattern(search))
		where = append(where, fmt.Sprintf("t.name ILIKE $%d", len(args)))
	}

	whereClause := ""
	if len(where) > 0 {
		whereClause = "WHERE " + strings.Join(where, " AND ")
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM tags t ` + whereClause
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count tags: %w", err)
	}

	orderBy, ok := tagOrderings[filter]
	if !ok {
		orderBy = tagOrderings[models.FilterPopular]
	}

	query := fmt.Sprintf(`SELECT %s FROM tags t %s ORDER BY %s, t.id LIMIT $%d OFFSET $%d`,
		tagColumns, whereClause, orderBy, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	tags := []models.Tag{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &tags, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, total, nil
}

// Popular returns tags with at least one question, most used first.
func (r *PostgresRepository) Popular(ctx context.Context, limit int) ([]models.Tag, error) {
	query := `
		SELECT t.id, t.name, t.description, t.created_at, COUNT(qt.question_id) AS question_count
		FROM tags t
		JOIN question_tags qt ON qt.tag_id = t.id
		GROUP BY t.id
		ORDER BY question_count DESC, t.name ASC
		LIMIT $1`

	tags := []models.Tag{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &tags, query, limit); err != nil {
		return nil, fmt.Errorf("failed to load popular tags: %w", err)
	}
	return tags, nil
}

func (r *PostgresRepository) WithTransaction(ctx context.Context, fn func(context.Context) error) error {
	return r.client.WithTransaction(ctx, fn)
}
