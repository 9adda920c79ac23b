// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	dbi "github.com/qolzam/devflow/internal/database/interfaces"
	"github.com/qolzam/devflow/internal/database/postgres"
	"github.com/qolzam/devflow/search/models"
)

// $1 is the ILIKE pattern and $2 the limit.
var kindQueries = map[string]string{
	models.KindQuestion: `
		SELECT 'question' AS type, id, title
		FROM questions
		WHERE title ILIKE $1 OR content ILIKE $1
		ORDER BY created_at DESC, id
		LIMIT $2`,
	models.KindAnswer: `
		SELECT 'answer' AS type, a.question_id AS id, q.title
		FROM answers a
		JOIN questions q ON q.id = a.question_id
		WHERE a.content ILIKE $1
		GROUP BY a.question_id, q.title
		ORDER BY MAX(a.created_at) DESC, a.question_id
		LIMIT $2`,
	models.KindUser: `
		SELECT 'user' AS type, id, name AS title
		FROM users
		WHERE name ILIKE $1 OR username ILIKE $1
		ORDER BY reputation DESC, id
		LIMIT $2`,
	models.KindTag: `
		SELECT 'tag' AS type, id, name AS title
		FROM tags
		WHERE name ILIKE $1
		ORDER BY name
		LIMIT $2`,
}

// PostgresRepository implements SearchRepository on PostgreSQL.
type PostgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository creates a new PostgreSQL search repository.
func NewPostgresRepository(client *postgres.Client) *PostgresRepository {
	return &PostgresRepository{client: client}
}

func (r *PostgresRepository) Search(ctx context.Context, kind, query string, limit int) ([]models.Result, error) {
	sqlQuery, ok := kindQueries[kind]
	if !ok {
		return nil, fmt.Errorf("unknown search kind %q", kind)
	}

	results := []models.Result{}
	if err := sqlx.SelectContext(ctx, r.client.Executor(ctx), &results, sqlQuery, dbi.ContainsPattern(query), limit); err != nil {
		return nil, fmt.Errorf("failed to search %ss: %w", kind, err)
	}
	return results, nil
}
