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
	dbi "github.com/qolzam/devflow/internal/database/interfaces"
	"github.com/qolzam/devflow/internal/database/postgres"
	"github.com/qolzam/devflow/users/models"
)

const userColumns = `id, clerk_id, name, username, email, picture, bio, location, portfolio,
	reputation, created_at, updated_at`

var userOrderings = map[string]string{
	models.FilterNewUsers:        "created_at DESC",
	models.FilterOldUsers:        "created_at ASC",
	models.FilterTopContributors: "reputation DESC, created_at DESC",
}

const savedSelect = `
	SELECT q.id, q.title, q.views, q.up_votes, q.down_votes, q.answer_count, q.created_at,
		s.created_at AS saved_at,
		u.id AS "author.id", u.name AS "author.name", u.username AS "author.username",
		u.picture AS "author.picture",
		COALESCE((
			SELECT json_agg(json_build_object('id', t.id, 'name', t.name) ORDER BY t.name)
			FROM question_tags qt
			JOIN tags t ON t.id = qt.tag_id
			WHERE qt.question_id = q.id
		), '[]'::json) AS tags
	FROM saved_questions s
	JOIN questions q ON q.id = s.question_id
	JOIN users u ON u.id = q.author_id`

var savedOrderings = map[string]string{
	models.SavedMostRecent:   "s.created_at DESC",
	models.SavedOldest:       "s.created_at ASC",
	models.SavedMostVoted:    "q.up_votes DESC, s.created_at DESC",
	models.SavedMostViewed:   "q.views DESC, s.created_at DESC",
	models.SavedMostAnswered: "q.answer_count DESC, s.created_at DESC",
}

// PostgresRepository implements UserRepository on PostgreSQL.
type PostgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository creates a new PostgreSQL user repository.
func NewPostgresRepository(client *postgres.Client) *PostgresRepository {
	return &PostgresRepository{client: client}
}

func (r *PostgresRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	return r.client.Executor(ctx)
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, clerk_id, name, username, email, picture, bio, location, portfolio)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING reputation, created_at, updated_at`

	row := r.getExecutor(ctx).QueryRowxContext(ctx, query,
		user.ID, user.ClerkID, user.Name, user.Username, user.Email, user.Picture,
		user.Bio, user.Location, user.Portfolio)
	if err := row.Scan(&user.Reputation, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if postgres.IsUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateClerkID, user.ClerkID)
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *PostgresRepository) UpdateIdentity(ctx context.Context, identity *models.IdentityUser) (*models.User, error) {
	query := `
		UPDATE users
		SET name = $2, username = $3, email = $4, picture = $5, updated_at = NOW()
		WHERE clerk_id = $1
		RETURNING ` + userColumns

	var user models.User
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &user, query,
		identity.ClerkID, identity.Name, identity.Username, identity.Email, identity.Picture)
	if err != nil {
		return nil, fmt.Errorf("failed to update user identity: %w", err)
	}
	return &user, nil
}

// UpdateProfile overwrites only the fields set in req.
func (r *PostgresRepository) UpdateProfile(ctx context.Context, userID uuid.UUID, req *models.UpdateProfileRequest) (*models.User, error) {
	query := `
		UPDATE users
		SET name = COALESCE($2, name),
			username = COALESCE($3, username),
			bio = COALESCE($4, bio),
			location = COALESCE($5, location),
			portfolio = COALESCE($6, portfolio),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	var user models.User
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &user, query,
		userID, req.Name, req.Username, req.Bio, req.Location, req.Portfolio)
	if err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return &user, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

func (r *PostgresRepository) FindByClerkID(ctx context.Context, clerkID string) (*models.User, error) {
	var user models.User
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &user, `SELECT `+userColumns+` FROM users WHERE clerk_id = $1`, clerkID); err != nil {
		return nil, fmt.Errorf("failed to find user by clerk id: %w", err)
	}
	return &user, nil
}

// Delete removes the user row. Saved entries and interactions cascade; the
// user's votes and authored content must already be gone.
func (r *PostgresRepository) Delete(ctx context.Context, userID uuid.UUID) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return requireRow(result, "delete user")
}

func (r *PostgresRepository) List(ctx context.Context, params ListParams) ([]models.User, int64, error) {
	var (
		where string
		args  []interface{}
	)
	if strings.TrimSpace(params.Search) != "" {
		args = append(args, dbi.ContainsPattern(params.Search))
		where = " WHERE (name ILIKE $1 OR username ILIKE $1)"
	}

	var total int64
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &total, `SELECT COUNT(*) FROM users`+where, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	orderBy, ok := userOrderings[params.Sort]
	if !ok {
		orderBy = userOrderings[models.FilterNewUsers]
	}
	query := fmt.Sprintf(`SELECT %s FROM users%s ORDER BY %s, id LIMIT $%d OFFSET $%d`,
		userColumns, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	users := []models.User{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &users, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}
	return users, total, nil
}

func (r *PostgresRepository) Stats(ctx context.Context, userID uuid.UUID) (*models.Stats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM questions WHERE author_id = $1) AS total_questions,
			(SELECT COUNT(*) FROM answers WHERE author_id = $1) AS total_answers,
			(SELECT COALESCE(SUM(up_votes), 0) FROM questions WHERE author_id = $1) AS question_upvotes,
			(SELECT COALESCE(SUM(up_votes), 0) FROM answers WHERE author_id = $1) AS answer_upvotes,
			(SELECT COALESCE(SUM(views), 0) FROM questions WHERE author_id = $1) AS total_views`

	var stats models.Stats
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &stats, query, userID); err != nil {
		return nil, fmt.Errorf("failed to load user stats: %w", err)
	}
	return &stats, nil
}

// AdjustReputation implements interfaces.ReputationAdjuster.
func (r *PostgresRepository) AdjustReputation(ctx context.Context, userID uuid.UUID, delta int) error {
	result, err := r.getExecutor(ctx).ExecContext(ctx,
		`UPDATE users SET reputation = reputation + $2 WHERE id = $1`, userID, delta)
	if err != nil {
		return fmt.Errorf("failed to adjust reputation: %w", err)
	}
	return requireRow(result, "adjust reputation")
}

// IsSaved implements interfaces.SavedChecker.
func (r *PostgresRepository) IsSaved(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	var saved bool
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &saved,
		`SELECT EXISTS (SELECT 1 FROM saved_questions WHERE user_id = $1 AND question_id = $2)`, userID, questionID)
	if err != nil {
		return false, fmt.Errorf("failed to check saved question: %w", err)
	}
	return saved, nil
}

func (r *PostgresRepository) ToggleSaved(ctx context.Context, userID, questionID uuid.UUID) (bool, error) {
	result, err := r.getExecutor(ctx).ExecContext(ctx,
		`DELETE FROM saved_questions WHERE user_id = $1 AND question_id = $2`, userID, questionID)
	if err != nil {
		return false, fmt.Errorf("failed to unsave question: %w", err)
	}
	if rows, err := result.RowsAffected(); err == nil && rows > 0 {
		return false, nil
	}

	_, err = r.getExecutor(ctx).ExecContext(ctx, `
		INSERT INTO saved_questions (user_id, question_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, question_id) DO NOTHING`, userID, questionID)
	if err != nil {
		if postgres.IsForeignKeyViolation(err) {
			return false, fmt.Errorf("save question %s: %w", questionID, sql.ErrNoRows)
		}
		return false, fmt.Errorf("failed to save question: %w", err)
	}
	return true, nil
}

func (r *PostgresRepository) ListSaved(ctx context.Context, userID uuid.UUID, params ListParams) ([]models.SavedQuestion, int64, error) {
	where := " WHERE s.user_id = $1"
	args := []interface{}{userID}
	if strings.TrimSpace(params.Search) != "" {
		args = append(args, dbi.ContainsPattern(params.Search))
		where += " AND (q.title ILIKE $2 OR q.content ILIKE $2)"
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM saved_questions s JOIN questions q ON q.id = s.question_id` + where
	if err := sqlx.GetContext(ctx, r.getExecutor(ctx), &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count saved questions: %w", err)
	}

	orderBy, ok := savedOrderings[params.Sort]
	if !ok {
		orderBy = savedOrderings[models.SavedMostRecent]
	}
	query := fmt.Sprintf(`%s%s ORDER BY %s, q.id LIMIT $%d OFFSET $%d`,
		savedSelect, where, orderBy, len(args)+1, len(args)+2)
	args = append(args, params.Limit, params.Offset)

	saved := []models.SavedQuestion{}
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &saved, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list saved questions: %w", err)
	}
	return saved, total, nil
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
