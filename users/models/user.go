// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/shared/interfaces"
	"github.com/qolzam/devflow/users/reputation"
)

// Community listing filters.
const (
	FilterNewUsers        = "new_users"
	FilterOldUsers        = "old_users"
	FilterTopContributors = "top_contributors"
)

// Saved question filters.
const (
	SavedMostRecent   = "most_recent"
	SavedOldest       = "oldest"
	SavedMostVoted    = "most_voted"
	SavedMostViewed   = "most_viewed"
	SavedMostAnswered = "most_answered"
)

const (
	MaxNameLength     = 100
	MaxUsernameLength = 50
	MaxBioLength      = 1000
	MaxLocationLength = 255
	MaxPortfolioURL   = 1024
)

// User is a community member mirrored from the identity provider.
type User struct {
	ID         uuid.UUID `json:"id" db:"id"`
	ClerkID    string    `json:"clerkId" db:"clerk_id"`
	Name       string    `json:"name" db:"name"`
	Username   string    `json:"username" db:"username"`
	Email      string    `json:"email" db:"email"`
	Picture    string    `json:"picture" db:"picture"`
	Bio        string    `json:"bio" db:"bio"`
	Location   string    `json:"location" db:"location"`
	Portfolio  string    `json:"portfolio" db:"portfolio"`
	Reputation int       `json:"reputation" db:"reputation"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// IdentityUser carries the identity provider's view of a user.
type IdentityUser struct {
	ClerkID  string
	Name     string
	Username string
	Email    string
	Picture  string
}

// UpdateProfileRequest is the body of PUT /users/me. Nil fields are left unchanged.
type UpdateProfileRequest struct {
	Name      *string `json:"name"`
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	Location  *string `json:"location"`
	Portfolio *string `json:"portfolio"`
}

// UserQueryFilter is decoded from GET /users query strings.
type UserQueryFilter struct {
	Search   string `query:"q"`
	Filter   string `query:"filter"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
}

// NormalizedFilter maps empty and unknown filters to new_users.
func (f *UserQueryFilter) NormalizedFilter() string {
	switch f.Filter {
	case FilterOldUsers, FilterTopContributors:
		return f.Filter
	default:
		return FilterNewUsers
	}
}

// SavedQueryFilter is decoded from GET /users/me/saved query strings.
type SavedQueryFilter struct {
	Search   string `query:"q"`
	Filter   string `query:"filter"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
}

// NormalizedFilter maps empty and unknown filters to most_recent.
func (f *SavedQueryFilter) NormalizedFilter() string {
	switch f.Filter {
	case SavedOldest, SavedMostVoted, SavedMostViewed, SavedMostAnswered:
		return f.Filter
	default:
		return SavedMostRecent
	}
}

// UsersPage is one page of the community listing.
type UsersPage struct {
	Users  []User `json:"users"`
	IsNext bool   `json:"isNext"`
}

// TagRefs scans a JSON array of tags built by the database.
type TagRefs []interfaces.TagRef

// Scan implements sql.Scanner.
func (t *TagRefs) Scan(src interface{}) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = TagRefs{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported tag list type %T", src)
	}
	refs := TagRefs{}
	if err := json.Unmarshal(raw, &refs); err != nil {
		return err
	}
	*t = refs
	return nil
}

// Value implements driver.Valuer.
func (t TagRefs) Value() (driver.Value, error) {
	return json.Marshal([]interfaces.TagRef(t))
}

// SavedAuthor is the author of a saved question.
type SavedAuthor struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Username string    `json:"username" db:"username"`
	Picture  string    `json:"picture" db:"picture"`
}

// SavedQuestion is a question in a user's collection.
type SavedQuestion struct {
	ID          uuid.UUID   `json:"id" db:"id"`
	Title       string      `json:"title" db:"title"`
	Author      SavedAuthor `json:"author" db:"author"`
	Tags        TagRefs     `json:"tags" db:"tags"`
	Views       int64       `json:"views" db:"views"`
	UpVotes     int         `json:"upVotes" db:"up_votes"`
	DownVotes   int         `json:"downVotes" db:"down_votes"`
	AnswerCount int         `json:"answers" db:"answer_count"`
	CreatedAt   time.Time   `json:"createdAt" db:"created_at"`
	SavedAt     time.Time   `json:"savedAt" db:"saved_at"`
}

// SavedPage is one page of saved questions.
type SavedPage struct {
	Questions []SavedQuestion `json:"questions"`
	IsNext    bool            `json:"isNext"`
}

// SaveResult reports the saved state after a toggle.
type SaveResult struct {
	IsSaved bool `json:"isSaved"`
}

// Stats aggregates a user's activity for the profile page.
type Stats struct {
	TotalQuestions  int64 `json:"totalQuestions" db:"total_questions"`
	TotalAnswers    int64 `json:"totalAnswers" db:"total_answers"`
	QuestionUpvotes int64 `json:"questionUpvotes" db:"question_upvotes"`
	AnswerUpvotes   int64 `json:"answerUpvotes" db:"answer_upvotes"`
	TotalViews      int64 `json:"totalViews" db:"total_views"`
}

// Criteria maps stats onto badge criteria.
func (s Stats) Criteria() map[reputation.Criterion]int64 {
	return map[reputation.Criterion]int64{
		reputation.QuestionCount:   s.TotalQuestions,
		reputation.AnswerCount:     s.TotalAnswers,
		reputation.QuestionUpvotes: s.QuestionUpvotes,
		reputation.AnswerUpvotes:   s.AnswerUpvotes,
		reputation.TotalViews:      s.TotalViews,
	}
}

// Profile is the payload of GET /users/:userId.
type Profile struct {
	User   User                   `json:"user"`
	Stats  Stats                  `json:"stats"`
	Badges reputation.BadgeCounts `json:"badges"`
}
