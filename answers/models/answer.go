// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

const (
	DefaultPageSize  = 5
	MinContentLength = 20
)

// Answer sort keys accepted in ?sortBy.
const (
	SortHighestUpvotes = "highestUpvotes"
	SortLowestUpvotes  = "lowestUpvotes"
	SortRecent         = "recent"
	SortOld            = "old"
	// SortTop orders a user's answers on the profile page.
	SortTop = "top"
)

// Author is the public slice of a user shown next to an answer.
type Author struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Username string    `json:"username" db:"username"`
	Picture  string    `json:"picture" db:"picture"`
}

// Answer is an answer row joined with its author and question title.
type Answer struct {
	ID            uuid.UUID `json:"id" db:"id"`
	QuestionID    uuid.UUID `json:"questionId" db:"question_id"`
	QuestionTitle string    `json:"questionTitle" db:"question_title"`
	Content       string    `json:"content" db:"content"`
	ContentHTML   string    `json:"contentHtml,omitempty" db:"-"`
	AuthorID      uuid.UUID `json:"-" db:"author_id"`
	Author        Author    `json:"author" db:"author"`
	UpVotes       int       `json:"upVotes" db:"up_votes"`
	DownVotes     int       `json:"downVotes" db:"down_votes"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	HasUpVoted    bool      `json:"hasUpVoted" db:"-"`
	HasDownVoted  bool      `json:"hasDownVoted" db:"-"`
}

// AnswerKey identifies an answer together with its question.
type AnswerKey struct {
	ID         uuid.UUID `db:"id"`
	QuestionID uuid.UUID `db:"question_id"`
}

// CreateAnswerRequest is the body of POST /questions/:questionId/answers.
type CreateAnswerRequest struct {
	Content string `json:"content"`
}

// AnswerQueryFilter is decoded from answer listing query strings.
type AnswerQueryFilter struct {
	SortBy   string `query:"sortBy"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
}

// NormalizedSort maps empty and unknown sort keys to recent.
func (f *AnswerQueryFilter) NormalizedSort() string {
	switch f.SortBy {
	case SortHighestUpvotes, SortLowestUpvotes, SortOld:
		return f.SortBy
	default:
		return SortRecent
	}
}

// AnswersPage is one page of answers.
type AnswersPage struct {
	Answers []Answer `json:"answers"`
	IsNext  bool     `json:"isNext"`
}
