// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/qolzam/devflow/shared/interfaces"
)

// Validation limits for question bodies.
const (
	MinTitleLength   = 5
	MaxTitleLength   = 130
	MinContentLength = 20
	HotLimit         = 5
)

// Question listing filters. SortTop is used by the profile listing only.
const (
	FilterNewest      = "newest"
	FilterFrequent    = "frequent"
	FilterUnanswered  = "unanswered"
	FilterRecommended = "recommended"
	SortTop           = "top"
)

// Author is the public slice of a user shown next to content.
type Author struct {
	ID       uuid.UUID `json:"id" db:"id"`
	Name     string    `json:"name" db:"name"`
	Username string    `json:"username" db:"username"`
	Picture  string    `json:"picture" db:"picture"`
}

// Question is a question row joined with its author. Tags and ContentHTML
// are filled by the service.
type Question struct {
	ID          uuid.UUID           `json:"id" db:"id"`
	Title       string              `json:"title" db:"title"`
	Content     string              `json:"content" db:"content"`
	ContentHTML string              `json:"contentHtml,omitempty" db:"-"`
	AuthorID    uuid.UUID           `json:"-" db:"author_id"`
	Author      Author              `json:"author" db:"author"`
	Tags        []interfaces.TagRef `json:"tags" db:"-"`
	Views       int64               `json:"views" db:"views"`
	UpVotes     int                 `json:"upVotes" db:"up_votes"`
	DownVotes   int                 `json:"downVotes" db:"down_votes"`
	AnswerCount int                 `json:"answers" db:"answer_count"`
	CreatedAt   time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time           `json:"updatedAt" db:"updated_at"`
}

// QuestionDetail is a question plus the caller's own vote and save state.
type QuestionDetail struct {
	Question
	HasUpVoted   bool `json:"hasUpVoted"`
	HasDownVoted bool `json:"hasDownVoted"`
	HasSaved     bool `json:"hasSaved"`
}

// CreateQuestionRequest is the body of POST /questions.
type CreateQuestionRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// UpdateQuestionRequest is the body of PUT /questions/:questionId.
type UpdateQuestionRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

// QuestionQueryFilter is decoded from listing query strings.
type QuestionQueryFilter struct {
	Search   string `query:"q"`
	Filter   string `query:"filter"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
}

// NormalizedFilter maps empty, unknown and recommended filters to newest.
func (f *QuestionQueryFilter) NormalizedFilter() string {
	switch f.Filter {
	case FilterFrequent, FilterUnanswered:
		return f.Filter
	default:
		return FilterNewest
	}
}

// QuestionsPage is one page of a question listing.
type QuestionsPage struct {
	Questions []Question `json:"questions"`
	IsNext    bool       `json:"isNext"`
}

// TagQuestionsPage is one page of questions under a tag.
type TagQuestionsPage struct {
	Tag       interfaces.TagRef `json:"tag"`
	Questions []Question        `json:"questions"`
	IsNext    bool              `json:"isNext"`
}

// ViewResult is returned by POST /questions/:questionId/view.
type ViewResult struct {
	Views int64 `json:"views"`
}
