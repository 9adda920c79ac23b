// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"time"

	uuid "github.com/gofrs/uuid"
)

// Tag limits enforced whenever tags are attached to a question.
const (
	MaxTagsPerQuestion  = 5
	MaxTagLength        = 30
	DefaultPopularLimit = 5
	MaxPopularLimit     = 50
)

// Tag listing filters.
const (
	FilterPopular = "popular"
	FilterRecent  = "recent"
	FilterName    = "name"
	FilterOld     = "old"
)

// Tag is a tag row with the number of questions linked to it.
type Tag struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Questions   int64     `json:"questions" db:"question_count"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// TagQueryFilter is decoded from the GET /tags query string.
type TagQueryFilter struct {
	Search   string `query:"q"`
	Filter   string `query:"filter"`
	Page     int    `query:"page"`
	PageSize int    `query:"pageSize"`
}

// NormalizedFilter maps unknown or empty filters to popular.
func (f *TagQueryFilter) NormalizedFilter() string {
	switch f.Filter {
	case FilterRecent, FilterName, FilterOld:
		return f.Filter
	default:
		return FilterPopular
	}
}

// PopularQuery is decoded from the GET /tags/popular query string.
type PopularQuery struct {
	Limit int `query:"limit"`
}

// TagsPage is one page of the tag listing.
type TagsPage struct {
	Tags   []Tag `json:"tags"`
	IsNext bool  `json:"isNext"`
}
