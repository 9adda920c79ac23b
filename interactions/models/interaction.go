// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import uuid "github.com/gofrs/uuid"

const (
	DefaultTopTags = 3
	MaxTopTags     = 20
)

// TopTag is a tag the user interacted with and how often.
type TopTag struct {
	ID    uuid.UUID `json:"id" db:"id"`
	Name  string    `json:"name" db:"name"`
	Count int64     `json:"count" db:"count"`
}

// TopTagsQuery is decoded from GET /users/:userId/top-tags.
type TopTagsQuery struct {
	Limit int `query:"limit"`
}

// NormalizedLimit defaults to DefaultTopTags and caps at MaxTopTags.
func (q *TopTagsQuery) NormalizedLimit() int {
	switch {
	case q.Limit < 1:
		return DefaultTopTags
	case q.Limit > MaxTopTags:
		return MaxTopTags
	default:
		return q.Limit
	}
}
