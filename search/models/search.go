// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import (
	"strings"

	uuid "github.com/gofrs/uuid"
)

// Searchable kinds.
const (
	KindQuestion = "question"
	KindAnswer   = "answer"
	KindUser     = "user"
	KindTag      = "tag"
)

// Kinds lists every searchable kind in result order.
var Kinds = []string{KindQuestion, KindAnswer, KindUser, KindTag}

const (
	// PerKindLimit applies when every kind is searched.
	PerKindLimit = 2
	// SingleKindLimit applies when the query names one kind.
	SingleKindLimit = 8
	MaxQueryLength  = 200
)

// SearchQuery is decoded from GET /search?q&type.
type SearchQuery struct {
	Query string `query:"q"`
	Type  string `query:"type"`
}

// Scope returns the kinds to search and the per-kind limit. An empty or
// unknown type searches everything.
func (q *SearchQuery) Scope() ([]string, int) {
	kind := strings.ToLower(strings.TrimSpace(q.Type))
	for _, k := range Kinds {
		if k == kind {
			return []string{k}, SingleKindLimit
		}
	}
	return Kinds, PerKindLimit
}

// Result is one hit. Answer hits carry the id of their question.
type Result struct {
	Type  string    `json:"type" db:"type"`
	ID    uuid.UUID `json:"id" db:"id"`
	Title string    `json:"title" db:"title"`
}
