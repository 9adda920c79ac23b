// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package interfaces

import "strings"

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Pagination is a 1-based offset page request.
type Pagination struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// NewPagination clamps page and size: page < 1 becomes 1, a missing size becomes
// defaultSize, and sizes above MaxPageSize are capped.
func NewPagination(page, pageSize, defaultSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if defaultSize <= 0 {
		defaultSize = DefaultPageSize
	}
	if pageSize <= 0 {
		pageSize = defaultSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{Page: page, PageSize: pageSize}
}

// Offset is the number of rows to skip.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// IsNext reports whether rows remain after this page.
func (p Pagination) IsNext(total int64, returned int) bool {
	return total > int64(p.Offset()+returned)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern turns free text into an ILIKE substring pattern, escaping wildcards.
func ContainsPattern(search string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(search)) + "%"
}
