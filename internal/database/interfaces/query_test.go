package interfaces

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PageSize: 10}, NewPagination(0, 0, 0))
	assert.Equal(t, Pagination{Page: 3, PageSize: 5}, NewPagination(3, 0, 5))
	assert.Equal(t, Pagination{Page: 2, PageSize: MaxPageSize}, NewPagination(2, 1000, 10))
	assert.Equal(t, Pagination{Page: 1, PageSize: 20}, NewPagination(-4, 20, 10))
}

func TestPaginationIsNext(t *testing.T) {
	p := NewPagination(2, 10, 10)
	assert.Equal(t, 10, p.Offset())

	assert.True(t, p.IsNext(25, 10))
	assert.False(t, p.IsNext(20, 10))
	assert.False(t, p.IsNext(15, 5))

	beyond := NewPagination(5, 10, 10)
	assert.False(t, beyond.IsNext(25, 0))
}

func TestContainsPattern(t *testing.T) {
	assert.Equal(t, "%go%", ContainsPattern(" go "))
	assert.Equal(t, `%100\%%`, ContainsPattern("100%"))
	assert.Equal(t, `%snake\_case%`, ContainsPattern("snake_case"))
	assert.Equal(t, "%%", ContainsPattern(""))
}
