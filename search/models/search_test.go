package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSearchQuery_Scope(t *testing.T) {
	kinds, limit := (&SearchQuery{}).Scope()
	assert.Equal(t, Kinds, kinds)
	assert.Equal(t, PerKindLimit, limit)

	kinds, limit = (&SearchQuery{Type: " Answer "}).Scope()
	assert.Equal(t, []string{KindAnswer}, kinds)
	assert.Equal(t, SingleKindLimit, limit)

	kinds, limit = (&SearchQuery{Type: "comment"}).Scope()
	assert.Equal(t, Kinds, kinds)
	assert.Equal(t, PerKindLimit, limit)
}
