package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNamesAreOrdered(t *testing.T) {
	names, err := Names()
	require.NoError(t, err)
	require.NotEmpty(t, names)
	require.Equal(t, "sql/0001_init.sql", names[0])
}

func TestInitDeclaresEveryTable(t *testing.T) {
	body, err := files.ReadFile("sql/0001_init.sql")
	require.NoError(t, err)

	for _, table := range []string{"users", "questions", "answers", "tags", "question_tags", "votes", "saved_questions", "interactions"} {
		require.True(t, strings.Contains(string(body), "CREATE TABLE IF NOT EXISTS "+table+" ("), table)
	}
	require.Contains(t, string(body), "ON tags (LOWER(name))")
}
