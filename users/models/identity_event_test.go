package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentityEventData_Identity(t *testing.T) {
	body := `{
		"type": "user.created",
		"data": {
			"id": "user_2abc",
			"first_name": "Ada",
			"last_name": null,
			"username": "ada",
			"image_url": "https://img.example.com/ada.png",
			"email_addresses": [
				{"email_address": "ada@example.com"},
				{"email_address": "lovelace@example.com"}
			]
		}
	}`

	var event IdentityEvent
	require.NoError(t, json.Unmarshal([]byte(body), &event))
	assert.Equal(t, EventUserCreated, event.Type)

	identity := event.Data.Identity()
	assert.Equal(t, &IdentityUser{
		ClerkID:  "user_2abc",
		Name:     "Ada",
		Username: "ada",
		Email:    "ada@example.com",
		Picture:  "https://img.example.com/ada.png",
	}, identity)
}

func TestIdentityEventData_FullName(t *testing.T) {
	data := IdentityEventData{ID: "user_1", FirstName: "Grace", LastName: "Hopper"}
	assert.Equal(t, "Grace Hopper", data.Identity().Name)
	assert.Empty(t, data.Identity().Email)
}

func TestNormalizedFilters(t *testing.T) {
	assert.Equal(t, FilterNewUsers, (&UserQueryFilter{}).NormalizedFilter())
	assert.Equal(t, FilterOldUsers, (&UserQueryFilter{Filter: FilterOldUsers}).NormalizedFilter())
	assert.Equal(t, SavedMostRecent, (&SavedQueryFilter{Filter: "popular"}).NormalizedFilter())
	assert.Equal(t, SavedMostAnswered, (&SavedQueryFilter{Filter: SavedMostAnswered}).NormalizedFilter())
}

func TestTagRefsScan(t *testing.T) {
	var refs TagRefs
	require.NoError(t, refs.Scan([]byte(`[{"id":"6ba7b810-9dad-11d1-80b4-00c04fd430c8","name":"go"}]`)))
	require.Len(t, refs, 1)
	assert.Equal(t, "go", refs[0].Name)

	require.NoError(t, refs.Scan(nil))
	assert.Empty(t, refs)
	assert.Error(t, refs.Scan(42))
}
