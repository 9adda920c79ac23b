// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package models

import "strings"

// Identity provider event types.
const (
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// IdentityEvent is the body of a signed identity webhook.
type IdentityEvent struct {
	Type string            `json:"type"`
	Data IdentityEventData `json:"data"`
}

// EmailAddress is one address attached to an identity.
type EmailAddress struct {
	EmailAddress string `json:"email_address"`
}

// IdentityEventData is the user object carried by identity events.
// Deleted events only fill ID.
type IdentityEventData struct {
	ID             string         `json:"id"`
	FirstName      string         `json:"first_name"`
	LastName       string         `json:"last_name"`
	Username       string         `json:"username"`
	ImageURL       string         `json:"image_url"`
	EmailAddresses []EmailAddress `json:"email_addresses"`
}

// Identity maps the event payload onto the fields mirrored locally.
func (d IdentityEventData) Identity() *IdentityUser {
	var email string
	if len(d.EmailAddresses) > 0 {
		email = d.EmailAddresses[0].EmailAddress
	}
	return &IdentityUser{
		ClerkID:  d.ID,
		Name:     strings.TrimSpace(d.FirstName + " " + d.LastName),
		Username: d.Username,
		Email:    email,
		Picture:  d.ImageURL,
	}
}

// WebhookResponse acknowledges an identity event.
type WebhookResponse struct {
	Message string `json:"message"`
	User    *User  `json:"user,omitempty"`
}
