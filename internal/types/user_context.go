// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package types

import (
	"context"

	"github.com/gofrs/uuid"
)

// UserCtxName is the key under which the authenticated user is stored, both in
// fiber Locals and in request contexts handed to services.
const UserCtxName = "user"

// UserContext is the authenticated caller, as resolved by authjwt or authhmac.
type UserContext struct {
	UserID      uuid.UUID `json:"uid"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Avatar      string    `json:"avatar"`
	SystemRole  string    `json:"role"`
	CreatedDate int64     `json:"createdDate"`
}

// IsAdmin reports whether the caller carries the admin role.
func (u UserContext) IsAdmin() bool {
	return u.SystemRole == AdminRole
}

// UserFromContext returns the caller stored with WithUser, if any.
func UserFromContext(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(UserCtxName).(UserContext)
	return user, ok
}

// WithUser stores the caller on ctx.
func WithUser(ctx context.Context, user UserContext) context.Context {
	return context.WithValue(ctx, UserCtxName, user)
}
