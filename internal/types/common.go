// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package types

// HTTP Header Constants
const (
	HeaderHMACAuthenticate = "X-Devflow-Signature"
	HeaderTimestamp        = "X-Timestamp"
	HeaderUID              = "uid"
	HeaderAuthorization    = "Authorization"
	HeaderContentType      = "Content-Type"
)

// Authentication Constants
const (
	BearerPrefix = "Bearer "
	HMACPrefix   = "sha256="
)

// Common Values
const (
	UserRole  = "user"
	AdminRole = "admin"
)
