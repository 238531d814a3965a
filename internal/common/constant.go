// Package common contains shared constants and sentinel errors used across
// the together server components.
package common

// AccessTokenHeaderName is the gRPC metadata key that carries the session
// token on inbound requests.
const AccessTokenHeaderName = "access_token"

// DefaultRole is granted to every newly registered account.
const DefaultRole = "USER"

// AdminRole grants access to account lock and enable toggles.
const AdminRole = "ADMIN"
