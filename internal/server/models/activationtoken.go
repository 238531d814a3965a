package models

import "time"

// ActivationToken is the one-time code that enables a freshly registered
// account. At most one exists per account.
type ActivationToken struct {
	AccountID string
	Code      string
	ExpiresAt time.Time
}

// Expired reports whether the code is past its expiry at now.
func (t *ActivationToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}
