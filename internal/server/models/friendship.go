package models

import "time"

// Friendship links an unordered pair of accounts. AccountLow is always the
// lexically smaller id, so (a, b) and (b, a) map to the same record.
type Friendship struct {
	AccountLow  string
	AccountHigh string
	CreatedAt   time.Time
}

// NewFriendship normalises the pair order.
func NewFriendship(a, b string, createdAt time.Time) Friendship {
	low, high := OrderedPair(a, b)
	return Friendship{AccountLow: low, AccountHigh: high, CreatedAt: createdAt}
}

// OrderedPair returns a and b sorted ascending.
func OrderedPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// Other returns the member of the pair that is not id.
func (f Friendship) Other(id string) string {
	if f.AccountLow == id {
		return f.AccountHigh
	}
	return f.AccountLow
}
