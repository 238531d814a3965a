// Package models holds the domain records shared by repositories and services.
// Relations between records are expressed by ids and resolved through the
// repositories; no record embeds collections of another.
package models

import (
	"slices"
	"time"
)

type Account struct {
	ID           string
	Email        string
	Nickname     string
	FirstName    string
	LastName     string
	PasswordHash string
	Enabled      bool
	Locked       bool
	Roles        []string
	CreatedAt    time.Time
}

// HasRole reports whether role is in the account's role set.
func (a *Account) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// FullName joins first and last name.
func (a *Account) FullName() string {
	switch {
	case a.FirstName == "":
		return a.LastName
	case a.LastName == "":
		return a.FirstName
	default:
		return a.FirstName + " " + a.LastName
	}
}
