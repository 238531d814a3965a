// Package common defines shared constants and sentinel errors used across
// the storage, service and transport layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound      = errors.New("not found")
	ErrorAlreadyExists = errors.New("already exists")

	// Service-level errors (generic/internal flow control).
	ErrorInternal = errors.New("internal error")

	// Authentication and principal resolution.
	ErrBadCredentials  = errors.New("bad credentials")
	ErrAccountDisabled = errors.New("account is disabled")
	ErrAccountLocked   = errors.New("account is locked")
	ErrAccountNotFound = errors.New("account not found")
	ErrSameAccount     = errors.New("accounts are the same")

	// Token errors. A token whose signature does not verify is invalid; a
	// correctly signed token past its expiry is expired.
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token expired")

	// Friend requests and friendships.
	ErrAlreadyFriends       = errors.New("users are already friends")
	ErrRequestAlreadyExists = errors.New("friend request already exists")
	ErrRequestNotFound      = errors.New("friend request not found")
	ErrRequestNotPending    = errors.New("friend request is not pending")
	ErrNotFriends           = errors.New("users are not friends")

	// Rooms.
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomNameTaken      = errors.New("room name is already taken")
	ErrNotRoomOwner       = errors.New("not the room owner")
	ErrAlreadyInRoom      = errors.New("user is already in room")
	ErrUserNotInRoom      = errors.New("user is not in room")
	ErrParticipantIsOwner = errors.New("participant is the room owner")

	// Registration and activation.
	ErrEmailTaken            = errors.New("email is already used")
	ErrNicknameTaken         = errors.New("nickname is already used")
	ErrAccountAlreadyEnabled = errors.New("account is already enabled")
)
