package models

import "time"

type FriendRequestStatus string

const (
	FriendRequestPending  FriendRequestStatus = "PENDING"
	FriendRequestAccepted FriendRequestStatus = "ACCEPTED"
	FriendRequestRejected FriendRequestStatus = "REJECTED"
)

// Terminal reports whether no further transition is allowed from s.
func (s FriendRequestStatus) Terminal() bool {
	return s == FriendRequestAccepted || s == FriendRequestRejected
}

// FriendRequest is the single row kept per ordered (sender, receiver) pair.
type FriendRequest struct {
	ID         string
	SenderID   string
	ReceiverID string
	Status     FriendRequestStatus
	CreatedAt  time.Time
}

// IsPending reports whether the request still awaits the receiver.
func (r *FriendRequest) IsPending() bool {
	return r.Status == FriendRequestPending
}
