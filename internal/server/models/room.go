package models

import (
	"slices"
	"time"

	"github.com/dmitrijs2005/together/internal/common"
)

type Room struct {
	ID           string
	Name         string
	OwnerID      string
	Participants *ParticipantSet
	CreatedAt    time.Time
}

// NewRoom returns a room whose participant set is exactly {owner}.
func NewRoom(id, name, ownerID string, createdAt time.Time) *Room {
	return &Room{
		ID:           id,
		Name:         name,
		OwnerID:      ownerID,
		Participants: NewParticipantSet(ownerID),
		CreatedAt:    createdAt,
	}
}

// IsOwner reports whether accountID owns the room.
func (r *Room) IsOwner(accountID string) bool {
	return r.OwnerID == accountID
}

// ParticipantSet is the membership of a room. The owner is a member from
// construction on and no mutation can take it out.
type ParticipantSet struct {
	owner   string
	members []string
}

// NewParticipantSet builds a set holding owner followed by others in order.
// Duplicates and repeats of the owner are dropped.
func NewParticipantSet(owner string, others ...string) *ParticipantSet {
	s := &ParticipantSet{owner: owner, members: []string{owner}}
	for _, id := range others {
		if !s.Contains(id) {
			s.members = append(s.members, id)
		}
	}
	return s
}

func (s *ParticipantSet) Owner() string {
	return s.owner
}

func (s *ParticipantSet) Contains(accountID string) bool {
	return slices.Contains(s.members, accountID)
}

// Add inserts accountID. It fails with common.ErrAlreadyInRoom when the
// account is already a member.
func (s *ParticipantSet) Add(accountID string) error {
	if s.Contains(accountID) {
		return common.ErrAlreadyInRoom
	}
	s.members = append(s.members, accountID)
	return nil
}

// Remove takes accountID out of the set. The owner can never be removed.
func (s *ParticipantSet) Remove(accountID string) error {
	if accountID == s.owner {
		return common.ErrParticipantIsOwner
	}
	i := slices.Index(s.members, accountID)
	if i < 0 {
		return common.ErrUserNotInRoom
	}
	s.members = slices.Delete(s.members, i, i+1)
	return nil
}

// IDs returns the members, owner first, then in insertion order.
func (s *ParticipantSet) IDs() []string {
	return slices.Clone(s.members)
}

func (s *ParticipantSet) Len() int {
	return len(s.members)
}
