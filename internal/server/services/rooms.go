package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/dmitrijs2005/together/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// RoomMembershipManager creates and deletes rooms and changes their
// membership. Only the owner may change a room, and only friends of the
// owner can be added. Membership is checked against friendship when a
// participant joins and is not revisited later.
type RoomMembershipManager struct {
	db          dbx.DB
	repomanager repomanager.RepositoryManager
	identity    *IdentityResolver
	now         func() time.Time
}

func NewRoomMembershipManager(db dbx.DB, m repomanager.RepositoryManager, identity *IdentityResolver) *RoomMembershipManager {
	return &RoomMembershipManager{db: db, repomanager: m, identity: identity, now: time.Now}
}

// CreateRoom creates a room owned by owner whose only participant is the
// owner. Names are unique per owner.
func (m *RoomMembershipManager) CreateRoom(ctx context.Context, owner *Principal, name string) (*models.Room, error) {
	var room *models.Room

	err := m.db.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.repomanager.Rooms(tx)

		_, err := repo.GetByOwnerAndName(ctx, owner.ID(), name)
		switch {
		case err == nil:
			return common.ErrRoomNameTaken
		case !errors.Is(err, common.ErrorNotFound):
			return err
		}

		room = models.NewRoom(uuid.NewString(), name, owner.ID(), m.now())
		return repo.Create(ctx, room)
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) || dbx.IsUniqueViolation(err) {
			return nil, common.ErrRoomNameTaken
		}
		return nil, err
	}

	return room, nil
}

// DeleteRoom removes the room and its membership. Only the owner may do it.
func (m *RoomMembershipManager) DeleteRoom(ctx context.Context, p *Principal, roomID string) error {
	return m.db.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := m.ownedRoom(ctx, tx, p, roomID); err != nil {
			return err
		}
		err := m.repomanager.Rooms(tx).Delete(ctx, roomID)
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrRoomNotFound
		}
		return err
	})
}

// AddParticipant adds the account named handle to the room. The target has
// to be a friend of the owner at the time of the call.
func (m *RoomMembershipManager) AddParticipant(ctx context.Context, p *Principal, roomID, handle string) (*models.Room, error) {
	var room *models.Room

	err := m.db.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		room, err = m.ownedRoom(ctx, tx, p, roomID)
		if err != nil {
			return err
		}

		target, err := m.identity.on(tx).ByHandle(ctx, handle)
		if err != nil {
			return err
		}
		if err := RequireDistinct(room.OwnerID, target.ID); err != nil {
			return err
		}

		friends, err := m.repomanager.Friendships(tx).Exists(ctx, room.OwnerID, target.ID)
		if err != nil {
			return err
		}
		if !friends {
			return common.ErrNotFriends
		}

		if err := room.Participants.Add(target.ID); err != nil {
			return err
		}

		err = m.repomanager.Rooms(tx).AddParticipant(ctx, room.ID, target.ID)
		switch {
		case errors.Is(err, common.ErrorAlreadyExists):
			return common.ErrAlreadyInRoom
		case errors.Is(err, common.ErrorNotFound):
			return common.ErrRoomNotFound
		}
		return err
	})
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrAlreadyInRoom
		}
		return nil, err
	}

	return room, nil
}

// RemoveParticipant takes the account named handle out of the room. The
// owner can never be removed.
func (m *RoomMembershipManager) RemoveParticipant(ctx context.Context, p *Principal, roomID, handle string) (*models.Room, error) {
	var room *models.Room

	err := m.db.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		room, err = m.ownedRoom(ctx, tx, p, roomID)
		if err != nil {
			return err
		}

		target, err := m.identity.on(tx).ByHandle(ctx, handle)
		if err != nil {
			return err
		}

		if err := room.Participants.Remove(target.ID); err != nil {
			return err
		}

		err = m.repomanager.Rooms(tx).RemoveParticipant(ctx, room.ID, target.ID)
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrUserNotInRoom
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	return room, nil
}

// ownedRoom loads the room and checks that p owns it.
func (m *RoomMembershipManager) ownedRoom(ctx context.Context, tx dbx.DBTX, p *Principal, roomID string) (*models.Room, error) {
	room, err := m.repomanager.Rooms(tx).GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrRoomNotFound
		}
		return nil, err
	}
	if !room.IsOwner(p.ID()) {
		return nil, common.ErrNotRoomOwner
	}
	return room, nil
}

// ListOwned returns the rooms p owns, oldest first.
func (m *RoomMembershipManager) ListOwned(ctx context.Context, p *Principal) ([]*models.Room, error) {
	return m.repomanager.Rooms(m.db).ListByOwner(ctx, p.ID())
}

// ListBelonging returns the rooms p owns or participates in, oldest first.
func (m *RoomMembershipManager) ListBelonging(ctx context.Context, p *Principal) ([]*models.Room, error) {
	return m.repomanager.Rooms(m.db).ListByMember(ctx, p.ID())
}
