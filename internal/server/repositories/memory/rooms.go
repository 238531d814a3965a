package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/models"
)

type RoomRepository struct {
	s *Store
}

func (r *RoomRepository) Create(ctx context.Context, room *models.Room) error {
	return r.s.do(ctx, func(st *state) error {
		for _, rec := range st.rooms {
			if rec.room.OwnerID == room.OwnerID && rec.room.Name == room.Name {
				return common.ErrorAlreadyExists
			}
		}
		if _, ok := st.rooms[room.ID]; ok {
			return common.ErrorAlreadyExists
		}
		rec := roomRec{room: *room, members: room.Participants.IDs(), seq: st.next()}
		rec.room.Participants = nil
		st.rooms[room.ID] = rec
		return nil
	})
}

func (r *RoomRepository) GetByID(ctx context.Context, id string) (*models.Room, error) {
	return r.getOne(ctx, func(room *models.Room, _ []string) bool { return room.ID == id })
}

func (r *RoomRepository) GetByOwnerAndName(ctx context.Context, ownerID, name string) (*models.Room, error) {
	return r.getOne(ctx, func(room *models.Room, _ []string) bool {
		return room.OwnerID == ownerID && room.Name == name
	})
}

func (r *RoomRepository) getOne(ctx context.Context, match func(*models.Room, []string) bool) (*models.Room, error) {
	list, err := r.list(ctx, match)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, common.ErrorNotFound
	}
	return list[0], nil
}

func (r *RoomRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Room, error) {
	return r.list(ctx, func(room *models.Room, _ []string) bool { return room.OwnerID == ownerID })
}

func (r *RoomRepository) ListByMember(ctx context.Context, accountID string) ([]*models.Room, error) {
	return r.list(ctx, func(_ *models.Room, members []string) bool {
		return slices.Contains(members, accountID)
	})
}

func (r *RoomRepository) list(ctx context.Context, match func(*models.Room, []string) bool) ([]*models.Room, error) {
	var result []*models.Room
	err := r.s.do(ctx, func(st *state) error {
		var recs []roomRec
		for _, rec := range st.rooms {
			if match(&rec.room, rec.members) {
				recs = append(recs, rec)
			}
		}
		slices.SortFunc(recs, func(a, b roomRec) int {
			if c := a.room.CreatedAt.Compare(b.room.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.seq, b.seq)
		})
		for _, rec := range recs {
			room := rec.room
			room.Participants = models.NewParticipantSet(room.OwnerID, rec.members...)
			result = append(result, &room)
		}
		return nil
	})
	return result, err
}

func (r *RoomRepository) AddParticipant(ctx context.Context, roomID, accountID string) error {
	return r.s.do(ctx, func(st *state) error {
		rec, ok := st.rooms[roomID]
		if !ok {
			return common.ErrorNotFound
		}
		if slices.Contains(rec.members, accountID) {
			return common.ErrorAlreadyExists
		}
		rec.members = append(rec.members, accountID)
		st.rooms[roomID] = rec
		return nil
	})
}

func (r *RoomRepository) RemoveParticipant(ctx context.Context, roomID, accountID string) error {
	return r.s.do(ctx, func(st *state) error {
		rec, ok := st.rooms[roomID]
		if !ok {
			return common.ErrorNotFound
		}
		i := slices.Index(rec.members, accountID)
		if i < 0 {
			return common.ErrorNotFound
		}
		rec.members = slices.Delete(rec.members, i, i+1)
		st.rooms[roomID] = rec
		return nil
	})
}

func (r *RoomRepository) Delete(ctx context.Context, roomID string) error {
	return r.s.do(ctx, func(st *state) error {
		if _, ok := st.rooms[roomID]; !ok {
			return common.ErrorNotFound
		}
		delete(st.rooms, roomID)
		return nil
	})
}
