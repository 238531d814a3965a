package rooms

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/models"
)

const selectRooms = `SELECT r.id, r.name, r.owner_id, r.created_at, p.account_id
		 FROM rooms r
		 LEFT JOIN room_participants p ON p.room_id = r.id
		 `

const orderRooms = `
		 ORDER BY r.created_at, r.id, p.added_at, p.account_id
		 `

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create must run inside a transaction: it writes the room and then one row
// per participant.
func (r *PostgresRepository) Create(ctx context.Context, room *models.Room) error {
	query :=
		`INSERT INTO rooms (id, name, owner_id, created_at)
		 VALUES ($1, $2, $3, $4)
		 `

	if _, err := r.db.ExecContext(ctx, query, room.ID, room.Name, room.OwnerID, room.CreatedAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	for _, id := range room.Participants.IDs() {
		if err := r.AddParticipant(ctx, room.ID, id); err != nil {
			return err
		}
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Room, error) {
	return r.getOne(ctx, selectRooms+`WHERE r.id = $1`+orderRooms, id)
}

func (r *PostgresRepository) GetByOwnerAndName(ctx context.Context, ownerID, name string) (*models.Room, error) {
	return r.getOne(ctx, selectRooms+`WHERE r.owner_id = $1 AND r.name = $2`+orderRooms, ownerID, name)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Room, error) {
	list, err := r.list(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, err
	}
	if len(list) == 0 {
		return nil, common.ErrorNotFound
	}
	return list[0], nil
}

func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Room, error) {
	return r.list(ctx, selectRooms+`WHERE r.owner_id = $1`+orderRooms, ownerID)
}

func (r *PostgresRepository) ListByMember(ctx context.Context, accountID string) ([]*models.Room, error) {
	query := selectRooms +
		`WHERE r.id IN (SELECT room_id FROM room_participants WHERE account_id = $1)` +
		orderRooms
	return r.list(ctx, query, accountID)
}

// list folds the room/participant join into rooms, keeping row order.
func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]*models.Room, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	type acc struct {
		room    *models.Room
		members []string
	}
	var order []*acc
	byID := map[string]*acc{}

	for rows.Next() {
		var (
			id, name, owner string
			created         time.Time
			participant     sql.NullString
		)
		if err := rows.Scan(&id, &name, &owner, &created, &participant); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		a, ok := byID[id]
		if !ok {
			a = &acc{room: &models.Room{ID: id, Name: name, OwnerID: owner, CreatedAt: created}}
			byID[id] = a
			order = append(order, a)
		}
		if participant.Valid {
			a.members = append(a.members, participant.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	result := make([]*models.Room, 0, len(order))
	for _, a := range order {
		a.room.Participants = models.NewParticipantSet(a.room.OwnerID, a.members...)
		result = append(result, a.room)
	}
	return result, nil
}

func (r *PostgresRepository) AddParticipant(ctx context.Context, roomID, accountID string) error {
	query :=
		`INSERT INTO room_participants (room_id, account_id)
		 VALUES ($1, $2)
		 `

	if _, err := r.db.ExecContext(ctx, query, roomID, accountID); err != nil {
		switch {
		case dbx.IsUniqueViolation(err):
			return common.ErrorAlreadyExists
		case dbx.IsForeignKeyViolation(err), dbx.IsInvalidTextRepresentation(err):
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveParticipant(ctx context.Context, roomID, accountID string) error {
	query :=
		`DELETE FROM room_participants
		 WHERE room_id = $1 AND account_id = $2
		 `

	return r.execOne(ctx, query, roomID, accountID)
}

func (r *PostgresRepository) Delete(ctx context.Context, roomID string) error {
	return r.execOne(ctx, `DELETE FROM rooms WHERE id = $1`, roomID)
}

func (r *PostgresRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		if dbx.IsInvalidTextRepresentation(err) {
			return common.ErrorNotFound
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
