package friendrequests

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/dmitrijs2005/together/internal/server/repositories/accounts"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error) {
	query :=
		`SELECT id, sender_id, receiver_id, status, created_at
		 FROM friend_requests
		 WHERE sender_id = $1 AND receiver_id = $2
		 `

	req := &models.FriendRequest{}
	var status string
	err := r.db.QueryRowContext(ctx, query, senderID, receiverID).
		Scan(&req.ID, &req.SenderID, &req.ReceiverID, &status, &req.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	req.Status = models.FriendRequestStatus(status)

	return req, nil
}

func (r *PostgresRepository) Save(ctx context.Context, req *models.FriendRequest) error {
	query :=
		`INSERT INTO friend_requests (id, sender_id, receiver_id, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (sender_id, receiver_id) DO UPDATE SET
		   status = EXCLUDED.status, created_at = EXCLUDED.created_at
		 RETURNING id
		 `

	var id string
	err := r.db.QueryRowContext(ctx, query, req.ID, req.SenderID, req.ReceiverID, string(req.Status), req.CreatedAt).Scan(&id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	req.ID = id

	return nil
}

func (r *PostgresRepository) ListPendingSenders(ctx context.Context, receiverID string, page models.Page) ([]models.Account, error) {
	page = page.Normalize()

	query :=
		`SELECT ` + accounts.Columns("a") + `
		 FROM friend_requests fr
		 JOIN accounts a ON a.id = fr.sender_id
		 WHERE fr.receiver_id = $1 AND fr.status = 'PENDING'
		 ORDER BY fr.created_at, fr.id
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, receiverID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return accounts.CollectRows(rows)
}
