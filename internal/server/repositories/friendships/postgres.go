package friendships

import (
	"context"
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

func (r *PostgresRepository) Exists(ctx context.Context, a, b string) (bool, error) {
	low, high := models.OrderedPair(a, b)

	query :=
		`SELECT EXISTS (
		   SELECT 1 FROM friendships WHERE account_low = $1 AND account_high = $2)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, low, high).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) Create(ctx context.Context, f models.Friendship) error {
	low, high := models.OrderedPair(f.AccountLow, f.AccountHigh)

	query :=
		`INSERT INTO friendships (account_low, account_high, created_at)
		 VALUES ($1, $2, $3)
		 `

	if _, err := r.db.ExecContext(ctx, query, low, high, f.CreatedAt); err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ListFriends(ctx context.Context, accountID string, page models.Page) ([]models.Account, error) {
	page = page.Normalize()

	query :=
		`SELECT ` + accounts.Columns("a") + `
		 FROM friendships f
		 JOIN accounts a ON a.id = CASE WHEN f.account_low = $1 THEN f.account_high ELSE f.account_low END
		 WHERE f.account_low = $1 OR f.account_high = $1
		 ORDER BY f.created_at, a.id
		 LIMIT $2 OFFSET $3
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return accounts.CollectRows(rows)
}
