package activationtokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, t models.ActivationToken) error {
	query :=
		`INSERT INTO activation_tokens (account_id, code, expires_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (account_id) DO UPDATE SET code = EXCLUDED.code, expires_at = EXCLUDED.expires_at
		 `

	if _, err := r.db.ExecContext(ctx, query, t.AccountID, t.Code, t.ExpiresAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, accountID string) (*models.ActivationToken, error) {
	query := `SELECT account_id, code, expires_at FROM activation_tokens WHERE account_id = $1`

	t := &models.ActivationToken{}
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&t.AccountID, &t.Code, &t.ExpiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, accountID string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM activation_tokens WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
