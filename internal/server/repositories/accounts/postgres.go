// Package accounts implements the account store on PostgreSQL.
package accounts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	emailConstraint    = "accounts_email_key"
	nicknameConstraint = "accounts_nickname_key"
)

// Columns lists the account columns in Scan order, qualified by alias when
// alias is not empty.
func Columns(alias string) string {
	cols := []string{"id", "email", "nickname", "first_name", "last_name", "password_hash", "enabled", "locked", "roles", "created_at"}
	if alias != "" {
		for i, c := range cols {
			cols[i] = alias + "." + c
		}
	}
	return strings.Join(cols, ", ")
}

// Scanner is satisfied by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

// Scan reads one account selected with Columns.
func Scan(row Scanner) (*models.Account, error) {
	a := &models.Account{}
	var roles []byte
	if err := row.Scan(&a.ID, &a.Email, &a.Nickname, &a.FirstName, &a.LastName,
		&a.PasswordHash, &a.Enabled, &a.Locked, &roles, &a.CreatedAt); err != nil {
		return nil, err
	}
	if len(roles) > 0 {
		if err := json.Unmarshal(roles, &a.Roles); err != nil {
			return nil, fmt.Errorf("decode roles: %w", err)
		}
	}
	return a, nil
}

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Save(ctx context.Context, a *models.Account) error {
	roles, err := json.Marshal(a.Roles)
	if err != nil {
		return fmt.Errorf("encode roles: %w", err)
	}

	query :=
		`INSERT INTO accounts (id, email, nickname, first_name, last_name, password_hash, enabled, locked, roles, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		 ON CONFLICT (id) DO UPDATE SET
		   email = EXCLUDED.email, nickname = EXCLUDED.nickname,
		   first_name = EXCLUDED.first_name, last_name = EXCLUDED.last_name,
		   password_hash = EXCLUDED.password_hash, enabled = EXCLUDED.enabled,
		   locked = EXCLUDED.locked, roles = EXCLUDED.roles
		 `

	_, err = r.db.ExecContext(ctx, query, a.ID, a.Email, a.Nickname, a.FirstName, a.LastName,
		a.PasswordHash, a.Enabled, a.Locked, roles, a.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			switch pgErr.ConstraintName {
			case emailConstraint:
				return common.ErrEmailTaken
			case nicknameConstraint:
				return common.ErrNicknameTaken
			}
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.getOne(ctx, `SELECT `+Columns("")+` FROM accounts WHERE id = $1`, id)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.getOne(ctx, `SELECT `+Columns("")+` FROM accounts WHERE email = $1`, email)
}

func (r *PostgresRepository) GetByNickname(ctx context.Context, nickname string) (*models.Account, error) {
	return r.getOne(ctx, `SELECT `+Columns("")+` FROM accounts WHERE nickname = $1`, nickname)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, arg string) (*models.Account, error) {
	a, err := Scan(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || dbx.IsInvalidTextRepresentation(err) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) LockPair(ctx context.Context, a, b string) error {
	query :=
		`SELECT id FROM accounts
		 WHERE id IN ($1, $2)
		 ORDER BY id
		 FOR UPDATE
		 `

	rows, err := r.db.QueryContext(ctx, query, a, b)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func (r *PostgresRepository) SearchCandidates(ctx context.Context, query, excludeID string, page models.Page) ([]models.Account, error) {
	page = page.Normalize()

	q :=
		`SELECT ` + Columns("a") + ` FROM accounts a
		 WHERE a.nickname ILIKE '%' || $1 || '%'
		   AND a.id <> $2
		   AND NOT EXISTS (
		     SELECT 1 FROM friendships f
		     WHERE (f.account_low = $2 AND f.account_high = a.id)
		        OR (f.account_high = $2 AND f.account_low = a.id))
		 ORDER BY a.created_at, a.id
		 LIMIT $3 OFFSET $4
		 `

	rows, err := r.db.QueryContext(ctx, q, likeEscaper.Replace(query), excludeID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	return CollectRows(rows)
}

// CollectRows drains rows selected with Columns.
func CollectRows(rows *sql.Rows) ([]models.Account, error) {
	var result []models.Account
	for rows.Next() {
		a, err := Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
