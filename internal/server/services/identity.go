package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/dmitrijs2005/together/internal/server/repositories/repomanager"
)

// IdentityResolver looks accounts up by id, email or nickname. Lookups are
// exact and case-sensitive. A missing account yields common.ErrAccountNotFound;
// storage failures are returned as they are.
type IdentityResolver struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
}

func NewIdentityResolver(db dbx.DBTX, m repomanager.RepositoryManager) *IdentityResolver {
	return &IdentityResolver{db: db, repomanager: m}
}

// on returns a resolver reading through tx.
func (r *IdentityResolver) on(tx dbx.DBTX) *IdentityResolver {
	return &IdentityResolver{db: tx, repomanager: r.repomanager}
}

func (r *IdentityResolver) ByID(ctx context.Context, id string) (*models.Account, error) {
	return lookup(r.repomanager.Accounts(r.db).GetByID(ctx, id))
}

func (r *IdentityResolver) ByEmail(ctx context.Context, email string) (*models.Account, error) {
	return lookup(r.repomanager.Accounts(r.db).GetByEmail(ctx, email))
}

// ByHandle resolves a nickname.
func (r *IdentityResolver) ByHandle(ctx context.Context, nickname string) (*models.Account, error) {
	return lookup(r.repomanager.Accounts(r.db).GetByNickname(ctx, nickname))
}

func lookup(a *models.Account, err error) (*models.Account, error) {
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrAccountNotFound
		}
		return nil, err
	}
	return a, nil
}

// RequireDistinct fails with common.ErrSameAccount when both ids are equal.
func RequireDistinct(a, b string) error {
	if a == b {
		return common.ErrSameAccount
	}
	return nil
}
