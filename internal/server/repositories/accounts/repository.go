package accounts

import (
	"context"

	"github.com/dmitrijs2005/together/internal/server/models"
)

// Repository is the account store. Lookups are exact, case-sensitive matches
// and fail with common.ErrorNotFound when nothing matches.
type Repository interface {
	// Save inserts the account or updates it when the id already exists.
	// A clash on email or nickname yields common.ErrEmailTaken or
	// common.ErrNicknameTaken.
	Save(ctx context.Context, account *models.Account) error
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	GetByNickname(ctx context.Context, nickname string) (*models.Account, error)
	// LockPair takes row locks on both accounts in id order for the rest of
	// the surrounding transaction.
	LockPair(ctx context.Context, a, b string) error
	// SearchCandidates lists accounts whose nickname contains query,
	// excluding excludeID and everyone already friends with it.
	SearchCandidates(ctx context.Context, query, excludeID string, page models.Page) ([]models.Account, error)
}
