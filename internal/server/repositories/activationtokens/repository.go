package activationtokens

import (
	"context"

	"github.com/dmitrijs2005/together/internal/server/models"
)

// Repository keeps at most one pending activation code per account.
type Repository interface {
	// Save stores t, replacing any code already held for the account.
	Save(ctx context.Context, t models.ActivationToken) error
	Get(ctx context.Context, accountID string) (*models.ActivationToken, error)
	Delete(ctx context.Context, accountID string) error
}
