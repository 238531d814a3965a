package friendships

import (
	"context"

	"github.com/dmitrijs2005/together/internal/server/models"
)

// Repository stores friendships as unordered pairs.
type Repository interface {
	Exists(ctx context.Context, a, b string) (bool, error)
	// Create fails with common.ErrorAlreadyExists when the pair is already linked.
	Create(ctx context.Context, f models.Friendship) error
	// ListFriends returns the accounts linked to accountID, oldest link first.
	ListFriends(ctx context.Context, accountID string, page models.Page) ([]models.Account, error)
}
