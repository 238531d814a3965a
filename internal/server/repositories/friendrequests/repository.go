package friendrequests

import (
	"context"

	"github.com/dmitrijs2005/together/internal/server/models"
)

// Repository keeps at most one request per ordered (sender, receiver) pair.
type Repository interface {
	// Get returns the request sent by sender to receiver or common.ErrorNotFound.
	Get(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error)
	// Save stores the request, replacing status and creation time of an
	// existing request for the same pair. The stored id is written back.
	Save(ctx context.Context, req *models.FriendRequest) error
	// ListPendingSenders returns the senders of PENDING requests addressed to
	// receiver, oldest request first.
	ListPendingSenders(ctx context.Context, receiverID string, page models.Page) ([]models.Account, error)
}
