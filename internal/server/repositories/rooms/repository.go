package rooms

import (
	"context"

	"github.com/dmitrijs2005/together/internal/server/models"
)

// Repository is the room store. Rooms are loaded together with their
// participant set; the owner is always stored as a participant.
type Repository interface {
	// Create stores the room and its participants. A second room with the
	// same owner and name fails with common.ErrorAlreadyExists.
	Create(ctx context.Context, room *models.Room) error
	GetByID(ctx context.Context, id string) (*models.Room, error)
	GetByOwnerAndName(ctx context.Context, ownerID, name string) (*models.Room, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Room, error)
	// ListByMember returns every room accountID participates in, owned ones included.
	ListByMember(ctx context.Context, accountID string) ([]*models.Room, error)
	// AddParticipant fails with common.ErrorAlreadyExists on a repeat and
	// with common.ErrorNotFound when the room is gone.
	AddParticipant(ctx context.Context, roomID, accountID string) error
	// RemoveParticipant fails with common.ErrorNotFound when nothing was removed.
	RemoveParticipant(ctx context.Context, roomID, accountID string) error
	// Delete removes the room and its participants.
	Delete(ctx context.Context, roomID string) error
}
