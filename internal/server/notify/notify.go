// Package notify delivers activation codes to account holders.
package notify

import (
	"context"
	"time"

	"github.com/dmitrijs2005/together/internal/logging"
	"github.com/dmitrijs2005/together/internal/server/models"
)

// Notifier hands an activation code to its account holder.
type Notifier interface {
	SendActivationCode(ctx context.Context, account models.Account, code string, expiresAt time.Time) error
}

// LogNotifier writes activation codes to the server log. It stands in for
// an email gateway in development and single-node setups.
type LogNotifier struct {
	log logging.Logger
}

func NewLogNotifier(log logging.Logger) *LogNotifier {
	return &LogNotifier{log: log.With("module", "notify")}
}

func (n *LogNotifier) SendActivationCode(ctx context.Context, account models.Account, code string, expiresAt time.Time) error {
	n.log.Info(ctx, "activation code issued",
		"account_id", account.ID,
		"email", account.Email,
		"name", account.FullName(),
		"code", code,
		"expires_at", expiresAt.UTC().Format(time.RFC3339),
	)
	return nil
}
