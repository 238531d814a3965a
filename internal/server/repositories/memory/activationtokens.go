package memory

import (
	"context"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/models"
)

type ActivationTokenRepository struct {
	s *Store
}

func (r *ActivationTokenRepository) Save(ctx context.Context, t models.ActivationToken) error {
	return r.s.do(ctx, func(st *state) error {
		st.tokens[t.AccountID] = t
		return nil
	})
}

func (r *ActivationTokenRepository) Get(ctx context.Context, accountID string) (*models.ActivationToken, error) {
	var found *models.ActivationToken
	err := r.s.do(ctx, func(st *state) error {
		t, ok := st.tokens[accountID]
		if !ok {
			return common.ErrorNotFound
		}
		found = &t
		return nil
	})
	return found, err
}

func (r *ActivationTokenRepository) Delete(ctx context.Context, accountID string) error {
	return r.s.do(ctx, func(st *state) error {
		delete(st.tokens, accountID)
		return nil
	})
}
