package memory

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/models"
)

type AccountRepository struct {
	s *Store
}

func (r *AccountRepository) Save(ctx context.Context, a *models.Account) error {
	return r.s.do(ctx, func(st *state) error {
		for id, rec := range st.accounts {
			if id == a.ID {
				continue
			}
			if rec.account.Email == a.Email {
				return common.ErrEmailTaken
			}
			if rec.account.Nickname == a.Nickname {
				return common.ErrNicknameTaken
			}
		}
		rec, ok := st.accounts[a.ID]
		if !ok {
			rec.seq = st.next()
		}
		rec.account = copyAccount(a)
		st.accounts[a.ID] = rec
		return nil
	})
}

func (r *AccountRepository) GetByID(ctx context.Context, id string) (*models.Account, error) {
	return r.find(ctx, func(a *models.Account) bool { return a.ID == id })
}

func (r *AccountRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.find(ctx, func(a *models.Account) bool { return a.Email == email })
}

func (r *AccountRepository) GetByNickname(ctx context.Context, nickname string) (*models.Account, error) {
	return r.find(ctx, func(a *models.Account) bool { return a.Nickname == nickname })
}

func (r *AccountRepository) find(ctx context.Context, match func(*models.Account) bool) (*models.Account, error) {
	var found *models.Account
	err := r.s.do(ctx, func(st *state) error {
		for _, rec := range st.accounts {
			if match(&rec.account) {
				a := copyAccount(&rec.account)
				found = &a
				return nil
			}
		}
		return common.ErrorNotFound
	})
	return found, err
}

// LockPair is a no-op: transactions on Store are already exclusive.
func (r *AccountRepository) LockPair(context.Context, string, string) error {
	return nil
}

func (r *AccountRepository) SearchCandidates(ctx context.Context, query, excludeID string, page models.Page) ([]models.Account, error) {
	var result []models.Account
	err := r.s.do(ctx, func(st *state) error {
		needle := strings.ToLower(query)
		var recs []accountRec
		for id, rec := range st.accounts {
			if id == excludeID || !strings.Contains(strings.ToLower(rec.account.Nickname), needle) {
				continue
			}
			low, high := models.OrderedPair(id, excludeID)
			if _, friends := st.friendships[[2]string{low, high}]; friends {
				continue
			}
			recs = append(recs, rec)
		}
		slices.SortFunc(recs, func(a, b accountRec) int {
			if c := a.account.CreatedAt.Compare(b.account.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.seq, b.seq)
		})
		for _, rec := range window(recs, page) {
			result = append(result, copyAccount(&rec.account))
		}
		return nil
	})
	return result, err
}

func copyAccount(a *models.Account) models.Account {
	c := *a
	c.Roles = slices.Clone(a.Roles)
	return c
}

// window applies page to an already ordered slice.
func window[T any](items []T, page models.Page) []T {
	page = page.Normalize()
	if page.Offset >= len(items) {
		return nil
	}
	end := min(page.Offset+page.Limit, len(items))
	return items[page.Offset:end]
}
