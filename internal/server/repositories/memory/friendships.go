package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/models"
)

type FriendshipRepository struct {
	s *Store
}

func (r *FriendshipRepository) Exists(ctx context.Context, a, b string) (bool, error) {
	var exists bool
	err := r.s.do(ctx, func(st *state) error {
		low, high := models.OrderedPair(a, b)
		_, exists = st.friendships[[2]string{low, high}]
		return nil
	})
	return exists, err
}

func (r *FriendshipRepository) Create(ctx context.Context, f models.Friendship) error {
	return r.s.do(ctx, func(st *state) error {
		f = models.NewFriendship(f.AccountLow, f.AccountHigh, f.CreatedAt)
		key := [2]string{f.AccountLow, f.AccountHigh}
		if _, ok := st.friendships[key]; ok {
			return common.ErrorAlreadyExists
		}
		st.friendships[key] = friendshipRec{f: f, seq: st.next()}
		return nil
	})
}

func (r *FriendshipRepository) ListFriends(ctx context.Context, accountID string, page models.Page) ([]models.Account, error) {
	var result []models.Account
	err := r.s.do(ctx, func(st *state) error {
		var recs []friendshipRec
		for _, rec := range st.friendships {
			if rec.f.AccountLow == accountID || rec.f.AccountHigh == accountID {
				recs = append(recs, rec)
			}
		}
		slices.SortFunc(recs, func(a, b friendshipRec) int {
			if c := a.f.CreatedAt.Compare(b.f.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.seq, b.seq)
		})
		for _, rec := range window(recs, page) {
			if a, ok := st.accounts[rec.f.Other(accountID)]; ok {
				result = append(result, copyAccount(&a.account))
			}
		}
		return nil
	})
	return result, err
}
