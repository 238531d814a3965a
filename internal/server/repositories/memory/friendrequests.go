package memory

import (
	"cmp"
	"context"
	"slices"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/models"
)

type FriendRequestRepository struct {
	s *Store
}

func (r *FriendRequestRepository) Get(ctx context.Context, senderID, receiverID string) (*models.FriendRequest, error) {
	var found *models.FriendRequest
	err := r.s.do(ctx, func(st *state) error {
		rec, ok := st.requests[[2]string{senderID, receiverID}]
		if !ok {
			return common.ErrorNotFound
		}
		req := rec.req
		found = &req
		return nil
	})
	return found, err
}

func (r *FriendRequestRepository) Save(ctx context.Context, req *models.FriendRequest) error {
	return r.s.do(ctx, func(st *state) error {
		key := [2]string{req.SenderID, req.ReceiverID}
		rec, ok := st.requests[key]
		if ok {
			req.ID = rec.req.ID
		}
		if !ok || rec.req.CreatedAt != req.CreatedAt {
			rec.seq = st.next()
		}
		rec.req = *req
		st.requests[key] = rec
		return nil
	})
}

func (r *FriendRequestRepository) ListPendingSenders(ctx context.Context, receiverID string, page models.Page) ([]models.Account, error) {
	var result []models.Account
	err := r.s.do(ctx, func(st *state) error {
		var recs []requestRec
		for _, rec := range st.requests {
			if rec.req.ReceiverID == receiverID && rec.req.IsPending() {
				recs = append(recs, rec)
			}
		}
		slices.SortFunc(recs, func(a, b requestRec) int {
			if c := a.req.CreatedAt.Compare(b.req.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.seq, b.seq)
		})
		for _, rec := range window(recs, page) {
			if a, ok := st.accounts[rec.req.SenderID]; ok {
				result = append(result, copyAccount(&a.account))
			}
		}
		return nil
	})
	return result, err
}
