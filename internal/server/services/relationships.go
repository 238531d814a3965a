package services

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/dbx"
	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/dmitrijs2005/together/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// SendOutcome tells the caller what SendRequest ended up doing.
type SendOutcome int

const (
	// RequestSent means a PENDING request now waits for the receiver.
	RequestSent SendOutcome = iota
	// RequestMatched means the receiver had already asked the sender, so the
	// two became friends immediately.
	RequestMatched
)

func (o SendOutcome) String() string {
	if o == RequestMatched {
		return "MATCHED"
	}
	return "SENT"
}

// RelationshipEngine runs the friend request state machine
// (PENDING -> ACCEPTED | REJECTED) and maintains the friendship relation.
//
// Every transition runs in one transaction that first locks both accounts,
// so concurrent operations on the same pair are applied one after another.
// A friendship uniqueness violation surfacing from storage, even at commit,
// is reported as common.ErrAlreadyFriends.
type RelationshipEngine struct {
	db          dbx.DB
	repomanager repomanager.RepositoryManager
	identity    *IdentityResolver
	now         func() time.Time
}

func NewRelationshipEngine(db dbx.DB, m repomanager.RepositoryManager, identity *IdentityResolver) *RelationshipEngine {
	return &RelationshipEngine{db: db, repomanager: m, identity: identity, now: time.Now}
}

// SendRequest asks receiverHandle to become sender's friend. When the
// receiver already has a PENDING request to the sender, that request is
// accepted instead and the friendship is created.
func (e *RelationshipEngine) SendRequest(ctx context.Context, sender *Principal, receiverHandle string) (SendOutcome, error) {
	outcome := RequestSent

	err := e.db.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		receiver, err := e.identity.on(tx).ByHandle(ctx, receiverHandle)
		if err != nil {
			return err
		}
		if err := RequireDistinct(sender.ID(), receiver.ID); err != nil {
			return err
		}
		if err := e.repomanager.Accounts(tx).LockPair(ctx, sender.ID(), receiver.ID); err != nil {
			return err
		}

		friends, err := e.repomanager.Friendships(tx).Exists(ctx, sender.ID(), receiver.ID)
		if err != nil {
			return err
		}
		if friends {
			return common.ErrAlreadyFriends
		}

		requests := e.repomanager.FriendRequests(tx)

		own, err := e.findRequest(ctx, tx, sender.ID(), receiver.ID)
		if err != nil {
			return err
		}
		if own != nil && own.IsPending() {
			return common.ErrRequestAlreadyExists
		}

		reverse, err := e.findRequest(ctx, tx, receiver.ID, sender.ID())
		if err != nil {
			return err
		}
		if reverse != nil && reverse.IsPending() {
			outcome = RequestMatched
			return e.accept(ctx, tx, reverse)
		}

		req := own
		if req == nil {
			req = &models.FriendRequest{ID: uuid.NewString(), SenderID: sender.ID(), ReceiverID: receiver.ID}
		}
		req.Status = models.FriendRequestPending
		req.CreatedAt = e.now()
		return requests.Save(ctx, req)
	})
	if err != nil {
		return RequestSent, alreadyFriendsOnConflict(err)
	}

	return outcome, nil
}

// AcceptRequest accepts the PENDING request senderHandle sent to receiver
// and creates the friendship.
func (e *RelationshipEngine) AcceptRequest(ctx context.Context, receiver *Principal, senderHandle string) error {
	return e.answer(ctx, receiver, senderHandle, func(ctx context.Context, tx dbx.DBTX, req *models.FriendRequest) error {
		return e.accept(ctx, tx, req)
	})
}

// RejectRequest closes the PENDING request senderHandle sent to receiver.
// The sender has to send a new request to try again.
func (e *RelationshipEngine) RejectRequest(ctx context.Context, receiver *Principal, senderHandle string) error {
	return e.answer(ctx, receiver, senderHandle, func(ctx context.Context, tx dbx.DBTX, req *models.FriendRequest) error {
		req.Status = models.FriendRequestRejected
		return e.repomanager.FriendRequests(tx).Save(ctx, req)
	})
}

// answer loads the request sender -> receiver and hands it to apply when it
// is still PENDING. A request already answered yields
// common.ErrRequestNotPending even when the pair became friends, so a
// replayed answer is reported as such.
func (e *RelationshipEngine) answer(ctx context.Context, receiver *Principal, senderHandle string,
	apply func(ctx context.Context, tx dbx.DBTX, req *models.FriendRequest) error) error {

	err := e.db.InTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		sender, err := e.identity.on(tx).ByHandle(ctx, senderHandle)
		if err != nil {
			return err
		}
		if err := RequireDistinct(receiver.ID(), sender.ID); err != nil {
			return err
		}
		if err := e.repomanager.Accounts(tx).LockPair(ctx, receiver.ID(), sender.ID); err != nil {
			return err
		}

		req, err := e.findRequest(ctx, tx, sender.ID, receiver.ID())
		if err != nil {
			return err
		}
		if req != nil && req.Status.Terminal() {
			return common.ErrRequestNotPending
		}

		friends, err := e.repomanager.Friendships(tx).Exists(ctx, receiver.ID(), sender.ID)
		if err != nil {
			return err
		}
		if friends {
			return common.ErrAlreadyFriends
		}
		if req == nil {
			return common.ErrRequestNotFound
		}

		return apply(ctx, tx, req)
	})

	return alreadyFriendsOnConflict(err)
}

// accept marks req ACCEPTED and links the pair.
func (e *RelationshipEngine) accept(ctx context.Context, tx dbx.DBTX, req *models.FriendRequest) error {
	req.Status = models.FriendRequestAccepted
	if err := e.repomanager.FriendRequests(tx).Save(ctx, req); err != nil {
		return err
	}

	return e.repomanager.Friendships(tx).Create(ctx, models.NewFriendship(req.SenderID, req.ReceiverID, e.now()))
}

func (e *RelationshipEngine) findRequest(ctx context.Context, tx dbx.DBTX, senderID, receiverID string) (*models.FriendRequest, error) {
	req, err := e.repomanager.FriendRequests(tx).Get(ctx, senderID, receiverID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return req, nil
}

func alreadyFriendsOnConflict(err error) error {
	if errors.Is(err, common.ErrorAlreadyExists) || dbx.IsUniqueViolation(err) {
		return common.ErrAlreadyFriends
	}
	return err
}

// ListFriends returns the account's friends, oldest friendship first.
func (e *RelationshipEngine) ListFriends(ctx context.Context, p *Principal, page models.Page) ([]models.Account, error) {
	return e.repomanager.Friendships(e.db).ListFriends(ctx, p.ID(), page.Normalize())
}

// ListPendingReceived returns the senders of PENDING requests addressed to
// the account, oldest request first.
func (e *RelationshipEngine) ListPendingReceived(ctx context.Context, p *Principal, page models.Page) ([]models.Account, error) {
	return e.repomanager.FriendRequests(e.db).ListPendingSenders(ctx, p.ID(), page.Normalize())
}

// SearchCandidates lists accounts whose nickname contains query, ignoring
// case, leaving out the account itself and its friends.
func (e *RelationshipEngine) SearchCandidates(ctx context.Context, p *Principal, query string, page models.Page) ([]models.Account, error) {
	return e.repomanager.Accounts(e.db).SearchCandidates(ctx, query, p.ID(), page.Normalize())
}
