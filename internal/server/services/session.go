package services

import (
	"context"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/auth"
)

// SessionGate turns a raw session token into a Principal.
type SessionGate struct {
	tokens   *auth.TokenService
	identity *IdentityResolver
}

func NewSessionGate(tokens *auth.TokenService, identity *IdentityResolver) *SessionGate {
	return &SessionGate{tokens: tokens, identity: identity}
}

// ResolvePrincipal verifies rawToken and loads its subject. Account state is
// checked on every call, so a token issued before an account was disabled or
// locked stops working right away.
//
// Errors: common.ErrBadCredentials (no token), common.ErrInvalidToken,
// common.ErrTokenExpired, common.ErrAccountNotFound, common.ErrAccountDisabled,
// common.ErrAccountLocked, or a storage failure.
func (g *SessionGate) ResolvePrincipal(ctx context.Context, rawToken string) (*Principal, error) {
	if rawToken == "" {
		return nil, common.ErrBadCredentials
	}

	subject, err := g.tokens.SubjectOf(rawToken)
	if err != nil {
		return nil, err
	}

	account, err := g.identity.ByID(ctx, subject)
	if err != nil {
		return nil, err
	}

	switch {
	case !account.Enabled:
		return nil, common.ErrAccountDisabled
	case account.Locked:
		return nil, common.ErrAccountLocked
	}

	return newPrincipal(account), nil
}
