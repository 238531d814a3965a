package services

import (
	"context"
	"slices"

	"github.com/dmitrijs2005/together/internal/server/models"
)

// Principal is an account that passed SessionGate for the current call.
// Only SessionGate creates one; the account inside is a snapshot taken at
// resolution time.
type Principal struct {
	account models.Account
}

func newPrincipal(a *models.Account) *Principal {
	p := &Principal{account: *a}
	p.account.Roles = slices.Clone(a.Roles)
	return p
}

func (p *Principal) ID() string {
	return p.account.ID
}

func (p *Principal) Nickname() string {
	return p.account.Nickname
}

func (p *Principal) HasRole(role string) bool {
	return p.account.HasRole(role)
}

// Account returns a copy of the resolved account.
func (p *Principal) Account() models.Account {
	a := p.account
	a.Roles = slices.Clone(p.account.Roles)
	return a
}

type principalKey struct{}

func ContextWithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
