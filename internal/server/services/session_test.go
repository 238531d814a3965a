package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrincipal_Success(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "alice")

	p := e.login(t, "alice")
	assert.Equal(t, "id-alice", p.ID())
	assert.Equal(t, "alice", p.Nickname())
	assert.True(t, p.HasRole("USER"))
}

func TestResolvePrincipal_Failures(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "alice", "bob", "carol")
	ctx := context.Background()

	require.NoError(t, e.accounts.SetEnabled(ctx, "id-bob", false))
	require.NoError(t, e.accounts.SetLocked(ctx, "id-carol", true))

	issue := func(subject string) string {
		tok, err := e.tokens.Issue(subject)
		require.NoError(t, err)
		return tok
	}
	expired, err := auth.NewTokenService([]byte("test-secret"), -time.Minute).Issue("id-alice")
	require.NoError(t, err)
	foreign, err := auth.NewTokenService([]byte("other-secret"), time.Hour).Issue("id-alice")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		want  error
	}{
		{"missing", "", common.ErrBadCredentials},
		{"garbage", "not-a-token", common.ErrInvalidToken},
		{"foreign signature", foreign, common.ErrInvalidToken},
		{"expired", expired, common.ErrTokenExpired},
		{"unknown subject", issue("id-ghost"), common.ErrAccountNotFound},
		{"disabled", issue("id-bob"), common.ErrAccountDisabled},
		{"locked", issue("id-carol"), common.ErrAccountLocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := e.gate.ResolvePrincipal(ctx, tt.token)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, p)
		})
	}
}

func TestResolvePrincipal_RejectsTokenAfterDeactivation(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "alice")
	ctx := context.Background()

	token, err := e.tokens.Issue("id-alice")
	require.NoError(t, err)
	_, err = e.gate.ResolvePrincipal(ctx, token)
	require.NoError(t, err)

	require.NoError(t, e.accounts.SetEnabled(ctx, "id-alice", false))

	_, err = e.gate.ResolvePrincipal(ctx, token)
	assert.ErrorIs(t, err, common.ErrAccountDisabled)
}

func TestPrincipalContext(t *testing.T) {
	e := newEnv(t)
	e.seed(t, "alice")

	_, ok := PrincipalFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithPrincipal(context.Background(), e.login(t, "alice"))
	p, ok := PrincipalFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, "id-alice", p.ID())

	acc := p.Account()
	acc.Roles[0] = "ADMIN"
	assert.False(t, p.HasRole("ADMIN"))
}
