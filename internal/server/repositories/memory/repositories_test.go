package memory

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/together/internal/common"
	"github.com/dmitrijs2005/together/internal/server/models"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nicknames(list []models.Account) []string {
	return lo.Map(list, func(a models.Account, _ int) string { return a.Nickname })
}

func TestAccounts_UniqueFields(t *testing.T) {
	s, m := newManager(t)
	repo := m.Accounts(s)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, account("alice")))

	dup := account("alice2")
	dup.Email = "alice@example.com"
	assert.ErrorIs(t, repo.Save(ctx, dup), common.ErrEmailTaken)

	dup = account("alice3")
	dup.Nickname = "alice"
	assert.ErrorIs(t, repo.Save(ctx, dup), common.ErrNicknameTaken)

	again := account("alice")
	again.Locked = true
	require.NoError(t, repo.Save(ctx, again))
	got, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.True(t, got.Locked)
}

func TestAccounts_ReturnsCopies(t *testing.T) {
	s, m := newManager(t)
	repo := m.Accounts(s)
	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, account("alice")))

	got, err := repo.GetByNickname(ctx, "alice")
	require.NoError(t, err)
	got.Roles[0] = "ADMIN"

	again, err := repo.GetByNickname(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"USER"}, again.Roles)
}

func TestAccounts_SearchCandidates(t *testing.T) {
	s, m := newManager(t)
	repo := m.Accounts(s)
	ctx := context.Background()
	for _, id := range []string{"alice", "bob", "carol", "carla", "dave"} {
		require.NoError(t, repo.Save(ctx, account(id)))
	}
	require.NoError(t, m.Friendships(s).Create(ctx, models.NewFriendship("carol", "alice", t0)))

	got, err := repo.SearchCandidates(ctx, "CAR", "alice", models.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"carla"}, nicknames(got))

	got, err = repo.SearchCandidates(ctx, "", "alice", models.Page{Offset: 1, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"carla", "dave"}, nicknames(got))
}

func TestFriendRequests_SaveKeepsIDOnRepeat(t *testing.T) {
	s, m := newManager(t)
	repo := m.FriendRequests(s)
	ctx := context.Background()

	req := &models.FriendRequest{ID: "r-1", SenderID: "alice", ReceiverID: "bob", Status: models.FriendRequestRejected, CreatedAt: t0}
	require.NoError(t, repo.Save(ctx, req))

	again := &models.FriendRequest{ID: "r-2", SenderID: "alice", ReceiverID: "bob", Status: models.FriendRequestPending, CreatedAt: t0.Add(time.Minute)}
	require.NoError(t, repo.Save(ctx, again))
	assert.Equal(t, "r-1", again.ID)

	got, err := repo.Get(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, models.FriendRequestPending, got.Status)

	_, err = repo.Get(ctx, "bob", "alice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestFriendRequests_ListPendingSenders(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()
	for _, id := range []string{"alice", "bob", "carol", "dave"} {
		require.NoError(t, m.Accounts(s).Save(ctx, account(id)))
	}
	repo := m.FriendRequests(s)
	require.NoError(t, repo.Save(ctx, &models.FriendRequest{ID: "1", SenderID: "carol", ReceiverID: "dave", Status: models.FriendRequestPending, CreatedAt: t0}))
	require.NoError(t, repo.Save(ctx, &models.FriendRequest{ID: "2", SenderID: "bob", ReceiverID: "dave", Status: models.FriendRequestPending, CreatedAt: t0}))
	require.NoError(t, repo.Save(ctx, &models.FriendRequest{ID: "3", SenderID: "alice", ReceiverID: "dave", Status: models.FriendRequestRejected, CreatedAt: t0}))

	got, err := repo.ListPendingSenders(ctx, "dave", models.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"carol", "bob"}, nicknames(got))
}

func TestFriendships(t *testing.T) {
	s, m := newManager(t)
	ctx := context.Background()
	for _, id := range []string{"alice", "bob", "carol"} {
		require.NoError(t, m.Accounts(s).Save(ctx, account(id)))
	}
	repo := m.Friendships(s)

	require.NoError(t, repo.Create(ctx, models.Friendship{AccountLow: "bob", AccountHigh: "alice", CreatedAt: t0}))
	assert.ErrorIs(t, repo.Create(ctx, models.NewFriendship("alice", "bob", t0)), common.ErrorAlreadyExists)
	require.NoError(t, repo.Create(ctx, models.NewFriendship("carol", "alice", t0)))

	ok, err := repo.Exists(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repo.ListFriends(ctx, "alice", models.Page{})
	require.NoError(t, err)
	assert.Equal(t, []string{"bob", "carol"}, nicknames(got))

	got, err = repo.ListFriends(ctx, "alice", models.Page{Offset: 5})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRooms(t *testing.T) {
	s, m := newManager(t)
	repo := m.Rooms(s)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, models.NewRoom("r-1", "Trip", "alice", t0)))
	assert.ErrorIs(t, repo.Create(ctx, models.NewRoom("r-2", "Trip", "alice", t0)), common.ErrorAlreadyExists)
	require.NoError(t, repo.Create(ctx, models.NewRoom("r-3", "Trip", "bob", t0)))

	require.NoError(t, repo.AddParticipant(ctx, "r-1", "bob"))
	assert.ErrorIs(t, repo.AddParticipant(ctx, "r-1", "bob"), common.ErrorAlreadyExists)

	room, err := repo.GetByOwnerAndName(ctx, "alice", "Trip")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, room.Participants.IDs())

	rooms, err := repo.ListByMember(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"r-1", "r-3"}, lo.Map(rooms, func(r *models.Room, _ int) string { return r.ID }))

	owned, err := repo.ListByOwner(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, owned, 1)

	require.NoError(t, repo.RemoveParticipant(ctx, "r-1", "bob"))
	assert.ErrorIs(t, repo.RemoveParticipant(ctx, "r-1", "bob"), common.ErrorNotFound)

	require.NoError(t, repo.Delete(ctx, "r-1"))
	_, err = repo.GetByID(ctx, "r-1")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestActivationTokens(t *testing.T) {
	s, m := newManager(t)
	repo := m.ActivationTokens(s)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, models.ActivationToken{AccountID: "a", Code: "1", ExpiresAt: t0}))
	require.NoError(t, repo.Save(ctx, models.ActivationToken{AccountID: "a", Code: "2", ExpiresAt: t0}))

	got, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "2", got.Code)

	require.NoError(t, repo.Delete(ctx, "a"))
	_, err = repo.Get(ctx, "a")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
