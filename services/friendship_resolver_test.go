package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"duskSkyWeb/internal/friendshiptest"
	"duskSkyWeb/internal/types/friendship"
)

// An empty viewer is an anonymous visitor, so Resolve("", "userX") is
// not_friends rather than InvalidArgument. Only an empty profile id is
// rejected, see TestResolve_EmptyProfileIsInvalid.
func TestResolve_AnonymousViewer(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	dir.AddFriendship("alice", "bob")
	resolver := NewFriendshipResolver(dir, 0)

	for _, profileID := range []string{"userX", "alice", "bob", "nobody"} {
		rel, err := resolver.Resolve(context.Background(), "", profileID)
		require.NoError(t, err)
		assert.Equal(t, friendship.NotFriends(), rel)
	}
	assert.Zero(t, dir.Calls(friendshiptest.OpFriends))
	assert.Zero(t, dir.Calls(friendshiptest.OpPending))
}

func TestResolve_Self(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	dir.AddRequest("alice", "alice")
	resolver := NewFriendshipResolver(dir, 0)

	rel, err := resolver.Resolve(context.Background(), "alice", "alice")
	require.NoError(t, err)
	assert.Equal(t, friendship.Self(), rel)
	assert.Zero(t, dir.Calls(friendshiptest.OpPending))
}

func TestResolve_EmptyProfileIsInvalid(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	resolver := NewFriendshipResolver(dir, 0)

	_, err := resolver.Resolve(context.Background(), "userX", "")
	assert.ErrorIs(t, err, friendship.ErrInvalidArgument)

	_, err = resolver.Resolve(context.Background(), "", "")
	assert.ErrorIs(t, err, friendship.ErrInvalidArgument)

	assert.Zero(t, dir.Calls(friendshiptest.OpFriends))
	assert.Zero(t, dir.Calls(friendshiptest.OpPending))
}

func TestResolve_FriendsEitherDirection(t *testing.T) {
	tests := []struct {
		name     string
		sender   string
		receiver string
	}{
		{name: "alice sent", sender: "alice", receiver: "bob"},
		{name: "bob sent", sender: "bob", receiver: "alice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := friendshiptest.NewDirectory()
			dir.AddFriendship(tt.sender, tt.receiver)
			// Stale pending records in both directions must not win.
			dir.AddRequest("alice", "bob")
			dir.AddRequest("bob", "alice")
			resolver := NewFriendshipResolver(dir, 0)

			ab, err := resolver.Resolve(context.Background(), "alice", "bob")
			require.NoError(t, err)
			ba, err := resolver.Resolve(context.Background(), "bob", "alice")
			require.NoError(t, err)

			assert.Equal(t, friendship.Friends(), ab)
			assert.Equal(t, friendship.Friends(), ba)
		})
	}
}

func TestResolve_PendingSymmetry(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	requestID := dir.AddRequest("bob", "alice")
	resolver := NewFriendshipResolver(dir, 0)

	ab, err := resolver.Resolve(context.Background(), "alice", "bob")
	require.NoError(t, err)
	ba, err := resolver.Resolve(context.Background(), "bob", "alice")
	require.NoError(t, err)

	assert.Equal(t, friendship.PendingIncoming(requestID), ab)
	assert.Equal(t, friendship.PendingOutgoing(requestID), ba)
}

func TestResolve_IncomingBeatsOutgoing(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	incoming := dir.AddRequest("bob", "alice")
	dir.AddRequest("alice", "bob")
	resolver := NewFriendshipResolver(dir, 0)

	rel, err := resolver.Resolve(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, friendship.PendingIncoming(incoming), rel)
}

func TestResolve_NotFriendsSymmetry(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	dir.AddFriendship("alice", "carol")
	dir.AddRequest("dave", "bob")
	dir.AddRequestWithStatus("alice", "bob", friendship.FriendshipRejected)
	resolver := NewFriendshipResolver(dir, 0)

	ab, err := resolver.Resolve(context.Background(), "alice", "bob")
	require.NoError(t, err)
	ba, err := resolver.Resolve(context.Background(), "bob", "alice")
	require.NoError(t, err)

	assert.Equal(t, friendship.NotFriends(), ab)
	assert.Equal(t, friendship.NotFriends(), ba)
}

func TestResolve_Idempotent(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	dir.AddRequest("bob", "alice")
	resolver := NewFriendshipResolver(dir, 0)

	first, err := resolver.Resolve(context.Background(), "alice", "bob")
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_SendThenAcceptScenario(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	resolver := NewFriendshipResolver(dir, 0)
	ctx := context.Background()

	r1, err := dir.CreateRequest(ctx, "alice", "bob")
	require.NoError(t, err)

	ab, err := resolver.Resolve(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, friendship.PendingOutgoing(r1.ID), ab)

	ba, err := resolver.Resolve(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, friendship.PendingIncoming(r1.ID), ba)

	require.NoError(t, dir.AcceptRequest(ctx, r1.ID))

	ab, err = resolver.Resolve(ctx, "alice", "bob")
	require.NoError(t, err)
	assert.Equal(t, friendship.Friends(), ab)

	ba, err = resolver.Resolve(ctx, "bob", "alice")
	require.NoError(t, err)
	assert.Equal(t, friendship.Friends(), ba)
}

func TestResolve_PendingQueryFailureIsUnavailable(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	dir.FailOn(friendshiptest.OpPending, context.DeadlineExceeded)
	resolver := NewFriendshipResolver(dir, 0)

	rel, err := resolver.Resolve(context.Background(), "alice", "bob")
	require.Error(t, err)
	assert.ErrorIs(t, err, friendship.ErrCollaboratorUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, friendship.Relationship{}, rel)
}

func TestResolve_FailureCancelsOtherQueries(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	dir.BlockOn(friendshiptest.OpFriends)
	dir.FailOn(friendshiptest.OpPending, errors.New("connection reset"))
	resolver := NewFriendshipResolver(dir, 0)

	_, err := resolver.Resolve(context.Background(), "alice", "bob")
	assert.ErrorIs(t, err, friendship.ErrCollaboratorUnavailable)
}

func TestResolve_CallerCancellation(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	dir.BlockOn(friendshiptest.OpFriends)
	resolver := NewFriendshipResolver(dir, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := resolver.Resolve(ctx, "alice", "bob")
	assert.ErrorIs(t, err, friendship.ErrCollaboratorUnavailable)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolveMany_MatchesResolve(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	dir.AddFriendship("carol", "alice")
	dir.AddRequest("dave", "alice")
	dir.AddRequest("alice", "erin")
	dir.AddRequest("frank", "erin")
	dir.AddRequestWithStatus("alice", "gina", friendship.FriendshipRejected)
	resolver := NewFriendshipResolver(dir, 2)
	ctx := context.Background()

	profiles := []string{"alice", "bob", "carol", "dave", "erin", "frank", "gina", "carol"}
	got, err := resolver.ResolveMany(ctx, "alice", profiles)
	require.NoError(t, err)
	assert.Len(t, got, 7)

	for _, id := range profiles {
		want, err := resolver.Resolve(ctx, "alice", id)
		require.NoError(t, err)
		assert.Equal(t, want, got[id], "profile %s", id)
	}
}

func TestResolveMany_Anonymous(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	resolver := NewFriendshipResolver(dir, 0)

	got, err := resolver.ResolveMany(context.Background(), "", []string{"alice", "bob"})
	require.NoError(t, err)
	assert.Equal(t, map[string]friendship.Relationship{
		"alice": friendship.NotFriends(),
		"bob":   friendship.NotFriends(),
	}, got)
	assert.Zero(t, dir.Calls(friendshiptest.OpPending))
}

func TestResolveMany_EmptyIDIsInvalid(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	resolver := NewFriendshipResolver(dir, 0)

	_, err := resolver.ResolveMany(context.Background(), "alice", []string{"bob", ""})
	assert.ErrorIs(t, err, friendship.ErrInvalidArgument)
	assert.Zero(t, dir.Calls(friendshiptest.OpPending))
}

func TestResolveMany_FailureIsUnavailable(t *testing.T) {
	dir := friendshiptest.NewDirectory()
	dir.FailOn(friendshiptest.OpFriends, errors.New("502 bad gateway"))
	resolver := NewFriendshipResolver(dir, 0)

	got, err := resolver.ResolveMany(context.Background(), "alice", []string{"bob"})
	assert.ErrorIs(t, err, friendship.ErrCollaboratorUnavailable)
	assert.Nil(t, got)
}
