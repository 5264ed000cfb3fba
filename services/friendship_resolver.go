package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"duskSkyWeb/internal/logging"
	"duskSkyWeb/internal/metrics"
	"duskSkyWeb/internal/types/friendship"
)

const defaultFanoutLimit = 8

// FriendshipDirectory is the read side of the friendship directory service.
type FriendshipDirectory interface {
	GetFriends(ctx context.Context, userID string) ([]friendship.Friendship, error)
	GetPendingRequests(ctx context.Context, userID string) ([]friendship.Request, error)
}

type FriendRequestWriter interface {
	CreateRequest(ctx context.Context, senderID, receiverID string) (friendship.Request, error)
	AcceptRequest(ctx context.Context, requestID string) error
	RejectRequest(ctx context.Context, requestID string) error
}

type FriendshipStore interface {
	FriendshipDirectory
	FriendRequestWriter
}

// FriendshipResolver derives the relationship between a viewer and a profile
// owner from the friendship directory. It holds no state between calls.
type FriendshipResolver struct {
	directory FriendshipDirectory
	fanout    int
}

func NewFriendshipResolver(directory FriendshipDirectory, fanoutLimit int) *FriendshipResolver {
	if fanoutLimit <= 0 {
		fanoutLimit = defaultFanoutLimit
	}
	return &FriendshipResolver{directory: directory, fanout: fanoutLimit}
}

// Resolve returns exactly one relationship for (viewerID, profileID). An
// empty viewer is an anonymous visitor. When a directory query fails the
// error wraps friendship.ErrCollaboratorUnavailable and no relationship is
// returned.
func (r *FriendshipResolver) Resolve(ctx context.Context, viewerID, profileID string) (friendship.Relationship, error) {
	rel, _, err := r.resolve(ctx, viewerID, profileID, false)
	return rel, err
}

// ResolveWithFriends is Resolve that also returns the profile owner's
// friendship records. The list is fetched once and used for both.
func (r *FriendshipResolver) ResolveWithFriends(ctx context.Context, viewerID, profileID string) (friendship.Relationship, []friendship.Friendship, error) {
	return r.resolve(ctx, viewerID, profileID, true)
}

func (r *FriendshipResolver) resolve(ctx context.Context, viewerID, profileID string, withFriends bool) (friendship.Relationship, []friendship.Friendship, error) {
	if profileID == "" {
		return friendship.Relationship{}, nil, fmt.Errorf("%w: profile id is required", friendship.ErrInvalidArgument)
	}

	var shortcut *friendship.Relationship
	switch {
	case viewerID == "":
		rel := friendship.NotFriends()
		shortcut = &rel
	case viewerID == profileID:
		rel := friendship.Self()
		shortcut = &rel
	}
	if shortcut != nil && !withFriends {
		return r.observe(*shortcut), nil, nil
	}

	var (
		profileFriends  []friendship.Friendship
		viewerIncoming  []friendship.Request
		profileIncoming []friendship.Request
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		profileFriends, err = r.directory.GetFriends(gctx, profileID)
		return err
	})
	if shortcut == nil {
		g.Go(func() error {
			var err error
			viewerIncoming, err = r.directory.GetPendingRequests(gctx, viewerID)
			return err
		})
		g.Go(func() error {
			var err error
			profileIncoming, err = r.directory.GetPendingRequests(gctx, profileID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logging.Warn("friendship resolution failed",
			zap.String("viewer_id", viewerID),
			zap.String("profile_id", profileID),
			zap.Error(err),
		)
		return friendship.Relationship{}, nil, friendshipUnavailable(err)
	}

	if shortcut != nil {
		return r.observe(*shortcut), profileFriends, nil
	}
	rel := decide(viewerID, profileID, profileFriends, viewerIncoming, profileIncoming)
	return r.observe(rel), profileFriends, nil
}

// ResolveMany resolves the viewer's relationship to every profile in
// profileIDs. The viewer's own friend list answers the friendship check for
// every profile, so only the per-profile pending lists are fetched per id.
func (r *FriendshipResolver) ResolveMany(ctx context.Context, viewerID string, profileIDs []string) (map[string]friendship.Relationship, error) {
	distinct := make([]string, 0, len(profileIDs))
	seen := make(map[string]bool, len(profileIDs))
	for _, id := range profileIDs {
		if id == "" {
			return nil, fmt.Errorf("%w: empty profile id in batch", friendship.ErrInvalidArgument)
		}
		if !seen[id] {
			seen[id] = true
			distinct = append(distinct, id)
		}
	}

	out := make(map[string]friendship.Relationship, len(distinct))
	if viewerID == "" {
		for _, id := range distinct {
			out[id] = r.observe(friendship.NotFriends())
		}
		return out, nil
	}

	var (
		viewerFriends  []friendship.Friendship
		viewerIncoming []friendship.Request
		incoming       = make([][]friendship.Request, len(distinct))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.fanout)
	g.Go(func() error {
		var err error
		viewerFriends, err = r.directory.GetFriends(gctx, viewerID)
		return err
	})
	g.Go(func() error {
		var err error
		viewerIncoming, err = r.directory.GetPendingRequests(gctx, viewerID)
		return err
	})
	for i, id := range distinct {
		if id == viewerID {
			continue
		}
		g.Go(func() error {
			var err error
			incoming[i], err = r.directory.GetPendingRequests(gctx, id)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		logging.Warn("batch friendship resolution failed",
			zap.String("viewer_id", viewerID),
			zap.Int("profiles", len(distinct)),
			zap.Error(err),
		)
		return nil, friendshipUnavailable(err)
	}

	for i, id := range distinct {
		if id == viewerID {
			out[id] = r.observe(friendship.Self())
			continue
		}
		out[id] = r.observe(decide(viewerID, id, viewerFriends, viewerIncoming, incoming[i]))
	}
	return out, nil
}

// decide applies the relationship rules in priority order. friends may be
// either party's friendship list since an accepted edge appears in both.
func decide(viewerID, profileID string, friends []friendship.Friendship, viewerIncoming, profileIncoming []friendship.Request) friendship.Relationship {
	for _, f := range friends {
		if f.Status == friendship.FriendshipAccepted && f.Links(viewerID, profileID) {
			return friendship.Friends()
		}
	}
	for _, req := range viewerIncoming {
		if req.Status == friendship.FriendshipPending && req.SenderID == profileID {
			return friendship.PendingIncoming(req.ID)
		}
	}
	for _, req := range profileIncoming {
		if req.Status == friendship.FriendshipPending && req.SenderID == viewerID {
			return friendship.PendingOutgoing(req.ID)
		}
	}
	return friendship.NotFriends()
}

func (r *FriendshipResolver) observe(rel friendship.Relationship) friendship.Relationship {
	metrics.ObserveResolution(string(rel.Kind))
	return rel
}

func friendshipUnavailable(err error) error {
	return fmt.Errorf("%w: friendship directory: %w", friendship.ErrCollaboratorUnavailable, err)
}

func accountsUnavailable(err error) error {
	return fmt.Errorf("%w: account directory: %w", friendship.ErrCollaboratorUnavailable, err)
}
