package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"duskSkyWeb/internal/logging"
	"duskSkyWeb/internal/types/account"
	"duskSkyWeb/internal/types/friendship"
)

type AccountDirectory interface {
	GetAccount(ctx context.Context, userID string) (*account.Account, error)
}

// FriendshipService backs the profile, friends and search pages and guards
// the request actions with the resolver.
type FriendshipService struct {
	resolver *FriendshipResolver
	store    FriendshipStore
	accounts AccountDirectory
	fanout   int
}

func NewFriendshipService(resolver *FriendshipResolver, store FriendshipStore, accounts AccountDirectory, fanoutLimit int) *FriendshipService {
	if fanoutLimit <= 0 {
		fanoutLimit = defaultFanoutLimit
	}
	return &FriendshipService{
		resolver: resolver,
		store:    store,
		accounts: accounts,
		fanout:   fanoutLimit,
	}
}

func (s *FriendshipService) ProfileRelationship(ctx context.Context, viewerID, profileID string) (*friendship.ProfileRelationshipResponse, error) {
	if profileID == "" {
		return nil, fmt.Errorf("%w: profile id is required", friendship.ErrInvalidArgument)
	}

	rel, friends, err := s.resolver.ResolveWithFriends(ctx, viewerID, profileID)
	if err != nil {
		return nil, err
	}

	actions := []friendship.Action{}
	if viewerID != "" {
		actions = rel.Actions()
	}
	return &friendship.ProfileRelationshipResponse{
		ProfileID:    profileID,
		Relationship: rel.Kind,
		RequestID:    rel.RequestID,
		FriendCount:  friendship.CountAccepted(friends),
		Actions:      actions,
	}, nil
}

// Friends lists the accepted friends of userID ordered by username. Friends
// whose account is deleted or no longer exists are left out.
func (s *FriendshipService) Friends(ctx context.Context, userID string) ([]friendship.FriendResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", friendship.ErrInvalidArgument)
	}

	edges, err := s.store.GetFriends(ctx, userID)
	if err != nil {
		return nil, friendshipUnavailable(err)
	}

	accepted := make([]friendship.Friendship, 0, len(edges))
	for _, f := range edges {
		if f.Status == friendship.FriendshipAccepted {
			accepted = append(accepted, f)
		}
	}

	ids := make([]string, len(accepted))
	for i, f := range accepted {
		ids[i] = f.Other(userID)
	}
	accounts, err := s.lookupAccounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]friendship.FriendResponse, 0, len(accepted))
	for i, f := range accepted {
		acc := accounts[i]
		if acc == nil || acc.IsDeleted() {
			continue
		}
		out = append(out, friendship.FriendResponse{
			FriendshipID: f.ID,
			Account:      acc.Summary(),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return strings.ToLower(out[i].Account.Username) < strings.ToLower(out[j].Account.Username)
	})
	return out, nil
}

// IncomingRequests lists the pending requests addressed to userID, newest
// first.
func (s *FriendshipService) IncomingRequests(ctx context.Context, userID string) ([]friendship.IncomingRequestResponse, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", friendship.ErrInvalidArgument)
	}

	requests, err := s.store.GetPendingRequests(ctx, userID)
	if err != nil {
		return nil, friendshipUnavailable(err)
	}

	pending := make([]friendship.Request, 0, len(requests))
	for _, req := range requests {
		if req.Status == friendship.FriendshipPending && req.ReceiverID == userID {
			pending = append(pending, req)
		}
	}
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].RequestedAt.After(pending[j].RequestedAt)
	})

	ids := make([]string, len(pending))
	for i, req := range pending {
		ids[i] = req.SenderID
	}
	accounts, err := s.lookupAccounts(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]friendship.IncomingRequestResponse, 0, len(pending))
	for i, req := range pending {
		acc := accounts[i]
		if acc == nil || acc.IsDeleted() {
			continue
		}
		out = append(out, friendship.IncomingRequestResponse{
			RequestID:   req.ID,
			Sender:      acc.Summary(),
			RequestedAt: req.RequestedAt,
		})
	}
	return out, nil
}

// AnnotateSearch returns the viewer's relationship to each search result in
// the order the results were given.
func (s *FriendshipService) AnnotateSearch(ctx context.Context, viewerID string, profileIDs []string) ([]friendship.SearchRelationship, error) {
	rels, err := s.resolver.ResolveMany(ctx, viewerID, profileIDs)
	if err != nil {
		return nil, err
	}

	out := make([]friendship.SearchRelationship, 0, len(profileIDs))
	for _, id := range profileIDs {
		rel := rels[id]
		out = append(out, friendship.SearchRelationship{
			ProfileID:    id,
			Relationship: rel.Kind,
			RequestID:    rel.RequestID,
		})
	}
	return out, nil
}

// SendRequest opens a friend request from viewerID to profileID. Only a
// viewer with no friendship and no pending request either way may send.
func (s *FriendshipService) SendRequest(ctx context.Context, viewerID, profileID string) (*friendship.Request, error) {
	if viewerID == "" {
		return nil, fmt.Errorf("%w: viewer id is required", friendship.ErrInvalidArgument)
	}

	rel, err := s.resolver.Resolve(ctx, viewerID, profileID)
	if err != nil {
		return nil, err
	}
	switch rel.Kind {
	case friendship.RelationshipSelf:
		return nil, friendship.ErrSelfRequest
	case friendship.RelationshipFriends:
		return nil, friendship.ErrAlreadyFriends
	case friendship.RelationshipPendingIncoming, friendship.RelationshipPendingOutgoing:
		return nil, fmt.Errorf("%w (request %s)", friendship.ErrRequestPending, rel.RequestID)
	}

	req, err := s.store.CreateRequest(ctx, viewerID, profileID)
	if err != nil {
		if errors.Is(err, friendship.ErrRequestPending) {
			return nil, err
		}
		return nil, friendshipUnavailable(err)
	}

	logging.Info("friend request sent",
		zap.String("sender_id", viewerID),
		zap.String("receiver_id", profileID),
		zap.String("request_id", req.ID),
	)
	return &req, nil
}

func (s *FriendshipService) AcceptRequest(ctx context.Context, viewerID, requestID string) error {
	return s.respond(ctx, viewerID, requestID, s.store.AcceptRequest, "accepted")
}

func (s *FriendshipService) RejectRequest(ctx context.Context, viewerID, requestID string) error {
	return s.respond(ctx, viewerID, requestID, s.store.RejectRequest, "rejected")
}

// respond applies an accept or reject after checking that requestID is a
// pending request addressed to viewerID.
func (s *FriendshipService) respond(ctx context.Context, viewerID, requestID string, apply func(context.Context, string) error, outcome string) error {
	if viewerID == "" || requestID == "" {
		return fmt.Errorf("%w: viewer id and request id are required", friendship.ErrInvalidArgument)
	}

	requests, err := s.store.GetPendingRequests(ctx, viewerID)
	if err != nil {
		return friendshipUnavailable(err)
	}
	found := false
	for _, req := range requests {
		if req.ID == requestID && req.ReceiverID == viewerID && req.Status == friendship.FriendshipPending {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("request %s: %w", requestID, friendship.ErrRequestNotFound)
	}

	if err := apply(ctx, requestID); err != nil {
		if errors.Is(err, friendship.ErrRequestNotFound) {
			return err
		}
		return friendshipUnavailable(err)
	}

	logging.Info("friend request "+outcome,
		zap.String("receiver_id", viewerID),
		zap.String("request_id", requestID),
	)
	return nil
}

// lookupAccounts fetches the account for each id concurrently. Missing
// accounts leave a nil entry at their index.
func (s *FriendshipService) lookupAccounts(ctx context.Context, ids []string) ([]*account.Account, error) {
	out := make([]*account.Account, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, id := range ids {
		g.Go(func() error {
			acc, err := s.accounts.GetAccount(gctx, id)
			if errors.Is(err, account.ErrAccountNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			out[i] = acc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, accountsUnavailable(err)
	}
	return out, nil
}
