// Package friendshiptest provides an in-memory friendship directory and
// account directory for tests.
package friendshiptest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"duskSkyWeb/internal/types/account"
	"duskSkyWeb/internal/types/friendship"
)

const (
	OpFriends = "friends"
	OpPending = "pending"
	OpCreate  = "create"
	OpAccept  = "accept"
	OpReject  = "reject"
	OpAccount = "account"
)

// Directory mimics the friendship directory and account services. Pending
// request listings include consumed requests so callers' status checks are
// exercised.
type Directory struct {
	mu          sync.Mutex
	friendships []friendship.Friendship
	requests    []friendship.Request
	accounts    map[string]account.Account
	failures    map[string]error
	blocked     map[string]bool
	calls       map[string]int
	clock       time.Time
}

func NewDirectory() *Directory {
	return &Directory{
		accounts: make(map[string]account.Account),
		failures: make(map[string]error),
		blocked:  make(map[string]bool),
		calls:    make(map[string]int),
		clock:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (d *Directory) AddFriendship(senderID, receiverID string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	id := "f-" + uuid.NewString()
	d.friendships = append(d.friendships, friendship.Friendship{
		ID:         id,
		SenderID:   senderID,
		ReceiverID: receiverID,
		Status:     friendship.FriendshipAccepted,
	})
	return id
}

func (d *Directory) AddRequest(senderID, receiverID string) string {
	return d.AddRequestWithStatus(senderID, receiverID, friendship.FriendshipPending)
}

func (d *Directory) AddRequestWithStatus(senderID, receiverID string, status friendship.FriendshipStatus) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.addRequestLocked(senderID, receiverID, status)
}

func (d *Directory) addRequestLocked(senderID, receiverID string, status friendship.FriendshipStatus) string {
	d.clock = d.clock.Add(time.Minute)
	id := "r-" + uuid.NewString()
	d.requests = append(d.requests, friendship.Request{
		ID:          id,
		SenderID:    senderID,
		ReceiverID:  receiverID,
		Status:      status,
		RequestedAt: d.clock,
	})
	return id
}

func (d *Directory) AddAccount(a account.Account) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if a.Status == "" {
		a.Status = account.AccountActive
	}
	d.accounts[a.ID] = a
}

// FailOn makes every call to op return err.
func (d *Directory) FailOn(op string, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[op] = err
}

// BlockOn makes calls to op wait until their context is done.
func (d *Directory) BlockOn(op string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blocked[op] = true
}

func (d *Directory) Calls(op string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[op]
}

func (d *Directory) enter(ctx context.Context, op string) error {
	d.mu.Lock()
	d.calls[op]++
	err := d.failures[op]
	blocked := d.blocked[op]
	d.mu.Unlock()

	if err != nil {
		return err
	}
	if blocked {
		<-ctx.Done()
		return ctx.Err()
	}
	return ctx.Err()
}

func (d *Directory) GetFriends(ctx context.Context, userID string) ([]friendship.Friendship, error) {
	if err := d.enter(ctx, OpFriends); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []friendship.Friendship
	for _, f := range d.friendships {
		if f.SenderID == userID || f.ReceiverID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (d *Directory) GetPendingRequests(ctx context.Context, userID string) ([]friendship.Request, error) {
	if err := d.enter(ctx, OpPending); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	var out []friendship.Request
	for _, r := range d.requests {
		if r.ReceiverID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (d *Directory) CreateRequest(ctx context.Context, senderID, receiverID string) (friendship.Request, error) {
	if err := d.enter(ctx, OpCreate); err != nil {
		return friendship.Request{}, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, r := range d.requests {
		if r.SenderID == senderID && r.ReceiverID == receiverID && r.Status == friendship.FriendshipPending {
			return friendship.Request{}, fmt.Errorf("create: %w", friendship.ErrRequestPending)
		}
	}
	d.addRequestLocked(senderID, receiverID, friendship.FriendshipPending)
	return d.requests[len(d.requests)-1], nil
}

// AcceptRequest consumes the pending request and records the friendship, as
// the real directory does.
func (d *Directory) AcceptRequest(ctx context.Context, requestID string) error {
	if err := d.enter(ctx, OpAccept); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i, err := d.pendingIndexLocked(requestID)
	if err != nil {
		return err
	}
	d.requests[i].Status = friendship.FriendshipAccepted
	d.friendships = append(d.friendships, friendship.Friendship{
		ID:         "f-" + uuid.NewString(),
		SenderID:   d.requests[i].SenderID,
		ReceiverID: d.requests[i].ReceiverID,
		Status:     friendship.FriendshipAccepted,
	})
	return nil
}

func (d *Directory) RejectRequest(ctx context.Context, requestID string) error {
	if err := d.enter(ctx, OpReject); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	i, err := d.pendingIndexLocked(requestID)
	if err != nil {
		return err
	}
	d.requests[i].Status = friendship.FriendshipRejected
	return nil
}

func (d *Directory) pendingIndexLocked(requestID string) (int, error) {
	for i, r := range d.requests {
		if r.ID == requestID && r.Status == friendship.FriendshipPending {
			return i, nil
		}
	}
	return -1, fmt.Errorf("request %s: %w", requestID, friendship.ErrRequestNotFound)
}

func (d *Directory) GetAccount(ctx context.Context, userID string) (*account.Account, error) {
	if err := d.enter(ctx, OpAccount); err != nil {
		return nil, err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	a, ok := d.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", userID, account.ErrAccountNotFound)
	}
	return &a, nil
}
