package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"duskSkyWeb/internal/types/friendship"
)

type friendshipDTO struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Status     string `json:"status"`
}

type pendingRequestDTO struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"senderId"`
	ReceiverID  string    `json:"receiverId"`
	Status      string    `json:"status"`
	RequestedAt string `json:"requestedAt"`
}

// requestedAtLayouts are tried in order. Zone-less timestamps are taken as UTC.
var requestedAtLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
}

// parseRequestedAt never fails a record: an unreadable timestamp only
// affects ordering, so it becomes the zero time.
func parseRequestedAt(raw string) time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}
	}
	for _, layout := range requestedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}

type createRequestDTO struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}

// FriendshipClient talks to the friendship directory service.
type FriendshipClient struct {
	client
}

func NewFriendshipClient(baseURL *url.URL, timeout time.Duration) *FriendshipClient {
	return &FriendshipClient{client: newClient(baseURL, timeout)}
}

// GetFriends lists the friendship records in which userID is either party.
func (c *FriendshipClient) GetFriends(ctx context.Context, userID string) ([]friendship.Friendship, error) {
	const op = "friendships.list"

	var dtos []friendshipDTO
	if err := c.do(ctx, op, http.MethodGet, c.endpoint("friendships", "user", userID), nil, &dtos); err != nil {
		return nil, err
	}

	friends := make([]friendship.Friendship, 0, len(dtos))
	for _, dto := range dtos {
		status, err := friendship.ParseStatus(dto.Status)
		if err != nil {
			return nil, &Error{Op: op, StatusCode: http.StatusOK, Err: fmt.Errorf("friendship %s: %w", dto.ID, err)}
		}
		friends = append(friends, friendship.Friendship{
			ID:         dto.ID,
			SenderID:   dto.SenderID,
			ReceiverID: dto.ReceiverID,
			Status:     status,
		})
	}
	return friends, nil
}

// GetPendingRequests lists the requests addressed to userID.
func (c *FriendshipClient) GetPendingRequests(ctx context.Context, userID string) ([]friendship.Request, error) {
	const op = "friendships.pending"

	var dtos []pendingRequestDTO
	if err := c.do(ctx, op, http.MethodGet, c.endpoint("friendships", "pending", userID), nil, &dtos); err != nil {
		return nil, err
	}

	requests := make([]friendship.Request, 0, len(dtos))
	for _, dto := range dtos {
		req, err := requestFromDTO(dto)
		if err != nil {
			return nil, &Error{Op: op, StatusCode: http.StatusOK, Err: err}
		}
		requests = append(requests, req)
	}
	return requests, nil
}

// CreateRequest opens a pending request from senderID to receiverID. The
// directory may answer with the created record; when it does not, the
// returned request carries no ID.
func (c *FriendshipClient) CreateRequest(ctx context.Context, senderID, receiverID string) (friendship.Request, error) {
	const op = "friendships.create"

	body := createRequestDTO{SenderID: senderID, ReceiverID: receiverID}
	var dto pendingRequestDTO
	err := c.do(ctx, op, http.MethodPost, c.endpoint("friendships").JoinPath("/"), body, &dto)
	if err != nil {
		if statusOf(err) == http.StatusConflict {
			return friendship.Request{}, fmt.Errorf("%s: %w", op, friendship.ErrRequestPending)
		}
		return friendship.Request{}, err
	}

	if dto.ID == "" {
		return friendship.Request{
			SenderID:   senderID,
			ReceiverID: receiverID,
			Status:     friendship.FriendshipPending,
		}, nil
	}
	req, err := requestFromDTO(dto)
	if err != nil {
		return friendship.Request{}, &Error{Op: op, StatusCode: http.StatusOK, Err: err}
	}
	return req, nil
}

func (c *FriendshipClient) AcceptRequest(ctx context.Context, requestID string) error {
	return c.respond(ctx, "friendships.accept", requestID, "accept")
}

func (c *FriendshipClient) RejectRequest(ctx context.Context, requestID string) error {
	return c.respond(ctx, "friendships.reject", requestID, "reject")
}

func (c *FriendshipClient) respond(ctx context.Context, op, requestID, verb string) error {
	err := c.do(ctx, op, http.MethodPut, c.endpoint("friendships", requestID, verb), nil, nil)
	if err != nil && statusOf(err) == http.StatusNotFound {
		return fmt.Errorf("%s %s: %w", op, requestID, friendship.ErrRequestNotFound)
	}
	return err
}

func requestFromDTO(dto pendingRequestDTO) (friendship.Request, error) {
	status := friendship.FriendshipPending
	if dto.Status != "" {
		var err error
		status, err = friendship.ParseStatus(dto.Status)
		if err != nil {
			return friendship.Request{}, fmt.Errorf("request %s: %w", dto.ID, err)
		}
	}
	return friendship.Request{
		ID:          dto.ID,
		SenderID:    dto.SenderID,
		ReceiverID:  dto.ReceiverID,
		Status:      status,
		RequestedAt: parseRequestedAt(dto.RequestedAt),
	}, nil
}
