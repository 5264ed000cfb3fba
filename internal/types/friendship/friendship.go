package friendship

import (
	"fmt"
	"strings"
	"time"
)

type FriendshipStatus string

const (
	FriendshipPending  FriendshipStatus = "pending"
	FriendshipAccepted FriendshipStatus = "accepted"
	FriendshipRejected FriendshipStatus = "rejected"
)

// ParseStatus maps a directory status literal onto FriendshipStatus. The
// directory reports confirmed friendships as either "accepted" or "active".
func ParseStatus(raw string) (FriendshipStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "pending":
		return FriendshipPending, nil
	case "accepted", "active":
		return FriendshipAccepted, nil
	case "rejected", "declined":
		return FriendshipRejected, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

// Friendship is a confirmed or historical edge. SenderID initiated the
// original request.
type Friendship struct {
	ID         string           `json:"id"`
	SenderID   string           `json:"senderId"`
	ReceiverID string           `json:"receiverId"`
	Status     FriendshipStatus `json:"status"`
}

// Links reports whether the edge joins a and b, in either direction.
func (f Friendship) Links(a, b string) bool {
	return (f.SenderID == a && f.ReceiverID == b) || (f.SenderID == b && f.ReceiverID == a)
}

// Other returns the participant that is not userID.
func (f Friendship) Other(userID string) string {
	if f.SenderID == userID {
		return f.ReceiverID
	}
	return f.SenderID
}

type Request struct {
	ID          string           `json:"id"`
	SenderID    string           `json:"senderId"`
	ReceiverID  string           `json:"receiverId"`
	Status      FriendshipStatus `json:"status"`
	RequestedAt time.Time        `json:"requestedAt"`
}

// CountAccepted counts the accepted edges in friends.
func CountAccepted(friends []Friendship) int {
	n := 0
	for _, f := range friends {
		if f.Status == FriendshipAccepted {
			n++
		}
	}
	return n
}
