package friendship

import (
	"time"

	"duskSkyWeb/internal/types/account"
)

type ProfileRelationshipResponse struct {
	ProfileID    string           `json:"profileId"`
	Relationship RelationshipKind `json:"relationship"`
	RequestID    string           `json:"requestId,omitempty"`
	FriendCount  int              `json:"friendCount"`
	Actions      []Action         `json:"actions"`
}

type FriendResponse struct {
	FriendshipID string          `json:"friendshipId"`
	Account      account.Summary `json:"account"`
}

type IncomingRequestResponse struct {
	RequestID   string          `json:"requestId"`
	Sender      account.Summary `json:"sender"`
	RequestedAt time.Time       `json:"requestedAt"`
}

type SearchRelationship struct {
	ProfileID    string           `json:"profileId"`
	Relationship RelationshipKind `json:"relationship"`
	RequestID    string           `json:"requestId,omitempty"`
}

type SendRequestBody struct {
	ProfileID string `json:"profileId"`
}
