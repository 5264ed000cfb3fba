package friendship

type RelationshipKind string

const (
	RelationshipSelf            RelationshipKind = "self"
	RelationshipFriends         RelationshipKind = "friends"
	RelationshipPendingIncoming RelationshipKind = "pending_incoming"
	RelationshipPendingOutgoing RelationshipKind = "pending_outgoing"
	RelationshipNotFriends      RelationshipKind = "not_friends"
)

// Relationship is the viewer's standing towards a profile owner. RequestID is
// set only for the two pending kinds.
type Relationship struct {
	Kind      RelationshipKind `json:"relationship"`
	RequestID string           `json:"requestId,omitempty"`
}

func Self() Relationship       { return Relationship{Kind: RelationshipSelf} }
func Friends() Relationship    { return Relationship{Kind: RelationshipFriends} }
func NotFriends() Relationship { return Relationship{Kind: RelationshipNotFriends} }

func PendingIncoming(requestID string) Relationship {
	return Relationship{Kind: RelationshipPendingIncoming, RequestID: requestID}
}

func PendingOutgoing(requestID string) Relationship {
	return Relationship{Kind: RelationshipPendingOutgoing, RequestID: requestID}
}

type Action string

const (
	ActionSendRequest Action = "send_request"
	ActionAccept      Action = "accept"
	ActionReject      Action = "reject"
)

// Actions lists what an authenticated viewer may do from this relationship.
// Outgoing requests cannot be cancelled and friendships cannot be removed
// from the profile page.
func (r Relationship) Actions() []Action {
	switch r.Kind {
	case RelationshipNotFriends:
		return []Action{ActionSendRequest}
	case RelationshipPendingIncoming:
		return []Action{ActionAccept, ActionReject}
	}
	return []Action{}
}
