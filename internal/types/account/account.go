package account

import (
	"errors"
	"strings"
)

type AccountStatus string

const (
	AccountActive    AccountStatus = "active"
	AccountSuspended AccountStatus = "suspended"
	AccountDeleted   AccountStatus = "deleted"
)

var ErrAccountNotFound = errors.New("account not found")

// ParseStatus normalizes a wire status. An empty status means active;
// unknown values are kept lower-cased so they are never mistaken for deleted.
func ParseStatus(raw string) AccountStatus {
	status := strings.ToLower(strings.TrimSpace(raw))
	if status == "" {
		return AccountActive
	}
	return AccountStatus(status)
}

type Account struct {
	ID          string        `json:"id"`
	Username    string        `json:"username"`
	DisplayName string        `json:"displayName"`
	AvatarURL   string        `json:"avatarUrl,omitempty"`
	Status      AccountStatus `json:"status"`
}

func (a *Account) IsDeleted() bool {
	return a.Status == AccountDeleted
}

// Summary is the public slice of an account shown next to friends and requests.
type Summary struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
}

func (a *Account) Summary() Summary {
	return Summary{
		ID:          a.ID,
		Username:    a.Username,
		DisplayName: a.DisplayName,
		AvatarURL:   a.AvatarURL,
	}
}
