package upstream

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"duskSkyWeb/internal/types/account"
)

type accountDTO struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarUrl"`
	Status      string `json:"status"`
}

// AccountClient reads public account records from the auth service.
type AccountClient struct {
	client
}

func NewAccountClient(baseURL *url.URL, timeout time.Duration) *AccountClient {
	return &AccountClient{client: newClient(baseURL, timeout)}
}

func (c *AccountClient) GetAccount(ctx context.Context, userID string) (*account.Account, error) {
	const op = "accounts.get"

	var dto accountDTO
	if err := c.do(ctx, op, http.MethodGet, c.endpoint("users", userID), nil, &dto); err != nil {
		if statusOf(err) == http.StatusNotFound {
			return nil, fmt.Errorf("%s %s: %w", op, userID, account.ErrAccountNotFound)
		}
		return nil, err
	}

	return &account.Account{
		ID:          dto.ID,
		Username:    dto.Username,
		DisplayName: dto.DisplayName,
		AvatarURL:   dto.AvatarURL,
		Status:      account.ParseStatus(dto.Status),
	}, nil
}
