package api

import (
	"context"
	"fmt"
	"net/http"

	"campus-dashboard/internal/domain"
)

// LoginRequest carries account credentials.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterRequest carries the registration form. DesiredRole may be
// CONSUMER or MERCHANT; the backend refuses ADMIN self-registration.
type RegisterRequest struct {
	Username    string      `json:"username"`
	Email       string      `json:"email,omitempty"`
	Password    string      `json:"password"`
	FirstName   string      `json:"first_name,omitempty"`
	LastName    string      `json:"last_name,omitempty"`
	DesiredRole domain.Role `json:"desired_role,omitempty"`
}

// SessionInfo describes one active session token of the current account.
type SessionInfo struct {
	ID        int64  `json:"id"`
	CreatedAt string `json:"created_at"`
	ExpiresAt string `json:"expires_at"`
	UserAgent string `json:"user_agent"`
}

// ProfileResponse is the body of GET accounts/profile/.
type ProfileResponse struct {
	User           *domain.User  `json:"user"`
	ActiveSessions []SessionInfo `json:"active_sessions"`
}

// UpdateProfileRequest updates mutable profile fields. Nil pointers leave
// the field untouched; an empty AvatarData clears the avatar.
type UpdateProfileRequest struct {
	AvatarData *string `json:"avatar_data,omitempty"`
	Headline   *string `json:"headline,omitempty"`
	StoreName  *string `json:"store_name,omitempty"`
}

// Address is a delivery address of the current account.
type Address struct {
	ID           int64  `json:"id"`
	ReceiverName string `json:"receiver_name"`
	Phone        string `json:"phone"`
	DormBuilding string `json:"dorm_building"`
	DormRoom     string `json:"dorm_room"`
	Detail       string `json:"detail"`
	IsDefault    bool   `json:"is_default"`
}

func (c *Client) Login(ctx context.Context, req LoginRequest) (*domain.SessionPayload, error) {
	var payload domain.SessionPayload
	if err := c.execute(ctx, http.MethodPost, "accounts/login/", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*domain.SessionPayload, error) {
	var payload domain.SessionPayload
	if err := c.execute(ctx, http.MethodPost, "accounts/register/", req, &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

func (c *Client) Profile(ctx context.Context) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.execute(ctx, http.MethodGet, "accounts/profile/", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateProfile(ctx context.Context, req UpdateProfileRequest) (*ProfileResponse, error) {
	var resp ProfileResponse
	if err := c.execute(ctx, http.MethodPut, "accounts/profile/", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.execute(ctx, http.MethodPost, "accounts/logout/", nil, nil)
}

func (c *Client) Users(ctx context.Context, params map[string]string) ([]domain.User, error) {
	var users []domain.User
	if err := c.execute(ctx, http.MethodGet, "accounts/users/", nil, &users, withQuery(params)); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) Addresses(ctx context.Context) ([]Address, error) {
	var addresses []Address
	if err := c.execute(ctx, http.MethodGet, "accounts/addresses/", nil, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) CreateAddress(ctx context.Context, addr Address) (*Address, error) {
	var created Address
	if err := c.execute(ctx, http.MethodPost, "accounts/addresses/", addr, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

func (c *Client) UpdateAddress(ctx context.Context, id int64, addr Address) (*Address, error) {
	var updated Address
	if err := c.execute(ctx, http.MethodPut, addressPath(id), addr, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (c *Client) DeleteAddress(ctx context.Context, id int64) error {
	return c.execute(ctx, http.MethodDelete, addressPath(id), nil, nil)
}

func addressPath(id int64) string {
	return fmt.Sprintf("accounts/addresses/%d/", id)
}
