package apiclient

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/example/foodyham/internal/domain/user"
)

// Login calls POST /auth/login
func (c *Client) Login(ctx context.Context, email, password string) (user.Credentials, error) {
	env, err := c.do(ctx, "auth_login", http.MethodPost, "/auth/login", nil, map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return user.Credentials{}, err
	}
	return credentials("auth_login", env)
}

// Register calls POST /auth/register
func (c *Client) Register(ctx context.Context, name, email, password string) (user.Credentials, error) {
	env, err := c.do(ctx, "auth_register", http.MethodPost, "/auth/register", nil, map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return user.Credentials{}, err
	}
	return credentials("auth_register", env)
}

// UpdateProfile calls PUT /auth/profile and returns the updated identity
func (c *Client) UpdateProfile(ctx context.Context, patch user.ProfilePatch) (user.Identity, error) {
	env, err := c.do(ctx, "auth_profile", http.MethodPut, "/auth/profile", nil, patch)
	if err != nil {
		return user.Identity{}, err
	}
	var identity user.Identity
	if err := decode("auth_profile", env.Data, &identity); err != nil {
		return user.Identity{}, err
	}
	return identity, nil
}

// ChangePassword calls PUT /auth/password
func (c *Client) ChangePassword(ctx context.Context, current, next string) error {
	_, err := c.do(ctx, "auth_password", http.MethodPut, "/auth/password", nil, map[string]string{
		"currentPassword": current,
		"newPassword":     next,
	})
	return err
}

// credentials reads {data: {...identity, token}}. A nested data.user and a
// top-level token are accepted as well. A missing token yields empty
// Credentials.Token for the caller to reject.
func credentials(endpoint string, env envelope) (user.Credentials, error) {
	var identity user.Identity
	if err := decode(endpoint, env.Data, &identity); err != nil {
		return user.Credentials{}, err
	}
	var extra struct {
		Token string          `json:"token"`
		User  json.RawMessage `json:"user"`
	}
	if err := decode(endpoint, env.Data, &extra); err != nil {
		return user.Credentials{}, err
	}
	if identity.ID.IsZero() && len(extra.User) > 0 {
		if err := decode(endpoint, extra.User, &identity); err != nil {
			return user.Credentials{}, err
		}
	}

	token := extra.Token
	if token == "" {
		token = env.Token
	}
	return user.Credentials{Identity: identity, Token: token}, nil
}
