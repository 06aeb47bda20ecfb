package chatapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"chat-frontend/pkg/models"
)

// ListUsers returns every user. A null body yields an empty slice.
// Failures are logged and returned.
func (c *Client) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := c.getJSON(ctx, "/api/Users", &users); err != nil {
		c.logger.Error().Err(err).Msg("Error fetching users")
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}
	return users, nil
}

// GetUser returns the user with the given id, or nil when the API answers
// with a null body. Failures, including 404 (ErrNotFound), are logged and
// returned.
func (c *Client) GetUser(ctx context.Context, id int) (*models.User, error) {
	var user *models.User
	if err := c.getJSON(ctx, fmt.Sprintf("/api/Users/%d", id), &user); err != nil {
		c.logger.Error().Err(err).Int("user_id", id).Msgf("Error fetching user %d", id)
		return nil, err
	}
	return user, nil
}

// CreateUser asks the API to persist user and returns the stored copy.
// When the API rejects the request the failure is logged and CreateUser
// returns nil, nil. Transport and decoding failures are returned.
func (c *Client) CreateUser(ctx context.Context, user models.User) (*models.User, error) {
	if strings.TrimSpace(user.Username) == "" {
		return nil, ErrUsernameRequired
	}

	c.logger.Info().Str("username", user.Username).Msg("Creating user with username")

	resp, err := c.send(ctx, http.MethodPost, "/api/Users", user)
	if err != nil {
		c.logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		c.logger.Error().
			Int("status", resp.StatusCode).
			Str("error", readBody(resp)).
			Msg("Failed to create user")
		return nil, nil
	}

	var created *models.User
	if err := decodeJSON(resp, &created); err != nil {
		c.logger.Error().Err(err).Msg("Error creating user")
		return nil, err
	}

	evt := c.logger.Info()
	if created != nil {
		evt = evt.Int("user_id", created.ID)
	}
	evt.Msg("User created successfully")
	return created, nil
}
