package chatapi

import (
	"context"
	"fmt"
	"net/http"

	"chat-frontend/pkg/models"
)

// ListChats returns every chat. A null body yields an empty slice.
// Failures are logged and returned.
func (c *Client) ListChats(ctx context.Context) ([]models.Chat, error) {
	var chats []models.Chat
	if err := c.getJSON(ctx, "/api/Chats", &chats); err != nil {
		c.logger.Error().Err(err).Msg("Error fetching chats")
		return nil, err
	}
	if chats == nil {
		chats = []models.Chat{}
	}
	return chats, nil
}

// GetChat returns the chat with the given id. Any non-success status yields
// nil, nil.
func (c *Client) GetChat(ctx context.Context, id int) (*models.Chat, error) {
	resp, err := c.send(ctx, http.MethodGet, chatPath(id), nil)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		return nil, nil
	}

	var chat *models.Chat
	if err := decodeJSON(resp, &chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// CreateChat posts a new chat and returns the stored copy. Any non-success
// status yields nil, nil.
func (c *Client) CreateChat(ctx context.Context, req models.ChatCreateRequest) (*models.Chat, error) {
	resp, err := c.send(ctx, http.MethodPost, "/api/Chats", req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp)

	if !isSuccess(resp.StatusCode) {
		return nil, nil
	}

	var chat *models.Chat
	if err := decodeJSON(resp, &chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// UpdateChat reports whether the API accepted the update. The error is
// non-nil only when no response was received.
func (c *Client) UpdateChat(ctx context.Context, id int, req models.ChatUpdateRequest) (bool, error) {
	resp, err := c.send(ctx, http.MethodPut, chatPath(id), req)
	if err != nil {
		return false, err
	}
	closeBody(resp)
	return isSuccess(resp.StatusCode), nil
}

// DeleteChat reports whether the API deleted the chat. The error is non-nil
// only when no response was received.
func (c *Client) DeleteChat(ctx context.Context, id int) (bool, error) {
	resp, err := c.send(ctx, http.MethodDelete, chatPath(id), nil)
	if err != nil {
		return false, err
	}
	closeBody(resp)
	return isSuccess(resp.StatusCode), nil
}

func chatPath(id int) string {
	return fmt.Sprintf("/api/Chats/%d", id)
}
