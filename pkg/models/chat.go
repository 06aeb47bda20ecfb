package models

// Chat is a single chat entry authored by a user.
// User and Username are denormalized copies the API may or may not include.
type Chat struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId"`
	Contents  string    `json:"contents"`
	Timestamp Timestamp `json:"timestamp"`
	User      *User     `json:"user,omitempty"`
	Username  *string   `json:"username,omitempty"`
}

// DisplayName returns the author's username from whichever copy is present.
func (c Chat) DisplayName() string {
	if c.Username != nil && *c.Username != "" {
		return *c.Username
	}
	if c.User != nil {
		return c.User.Username
	}
	return ""
}

// ChatCreateRequest is the payload for POST /api/Chats.
type ChatCreateRequest struct {
	UserID   int     `json:"userId"`
	Contents *string `json:"contents,omitempty"`
}

// ChatUpdateRequest is the payload for PUT /api/Chats/{id}.
type ChatUpdateRequest struct {
	Contents *string `json:"contents,omitempty"`
}

// StringPtr is a small helper for the optional string fields above.
func StringPtr(s string) *string {
	return &s
}

const (
	ChatEventCreated = "chat.created"
	ChatEventUpdated = "chat.updated"
	ChatEventDeleted = "chat.deleted"
)

// ChatEvent is pushed to live subscribers whenever a chat changes.
// Chat is nil for deletions.
type ChatEvent struct {
	Type   string `json:"type"`
	ChatID int    `json:"chatId"`
	Chat   *Chat  `json:"chat,omitempty"`
}
