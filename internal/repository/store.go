package repository

import (
	"context"
	"errors"

	"chat-frontend/pkg/models"
)

var (
	ErrNotFound    = errors.New("record not found")
	ErrUnknownUser = errors.New("referenced user does not exist")
)

type UserStore interface {
	List(ctx context.Context) ([]models.User, error)
	GetByID(ctx context.Context, id int) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
}

type ChatStore interface {
	List(ctx context.Context) ([]models.Chat, error)
	GetByID(ctx context.Context, id int) (*models.Chat, error)
	Create(ctx context.Context, chat *models.Chat) error
	// UpdateContents replaces the contents; a nil value leaves them unchanged.
	UpdateContents(ctx context.Context, id int, contents *string) error
	Delete(ctx context.Context, id int) error
}
