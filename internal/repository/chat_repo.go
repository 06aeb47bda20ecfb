package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"chat-frontend/pkg/models"
)

const pgForeignKeyViolation = "23503"

type ChatRepo struct {
	pool *pgxpool.Pool
}

func NewChatRepo(pool *pgxpool.Pool) *ChatRepo {
	return &ChatRepo{pool: pool}
}

const chatColumns = `c.id, c.user_id, c.contents, c.timestamp, u.username
		FROM chats c LEFT JOIN users u ON u.id = c.user_id`

func (r *ChatRepo) List(ctx context.Context) ([]models.Chat, error) {
	rows, err := r.pool.Query(ctx, "SELECT "+chatColumns+" ORDER BY c.id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []models.Chat{}
	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, err
		}
		chats = append(chats, *chat)
	}
	return chats, rows.Err()
}

func (r *ChatRepo) GetByID(ctx context.Context, id int) (*models.Chat, error) {
	chat, err := scanChat(r.pool.QueryRow(ctx, "SELECT "+chatColumns+" WHERE c.id = $1", id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return chat, err
}

func (r *ChatRepo) Create(ctx context.Context, chat *models.Chat) error {
	query := `
		WITH inserted AS (
			INSERT INTO chats (user_id, contents) VALUES ($1, $2)
			RETURNING id, user_id, timestamp
		)
		SELECT i.id, i.timestamp, u.username
		FROM inserted i JOIN users u ON u.id = i.user_id`

	var ts time.Time
	var username string
	err := r.pool.QueryRow(ctx, query, chat.UserID, chat.Contents).Scan(&chat.ID, &ts, &username)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation {
			return ErrUnknownUser
		}
		return err
	}

	chat.Timestamp = models.NewTimestamp(ts)
	chat.User = &models.User{ID: chat.UserID, Username: username}
	chat.Username = models.StringPtr(username)
	return nil
}

func (r *ChatRepo) UpdateContents(ctx context.Context, id int, contents *string) error {
	tag, err := r.pool.Exec(ctx, "UPDATE chats SET contents = COALESCE($1, contents) WHERE id = $2", contents, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ChatRepo) Delete(ctx context.Context, id int) error {
	tag, err := r.pool.Exec(ctx, "DELETE FROM chats WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanChat(row pgx.Row) (*models.Chat, error) {
	var (
		chat     models.Chat
		ts       time.Time
		username *string
	)
	if err := row.Scan(&chat.ID, &chat.UserID, &chat.Contents, &ts, &username); err != nil {
		return nil, err
	}

	chat.Timestamp = models.NewTimestamp(ts)
	if username != nil {
		chat.User = &models.User{ID: chat.UserID, Username: *username}
		chat.Username = username
	}
	return &chat, nil
}
