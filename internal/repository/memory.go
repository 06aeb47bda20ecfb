package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"chat-frontend/pkg/models"
)

// MemoryStore keeps users and chats in process memory. It backs the
// reference server when no database is configured.
type MemoryStore struct {
	mu         sync.RWMutex
	users      map[int]models.User
	chats      map[int]models.Chat
	nextUserID int
	nextChatID int
	now        func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:      make(map[int]models.User),
		chats:      make(map[int]models.Chat),
		nextUserID: 1,
		nextChatID: 1,
		now:        time.Now,
	}
}

// Users and Chats expose the store through the narrower interfaces.
func (s *MemoryStore) Users() UserStore { return memoryUsers{s} }
func (s *MemoryStore) Chats() ChatStore { return memoryChats{s} }

type memoryUsers struct{ s *MemoryStore }

func (m memoryUsers) List(ctx context.Context) ([]models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	users := make([]models.User, 0, len(m.s.users))
	for _, u := range m.s.users {
		users = append(users, u)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (m memoryUsers) GetByID(ctx context.Context, id int) (*models.User, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	u, ok := m.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (m memoryUsers) Create(ctx context.Context, user *models.User) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	user.ID = m.s.nextUserID
	m.s.nextUserID++
	m.s.users[user.ID] = *user
	return nil
}

type memoryChats struct{ s *MemoryStore }

func (m memoryChats) List(ctx context.Context) ([]models.Chat, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	chats := make([]models.Chat, 0, len(m.s.chats))
	for _, c := range m.s.chats {
		chats = append(chats, m.s.withAuthor(c))
	}
	sort.Slice(chats, func(i, j int) bool { return chats[i].ID < chats[j].ID })
	return chats, nil
}

func (m memoryChats) GetByID(ctx context.Context, id int) (*models.Chat, error) {
	m.s.mu.RLock()
	defer m.s.mu.RUnlock()

	c, ok := m.s.chats[id]
	if !ok {
		return nil, ErrNotFound
	}
	c = m.s.withAuthor(c)
	return &c, nil
}

func (m memoryChats) Create(ctx context.Context, chat *models.Chat) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.users[chat.UserID]; !ok {
		return ErrUnknownUser
	}

	chat.ID = m.s.nextChatID
	m.s.nextChatID++
	chat.Timestamp = models.NewTimestamp(m.s.now())
	chat.User = nil
	chat.Username = nil
	m.s.chats[chat.ID] = *chat

	*chat = m.s.withAuthor(*chat)
	return nil
}

func (m memoryChats) UpdateContents(ctx context.Context, id int, contents *string) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	c, ok := m.s.chats[id]
	if !ok {
		return ErrNotFound
	}
	if contents != nil {
		c.Contents = *contents
		m.s.chats[id] = c
	}
	return nil
}

func (m memoryChats) Delete(ctx context.Context, id int) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.chats[id]; !ok {
		return ErrNotFound
	}
	delete(m.s.chats, id)
	return nil
}

// withAuthor fills the denormalized author fields. Callers hold s.mu.
func (s *MemoryStore) withAuthor(c models.Chat) models.Chat {
	if u, ok := s.users[c.UserID]; ok {
		user := u
		c.User = &user
		c.Username = models.StringPtr(u.Username)
	}
	return c
}
