package store

import (
	"context"
	"errors"
)

// Кастомные ошибки хранилища дружб.
var (
	ErrFriendshipExists   = errors.New("friendship already exists")
	ErrFriendshipNotFound = errors.New("friendship not found")
)

// FriendStore хранит направленные связи "пользователь -> друг".
// Пара (userID, friendID) уникальна в пределах направления; обратная
// связь (friendID, userID) - отдельная строка.
type FriendStore interface {
	Create(ctx context.Context, userID, friendID int64) error
	Delete(ctx context.Context, userID, friendID int64) error
	FindFriendIDs(ctx context.Context, userID int64) ([]int64, error)
}

// MemoryFriendStore - реализация FriendStore поверх MemoryDB.
type MemoryFriendStore struct {
	db *MemoryDB
}

func NewMemoryFriendStore(db *MemoryDB) *MemoryFriendStore {
	return &MemoryFriendStore{db: db}
}

func (s *MemoryFriendStore) Create(ctx context.Context, userID, friendID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	set, ok := s.db.friends[userID]
	if !ok {
		set = make(map[int64]struct{})
		s.db.friends[userID] = set
	}
	if _, exists := set[friendID]; exists {
		return ErrFriendshipExists
	}
	set[friendID] = struct{}{}
	return nil
}

func (s *MemoryFriendStore) Delete(ctx context.Context, userID, friendID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	set := s.db.friends[userID]
	if _, exists := set[friendID]; !exists {
		return ErrFriendshipNotFound
	}
	delete(set, friendID)
	return nil
}

func (s *MemoryFriendStore) FindFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return sortedIDs(s.db.friends[userID]), nil
}
