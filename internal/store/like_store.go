package store

import (
	"context"
	"errors"
)

// Кастомные ошибки хранилища лайков.
var (
	ErrLikeExists   = errors.New("like already exists")
	ErrLikeNotFound = errors.New("like not found")
)

// LikeStore хранит лайки фильмов: уникальные пары (film id, user id).
// FindMostSimilarUser возвращает id пользователя с наибольшим пересечением
// множеств лайкнутых фильмов с целевым пользователем; при равенстве
// побеждает меньший id. Второй результат false - похожих нет.
type LikeStore interface {
	Create(ctx context.Context, filmID, userID int64) error
	Delete(ctx context.Context, filmID, userID int64) error
	FindUserIDsByFilm(ctx context.Context, filmID int64) ([]int64, error)
	FindFilmIDsByUser(ctx context.Context, userID int64) ([]int64, error)
	FindMostSimilarUser(ctx context.Context, userID int64) (int64, bool, error)
}

// MemoryLikeStore - реализация LikeStore поверх MemoryDB.
type MemoryLikeStore struct {
	db *MemoryDB
}

func NewMemoryLikeStore(db *MemoryDB) *MemoryLikeStore {
	return &MemoryLikeStore{db: db}
}

func (s *MemoryLikeStore) Create(ctx context.Context, filmID, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	set, ok := s.db.likes[filmID]
	if !ok {
		set = make(map[int64]struct{})
		s.db.likes[filmID] = set
	}
	if _, exists := set[userID]; exists {
		return ErrLikeExists
	}
	set[userID] = struct{}{}
	return nil
}

func (s *MemoryLikeStore) Delete(ctx context.Context, filmID, userID int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	set := s.db.likes[filmID]
	if _, exists := set[userID]; !exists {
		return ErrLikeNotFound
	}
	delete(set, userID)
	return nil
}

func (s *MemoryLikeStore) FindUserIDsByFilm(ctx context.Context, filmID int64) ([]int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	return sortedIDs(s.db.likes[filmID]), nil
}

func (s *MemoryLikeStore) FindFilmIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var filmIDs []int64
	for filmID, set := range s.db.likes {
		if _, ok := set[userID]; ok {
			filmIDs = append(filmIDs, filmID)
		}
	}
	sortIDs(filmIDs)
	return filmIDs, nil
}

func (s *MemoryLikeStore) FindMostSimilarUser(ctx context.Context, userID int64) (int64, bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	overlap := make(map[int64]int)
	for _, set := range s.db.likes {
		if _, ok := set[userID]; !ok {
			continue
		}
		for otherID := range set {
			if otherID != userID {
				overlap[otherID]++
			}
		}
	}

	var best int64
	bestCount := 0
	for otherID, count := range overlap {
		if count > bestCount || (count == bestCount && count > 0 && otherID < best) {
			best = otherID
			bestCount = count
		}
	}
	if bestCount == 0 {
		return 0, false, nil
	}
	return best, true, nil
}
