package store

import (
	"context"
	"errors"
	"sort"

	"github.com/oxelen/java-filmorate/internal/domain"
)

// Кастомные ошибки хранилища пользователей.
var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user with this email or login already exists")
)

// UserStore определяет интерфейс для операций с данными пользователей.
// DeleteByID выполняет каскадное удаление: дружбы в обе стороны, лайки,
// отзывы пользователя вместе с их оценками, оценки пользователя на чужих
// отзывах (с пересчетом useful) и события, где пользователь - актор.
// Каскад атомарен: либо удаляется все, либо ничего.
type UserStore interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	Contains(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error
}

// MemoryUserStore - реализация UserStore поверх MemoryDB.
type MemoryUserStore struct {
	db *MemoryDB
}

func NewMemoryUserStore(db *MemoryDB) *MemoryUserStore {
	return &MemoryUserStore{db: db}
}

func (s *MemoryUserStore) Create(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	for _, existing := range s.db.users {
		if existing.Email == user.Email || existing.Login == user.Login {
			return ErrUserAlreadyExists
		}
	}

	s.db.nextUserID++
	user.ID = s.db.nextUserID
	s.db.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) Update(ctx context.Context, user *domain.User) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[user.ID]; !ok {
		return ErrUserNotFound
	}
	for _, existing := range s.db.users {
		if existing.ID != user.ID && (existing.Email == user.Email || existing.Login == user.Login) {
			return ErrUserAlreadyExists
		}
	}

	s.db.users[user.ID] = *user
	return nil
}

func (s *MemoryUserStore) FindAll(ctx context.Context) ([]domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	users := make([]domain.User, 0, len(s.db.users))
	for _, u := range s.db.users {
		users = append(users, s.db.hydrateUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (s *MemoryUserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	u, ok := s.db.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	hydrated := s.db.hydrateUser(u)
	return &hydrated, nil
}

func (s *MemoryUserStore) Contains(ctx context.Context, id int64) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	_, ok := s.db.users[id]
	return ok, nil
}

func (s *MemoryUserStore) DeleteByID(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.users[id]; !ok {
		return ErrUserNotFound
	}

	// Дружбы: инициированные пользователем и направленные на него.
	delete(s.db.friends, id)
	for _, set := range s.db.friends {
		delete(set, id)
	}

	// Лайки фильмов.
	for _, set := range s.db.likes {
		delete(set, id)
	}

	// Оценки пользователя на чужих отзывах, с пересчетом useful.
	for reviewID, ratings := range s.db.reviewRatings {
		if _, ok := ratings[id]; !ok {
			continue
		}
		delete(ratings, id)
		s.recomputeUseful(reviewID)
	}

	// Отзывы, написанные пользователем, вместе с их оценками.
	for reviewID, review := range s.db.reviews {
		if review.UserID == id {
			delete(s.db.reviews, reviewID)
			delete(s.db.reviewRatings, reviewID)
		}
	}

	// События, где пользователь - актор.
	remaining := s.db.events[:0]
	for _, e := range s.db.events {
		if e.UserID != id {
			remaining = append(remaining, e)
		}
	}
	s.db.events = remaining

	delete(s.db.users, id)
	return nil
}

// recomputeUseful пересчитывает useful и is_positive отзыва по оставшимся
// строкам оценок. Вызывать под мьютексом.
func (s *MemoryUserStore) recomputeUseful(reviewID int64) {
	review, ok := s.db.reviews[reviewID]
	if !ok {
		return
	}
	var useful int64
	for _, positive := range s.db.reviewRatings[reviewID] {
		if positive {
			useful++
		} else {
			useful--
		}
	}
	review.Useful = useful
	review.IsPositive = useful > 0
	s.db.reviews[reviewID] = review
}
