package store

import (
	"context"
	"errors"
	"sort"

	"github.com/oxelen/java-filmorate/internal/domain"
)

// Кастомные ошибки справочников.
var (
	ErrGenreNotFound = errors.New("genre not found")
	ErrMPANotFound   = errors.New("mpa rating not found")
)

// GenreStore - доступ к справочнику жанров (только чтение).
type GenreStore interface {
	FindAll(ctx context.Context) ([]domain.Genre, error)
	FindByID(ctx context.Context, id int64) (*domain.Genre, error)
	FindMissing(ctx context.Context, ids []int64) ([]int64, error)
}

// MPAStore - доступ к справочнику MPA-рейтингов (только чтение).
type MPAStore interface {
	FindAll(ctx context.Context) ([]domain.MPA, error)
	FindByID(ctx context.Context, id int64) (*domain.MPA, error)
}

// MemoryGenreStore - реализация GenreStore поверх MemoryDB.
type MemoryGenreStore struct {
	db *MemoryDB
}

func NewMemoryGenreStore(db *MemoryDB) *MemoryGenreStore {
	return &MemoryGenreStore{db: db}
}

func (s *MemoryGenreStore) FindAll(ctx context.Context) ([]domain.Genre, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	genres := make([]domain.Genre, 0, len(s.db.genres))
	for _, g := range s.db.genres {
		genres = append(genres, g)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].ID < genres[j].ID })
	return genres, nil
}

func (s *MemoryGenreStore) FindByID(ctx context.Context, id int64) (*domain.Genre, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	g, ok := s.db.genres[id]
	if !ok {
		return nil, ErrGenreNotFound
	}
	return &g, nil
}

func (s *MemoryGenreStore) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var missing []int64
	for _, id := range ids {
		if _, ok := s.db.genres[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

// MemoryMPAStore - реализация MPAStore поверх MemoryDB.
type MemoryMPAStore struct {
	db *MemoryDB
}

func NewMemoryMPAStore(db *MemoryDB) *MemoryMPAStore {
	return &MemoryMPAStore{db: db}
}

func (s *MemoryMPAStore) FindAll(ctx context.Context) ([]domain.MPA, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	mpas := make([]domain.MPA, 0, len(s.db.mpas))
	for _, m := range s.db.mpas {
		mpas = append(mpas, m)
	}
	sort.Slice(mpas, func(i, j int) bool { return mpas[i].ID < mpas[j].ID })
	return mpas, nil
}

func (s *MemoryMPAStore) FindByID(ctx context.Context, id int64) (*domain.MPA, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	m, ok := s.db.mpas[id]
	if !ok {
		return nil, ErrMPANotFound
	}
	return &m, nil
}
