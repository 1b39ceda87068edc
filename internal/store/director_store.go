package store

import (
	"context"
	"errors"
	"sort"

	"github.com/oxelen/java-filmorate/internal/domain"
)

// Кастомные ошибки хранилища режиссеров.
var (
	ErrDirectorNotFound = errors.New("director not found")
)

// DirectorStore определяет интерфейс для операций с режиссерами.
// FindMissing возвращает те из переданных id, которых нет в справочнике;
// используется при валидации связей фильма.
type DirectorStore interface {
	Create(ctx context.Context, director *domain.Director) error
	Update(ctx context.Context, director *domain.Director) error
	DeleteByID(ctx context.Context, id int64) error
	FindAll(ctx context.Context) ([]domain.Director, error)
	FindByID(ctx context.Context, id int64) (*domain.Director, error)
	FindMissing(ctx context.Context, ids []int64) ([]int64, error)
}

// MemoryDirectorStore - реализация DirectorStore поверх MemoryDB.
type MemoryDirectorStore struct {
	db *MemoryDB
}

func NewMemoryDirectorStore(db *MemoryDB) *MemoryDirectorStore {
	return &MemoryDirectorStore{db: db}
}

func (s *MemoryDirectorStore) Create(ctx context.Context, director *domain.Director) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextDirectorID++
	director.ID = s.db.nextDirectorID
	s.db.directors[director.ID] = *director
	return nil
}

func (s *MemoryDirectorStore) Update(ctx context.Context, director *domain.Director) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.directors[director.ID]; !ok {
		return ErrDirectorNotFound
	}
	s.db.directors[director.ID] = *director
	return nil
}

func (s *MemoryDirectorStore) DeleteByID(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.directors[id]; !ok {
		return ErrDirectorNotFound
	}
	delete(s.db.directors, id)
	for filmID, ids := range s.db.filmDirectors {
		filtered := ids[:0]
		for _, did := range ids {
			if did != id {
				filtered = append(filtered, did)
			}
		}
		s.db.filmDirectors[filmID] = filtered
	}
	return nil
}

func (s *MemoryDirectorStore) FindAll(ctx context.Context) ([]domain.Director, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	directors := make([]domain.Director, 0, len(s.db.directors))
	for _, d := range s.db.directors {
		directors = append(directors, d)
	}
	sort.Slice(directors, func(i, j int) bool { return directors[i].ID < directors[j].ID })
	return directors, nil
}

func (s *MemoryDirectorStore) FindByID(ctx context.Context, id int64) (*domain.Director, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	d, ok := s.db.directors[id]
	if !ok {
		return nil, ErrDirectorNotFound
	}
	return &d, nil
}

func (s *MemoryDirectorStore) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	var missing []int64
	for _, id := range ids {
		if _, ok := s.db.directors[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
