package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oxelen/java-filmorate/internal/domain"
	"github.com/oxelen/java-filmorate/internal/store"
)

// DirectorService реализует CRUD справочника режиссеров.
type DirectorService struct {
	directors store.DirectorStore
	logger    *slog.Logger
}

func NewDirectorService(directors store.DirectorStore, logger *slog.Logger) *DirectorService {
	return &DirectorService{directors: directors, logger: logger}
}

func (s *DirectorService) Create(ctx context.Context, req domain.CreateDirectorRequest) (*domain.Director, error) {
	director := domain.Director{Name: req.Name}
	if err := s.directors.Create(ctx, &director); err != nil {
		return nil, fmt.Errorf("failed to create director: %w", ErrInternal)
	}
	s.logger.InfoContext(ctx, "Director created", slog.Int64("directorID", director.ID))
	return &director, nil
}

func (s *DirectorService) Update(ctx context.Context, req domain.UpdateDirectorRequest) (*domain.Director, error) {
	if req.ID <= 0 {
		return nil, fmt.Errorf("director id must be set: %w", ErrConditionsNotMet)
	}

	director := domain.Director{ID: req.ID, Name: req.Name}
	if err := s.directors.Update(ctx, &director); err != nil {
		if errors.Is(err, store.ErrDirectorNotFound) {
			return nil, fmt.Errorf("director with id = %d not found: %w", req.ID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update director: %w", ErrInternal)
	}
	return &director, nil
}

func (s *DirectorService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.directors.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrDirectorNotFound) {
			return fmt.Errorf("director with id = %d not found: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete director with id = %d: %w", id, ErrInternal)
	}
	return nil
}

func (s *DirectorService) FindAll(ctx context.Context) ([]domain.Director, error) {
	directors, err := s.directors.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list directors: %w", ErrInternal)
	}
	return directors, nil
}

func (s *DirectorService) FindByID(ctx context.Context, id int64) (*domain.Director, error) {
	director, err := s.directors.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrDirectorNotFound) {
			return nil, fmt.Errorf("director with id = %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get director: %w", ErrInternal)
	}
	return director, nil
}
