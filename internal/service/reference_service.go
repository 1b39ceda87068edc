package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oxelen/java-filmorate/internal/domain"
	"github.com/oxelen/java-filmorate/internal/store"
)

// GenreService отдает справочник жанров.
type GenreService struct {
	genres store.GenreStore
	logger *slog.Logger
}

func NewGenreService(genres store.GenreStore, logger *slog.Logger) *GenreService {
	return &GenreService{genres: genres, logger: logger}
}

func (s *GenreService) FindAll(ctx context.Context) ([]domain.Genre, error) {
	genres, err := s.genres.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list genres: %w", ErrInternal)
	}
	return genres, nil
}

func (s *GenreService) FindByID(ctx context.Context, id int64) (*domain.Genre, error) {
	genre, err := s.genres.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrGenreNotFound) {
			return nil, fmt.Errorf("genre with id = %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get genre: %w", ErrInternal)
	}
	return genre, nil
}

// MPAService отдает справочник возрастных рейтингов.
type MPAService struct {
	mpas   store.MPAStore
	logger *slog.Logger
}

func NewMPAService(mpas store.MPAStore, logger *slog.Logger) *MPAService {
	return &MPAService{mpas: mpas, logger: logger}
}

func (s *MPAService) FindAll(ctx context.Context) ([]domain.MPA, error) {
	mpas, err := s.mpas.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list mpa ratings: %w", ErrInternal)
	}
	return mpas, nil
}

func (s *MPAService) FindByID(ctx context.Context, id int64) (*domain.MPA, error) {
	mpa, err := s.mpas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrMPANotFound) {
			return nil, fmt.Errorf("mpa rating with id = %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get mpa rating: %w", ErrInternal)
	}
	return mpa, nil
}
