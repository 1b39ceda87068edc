package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/oxelen/java-filmorate/internal/domain"
)

// PostgresGenreStore реализует GenreStore для PostgreSQL.
type PostgresGenreStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresGenreStore создает новый экземпляр PostgresGenreStore.
func NewPostgresGenreStore(db *sqlx.DB, logger *slog.Logger) (*PostgresGenreStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresGenreStore{db: db, logger: logger}, nil
}

// FindAll возвращает все жанры по возрастанию id.
func (s *PostgresGenreStore) FindAll(ctx context.Context) ([]domain.Genre, error) {
	query := `SELECT id, name FROM genres ORDER BY id`

	genres := []domain.Genre{}
	if err := s.db.SelectContext(ctx, &genres, query); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list genres from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list genres: %w", err)
	}
	return genres, nil
}

// FindByID возвращает жанр по id.
func (s *PostgresGenreStore) FindByID(ctx context.Context, id int64) (*domain.Genre, error) {
	query := `SELECT id, name FROM genres WHERE id = $1`

	var genre domain.Genre
	if err := s.db.GetContext(ctx, &genre, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGenreNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get genre from DB", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get genre: %w", err)
	}
	return &genre, nil
}

// FindMissing возвращает те из переданных id, которых нет в справочнике.
func (s *PostgresGenreStore) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT x.id FROM UNNEST($1::bigint[]) AS x(id)
	          WHERE NOT EXISTS (SELECT 1 FROM genres g WHERE g.id = x.id)`

	var missing []int64
	if err := s.db.SelectContext(ctx, &missing, query, pq.Array(ids)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to check genre ids in DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check genre ids: %w", err)
	}
	return missing, nil
}

// PostgresMPAStore реализует MPAStore для PostgreSQL.
type PostgresMPAStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresMPAStore создает новый экземпляр PostgresMPAStore.
func NewPostgresMPAStore(db *sqlx.DB, logger *slog.Logger) (*PostgresMPAStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresMPAStore{db: db, logger: logger}, nil
}

// FindAll возвращает все MPA-рейтинги по возрастанию id.
func (s *PostgresMPAStore) FindAll(ctx context.Context) ([]domain.MPA, error) {
	query := `SELECT id, name FROM mpas ORDER BY id`

	mpas := []domain.MPA{}
	if err := s.db.SelectContext(ctx, &mpas, query); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list mpa ratings from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list mpa ratings: %w", err)
	}
	return mpas, nil
}

// FindByID возвращает MPA-рейтинг по id.
func (s *PostgresMPAStore) FindByID(ctx context.Context, id int64) (*domain.MPA, error) {
	query := `SELECT id, name FROM mpas WHERE id = $1`

	var mpa domain.MPA
	if err := s.db.GetContext(ctx, &mpa, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMPANotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get mpa rating from DB", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get mpa rating: %w", err)
	}
	return &mpa, nil
}
