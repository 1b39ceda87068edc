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

// PostgresDirectorStore реализует DirectorStore для PostgreSQL.
type PostgresDirectorStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresDirectorStore создает новый экземпляр PostgresDirectorStore.
func NewPostgresDirectorStore(db *sqlx.DB, logger *slog.Logger) (*PostgresDirectorStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresDirectorStore{db: db, logger: logger}, nil
}

// Create добавляет режиссера и присваивает ему id.
func (s *PostgresDirectorStore) Create(ctx context.Context, director *domain.Director) error {
	query := `INSERT INTO directors (name) VALUES ($1) RETURNING id`

	s.logger.DebugContext(ctx, "Executing Create director query", slog.String("name", director.Name))
	if err := s.db.QueryRowxContext(ctx, query, director.Name).Scan(&director.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to create director in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create director: %w", err)
	}
	return nil
}

// Update изменяет имя режиссера.
func (s *PostgresDirectorStore) Update(ctx context.Context, director *domain.Director) error {
	query := `UPDATE directors SET name = $1 WHERE id = $2`

	s.logger.DebugContext(ctx, "Executing Update director query", slog.Int64("id", director.ID))
	result, err := s.db.ExecContext(ctx, query, director.Name, director.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update director in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to update director: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrDirectorNotFound
	}
	return nil
}

// DeleteByID удаляет режиссера. Связи с фильмами снимаются в той же транзакции.
func (s *PostgresDirectorStore) DeleteByID(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin transaction for director delete", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM film_directors WHERE director_id = $1`, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete film links of director", slog.Int64("id", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete director film links: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM directors WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete director from DB", slog.Int64("id", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete director: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrDirectorNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit director delete", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit director delete: %w", err)
	}
	return nil
}

// FindAll возвращает всех режиссеров по возрастанию id.
func (s *PostgresDirectorStore) FindAll(ctx context.Context) ([]domain.Director, error) {
	query := `SELECT id, name FROM directors ORDER BY id`

	directors := []domain.Director{}
	if err := s.db.SelectContext(ctx, &directors, query); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list directors from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list directors: %w", err)
	}
	return directors, nil
}

// FindByID возвращает режиссера по id.
func (s *PostgresDirectorStore) FindByID(ctx context.Context, id int64) (*domain.Director, error) {
	query := `SELECT id, name FROM directors WHERE id = $1`

	var director domain.Director
	if err := s.db.GetContext(ctx, &director, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDirectorNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get director from DB", slog.Int64("id", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get director: %w", err)
	}
	return &director, nil
}

// FindMissing возвращает те из переданных id, которых нет в справочнике.
func (s *PostgresDirectorStore) FindMissing(ctx context.Context, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT x.id FROM UNNEST($1::bigint[]) AS x(id)
	          WHERE NOT EXISTS (SELECT 1 FROM directors d WHERE d.id = x.id)`

	var missing []int64
	if err := s.db.SelectContext(ctx, &missing, query, pq.Array(ids)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to check director ids in DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to check director ids: %w", err)
	}
	return missing, nil
}
