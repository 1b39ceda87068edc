package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresLikeStore реализует LikeStore для PostgreSQL.
type PostgresLikeStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresLikeStore создает новый экземпляр PostgresLikeStore.
func NewPostgresLikeStore(db *sqlx.DB, logger *slog.Logger) (*PostgresLikeStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresLikeStore{db: db, logger: logger}, nil
}

// Create добавляет лайк пользователя фильму.
func (s *PostgresLikeStore) Create(ctx context.Context, filmID, userID int64) error {
	query := `INSERT INTO likes (film_id, user_id) VALUES ($1, $2)`

	s.logger.DebugContext(ctx, "Executing Create like query",
		slog.Int64("filmID", filmID), slog.Int64("userID", userID))
	_, err := s.db.ExecContext(ctx, query, filmID, userID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			s.logger.WarnContext(ctx, "Like already exists (unique constraint violation in DB)",
				slog.Int64("filmID", filmID), slog.Int64("userID", userID))
			return ErrLikeExists
		}
		s.logger.ErrorContext(ctx, "Failed to create like in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

// Delete убирает лайк пользователя с фильма.
func (s *PostgresLikeStore) Delete(ctx context.Context, filmID, userID int64) error {
	query := `DELETE FROM likes WHERE film_id = $1 AND user_id = $2`

	s.logger.DebugContext(ctx, "Executing Delete like query",
		slog.Int64("filmID", filmID), slog.Int64("userID", userID))
	result, err := s.db.ExecContext(ctx, query, filmID, userID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete like from DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete like: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrLikeNotFound
	}
	return nil
}

// FindUserIDsByFilm возвращает id лайкнувших фильм пользователей по возрастанию.
func (s *PostgresLikeStore) FindUserIDsByFilm(ctx context.Context, filmID int64) ([]int64, error) {
	query := `SELECT user_id FROM likes WHERE film_id = $1 ORDER BY user_id`

	ids := []int64{}
	if err := s.db.SelectContext(ctx, &ids, query, filmID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list film likes from DB", slog.Int64("filmID", filmID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list film likes: %w", err)
	}
	return ids, nil
}

// FindFilmIDsByUser возвращает id лайкнутых пользователем фильмов по возрастанию.
func (s *PostgresLikeStore) FindFilmIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT film_id FROM likes WHERE user_id = $1 ORDER BY film_id`

	ids := []int64{}
	if err := s.db.SelectContext(ctx, &ids, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list user likes from DB", slog.Int64("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list user likes: %w", err)
	}
	return ids, nil
}

// FindMostSimilarUser находит пользователя с наибольшим пересечением лайков
// с данным. При равном пересечении выбирается меньший id. Второе значение
// false, если пересечений нет ни с кем.
func (s *PostgresLikeStore) FindMostSimilarUser(ctx context.Context, userID int64) (int64, bool, error) {
	query := `SELECT other.user_id
              FROM likes own
              JOIN likes other ON other.film_id = own.film_id AND other.user_id <> own.user_id
              WHERE own.user_id = $1
              GROUP BY other.user_id
              ORDER BY COUNT(*) DESC, other.user_id
              LIMIT 1`

	var similarID int64
	s.logger.DebugContext(ctx, "Executing FindMostSimilarUser query", slog.Int64("userID", userID))
	err := s.db.GetContext(ctx, &similarID, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, false, nil
		}
		s.logger.ErrorContext(ctx, "Failed to find most similar user in DB", slog.Int64("userID", userID), slog.String("error", err.Error()))
		return 0, false, fmt.Errorf("failed to find most similar user: %w", err)
	}
	return similarID, true, nil
}
