package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresFriendStore реализует FriendStore для PostgreSQL.
type PostgresFriendStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresFriendStore создает новый экземпляр PostgresFriendStore.
func NewPostgresFriendStore(db *sqlx.DB, logger *slog.Logger) (*PostgresFriendStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresFriendStore{db: db, logger: logger}, nil
}

// Create добавляет направленную дружбу: userID добавил friendID.
func (s *PostgresFriendStore) Create(ctx context.Context, userID, friendID int64) error {
	query := `INSERT INTO friends (user_id, friend_id) VALUES ($1, $2)`

	s.logger.DebugContext(ctx, "Executing Create friendship query",
		slog.Int64("userID", userID), slog.Int64("friendID", friendID))
	_, err := s.db.ExecContext(ctx, query, userID, friendID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			s.logger.WarnContext(ctx, "Friendship already exists (unique constraint violation in DB)",
				slog.Int64("userID", userID), slog.Int64("friendID", friendID))
			return ErrFriendshipExists
		}
		s.logger.ErrorContext(ctx, "Failed to create friendship in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create friendship: %w", err)
	}
	return nil
}

// Delete удаляет направленную дружбу.
func (s *PostgresFriendStore) Delete(ctx context.Context, userID, friendID int64) error {
	query := `DELETE FROM friends WHERE user_id = $1 AND friend_id = $2`

	s.logger.DebugContext(ctx, "Executing Delete friendship query",
		slog.Int64("userID", userID), slog.Int64("friendID", friendID))
	result, err := s.db.ExecContext(ctx, query, userID, friendID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete friendship from DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete friendship: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrFriendshipNotFound
	}
	return nil
}

// FindFriendIDs возвращает id друзей пользователя по возрастанию.
func (s *PostgresFriendStore) FindFriendIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT friend_id FROM friends WHERE user_id = $1 ORDER BY friend_id`

	ids := []int64{}
	if err := s.db.SelectContext(ctx, &ids, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list friend ids from DB", slog.Int64("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list friend ids: %w", err)
	}
	return ids, nil
}
