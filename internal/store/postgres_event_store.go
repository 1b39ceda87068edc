package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oxelen/java-filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
)

// PostgresEventStore реализует EventStore для PostgreSQL.
type PostgresEventStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresEventStore создает новый экземпляр PostgresEventStore.
func NewPostgresEventStore(db *sqlx.DB, logger *slog.Logger) (*PostgresEventStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresEventStore{db: db, logger: logger}, nil
}

// Create вставляет событие, присваивая ему id и текущую метку времени
// в миллисекундах.
func (s *PostgresEventStore) Create(ctx context.Context, event *domain.Event) error {
	query := `INSERT INTO events (ts, user_id, event_type, operation, entity_id)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`

	event.Timestamp = time.Now().UnixMilli()

	s.logger.DebugContext(ctx, "Executing Create event query",
		slog.Int64("userID", event.UserID),
		slog.String("eventType", string(event.EventType)),
		slog.String("operation", string(event.Operation)))
	err := s.db.QueryRowxContext(ctx, query,
		event.Timestamp, event.UserID, event.EventType, event.Operation, event.EntityID,
	).Scan(&event.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create event in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create event: %w", err)
	}
	return nil
}

// FindByUser возвращает события пользователя от новых к старым, не более count.
func (s *PostgresEventStore) FindByUser(ctx context.Context, userID int64, count int) ([]domain.Event, error) {
	query := `SELECT id, ts AS "timestamp", user_id, event_type, operation, entity_id
              FROM events WHERE user_id = $1
              ORDER BY ts DESC, id DESC`
	args := []interface{}{userID}
	if count > 0 {
		query += ` LIMIT $2`
		args = append(args, count)
	}

	events := []domain.Event{}
	s.logger.DebugContext(ctx, "Executing FindEventsByUser query", slog.Int64("userID", userID))
	if err := s.db.SelectContext(ctx, &events, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list user events from DB", slog.Int64("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list user events: %w", err)
	}
	return events, nil
}
