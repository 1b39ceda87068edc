package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/oxelen/java-filmorate/internal/domain"
	"github.com/oxelen/java-filmorate/internal/store"
)

// EventService ведет ленту событий. Record вызывается только другими
// сервисами как побочный эффект лайков, дружб и отзывов; клиентам
// доступна лишь лента GetUserFeed.
type EventService struct {
	events store.EventStore
	users  store.UserStore
	logger *slog.Logger
}

func NewEventService(events store.EventStore, users store.UserStore, logger *slog.Logger) *EventService {
	return &EventService{events: events, users: users, logger: logger}
}

// Record проверяет, что все поля события заполнены, и сохраняет его.
// Метку времени и id присваивает хранилище.
func (s *EventService) Record(ctx context.Context, userID int64, eventType domain.EventType, operation domain.EventOperation, entityID int64) error {
	if userID <= 0 || entityID <= 0 {
		return fmt.Errorf("event user id and entity id must be set: %w", ErrConditionsNotMet)
	}
	switch eventType {
	case domain.EventTypeLike, domain.EventTypeFriend, domain.EventTypeReview:
	default:
		return fmt.Errorf("unknown event type %q: %w", eventType, ErrConditionsNotMet)
	}
	switch operation {
	case domain.EventOperationAdd, domain.EventOperationRemove, domain.EventOperationUpdate:
	default:
		return fmt.Errorf("unknown event operation %q: %w", operation, ErrConditionsNotMet)
	}

	event := domain.Event{
		UserID:    userID,
		EventType: eventType,
		Operation: operation,
		EntityID:  entityID,
	}
	if err := s.events.Create(ctx, &event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to record event",
			slog.Int64("userID", userID),
			slog.String("eventType", string(eventType)),
			slog.String("operation", string(operation)),
			slog.String("error", err.Error()))
		return fmt.Errorf("failed to record event: %w", ErrInternal)
	}
	s.logger.DebugContext(ctx, "Event recorded",
		slog.Int64("eventID", event.ID),
		slog.Int64("userID", userID),
		slog.String("eventType", string(eventType)),
		slog.String("operation", string(operation)))
	return nil
}

// GetUserFeed возвращает события пользователя от новых к старым,
// не более count (count <= 0 означает без ограничения).
func (s *EventService) GetUserFeed(ctx context.Context, userID int64, count int) ([]domain.Event, error) {
	exists, err := s.users.Contains(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check user %d: %w", userID, ErrInternal)
	}
	if !exists {
		return nil, fmt.Errorf("user with id = %d not found: %w", userID, ErrNotFound)
	}

	events, err := s.events.FindByUser(ctx, userID, count)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to load user feed", slog.Int64("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load feed for user %d: %w", userID, ErrInternal)
	}
	return events, nil
}
