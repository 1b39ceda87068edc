package store

import (
	"context"
	"sort"

	"github.com/oxelen/java-filmorate/internal/domain"
)

// EventStore хранит неизменяемую ленту событий.
// Create присваивает id и метку времени (unix-миллисекунды, монотонно
// неубывающую в пределах хранилища). FindByUser возвращает события
// пользователя от новых к старым, не более count.
type EventStore interface {
	Create(ctx context.Context, event *domain.Event) error
	FindByUser(ctx context.Context, userID int64, count int) ([]domain.Event, error)
}

// MemoryEventStore - реализация EventStore поверх MemoryDB.
type MemoryEventStore struct {
	db *MemoryDB
}

func NewMemoryEventStore(db *MemoryDB) *MemoryEventStore {
	return &MemoryEventStore{db: db}
}

func (s *MemoryEventStore) Create(ctx context.Context, event *domain.Event) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextEventID++
	event.ID = s.db.nextEventID
	event.Timestamp = s.db.nextEventTimestamp()
	s.db.events = append(s.db.events, *event)
	return nil
}

func (s *MemoryEventStore) FindByUser(ctx context.Context, userID int64, count int) ([]domain.Event, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	events := []domain.Event{}
	for _, e := range s.db.events {
		if e.UserID == userID {
			events = append(events, e)
		}
	}

	// От новых к старым; при равных метках позже вставленное - первым.
	sort.Slice(events, func(i, j int) bool {
		if events[i].Timestamp != events[j].Timestamp {
			return events[i].Timestamp > events[j].Timestamp
		}
		return events[i].ID > events[j].ID
	})
	if count > 0 && len(events) > count {
		events = events[:count]
	}
	return events, nil
}
