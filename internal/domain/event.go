package domain

// EventType - тип социального действия в ленте событий.
type EventType string

const (
	EventTypeLike   EventType = "LIKE"
	EventTypeFriend EventType = "FRIEND"
	EventTypeReview EventType = "REVIEW"
)

// EventOperation - операция над сущностью события.
type EventOperation string

const (
	EventOperationAdd    EventOperation = "ADD"
	EventOperationRemove EventOperation = "REMOVE"
	EventOperationUpdate EventOperation = "UPDATE"
)

// Event - неизменяемая запись социального действия.
// Timestamp присваивается хранилищем в момент вставки (unix-миллисекунды).
// События создаются только как побочный эффект лайков, дружб и отзывов
// и удаляются только каскадно вместе с пользователем или фильмом.
type Event struct {
	ID        int64          `json:"eventId" db:"id"`
	Timestamp int64          `json:"timestamp" db:"timestamp"`
	UserID    int64          `json:"userId" db:"user_id"`
	EventType EventType      `json:"eventType" db:"event_type"`
	Operation EventOperation `json:"operation" db:"operation"`
	EntityID  int64          `json:"entityId" db:"entity_id"`
}
