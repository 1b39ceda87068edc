package service

import "errors"

// Категории ошибок бизнес-логики. Сервисы заворачивают их через fmt.Errorf
// с %w, добавляя описание; HTTP-слой по errors.Is подбирает статус и
// категорию ответа.
var (
	// ErrNotFound - запрошенная сущность не существует (404).
	ErrNotFound = errors.New("not found")
	// ErrValidation - некорректные входные данные (400).
	ErrValidation = errors.New("validation error")
	// ErrConditionsNotMet - нарушено предусловие состояния: отсутствует
	// обязательное поле или удаляется несуществующая связь (400).
	ErrConditionsNotMet = errors.New("conditions not met")
	// ErrDuplicated - попытка повторно создать уникальную связь или
	// сущность (400).
	ErrDuplicated = errors.New("duplicated data")
	// ErrNoContent - действие не над чем выполнять, например удаление
	// друга при пустом списке друзей (204 с телом).
	ErrNoContent = errors.New("no content")
	// ErrInternal - нарушен инвариант хранилища или неожиданная ошибка
	// нижнего слоя (500).
	ErrInternal = errors.New("internal server error")
)
