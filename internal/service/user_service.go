package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oxelen/java-filmorate/internal/domain"
	"github.com/oxelen/java-filmorate/internal/store"
)

// UserService реализует операции над пользователями и графом дружбы.
// Дружба направленная: AddFriend(A, B) добавляет B в друзья A и не
// затрагивает список друзей B.
type UserService struct {
	users   store.UserStore
	friends store.FriendStore
	events  *EventService
	logger  *slog.Logger
}

func NewUserService(users store.UserStore, friends store.FriendStore, events *EventService, logger *slog.Logger) *UserService {
	return &UserService{users: users, friends: friends, events: events, logger: logger}
}

// Create создает пользователя. Пустое имя заменяется логином.
func (s *UserService) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	if err := validateUserFields(req.Login, req.Birthday); err != nil {
		return nil, err
	}

	user := domain.User{
		Email:    req.Email,
		Login:    req.Login,
		Name:     req.Name,
		Birthday: req.Birthday,
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}

	if err := s.users.Create(ctx, &user); err != nil {
		if errors.Is(err, store.ErrUserAlreadyExists) {
			return nil, fmt.Errorf("user with email %q or login %q already exists: %w", user.Email, user.Login, ErrDuplicated)
		}
		return nil, fmt.Errorf("failed to create user: %w", ErrInternal)
	}
	s.logger.InfoContext(ctx, "User created", slog.Int64("userID", user.ID), slog.String("login", user.Login))
	return &user, nil
}

// Update перезаписывает пользователя целиком.
func (s *UserService) Update(ctx context.Context, req domain.UpdateUserRequest) (*domain.User, error) {
	if req.ID <= 0 {
		return nil, fmt.Errorf("user id must be set: %w", ErrConditionsNotMet)
	}
	if err := validateUserFields(req.Login, req.Birthday); err != nil {
		return nil, err
	}

	user := domain.User{
		ID:       req.ID,
		Email:    req.Email,
		Login:    req.Login,
		Name:     req.Name,
		Birthday: req.Birthday,
	}
	if strings.TrimSpace(user.Name) == "" {
		user.Name = user.Login
	}

	if err := s.users.Update(ctx, &user); err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound):
			return nil, fmt.Errorf("user with id = %d not found: %w", req.ID, ErrNotFound)
		case errors.Is(err, store.ErrUserAlreadyExists):
			return nil, fmt.Errorf("user with email %q or login %q already exists: %w", user.Email, user.Login, ErrDuplicated)
		}
		return nil, fmt.Errorf("failed to update user: %w", ErrInternal)
	}
	return &user, nil
}

func (s *UserService) FindAll(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", ErrInternal)
	}
	return users, nil
}

func (s *UserService) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, fmt.Errorf("user with id = %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user: %w", ErrInternal)
	}
	return user, nil
}

// DeleteByID удаляет пользователя со всеми зависимыми данными: дружбы
// в обе стороны, лайки, отзывы с оценками, события.
func (s *UserService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.users.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return fmt.Errorf("user with id = %d not found: %w", id, ErrNotFound)
		}
		s.logger.ErrorContext(ctx, "Failed to delete user", slog.Int64("userID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete user with id = %d: %w", id, ErrInternal)
	}
	s.logger.InfoContext(ctx, "User deleted", slog.Int64("userID", id))
	return nil
}

// AddFriend добавляет friendID в друзья userID и пишет событие FRIEND/ADD.
// Повторное добавление - ошибка DuplicatedData.
func (s *UserService) AddFriend(ctx context.Context, userID, friendID int64) (*domain.User, error) {
	if err := s.checkUsersExist(ctx, userID, friendID); err != nil {
		return nil, err
	}

	if err := s.friends.Create(ctx, userID, friendID); err != nil {
		if errors.Is(err, store.ErrFriendshipExists) {
			return nil, fmt.Errorf("users with id = %d, %d are already friends: %w", userID, friendID, ErrDuplicated)
		}
		return nil, fmt.Errorf("failed to add friend: %w", ErrInternal)
	}
	if err := s.events.Record(ctx, userID, domain.EventTypeFriend, domain.EventOperationAdd, friendID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Friend added", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
	return s.FindByID(ctx, userID)
}

// DeleteFriend убирает friendID из друзей userID и пишет событие
// FRIEND/REMOVE. Пустой список друзей - NoContent, отсутствующая
// дружба - ConditionsNotMet.
func (s *UserService) DeleteFriend(ctx context.Context, userID, friendID int64) error {
	if err := s.checkUsersExist(ctx, userID, friendID); err != nil {
		return err
	}

	friendIDs, err := s.friends.FindFriendIDs(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load friends: %w", ErrInternal)
	}
	if len(friendIDs) == 0 {
		return fmt.Errorf("friend list of user with id = %d is empty: %w", userID, ErrNoContent)
	}

	if err := s.friends.Delete(ctx, userID, friendID); err != nil {
		if errors.Is(err, store.ErrFriendshipNotFound) {
			return fmt.Errorf("users with id = %d, %d are not friends: %w", userID, friendID, ErrConditionsNotMet)
		}
		return fmt.Errorf("failed to delete friend: %w", ErrInternal)
	}
	if err := s.events.Record(ctx, userID, domain.EventTypeFriend, domain.EventOperationRemove, friendID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Friend removed", slog.Int64("userID", userID), slog.Int64("friendID", friendID))
	return nil
}

// FindAllFriends возвращает материализованных друзей пользователя.
// Пустой список друзей - пустой результат, не ошибка.
func (s *UserService) FindAllFriends(ctx context.Context, userID int64) ([]domain.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.materialize(ctx, user.Friends)
}

// FindCommonFriends возвращает пересечение списков друзей двух
// пользователей, по возрастанию id.
func (s *UserService) FindCommonFriends(ctx context.Context, userID, otherID int64) ([]domain.User, error) {
	user, err := s.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	other, err := s.FindByID(ctx, otherID)
	if err != nil {
		return nil, err
	}

	otherSet := make(map[int64]struct{}, len(other.Friends))
	for _, id := range other.Friends {
		otherSet[id] = struct{}{}
	}

	var common []int64
	for _, id := range user.Friends {
		if _, ok := otherSet[id]; ok {
			common = append(common, id)
		}
	}
	return s.materialize(ctx, common)
}

// IsFriends - предикат взаимной дружбы: обе направленные связи существуют.
// Направленность самой связи это не отменяет, проверка сознательно строже.
func (s *UserService) IsFriends(ctx context.Context, firstID, secondID int64) (bool, error) {
	if err := s.checkUsersExist(ctx, firstID, secondID); err != nil {
		return false, err
	}

	firstFriends, err := s.friends.FindFriendIDs(ctx, firstID)
	if err != nil {
		return false, fmt.Errorf("failed to load friends: %w", ErrInternal)
	}
	if !containsID(firstFriends, secondID) {
		return false, nil
	}
	secondFriends, err := s.friends.FindFriendIDs(ctx, secondID)
	if err != nil {
		return false, fmt.Errorf("failed to load friends: %w", ErrInternal)
	}
	return containsID(secondFriends, firstID), nil
}

func (s *UserService) checkUsersExist(ctx context.Context, ids ...int64) error {
	for _, id := range ids {
		exists, err := s.users.Contains(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to check user %d: %w", id, ErrInternal)
		}
		if !exists {
			return fmt.Errorf("user with id = %d not found: %w", id, ErrNotFound)
		}
	}
	return nil
}

// materialize загружает пользователей по списку id, сохраняя его порядок.
func (s *UserService) materialize(ctx context.Context, ids []int64) ([]domain.User, error) {
	users := make([]domain.User, 0, len(ids))
	for _, id := range ids {
		user, err := s.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		users = append(users, *user)
	}
	return users, nil
}

func validateUserFields(login string, birthday domain.Date) error {
	if strings.ContainsAny(login, " \t") {
		return fmt.Errorf("login must not contain spaces: %w", ErrValidation)
	}
	if birthday.After(domain.Date{Time: time.Now()}) {
		return fmt.Errorf("birthday must not be in the future: %w", ErrValidation)
	}
	return nil
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
