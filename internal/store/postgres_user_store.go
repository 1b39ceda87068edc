package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oxelen/java-filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresUserStore реализует UserStore для PostgreSQL.
type PostgresUserStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresUserStore создает новый экземпляр PostgresUserStore.
func NewPostgresUserStore(db *sqlx.DB, logger *slog.Logger) (*PostgresUserStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresUserStore{db: db, logger: logger}, nil
}

// Create создает нового пользователя в базе данных.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	query := `INSERT INTO users (email, login, name, birthday) VALUES ($1, $2, $3, $4) RETURNING id`

	s.logger.DebugContext(ctx, "Executing Create user query", slog.String("login", user.Login))
	err := s.db.QueryRowxContext(ctx, query, user.Email, user.Login, user.Name, user.Birthday).Scan(&user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			s.logger.WarnContext(ctx, "User already exists (unique constraint violation in DB)",
				slog.String("constraint", pqErr.Constraint), slog.String("login", user.Login))
			return ErrUserAlreadyExists
		}
		s.logger.ErrorContext(ctx, "Failed to create user in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create user: %w", err)
	}
	s.logger.InfoContext(ctx, "User created successfully in DB", slog.Int64("userID", user.ID))
	return nil
}

// Update обновляет существующего пользователя (полная перезапись).
func (s *PostgresUserStore) Update(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET email = $1, login = $2, name = $3, birthday = $4 WHERE id = $5`

	s.logger.DebugContext(ctx, "Executing Update user query", slog.Int64("userID", user.ID))
	result, err := s.db.ExecContext(ctx, query, user.Email, user.Login, user.Name, user.Birthday, user.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			s.logger.WarnContext(ctx, "User update violates unique constraint",
				slog.String("constraint", pqErr.Constraint), slog.Int64("userID", user.ID))
			return ErrUserAlreadyExists
		}
		s.logger.ErrorContext(ctx, "Failed to update user in DB", slog.Int64("userID", user.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No user found to update in DB", slog.Int64("userID", user.ID))
		return ErrUserNotFound
	}

	user.Friends, err = s.friendIDs(ctx, user.ID)
	if err != nil {
		return err
	}
	return nil
}

// FindAll возвращает всех пользователей, отсортированных по id.
func (s *PostgresUserStore) FindAll(ctx context.Context) ([]domain.User, error) {
	query := `SELECT id, email, login, name, birthday FROM users ORDER BY id`

	users := []domain.User{}
	s.logger.DebugContext(ctx, "Executing FindAll users query")
	if err := s.db.SelectContext(ctx, &users, query); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list users from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	friendsQuery := `SELECT user_id, friend_id FROM friends ORDER BY user_id, friend_id`
	var rows []struct {
		UserID   int64 `db:"user_id"`
		FriendID int64 `db:"friend_id"`
	}
	if err := s.db.SelectContext(ctx, &rows, friendsQuery); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load friendships from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load friendships: %w", err)
	}

	byUser := make(map[int64][]int64, len(users))
	for _, r := range rows {
		byUser[r.UserID] = append(byUser[r.UserID], r.FriendID)
	}
	for i := range users {
		users[i].Friends = byUser[users[i].ID]
	}
	return users, nil
}

// FindByID находит пользователя по его ID.
func (s *PostgresUserStore) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, email, login, name, birthday FROM users WHERE id = $1`
	var user domain.User

	s.logger.DebugContext(ctx, "Executing FindUserByID query", slog.Int64("userID", id))
	err := s.db.GetContext(ctx, &user, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "User not found by ID in DB", slog.Int64("userID", id))
			return nil, ErrUserNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get user by ID from DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	user.Friends, err = s.friendIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Contains сообщает, существует ли пользователь с данным ID.
func (s *PostgresUserStore) Contains(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`
	var exists bool

	if err := s.db.GetContext(ctx, &exists, query, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to check user existence in DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return exists, nil
}

// DeleteByID удаляет пользователя со всеми зависимыми данными одной
// транзакцией: оценки чужих отзывов (с пересчетом их useful), собственные
// отзывы с оценками, лайки, дружбы в обе стороны, события пользователя.
func (s *PostgresUserStore) DeleteByID(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin delete user transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	s.logger.DebugContext(ctx, "Executing DeleteUserByID cascade", slog.Int64("userID", id))

	// Оценки пользователя на чужих отзывах: удаляем и пересчитываем useful.
	var ratedReviewIDs []int64
	if err := tx.SelectContext(ctx, &ratedReviewIDs,
		`DELETE FROM reviews_ratings WHERE user_id = $1 RETURNING review_id`, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete user review ratings", slog.Int64("userID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete user review ratings: %w", err)
	}
	if len(ratedReviewIDs) > 0 {
		recompute := `UPDATE reviews r SET useful = x.total, is_positive = x.total > 0
                      FROM (SELECT r2.id, COALESCE(SUM(CASE WHEN rr.is_liked THEN 1 ELSE -1 END), 0) AS total
                            FROM reviews r2
                            LEFT JOIN reviews_ratings rr ON rr.review_id = r2.id
                            WHERE r2.id = ANY($1)
                            GROUP BY r2.id) x
                      WHERE r.id = x.id`
		if _, err := tx.ExecContext(ctx, recompute, pq.Array(ratedReviewIDs)); err != nil {
			s.logger.ErrorContext(ctx, "Failed to recompute review usefulness", slog.Int64("userID", id), slog.String("error", err.Error()))
			return fmt.Errorf("failed to recompute review usefulness: %w", err)
		}
	}

	steps := []string{
		`DELETE FROM reviews_ratings WHERE review_id IN (SELECT id FROM reviews WHERE user_id = $1)`,
		`DELETE FROM reviews WHERE user_id = $1`,
		`DELETE FROM likes WHERE user_id = $1`,
		`DELETE FROM friends WHERE user_id = $1 OR friend_id = $1`,
		`DELETE FROM events WHERE user_id = $1`,
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step, id); err != nil {
			s.logger.ErrorContext(ctx, "Failed to delete user dependent rows", slog.Int64("userID", id), slog.String("error", err.Error()))
			return fmt.Errorf("failed to delete user dependent rows: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete user from DB", slog.Int64("userID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No user found to delete in DB", slog.Int64("userID", id))
		return ErrUserNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit delete user transaction", slog.Int64("userID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.InfoContext(ctx, "User deleted successfully from DB", slog.Int64("userID", id))
	return nil
}

func (s *PostgresUserStore) friendIDs(ctx context.Context, userID int64) ([]int64, error) {
	query := `SELECT friend_id FROM friends WHERE user_id = $1 ORDER BY friend_id`

	var ids []int64
	if err := s.db.SelectContext(ctx, &ids, query, userID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load friend ids from DB", slog.Int64("userID", userID), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to load friend ids: %w", err)
	}
	return ids, nil
}
