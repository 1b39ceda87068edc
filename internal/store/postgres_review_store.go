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

// PostgresReviewStore реализует ReviewStore для PostgreSQL.
type PostgresReviewStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresReviewStore создает новый экземпляр PostgresReviewStore.
func NewPostgresReviewStore(db *sqlx.DB, logger *slog.Logger) (*PostgresReviewStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresReviewStore{db: db, logger: logger}, nil
}

// Create создает новый отзыв с нулевой полезностью.
func (s *PostgresReviewStore) Create(ctx context.Context, review *domain.Review) error {
	query := `INSERT INTO reviews (content, is_positive, user_id, film_id, useful)
              VALUES ($1, FALSE, $2, $3, 0) RETURNING id`

	review.Useful = 0
	review.IsPositive = false

	s.logger.DebugContext(ctx, "Executing Create review query",
		slog.Int64("userID", review.UserID), slog.Int64("filmID", review.FilmID))
	err := s.db.QueryRowxContext(ctx, query, review.Content, review.UserID, review.FilmID).Scan(&review.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create review in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create review: %w", err)
	}
	s.logger.InfoContext(ctx, "Review created successfully in DB", slog.Int64("reviewID", review.ID))
	return nil
}

// Update меняет текст отзыва. Автор, фильм и useful не трогаются;
// в review возвращается актуальное состояние строки.
func (s *PostgresReviewStore) Update(ctx context.Context, review *domain.Review) error {
	query := `UPDATE reviews SET content = $1 WHERE id = $2`

	s.logger.DebugContext(ctx, "Executing Update review query", slog.Int64("reviewID", review.ID))
	result, err := s.db.ExecContext(ctx, query, review.Content, review.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update review in DB", slog.Int64("reviewID", review.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update review: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No review found to update in DB", slog.Int64("reviewID", review.ID))
		return ErrReviewNotFound
	}

	stored, err := s.FindByID(ctx, review.ID)
	if err != nil {
		return err
	}
	*review = *stored
	return nil
}

// DeleteByID удаляет отзыв вместе с его оценками.
func (s *PostgresReviewStore) DeleteByID(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin delete review transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM reviews_ratings WHERE review_id = $1`, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete review ratings", slog.Int64("reviewID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete review ratings: %w", err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete review from DB", slog.Int64("reviewID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete review: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No review found to delete in DB", slog.Int64("reviewID", id))
		return ErrReviewNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit delete review transaction", slog.Int64("reviewID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// FindByID находит отзыв по его ID.
func (s *PostgresReviewStore) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	query := `SELECT id, content, is_positive, user_id, film_id, useful FROM reviews WHERE id = $1`
	var review domain.Review

	s.logger.DebugContext(ctx, "Executing FindReviewByID query", slog.Int64("reviewID", id))
	err := s.db.GetContext(ctx, &review, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Review not found by ID in DB", slog.Int64("reviewID", id))
			return nil, ErrReviewNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get review by ID from DB", slog.Int64("reviewID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get review by ID: %w", err)
	}
	return &review, nil
}

// FindAll возвращает отзывы по полезности по убыванию, при равенстве -
// по возрастанию id. filmID сужает выдачу до одного фильма.
func (s *PostgresReviewStore) FindAll(ctx context.Context, filmID *int64, count int) ([]domain.Review, error) {
	query := `SELECT id, content, is_positive, user_id, film_id, useful FROM reviews`
	var args []interface{}
	argID := 1

	if filmID != nil {
		query += fmt.Sprintf(` WHERE film_id = $%d`, argID)
		args = append(args, *filmID)
		argID++
	}
	query += fmt.Sprintf(` ORDER BY useful DESC, id LIMIT $%d`, argID)
	args = append(args, count)

	reviews := []domain.Review{}
	s.logger.DebugContext(ctx, "Executing FindAll reviews query", slog.String("query", query))
	if err := s.db.SelectContext(ctx, &reviews, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to list reviews from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// RatingState возвращает состояние оценки пары (отзыв, пользователь).
func (s *PostgresReviewStore) RatingState(ctx context.Context, reviewID, userID int64) (RatingState, error) {
	query := `SELECT is_liked FROM reviews_ratings WHERE review_id = $1 AND user_id = $2`
	var isLiked bool

	err := s.db.GetContext(ctx, &isLiked, query, reviewID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RatingNone, nil
		}
		s.logger.ErrorContext(ctx, "Failed to get review rating state from DB",
			slog.Int64("reviewID", reviewID), slog.Int64("userID", userID), slog.String("error", err.Error()))
		return RatingNone, fmt.Errorf("failed to get review rating state: %w", err)
	}
	if isLiked {
		return RatingLiked, nil
	}
	return RatingDisliked, nil
}

// PutRating добавляет оценку отзыва (лайк или дизлайк).
func (s *PostgresReviewStore) PutRating(ctx context.Context, reviewID, userID int64, positive bool) error {
	query := `INSERT INTO reviews_ratings (review_id, user_id, is_liked) VALUES ($1, $2, $3)`

	s.logger.DebugContext(ctx, "Executing PutRating query",
		slog.Int64("reviewID", reviewID), slog.Int64("userID", userID), slog.Bool("positive", positive))
	_, err := s.db.ExecContext(ctx, query, reviewID, userID, positive)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
			s.logger.WarnContext(ctx, "Review rating already exists (unique constraint violation in DB)",
				slog.Int64("reviewID", reviewID), slog.Int64("userID", userID))
			return ErrRatingExists
		}
		s.logger.ErrorContext(ctx, "Failed to create review rating in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create review rating: %w", err)
	}
	return nil
}

// DeleteRating удаляет оценку указанного знака.
func (s *PostgresReviewStore) DeleteRating(ctx context.Context, reviewID, userID int64, positive bool) error {
	query := `DELETE FROM reviews_ratings WHERE review_id = $1 AND user_id = $2 AND is_liked = $3`

	s.logger.DebugContext(ctx, "Executing DeleteRating query",
		slog.Int64("reviewID", reviewID), slog.Int64("userID", userID), slog.Bool("positive", positive))
	result, err := s.db.ExecContext(ctx, query, reviewID, userID, positive)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete review rating from DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete review rating: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return ErrRatingNotFound
	}
	return nil
}

// AddUseful атомарно сдвигает useful отзыва и пересчитывает is_positive.
func (s *PostgresReviewStore) AddUseful(ctx context.Context, reviewID, delta int64) error {
	query := `UPDATE reviews SET useful = useful + $1, is_positive = useful + $1 > 0 WHERE id = $2`

	s.logger.DebugContext(ctx, "Executing AddUseful query",
		slog.Int64("reviewID", reviewID), slog.Int64("delta", delta))
	result, err := s.db.ExecContext(ctx, query, delta, reviewID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update review usefulness in DB", slog.Int64("reviewID", reviewID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update review usefulness: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No review found to update usefulness in DB", slog.Int64("reviewID", reviewID))
		return ErrReviewNotFound
	}
	return nil
}
