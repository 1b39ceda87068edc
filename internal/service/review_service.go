package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oxelen/java-filmorate/internal/domain"
	"github.com/oxelen/java-filmorate/internal/store"
)

// ReviewService реализует операции над отзывами и их оценками.
//
// Полезность отзыва - машина состояний на паре (отзыв, пользователь):
// лайк, дизлайк или ничего. putLike поверх дизлайка снимает дизлайк и
// ставит лайк (useful +2); симметрично для putDislike. Снятие
// несуществующей оценки - ошибка ConditionsNotMet.
type ReviewService struct {
	reviews store.ReviewStore
	users   store.UserStore
	films   store.FilmStore
	events  *EventService
	logger  *slog.Logger
}

func NewReviewService(reviews store.ReviewStore, users store.UserStore, films store.FilmStore, events *EventService, logger *slog.Logger) *ReviewService {
	return &ReviewService{reviews: reviews, users: users, films: films, events: events, logger: logger}
}

// Create создает отзыв с нулевой полезностью и пишет событие REVIEW/ADD
// от имени автора.
func (s *ReviewService) Create(ctx context.Context, req domain.CreateReviewRequest) (*domain.Review, error) {
	if err := s.checkUserExists(ctx, req.UserID); err != nil {
		return nil, err
	}
	if err := s.checkFilmExists(ctx, req.FilmID); err != nil {
		return nil, err
	}

	review := domain.Review{
		Content: req.Content,
		UserID:  req.UserID,
		FilmID:  req.FilmID,
	}
	if err := s.reviews.Create(ctx, &review); err != nil {
		return nil, fmt.Errorf("failed to create review: %w", ErrInternal)
	}
	if err := s.events.Record(ctx, review.UserID, domain.EventTypeReview, domain.EventOperationAdd, review.ID); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "Review created", slog.Int64("reviewID", review.ID), slog.Int64("filmID", review.FilmID))
	return &review, nil
}

// Update меняет текст отзыва. Автор, фильм и полезность сохраняются;
// событие REVIEW/UPDATE пишется от имени автора отзыва, не вызывающего.
func (s *ReviewService) Update(ctx context.Context, req domain.UpdateReviewRequest) (*domain.Review, error) {
	if req.ID <= 0 {
		return nil, fmt.Errorf("review id must be set: %w", ErrConditionsNotMet)
	}

	review := domain.Review{ID: req.ID, Content: req.Content}
	if err := s.reviews.Update(ctx, &review); err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return nil, fmt.Errorf("review with id = %d not found: %w", req.ID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update review: %w", ErrInternal)
	}
	if err := s.events.Record(ctx, review.UserID, domain.EventTypeReview, domain.EventOperationUpdate, review.ID); err != nil {
		return nil, err
	}
	return &review, nil
}

// DeleteByID удаляет отзыв вместе с оценками и пишет событие
// REVIEW/REMOVE от имени автора.
func (s *ReviewService) DeleteByID(ctx context.Context, id int64) error {
	review, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.reviews.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return fmt.Errorf("review with id = %d not found: %w", id, ErrNotFound)
		}
		return fmt.Errorf("failed to delete review with id = %d: %w", id, ErrInternal)
	}
	if err := s.events.Record(ctx, review.UserID, domain.EventTypeReview, domain.EventOperationRemove, review.ID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Review deleted", slog.Int64("reviewID", id))
	return nil
}

func (s *ReviewService) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrReviewNotFound) {
			return nil, fmt.Errorf("review with id = %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get review: %w", ErrInternal)
	}
	return review, nil
}

// FindAll возвращает отзывы по полезности по убыванию, не более count.
// filmID сужает выдачу до одного фильма и требует его существования.
func (s *ReviewService) FindAll(ctx context.Context, filmID *int64, count int) ([]domain.Review, error) {
	if filmID != nil {
		if err := s.checkFilmExists(ctx, *filmID); err != nil {
			return nil, err
		}
	}

	reviews, err := s.reviews.FindAll(ctx, filmID, count)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", ErrInternal)
	}
	return reviews, nil
}

// PutLike ставит отзыву лайк от пользователя. Существующий дизлайк
// снимается, поэтому сдвиг useful равен +2; повторный лайк - ошибка
// DuplicatedData.
func (s *ReviewService) PutLike(ctx context.Context, reviewID, userID int64) (*domain.Review, error) {
	state, err := s.ratingState(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	delta := int64(1)
	switch state {
	case store.RatingLiked:
		return nil, fmt.Errorf("user with id = %d already likes review with id = %d: %w", userID, reviewID, ErrDuplicated)
	case store.RatingDisliked:
		if err := s.reviews.DeleteRating(ctx, reviewID, userID, false); err != nil {
			return nil, fmt.Errorf("failed to remove review dislike: %w", ErrInternal)
		}
		delta = 2
	}

	return s.applyRating(ctx, reviewID, userID, true, delta)
}

// PutDislike ставит отзыву дизлайк. Существующий лайк снимается
// (useful -2); повторный дизлайк - ошибка DuplicatedData.
func (s *ReviewService) PutDislike(ctx context.Context, reviewID, userID int64) (*domain.Review, error) {
	state, err := s.ratingState(ctx, reviewID, userID)
	if err != nil {
		return nil, err
	}

	delta := int64(-1)
	switch state {
	case store.RatingDisliked:
		return nil, fmt.Errorf("user with id = %d already dislikes review with id = %d: %w", userID, reviewID, ErrDuplicated)
	case store.RatingLiked:
		if err := s.reviews.DeleteRating(ctx, reviewID, userID, true); err != nil {
			return nil, fmt.Errorf("failed to remove review like: %w", ErrInternal)
		}
		delta = -2
	}

	return s.applyRating(ctx, reviewID, userID, false, delta)
}

// DeleteLike снимает лайк пользователя с отзыва (useful -1).
func (s *ReviewService) DeleteLike(ctx context.Context, reviewID, userID int64) error {
	state, err := s.ratingState(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	if state != store.RatingLiked {
		return fmt.Errorf("user with id = %d has no like on review with id = %d: %w", userID, reviewID, ErrConditionsNotMet)
	}

	if err := s.reviews.DeleteRating(ctx, reviewID, userID, true); err != nil {
		return fmt.Errorf("failed to remove review like: %w", ErrInternal)
	}
	if err := s.reviews.AddUseful(ctx, reviewID, -1); err != nil {
		return fmt.Errorf("failed to update review usefulness: %w", ErrInternal)
	}
	return nil
}

// DeleteDislike снимает дизлайк пользователя с отзыва (useful +1).
func (s *ReviewService) DeleteDislike(ctx context.Context, reviewID, userID int64) error {
	state, err := s.ratingState(ctx, reviewID, userID)
	if err != nil {
		return err
	}
	if state != store.RatingDisliked {
		return fmt.Errorf("user with id = %d has no dislike on review with id = %d: %w", userID, reviewID, ErrConditionsNotMet)
	}

	if err := s.reviews.DeleteRating(ctx, reviewID, userID, false); err != nil {
		return fmt.Errorf("failed to remove review dislike: %w", ErrInternal)
	}
	if err := s.reviews.AddUseful(ctx, reviewID, 1); err != nil {
		return fmt.Errorf("failed to update review usefulness: %w", ErrInternal)
	}
	return nil
}

// ratingState проверяет существование отзыва и пользователя и возвращает
// текущее состояние оценки.
func (s *ReviewService) ratingState(ctx context.Context, reviewID, userID int64) (store.RatingState, error) {
	if _, err := s.FindByID(ctx, reviewID); err != nil {
		return store.RatingNone, err
	}
	if err := s.checkUserExists(ctx, userID); err != nil {
		return store.RatingNone, err
	}

	state, err := s.reviews.RatingState(ctx, reviewID, userID)
	if err != nil {
		return store.RatingNone, fmt.Errorf("failed to get review rating state: %w", ErrInternal)
	}
	return state, nil
}

func (s *ReviewService) applyRating(ctx context.Context, reviewID, userID int64, positive bool, delta int64) (*domain.Review, error) {
	if err := s.reviews.PutRating(ctx, reviewID, userID, positive); err != nil {
		if errors.Is(err, store.ErrRatingExists) {
			return nil, fmt.Errorf("user with id = %d already rated review with id = %d: %w", userID, reviewID, ErrDuplicated)
		}
		return nil, fmt.Errorf("failed to rate review: %w", ErrInternal)
	}
	if err := s.reviews.AddUseful(ctx, reviewID, delta); err != nil {
		return nil, fmt.Errorf("failed to update review usefulness: %w", ErrInternal)
	}
	return s.FindByID(ctx, reviewID)
}

func (s *ReviewService) checkUserExists(ctx context.Context, userID int64) error {
	exists, err := s.users.Contains(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to check user %d: %w", userID, ErrInternal)
	}
	if !exists {
		return fmt.Errorf("user with id = %d not found: %w", userID, ErrNotFound)
	}
	return nil
}

func (s *ReviewService) checkFilmExists(ctx context.Context, filmID int64) error {
	exists, err := s.films.Contains(ctx, filmID)
	if err != nil {
		return fmt.Errorf("failed to check film %d: %w", filmID, ErrInternal)
	}
	if !exists {
		return fmt.Errorf("film with id = %d not found: %w", filmID, ErrNotFound)
	}
	return nil
}
