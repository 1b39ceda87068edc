package store

import (
	"context"
	"errors"
	"sort"

	"github.com/oxelen/java-filmorate/internal/domain"
)

// Кастомные ошибки хранилища отзывов.
var (
	ErrReviewNotFound = errors.New("review not found")
	ErrRatingExists   = errors.New("review rating already exists")
	ErrRatingNotFound = errors.New("review rating not found")
)

// RatingState - состояние оценки пары (отзыв, пользователь).
type RatingState int

const (
	RatingNone RatingState = iota
	RatingLiked
	RatingDisliked
)

// ReviewStore определяет интерфейс для операций с отзывами и их оценками.
//
// Update меняет только текст отзыва: автор, фильм и useful при обновлении
// не трогаются. AddUseful атомарно сдвигает useful на delta и пересчитывает
// is_positive (= useful > 0). На пару (отзыв, пользователь) приходится не
// более одной строки оценки: лайк либо дизлайк.
type ReviewStore interface {
	Create(ctx context.Context, review *domain.Review) error
	Update(ctx context.Context, review *domain.Review) error
	DeleteByID(ctx context.Context, id int64) error
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	FindAll(ctx context.Context, filmID *int64, count int) ([]domain.Review, error)

	RatingState(ctx context.Context, reviewID, userID int64) (RatingState, error)
	PutRating(ctx context.Context, reviewID, userID int64, positive bool) error
	DeleteRating(ctx context.Context, reviewID, userID int64, positive bool) error
	AddUseful(ctx context.Context, reviewID, delta int64) error
}

// MemoryReviewStore - реализация ReviewStore поверх MemoryDB.
type MemoryReviewStore struct {
	db *MemoryDB
}

func NewMemoryReviewStore(db *MemoryDB) *MemoryReviewStore {
	return &MemoryReviewStore{db: db}
}

func (s *MemoryReviewStore) Create(ctx context.Context, review *domain.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextReviewID++
	review.ID = s.db.nextReviewID
	review.Useful = 0
	review.IsPositive = false
	s.db.reviews[review.ID] = *review
	return nil
}

func (s *MemoryReviewStore) Update(ctx context.Context, review *domain.Review) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, ok := s.db.reviews[review.ID]
	if !ok {
		return ErrReviewNotFound
	}
	stored.Content = review.Content
	s.db.reviews[review.ID] = stored
	*review = stored
	return nil
}

func (s *MemoryReviewStore) DeleteByID(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.reviews[id]; !ok {
		return ErrReviewNotFound
	}
	delete(s.db.reviews, id)
	delete(s.db.reviewRatings, id)
	return nil
}

func (s *MemoryReviewStore) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	review, ok := s.db.reviews[id]
	if !ok {
		return nil, ErrReviewNotFound
	}
	return &review, nil
}

func (s *MemoryReviewStore) FindAll(ctx context.Context, filmID *int64, count int) ([]domain.Review, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	reviews := []domain.Review{}
	for _, r := range s.db.reviews {
		if filmID != nil && r.FilmID != *filmID {
			continue
		}
		reviews = append(reviews, r)
	}

	// По полезности по убыванию, при равенстве - по возрастанию id.
	sort.Slice(reviews, func(i, j int) bool {
		if reviews[i].Useful != reviews[j].Useful {
			return reviews[i].Useful > reviews[j].Useful
		}
		return reviews[i].ID < reviews[j].ID
	})
	if count > 0 && len(reviews) > count {
		reviews = reviews[:count]
	}
	return reviews, nil
}

func (s *MemoryReviewStore) RatingState(ctx context.Context, reviewID, userID int64) (RatingState, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	positive, ok := s.db.reviewRatings[reviewID][userID]
	if !ok {
		return RatingNone, nil
	}
	if positive {
		return RatingLiked, nil
	}
	return RatingDisliked, nil
}

func (s *MemoryReviewStore) PutRating(ctx context.Context, reviewID, userID int64, positive bool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	ratings, ok := s.db.reviewRatings[reviewID]
	if !ok {
		ratings = make(map[int64]bool)
		s.db.reviewRatings[reviewID] = ratings
	}
	if _, exists := ratings[userID]; exists {
		return ErrRatingExists
	}
	ratings[userID] = positive
	return nil
}

func (s *MemoryReviewStore) DeleteRating(ctx context.Context, reviewID, userID int64, positive bool) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	stored, exists := s.db.reviewRatings[reviewID][userID]
	if !exists || stored != positive {
		return ErrRatingNotFound
	}
	delete(s.db.reviewRatings[reviewID], userID)
	return nil
}

func (s *MemoryReviewStore) AddUseful(ctx context.Context, reviewID, delta int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	review, ok := s.db.reviews[reviewID]
	if !ok {
		return ErrReviewNotFound
	}
	review.Useful += delta
	review.IsPositive = review.Useful > 0
	s.db.reviews[reviewID] = review
	return nil
}
