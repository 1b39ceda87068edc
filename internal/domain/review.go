package domain

// Review - отзыв пользователя на фильм.
// Useful - чистый рейтинг полезности: (лайки отзыва) - (дизлайки отзыва).
// IsPositive - денормализованный кэш условия useful > 0, пересчитывается
// хранилищем при каждом изменении useful.
type Review struct {
	ID         int64  `json:"reviewId" db:"id"`
	Content    string `json:"content" db:"content"`
	IsPositive bool   `json:"isPositive" db:"is_positive"`
	UserID     int64  `json:"userId" db:"user_id"`
	FilmID     int64  `json:"filmId" db:"film_id"`
	Useful     int64  `json:"useful" db:"useful"`
}

// CreateReviewRequest - тело запроса на создание отзыва.
type CreateReviewRequest struct {
	Content string `json:"content" validate:"required"`
	UserID  int64  `json:"userId" validate:"required"`
	FilmID  int64  `json:"filmId" validate:"required"`
}

// UpdateReviewRequest - тело запроса на обновление отзыва.
// Автор, фильм и рейтинг полезности при обновлении не меняются.
type UpdateReviewRequest struct {
	ID      int64  `json:"reviewId"`
	Content string `json:"content" validate:"required"`
}
