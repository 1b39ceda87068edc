package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oxelen/java-filmorate/internal/domain"
	"github.com/oxelen/java-filmorate/internal/store"
)

// Самая ранняя допустимая дата релиза: день первого публичного киносеанса.
var earliestReleaseDate = domain.NewDate(1895, 12, 28)

// Предел выдачи рекомендаций.
const recommendationsLimit = 10

// FilmService реализует операции над фильмами: CRUD, лайки, рейтинг
// популярности, рекомендации, поиск и выборки по режиссеру.
type FilmService struct {
	films     store.FilmStore
	users     store.UserStore
	likes     store.LikeStore
	genres    store.GenreStore
	mpas      store.MPAStore
	directors store.DirectorStore
	events    *EventService
	logger    *slog.Logger
}

func NewFilmService(
	films store.FilmStore,
	users store.UserStore,
	likes store.LikeStore,
	genres store.GenreStore,
	mpas store.MPAStore,
	directors store.DirectorStore,
	events *EventService,
	logger *slog.Logger,
) *FilmService {
	return &FilmService{
		films:     films,
		users:     users,
		likes:     likes,
		genres:    genres,
		mpas:      mpas,
		directors: directors,
		events:    events,
		logger:    logger,
	}
}

// Create создает фильм. Ссылки на MPA, жанры и режиссеров должны
// указывать на существующие записи справочников.
func (s *FilmService) Create(ctx context.Context, req domain.CreateFilmRequest) (*domain.Film, error) {
	film := filmFromRequest(0, req.Name, req.Description, req.ReleaseDate, req.Duration, req.MPA, req.Genres, req.Directors)
	if err := s.validateFilmRefs(ctx, film); err != nil {
		return nil, err
	}

	if err := s.films.Create(ctx, film); err != nil {
		return nil, fmt.Errorf("failed to create film: %w", ErrInternal)
	}
	s.logger.InfoContext(ctx, "Film created", slog.Int64("filmID", film.ID), slog.String("name", film.Name))
	return film, nil
}

// Update перезаписывает фильм целиком, включая связи с жанрами и режиссерами.
func (s *FilmService) Update(ctx context.Context, req domain.UpdateFilmRequest) (*domain.Film, error) {
	if req.ID <= 0 {
		return nil, fmt.Errorf("film id must be set: %w", ErrConditionsNotMet)
	}
	film := filmFromRequest(req.ID, req.Name, req.Description, req.ReleaseDate, req.Duration, req.MPA, req.Genres, req.Directors)
	if err := s.validateFilmRefs(ctx, film); err != nil {
		return nil, err
	}

	if err := s.films.Update(ctx, film); err != nil {
		if errors.Is(err, store.ErrFilmNotFound) {
			return nil, fmt.Errorf("film with id = %d not found: %w", req.ID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to update film: %w", ErrInternal)
	}
	return film, nil
}

func (s *FilmService) FindAll(ctx context.Context) ([]domain.Film, error) {
	films, err := s.films.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list films: %w", ErrInternal)
	}
	return films, nil
}

func (s *FilmService) FindByID(ctx context.Context, id int64) (*domain.Film, error) {
	film, err := s.films.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrFilmNotFound) {
			return nil, fmt.Errorf("film with id = %d not found: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get film: %w", ErrInternal)
	}
	return film, nil
}

// DeleteByID удаляет фильм со всеми зависимыми данными: лайки, отзывы
// с оценками, связи со справочниками, события лайков и отзывов фильма.
func (s *FilmService) DeleteByID(ctx context.Context, id int64) error {
	if err := s.films.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrFilmNotFound) {
			return fmt.Errorf("film with id = %d not found: %w", id, ErrNotFound)
		}
		s.logger.ErrorContext(ctx, "Failed to delete film", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete film with id = %d: %w", id, ErrInternal)
	}
	s.logger.InfoContext(ctx, "Film deleted", slog.Int64("filmID", id))
	return nil
}

// Like добавляет лайк пользователя фильму и пишет событие LIKE/ADD.
// Повторный лайк - ошибка DuplicatedData.
func (s *FilmService) Like(ctx context.Context, filmID, userID int64) error {
	if err := s.checkFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}

	if err := s.likes.Create(ctx, filmID, userID); err != nil {
		if errors.Is(err, store.ErrLikeExists) {
			return fmt.Errorf("user with id = %d already likes film with id = %d: %w", userID, filmID, ErrDuplicated)
		}
		return fmt.Errorf("failed to like film: %w", ErrInternal)
	}
	if err := s.events.Record(ctx, userID, domain.EventTypeLike, domain.EventOperationAdd, filmID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Film liked", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
	return nil
}

// DeleteLike убирает лайк пользователя и пишет событие LIKE/REMOVE.
// Отсутствующий лайк - ошибка ConditionsNotMet.
func (s *FilmService) DeleteLike(ctx context.Context, filmID, userID int64) error {
	if err := s.checkFilmAndUser(ctx, filmID, userID); err != nil {
		return err
	}

	if err := s.likes.Delete(ctx, filmID, userID); err != nil {
		if errors.Is(err, store.ErrLikeNotFound) {
			return fmt.Errorf("film with id = %d has no like from user with id = %d: %w", filmID, userID, ErrConditionsNotMet)
		}
		return fmt.Errorf("failed to delete like: %w", ErrInternal)
	}
	if err := s.events.Record(ctx, userID, domain.EventTypeLike, domain.EventOperationRemove, filmID); err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Film like removed", slog.Int64("filmID", filmID), slog.Int64("userID", userID))
	return nil
}

// GetMostPopular возвращает не более count фильмов по убыванию числа
// лайков. genreID и year - необязательные фильтры; count <= 0 дает
// пустую выдачу.
func (s *FilmService) GetMostPopular(ctx context.Context, count int, genreID *int64, year *int) ([]domain.Film, error) {
	if genreID != nil {
		if _, err := s.genres.FindByID(ctx, *genreID); err != nil {
			if errors.Is(err, store.ErrGenreNotFound) {
				return nil, fmt.Errorf("genre with id = %d not found: %w", *genreID, ErrNotFound)
			}
			return nil, fmt.Errorf("failed to check genre: %w", ErrInternal)
		}
	}

	films, err := s.films.FindMostPopular(ctx, store.PopularFilmsParams{Count: count, GenreID: genreID, Year: year})
	if err != nil {
		return nil, fmt.Errorf("failed to load popular films: %w", ErrInternal)
	}
	return films, nil
}

// GetCommon возвращает фильмы, лайкнутые обоими пользователями,
// по убыванию общей популярности.
func (s *FilmService) GetCommon(ctx context.Context, userID, friendID int64) ([]domain.Film, error) {
	if err := s.checkUsersExist(ctx, userID, friendID); err != nil {
		return nil, err
	}

	films, err := s.films.FindCommon(ctx, userID, friendID)
	if err != nil {
		return nil, fmt.Errorf("failed to load common films: %w", ErrInternal)
	}
	return films, nil
}

// GetRecommendations подбирает фильмы по пересечению лайков: находится
// пользователь с максимальным пересечением, рекомендуются его лайки,
// которых нет у целевого пользователя, от самых свежих по дате релиза.
// Ошибки хранилища на обеих стадиях деградируют до пустой выдачи:
// рекомендации не должны блокировать остальную функциональность.
func (s *FilmService) GetRecommendations(ctx context.Context, userID int64) ([]domain.Film, error) {
	if err := s.checkUsersExist(ctx, userID); err != nil {
		return nil, err
	}

	similarID, ok, err := s.likes.FindMostSimilarUser(ctx, userID)
	if err != nil {
		s.logger.WarnContext(ctx, "Similar user lookup failed, returning empty recommendations",
			slog.Int64("userID", userID), slog.String("error", err.Error()))
		return []domain.Film{}, nil
	}
	if !ok {
		return []domain.Film{}, nil
	}

	films, err := s.films.FindRecommendations(ctx, userID, similarID, recommendationsLimit)
	if err != nil {
		s.logger.WarnContext(ctx, "Recommendations lookup failed, returning empty recommendations",
			slog.Int64("userID", userID), slog.Int64("similarUserID", similarID), slog.String("error", err.Error()))
		return []domain.Film{}, nil
	}
	return films, nil
}

// GetByDirector возвращает фильмы режиссера; sortBy - "year" или "likes".
func (s *FilmService) GetByDirector(ctx context.Context, directorID int64, sortBy string) ([]domain.Film, error) {
	if _, err := s.directors.FindByID(ctx, directorID); err != nil {
		if errors.Is(err, store.ErrDirectorNotFound) {
			return nil, fmt.Errorf("director with id = %d not found: %w", directorID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to check director: %w", ErrInternal)
	}

	var sort store.DirectorFilmsSort
	switch sortBy {
	case "year":
		sort = store.DirectorFilmsSortYear
	case "likes":
		sort = store.DirectorFilmsSortLikes
	default:
		return nil, fmt.Errorf("sortBy must be 'year' or 'likes': %w", ErrValidation)
	}

	films, err := s.films.FindByDirector(ctx, directorID, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to load director films: %w", ErrInternal)
	}
	return films, nil
}

// Search ищет фильмы по подстроке без учета регистра. by - список типов
// поиска через запятую: "title" и/или "director".
func (s *FilmService) Search(ctx context.Context, query, by string) ([]domain.Film, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query must not be empty: %w", ErrValidation)
	}

	var byTitle, byDirector bool
	for _, part := range strings.Split(by, ",") {
		switch strings.ToLower(strings.TrimSpace(part)) {
		case "title":
			byTitle = true
		case "director":
			byDirector = true
		case "":
		default:
			return nil, fmt.Errorf("unknown search type %q, supported: title, director: %w", part, ErrValidation)
		}
	}
	if !byTitle && !byDirector {
		return nil, fmt.Errorf("at least one search type is required: %w", ErrValidation)
	}

	films, err := s.films.Search(ctx, query, byTitle, byDirector)
	if err != nil {
		return nil, fmt.Errorf("failed to search films: %w", ErrInternal)
	}
	return films, nil
}

// validateFilmRefs проверяет дату релиза и существование MPA, жанров
// и режиссеров, на которые ссылается фильм.
func (s *FilmService) validateFilmRefs(ctx context.Context, film *domain.Film) error {
	if film.ReleaseDate.IsZero() || film.ReleaseDate.Before(earliestReleaseDate) {
		return fmt.Errorf("release date must not be before %s: %w",
			earliestReleaseDate.Format(domain.DateLayout), ErrValidation)
	}

	if _, err := s.mpas.FindByID(ctx, film.MPA.ID); err != nil {
		if errors.Is(err, store.ErrMPANotFound) {
			return fmt.Errorf("mpa rating with id = %d not found: %w", film.MPA.ID, ErrNotFound)
		}
		return fmt.Errorf("failed to check mpa rating: %w", ErrInternal)
	}

	genreIDs := make([]int64, 0, len(film.Genres))
	for _, g := range film.Genres {
		genreIDs = append(genreIDs, g.ID)
	}
	missing, err := s.genres.FindMissing(ctx, genreIDs)
	if err != nil {
		return fmt.Errorf("failed to check genres: %w", ErrInternal)
	}
	if len(missing) > 0 {
		return fmt.Errorf("genres not found: %v: %w", missing, ErrNotFound)
	}

	directorIDs := make([]int64, 0, len(film.Directors))
	for _, d := range film.Directors {
		directorIDs = append(directorIDs, d.ID)
	}
	missing, err = s.directors.FindMissing(ctx, directorIDs)
	if err != nil {
		return fmt.Errorf("failed to check directors: %w", ErrInternal)
	}
	if len(missing) > 0 {
		return fmt.Errorf("directors not found: %v: %w", missing, ErrNotFound)
	}
	return nil
}

func (s *FilmService) checkFilmAndUser(ctx context.Context, filmID, userID int64) error {
	exists, err := s.films.Contains(ctx, filmID)
	if err != nil {
		return fmt.Errorf("failed to check film %d: %w", filmID, ErrInternal)
	}
	if !exists {
		return fmt.Errorf("film with id = %d not found: %w", filmID, ErrNotFound)
	}
	return s.checkUsersExist(ctx, userID)
}

func (s *FilmService) checkUsersExist(ctx context.Context, ids ...int64) error {
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

func filmFromRequest(
	id int64,
	name, description string,
	releaseDate domain.Date,
	duration int64,
	mpa domain.MPARef,
	genres []domain.GenreRef,
	directors []domain.DirectorRef,
) *domain.Film {
	film := &domain.Film{
		ID:          id,
		Name:        name,
		Description: description,
		ReleaseDate: releaseDate,
		Duration:    duration,
		MPA:         domain.MPA{ID: mpa.ID},
	}
	for _, g := range genres {
		film.Genres = append(film.Genres, domain.Genre{ID: g.ID})
	}
	for _, d := range directors {
		film.Directors = append(film.Directors, domain.Director{ID: d.ID})
	}
	return film
}
