package store

import (
	"context"
	"errors"
	"sort"
	"strings"

	"github.com/oxelen/java-filmorate/internal/domain"
)

// Кастомные ошибки хранилища фильмов.
var (
	ErrFilmNotFound = errors.New("film not found")
)

// DirectorFilmsSort - порядок выдачи фильмов режиссера.
type DirectorFilmsSort string

const (
	DirectorFilmsSortYear  DirectorFilmsSort = "year"
	DirectorFilmsSortLikes DirectorFilmsSort = "likes"
)

// PopularFilmsParams - параметры запроса самых популярных фильмов.
// GenreID и Year - необязательные фильтры.
type PopularFilmsParams struct {
	Count   int
	GenreID *int64
	Year    *int
}

// FilmStore определяет интерфейс для операций с данными фильмов.
//
// Запись фильма включает связи с жанрами и режиссерами; чтение
// гидратирует MPA, жанры, режиссеров и лайки (явный шаг с известной
// стоимостью N+1, Postgres-реализация группирует выборки по запросу).
//
// FindMostPopular ранжирует по числу лайков (по убыванию, при равенстве -
// по возрастанию id фильма). Фильмы без единого лайка в выдачу не
// попадают: рейтинг строится соединением с таблицей лайков.
//
// FindRecommendations возвращает фильмы, лайкнутые похожим пользователем
// и не лайкнутые целевым, от самых свежих по дате релиза, не более limit.
//
// DeleteByID выполняет атомарный каскад: лайки, связи с жанрами и
// режиссерами, отзывы фильма с их оценками, события лайков фильма и
// события его отзывов, затем сама строка фильма.
type FilmStore interface {
	Create(ctx context.Context, film *domain.Film) error
	Update(ctx context.Context, film *domain.Film) error
	FindAll(ctx context.Context) ([]domain.Film, error)
	FindByID(ctx context.Context, id int64) (*domain.Film, error)
	Contains(ctx context.Context, id int64) (bool, error)
	DeleteByID(ctx context.Context, id int64) error

	FindMostPopular(ctx context.Context, params PopularFilmsParams) ([]domain.Film, error)
	FindCommon(ctx context.Context, userID, friendID int64) ([]domain.Film, error)
	FindRecommendations(ctx context.Context, userID, similarUserID int64, limit int) ([]domain.Film, error)
	FindByDirector(ctx context.Context, directorID int64, sortBy DirectorFilmsSort) ([]domain.Film, error)
	Search(ctx context.Context, query string, byTitle, byDirector bool) ([]domain.Film, error)
}

// MemoryFilmStore - реализация FilmStore поверх MemoryDB.
type MemoryFilmStore struct {
	db *MemoryDB
}

func NewMemoryFilmStore(db *MemoryDB) *MemoryFilmStore {
	return &MemoryFilmStore{db: db}
}

func (s *MemoryFilmStore) Create(ctx context.Context, film *domain.Film) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	s.db.nextFilmID++
	film.ID = s.db.nextFilmID
	s.db.films[film.ID] = domain.Film{
		ID:          film.ID,
		Name:        film.Name,
		Description: film.Description,
		ReleaseDate: film.ReleaseDate,
		Duration:    film.Duration,
		MPA:         domain.MPA{ID: film.MPA.ID},
	}
	s.db.filmGenres[film.ID] = distinctIDs(genreIDs(film.Genres))
	s.db.filmDirectors[film.ID] = directorIDs(film.Directors)

	*film = s.db.hydrateFilm(s.db.films[film.ID])
	return nil
}

func (s *MemoryFilmStore) Update(ctx context.Context, film *domain.Film) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.films[film.ID]; !ok {
		return ErrFilmNotFound
	}
	s.db.films[film.ID] = domain.Film{
		ID:          film.ID,
		Name:        film.Name,
		Description: film.Description,
		ReleaseDate: film.ReleaseDate,
		Duration:    film.Duration,
		MPA:         domain.MPA{ID: film.MPA.ID},
	}
	s.db.filmGenres[film.ID] = distinctIDs(genreIDs(film.Genres))
	s.db.filmDirectors[film.ID] = directorIDs(film.Directors)

	*film = s.db.hydrateFilm(s.db.films[film.ID])
	return nil
}

func (s *MemoryFilmStore) FindAll(ctx context.Context) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	films := make([]domain.Film, 0, len(s.db.films))
	for _, f := range s.db.films {
		films = append(films, s.db.hydrateFilm(f))
	}
	sort.Slice(films, func(i, j int) bool { return films[i].ID < films[j].ID })
	return films, nil
}

func (s *MemoryFilmStore) FindByID(ctx context.Context, id int64) (*domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	f, ok := s.db.films[id]
	if !ok {
		return nil, ErrFilmNotFound
	}
	hydrated := s.db.hydrateFilm(f)
	return &hydrated, nil
}

func (s *MemoryFilmStore) Contains(ctx context.Context, id int64) (bool, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	_, ok := s.db.films[id]
	return ok, nil
}

func (s *MemoryFilmStore) DeleteByID(ctx context.Context, id int64) error {
	s.db.mu.Lock()
	defer s.db.mu.Unlock()

	if _, ok := s.db.films[id]; !ok {
		return ErrFilmNotFound
	}

	// Отзывы фильма и их оценки.
	reviewIDs := make(map[int64]struct{})
	for reviewID, review := range s.db.reviews {
		if review.FilmID == id {
			reviewIDs[reviewID] = struct{}{}
			delete(s.db.reviews, reviewID)
			delete(s.db.reviewRatings, reviewID)
		}
	}

	// События лайков фильма и события его отзывов.
	remaining := s.db.events[:0]
	for _, e := range s.db.events {
		if e.EventType == domain.EventTypeLike && e.EntityID == id {
			continue
		}
		if e.EventType == domain.EventTypeReview {
			if _, ok := reviewIDs[e.EntityID]; ok {
				continue
			}
		}
		remaining = append(remaining, e)
	}
	s.db.events = remaining

	delete(s.db.likes, id)
	delete(s.db.filmGenres, id)
	delete(s.db.filmDirectors, id)
	delete(s.db.films, id)
	return nil
}

func (s *MemoryFilmStore) FindMostPopular(ctx context.Context, params PopularFilmsParams) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	if params.Count <= 0 {
		return []domain.Film{}, nil
	}

	var films []domain.Film
	for _, f := range s.db.films {
		if s.db.likeCount(f.ID) == 0 {
			continue
		}
		if params.GenreID != nil && !containsID(s.db.filmGenres[f.ID], *params.GenreID) {
			continue
		}
		if params.Year != nil && f.ReleaseDate.Year() != *params.Year {
			continue
		}
		films = append(films, s.db.hydrateFilm(f))
	}

	s.sortByLikesDesc(films)
	if len(films) > params.Count {
		films = films[:params.Count]
	}
	if films == nil {
		films = []domain.Film{}
	}
	return films, nil
}

func (s *MemoryFilmStore) FindCommon(ctx context.Context, userID, friendID int64) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	films := []domain.Film{}
	for filmID, set := range s.db.likes {
		_, likedByUser := set[userID]
		_, likedByFriend := set[friendID]
		if likedByUser && likedByFriend {
			films = append(films, s.db.hydrateFilm(s.db.films[filmID]))
		}
	}
	s.sortByLikesDesc(films)
	return films, nil
}

func (s *MemoryFilmStore) FindRecommendations(ctx context.Context, userID, similarUserID int64, limit int) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	films := []domain.Film{}
	for filmID, set := range s.db.likes {
		if _, likedBySimilar := set[similarUserID]; !likedBySimilar {
			continue
		}
		if _, likedByUser := set[userID]; likedByUser {
			continue
		}
		films = append(films, s.db.hydrateFilm(s.db.films[filmID]))
	}

	// От самых свежих по дате релиза, при равенстве - по возрастанию id.
	sort.Slice(films, func(i, j int) bool {
		if !films[i].ReleaseDate.Equal(films[j].ReleaseDate.Time) {
			return films[i].ReleaseDate.After(films[j].ReleaseDate)
		}
		return films[i].ID < films[j].ID
	})
	if len(films) > limit {
		films = films[:limit]
	}
	return films, nil
}

func (s *MemoryFilmStore) FindByDirector(ctx context.Context, directorID int64, sortBy DirectorFilmsSort) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	films := []domain.Film{}
	for filmID, directors := range s.db.filmDirectors {
		if containsID(directors, directorID) {
			films = append(films, s.db.hydrateFilm(s.db.films[filmID]))
		}
	}

	switch sortBy {
	case DirectorFilmsSortYear:
		sort.Slice(films, func(i, j int) bool {
			if !films[i].ReleaseDate.Equal(films[j].ReleaseDate.Time) {
				return films[i].ReleaseDate.Before(films[j].ReleaseDate)
			}
			return films[i].ID < films[j].ID
		})
	case DirectorFilmsSortLikes:
		s.sortByLikesDesc(films)
	}
	return films, nil
}

func (s *MemoryFilmStore) Search(ctx context.Context, query string, byTitle, byDirector bool) ([]domain.Film, error) {
	s.db.mu.RLock()
	defer s.db.mu.RUnlock()

	needle := strings.ToLower(query)
	films := []domain.Film{}
	for _, f := range s.db.films {
		matched := false
		if byTitle && strings.Contains(strings.ToLower(f.Name), needle) {
			matched = true
		}
		if !matched && byDirector {
			for _, did := range s.db.filmDirectors[f.ID] {
				if d, ok := s.db.directors[did]; ok && strings.Contains(strings.ToLower(d.Name), needle) {
					matched = true
					break
				}
			}
		}
		if matched {
			films = append(films, s.db.hydrateFilm(f))
		}
	}
	s.sortByLikesDesc(films)
	return films, nil
}

// sortByLikesDesc сортирует по числу лайков по убыванию, при равенстве -
// по возрастанию id. Вызывать под мьютексом.
func (s *MemoryFilmStore) sortByLikesDesc(films []domain.Film) {
	sort.Slice(films, func(i, j int) bool {
		li, lj := len(films[i].Likes), len(films[j].Likes)
		if li != lj {
			return li > lj
		}
		return films[i].ID < films[j].ID
	})
}

func genreIDs(genres []domain.Genre) []int64 {
	ids := make([]int64, 0, len(genres))
	for _, g := range genres {
		ids = append(ids, g.ID)
	}
	return ids
}

func directorIDs(directors []domain.Director) []int64 {
	ids := make([]int64, 0, len(directors))
	for _, d := range directors {
		ids = append(ids, d.ID)
	}
	return ids
}

// distinctIDs схлопывает дубликаты, сохраняя порядок по возрастанию.
func distinctIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sortIDs(out)
	return out
}
