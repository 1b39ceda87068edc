package store

import (
	"sort"
	"sync"
	"time"

	"github.com/oxelen/java-filmorate/internal/domain"
)

// MemoryDB - общее in-memory хранилище для всех memory-реализаций store.
// Играет ту же роль, что *sqlx.DB для Postgres-реализаций: одна "база",
// разделяемая всеми хранилищами, под одним мьютексом. Используется в
// тестах и для локального запуска без PostgreSQL.
type MemoryDB struct {
	mu sync.RWMutex

	users     map[int64]domain.User
	films     map[int64]domain.Film // MPA.Name, Genres и Directors гидратируются при чтении
	reviews   map[int64]domain.Review
	directors map[int64]domain.Director
	genres    map[int64]domain.Genre
	mpas      map[int64]domain.MPA
	events    []domain.Event

	likes         map[int64]map[int64]struct{} // film id -> множество user id
	friends       map[int64]map[int64]struct{} // user id -> множество id друзей (направленно)
	reviewRatings map[int64]map[int64]bool     // review id -> user id -> true=лайк, false=дизлайк
	filmGenres    map[int64][]int64            // film id -> genre ids
	filmDirectors map[int64][]int64            // film id -> director ids

	nextUserID     int64
	nextFilmID     int64
	nextReviewID   int64
	nextEventID    int64
	nextDirectorID int64
	lastEventTS    int64
}

// NewMemoryDB создает пустое хранилище с предзаполненными справочниками
// жанров и MPA-рейтингов (те же значения, что в schema.sql).
func NewMemoryDB() *MemoryDB {
	db := &MemoryDB{
		users:         make(map[int64]domain.User),
		films:         make(map[int64]domain.Film),
		reviews:       make(map[int64]domain.Review),
		directors:     make(map[int64]domain.Director),
		genres:        make(map[int64]domain.Genre),
		mpas:          make(map[int64]domain.MPA),
		likes:         make(map[int64]map[int64]struct{}),
		friends:       make(map[int64]map[int64]struct{}),
		reviewRatings: make(map[int64]map[int64]bool),
		filmGenres:    make(map[int64][]int64),
		filmDirectors: make(map[int64][]int64),
	}

	for _, g := range []domain.Genre{
		{ID: 1, Name: "Комедия"},
		{ID: 2, Name: "Драма"},
		{ID: 3, Name: "Мультфильм"},
		{ID: 4, Name: "Триллер"},
		{ID: 5, Name: "Документальный"},
		{ID: 6, Name: "Боевик"},
	} {
		db.genres[g.ID] = g
	}

	for _, m := range []domain.MPA{
		{ID: 1, Name: "G"},
		{ID: 2, Name: "PG"},
		{ID: 3, Name: "PG-13"},
		{ID: 4, Name: "R"},
		{ID: 5, Name: "NC-17"},
	} {
		db.mpas[m.ID] = m
	}

	return db
}

// nextEventTimestamp возвращает монотонно неубывающую метку времени
// в миллисекундах. Вызывать под мьютексом.
func (db *MemoryDB) nextEventTimestamp() int64 {
	ts := time.Now().UnixMilli()
	if ts <= db.lastEventTS {
		ts = db.lastEventTS + 1
	}
	db.lastEventTS = ts
	return ts
}

// likeCount возвращает число лайков фильма. Вызывать под мьютексом.
func (db *MemoryDB) likeCount(filmID int64) int {
	return len(db.likes[filmID])
}

// hydrateFilm достраивает фильм справочными данными: имя MPA, жанры
// (отсортированы по id, дубликаты схлопнуты при записи), режиссеры и
// множество лайкнувших пользователей. Вызывать под мьютексом.
func (db *MemoryDB) hydrateFilm(f domain.Film) domain.Film {
	if mpa, ok := db.mpas[f.MPA.ID]; ok {
		f.MPA = mpa
	}

	f.Genres = make([]domain.Genre, 0, len(db.filmGenres[f.ID]))
	for _, gid := range db.filmGenres[f.ID] {
		if g, ok := db.genres[gid]; ok {
			f.Genres = append(f.Genres, g)
		}
	}

	f.Directors = make([]domain.Director, 0, len(db.filmDirectors[f.ID]))
	for _, did := range db.filmDirectors[f.ID] {
		if d, ok := db.directors[did]; ok {
			f.Directors = append(f.Directors, d)
		}
	}

	f.Likes = sortedIDs(db.likes[f.ID])

	return f
}

// hydrateUser достраивает пользователя множеством id друзей.
// Вызывать под мьютексом.
func (db *MemoryDB) hydrateUser(u domain.User) domain.User {
	u.Friends = sortedIDs(db.friends[u.ID])
	return u
}

func sortedIDs(set map[int64]struct{}) []int64 {
	ids := make([]int64, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []int64) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
