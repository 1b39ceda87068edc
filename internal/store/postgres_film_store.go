package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/oxelen/java-filmorate/internal/domain"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresFilmStore реализует FilmStore для PostgreSQL.
type PostgresFilmStore struct {
	db     *sqlx.DB
	logger *slog.Logger
}

// NewPostgresFilmStore создает новый экземпляр PostgresFilmStore.
func NewPostgresFilmStore(db *sqlx.DB, logger *slog.Logger) (*PostgresFilmStore, error) {
	if db == nil {
		return nil, errors.New("database connection (db) cannot be nil")
	}
	return &PostgresFilmStore{db: db, logger: logger}, nil
}

// filmRow - строка таблицы films с внешним ключом на MPA.
type filmRow struct {
	domain.Film
	MPAID int64 `db:"mpa_id"`
}

const filmColumns = `f.id, f.name, f.description, f.release_date, f.duration, f.mpa_id`

// Create создает фильм вместе со связями с жанрами и режиссерами.
func (s *PostgresFilmStore) Create(ctx context.Context, film *domain.Film) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin create film transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `INSERT INTO films (name, description, release_date, duration, mpa_id)
              VALUES ($1, $2, $3, $4, $5) RETURNING id`

	s.logger.DebugContext(ctx, "Executing Create film query", slog.String("name", film.Name))
	err = tx.QueryRowxContext(ctx, query,
		film.Name, film.Description, film.ReleaseDate, film.Duration, film.MPA.ID,
	).Scan(&film.ID)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to create film in DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to create film: %w", err)
	}

	if err := s.insertLinks(ctx, tx, film); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit create film transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.InfoContext(ctx, "Film created successfully in DB", slog.Int64("filmID", film.ID))
	return s.reload(ctx, film)
}

// Update перезаписывает фильм и его связи с жанрами и режиссерами.
func (s *PostgresFilmStore) Update(ctx context.Context, film *domain.Film) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin update film transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `UPDATE films SET name = $1, description = $2, release_date = $3, duration = $4, mpa_id = $5
              WHERE id = $6`

	s.logger.DebugContext(ctx, "Executing Update film query", slog.Int64("filmID", film.ID))
	result, err := tx.ExecContext(ctx, query,
		film.Name, film.Description, film.ReleaseDate, film.Duration, film.MPA.ID, film.ID,
	)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to update film in DB", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to update film: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No film found to update in DB", slog.Int64("filmID", film.ID))
		return ErrFilmNotFound
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM film_genres WHERE film_id = $1`, film.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear film genres", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to clear film genres: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM film_directors WHERE film_id = $1`, film.ID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to clear film directors", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
		return fmt.Errorf("failed to clear film directors: %w", err)
	}
	if err := s.insertLinks(ctx, tx, film); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit update film transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return s.reload(ctx, film)
}

// FindAll возвращает все фильмы, отсортированные по id.
func (s *PostgresFilmStore) FindAll(ctx context.Context) ([]domain.Film, error) {
	query := `SELECT ` + filmColumns + ` FROM films f ORDER BY f.id`
	return s.selectFilms(ctx, query)
}

// FindByID находит фильм по его ID.
func (s *PostgresFilmStore) FindByID(ctx context.Context, id int64) (*domain.Film, error) {
	query := `SELECT ` + filmColumns + ` FROM films f WHERE f.id = $1`
	var row filmRow

	s.logger.DebugContext(ctx, "Executing FindFilmByID query", slog.Int64("filmID", id))
	err := s.db.GetContext(ctx, &row, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.logger.WarnContext(ctx, "Film not found by ID in DB", slog.Int64("filmID", id))
			return nil, ErrFilmNotFound
		}
		s.logger.ErrorContext(ctx, "Failed to get film by ID from DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to get film by ID: %w", err)
	}

	films := []filmRow{row}
	if err := s.hydrate(ctx, films); err != nil {
		return nil, err
	}
	return &films[0].Film, nil
}

// Contains сообщает, существует ли фильм с данным ID.
func (s *PostgresFilmStore) Contains(ctx context.Context, id int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM films WHERE id = $1)`
	var exists bool

	if err := s.db.GetContext(ctx, &exists, query, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to check film existence in DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return false, fmt.Errorf("failed to check film existence: %w", err)
	}
	return exists, nil
}

// DeleteByID удаляет фильм со всеми зависимыми данными одной транзакцией:
// отзывы фильма с оценками, события лайков фильма и события его отзывов,
// лайки, связи с жанрами и режиссерами.
func (s *PostgresFilmStore) DeleteByID(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to begin delete film transaction", slog.String("error", err.Error()))
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	s.logger.DebugContext(ctx, "Executing DeleteFilmByID cascade", slog.Int64("filmID", id))

	var reviewIDs []int64
	if err := tx.SelectContext(ctx, &reviewIDs, `SELECT id FROM reviews WHERE film_id = $1`, id); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load film review ids", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to load film review ids: %w", err)
	}
	if len(reviewIDs) > 0 {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM reviews_ratings WHERE review_id = ANY($1)`, pq.Array(reviewIDs)); err != nil {
			s.logger.ErrorContext(ctx, "Failed to delete film review ratings", slog.Int64("filmID", id), slog.String("error", err.Error()))
			return fmt.Errorf("failed to delete film review ratings: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM events WHERE event_type = $1 AND entity_id = ANY($2)`,
			domain.EventTypeReview, pq.Array(reviewIDs)); err != nil {
			s.logger.ErrorContext(ctx, "Failed to delete film review events", slog.Int64("filmID", id), slog.String("error", err.Error()))
			return fmt.Errorf("failed to delete film review events: %w", err)
		}
	}

	steps := []struct {
		query string
		args  []interface{}
	}{
		{`DELETE FROM events WHERE event_type = $1 AND entity_id = $2`, []interface{}{domain.EventTypeLike, id}},
		{`DELETE FROM reviews WHERE film_id = $1`, []interface{}{id}},
		{`DELETE FROM likes WHERE film_id = $1`, []interface{}{id}},
		{`DELETE FROM film_genres WHERE film_id = $1`, []interface{}{id}},
		{`DELETE FROM film_directors WHERE film_id = $1`, []interface{}{id}},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step.query, step.args...); err != nil {
			s.logger.ErrorContext(ctx, "Failed to delete film dependent rows", slog.Int64("filmID", id), slog.String("error", err.Error()))
			return fmt.Errorf("failed to delete film dependent rows: %w", err)
		}
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM films WHERE id = $1`, id)
	if err != nil {
		s.logger.ErrorContext(ctx, "Failed to delete film from DB", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to delete film: %w", err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		s.logger.WarnContext(ctx, "No film found to delete in DB", slog.Int64("filmID", id))
		return ErrFilmNotFound
	}

	if err := tx.Commit(); err != nil {
		s.logger.ErrorContext(ctx, "Failed to commit delete film transaction", slog.Int64("filmID", id), slog.String("error", err.Error()))
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	s.logger.InfoContext(ctx, "Film deleted successfully from DB", slog.Int64("filmID", id))
	return nil
}

// FindMostPopular ранжирует фильмы по числу лайков. Внутреннее соединение
// с таблицей лайков отсекает фильмы без единого лайка.
func (s *PostgresFilmStore) FindMostPopular(ctx context.Context, params PopularFilmsParams) ([]domain.Film, error) {
	if params.Count <= 0 {
		return []domain.Film{}, nil
	}

	query := `SELECT ` + filmColumns + ` FROM films f JOIN likes l ON l.film_id = f.id`
	var args []interface{}
	var conditions []string
	argID := 1

	if params.GenreID != nil {
		query += fmt.Sprintf(` JOIN film_genres fg ON fg.film_id = f.id AND fg.genre_id = $%d`, argID)
		args = append(args, *params.GenreID)
		argID++
	}
	if params.Year != nil {
		conditions = append(conditions, fmt.Sprintf(`EXTRACT(YEAR FROM f.release_date) = $%d`, argID))
		args = append(args, *params.Year)
		argID++
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(` GROUP BY f.id ORDER BY COUNT(l.user_id) DESC, f.id LIMIT $%d`, argID)
	args = append(args, params.Count)

	return s.selectFilms(ctx, query, args...)
}

// FindCommon возвращает фильмы, лайкнутые обоими пользователями,
// в порядке общей популярности.
func (s *PostgresFilmStore) FindCommon(ctx context.Context, userID, friendID int64) ([]domain.Film, error) {
	query := `SELECT ` + filmColumns + `
              FROM films f
              JOIN likes ul ON ul.film_id = f.id AND ul.user_id = $1
              JOIN likes fl ON fl.film_id = f.id AND fl.user_id = $2
              JOIN likes l ON l.film_id = f.id
              GROUP BY f.id
              ORDER BY COUNT(l.user_id) DESC, f.id`
	return s.selectFilms(ctx, query, userID, friendID)
}

// FindRecommendations возвращает фильмы, лайкнутые похожим пользователем
// и не лайкнутые целевым, от самых свежих по дате релиза.
func (s *PostgresFilmStore) FindRecommendations(ctx context.Context, userID, similarUserID int64, limit int) ([]domain.Film, error) {
	query := `SELECT ` + filmColumns + `
              FROM films f
              JOIN likes sl ON sl.film_id = f.id AND sl.user_id = $2
              WHERE NOT EXISTS (SELECT 1 FROM likes ul WHERE ul.film_id = f.id AND ul.user_id = $1)
              ORDER BY f.release_date DESC, f.id
              LIMIT $3`
	return s.selectFilms(ctx, query, userID, similarUserID, limit)
}

// FindByDirector возвращает фильмы режиссера в запрошенном порядке.
func (s *PostgresFilmStore) FindByDirector(ctx context.Context, directorID int64, sortBy DirectorFilmsSort) ([]domain.Film, error) {
	var query string
	switch sortBy {
	case DirectorFilmsSortLikes:
		query = `SELECT ` + filmColumns + `
                 FROM films f
                 JOIN film_directors fd ON fd.film_id = f.id AND fd.director_id = $1
                 LEFT JOIN likes l ON l.film_id = f.id
                 GROUP BY f.id
                 ORDER BY COUNT(l.user_id) DESC, f.id`
	default:
		query = `SELECT ` + filmColumns + `
                 FROM films f
                 JOIN film_directors fd ON fd.film_id = f.id AND fd.director_id = $1
                 ORDER BY f.release_date, f.id`
	}
	return s.selectFilms(ctx, query, directorID)
}

// Search ищет фильмы по подстроке названия и/или имени режиссера
// (без учета регистра), в порядке популярности.
func (s *PostgresFilmStore) Search(ctx context.Context, query string, byTitle, byDirector bool) ([]domain.Film, error) {
	var conditions []string
	if byTitle {
		conditions = append(conditions, `LOWER(f.name) LIKE LOWER($1)`)
	}
	if byDirector {
		conditions = append(conditions, `EXISTS (SELECT 1 FROM film_directors fd
                                                 JOIN directors d ON d.id = fd.director_id
                                                 WHERE fd.film_id = f.id AND LOWER(d.name) LIKE LOWER($1))`)
	}
	if len(conditions) == 0 {
		return []domain.Film{}, nil
	}

	sqlQuery := `SELECT ` + filmColumns + `
                 FROM films f
                 LEFT JOIN likes l ON l.film_id = f.id
                 WHERE ` + strings.Join(conditions, " OR ") + `
                 GROUP BY f.id
                 ORDER BY COUNT(l.user_id) DESC, f.id`
	return s.selectFilms(ctx, sqlQuery, "%"+query+"%")
}

// insertLinks вставляет связи фильма с жанрами (дубликаты схлопываются)
// и режиссерами.
func (s *PostgresFilmStore) insertLinks(ctx context.Context, tx *sqlx.Tx, film *domain.Film) error {
	for _, gid := range distinctIDs(genreIDs(film.Genres)) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO film_genres (film_id, genre_id) VALUES ($1, $2)`, film.ID, gid); err != nil {
			s.logger.ErrorContext(ctx, "Failed to link film genre", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
			return fmt.Errorf("failed to link film genre: %w", err)
		}
	}
	for _, did := range directorIDs(film.Directors) {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO film_directors (film_id, director_id) VALUES ($1, $2)`, film.ID, did); err != nil {
			s.logger.ErrorContext(ctx, "Failed to link film director", slog.Int64("filmID", film.ID), slog.String("error", err.Error()))
			return fmt.Errorf("failed to link film director: %w", err)
		}
	}
	return nil
}

// reload перечитывает фильм после записи, чтобы вернуть вызывающему
// гидратированное представление.
func (s *PostgresFilmStore) reload(ctx context.Context, film *domain.Film) error {
	stored, err := s.FindByID(ctx, film.ID)
	if err != nil {
		return err
	}
	*film = *stored
	return nil
}

// selectFilms выполняет запрос со списком filmColumns и гидратирует выдачу.
func (s *PostgresFilmStore) selectFilms(ctx context.Context, query string, args ...interface{}) ([]domain.Film, error) {
	rows := []filmRow{}

	s.logger.DebugContext(ctx, "Executing select films query", slog.String("query", query))
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		s.logger.ErrorContext(ctx, "Failed to select films from DB", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to select films: %w", err)
	}
	if err := s.hydrate(ctx, rows); err != nil {
		return nil, err
	}

	films := make([]domain.Film, 0, len(rows))
	for _, r := range rows {
		films = append(films, r.Film)
	}
	return films, nil
}

// hydrate достраивает выбранные фильмы справочными данными: MPA, жанры,
// режиссеры и лайки. Три групповых запроса на всю выдачу вместо запроса
// на каждый фильм.
func (s *PostgresFilmStore) hydrate(ctx context.Context, rows []filmRow) error {
	if len(rows) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}

	mpas := []domain.MPA{}
	if err := s.db.SelectContext(ctx, &mpas, `SELECT id, name FROM mpas`); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load mpa ratings from DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to load mpa ratings: %w", err)
	}
	mpaByID := make(map[int64]domain.MPA, len(mpas))
	for _, m := range mpas {
		mpaByID[m.ID] = m
	}

	var genreRows []struct {
		FilmID int64  `db:"film_id"`
		ID     int64  `db:"id"`
		Name   string `db:"name"`
	}
	genreQuery := `SELECT fg.film_id, g.id, g.name
                   FROM film_genres fg
                   JOIN genres g ON g.id = fg.genre_id
                   WHERE fg.film_id = ANY($1)
                   ORDER BY fg.film_id, g.id`
	if err := s.db.SelectContext(ctx, &genreRows, genreQuery, pq.Array(ids)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load film genres from DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to load film genres: %w", err)
	}

	var directorRows []struct {
		FilmID int64  `db:"film_id"`
		ID     int64  `db:"id"`
		Name   string `db:"name"`
	}
	directorQuery := `SELECT fd.film_id, d.id, d.name
                      FROM film_directors fd
                      JOIN directors d ON d.id = fd.director_id
                      WHERE fd.film_id = ANY($1)
                      ORDER BY fd.film_id, d.id`
	if err := s.db.SelectContext(ctx, &directorRows, directorQuery, pq.Array(ids)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load film directors from DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to load film directors: %w", err)
	}

	var likeRows []struct {
		FilmID int64 `db:"film_id"`
		UserID int64 `db:"user_id"`
	}
	likeQuery := `SELECT film_id, user_id FROM likes WHERE film_id = ANY($1) ORDER BY film_id, user_id`
	if err := s.db.SelectContext(ctx, &likeRows, likeQuery, pq.Array(ids)); err != nil {
		s.logger.ErrorContext(ctx, "Failed to load film likes from DB", slog.String("error", err.Error()))
		return fmt.Errorf("failed to load film likes: %w", err)
	}

	genresByFilm := make(map[int64][]domain.Genre)
	for _, g := range genreRows {
		genresByFilm[g.FilmID] = append(genresByFilm[g.FilmID], domain.Genre{ID: g.ID, Name: g.Name})
	}
	directorsByFilm := make(map[int64][]domain.Director)
	for _, d := range directorRows {
		directorsByFilm[d.FilmID] = append(directorsByFilm[d.FilmID], domain.Director{ID: d.ID, Name: d.Name})
	}
	likesByFilm := make(map[int64][]int64)
	for _, l := range likeRows {
		likesByFilm[l.FilmID] = append(likesByFilm[l.FilmID], l.UserID)
	}

	for i := range rows {
		rows[i].MPA = mpaByID[rows[i].MPAID]
		rows[i].Genres = genresByFilm[rows[i].ID]
		if rows[i].Genres == nil {
			rows[i].Genres = []domain.Genre{}
		}
		rows[i].Directors = directorsByFilm[rows[i].ID]
		if rows[i].Directors == nil {
			rows[i].Directors = []domain.Director{}
		}
		rows[i].Likes = likesByFilm[rows[i].ID]
	}
	return nil
}
