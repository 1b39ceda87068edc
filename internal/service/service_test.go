package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/oxelen/java-filmorate/internal/domain"
	"github.com/oxelen/java-filmorate/internal/store"
)

// testEnv - полный набор сервисов поверх общего in-memory хранилища.
type testEnv struct {
	db        *store.MemoryDB
	users     *UserService
	films     *FilmService
	reviews   *ReviewService
	directors *DirectorService
	genres    *GenreService
	mpas      *MPAService
	events    *EventService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := store.NewMemoryDB()

	userStore := store.NewMemoryUserStore(db)
	filmStore := store.NewMemoryFilmStore(db)
	likeStore := store.NewMemoryLikeStore(db)
	friendStore := store.NewMemoryFriendStore(db)
	reviewStore := store.NewMemoryReviewStore(db)
	eventStore := store.NewMemoryEventStore(db)
	directorStore := store.NewMemoryDirectorStore(db)
	genreStore := store.NewMemoryGenreStore(db)
	mpaStore := store.NewMemoryMPAStore(db)

	events := NewEventService(eventStore, userStore, logger)
	return &testEnv{
		db:        db,
		users:     NewUserService(userStore, friendStore, events, logger),
		films:     NewFilmService(filmStore, userStore, likeStore, genreStore, mpaStore, directorStore, events, logger),
		reviews:   NewReviewService(reviewStore, userStore, filmStore, events, logger),
		directors: NewDirectorService(directorStore, logger),
		genres:    NewGenreService(genreStore, logger),
		mpas:      NewMPAService(mpaStore, logger),
		events:    events,
	}
}

func (e *testEnv) createUser(t *testing.T, login string) *domain.User {
	t.Helper()

	user, err := e.users.Create(context.Background(), domain.CreateUserRequest{
		Email:    login + "@example.com",
		Login:    login,
		Name:     login,
		Birthday: domain.NewDate(1990, time.March, 15),
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) createFilm(t *testing.T, name string, year int) *domain.Film {
	t.Helper()

	film, err := e.films.Create(context.Background(), domain.CreateFilmRequest{
		Name:        name,
		Description: "test film",
		ReleaseDate: domain.NewDate(year, time.June, 1),
		Duration:    120,
		MPA:         domain.MPARef{ID: 1},
	})
	require.NoError(t, err)
	return film
}

func (e *testEnv) createDirector(t *testing.T, name string) *domain.Director {
	t.Helper()

	director, err := e.directors.Create(context.Background(), domain.CreateDirectorRequest{Name: name})
	require.NoError(t, err)
	return director
}

func (e *testEnv) createReview(t *testing.T, userID, filmID int64) *domain.Review {
	t.Helper()

	review, err := e.reviews.Create(context.Background(), domain.CreateReviewRequest{
		Content: fmt.Sprintf("review by %d on %d", userID, filmID),
		UserID:  userID,
		FilmID:  filmID,
	})
	require.NoError(t, err)
	return review
}
