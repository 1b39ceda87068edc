package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxelen/java-filmorate/internal/domain"
)

func TestFilmService_Create_TooEarlyReleaseDateRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.films.Create(context.Background(), domain.CreateFilmRequest{
		Name:        "Before Cinema",
		ReleaseDate: domain.NewDate(1895, time.December, 27),
		Duration:    60,
		MPA:         domain.MPARef{ID: 1},
	})
	require.ErrorIs(t, err, ErrValidation)

	// Ровно день рождения кино проходит.
	film, err := env.films.Create(context.Background(), domain.CreateFilmRequest{
		Name:        "First Show",
		ReleaseDate: domain.NewDate(1895, time.December, 28),
		Duration:    60,
		MPA:         domain.MPARef{ID: 1},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), film.ID)
}

func TestFilmService_Create_UnknownRefsRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.films.Create(ctx, domain.CreateFilmRequest{
		Name:        "Bad MPA",
		ReleaseDate: domain.NewDate(2000, time.January, 1),
		Duration:    90,
		MPA:         domain.MPARef{ID: 42},
	})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.films.Create(ctx, domain.CreateFilmRequest{
		Name:        "Bad Genre",
		ReleaseDate: domain.NewDate(2000, time.January, 1),
		Duration:    90,
		MPA:         domain.MPARef{ID: 1},
		Genres:      []domain.GenreRef{{ID: 99}},
	})
	require.ErrorIs(t, err, ErrNotFound)

	_, err = env.films.Create(ctx, domain.CreateFilmRequest{
		Name:        "Bad Director",
		ReleaseDate: domain.NewDate(2000, time.January, 1),
		Duration:    90,
		MPA:         domain.MPARef{ID: 1},
		Directors:   []domain.DirectorRef{{ID: 7}},
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFilmService_Create_HydratesRefsAndDropsDuplicateGenres(t *testing.T) {
	env := newTestEnv(t)

	film, err := env.films.Create(context.Background(), domain.CreateFilmRequest{
		Name:        "Comedy Drama",
		ReleaseDate: domain.NewDate(2005, time.May, 5),
		Duration:    100,
		MPA:         domain.MPARef{ID: 3},
		Genres:      []domain.GenreRef{{ID: 2}, {ID: 1}, {ID: 2}},
	})
	require.NoError(t, err)

	assert.Equal(t, "PG-13", film.MPA.Name)
	require.Len(t, film.Genres, 2)
	assert.Equal(t, "Комедия", film.Genres[0].Name)
	assert.Equal(t, "Драма", film.Genres[1].Name)
}

func TestFilmService_Like_DuplicateRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "alice")
	film := env.createFilm(t, "Alien", 1979)

	require.NoError(t, env.films.Like(ctx, film.ID, user.ID))
	err := env.films.Like(ctx, film.ID, user.ID)
	require.ErrorIs(t, err, ErrDuplicated)
}

func TestFilmService_DeleteLike_MissingLikeIsConditionsNotMet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "alice")
	film := env.createFilm(t, "Alien", 1979)

	err := env.films.DeleteLike(ctx, film.ID, user.ID)
	require.ErrorIs(t, err, ErrConditionsNotMet)
}

func TestFilmService_LikeAndUnlike_RecordsEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "alice")
	film := env.createFilm(t, "Alien", 1979)

	require.NoError(t, env.films.Like(ctx, film.ID, user.ID))
	require.NoError(t, env.films.DeleteLike(ctx, film.ID, user.ID))

	feed, err := env.events.GetUserFeed(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)
	assert.Equal(t, domain.EventTypeLike, feed[0].EventType)
	assert.Equal(t, domain.EventOperationRemove, feed[0].Operation)
	assert.Equal(t, film.ID, feed[0].EntityID)
	assert.Equal(t, domain.EventOperationAdd, feed[1].Operation)
}

func TestFilmService_GetMostPopular_Ranking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := []*domain.User{env.createUser(t, "u1"), env.createUser(t, "u2"), env.createUser(t, "u3")}
	first := env.createFilm(t, "First", 2001)
	second := env.createFilm(t, "Second", 2002)
	unliked := env.createFilm(t, "Unliked", 2003)

	for _, u := range users {
		require.NoError(t, env.films.Like(ctx, second.ID, u.ID))
	}
	require.NoError(t, env.films.Like(ctx, first.ID, users[0].ID))

	popular, err := env.films.GetMostPopular(ctx, 10, nil, nil)
	require.NoError(t, err)
	require.Len(t, popular, 2)
	assert.Equal(t, second.ID, popular[0].ID)
	assert.Equal(t, first.ID, popular[1].ID)

	// Фильм без лайков в рейтинг не попадает.
	for _, f := range popular {
		assert.NotEqual(t, unliked.ID, f.ID)
	}
}

func TestFilmService_GetMostPopular_CountAndFilters(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "alice")

	comedy, err := env.films.Create(ctx, domain.CreateFilmRequest{
		Name:        "Comedy 2001",
		ReleaseDate: domain.NewDate(2001, time.April, 1),
		Duration:    90,
		MPA:         domain.MPARef{ID: 1},
		Genres:      []domain.GenreRef{{ID: 1}},
	})
	require.NoError(t, err)
	drama, err := env.films.Create(ctx, domain.CreateFilmRequest{
		Name:        "Drama 2002",
		ReleaseDate: domain.NewDate(2002, time.April, 1),
		Duration:    90,
		MPA:         domain.MPARef{ID: 1},
		Genres:      []domain.GenreRef{{ID: 2}},
	})
	require.NoError(t, err)
	require.NoError(t, env.films.Like(ctx, comedy.ID, user.ID))
	require.NoError(t, env.films.Like(ctx, drama.ID, user.ID))

	genreID := int64(1)
	popular, err := env.films.GetMostPopular(ctx, 10, &genreID, nil)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, comedy.ID, popular[0].ID)

	year := 2002
	popular, err = env.films.GetMostPopular(ctx, 10, nil, &year)
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, drama.ID, popular[0].ID)

	popular, err = env.films.GetMostPopular(ctx, 0, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, popular)

	unknownGenre := int64(99)
	_, err = env.films.GetMostPopular(ctx, 10, &unknownGenre, nil)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFilmService_GetCommon(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	shared := env.createFilm(t, "Shared", 2000)
	aliceOnly := env.createFilm(t, "AliceOnly", 2001)

	require.NoError(t, env.films.Like(ctx, shared.ID, alice.ID))
	require.NoError(t, env.films.Like(ctx, shared.ID, bob.ID))
	require.NoError(t, env.films.Like(ctx, aliceOnly.ID, alice.ID))

	common, err := env.films.GetCommon(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, common, 1)
	assert.Equal(t, shared.ID, common[0].ID)
}

func TestFilmService_GetRecommendations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	shared := env.createFilm(t, "Shared", 2000)
	newer := env.createFilm(t, "Newer", 2020)
	older := env.createFilm(t, "Older", 2010)

	require.NoError(t, env.films.Like(ctx, shared.ID, alice.ID))
	require.NoError(t, env.films.Like(ctx, shared.ID, bob.ID))
	require.NoError(t, env.films.Like(ctx, older.ID, bob.ID))
	require.NoError(t, env.films.Like(ctx, newer.ID, bob.ID))

	recs, err := env.films.GetRecommendations(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	// От самых свежих по дате релиза; уже лайкнутое не рекомендуется.
	assert.Equal(t, newer.ID, recs[0].ID)
	assert.Equal(t, older.ID, recs[1].ID)
}

func TestFilmService_GetRecommendations_NoSimilarUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	film := env.createFilm(t, "Solo", 2018)
	require.NoError(t, env.films.Like(ctx, film.ID, alice.ID))

	recs, err := env.films.GetRecommendations(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, recs)

	_, err = env.films.GetRecommendations(ctx, 99)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFilmService_GetByDirector(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	director := env.createDirector(t, "Nolan")
	user := env.createUser(t, "alice")

	late, err := env.films.Create(ctx, domain.CreateFilmRequest{
		Name:        "Late",
		ReleaseDate: domain.NewDate(2015, time.July, 1),
		Duration:    150,
		MPA:         domain.MPARef{ID: 4},
		Directors:   []domain.DirectorRef{{ID: director.ID}},
	})
	require.NoError(t, err)
	early, err := env.films.Create(ctx, domain.CreateFilmRequest{
		Name:        "Early",
		ReleaseDate: domain.NewDate(2005, time.July, 1),
		Duration:    150,
		MPA:         domain.MPARef{ID: 4},
		Directors:   []domain.DirectorRef{{ID: director.ID}},
	})
	require.NoError(t, err)
	require.NoError(t, env.films.Like(ctx, late.ID, user.ID))

	byYear, err := env.films.GetByDirector(ctx, director.ID, "year")
	require.NoError(t, err)
	require.Len(t, byYear, 2)
	assert.Equal(t, early.ID, byYear[0].ID)

	byLikes, err := env.films.GetByDirector(ctx, director.ID, "likes")
	require.NoError(t, err)
	assert.Equal(t, late.ID, byLikes[0].ID)

	_, err = env.films.GetByDirector(ctx, director.ID, "rating")
	require.ErrorIs(t, err, ErrValidation)

	_, err = env.films.GetByDirector(ctx, 99, "year")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFilmService_Search(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	director := env.createDirector(t, "Крадущийся Тигр")

	titled := env.createFilm(t, "Крадущийся в ночи", 2001)
	directed, err := env.films.Create(ctx, domain.CreateFilmRequest{
		Name:        "Другой фильм",
		ReleaseDate: domain.NewDate(2002, time.March, 3),
		Duration:    100,
		MPA:         domain.MPARef{ID: 1},
		Directors:   []domain.DirectorRef{{ID: director.ID}},
	})
	require.NoError(t, err)

	byTitle, err := env.films.Search(ctx, "крад", "title")
	require.NoError(t, err)
	require.Len(t, byTitle, 1)
	assert.Equal(t, titled.ID, byTitle[0].ID)

	byBoth, err := env.films.Search(ctx, "крад", "director,title")
	require.NoError(t, err)
	require.Len(t, byBoth, 2)

	byDirector, err := env.films.Search(ctx, "крад", "director")
	require.NoError(t, err)
	require.Len(t, byDirector, 1)
	assert.Equal(t, directed.ID, byDirector[0].ID)

	_, err = env.films.Search(ctx, "  ", "title")
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.films.Search(ctx, "крад", "rating")
	require.ErrorIs(t, err, ErrValidation)
}

func TestFilmService_DeleteByID_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	film := env.createFilm(t, "Doomed", 1999)
	other := env.createFilm(t, "Survivor", 2000)

	require.NoError(t, env.films.Like(ctx, film.ID, alice.ID))
	require.NoError(t, env.films.Like(ctx, other.ID, alice.ID))
	review := env.createReview(t, alice.ID, film.ID)

	require.NoError(t, env.films.DeleteByID(ctx, film.ID))

	_, err := env.films.FindByID(ctx, film.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = env.reviews.FindByID(ctx, review.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// События лайков удаленного фильма и его отзывов уходят из ленты,
	// события по другим фильмам остаются.
	feed, err := env.events.GetUserFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 1)
	assert.Equal(t, domain.EventTypeLike, feed[0].EventType)
	assert.Equal(t, other.ID, feed[0].EntityID)
}
