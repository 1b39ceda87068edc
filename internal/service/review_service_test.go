package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxelen/java-filmorate/internal/domain"
)

func TestReviewService_Create_StartsNeutral(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "alice")
	film := env.createFilm(t, "Alien", 1979)

	review := env.createReview(t, user.ID, film.ID)
	assert.Equal(t, int64(0), review.Useful)
	assert.False(t, review.IsPositive)
}

func TestReviewService_Create_UnknownUserOrFilm(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "alice")
	film := env.createFilm(t, "Alien", 1979)

	_, err := env.reviews.Create(ctx, domain.CreateReviewRequest{Content: "x", UserID: 99, FilmID: film.ID})
	require.ErrorIs(t, err, ErrNotFound)
	_, err = env.reviews.Create(ctx, domain.CreateReviewRequest{Content: "x", UserID: user.ID, FilmID: 99})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestReviewService_Update_KeepsAuthorAndUsefulness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	rater := env.createUser(t, "bob")
	film := env.createFilm(t, "Alien", 1979)
	review := env.createReview(t, author.ID, film.ID)

	_, err := env.reviews.PutLike(ctx, review.ID, rater.ID)
	require.NoError(t, err)

	updated, err := env.reviews.Update(ctx, domain.UpdateReviewRequest{ID: review.ID, Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, author.ID, updated.UserID)
	assert.Equal(t, int64(1), updated.Useful)
}

func TestReviewService_Events_OnlyOnCreateUpdateDelete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	rater := env.createUser(t, "bob")
	film := env.createFilm(t, "Alien", 1979)

	review := env.createReview(t, author.ID, film.ID)
	_, err := env.reviews.Update(ctx, domain.UpdateReviewRequest{ID: review.ID, Content: "edited"})
	require.NoError(t, err)

	// Оценки отзывов событий не порождают.
	_, err = env.reviews.PutLike(ctx, review.ID, rater.ID)
	require.NoError(t, err)
	require.NoError(t, env.reviews.DeleteLike(ctx, review.ID, rater.ID))

	require.NoError(t, env.reviews.DeleteByID(ctx, review.ID))

	// Все три события в ленте автора, лента оценившего пуста.
	feed, err := env.events.GetUserFeed(ctx, author.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, domain.EventOperationRemove, feed[0].Operation)
	assert.Equal(t, domain.EventOperationUpdate, feed[1].Operation)
	assert.Equal(t, domain.EventOperationAdd, feed[2].Operation)
	for _, e := range feed {
		assert.Equal(t, domain.EventTypeReview, e.EventType)
		assert.Equal(t, review.ID, e.EntityID)
	}

	raterFeed, err := env.events.GetUserFeed(ctx, rater.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, raterFeed)
}

func TestReviewService_RatingStateMachine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	rater := env.createUser(t, "bob")
	film := env.createFilm(t, "Alien", 1979)
	review := env.createReview(t, author.ID, film.ID)

	// Лайк: 0 -> 1.
	rated, err := env.reviews.PutLike(ctx, review.ID, rater.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rated.Useful)
	assert.True(t, rated.IsPositive)

	// Повторный лайк - дубликат.
	_, err = env.reviews.PutLike(ctx, review.ID, rater.ID)
	require.ErrorIs(t, err, ErrDuplicated)

	// Дизлайк поверх лайка: 1 -> -1.
	rated, err = env.reviews.PutDislike(ctx, review.ID, rater.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(-1), rated.Useful)
	assert.False(t, rated.IsPositive)

	// Повторный дизлайк - дубликат.
	_, err = env.reviews.PutDislike(ctx, review.ID, rater.ID)
	require.ErrorIs(t, err, ErrDuplicated)

	// Лайк поверх дизлайка: -1 -> 1.
	rated, err = env.reviews.PutLike(ctx, review.ID, rater.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rated.Useful)

	// Снятие лайка: 1 -> 0.
	require.NoError(t, env.reviews.DeleteLike(ctx, review.ID, rater.ID))
	loaded, err := env.reviews.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), loaded.Useful)
	assert.False(t, loaded.IsPositive)
}

func TestReviewService_DeleteRating_WrongStateIsConditionsNotMet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	rater := env.createUser(t, "bob")
	film := env.createFilm(t, "Alien", 1979)
	review := env.createReview(t, author.ID, film.ID)

	// Оценки нет вовсе.
	err := env.reviews.DeleteLike(ctx, review.ID, rater.ID)
	require.ErrorIs(t, err, ErrConditionsNotMet)

	// Стоит дизлайк, снимается лайк.
	_, err = env.reviews.PutDislike(ctx, review.ID, rater.ID)
	require.NoError(t, err)
	err = env.reviews.DeleteLike(ctx, review.ID, rater.ID)
	require.ErrorIs(t, err, ErrConditionsNotMet)

	err = env.reviews.DeleteDislike(ctx, review.ID, rater.ID)
	require.NoError(t, err)
}

func TestReviewService_FindAll_OrderedByUsefulness(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	author := env.createUser(t, "alice")
	raterOne := env.createUser(t, "bob")
	raterTwo := env.createUser(t, "carol")
	film := env.createFilm(t, "Alien", 1979)
	other := env.createFilm(t, "Blade Runner", 1982)

	plain := env.createReview(t, author.ID, film.ID)
	top := env.createReview(t, raterOne.ID, film.ID)
	foreign := env.createReview(t, author.ID, other.ID)

	_, err := env.reviews.PutLike(ctx, top.ID, raterTwo.ID)
	require.NoError(t, err)
	_, err = env.reviews.PutDislike(ctx, plain.ID, raterTwo.ID)
	require.NoError(t, err)

	all, err := env.reviews.FindAll(ctx, &film.ID, 10)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, top.ID, all[0].ID)
	assert.Equal(t, plain.ID, all[1].ID)
	for _, r := range all {
		assert.NotEqual(t, foreign.ID, r.ID)
	}

	capped, err := env.reviews.FindAll(ctx, &film.ID, 1)
	require.NoError(t, err)
	require.Len(t, capped, 1)
	assert.Equal(t, top.ID, capped[0].ID)

	unknownFilm := int64(99)
	_, err = env.reviews.FindAll(ctx, &unknownFilm, 10)
	require.ErrorIs(t, err, ErrNotFound)
}
