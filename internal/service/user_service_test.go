package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxelen/java-filmorate/internal/domain"
)

func TestUserService_Create_EmptyNameDefaultsToLogin(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.users.Create(context.Background(), domain.CreateUserRequest{
		Email:    "dolore@example.com",
		Login:    "dolore",
		Name:     "   ",
		Birthday: domain.NewDate(1995, time.August, 20),
	})
	require.NoError(t, err)
	assert.Equal(t, "dolore", user.Name)
	assert.Equal(t, int64(1), user.ID)
}

func TestUserService_Create_LoginWithSpacesRejected(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Create(context.Background(), domain.CreateUserRequest{
		Email:    "dolore@example.com",
		Login:    "dolore ullamco",
		Birthday: domain.NewDate(1995, time.August, 20),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUserService_Create_FutureBirthdayRejected(t *testing.T) {
	env := newTestEnv(t)

	future := time.Now().AddDate(1, 0, 0)
	_, err := env.users.Create(context.Background(), domain.CreateUserRequest{
		Email:    "dolore@example.com",
		Login:    "dolore",
		Birthday: domain.NewDate(future.Year(), future.Month(), future.Day()),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestUserService_Create_DuplicateEmailOrLogin(t *testing.T) {
	env := newTestEnv(t)
	env.createUser(t, "dolore")

	_, err := env.users.Create(context.Background(), domain.CreateUserRequest{
		Email:    "dolore@example.com",
		Login:    "other",
		Birthday: domain.NewDate(1990, time.March, 15),
	})
	require.ErrorIs(t, err, ErrDuplicated)
}

func TestUserService_Update_NotFound(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.users.Update(context.Background(), domain.UpdateUserRequest{
		ID:       99,
		Email:    "ghost@example.com",
		Login:    "ghost",
		Birthday: domain.NewDate(1990, time.March, 15),
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_AddFriend_Directed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	updated, err := env.users.AddFriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []int64{bob.ID}, updated.Friends)

	// Дружба направленная: у bob список друзей пуст.
	bobLoaded, err := env.users.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobLoaded.Friends)

	mutual, err := env.users.IsFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.False(t, mutual)

	_, err = env.users.AddFriend(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	mutual, err = env.users.IsFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, mutual)
}

func TestUserService_AddFriend_DuplicateRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := env.users.AddFriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = env.users.AddFriend(ctx, alice.ID, bob.ID)
	require.ErrorIs(t, err, ErrDuplicated)
}

func TestUserService_AddFriend_UnknownUsers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")

	_, err := env.users.AddFriend(ctx, alice.ID, 99)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = env.users.AddFriend(ctx, 99, alice.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_DeleteFriend_EmptyListIsNoContent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	err := env.users.DeleteFriend(ctx, alice.ID, bob.ID)
	require.ErrorIs(t, err, ErrNoContent)
}

func TestUserService_DeleteFriend_MissingFriendshipIsConditionsNotMet(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")

	_, err := env.users.AddFriend(ctx, alice.ID, carol.ID)
	require.NoError(t, err)

	err = env.users.DeleteFriend(ctx, alice.ID, bob.ID)
	require.ErrorIs(t, err, ErrConditionsNotMet)
}

func TestUserService_DeleteFriend_RecordsEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")

	_, err := env.users.AddFriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	err = env.users.DeleteFriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	feed, err := env.events.GetUserFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	// Лента от новых к старым.
	assert.Equal(t, domain.EventTypeFriend, feed[0].EventType)
	assert.Equal(t, domain.EventOperationRemove, feed[0].Operation)
	assert.Equal(t, bob.ID, feed[0].EntityID)
	assert.Equal(t, domain.EventOperationAdd, feed[1].Operation)
}

func TestUserService_FindCommonFriends(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	carol := env.createUser(t, "carol")
	dave := env.createUser(t, "dave")

	for _, friendID := range []int64{carol.ID, dave.ID} {
		_, err := env.users.AddFriend(ctx, alice.ID, friendID)
		require.NoError(t, err)
	}
	_, err := env.users.AddFriend(ctx, bob.ID, carol.ID)
	require.NoError(t, err)

	common, err := env.users.FindCommonFriends(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, common, 1)
	assert.Equal(t, carol.ID, common[0].ID)
}

func TestUserService_DeleteByID_Cascades(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	film := env.createFilm(t, "Inception", 2010)

	_, err := env.users.AddFriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = env.users.AddFriend(ctx, bob.ID, alice.ID)
	require.NoError(t, err)
	require.NoError(t, env.films.Like(ctx, film.ID, alice.ID))

	// Отзыв bob, который alice лайкнула: после удаления alice полезность
	// должна вернуться к нулю.
	review := env.createReview(t, bob.ID, film.ID)
	rated, err := env.reviews.PutLike(ctx, review.ID, alice.ID)
	require.NoError(t, err)
	require.Equal(t, int64(1), rated.Useful)

	require.NoError(t, env.users.DeleteByID(ctx, alice.ID))

	_, err = env.users.FindByID(ctx, alice.ID)
	require.ErrorIs(t, err, ErrNotFound)

	// Лайк фильма снят.
	filmLoaded, err := env.films.FindByID(ctx, film.ID)
	require.NoError(t, err)
	assert.Empty(t, filmLoaded.Likes)

	// Обратная дружба bob -> alice снята.
	bobLoaded, err := env.users.FindByID(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, bobLoaded.Friends)

	// Полезность отзыва пересчитана без оценки alice.
	reviewLoaded, err := env.reviews.FindByID(ctx, review.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), reviewLoaded.Useful)
	assert.False(t, reviewLoaded.IsPositive)
}

func TestUserService_DeleteByID_RemovesOwnReviewsAndEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	film := env.createFilm(t, "Heat", 1995)

	review := env.createReview(t, alice.ID, film.ID)
	_, err := env.users.AddFriend(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, env.users.DeleteByID(ctx, alice.ID))

	_, err = env.reviews.FindByID(ctx, review.ID)
	require.ErrorIs(t, err, ErrNotFound)

	reviews, err := env.reviews.FindAll(ctx, nil, 10)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}
