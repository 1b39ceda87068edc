package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxelen/java-filmorate/internal/domain"
)

func TestEventService_Record_RejectsMalformedEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	err := env.events.Record(ctx, 0, domain.EventTypeLike, domain.EventOperationAdd, 1)
	require.ErrorIs(t, err, ErrConditionsNotMet)
	err = env.events.Record(ctx, 1, domain.EventTypeLike, domain.EventOperationAdd, 0)
	require.ErrorIs(t, err, ErrConditionsNotMet)
	err = env.events.Record(ctx, 1, "VIEW", domain.EventOperationAdd, 1)
	require.ErrorIs(t, err, ErrConditionsNotMet)
	err = env.events.Record(ctx, 1, domain.EventTypeLike, "UPSERT", 1)
	require.ErrorIs(t, err, ErrConditionsNotMet)
}

func TestEventService_GetUserFeed_NewestFirstAndCapped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.createUser(t, "alice")
	bob := env.createUser(t, "bob")
	films := []*domain.Film{
		env.createFilm(t, "One", 2001),
		env.createFilm(t, "Two", 2002),
		env.createFilm(t, "Three", 2003),
	}

	for _, f := range films {
		require.NoError(t, env.films.Like(ctx, f.ID, alice.ID))
	}
	require.NoError(t, env.films.Like(ctx, films[0].ID, bob.ID))

	feed, err := env.events.GetUserFeed(ctx, alice.ID, 0)
	require.NoError(t, err)
	require.Len(t, feed, 3)
	assert.Equal(t, films[2].ID, feed[0].EntityID)
	assert.Equal(t, films[0].ID, feed[2].EntityID)
	for i := 1; i < len(feed); i++ {
		assert.GreaterOrEqual(t, feed[i-1].Timestamp, feed[i].Timestamp)
	}

	capped, err := env.events.GetUserFeed(ctx, alice.ID, 2)
	require.NoError(t, err)
	require.Len(t, capped, 2)

	// Чужие события в ленту не попадают.
	bobFeed, err := env.events.GetUserFeed(ctx, bob.ID, 0)
	require.NoError(t, err)
	require.Len(t, bobFeed, 1)

	_, err = env.events.GetUserFeed(ctx, 99, 0)
	require.ErrorIs(t, err, ErrNotFound)
}
