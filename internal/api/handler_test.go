package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxelen/java-filmorate/internal/service"
	"github.com/oxelen/java-filmorate/internal/store"
)

func newTestRouter(t *testing.T) *mux.Router {
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

	events := service.NewEventService(eventStore, userStore, logger)
	handler := NewHTTPHandler(
		service.NewUserService(userStore, friendStore, events, logger),
		service.NewFilmService(filmStore, userStore, likeStore, genreStore, mpaStore, directorStore, events, logger),
		service.NewReviewService(reviewStore, userStore, filmStore, events, logger),
		service.NewDirectorService(directorStore, logger),
		service.NewGenreService(genreStore, logger),
		service.NewMPAService(mpaStore, logger),
		events,
		logger,
		validator.New(),
	)
	return NewHTTPRouter(handler, logger)
}

func doRequest(t *testing.T, router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func createUserViaAPI(t *testing.T, router *mux.Router, login string) int64 {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/users", map[string]interface{}{
		"email":    login + "@example.com",
		"login":    login,
		"name":     login,
		"birthday": "1990-03-15",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &user)
	return user.ID
}

func createFilmViaAPI(t *testing.T, router *mux.Router, name string) int64 {
	t.Helper()

	rec := doRequest(t, router, http.MethodPost, "/films", map[string]interface{}{
		"name":        name,
		"description": "test film",
		"releaseDate": "2000-06-01",
		"duration":    120,
		"mpa":         map[string]interface{}{"id": 1},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var film struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &film)
	return film.ID
}

func assertErrorPayload(t *testing.T, rec *httptest.ResponseRecorder, status int, category string) {
	t.Helper()

	require.Equal(t, status, rec.Code)
	var payload ErrorResponse
	decodeBody(t, rec, &payload)
	assert.Equal(t, category, payload.Error)
	assert.NotEmpty(t, payload.Description)
}

func TestAPI_CreateUser(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/users", map[string]interface{}{
		"email":    "dolore@example.com",
		"login":    "dolore",
		"birthday": "1995-08-20",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var user struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Login string `json:"login"`
	}
	decodeBody(t, rec, &user)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, "dolore", user.Name)
}

func TestAPI_CreateUser_InvalidEmail(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/users", map[string]interface{}{
		"email":    "not-an-email",
		"login":    "dolore",
		"birthday": "1995-08-20",
	})
	assertErrorPayload(t, rec, http.StatusBadRequest, "Validation error")
}

func TestAPI_CreateUser_MalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assertErrorPayload(t, rec, http.StatusBadRequest, "Validation error")
}

func TestAPI_GetUser_PathIDValidation(t *testing.T) {
	router := newTestRouter(t)

	// Неизвестный пользователь.
	rec := doRequest(t, router, http.MethodGet, "/users/99", nil)
	assertErrorPayload(t, rec, http.StatusNotFound, "Not found")

	// Нечисловой id.
	rec = doRequest(t, router, http.MethodGet, "/users/abc", nil)
	assertErrorPayload(t, rec, http.StatusBadRequest, "Validation error")

	// Отрицательный id.
	rec = doRequest(t, router, http.MethodGet, "/users/-1", nil)
	assertErrorPayload(t, rec, http.StatusNotFound, "Not found")
}

func TestAPI_FriendFlow(t *testing.T) {
	router := newTestRouter(t)
	alice := createUserViaAPI(t, router, "alice")
	bob := createUserViaAPI(t, router, "bob")

	rec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", alice, bob), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var ids map[string]int64
	decodeBody(t, rec, &ids)
	assert.Equal(t, alice, ids["firstId"])
	assert.Equal(t, bob, ids["secondId"])

	// Повторное добавление - 400.
	rec = doRequest(t, router, http.MethodPut, fmt.Sprintf("/users/%d/friends/%d", alice, bob), nil)
	assertErrorPayload(t, rec, http.StatusBadRequest, "Validation error")

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/users/%d/friends", alice), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var friends []struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &friends)
	require.Len(t, friends, 1)
	assert.Equal(t, bob, friends[0].ID)

	rec = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/users/%d/friends/%d", alice, bob), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Список друзей пуст - 204.
	rec = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/users/%d/friends/%d", alice, bob), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAPI_LikeAndFeed(t *testing.T) {
	router := newTestRouter(t)
	alice := createUserViaAPI(t, router, "alice")
	film := createFilmViaAPI(t, router, "Alien")

	rec := doRequest(t, router, http.MethodPut, fmt.Sprintf("/films/%d/like/%d", film, alice), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	// Повторный лайк - 400.
	rec = doRequest(t, router, http.MethodPut, fmt.Sprintf("/films/%d/like/%d", film, alice), nil)
	assertErrorPayload(t, rec, http.StatusBadRequest, "Validation error")

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/users/%d/feed", alice), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var feed []struct {
		EventType string `json:"eventType"`
		Operation string `json:"operation"`
		EntityID  int64  `json:"entityId"`
		Timestamp int64  `json:"timestamp"`
	}
	decodeBody(t, rec, &feed)
	require.Len(t, feed, 1)
	assert.Equal(t, "LIKE", feed[0].EventType)
	assert.Equal(t, "ADD", feed[0].Operation)
	assert.Equal(t, film, feed[0].EntityID)
	assert.Positive(t, feed[0].Timestamp)
}

func TestAPI_PopularRouteNotShadowedByID(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/films/popular", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var films []json.RawMessage
	decodeBody(t, rec, &films)
	assert.Empty(t, films)
}

func TestAPI_CommonFilms_RequiresBothParams(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/films/common?userId=1", nil)
	assertErrorPayload(t, rec, http.StatusBadRequest, "Validation error")
}

func TestAPI_ReviewFlow(t *testing.T) {
	router := newTestRouter(t)
	alice := createUserViaAPI(t, router, "alice")
	bob := createUserViaAPI(t, router, "bob")
	film := createFilmViaAPI(t, router, "Alien")

	rec := doRequest(t, router, http.MethodPost, "/reviews", map[string]interface{}{
		"content": "great film",
		"userId":  alice,
		"filmId":  film,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var review struct {
		ID         int64 `json:"reviewId"`
		Useful     int64 `json:"useful"`
		IsPositive bool  `json:"isPositive"`
	}
	decodeBody(t, rec, &review)
	assert.Equal(t, int64(0), review.Useful)

	rec = doRequest(t, router, http.MethodPut, fmt.Sprintf("/reviews/%d/like/%d", review.ID, bob), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &review)
	assert.Equal(t, int64(1), review.Useful)
	assert.True(t, review.IsPositive)

	// Снятие несуществующего дизлайка - 400.
	rec = doRequest(t, router, http.MethodDelete, fmt.Sprintf("/reviews/%d/dislike/%d", review.ID, bob), nil)
	assertErrorPayload(t, rec, http.StatusBadRequest, "Validation error")

	rec = doRequest(t, router, http.MethodGet, fmt.Sprintf("/reviews?filmId=%d", film), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []json.RawMessage
	decodeBody(t, rec, &reviews)
	require.Len(t, reviews, 1)
}

func TestAPI_ReferenceData(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/genres", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var genres []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	}
	decodeBody(t, rec, &genres)
	require.Len(t, genres, 6)
	assert.Equal(t, "Комедия", genres[0].Name)

	rec = doRequest(t, router, http.MethodGet, "/mpa/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var mpa struct {
		Name string `json:"name"`
	}
	decodeBody(t, rec, &mpa)
	assert.Equal(t, "NC-17", mpa.Name)

	rec = doRequest(t, router, http.MethodGet, "/mpa/42", nil)
	assertErrorPayload(t, rec, http.StatusNotFound, "Not found")
}
