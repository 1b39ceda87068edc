package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
)

// NewHTTPRouter создает и настраивает HTTP маршрутизатор приложения.
// Фиксированные пути (/films/popular и т.п.) регистрируются раньше
// маршрутов с переменной {id}.
func NewHTTPRouter(h *HTTPHandler, logger *slog.Logger) *mux.Router {
	router := mux.NewRouter()
	router.Use(RequestLoggingMiddleware(logger))

	users := router.PathPrefix("/users").Subrouter()
	users.HandleFunc("", h.CreateUser).Methods(http.MethodPost)
	users.HandleFunc("", h.UpdateUser).Methods(http.MethodPut)
	users.HandleFunc("", h.ListUsers).Methods(http.MethodGet)
	users.HandleFunc("/{id}", h.GetUser).Methods(http.MethodGet)
	users.HandleFunc("/{id}", h.DeleteUser).Methods(http.MethodDelete)
	users.HandleFunc("/{id}/friends/{friendId}", h.AddFriend).Methods(http.MethodPut)
	users.HandleFunc("/{id}/friends/{friendId}", h.DeleteFriend).Methods(http.MethodDelete)
	users.HandleFunc("/{id}/friends", h.ListFriends).Methods(http.MethodGet)
	users.HandleFunc("/{id}/friends/common/{otherId}", h.ListCommonFriends).Methods(http.MethodGet)
	users.HandleFunc("/{id}/recommendations", h.GetRecommendations).Methods(http.MethodGet)
	users.HandleFunc("/{id}/feed", h.GetFeed).Methods(http.MethodGet)

	films := router.PathPrefix("/films").Subrouter()
	films.HandleFunc("/popular", h.ListPopularFilms).Methods(http.MethodGet)
	films.HandleFunc("/common", h.ListCommonFilms).Methods(http.MethodGet)
	films.HandleFunc("/search", h.SearchFilms).Methods(http.MethodGet)
	films.HandleFunc("/director/{directorId}", h.ListFilmsByDirector).Methods(http.MethodGet)
	films.HandleFunc("", h.CreateFilm).Methods(http.MethodPost)
	films.HandleFunc("", h.UpdateFilm).Methods(http.MethodPut)
	films.HandleFunc("", h.ListFilms).Methods(http.MethodGet)
	films.HandleFunc("/{id}", h.GetFilm).Methods(http.MethodGet)
	films.HandleFunc("/{id}", h.DeleteFilm).Methods(http.MethodDelete)
	films.HandleFunc("/{id}/like/{userId}", h.LikeFilm).Methods(http.MethodPut)
	films.HandleFunc("/{id}/like/{userId}", h.DeleteFilmLike).Methods(http.MethodDelete)

	reviews := router.PathPrefix("/reviews").Subrouter()
	reviews.HandleFunc("", h.CreateReview).Methods(http.MethodPost)
	reviews.HandleFunc("", h.UpdateReview).Methods(http.MethodPut)
	reviews.HandleFunc("", h.ListReviews).Methods(http.MethodGet)
	reviews.HandleFunc("/{id}", h.GetReview).Methods(http.MethodGet)
	reviews.HandleFunc("/{id}", h.DeleteReview).Methods(http.MethodDelete)
	reviews.HandleFunc("/{id}/like/{userId}", h.PutReviewLike).Methods(http.MethodPut)
	reviews.HandleFunc("/{id}/like/{userId}", h.DeleteReviewLike).Methods(http.MethodDelete)
	reviews.HandleFunc("/{id}/dislike/{userId}", h.PutReviewDislike).Methods(http.MethodPut)
	reviews.HandleFunc("/{id}/dislike/{userId}", h.DeleteReviewDislike).Methods(http.MethodDelete)

	directors := router.PathPrefix("/directors").Subrouter()
	directors.HandleFunc("", h.CreateDirector).Methods(http.MethodPost)
	directors.HandleFunc("", h.UpdateDirector).Methods(http.MethodPut)
	directors.HandleFunc("", h.ListDirectors).Methods(http.MethodGet)
	directors.HandleFunc("/{id}", h.GetDirector).Methods(http.MethodGet)
	directors.HandleFunc("/{id}", h.DeleteDirector).Methods(http.MethodDelete)

	genres := router.PathPrefix("/genres").Subrouter()
	genres.HandleFunc("", h.ListGenres).Methods(http.MethodGet)
	genres.HandleFunc("/{id}", h.GetGenre).Methods(http.MethodGet)

	mpa := router.PathPrefix("/mpa").Subrouter()
	mpa.HandleFunc("", h.ListMPAs).Methods(http.MethodGet)
	mpa.HandleFunc("/{id}", h.GetMPA).Methods(http.MethodGet)

	return router
}
