package api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/oxelen/java-filmorate/internal/domain"
	"github.com/oxelen/java-filmorate/internal/service"
)

// Размер выдачи популярных фильмов по умолчанию.
const defaultPopularCount = 10

// CreateFilm обрабатывает POST /films.
func (h *HTTPHandler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateFilmRequest
	if !h.decode(w, r, &req) {
		return
	}

	film, err := h.films.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, film)
}

// UpdateFilm обрабатывает PUT /films.
func (h *HTTPHandler) UpdateFilm(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateFilmRequest
	if !h.decode(w, r, &req) {
		return
	}

	film, err := h.films.Update(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

// ListFilms обрабатывает GET /films.
func (h *HTTPHandler) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.FindAll(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// GetFilm обрабатывает GET /films/{id}.
func (h *HTTPHandler) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	film, err := h.films.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, film)
}

// DeleteFilm обрабатывает DELETE /films/{id}.
func (h *HTTPHandler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.films.DeleteByID(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusNoContent, nil)
}

// LikeFilm обрабатывает PUT /films/{id}/like/{userId}.
func (h *HTTPHandler) LikeFilm(w http.ResponseWriter, r *http.Request) {
	filmID, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	userID, err := parsePathID(r, "userId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.films.Like(r.Context(), filmID, userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]int64{"filmId": filmID, "userId": userID})
}

// DeleteFilmLike обрабатывает DELETE /films/{id}/like/{userId}.
func (h *HTTPHandler) DeleteFilmLike(w http.ResponseWriter, r *http.Request) {
	filmID, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	userID, err := parsePathID(r, "userId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.films.DeleteLike(r.Context(), filmID, userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]int64{"filmId": filmID, "userId": userID})
}

// ListPopularFilms обрабатывает GET /films/popular?count&genreId&year.
func (h *HTTPHandler) ListPopularFilms(w http.ResponseWriter, r *http.Request) {
	count, err := parseQueryInt(r, "count", defaultPopularCount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var genreID *int64
	if raw := r.URL.Query().Get("genreId"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondError(w, r, fmt.Errorf("query parameter \"genreId\" must be a number: %w", service.ErrValidation))
			return
		}
		genreID = &v
	}
	var year *int
	if raw := r.URL.Query().Get("year"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			h.respondError(w, r, fmt.Errorf("query parameter \"year\" must be a number: %w", service.ErrValidation))
			return
		}
		year = &v
	}

	films, err := h.films.GetMostPopular(r.Context(), count, genreID, year)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// ListCommonFilms обрабатывает GET /films/common?userId&friendId.
func (h *HTTPHandler) ListCommonFilms(w http.ResponseWriter, r *http.Request) {
	userID, err := parseQueryInt(r, "userId", 0)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	friendID, err := parseQueryInt(r, "friendId", 0)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	if userID <= 0 || friendID <= 0 {
		h.respondError(w, r, fmt.Errorf("query parameters \"userId\" and \"friendId\" are required: %w", service.ErrConditionsNotMet))
		return
	}

	films, err := h.films.GetCommon(r.Context(), int64(userID), int64(friendID))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// ListFilmsByDirector обрабатывает GET /films/director/{directorId}?sortBy.
func (h *HTTPHandler) ListFilmsByDirector(w http.ResponseWriter, r *http.Request) {
	directorID, err := parsePathID(r, "directorId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	films, err := h.films.GetByDirector(r.Context(), directorID, r.URL.Query().Get("sortBy"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// SearchFilms обрабатывает GET /films/search?query&by.
func (h *HTTPHandler) SearchFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.films.Search(r.Context(), r.URL.Query().Get("query"), r.URL.Query().Get("by"))
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}
