package api

import (
	"net/http"

	"github.com/oxelen/java-filmorate/internal/domain"
)

// CreateDirector обрабатывает POST /directors.
func (h *HTTPHandler) CreateDirector(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateDirectorRequest
	if !h.decode(w, r, &req) {
		return
	}

	director, err := h.directors.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, director)
}

// UpdateDirector обрабатывает PUT /directors.
func (h *HTTPHandler) UpdateDirector(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateDirectorRequest
	if !h.decode(w, r, &req) {
		return
	}

	director, err := h.directors.Update(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, director)
}

// DeleteDirector обрабатывает DELETE /directors/{id}.
func (h *HTTPHandler) DeleteDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.directors.DeleteByID(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusNoContent, nil)
}

// ListDirectors обрабатывает GET /directors.
func (h *HTTPHandler) ListDirectors(w http.ResponseWriter, r *http.Request) {
	directors, err := h.directors.FindAll(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, directors)
}

// GetDirector обрабатывает GET /directors/{id}.
func (h *HTTPHandler) GetDirector(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	director, err := h.directors.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, director)
}
