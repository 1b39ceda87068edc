package api

import "net/http"

// ListGenres обрабатывает GET /genres.
func (h *HTTPHandler) ListGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := h.genres.FindAll(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, genres)
}

// GetGenre обрабатывает GET /genres/{id}.
func (h *HTTPHandler) GetGenre(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	genre, err := h.genres.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, genre)
}

// ListMPAs обрабатывает GET /mpa.
func (h *HTTPHandler) ListMPAs(w http.ResponseWriter, r *http.Request) {
	mpas, err := h.mpas.FindAll(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, mpas)
}

// GetMPA обрабатывает GET /mpa/{id}.
func (h *HTTPHandler) GetMPA(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	mpa, err := h.mpas.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, mpa)
}
