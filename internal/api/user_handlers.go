package api

import (
	"net/http"

	"github.com/oxelen/java-filmorate/internal/domain"
)

// CreateUser обрабатывает POST /users.
func (h *HTTPHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, user)
}

// UpdateUser обрабатывает PUT /users.
func (h *HTTPHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateUserRequest
	if !h.decode(w, r, &req) {
		return
	}

	user, err := h.users.Update(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, user)
}

// ListUsers обрабатывает GET /users.
func (h *HTTPHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.FindAll(r.Context())
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, users)
}

// GetUser обрабатывает GET /users/{id}.
func (h *HTTPHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	user, err := h.users.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, user)
}

// DeleteUser обрабатывает DELETE /users/{id}.
func (h *HTTPHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.users.DeleteByID(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusNoContent, nil)
}

// AddFriend обрабатывает PUT /users/{id}/friends/{friendId}.
func (h *HTTPHandler) AddFriend(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	friendID, err := parsePathID(r, "friendId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if _, err := h.users.AddFriend(r.Context(), id, friendID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]int64{"firstId": id, "secondId": friendID})
}

// DeleteFriend обрабатывает DELETE /users/{id}/friends/{friendId}.
func (h *HTTPHandler) DeleteFriend(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	friendID, err := parsePathID(r, "friendId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.users.DeleteFriend(r.Context(), id, friendID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]int64{"firstId": id, "secondId": friendID})
}

// ListFriends обрабатывает GET /users/{id}/friends.
func (h *HTTPHandler) ListFriends(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	friends, err := h.users.FindAllFriends(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

// ListCommonFriends обрабатывает GET /users/{id}/friends/common/{otherId}.
func (h *HTTPHandler) ListCommonFriends(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	otherID, err := parsePathID(r, "otherId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	friends, err := h.users.FindCommonFriends(r.Context(), id, otherID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, friends)
}

// GetRecommendations обрабатывает GET /users/{id}/recommendations.
func (h *HTTPHandler) GetRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	films, err := h.films.GetRecommendations(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, films)
}

// GetFeed обрабатывает GET /users/{id}/feed. Без параметра count лента
// возвращается целиком.
func (h *HTTPHandler) GetFeed(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	count, err := parseQueryInt(r, "count", 0)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	feed, err := h.events.GetUserFeed(r.Context(), id, count)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, feed)
}
