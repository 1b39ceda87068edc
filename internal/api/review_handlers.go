package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/oxelen/java-filmorate/internal/domain"
	"github.com/oxelen/java-filmorate/internal/service"
)

// Размер выдачи отзывов по умолчанию.
const defaultReviewsCount = 10

// CreateReview обрабатывает POST /reviews.
func (h *HTTPHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateReviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	review, err := h.reviews.Create(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusCreated, review)
}

// UpdateReview обрабатывает PUT /reviews.
func (h *HTTPHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateReviewRequest
	if !h.decode(w, r, &req) {
		return
	}

	review, err := h.reviews.Update(r.Context(), req)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, review)
}

// DeleteReview обрабатывает DELETE /reviews/{id}.
func (h *HTTPHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := h.reviews.DeleteByID(r.Context(), id); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusNoContent, nil)
}

// GetReview обрабатывает GET /reviews/{id}.
func (h *HTTPHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	review, err := h.reviews.FindByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, review)
}

// ListReviews обрабатывает GET /reviews?filmId&count.
func (h *HTTPHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	count, err := parseQueryInt(r, "count", defaultReviewsCount)
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	var filmID *int64
	if raw := r.URL.Query().Get("filmId"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			h.respondError(w, r, fmt.Errorf("query parameter \"filmId\" must be a number: %w", service.ErrValidation))
			return
		}
		filmID = &v
	}

	reviews, err := h.reviews.FindAll(r.Context(), filmID, count)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, reviews)
}

// PutReviewLike обрабатывает PUT /reviews/{id}/like/{userId}.
func (h *HTTPHandler) PutReviewLike(w http.ResponseWriter, r *http.Request) {
	h.rateReview(w, r, h.reviews.PutLike)
}

// PutReviewDislike обрабатывает PUT /reviews/{id}/dislike/{userId}.
func (h *HTTPHandler) PutReviewDislike(w http.ResponseWriter, r *http.Request) {
	h.rateReview(w, r, h.reviews.PutDislike)
}

// DeleteReviewLike обрабатывает DELETE /reviews/{id}/like/{userId}.
func (h *HTTPHandler) DeleteReviewLike(w http.ResponseWriter, r *http.Request) {
	h.unrateReview(w, r, h.reviews.DeleteLike)
}

// DeleteReviewDislike обрабатывает DELETE /reviews/{id}/dislike/{userId}.
func (h *HTTPHandler) DeleteReviewDislike(w http.ResponseWriter, r *http.Request) {
	h.unrateReview(w, r, h.reviews.DeleteDislike)
}

func (h *HTTPHandler) rateReview(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, reviewID, userID int64) (*domain.Review, error),
) {
	reviewID, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	userID, err := parsePathID(r, "userId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	review, err := op(r.Context(), reviewID, userID)
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, review)
}

func (h *HTTPHandler) unrateReview(
	w http.ResponseWriter,
	r *http.Request,
	op func(ctx context.Context, reviewID, userID int64) error,
) {
	reviewID, err := parsePathID(r, "id")
	if err != nil {
		h.respondError(w, r, err)
		return
	}
	userID, err := parsePathID(r, "userId")
	if err != nil {
		h.respondError(w, r, err)
		return
	}

	if err := op(r.Context(), reviewID, userID); err != nil {
		h.respondError(w, r, err)
		return
	}
	h.respondJSON(w, r, http.StatusOK, map[string]int64{"reviewId": reviewID, "userId": userID})
}
