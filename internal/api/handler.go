package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/oxelen/java-filmorate/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

// HTTPHandler держит сервисы и общие зависимости HTTP-слоя.
type HTTPHandler struct {
	users     *service.UserService
	films     *service.FilmService
	reviews   *service.ReviewService
	directors *service.DirectorService
	genres    *service.GenreService
	mpas      *service.MPAService
	events    *service.EventService
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHTTPHandler(
	users *service.UserService,
	films *service.FilmService,
	reviews *service.ReviewService,
	directors *service.DirectorService,
	genres *service.GenreService,
	mpas *service.MPAService,
	events *service.EventService,
	logger *slog.Logger,
	v *validator.Validate,
) *HTTPHandler {
	return &HTTPHandler{
		users:     users,
		films:     films,
		reviews:   reviews,
		directors: directors,
		genres:    genres,
		mpas:      mpas,
		events:    events,
		logger:    logger,
		validator: v,
	}
}

// ErrorResponse - тело ошибки: категория и человекочитаемое описание.
type ErrorResponse struct {
	Error       string `json:"error"`
	Description string `json:"description"`
}

func (h *HTTPHandler) respondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			h.logger.ErrorContext(r.Context(), "Failed to encode JSON response",
				slog.String("error", err.Error()), slog.String("path", r.URL.Path))
		}
	}
}

// respondError подбирает статус и категорию по типу ошибки сервиса.
// Все 400-ошибки (валидация, нарушенные предусловия, дубликаты) уходят
// с категорией "Validation error"; неизвестные ошибки - как "Exception".
func (h *HTTPHandler) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var status int
	var category string

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, category = http.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrConditionsNotMet),
		errors.Is(err, service.ErrDuplicated):
		status, category = http.StatusBadRequest, "Validation error"
	case errors.Is(err, service.ErrNoContent):
		status, category = http.StatusNoContent, "no content"
	default:
		status, category = http.StatusInternalServerError, "Exception"
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "Request failed",
			slog.String("path", r.URL.Path), slog.String("error", err.Error()))
	} else {
		h.logger.WarnContext(r.Context(), "Request rejected",
			slog.String("path", r.URL.Path), slog.Int("status", status), slog.String("error", err.Error()))
	}
	h.respondJSON(w, r, status, ErrorResponse{Error: category, Description: err.Error()})
}

// parsePathID извлекает числовой id из пути. Отсутствующий параметр -
// нарушенное предусловие, нечисловой - ошибка валидации, отрицательный -
// NotFound.
func parsePathID(r *http.Request, name string) (int64, error) {
	raw, ok := mux.Vars(r)[name]
	if !ok || raw == "" {
		return 0, fmt.Errorf("path parameter %q is required: %w", name, service.ErrConditionsNotMet)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("path parameter %q must be a number: %w", name, service.ErrValidation)
	}
	if id < 0 {
		return 0, fmt.Errorf("path parameter %q must not be negative: %w", name, service.ErrNotFound)
	}
	return id, nil
}

// parseQueryInt читает необязательный числовой параметр запроса.
func parseQueryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q must be a number: %w", name, service.ErrValidation)
	}
	return v, nil
}

func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, r, fmt.Errorf("invalid request payload: %w", service.ErrValidation))
		return false
	}
	defer r.Body.Close()

	if err := h.validator.StructCtx(r.Context(), dst); err != nil {
		h.respondError(w, r, fmt.Errorf("validation failed: %v: %w", err, service.ErrValidation))
		return false
	}
	return true
}
