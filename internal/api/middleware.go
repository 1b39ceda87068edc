package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// RequestLoggingMiddleware присваивает каждому запросу id и логирует
// метод, путь и длительность обработки.
func RequestLoggingMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestID := uuid.NewString()
			start := time.Now()

			reqLogger := logger.With(slog.String("requestID", requestID))
			reqLogger.DebugContext(r.Context(), "Request started",
				slog.String("method", r.Method), slog.String("path", r.URL.Path))

			w.Header().Set("X-Request-ID", requestID)
			next.ServeHTTP(w, r)

			reqLogger.InfoContext(r.Context(), "Request completed",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Duration("duration", time.Since(start)))
		})
	}
}
