package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/oxelen/java-filmorate/internal/api"
	"github.com/oxelen/java-filmorate/internal/config"
	"github.com/oxelen/java-filmorate/internal/service"
	"github.com/oxelen/java-filmorate/internal/store"
)

// stores - набор хранилищ, либо Postgres, либо in-memory.
type stores struct {
	users     store.UserStore
	films     store.FilmStore
	likes     store.LikeStore
	friends   store.FriendStore
	reviews   store.ReviewStore
	events    store.EventStore
	directors store.DirectorStore
	genres    store.GenreStore
	mpas      store.MPAStore
}

func main() {
	bootstrapLogger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg := config.Load(bootstrapLogger)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	validate := validator.New()

	st, closeDB, err := buildStores(cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeDB()

	eventService := service.NewEventService(st.events, st.users, logger)
	userService := service.NewUserService(st.users, st.friends, eventService, logger)
	filmService := service.NewFilmService(st.films, st.users, st.likes, st.genres, st.mpas, st.directors, eventService, logger)
	reviewService := service.NewReviewService(st.reviews, st.users, st.films, eventService, logger)
	directorService := service.NewDirectorService(st.directors, logger)
	genreService := service.NewGenreService(st.genres, logger)
	mpaService := service.NewMPAService(st.mpas, logger)

	handler := api.NewHTTPHandler(
		userService, filmService, reviewService,
		directorService, genreService, mpaService,
		eventService, logger, validate,
	)
	router := api.NewHTTPRouter(handler, logger)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("Filmorate HTTP service starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server ListenAndServe() failed", slog.String("error", err.Error()))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Filmorate service shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	} else {
		logger.Info("HTTP server gracefully stopped.")
	}
}

// buildStores собирает Postgres-хранилища, если задан FILMORATE_DATABASE_URL,
// иначе общее in-memory хранилище для локального запуска.
func buildStores(cfg *config.Config, logger *slog.Logger) (*stores, func(), error) {
	if cfg.DatabaseURL == "" {
		logger.Warn("FILMORATE_DATABASE_URL is not set, falling back to in-memory storage")
		db := store.NewMemoryDB()
		return &stores{
			users:     store.NewMemoryUserStore(db),
			films:     store.NewMemoryFilmStore(db),
			likes:     store.NewMemoryLikeStore(db),
			friends:   store.NewMemoryFriendStore(db),
			reviews:   store.NewMemoryReviewStore(db),
			events:    store.NewMemoryEventStore(db),
			directors: store.NewMemoryDirectorStore(db),
			genres:    store.NewMemoryGenreStore(db),
			mpas:      store.NewMemoryMPAStore(db),
		}, func() {}, nil
	}

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	closeDB := func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", slog.String("error", err.Error()))
		}
	}

	users, err := store.NewPostgresUserStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	films, err := store.NewPostgresFilmStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	likes, err := store.NewPostgresLikeStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	friends, err := store.NewPostgresFriendStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	reviews, err := store.NewPostgresReviewStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	events, err := store.NewPostgresEventStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	directors, err := store.NewPostgresDirectorStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	genres, err := store.NewPostgresGenreStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}
	mpas, err := store.NewPostgresMPAStore(db, logger)
	if err != nil {
		closeDB()
		return nil, nil, err
	}

	logger.Info("PostgreSQL storage initialized")
	return &stores{
		users:     users,
		films:     films,
		likes:     likes,
		friends:   friends,
		reviews:   reviews,
		events:    events,
		directors: directors,
		genres:    genres,
		mpas:      mpas,
	}, closeDB, nil
}
