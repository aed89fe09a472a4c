package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/universityinsights/insights-web/internal/apiclient"
	"github.com/universityinsights/insights-web/internal/config"
	"github.com/universityinsights/insights-web/internal/crypto"
	"github.com/universityinsights/insights-web/internal/handler"
	"github.com/universityinsights/insights-web/internal/middleware"
	"github.com/universityinsights/insights-web/internal/repository"
	"github.com/universityinsights/insights-web/internal/service"
)

const purgeInterval = 10 * time.Minute

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	cfg := config.Load()

	stop := make(chan struct{})

	store, closeStore, err := openStore(cfg, stop)
	if err != nil {
		slog.Error("opening slot store failed", "driver", cfg.StorageDriver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	sealer, err := crypto.NewSealer(cfg.ClientSecret)
	if err != nil {
		slog.Error("creating slot sealer failed", "error", err)
		os.Exit(1)
	}

	api := apiclient.New(cfg.APIURL)
	authService := service.NewAuthService(api, repository.Sealed(store, sealer), cfg.SessionTTL)
	authHandler := handler.NewAuthHandler(authService)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger)
	r.Use(chimw.Recoverer)

	r.Get("/health", handler.HandleHealth)
	r.Handle("/static/*", handler.Static())

	r.Group(func(r chi.Router) {
		r.Use(middleware.ClientIdentity(cfg.ClientSecret, cfg.ClientTTL, cfg.IsProduction()))

		r.Get("/", handler.HandleHome)
		r.Get("/login", authHandler.HandleLoginPage)
		r.Get("/register", authHandler.HandleRegisterPage)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimit(5, 10, stop))
			r.Post("/login", authHandler.HandleLogin)
			r.Post("/register", authHandler.HandleRegister)
		})
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "env", cfg.Env, "api", api.BaseURL(), "storage", cfg.StorageDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	close(stop)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}

// openStore opens the slot backend selected by STORAGE_DRIVER.
func openStore(cfg config.Config, stop <-chan struct{}) (repository.SlotStore, func(), error) {
	switch cfg.StorageDriver {
	case "memory":
		store := repository.NewMemoryStore()
		go purgeExpired(store, stop)
		return store, func() {}, nil

	case "redis":
		client, err := repository.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStore(client), func() { client.Close() }, nil

	case "mysql":
		db, err := repository.NewDB(cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := repository.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}
		store := repository.NewMySQLStore(db)
		go purgeExpired(store, stop)
		return store, func() { db.Close() }, nil
	}

	return nil, nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// expiringStore is a backend without native TTLs that must drop expired
// slots itself.
type expiringStore interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

func purgeExpired(store expiringStore, stop <-chan struct{}) {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			n, err := store.PurgeExpired(context.Background())
			if err != nil {
				slog.Warn("purging expired slots failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("purged expired slots", "count", n)
			}
		}
	}
}
