package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"firebase.google.com/go/v4/auth"
	"github.com/anonto42/nano-social/backend/internal/jobs"
	"github.com/anonto42/nano-social/backend/internal/media"
	"github.com/anonto42/nano-social/backend/internal/realtime"
	"github.com/anonto42/nano-social/backend/internal/repositories"
	"github.com/anonto42/nano-social/backend/internal/router"
	"github.com/anonto42/nano-social/backend/pkg/config"
	"github.com/anonto42/nano-social/backend/pkg/firebase"
	"github.com/anonto42/nano-social/backend/pkg/logger"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

func main() {
	// Load configuration
	cfg, foundEnvFile := config.Load()
	log := logger.New(cfg.Env, cfg.LogLevel)
	if !foundEnvFile {
		log.Debug().Msg("no .env file found, using the environment")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := config.OpenStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.StoreDriver).Msg("Failed to open the record store")
	}

	var firebaseApp *firebase.App
	if cfg.FirebaseEnabled() {
		firebaseApp, err = firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath, cfg.FirebaseBucket)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Firebase")
		}
		log.Info().Msg("Firebase initialized")
	}

	storage, err := openMediaStorage(ctx, cfg, firebaseApp)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.MediaBackend).Msg("Failed to open media storage")
	}

	hub := realtime.NewHub(log)
	go hub.Run(ctx)

	sweeper := jobs.NewStorySweeper(repositories.NewStoreStoryRepository(store), cfg.StorySweepInterval, log)
	go sweeper.Run(ctx)

	var firebaseAuth *auth.Client
	if firebaseApp != nil {
		firebaseAuth = firebaseApp.AuthClient
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.SetupMiddleware(e, cfg, log)
	router.SetupRoutes(e, router.Dependencies{
		Config:       cfg,
		Store:        store,
		Media:        storage,
		Hub:          hub,
		FirebaseAuth: firebaseAuth,
		Log:          log,
	})

	metricsServer := startMetricsServer(cfg.MetricsPort, log)

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("metrics server shutdown")
		}
	}
	if err := store.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("closing the record store")
		os.Exit(1)
	}
}

func openMediaStorage(ctx context.Context, cfg *config.Config, app *firebase.App) (media.Storage, error) {
	if cfg.MediaBackend == "firebase" {
		if app == nil {
			return nil, errors.New("MEDIA_BACKEND=firebase requires FIREBASE_CREDENTIALS_PATH")
		}
		remote, err := media.NewFirebaseStorage(ctx, app.FirebaseApp, cfg.FirebaseBucket)
		if err != nil {
			return nil, err
		}
		return remote, nil
	}
	local, err := media.NewLocalStorage(cfg.UploadsDir)
	if err != nil {
		return nil, err
	}
	return local, nil
}

func startMetricsServer(port string, log zerolog.Logger) *http.Server {
	if port == "" {
		return nil
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info().Str("port", port).Msg("metrics listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("metrics server")
		}
	}()
	return srv
}
