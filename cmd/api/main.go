package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/metrically/metrically-backend/config"
	"github.com/metrically/metrically-backend/internal/auth"
	authdomain "github.com/metrically/metrically-backend/internal/auth/domain"
	authrepo "github.com/metrically/metrically-backend/internal/auth/repository"
	authservice "github.com/metrically/metrically-backend/internal/auth/service"
	"github.com/metrically/metrically-backend/internal/bootstrap"
	cronjob "github.com/metrically/metrically-backend/internal/generation/cron"
	genservice "github.com/metrically/metrically-backend/internal/generation/service"
	profilerepo "github.com/metrically/metrically-backend/internal/profiles/repository"
	profileservice "github.com/metrically/metrically-backend/internal/profiles/service"
	"github.com/metrically/metrically-backend/internal/storage/postgres"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := bootstrap.OpenDB(ctx, bootstrap.DBOptions{
		DSN:      cfg.Database.DSN,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("schema: %v", err)
	}

	rdb, err := bootstrap.OpenRedis(ctx, bootstrap.RedisOptions{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	defer rdb.Close()

	userRepo := authrepo.NewUserRepository(pool)
	authSvc := authservice.NewAuthService(userRepo, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	oauth := authservice.NewGoogleOAuth(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, cfg.Auth.GoogleRedirectURL, cfg.Auth.JWTSecret, userRepo)

	sessions := auth.NewSessionProvider()
	defer sessions.Close()

	// Server processes carry no ambient session of their own; the pull
	// resolves to signed-out and push events from the auth handlers take
	// over from there.
	sessions.Start(ctx, func(context.Context) (*authdomain.Identity, error) {
		return nil, nil
	})

	aiClient := genservice.NewClient(cfg.AI.BaseURL)
	availability := genservice.NewAvailabilityCache(aiClient)

	scheduler := cronjob.NewScheduler(availability)
	scheduler.Start()
	defer scheduler.Stop()

	profileRepo := profilerepo.NewProfileRepository(pool)
	autosave := profileservice.NewAutosaveCoordinator(profileRepo, profileservice.DefaultAutosaveDebounce)
	defer autosave.Close()

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:  "metrically-backend",
		Version:      cfg.App.Version,
		DB:           pool,
		Cache:        rdb,
		AuthService:  authSvc,
		GoogleOAuth:  oauth,
		Sessions:     sessions,
		AIClient:     aiClient,
		Availability: availability,
		Autosave:     autosave,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on :%s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}
