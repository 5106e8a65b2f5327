package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"six/backend/internal/api/handler"
	"six/backend/internal/chathub"
	"six/backend/internal/config"
	"six/backend/internal/lifecycle"
	"six/backend/internal/logging"
	"six/backend/internal/media"
	"six/backend/internal/message"
	"six/backend/internal/models"
	"six/backend/internal/presence"
	"six/backend/internal/room"
	"six/backend/internal/storage"
	"six/backend/internal/sweeper"
)

func setupDependencies(cfg config.Config) (*gorm.DB, *redis.Client) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect PostgreSQL")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatal().Err(err).Msg("failed to connect Redis")
	}

	if err := db.AutoMigrate(&models.Room{}, &models.Message{}); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	log.Info().Msg("database and redis connections established, migrations complete")
	return db, rdb
}

func main() {
	cfg := config.Load()
	logging.Init(cfg.Env)
	log.Info().Str("env", cfg.Env).Msg("starting six backend")

	db, rdb := setupDependencies(cfg)
	store := storage.NewService(db, rdb)

	policy := lifecycle.NewPolicy(cfg.RoomTTL)
	rooms := room.NewService(store, policy)
	messages := message.NewService(store, policy, cfg.MessageTTL)
	typing := presence.NewBroadcaster(store)

	if err := os.MkdirAll(cfg.MediaDir, 0o750); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.MediaDir).Msg("failed to create media dir")
	}
	blobs := media.NewDiskStore(cfg.MediaDir, cfg.MediaBaseURL)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := chathub.NewManager(store)
	go hub.Run(ctx)
	hub.StartPubSubListener(ctx)

	sw := sweeper.New(store, policy, cfg.SweepInterval)
	go sw.Run(ctx)

	h := handler.NewHandler(rooms, messages, typing, blobs, hub, cfg.JWTSecret)
	r := handler.NewRouter(h, cfg.MediaBaseURL, cfg.IsDev())

	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown did not complete cleanly")
	}
}
