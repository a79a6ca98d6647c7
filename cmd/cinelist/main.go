package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/diegoalvesdg/CineList-Projeto/internal/api"
	"github.com/diegoalvesdg/CineList-Projeto/internal/cache"
	"github.com/diegoalvesdg/CineList-Projeto/internal/config"
	"github.com/diegoalvesdg/CineList-Projeto/internal/media"
	"github.com/diegoalvesdg/CineList-Projeto/internal/repository"
	"github.com/diegoalvesdg/CineList-Projeto/internal/seed"
	"github.com/diegoalvesdg/CineList-Projeto/internal/server"
	"github.com/diegoalvesdg/CineList-Projeto/internal/storage"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger := setupLogger(cfg.Logging)

	logger.Info().
		Str("version", api.Version).
		Str("driver", cfg.Storage.Driver).
		Msg("starting CineList server")

	store, err := openStorage(cfg.Storage)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize storage")
	}
	defer store.Close()

	source := seed.Builtin()
	if cfg.Storage.SeedFile != "" {
		source, err = seed.FromFile(cfg.Storage.SeedFile)
		if err != nil {
			logger.Fatal().Err(err).Str("path", cfg.Storage.SeedFile).Msg("failed to load seed file")
		}
	}

	documents, err := cache.NewDocumentCache(cfg.Cache.Documents)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize document cache")
	}

	assets, err := media.NewAssetResolver(cfg.Assets.Root)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to resolve assets root")
	}

	repo := repository.New(store, logger, repository.Options{
		Key:   cfg.Storage.Key,
		Seed:  source,
		Cache: documents,
	})

	events, unsubscribe := repo.Subscribe(64)
	defer unsubscribe()
	go func() {
		for ev := range events {
			logger.Debug().
				Str("kind", string(ev.Kind)).
				Str("movie_id", ev.MovieID).
				Str("comment_id", ev.CommentID).
				Msg("store changed")
		}
	}()

	srv := server.New(cfg, logger, repo, assets)

	// Closed once in-flight requests have drained.
	drained := make(chan struct{})

	go func() {
		defer close(drained)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		logger.Info().Msg("received shutdown signal")

		if err := srv.Shutdown(context.Background()); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}()

	if err := srv.Start(); err != nil {
		logger.Error().Err(err).Msg("server error")
	} else {
		<-drained
	}

	logger.Info().Msg("server stopped")
}

func openStorage(cfg config.StorageConfig) (storage.Adapter, error) {
	switch cfg.Driver {
	case config.DriverRedis:
		return storage.NewRedisStorage(storage.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	default:
		return storage.NewSQLiteStorage(cfg.SQLite.Path)
	}
}

func setupLogger(cfg config.LoggingConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	if cfg.Pretty {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().
			Timestamp().
			Logger()
	}

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Logger()
}
