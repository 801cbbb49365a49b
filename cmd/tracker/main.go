package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/example/learning-tracker/internal/cache"
	"github.com/example/learning-tracker/internal/catalog"
	"github.com/example/learning-tracker/internal/handlers"
	"github.com/example/learning-tracker/internal/notes"
	"github.com/example/learning-tracker/internal/platform/analytics"
	"github.com/example/learning-tracker/internal/platform/auth"
	"github.com/example/learning-tracker/internal/platform/config"
	"github.com/example/learning-tracker/internal/platform/db"
	"github.com/example/learning-tracker/internal/platform/httpserver"
	"github.com/example/learning-tracker/internal/platform/logging"
	"github.com/example/learning-tracker/internal/platform/natsconn"
	"github.com/example/learning-tracker/internal/platform/run"
	"github.com/example/learning-tracker/internal/playlists"
	"github.com/example/learning-tracker/internal/progress"
	"github.com/example/learning-tracker/internal/quota"
	"github.com/example/learning-tracker/internal/transcript"
	"github.com/example/learning-tracker/internal/users"
)

func main() {
	cfg, err := config.LoadTracker()
	if err != nil {
		panic(err)
	}
	log, err := logging.New(cfg.App.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()

	pool, err := db.Open(ctx)
	if err != nil {
		log.Error("db open", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	yt, err := catalog.NewClient(ctx, cfg.YouTubeAPIKey)
	if err != nil {
		log.Error("youtube client", zap.Error(err))
		run.Exit(1)
	}

	// NATS is optional: without it analytics events are dropped and the
	// cache never receives invalidations.
	var ap *analytics.Publisher
	nc, err := natsconn.Connect(natsconn.Options{URL: cfg.NATSURL})
	if err != nil {
		log.Warn("nats unavailable, analytics disabled", zap.Error(err))
	} else {
		defer nc.Close()
		js, err := nc.JetStream()
		if err != nil {
			log.Warn("jetstream unavailable, analytics disabled", zap.Error(err))
		} else {
			ap = analytics.New(js, log)
		}
	}

	var c cache.Cache
	if cfg.RedisURL != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis connect", zap.Error(err))
			run.Exit(1)
		}
		c = rc
	} else {
		mem := cache.NewMemory()
		if nc != nil {
			if _, err := mem.SubscribeInvalidation(nc, log); err != nil {
				log.Warn("cache invalidation subscribe failed", zap.Error(err))
			}
		}
		c = mem
	}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: func() error {
		return pool.Ping(context.Background())
	}})
	handlers.Mount(r, handlers.Deps{
		Verifier:    auth.JWTVerifier{Secret: []byte(cfg.JWTSecret)},
		Catalog:     yt,
		Transcripts: transcript.NewFetcher(log),
		Notes:       notes.NewService(notes.NewGeminiClient(cfg.GeminiAPIKey), quota.NewPostgresStore(pool), log),
		Progress:    progress.NewPostgresStore(pool),
		Playlists:   playlists.NewPostgresStore(pool),
		Quota:       quota.NewPostgresStore(pool),
		Users:       users.NewPostgresStore(pool),
		Cache:       c,
		Analytics:   ap,
		Log:         log,
	})

	srv := httpserver.New(httpserver.Options{
		Addr:        cfg.App.HTTP.Addr,
		ServiceName: cfg.App.ServiceName,
		Logger:      log,
		Router:      r,
	})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
