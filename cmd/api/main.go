package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"homescape/internal/adapters/apper"
	server "homescape/internal/adapters/http_server"
	"homescape/internal/adapters/notify"
	"homescape/internal/adapters/observability"
	redisad "homescape/internal/adapters/redis"
	"homescape/internal/app"
	"homescape/internal/domain"
	"homescape/internal/shared"
	mysqlrepo "homescape/internal/storage/mysql"
	"homescape/internal/storage/remote"
	"homescape/internal/storage/static"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	reg := observability.InitRegistry()
	observability.Serve(cfg.MetricsAddr, reg)

	feed := notify.NewFeed(cfg.NotifyCapacity)
	repo := openRepository(cfg, feed)

	// redis is optional: without it reads go straight to the store and the
	// saved list stays empty
	var (
		cache domain.Cache
		saved domain.SavedStore
	)
	if cfg.RedisAddr != "" {
		rc := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := rc.Ping(pctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable, continuing without cache")
		} else {
			cache = rc
			saved = redisad.NewSavedStore(rc.Client())
			log.Info().Str("addr", cfg.RedisAddr).Msg("redis connection ok")
		}
		cancel()
	}

	q := app.NewQueryService(repo, cache, cfg.CacheTTL)
	cmd := app.NewCommandService(repo, cache)

	srv := server.New(
		server.WithCORS(cfg.CORSOrigins...),
		server.WithRequestTimeout(cfg.RequestTimeout),
		server.WithLogger(log.Logger),
	)
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:     q,
		C:     cmd,
		S:     app.NewSavedService(saved, q),
		Notes: feed,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpSrv.Shutdown(sctx); err != nil {
			log.Error().Err(err).Msg("http shutdown failed")
		}
	}()

	log.Info().Str("addr", cfg.HTTPAddr).Str("store", cfg.StoreMode).Msg("API listening")
	if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("http server failed")
	}
	log.Info().Msg("API stopped")
}

func openRepository(cfg shared.Config, n domain.Notifier) domain.PropertyRepository {
	switch cfg.StoreMode {
	case shared.StoreRemote:
		client, err := apper.New(cfg.ApperBase, cfg.ApperProjectID, cfg.ApperPublicKey, cfg.ApperRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize record store client")
		}
		return remote.New(client, n, remote.WithSoftReadFailure(cfg.RemoteSoftReadFail))

	case shared.StoreMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("database connection ok")
		return mysqlrepo.New(db)

	default:
		seed, err := static.Dataset()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load bundled dataset")
		}
		return static.New(seed, static.WithLatency(cfg.StaticLatency))
	}
}
