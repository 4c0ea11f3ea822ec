package main

import (
	"context"
	"database/sql"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"homescape/internal/adapters/apper"
	"homescape/internal/adapters/notify"
	"homescape/internal/adapters/observability"
	"homescape/internal/app"
	"homescape/internal/domain"
	"homescape/internal/shared"
	mysqlrepo "homescape/internal/storage/mysql"
	"homescape/internal/storage/remote"
	"homescape/internal/storage/static"
)

func main() {
	cfg := shared.Load()

	// 1) initialize global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listings := loadListings(cfg.SeedFile)
	target := openTarget(cfg)

	log.Info().
		Str("store", cfg.StoreMode).
		Int("listings", len(listings)).
		Int("workers", cfg.SeedWorkers).
		Msg("seeder starting")

	rep, err := app.Seed(ctx, listings, target, cfg.SeedWorkers)
	if err != nil {
		log.Fatal().Err(err).Int("written", rep.Written).Msg("seeding aborted")
	}
	log.Info().Int("written", rep.Written).Int("failed", rep.Failed).Msg("seeding completed")
	if rep.Failed > 0 {
		os.Exit(1)
	}
}

func loadListings(path string) []domain.Property {
	if path == "" {
		ps, err := static.Dataset()
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load bundled dataset")
		}
		return ps
	}
	f, err := os.Open(path)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("failed to open seed file")
	}
	defer f.Close()
	ps, err := static.ReadDataset(f)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("failed to decode seed file")
	}
	return ps
}

// openTarget picks the durable store. MySQL keeps dataset IDs; the remote
// store assigns its own.
func openTarget(cfg shared.Config) app.SeedTarget {
	switch cfg.StoreMode {
	case shared.StoreMySQL:
		db, err := sql.Open("mysql", cfg.MySQLDSN)
		if err != nil {
			log.Fatal().Err(err).Msg("sql.Open failed")
		}
		if err := db.Ping(); err != nil {
			log.Fatal().Err(err).Msg("db.Ping failed")
		}
		log.Info().Msg("db ping ok")
		return mysqlrepo.New(db).Upsert

	case shared.StoreRemote:
		client, err := apper.New(cfg.ApperBase, cfg.ApperProjectID, cfg.ApperPublicKey, cfg.ApperRPS)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize record store client")
		}
		repo := remote.New(client, notify.NewFeed(cfg.NotifyCapacity))
		return func(ctx context.Context, p domain.Property) error {
			p.ID = 0
			_, err := repo.Create(ctx, p)
			return err
		}

	default:
		log.Fatal().Str("store", cfg.StoreMode).Msg("seeding needs STORE_MODE=mysql or STORE_MODE=remote")
		return nil
	}
}
