// Package app wires configuration, storage and services into ledger stores.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-redis/redis/v8"
	"github.com/ruralpay/cashbook/internal/audit"
	"github.com/ruralpay/cashbook/internal/auth"
	"github.com/ruralpay/cashbook/internal/blob"
	"github.com/ruralpay/cashbook/internal/catalog"
	"github.com/ruralpay/cashbook/internal/config"
	"github.com/ruralpay/cashbook/internal/database"
	"github.com/ruralpay/cashbook/internal/events"
	"github.com/ruralpay/cashbook/internal/repository"
	"github.com/ruralpay/cashbook/internal/services"
)

// App holds the shared collaborators of every ledger store.
type App struct {
	Config    *config.Config
	DB        *sql.DB
	Redis     *redis.Client
	Blobs     blob.Store
	Catalog   *catalog.Catalog
	Publisher events.Publisher
	Audit     *audit.Logger

	closers []func() error
}

// New opens the database and blob store described by cfg.
func New(cfg *config.Config) (*App, error) {
	a := &App{Config: cfg, Audit: audit.NewLogger(nil)}

	db, err := database.InitDB(database.GetConfig())
	if err != nil {
		return nil, err
	}
	a.DB = db
	a.closers = append(a.closers, db.Close)

	if err := a.openBlobs(); err != nil {
		a.Close()
		return nil, err
	}

	a.Catalog = catalog.Default()
	if cfg.Catalog.Path != "" {
		if a.Catalog, err = catalog.Load(cfg.Catalog.Path); err != nil {
			a.Close()
			return nil, err
		}
	}
	if cfg.Catalog.Strict {
		a.Catalog.Strict = true
	}

	a.Publisher = events.Nop{}
	if len(cfg.Kafka.Brokers) > 0 {
		kp := events.NewKafkaPublisher(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		a.Publisher = kp
		a.closers = append(a.closers, kp.Close)
		log.Printf("[APP] Publishing changes to %s", cfg.Kafka.Topic)
	}
	return a, nil
}

func (a *App) openBlobs() error {
	switch a.Config.Blob.Backend {
	case "redis":
		redisCfg := database.GetRedisConfig()
		rdb, err := database.InitBlobRedis(context.Background(), redisCfg)
		if err != nil {
			return err
		}
		a.Redis = rdb
		a.closers = append(a.closers, a.Redis.Close)
		a.Blobs = blob.NewRedisStore(a.Redis, redisCfg.BlobPrefix, a.Config.Blob.PublicBaseURL)
	case "bolt":
		if err := os.MkdirAll(filepath.Dir(a.Config.Blob.BoltPath), 0o755); err != nil {
			return fmt.Errorf("failed to create blob directory: %w", err)
		}
		store, err := blob.OpenBoltStore(a.Config.Blob.BoltPath, a.Config.Blob.PublicBaseURL)
		if err != nil {
			return err
		}
		a.closers = append(a.closers, store.Close)
		a.Blobs = store
	default:
		return fmt.Errorf("unknown blob backend %q", a.Config.Blob.Backend)
	}
	log.Printf("[APP] Blob backend: %s", a.Config.Blob.Backend)
	return nil
}

// NewStore builds an unloaded ledger store for the given account source.
func (a *App) NewStore(accounts auth.AccountProvider) *services.LedgerStore {
	uploader := services.NewAttachmentUploader(a.Blobs, repository.NewAttachmentRepository(a.DB), a.Config.Sync.UploadConcurrency)
	return services.NewLedgerStore(
		repository.NewLedgerRepository(a.DB),
		repository.NewEntryRepository(a.DB),
		uploader,
		accounts,
		services.StoreOptions{
			Catalog:        a.Catalog,
			Publisher:      a.Publisher,
			Audit:          a.Audit,
			NoticeCapacity: a.Config.Sync.NoticeCapacity,
		},
	)
}

// Close releases everything New opened, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
