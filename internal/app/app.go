// Package app wires configuration, storage and services together and
// exposes them as cobra commands.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"academy/internal/config"
	"academy/internal/dbclient"
	"academy/internal/log"
	"academy/internal/render"
	"academy/internal/service"
	"academy/internal/storage"
)

// App holds the process-wide components of one command invocation.
type App struct {
	cfg     *config.Config
	db      *storage.DB
	store   dbclient.Connector
	topics  *service.TopicService
	emitter service.EventEmitter
}

// New opens the local database and the configured block store, then builds
// the topic service on top of them.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	db, err := storage.New(cfg.DatabasePath())
	if err != nil {
		return nil, fmt.Errorf("open local database: %w", err)
	}

	store, err := dbclient.Open(ctx, cfg.Storage, db)
	if err != nil {
		db.Close()
		return nil, err
	}

	emitter := service.LogEmitter{Logger: log.Get().Named("events")}
	topics := service.NewTopicService(store, storage.NewSettingsStore(db), render.New(), emitter, service.Options{
		Debounce:     cfg.Autosave.Debounce.Std(),
		SavedDisplay: cfg.Autosave.SavedDisplay.Std(),
	})

	log.Get().Debug("app ready",
		zap.String("config", cfg.Path()),
		zap.String("database", db.Path()),
		zap.String("driver", cfg.Storage.Driver),
	)
	return &App{cfg: cfg, db: db, store: store, topics: topics, emitter: emitter}, nil
}

// Topics returns the topic service.
func (a *App) Topics() *service.TopicService { return a.topics }

// Lang is the configured renderer language.
func (a *App) Lang() render.Lang { return render.ParseLang(a.cfg.Render.Lang) }

// Close waits for open sessions, then releases the block store and the
// local database.
func (a *App) Close(ctx context.Context) {
	a.topics.Shutdown(ctx)
	if err := a.store.Close(); err != nil {
		log.Get().Warn("close block store", zap.Error(err))
	}
	if err := a.db.Close(); err != nil {
		log.Get().Warn("close local database", zap.Error(err))
	}
}
