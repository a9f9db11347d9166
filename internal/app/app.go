package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"filmcatalog/internal/catalog"
	"filmcatalog/internal/films"
	"filmcatalog/internal/grpcserver"
	"filmcatalog/internal/metrics"
	synchub "filmcatalog/internal/sync"
	"filmcatalog/pkg/database"
	"filmcatalog/pkg/utils"
)

// App carries the process-wide dependencies. It is built once in main and
// handed to whatever needs it.
type App struct {
	Cfg    utils.Config
	Log    *zap.Logger
	Store  database.Store
	Loader *catalog.Loader
	Cache  *films.PageCache
	Hub    *synchub.Hub
	Health *grpcserver.Server
}

// New opens the configured store. The store must be reachable within
// Cfg.StoreTimeout.
func New(ctx context.Context, cfg utils.Config, logger *zap.Logger) (*App, error) {
	openCtx, cancel := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancel()

	store, err := database.Open(openCtx, cfg.Database())
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.DBDriver, err)
	}
	return NewWithStore(cfg, store, logger), nil
}

func NewWithStore(cfg utils.Config, store database.Store, logger *zap.Logger) *App {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		Cfg:    cfg,
		Log:    logger,
		Store:  store,
		Loader: catalog.NewLoader(store, cfg.LoadWorkers, logger),
		Cache:  films.NewPageCache(cfg.RedisAddr, cfg.CacheTTL, logger),
		Hub:    synchub.NewHub(logger),
		Health: grpcserver.NewServer(cfg.GRPCAddr, logger),
	}
}

// Seed wipes the catalog and loads it from the fixture. Health reports
// SERVING only after a successful load.
func (a *App) Seed(ctx context.Context) (catalog.Summary, error) {
	a.Health.MarkNotServing()

	sum, err := a.Loader.Reload(ctx, a.Cfg.FixturePath)
	if err != nil {
		return sum, err
	}

	metrics.ObserveLoad(sum)
	a.Cache.Invalidate(ctx)
	a.Health.MarkServing()
	return sum, nil
}

func (a *App) Close(ctx context.Context) error {
	a.Hub.CloseAll()
	return errors.Join(a.Cache.Close(), a.Store.Close(ctx))
}
