package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bakehouse/internal/commons"
	"bakehouse/internal/config"
	"bakehouse/internal/infrastructure/logger"
	"bakehouse/internal/infrastructure/sqlite"
	"bakehouse/internal/order"
	"bakehouse/internal/remote"
	"bakehouse/internal/store"
)

// App is everything a command needs, opened once per invocation.
type App struct {
	Config *config.Config
	Loc    *time.Location
	Logger *zap.Logger
	Orders *order.Client
	Now    func() time.Time

	closers []func() error
}

// OpenApp resolves configuration and opens the local store.
func OpenApp(opts *RootOptions) (*App, error) {
	cfg, err := commons.Resolve(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	level := cfg.Log.Level
	if opts.Verbose {
		level = "debug"
	}
	zapLogger, err := logger.New(level, cfg.Log.Env)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	loc, err := cfg.Local.Location()
	if err != nil {
		return nil, err
	}

	db, err := sqlite.Open(cfg.Local.Path)
	if err != nil {
		return nil, err
	}

	origin := uuid.NewString()
	orderStore := store.NewOrderStore(store.NewSQLiteKV(db), origin, zapLogger.Named("store"))
	remoteClient := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.Timeout, zapLogger.Named("remote"))

	app := NewApp(cfg, loc, zapLogger, order.NewClient(orderStore, remoteClient, cfg, loc, zapLogger))
	app.OnClose(db.Close)

	zapLogger.Debug("local store opened",
		zap.String("path", cfg.Local.Path),
		zap.String("origin", origin),
	)
	return app, nil
}

func NewApp(cfg *config.Config, loc *time.Location, logger *zap.Logger, orders *order.Client) *App {
	return &App{
		Config: cfg,
		Loc:    loc,
		Logger: logger,
		Orders: orders,
		Now:    time.Now,
	}
}

// OnClose registers fn to run after the mirror queue has drained.
func (a *App) OnClose(fn func() error) {
	a.closers = append(a.closers, fn)
}

// Close waits for queued remote writes, then releases resources in reverse
// registration order.
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.Config.Remote.Timeout+time.Second)
	defer cancel()

	err := a.Orders.Queue.Close(ctx)
	if err != nil {
		a.Logger.Warn("remote writes abandoned on exit", zap.Error(err))
	}

	for i := len(a.closers) - 1; i >= 0; i-- {
		if cerr := a.closers[i](); cerr != nil && err == nil {
			err = cerr
		}
	}

	_ = a.Logger.Sync()
	return err
}

func withApp(opts *RootOptions, fn func(app *App) error) (err error) {
	app, err := opts.Open(opts)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := app.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	return fn(app)
}
