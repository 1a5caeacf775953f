package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bakehouse/internal/infrastructure/rabbitmq"
	"bakehouse/internal/scheduler"
	"bakehouse/internal/store"
	"bakehouse/internal/view"
)

type RunOptions struct {
	*RootOptions
	Watch bool
}

func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Keep the local store in step with the remote store",
		Long: `Run the periodic refresh, sync and sweep tasks until interrupted.

When BROKER_URL is set, local writes are broadcast to other processes sharing
the store and their writes trigger a refresh here.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(opts.RootOptions, func(app *App) error {
				return runClient(cmd, app, opts.Watch)
			})
		},
	}

	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "reprint the tracking view when orders change")

	return cmd
}

func runClient(cmd *cobra.Command, app *App, watch bool) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	orderStore := app.Orders.Store
	var wg sync.WaitGroup

	if app.Config.Broker.URL != "" {
		startBroadcast(ctx, app, &wg)
	}

	w := &trackingWatcher{store: orderStore, logger: app.Logger.Named("refresh")}
	if watch {
		w.out = cmd.OutOrStdout()

		changed := make(chan struct{}, 1)
		unsubscribe := orderStore.Subscribe(func(store.Event) {
			select {
			case changed <- struct{}{}:
			default:
			}
		})
		defer unsubscribe()

		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case <-changed:
					if err := w.refresh(ctx); err != nil {
						app.Logger.Warn("refresh after change failed", zap.Error(err))
					}
				}
			}
		}()
	}

	sched := scheduler.New(app.Logger.Named("scheduler"))
	schedule := app.Config.Schedule

	sched.Schedule(ctx, scheduler.Job{
		Name:       "refresh",
		Interval:   schedule.RefreshInterval,
		RunAtStart: true,
		Run:        w.refresh,
	})
	sched.Schedule(ctx, scheduler.Job{
		Name:       "sync",
		Interval:   schedule.SyncInterval,
		RunAtStart: true,
		Run: func(ctx context.Context) error {
			_, err := app.Orders.Sync.Sync(ctx)
			return err
		},
	})
	sched.Schedule(ctx, scheduler.Job{
		Name:       "sweep",
		Interval:   schedule.SweepInterval,
		RunAtStart: true,
		Run: func(ctx context.Context) error {
			_, err := app.Orders.Sweeper.Run(ctx)
			return err
		},
	})

	app.Logger.Info("client running", zap.Bool("watch", watch))
	<-ctx.Done()

	app.Logger.Info("shutting down")
	sched.Stop()
	wg.Wait()
	return nil
}

// startBroadcast wires the store to the broker. A broker that cannot be
// reached leaves the client running without cross-process refresh.
func startBroadcast(ctx context.Context, app *App, wg *sync.WaitGroup) {
	broker := app.Config.Broker
	logger := app.Logger.Named("broadcast")

	conn, err := rabbitmq.Connect(broker.URL)
	if err != nil {
		logger.Warn("broadcast disabled", zap.Error(err))
		return
	}
	app.OnClose(conn.Close)

	orderStore := app.Orders.Store
	broadcaster := rabbitmq.NewBroadcaster(conn, broker.Exchange, app.Orders.Queue, logger)
	detach := broadcaster.Attach(orderStore)
	app.OnClose(func() error {
		detach()
		return nil
	})
	listener := rabbitmq.NewListener(conn, broker.Exchange, orderStore.Origin(), orderStore, logger)

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := listener.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("broadcast listener stopped", zap.Error(err))
		}
	}()

	logger.Info("broadcast enabled", zap.String("exchange", broker.Exchange))
}

// trackingWatcher reloads the store and, when out is set, prints the tracking
// view whenever it differs from the last one printed.
type trackingWatcher struct {
	store  *store.OrderStore
	out    io.Writer
	logger *zap.Logger

	mu   sync.Mutex
	last string
}

func (w *trackingWatcher) refresh(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	orders, err := w.store.Load(ctx)
	if err != nil {
		return err
	}
	if w.out == nil {
		w.logger.Debug("store refreshed", zap.Int("orders", len(orders)))
		return nil
	}

	var buf bytes.Buffer
	if err := renderTracking(&buf, view.Tracking(orders)); err != nil {
		return err
	}
	if buf.String() == w.last {
		return nil
	}
	w.last = buf.String()

	if _, err := fmt.Fprintln(w.out); err != nil {
		return err
	}
	_, err = io.Copy(w.out, &buf)
	return err
}
