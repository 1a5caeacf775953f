package order

import (
	"database/sql"
	"time"

	"go.uber.org/zap"

	"bakehouse/internal/config"
	"bakehouse/internal/dispatch"
	"bakehouse/internal/order/controller"
	orderrepo "bakehouse/internal/order/repository"
	"bakehouse/internal/order/service"
	"bakehouse/internal/order/usecase"
	"bakehouse/internal/store"
)

// NewModule wires the remote order store API over MySQL.
func NewModule(db *sql.DB, logger *zap.Logger) *controller.OrderController {
	orderRepo := orderrepo.NewMySQLOrderRepository(db)
	return controller.NewOrderController(orderRepo, logger)
}

// Client is the client-side order lifecycle over the local store.
type Client struct {
	Store     *store.OrderStore
	Queue     *dispatch.Queue
	Lifecycle *usecase.LifecycleUseCase
	Sync      *service.SyncService
	Sweeper   *service.SweeperService
}

func NewClient(
	orderStore *store.OrderStore,
	remote service.RemoteStore,
	cfg *config.Config,
	loc *time.Location,
	logger *zap.Logger,
) *Client {
	queue := dispatch.NewQueue(cfg.Remote.QueueSize, cfg.Remote.Workers, logger.Named("dispatch"))
	mirror := service.NewMirrorService(orderStore, remote, queue, logger.Named("mirror"))

	return &Client{
		Store:     orderStore,
		Queue:     queue,
		Lifecycle: usecase.NewLifecycleUseCase(orderStore, mirror, loc, time.Now, logger.Named("lifecycle")),
		Sync:      service.NewSyncService(orderStore, remote, mirror, loc, logger.Named("sync")),
		Sweeper:   service.NewSweeperService(orderStore, cfg.Schedule.RetentionWindow, time.Now, logger.Named("sweeper")),
	}
}
