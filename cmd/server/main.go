package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bakehouse/internal/commons"
	"bakehouse/internal/infrastructure/logger"
	"bakehouse/internal/infrastructure/mysql"
	"bakehouse/internal/order"
	"bakehouse/internal/server"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "YAML config file (environment is used when empty)")
	flag.Parse()

	cfg, err := commons.Resolve(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Level, cfg.Log.Env)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := mysql.NewConnection(cfg.Database)
	if err != nil {
		zapLogger.Fatal("connecting to database", zap.Error(err))
	}
	defer db.Close()
	zapLogger.Info("database connected")

	if err := mysql.Migrate(db); err != nil {
		zapLogger.Fatal("migrating database", zap.Error(err))
	}

	orderCtrl := order.NewModule(db, zapLogger)

	router := server.NewRouter(orderCtrl, cfg.RateLimit, zapLogger)

	srv := server.New(cfg.Server.Port, router, zapLogger)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil {
			zapLogger.Fatal("server error", zap.Error(err))
		}
	}()

	<-quit
	zapLogger.Info("received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Fatal("server shutdown failed", zap.Error(err))
	}

	zapLogger.Info("server stopped gracefully")
}
