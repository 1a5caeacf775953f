package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"bakehouse/internal/config"
	"bakehouse/internal/order/controller"
)

func NewRouter(orderCtrl *controller.OrderController, cfg config.RateLimitConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/orders", func(r chi.Router) {
		if cfg.RequestsPerSecond > 0 {
			r.Use(NewRateLimiter(cfg.RequestsPerSecond, cfg.Burst).Middleware)
		}
		r.Get("/", orderCtrl.List)
		r.Post("/", orderCtrl.Create)
		r.Put("/{id}", orderCtrl.UpdateStatus)
	})

	return r
}
