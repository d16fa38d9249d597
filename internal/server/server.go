// Package server mounts the HTTP routes and runs the listener inside the fx
// lifecycle.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/storefront-labs/catalog/app/api"
	"github.com/storefront-labs/catalog/app/catalog"
	"github.com/storefront-labs/catalog/app/categories"
	"github.com/storefront-labs/catalog/app/graphql"
	"github.com/storefront-labs/catalog/app/middleware"
	"github.com/storefront-labs/catalog/config"
	"github.com/storefront-labs/catalog/database"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var Module = fx.Module("server",
	fx.Provide(providePinger, NewHandler),
	fx.Invoke(run),
)

// Pinger reports whether the relational store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handlers struct {
	fx.In

	GraphQL    *graphql.Handler
	Catalog    *catalog.CatalogHandler
	Categories *categories.CategoryHandler
	Health     Pinger
	Registry   *prometheus.Registry
}

// checker is implemented by handles that can verify the store on demand.
type checker interface {
	Check(ctx context.Context) error
}

// handlePinger checks the store through the handle repositories use, so a
// health check also triggers the single reconnect attempt.
type handlePinger struct {
	db database.Handle
}

func (p handlePinger) Ping(ctx context.Context) error {
	if c, ok := p.db.(checker); ok {
		return c.Check(ctx)
	}
	_, err := p.db.DB(ctx)
	return err
}

func providePinger(db database.Handle) Pinger {
	return handlePinger{db: db}
}

// NewHandler builds the route table wrapped in recovery, request logging and
// CORS, outermost first.
func NewHandler(cfg config.Config, h Handlers, log *zap.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/graphql", h.GraphQL)
	mux.HandleFunc("GET /catalog", h.Catalog.HandleGet)
	mux.HandleFunc("GET /catalog/{id}", h.Catalog.HandleGetProduct)
	mux.HandleFunc("GET /categories", h.Categories.HandleGetAll)
	mux.HandleFunc("GET /categories/{name}", h.Categories.HandleGet)
	mux.HandleFunc("GET /healthz", healthz(h.Health, log))
	mux.Handle("GET /metrics", promhttp.HandlerFor(h.Registry, promhttp.HandlerOpts{}))

	return middleware.Chain(mux,
		middleware.Recover(log),
		middleware.RequestLog(log),
		middleware.CORS(cfg.CORSAllowedOrigins),
	)
}

func healthz(db Pinger, log *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			log.Warn("health check failed", zap.Error(err))
			api.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		api.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func run(lc fx.Lifecycle, cfg config.Config, handler http.Handler, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
