package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/MrMosesMichael/wic-benefits-app-sub005/aplsync"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/config"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/db"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/messaging"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/common/storage"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/handler"
	"github.com/MrMosesMichael/wic-benefits-app-sub005/middlewares"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
)

// requestTimeout bounds one request through the timeout middleware. Inline
// sync triggers can run for minutes.
const requestTimeout = 5 * time.Minute

type AppHttpServer struct {
	router     *chi.Mux
	cfg        config.Config
	server     *http.Server
	db         *db.DB
	natsClient *messaging.NatsBroker
	runner     aplsync.SourceRunner
	storage    storage.StorageService
}

func NewAppHttpServer(cfg config.Config) (*AppHttpServer, error) {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token", "X-API-KEY", "X-ACCESS-TIME", "X-REQUEST-SIGNATURE"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Sync triggers run inline, so the request timeout has to cover a full
	// fetch and reconcile.
	r.Use(middleware.Timeout(requestTimeout))

	server := &AppHttpServer{
		router: r,
		cfg:    cfg,
	}
	return server, nil
}

// SetDB sets the database dependency
func (s *AppHttpServer) SetDB(db *db.DB) {
	s.db = db
}

// SetNatsClient sets the NATS client dependency
func (s *AppHttpServer) SetNatsClient(client *messaging.NatsBroker) {
	s.natsClient = client
}

// SetRunner sets the sync runner used by manual trigger endpoints
func (s *AppHttpServer) SetRunner(runner aplsync.SourceRunner) {
	s.runner = runner
}

// SetStorage sets the archive storage dependency
func (s *AppHttpServer) SetStorage(store storage.StorageService) {
	s.storage = store
}

func (s *AppHttpServer) setupRoute() {
	r := s.router

	if s.db == nil {
		log.Warn().Msg("DB dependency not set")
	}
	if s.runner == nil {
		log.Warn().Msg("Sync runner dependency not set")
	}

	// Public health endpoint (no authentication required)
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","service":"` + common.AppName + `"}`))
	})

	r.Route("/v1", func(r chi.Router) {
		r.Use(middlewares.AccessTime())
		r.Use(middlewares.ApiKey(s.cfg.Security.BackendApiKey, s.cfg.Security.ServerSalt))
		r.Use(middlewares.RequestSignature(s.cfg.Security.ServerSalt))

		sourceHandler := handler.NewSourceHandler(s.db, s.runner)
		jobHandler := handler.NewJobHandler(s.db, s.storage, s.cfg.GCS.Bucket)
		catalogHandler := handler.NewCatalogHandler(s.db)
		healthHandler := handler.NewHealthHandler(s.db)
		dashboardHandler := handler.NewDashboardHandler(s.db)

		r.Mount("/sources", sourceHandler.Router())
		r.Mount("/jobs", jobHandler.Router())
		r.Mount("/catalog", catalogHandler.Router())
		r.Mount("/health", healthHandler.Router())
		r.Mount("/dashboard", dashboardHandler.Router())
	})
}

// newHTTPServer builds the listener. The write timeout must outlive the
// request timeout middleware or a long inline sync completes server-side
// while the client connection is already closed.
func newHTTPServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Listen.Addr(),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: requestTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func (s *AppHttpServer) start() error {
	r := s.router
	cfg := s.cfg
	log.Info().Msg("Starting up server...")

	s.server = newHTTPServer(cfg, r)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// stop gracefully shuts down the server
func (s *AppHttpServer) stop(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
