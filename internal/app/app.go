package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/schoolcal/schoolcal/internal/config"
	"github.com/schoolcal/schoolcal/internal/rest"
	log "github.com/sirupsen/logrus"
)

// Application wires configuration, the refresh runner, router, and server
// lifecycle.
type Application struct {
	cfg    config.Application
	deps   *Dependencies
	router *mux.Router
	srv    *http.Server

	cancelRunner context.CancelFunc
}

// NewApplication constructs the full HTTP application, ready to Run().
func NewApplication() (*Application, error) {
	cfg, err := config.Load("./config/application.yaml")
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()

	// Build dependencies (store, loader, services, handlers...)
	deps, err := BuildDependencies(cfg)
	if err != nil {
		return nil, err
	}

	// Middleware chain
	SetupMiddleware(r, deps, cfg)

	// Routes
	RegisterRoutes(r, deps, cfg)

	// Frontend
	if cfg.Frontend.Enabled {
		frontend := rest.NewFrontendHandler(cfg.Frontend.Dir, "index.html")
		r.PathPrefix("/").Handler(frontend)
	}

	srv := &http.Server{
		Handler:      r,
		Addr:         cfg.Host,
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Application{cfg: cfg, deps: deps, router: r, srv: srv}, nil
}

// Run starts the background refresh runner and the HTTP server, and blocks.
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelRunner = cancel
	go a.deps.Runner.Run(ctx)

	log.Infof("Starting server on %s", a.srv.Addr)
	return a.srv.ListenAndServe()
}

// Shutdown stops the refresh runner and drains the HTTP server.
func (a *Application) Shutdown(ctx context.Context) error {
	if a.cancelRunner != nil {
		a.cancelRunner()
	}
	if a.deps.Snapshot != nil {
		if err := a.deps.Snapshot.Close(); err != nil {
			log.Errorf("closing snapshot cache: %v", err)
		}
	}
	return a.srv.Shutdown(ctx)
}
