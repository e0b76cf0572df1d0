package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/fabricwire/rewire/internal/api/handler"
	apimiddleware "github.com/fabricwire/rewire/internal/api/middleware"
	"github.com/fabricwire/rewire/internal/orchestrator"
	"github.com/fabricwire/rewire/internal/store"
	"github.com/fabricwire/rewire/pkg/logger"
)

// Server is the northbound REST surface over the orchestrator: no SPA/web-UI
// static serving, since that boundary is out of scope.
type Server struct {
	api    huma.API
	router chi.Router
	orch   *orchestrator.Orchestrator
	store  store.Store
	logger *logger.Logger
}

func NewServer(orch *orchestrator.Orchestrator, st store.Store, appLogger *logger.Logger) *Server {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(apimiddleware.Handler)

	config := huma.DefaultConfig("Fabric Rewiring API", "1.0.0")
	config.DocsPath = "/docs"
	config.Info.Description = "API for expanding and inspecting a rewired data center fabric"
	api := humachi.New(router, config)

	server := &Server{
		api:    api,
		router: router,
		orch:   orch,
		store:  st,
		logger: appLogger,
	}

	server.registerRoutes()

	return server
}

func (s *Server) registerRoutes() {
	fabricHandler := handler.NewFabricHandler(s.orch, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	fabricHandler.Register(s.api)
	healthHandler.Register(s.api)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.store.Close()
}
