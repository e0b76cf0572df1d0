package handler

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fabricwire/rewire/internal/store"
	"github.com/fabricwire/rewire/pkg/logger"
)

type HealthHandler struct {
	store  store.Store
	logger *logger.Logger
}

type HealthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store"`
}

func NewHealthHandler(st store.Store, appLogger *logger.Logger) *HealthHandler {
	return &HealthHandler{
		store:  st,
		logger: appLogger.WithComponent("health_handler"),
	}
}

func (h *HealthHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "health-check",
		Method:      http.MethodGet,
		Path:        "/api/health",
		Summary:     "Health check",
		Tags:        []string{"health"},
	}, h.HealthCheck)
}

func (h *HealthHandler) HealthCheck(ctx context.Context, input *struct{}) (*struct {
	Body HealthResponse
}, error) {
	response := HealthResponse{Status: "healthy", Store: "healthy"}

	if err := h.store.Health(ctx); err != nil {
		response.Status = "unhealthy"
		response.Store = "unhealthy"

		return &struct {
			Body HealthResponse
		}{Body: response}, huma.Error503ServiceUnavailable("Service unhealthy", err)
	}

	return &struct {
		Body HealthResponse
	}{Body: response}, nil
}
