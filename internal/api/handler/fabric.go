// Package handler's fabric.go is the REST surface over the orchestrator:
// adding switches/links, triggering expansions, and reading back routes and
// the topology export. One Register method registers every operation, with
// typed input/output structs and huma.Error4xx/5xx mapping.
package handler

import (
	"fmt"
	"net/http"

	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/fabricwire/rewire/internal/domain/netstate"
	"github.com/fabricwire/rewire/internal/orchestrator"
	"github.com/fabricwire/rewire/internal/planner"
	"github.com/fabricwire/rewire/pkg/logger"
)

type FabricHandler struct {
	orch   *orchestrator.Orchestrator
	logger *logger.Logger
}

func NewFabricHandler(orch *orchestrator.Orchestrator, appLogger *logger.Logger) *FabricHandler {
	return &FabricHandler{orch: orch, logger: appLogger.WithComponent("fabric_handler")}
}

func (h *FabricHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "add-switch",
		Method:      http.MethodPost,
		Path:        "/api/switches",
		Summary:     "Add a switch to the live fabric",
		Tags:        []string{"fabric"},
	}, h.AddSwitch)

	huma.Register(api, huma.Operation{
		OperationID: "add-link",
		Method:      http.MethodPost,
		Path:        "/api/links",
		Summary:     "Add a link between two existing switches",
		Tags:        []string{"fabric"},
	}, h.AddLink)

	huma.Register(api, huma.Operation{
		OperationID: "expand-fabric",
		Method:      http.MethodPost,
		Path:        "/api/expansions",
		Summary:     "Add a switch and rewire the fabric around it with minimal edits",
		Tags:        []string{"expansion"},
	}, h.Expand)

	huma.Register(api, huma.Operation{
		OperationID: "get-routes",
		Method:      http.MethodGet,
		Path:        "/api/routes/{sid}",
		Summary:     "Get the current ECMP forwarding table for one switch",
		Tags:        []string{"routes"},
	}, h.GetRoutes)

	huma.Register(api, huma.Operation{
		OperationID: "export-topology",
		Method:      http.MethodGet,
		Path:        "/api/topology/export",
		Summary:     "Export the fabric as a node-link graph",
		Tags:        []string{"topology"},
	}, h.ExportTopology)
}

type AddSwitchInput struct {
	Body struct {
		ID     int    `json:"id"`
		NPorts int    `json:"nports"`
		Tier   string `json:"tier"`
	}
}

func (h *FabricHandler) AddSwitch(ctx context.Context, input *AddSwitchInput) (*struct{}, error) {
	tier, ok := netstate.ParseTier(input.Body.Tier)
	if !ok {
		return nil, huma.Error400BadRequest(fmt.Sprintf("unknown tier %q", input.Body.Tier))
	}

	if err := h.orch.Network().AddSwitch(netstate.SwitchID(input.Body.ID), input.Body.NPorts, tier); err != nil {
		return nil, huma.Error400BadRequest("failed to add switch", err)
	}
	return &struct{}{}, nil
}

type AddLinkInput struct {
	Body struct {
		A     int `json:"a"`
		B     int `json:"b"`
		Count int `json:"count"`
	}
}

func (h *FabricHandler) AddLink(ctx context.Context, input *AddLinkInput) (*struct{}, error) {
	count := input.Body.Count
	if count == 0 {
		count = 1
	}
	if err := h.orch.Network().AddLink(netstate.SwitchID(input.Body.A), netstate.SwitchID(input.Body.B), count); err != nil {
		return nil, huma.Error400BadRequest("failed to add link", err)
	}
	return &struct{}{}, nil
}

type ExpandInput struct {
	Body struct {
		Level  string `json:"level" enum:"spine,server"`
		NPorts int    `json:"nports"`
	}
}

type ExpandResponse struct {
	Actions []planner.Action `json:"actions"`
}

func (h *FabricHandler) Expand(ctx context.Context, input *ExpandInput) (*struct {
	Body ExpandResponse
}, error) {
	var level planner.Level
	switch input.Body.Level {
	case "spine":
		level = planner.Spine
	case "server":
		level = planner.Server
	default:
		return nil, huma.Error400BadRequest(fmt.Sprintf("unknown expansion level %q", input.Body.Level))
	}

	actions, err := h.orch.Expand(ctx, level, input.Body.NPorts)
	if err != nil {
		return nil, huma.Error409Conflict("expansion failed", err)
	}

	return &struct {
		Body ExpandResponse
	}{Body: ExpandResponse{Actions: actions}}, nil
}

type GetRoutesInput struct {
	SID int `path:"sid"`
}

type RoutesResponse struct {
	Switch int         `json:"switch"`
	Routes map[int]int `json:"routes"` // host -> egress port
}

func (h *FabricHandler) GetRoutes(ctx context.Context, input *GetRoutesInput) (*struct {
	Body RoutesResponse
}, error) {
	sid := netstate.SwitchID(input.SID)
	table, ok := h.orch.Routes()[sid]
	if !ok {
		return nil, huma.Error404NotFound("no routes known for this switch")
	}

	out := make(map[int]int, len(table))
	for host, port := range table {
		out[int(host)] = port
	}

	return &struct {
		Body RoutesResponse
	}{Body: RoutesResponse{Switch: input.SID, Routes: out}}, nil
}

func (h *FabricHandler) ExportTopology(ctx context.Context, input *struct{}) (*struct {
	Body netstate.GraphExport
}, error) {
	return &struct {
		Body netstate.GraphExport
	}{Body: h.orch.Network().Export()}, nil
}
