package cmd

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	apiserver "github.com/fabricwire/rewire/internal/api"
	"github.com/fabricwire/rewire/internal/config"
	"github.com/fabricwire/rewire/internal/domain/netstate"
	"github.com/fabricwire/rewire/internal/fabric"
	"github.com/fabricwire/rewire/internal/orchestrator"
	"github.com/fabricwire/rewire/internal/planner"
	"github.com/fabricwire/rewire/internal/store"
	"github.com/fabricwire/rewire/pkg/logger"
	"github.com/spf13/cobra"
)

var apiPort string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the API server",
	Long:  "Start the REST API server for fabric expansion and topology queries",
	Run:   runAPI,
}

func init() {
	apiCmd.Flags().StringVarP(&apiPort, "port", "p", "8080", "API server port")
}

func runAPI(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	level := "info"
	if verbose {
		level = "debug"
	}
	appLogger := logger.New(level)

	st, err := store.New(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}

	net, err := loadNetwork(st)
	if err != nil {
		log.Fatalf("Failed to load network state: %v", err)
	}

	installer, err := newFlowInstaller()
	if err != nil {
		log.Fatalf("Failed to create flow installer: %v", err)
	}

	orch := orchestrator.New(net, planner.GreedyBalancedSolver{}, installer, appLogger, orchestrator.Options{
		InitialPriority: cfg.Orchestrator.InitialPriority,
		Pace:            cfg.Orchestrator.Pace,
		RNGSeed:         cfg.Orchestrator.RNGSeed,
		Store:           st,
	})

	server := apiserver.NewServer(orch, st, appLogger)

	httpServer := &http.Server{
		Addr:    ":" + apiPort,
		Handler: server.Handler(),
	}

	go func() {
		log.Printf("Starting API server on port %s", apiPort)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	if err := server.Shutdown(ctx); err != nil {
		log.Printf("Application shutdown error: %v", err)
	}

	log.Println("API server stopped")
}

// loadNetwork rebuilds an in-process netstate.Network from the store's
// switch inventory audit rows. Links aren't replayed: the store's link log
// is an append-only event history (connect/disconnect ops), not a snapshot,
// so the live topology starts switch-only and is rewired back into shape by
// the next Expand call.
func loadNetwork(st store.Store) (*netstate.Network, error) {
	net := netstate.New()

	switches, err := st.ListSwitches(context.Background())
	if err != nil {
		return nil, err
	}

	for _, sw := range switches {
		tier, ok := netstate.ParseTier(sw.Tier)
		if !ok {
			continue
		}
		if err := net.AddSwitch(netstate.SwitchID(sw.ID), sw.NPorts, tier); err != nil {
			return nil, err
		}
	}

	return net, nil
}

// newFlowInstaller picks Redis pub/sub when REDIS_ADDR is configured,
// falling back to the in-memory recorder otherwise, so local runs don't
// need an external broker reachable.
func newFlowInstaller() (fabric.FlowInstaller, error) {
	if os.Getenv("REDIS_ADDR") == "" {
		return fabric.NewRecorder(), nil
	}
	return fabric.NewRedisPublisher()
}
