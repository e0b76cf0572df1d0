package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fabricwire/rewire/internal/config"
	"github.com/fabricwire/rewire/internal/orchestrator"
	"github.com/fabricwire/rewire/internal/planner"
	"github.com/fabricwire/rewire/internal/store"
	"github.com/fabricwire/rewire/internal/worker"
	"github.com/fabricwire/rewire/pkg/logger"
	"github.com/spf13/cobra"
)

var workerInterval int

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run the route-audit background worker",
	Long:  `Run a background task that periodically recomputes ECMP routes and logs drift against the last pushed table`,
	RunE:  runWorker,
}

func init() {
	workerCmd.Flags().IntVarP(&workerInterval, "interval", "i", 60, "route audit interval in seconds")
}

func runWorker(cmd *cobra.Command, args []string) error {
	stdLogger := log.New(os.Stdout, "[WORKER] ", log.LstdFlags|log.Lshortfile)
	stdLogger.Println("Starting route-audit worker...")

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger := logger.New("info")

	st, err := store.New(cfg.Store)
	if err != nil {
		return fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()

	net, err := loadNetwork(st)
	if err != nil {
		return fmt.Errorf("failed to load network state: %w", err)
	}

	installer, err := newFlowInstaller()
	if err != nil {
		return fmt.Errorf("failed to create flow installer: %w", err)
	}

	orch := orchestrator.New(net, planner.GreedyBalancedSolver{}, installer, appLogger, orchestrator.Options{
		InitialPriority: cfg.Orchestrator.InitialPriority,
		Pace:            cfg.Orchestrator.Pace,
		RNGSeed:         cfg.Orchestrator.RNGSeed,
		Store:           st,
	})

	scheduler := worker.NewScheduler(stdLogger)
	task := worker.NewRouteAuditTask(orch, cfg.Orchestrator.RNGSeed, time.Duration(workerInterval)*time.Second, stdLogger)
	if err := scheduler.AddTask(task); err != nil {
		return fmt.Errorf("failed to add route-audit task: %w", err)
	}

	scheduler.Start()
	defer scheduler.Stop()

	stdLogger.Printf("Worker started, auditing routes every %ds. Press Ctrl+C to stop.", workerInterval)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	stdLogger.Printf("Received signal %s, shutting down...", sig)

	return nil
}
