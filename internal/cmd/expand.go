package cmd

import (
	"context"
	"log"

	"github.com/fabricwire/rewire/internal/config"
	"github.com/fabricwire/rewire/internal/orchestrator"
	"github.com/fabricwire/rewire/internal/planner"
	"github.com/fabricwire/rewire/internal/store"
	"github.com/fabricwire/rewire/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	expandLevel  string
	expandNPorts int
)

var expandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Add one switch to the fabric and rewire around it",
	Long: `expand loads the current fabric from the configured store, adds one
switch at the given level with the given port count, computes the minimal
set of wiring edits and ECMP routes, applies them, and records the result
back to the store -- a one-shot, scriptable alternative to POST
/api/expansions.`,
	Run: runExpand,
}

func init() {
	expandCmd.Flags().StringVarP(&expandLevel, "level", "l", "", "expansion level: spine or server (required)")
	expandCmd.Flags().IntVarP(&expandNPorts, "nports", "n", 0, "port count of the new switch (required)")
	expandCmd.MarkFlagRequired("level")
	expandCmd.MarkFlagRequired("nports")
}

func runExpand(cmd *cobra.Command, args []string) {
	var level planner.Level
	switch expandLevel {
	case "spine":
		level = planner.Spine
	case "server":
		level = planner.Server
	default:
		log.Fatalf("unknown expansion level %q, must be spine or server", expandLevel)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	appLogger := logger.New(logLevel)

	st, err := store.New(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to create store: %v", err)
	}
	defer st.Close()

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

	actions, err := orch.Expand(context.Background(), level, expandNPorts)
	if err != nil {
		log.Fatalf("Expansion failed: %v", err)
	}

	log.Printf("Expansion applied %d wiring actions", len(actions))
	for _, a := range actions {
		log.Printf("  %s agg=%d core=%d", a.Op, a.AggIndex, a.CoreIndex)
	}
}
