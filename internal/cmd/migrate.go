package cmd

import (
	"log"

	"github.com/fabricwire/rewire/internal/config"
	"github.com/fabricwire/rewire/internal/store"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run store schema migrations",
	Long:  "Create or update the audit-store schema for the backend named in the config file",
	Run:   runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if verbose {
		log.Printf("Migrating %s store", cfg.Store.Type)
	}

	st, err := store.New(cfg.Store)
	if err != nil {
		log.Fatalf("Failed to connect to store: %v", err)
	}
	defer st.Close()

	log.Println("Migration completed successfully")
}
