package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vinodmerwade/OrgCheck/internal/correlation/config"
	"github.com/vinodmerwade/OrgCheck/internal/di"
	"github.com/vinodmerwade/OrgCheck/internal/shared/logger"
)

// Version is set at build time.
var Version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "orgcheck",
		Short:   "OrgCheck metadata correlation engine",
		Long:    "OrgCheck reads the metadata of an org, correlates it into scored entities and serves the results.",
		Version: Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if err := godotenv.Load(); err != nil {
				log.Printf("Warning: Could not load .env file: %v", err)
			}
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(flowsCmd)
	rootCmd.AddCommand(objectCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newContainer loads the configuration and builds the initialized container.
func newContainer(cmd *cobra.Command) (*di.Container, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	appLogger := logger.NewLogger()
	container := di.NewContainer(cfg, appLogger)
	if err := container.Initialize(cmd.Context()); err != nil {
		return nil, err
	}
	appLogger.Info("Application configuration loaded successfully")
	return container, nil
}
