/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ssargent/skald/pkg/api"
	"github.com/ssargent/skald/pkg/config"
	"github.com/ssargent/skald/pkg/store"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the skald REST API server.

The server accepts typed log arguments, encodes them into an argument
buffer, renders them against the request's pattern and persists the
result. Configuration comes from the config file; flags override
individual settings.

Examples:
  skald serve
  skald serve --port=9090 --data-dir=./logs
  skald serve --api-key=mysecretkey`,
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")

		cfg := config.DefaultConfig()
		if config.ConfigExists(configPath) {
			loaded, err := config.LoadConfig(configPath)
			if err != nil {
				cmd.Printf("Error loading configuration: %v\n", err)
				os.Exit(1)
			}
			cfg = loaded
		}

		if cmd.Flags().Changed("port") {
			cfg.Port, _ = cmd.Flags().GetInt("port")
		}
		if cmd.Flags().Changed("bind") {
			cfg.Bind, _ = cmd.Flags().GetString("bind")
		}
		if cmd.Flags().Changed("data-dir") {
			cfg.DataDir, _ = cmd.Flags().GetString("data-dir")
		}
		if cmd.Flags().Changed("api-key") {
			cfg.Security.APIKey, _ = cmd.Flags().GetString("api-key")
		}

		if cfg.Security.APIKey == "" || cfg.Security.APIKey == "auto" {
			cmd.Println("Error: no API key configured (run 'skald init' or pass --api-key)")
			os.Exit(1)
		}

		entryStore, err := store.NewEntryStore(store.EntryStoreConfig{DataDir: cfg.DataDir})
		if err != nil {
			cmd.Printf("Error creating store: %v\n", err)
			os.Exit(1)
		}
		if err := entryStore.Open(); err != nil {
			cmd.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer entryStore.Close()

		serverConfig := api.ServerConfig{
			Port:    cfg.Port,
			Bind:    cfg.Bind,
			APIKey:  cfg.Security.APIKey,
			DataDir: cfg.DataDir,
		}

		if err := api.StartServer(entryStore, serverConfig); err != nil {
			cmd.Printf("Error starting server: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
	serveCmd.Flags().String("bind", "127.0.0.1", "Address to bind to")
	serveCmd.Flags().String("data-dir", "./data", "Data directory for the entry store")
	serveCmd.Flags().String("api-key", "", "API key for request authentication")
}
