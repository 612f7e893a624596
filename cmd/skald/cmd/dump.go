/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/skald/pkg/store"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print stored entries",
	Long: `Print stored entries from a skald data directory in emission order.

Examples:
  skald dump --data-dir=./data
  skald dump --data-dir=./data --limit=20`,
	Run: func(cmd *cobra.Command, args []string) {
		dataDir, _ := cmd.Flags().GetString("data-dir")
		limit, _ := cmd.Flags().GetInt("limit")

		entryStore, err := store.NewEntryStore(store.EntryStoreConfig{DataDir: dataDir})
		if err != nil {
			cmd.Printf("Error creating store: %v\n", err)
			os.Exit(1)
		}
		if err := entryStore.Open(); err != nil {
			cmd.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer entryStore.Close()

		entries, err := entryStore.List(limit)
		if err != nil {
			cmd.Printf("Error listing entries: %v\n", err)
			os.Exit(1)
		}

		for _, e := range entries {
			level := e.Level
			if level == "" {
				level = "info"
			}
			cmd.Printf("%s %s [%s] %s\n", e.ID, e.LoggedAt.Format(time.RFC3339), level, e.Text)
		}
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().String("data-dir", "./data", "Data directory for the entry store")
	dumpCmd.Flags().IntP("limit", "n", 0, "Maximum number of entries to print (0 = all)")
}
