package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nocturne-player/nocturne/internal/catalog"
)

var scanCmd = &cobra.Command{
	Use:   "scan <directory>",
	Short: "Scan a music directory and print the resulting catalog",
	Long: `Run internal/catalog's scanner against a directory and print a summary,
without booting the Kernel or any of its worker peers. Useful for checking a
library path and inspecting per-file scan errors.

Examples:
  nocturne scan ~/Music`,
	Args: cobra.ExactArgs(1),
	Run:  runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) {
	dir := args[0]

	result, err := catalog.ScanDirectory(dir, 1)
	if err != nil {
		slog.Error("scan: failed", "directory", dir, "error", err)
		os.Exit(1)
	}

	snap := result.Snapshot
	fmt.Printf("artists: %d  albums: %d  songs: %d\n", len(snap.Artists), len(snap.Albums), len(snap.Songs))

	for path, scanErr := range result.Errors {
		fmt.Printf("error: %s: %v\n", path, scanErr)
	}
}
