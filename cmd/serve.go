package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/nocturne-player/nocturne/internal/config"
	"github.com/nocturne-player/nocturne/internal/kernel"
	"github.com/nocturne-player/nocturne/internal/rpcserver"
)

var serveDataDir string
var serveVerbose bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Boot the playback daemon",
	Long: `Boot the Kernel, Audio Engine, Search worker, filesystem signal watcher,
and the JSON-RPC-ish HTTP/WebSocket frontend, then block forever.

Examples:
  # Boot with the default data directory (~/.nocturne)
  nocturne serve

  # Boot against a specific data directory
  nocturne serve --data-dir /srv/nocturne`,
	Run: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	home, _ := os.UserHomeDir()
	defaultDataDir := home + "/.nocturne"

	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", defaultDataDir, "Directory for config, persisted state, and signal files")
	serveCmd.Flags().BoolVarP(&serveVerbose, "verbose", "v", false, "Verbose output (debug logging)")
}

func runServe(cmd *cobra.Command, args []string) {
	logLevel := slog.LevelInfo
	if serveVerbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	settings, err := config.Load(serveDataDir)
	if err != nil {
		slog.Error("serve: failed to load config, using defaults", "error", err)
		settings = config.Default()
	}

	toKernel, fromKernel := kernel.Spawn(serveDataDir)

	if !settings.Server.Enabled {
		slog.Info("serve: HTTP/WebSocket frontend disabled in config, running headless")
		select {}
	}

	server := rpcserver.New(toKernel, fromKernel)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	server.Register(router)

	addr := fmt.Sprintf("%s:%d", settings.Server.BindAddress, settings.Server.Port)
	slog.Info("serve: listening", "addr", addr)
	if err := router.Run(addr); err != nil {
		slog.Error("serve: HTTP server exited", "error", err)
		os.Exit(1)
	}
}
