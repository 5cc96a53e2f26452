package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "nocturne",
	Short: "Local music player daemon and CLI",
	Long: `nocturne - a local music playback daemon: a Kernel coordinating Audio
Engine, catalog, and Search workers over in-process channels, reachable via
an in-process CLI, a JSON-RPC-ish HTTP/WebSocket frontend, and a filesystem
signal watcher.

Commands:
  - serve: boot the daemon (Kernel + Audio Engine + rpcserver + watch)
  - scan: scan a music directory and print the resulting catalog, without
    booting the full daemon
  - devices: list or probe PortAudio output devices
  - transform: convert an audio file to a different sample rate and WAV`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
