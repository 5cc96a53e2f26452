package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/drgolem/go-portaudio/portaudio"
	"github.com/spf13/cobra"

	"github.com/nocturne-player/nocturne/internal/devices"
)

var devicesProbe bool

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List available PortAudio output devices",
	Long: `List the output devices internal/devices' registry can resolve by name,
with "Default Device" always listed first. With --probe, also build and
immediately tear down a stream against each device to report whether it can
currently be opened.

Examples:
  nocturne devices
  nocturne devices --probe`,
	Run: runDevices,
}

func init() {
	rootCmd.AddCommand(devicesCmd)
	devicesCmd.Flags().BoolVar(&devicesProbe, "probe", false, "Probe each device by opening and closing a stream")
}

func runDevices(cmd *cobra.Command, args []string) {
	if err := portaudio.Initialize(); err != nil {
		slog.Error("devices: failed to initialize PortAudio", "error", err)
		os.Exit(1)
	}
	defer portaudio.Terminate()

	registry := devices.Shared()
	for i, name := range registry.List() {
		if !devicesProbe {
			fmt.Printf("%2d  %s\n", i, name)
			continue
		}

		idx, err := registry.Resolve(name)
		if err != nil {
			fmt.Printf("%2d  %s  [unresolvable: %v]\n", i, name, err)
			continue
		}
		status := "unreachable"
		if devices.Probe(idx) {
			status = "ok"
		}
		fmt.Printf("%2d  %s  [%s]\n", i, name, status)
	}
}
