package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "airpen",
		Short: "AirPen - turn a handheld accelerometer into a shared drawing pen",
		Long: `AirPen receives 2D acceleration samples over a websocket, smooths them
into a pen position with a dead-reckoning filter and broadcasts every update to
all connected viewers. There is one pen; every viewer sees the same stroke.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newServeCmd(), newWatchCmd(), newPointsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
