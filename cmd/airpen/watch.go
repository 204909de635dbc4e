package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"airpen/client"
	"airpen/protocol"
)

func newWatchCmd() *cobra.Command {
	var (
		url   string
		reset bool
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the shared pen and print every update",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()
			v := client.NewViewer(url, func(msg any) {
				switch m := msg.(type) {
				case protocol.Status:
					fmt.Fprintf(out, "status: %s (clients=%d)\n", m.Message, m.Clients)
				case protocol.Point:
					fmt.Fprintf(out, "point: x=%.5f y=%.5f vx=%.5f vy=%.5f dt=%.3f\n", m.X, m.Y, m.VX, m.VY, m.DT)
				case protocol.ResetNotice:
					fmt.Fprintln(out, "reset")
				}
			})
			if reset {
				if err := v.Reset(); err != nil {
					return err
				}
			}
			if err := v.Run(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&url, "url", "ws://127.0.0.1:8765", "Server websocket URL")
	cmd.Flags().BoolVar(&reset, "reset", false, "Reset the pen once connected")
	return cmd
}
