package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"airpen/recorder"
)

func newPointsCmd() *cobra.Command {
	var (
		dbPath string
		limit  int
	)
	cmd := &cobra.Command{
		Use:   "points",
		Short: "Print the most recently recorded points",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := recorder.Open(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := db.LatestPoints(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("failed to query points: %w", err)
			}
			for _, r := range rows {
				fmt.Fprintln(cmd.OutOrStdout(), r.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&dbPath, "db", "airpen.db", "Recorded sqlite database")
	cmd.Flags().IntVar(&limit, "limit", 100, "Number of points to print")
	return cmd
}
