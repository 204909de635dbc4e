package main

import (
	"context"
	"fmt"
	"log"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"

	"airpen/config"
	"airpen/logging"
	"airpen/network"
	"airpen/recorder"
	"airpen/session"
)

func newServeCmd() *cobra.Command {
	var (
		envFile string
		host    string
		port    int
		record  string
		logFile string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the AirPen websocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(envFile)
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("host") {
				cfg.Host = host
			}
			if flags.Changed("port") {
				cfg.Port = port
			}
			if flags.Changed("record") {
				cfg.RecordDB = record
			}
			if flags.Changed("log-file") {
				cfg.LogFile = logFile
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			return serve(cfg)
		},
	}
	cmd.Flags().StringVar(&envFile, "env", "", "Path to an env file (default .env if present)")
	defaults := config.Default()
	cmd.Flags().StringVar(&host, "host", defaults.Host, "Bind address")
	cmd.Flags().IntVar(&port, "port", defaults.Port, "Listen port")
	cmd.Flags().StringVar(&record, "record", "", "Record every point to this sqlite database")
	cmd.Flags().StringVar(&logFile, "log-file", "", "Write logs to this rotating file instead of stderr")
	return cmd
}

func serve(cfg *config.Config) error {
	closer := logging.Setup(cfg.LogFile)
	defer closer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	coord := session.New(cfg.Tracker, nil)

	if cfg.RecordDB != "" {
		db, err := recorder.Open(cfg.RecordDB)
		if err != nil {
			return fmt.Errorf("failed to open record database: %w", err)
		}
		defer db.Close()
		rec := recorder.New(db, 0)
		defer rec.Close()
		coord.Recorder = rec
		log.Printf("recording session %s to %s", rec.Session(), cfg.RecordDB)
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		coord.Run(ctx)
		log.Print("coordinator terminated")
	}()

	err := network.NewServer(coord, cfg.Outbox).ListenAndServe(ctx, cfg.Addr())
	stop()
	wg.Wait()
	return err
}
