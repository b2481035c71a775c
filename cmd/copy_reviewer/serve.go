package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/copy-reviewer/internal/config"
	"github.com/jonathan/copy-reviewer/internal/db"
	"github.com/jonathan/copy-reviewer/internal/llm"
	"github.com/jonathan/copy-reviewer/internal/metrics"
	"github.com/jonathan/copy-reviewer/internal/server"
	"github.com/jonathan/copy-reviewer/internal/session"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port int
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		Long:  "Start an HTTP server exposing the review, improve, analyze-and-improve and usage tracking endpoints.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := root.loadSettings()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}
			return runServe(cmd.Context(), cfg)
		},
	}
	cmd.Flags().IntVar(&port, "port", config.DefaultPort, "Port to listen on (overrides PORT)")
	return cmd
}

func runServe(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.Default()

	var (
		client   llm.Client
		database *db.DB
	)
	// Provider setup and the database ping are independent
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		c, err := newClient(gctx, cfg, m)
		if err != nil {
			return fmt.Errorf("failed to create LLM client: %w", err)
		}
		client = c
		return nil
	})
	g.Go(func() error {
		if cfg.DatabaseURL == "" {
			log.Printf("[db] DATABASE_URL not set, usage tracking disabled")
			return nil
		}
		d, err := db.Connect(gctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		if err := d.Migrate(gctx); err != nil {
			d.Close()
			return err
		}
		database = d
		return nil
	})
	if err := g.Wait(); err != nil {
		if client != nil {
			_ = client.Close()
		}
		if database != nil {
			database.Close()
		}
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Printf("[llm] close failed: %v", err)
		}
	}()

	srvCfg := server.Config{
		Port:     cfg.Port,
		Client:   client,
		Sessions: session.NewStore(cfg.SessionLogDir),
		Metrics:  m,
	}
	if database != nil {
		defer database.Close()
		srvCfg.Tracker = database
	}

	srv, err := server.New(srvCfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Start(ctx)
}
