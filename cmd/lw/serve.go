package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/liftwright/liftwright/internal/api"
	"github.com/liftwright/liftwright/internal/catalog"
	"github.com/liftwright/liftwright/internal/config"
	"github.com/liftwright/liftwright/internal/db"
	"github.com/liftwright/liftwright/internal/planner"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

// rolloverSchedule fires early every Monday to carry weekly plans forward.
const rolloverSchedule = "15 0 * * MON"

func newServeCmd() *cobra.Command {
	var (
		configPath string
		port       int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the Liftwright API server",
		Long:  "Launches the HTTP API for weekly plans, session plans, and session logs.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "liftwright.yaml", "path to Liftwright config file")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "port to listen on (overrides config)")
	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int) error {
	cfg, err := loadConfigOrDefault(configPath)
	if err != nil {
		return err
	}
	if port <= 0 {
		port = cfg.Server.Port
	}

	gormDB, err := db.Connect(cfg.Database)
	if err != nil {
		return err
	}

	templates, err := loadTemplates(cfg)
	if err != nil {
		return err
	}

	p := planner.New(db.NewStore(gormDB), templates, planner.Options{
		Timezone:        cfg.Planning.Timezone,
		DefaultStrategy: cfg.Planning.DefaultStrategy,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if cfg.Planning.AutoRollover {
		c := cron.New()
		if _, err := c.AddFunc(rolloverSchedule, func() {
			created, err := p.RolloverWeek(time.Now())
			if err != nil {
				log.Printf("serve: weekly rollover: %v", err)
				return
			}
			log.Printf("serve: weekly rollover created %d plans", created)
		}); err != nil {
			return fmt.Errorf("schedule rollover: %w", err)
		}
		c.Start()
		defer c.Stop()
	}

	return api.Start(ctx, api.StartOpts{
		DB:      gormDB,
		Planner: p,
		Port:    port,
		Out:     cmd.OutOrStdout(),
	})
}

// loadTemplates returns the configured template library, defaulting to the
// embedded one.
func loadTemplates(cfg *config.Config) (*catalog.Library, error) {
	if cfg.Seed.TemplatesPath != "" {
		return catalog.Load(cfg.Seed.TemplatesPath)
	}
	return catalog.Builtin()
}
