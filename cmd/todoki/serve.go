package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/Kilerd/todoki/internal/api"
	"github.com/Kilerd/todoki/internal/config"
	"github.com/Kilerd/todoki/internal/db"
	"github.com/Kilerd/todoki/internal/digest"
	"github.com/Kilerd/todoki/internal/digest/discord"
	"github.com/Kilerd/todoki/internal/digest/slack"
)

func newServeCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Todoki API server",
		Long:  "Connects to the store, migrates the schema, and serves the token-authenticated JSON API. Starts the digest scheduler when enabled.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, *configPath)
		},
	}
}

func runServe(cmd *cobra.Command, configPath string) error {
	cfg, gormDB, loc, err := connectFromConfig(configPath)
	if err != nil {
		return err
	}
	if cfg.Auth.Token == "" {
		return fmt.Errorf("auth.token is required to serve (set it in %s or TODOKI_TOKEN)", configPath)
	}

	if err := db.AutoMigrate(gormDB); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		fmt.Fprintf(cmd.OutOrStdout(), "\nReceived %s, shutting down...\n", sig)
		cancel()
	}()

	if cfg.Digest.Enabled {
		scheduler, err := newDigestScheduler(cfg, gormDB, loc)
		if err != nil {
			return err
		}
		go scheduler.Run(ctx)
		log.Printf("digest scheduler started (%s)", cfg.Digest.Schedule)
	}

	return api.Start(ctx, api.StartOpts{
		DB:       gormDB,
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		Token:    cfg.Auth.Token,
		Location: loc,
		Out:      cmd.OutOrStdout(),
	})
}

// newDigestScheduler wires up the configured notifiers. Config validation
// has already guaranteed at least one destination.
func newDigestScheduler(cfg *config.Config, gormDB *gorm.DB, loc *time.Location) (*digest.Scheduler, error) {
	var notifiers []digest.Notifier

	sc := cfg.Digest.Slack
	if sc.WebhookURL != "" || sc.Token != "" {
		n, err := slack.New(slack.Opts{
			Token:      sc.Token,
			Channel:    sc.Channel,
			WebhookURL: sc.WebhookURL,
		})
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}

	dc := cfg.Digest.Discord
	if dc.Token != "" {
		n, err := discord.New(discord.Opts{
			BotToken:  dc.Token,
			ChannelID: dc.ChannelID,
		})
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, n)
	}

	return digest.NewScheduler(gormDB, loc, cfg.Digest.Schedule, notifiers...)
}
