package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"newspulse/internal/apiclient"
	"newspulse/internal/archive"
	"newspulse/internal/channel"
	"newspulse/internal/config"
	"newspulse/internal/session"
	"newspulse/internal/tui"
	"newspulse/internal/util"
)

var (
	flagConfig  string
	flagServer  string
	flagArchive string
	flagPlain   bool
)

func main() {
	root := &cobra.Command{
		Use:   "newspulse",
		Short: "Live terminal dashboard for a news-intelligence server",
		Long: `newspulse merges the server's article history with its live push
stream, keeps rolling sentiment analytics, and answers questions
through the server's assistant endpoint.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	root.Flags().StringVar(&flagConfig, "config", "", "config file (default: XDG config dir)")
	root.Flags().StringVar(&flagServer, "server", "", "server base URL (overrides config)")
	root.Flags().StringVar(&flagArchive, "archive", "", "SQLite path for the session item archive")
	root.Flags().BoolVar(&flagPlain, "plain", false, "plain console output instead of the TUI")

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func run() error {
	cfgPath := flagConfig
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return fmt.Errorf("resolving config path: %w", err)
		}
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if flagServer != "" {
		cfg.Server.BaseURL = flagServer
	}
	if flagArchive != "" {
		cfg.Archive.Path = flagArchive
	}

	logger := util.NewLogger(cfg.Logging.Level)
	util.SetDefault(logger)

	api := apiclient.NewClient(cfg.Server.BaseURL, cfg.Refresh.RatePerMin)

	var archiver session.Archiver
	if cfg.Archive.Path != "" {
		arch, err := archive.Open(cfg.Archive.Path)
		if err != nil {
			return fmt.Errorf("opening archive: %w", err)
		}
		defer arch.Close()
		archiver = arch
		logger.Info("session archive enabled", "path", cfg.Archive.Path)
	}

	sess := session.New(api, api, archiver, logger)
	defer sess.Close()

	mgr := channel.NewManager(cfg.WebSocketURL(), sess.HandlePush, logger)
	sess.AttachChannel(mgr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// The live channel runs for the whole session, reconnecting forever.
	go func() {
		if err := mgr.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("live channel stopped", "error", err)
		}
	}()

	if flagPlain {
		return runConsole(ctx, sess)
	}
	return tui.Run(ctx, sess)
}
