package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/insurepool/poolgate/ledgerapi/api"
	"github.com/insurepool/poolgate/ledgerapi/config"
	"github.com/insurepool/poolgate/ledgerapi/constant"
	"github.com/insurepool/poolgate/ledgerapi/cron"
	"github.com/insurepool/poolgate/ledgerapi/db"
	"github.com/insurepool/poolgate/ledgerapi/ledger"
	"github.com/insurepool/poolgate/ledgerapi/logger"
	"github.com/insurepool/poolgate/ledgerapi/service"
)

// Set at build time with -ldflags "-X main.Version=... -X main.Commit=..."
var (
	Version = "dev"
	Commit  = ""
)

const shutdownTimeout = 10 * time.Second

func InitRootCmd(rootCmd *cobra.Command) {
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(startCmd())
	rootCmd.AddCommand(versionCmd())
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration to the node home",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, _ := cmd.Flags().GetString(flagHome)

			configFile := filepath.Join(home, constant.ConfigSubdir, constant.ConfigFileName)
			if _, err := os.Stat(configFile); err == nil {
				return fmt.Errorf("config already exists at %s", configFile)
			}

			cfg, err := config.LoadDefaultConfig()
			if err != nil {
				return err
			}
			cfg.NodeHome = home
			if err := config.Save(cfg, home); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", configFile)
			return nil
		},
	}
}

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the gateway REST API",
		RunE: func(cmd *cobra.Command, args []string) error {
			home, _ := cmd.Flags().GetString(flagHome)

			cfg, err := config.Load(home)
			if err != nil {
				return err
			}
			if err := config.Validate(&cfg); err != nil {
				return fmt.Errorf("invalid config: %w", err)
			}

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			log := logger.New(cfg.LogLevel, cfg.LogFormat, cfg.LogSampler)
			return run(ctx, cfg, log)
		},
	}
}

// run wires the gateway together and blocks until ctx is cancelled.
func run(ctx context.Context, cfg config.Config, log zerolog.Logger) error {
	daemonLog := logger.Component(log, "daemon")
	daemonLog.Info().Str("version", Version).Str("environment", cfg.EnvironmentName).Msg("starting poolgate")

	deps := api.Dependencies{}

	var recorder cron.Recorder
	if cfg.DatabaseEnabled {
		database, err := db.OpenFileDB(filepath.Join(cfg.NodeHome, constant.DatabasesSubdir), constant.DatabaseFileName, true)
		if err != nil {
			return err
		}
		defer database.Close()

		cleaner := db.NewHistoryCleaner(database,
			time.Duration(cfg.PingHistoryRetentionSeconds)*time.Second, db.DefaultCleanupInterval, log)
		cleaner.Start(ctx)
		defer cleaner.Stop()

		recorder = database
		deps.History = database
	}

	client, err := ledger.NewRPCClient(ctx, cfg.Web3URLs, cfg.ChainID, cfg.DialRetries, log)
	if err != nil {
		return err
	}
	defer client.Close()
	deps.Health = client

	defaults := cfg.Defaults()
	submitter := ledger.NewSubmitter(client, defaults.GasPrice, defaults.GasLimit, log)

	pings := cron.NewPingJob(submitter, recorder, defaults.ReceiptWait, log)
	if err := pings.Start(ctx); err != nil {
		return err
	}
	defer pings.Stop()
	deps.Pings = pings

	deps.Ledger = service.New(client, client, service.Options{
		Submitter:       submitter,
		Defaults:        defaults,
		EnvironmentName: cfg.EnvironmentName,
		Web3Endpoints:   client.Endpoints(),
	}, log)

	server := api.NewServer(log, cfg.HTTPPort, deps)
	if err := server.Start(); err != nil {
		return err
	}

	<-ctx.Done()
	daemonLog.Info().Msg("shutting down poolgate")

	return server.Stop(shutdownTimeout)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print poolgated version info",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Name:       %s\n", "poolgated")
			fmt.Fprintf(cmd.OutOrStdout(), "Version:    %s\n", Version)
			fmt.Fprintf(cmd.OutOrStdout(), "Commit:     %s\n", Commit)
		},
	}
}
