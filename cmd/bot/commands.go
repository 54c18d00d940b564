package main

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/xiaohua-travel/linebot/internal/app"
	"github.com/xiaohua-travel/linebot/internal/config"
	"github.com/xiaohua-travel/linebot/internal/logger"
	"github.com/xiaohua-travel/linebot/internal/media"
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bot",
		Short: "LINE travel assistant webhook server",
		Long: `Serves the LINE webhook of the travel assistant bot.

Examples:
  bot
  bot --config ./linebot.toml
  bot sweep`,
		Version:       fmt.Sprintf("%s (built at: %s)", version, buildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	rootCmd.PersistentFlags().StringP("config", "c", "", "path to the TOML config file")
	rootCmd.AddCommand(newSweepCmd(), newVersionCmd())
	return rootCmd
}

func configPath(cmd *cobra.Command) string {
	path, _ := cmd.Flags().GetString("config")
	return path
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath(cmd))
	if err != nil {
		return err
	}

	application, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	application.Logger.WithField("version", version).Info("Application initialized")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return application.Run(ctx)
}

func newSweepCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Delete stored media older than media.retention",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			// sweeping only touches the media dir, no LINE credentials needed
			cfg, err := config.Read(configPath(cmd))
			if err != nil {
				return err
			}
			logCfg := cfg.Log()
			log := logger.NewLogrusLogger(&logCfg)

			store, err := media.NewStore(cfg.Media(), cfg.Server().PublicHost(), log)
			if err != nil {
				return err
			}
			removed, err := store.Sweep(time.Now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d file(s) from %s\n", removed, store.Dir())
			return nil
		},
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (built at: %s)\n", version, buildTime)
		},
	}
}
