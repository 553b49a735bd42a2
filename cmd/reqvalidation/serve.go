package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Gobd/reqvalidation/env"
	"github.com/Gobd/reqvalidation/internal/logging"
	"github.com/Gobd/reqvalidation/internal/server"
)

func newServeCmd() *cobra.Command {
	var envFile string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Long: `Start the HTTP server.

Configuration is read from the environment, optionally preceded by a dotenv
file. The process exits before listening when it is invalid:

  NODE_ENV      development | production (default production)
  PORT          listen port (default 3333)
  DATABASE_URL  database connection URL (required)
  LOG_LEVEL     debug | info | warn | error (default info)
  LOG_FORMAT    json | console (default json)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := env.Load(envFile)
			if err != nil {
				return err
			}
			log := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stdout)

			srv, err := server.New(cfg, log, version)
			if err != nil {
				log.Error().Err(err).Msg("failed to build server")
				return err
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := srv.Run(ctx); err != nil {
				log.Error().Err(err).Msg("server error")
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "dotenv file read before the environment (skipped when missing)")
	return cmd
}
