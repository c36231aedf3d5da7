package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dugoutai/dugout/config"
	"github.com/dugoutai/dugout/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Starts the assistant in server mode, exposing a JSON chat API over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Addr = addr
		}

		logger := buildLogger(cfg)
		assistant, err := buildAssistant(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		srv := server.New(assistant, func(o *server.Options) {
			o.Logger = logger
		})

		serverErrors := make(chan error, 1)
		go func() {
			serverErrors <- srv.ListenAndServe(cfg.Addr)
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("addr", "", "Listen address (overrides DUGOUT_ADDR)")
}
