package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/dgallion1/juristext/internal/api"
	"github.com/dgallion1/juristext/internal/export"
	"github.com/dgallion1/juristext/internal/pipeline"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP extraction API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			patternsFile, _ := cmd.Flags().GetString("patterns")
			cfg, log, p, err := setup(cmd, patternsFile)
			if err != nil {
				return err
			}
			if port, _ := cmd.Flags().GetString("port"); port != "" {
				cfg.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var store *export.SQLiteSink
			if cfg.SQLitePath != "" {
				store, err = export.OpenSQLite(cfg.SQLitePath)
				if err != nil {
					return err
				}
				defer store.Close()
			}

			orch := pipeline.NewOrchestrator(cfg, p, log)
			if store != nil {
				orch.Sinks = []export.Sink{store}
			}
			orch.Start(ctx)

			httpServer := &http.Server{
				Addr:         ":" + cfg.Port,
				Handler:      api.NewServer(orch, store, log, cfg),
				ReadTimeout:  30 * time.Second,
				WriteTimeout: 120 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown.
			go func() {
				<-ctx.Done()
				log.Info("shutting down...")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				httpServer.Shutdown(shutdownCtx)
			}()

			log.Info("starting juristext", "port", cfg.Port, "workers", cfg.Workers, "store", cfg.SQLitePath)
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				orch.Stop()
				return err
			}
			orch.Stop()
			return nil
		},
	}

	cmd.Flags().String("port", "", "Listen port (default JURISTEXT_PORT)")
	cmd.Flags().String("patterns", "", "YAML file with header, footer and section patterns")

	return cmd
}
