package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/Jef808/pyextract/internal/api"
	"github.com/Jef808/pyextract/internal/config"
)

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the extraction HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if port != 0 {
				cfg.Port = port
			}

			srv, err := api.NewServer(cfg)
			if err != nil {
				return fmt.Errorf("failed to create server: %w", err)
			}

			httpServer := &http.Server{
				Addr:         fmt.Sprintf(":%d", cfg.Port),
				Handler:      srv.Router(),
				ReadTimeout:  15 * time.Second,
				WriteTimeout: 15 * time.Second,
				IdleTimeout:  60 * time.Second,
			}

			// Graceful shutdown
			done := make(chan bool)
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

			go func() {
				<-quit
				log.Info().Msg("server is shutting down...")

				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()

				if err := httpServer.Shutdown(ctx); err != nil {
					log.Fatal().Err(err).Msg("could not gracefully shutdown the server")
				}
				close(done)
			}()

			log.Info().Int("port", cfg.Port).Msg("starting extraction API server")
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				return fmt.Errorf("could not listen on port %d: %w", cfg.Port, err)
			}

			<-done
			log.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default: PYEXTRACT_PORT or 8080)")

	return cmd
}
