package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"ghibli-films-service/internal/handler"
	"ghibli-films-service/internal/model"
	"ghibli-films-service/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the browsing UI on a local port",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port == "" {
				port = cfg.Port
			}
			return serve(cmd.Context(), port)
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "Port to listen on (default $PORT)")
	return cmd
}

func serve(ctx context.Context, port string) error {
	log.Info().
		Str("port", port).
		Str("mode", cfg.GinMode).
		Str("store", cfg.StoreBackend).
		Dur("ttl", cfg.CacheTTL).
		Msg("🚀 Starting ghibli-films-service")

	gin.SetMode(cfg.GinMode)

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if a.metrics != nil {
		a.metrics.RecordServerStart(ctx)
	}

	a.films.Subscribe(service.ObserverFunc(func(st model.State) {
		ev := log.Debug()
		if st.Err != nil {
			ev = log.Warn().Err(st.Err)
		}
		ev.Bool("loading", st.Loading).
			Int("films", len(st.Films)).
			Str("source", st.Source).
			Msg("films state")
	}))

	// Initial load runs in the background; pages show "loading" until it lands
	go func() {
		if err := a.films.Activate(ctx); err != nil {
			log.Warn().Err(err).Msg("Initial films load failed")
		}
	}()

	addr := ":" + port
	srv := &http.Server{
		Addr:    addr,
		Handler: handler.NewRouter(a.films, a.cache, a.metrics),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("🌐 Server listening")
		log.Info().Str("ui", "http://localhost"+addr+"/characters").Msg("🎬 Browse films")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info().Msg("🛑 Shutting down server...")

	// Give outstanding requests a deadline for completion
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("👋 Server exited")
	return nil
}
