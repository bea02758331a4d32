package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shelfie/backend/internal/agent"
	"shelfie/backend/internal/config"
	"shelfie/backend/internal/handler"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatalf("[FATAL] %v", err)
	}
}

func newRootCmd() *cobra.Command {
	v := config.New()
	var envFiles []string

	cmd := &cobra.Command{
		Use:           "shelfie",
		Short:         "Shelfie book recommendation API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config.LoadEnvFiles(envFiles...)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, v)
		},
	}

	flags := cmd.Flags()
	flags.StringSliceVar(&envFiles, "env-file", []string{".env.local", ".env"}, "dotenv files to load (missing files are skipped)")
	flags.String("port", "", "port to listen on (env PORT)")
	flags.String("model", "", "Gemini model id (env SHELFIE_MODEL)")
	flags.String("search-provider", "", "search tool: google or duckduckgo (env SEARCH_PROVIDER)")
	flags.String("allowed-origin", "", "CORS origin allowed to call the API (env ALLOWED_ORIGIN)")

	bindFlag(v, config.KeyPort, cmd, "port")
	bindFlag(v, config.KeyModel, cmd, "model")
	bindFlag(v, config.KeySearchProvider, cmd, "search-provider")
	bindFlag(v, config.KeyAllowedOrigin, cmd, "allowed-origin")

	return cmd
}

func bindFlag(v *viper.Viper, key string, cmd *cobra.Command, name string) {
	if err := v.BindPFlag(key, cmd.Flags().Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

func run(ctx context.Context, v *viper.Viper) error {
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	log.Printf("[INFO] Starting Shelfie API env=%s model=%s search=%s", cfg.Env, cfg.Model, cfg.SearchProvider)

	// The agent is a startup precondition: no agent, no server
	shelfie, err := agent.NewShelfieAgent(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize Shelfie agent: %w", err)
	}
	log.Println("[INFO] Shelfie agent initialized successfully")

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	h := handler.New(shelfie, cfg.RecommendTimeout)
	r := handler.NewRouter(h, cfg.AllowedOrigin)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[INFO] Server ready port=%s allowed_origin=%s", cfg.Port, cfg.AllowedOrigin)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("[INFO] Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RecommendTimeout+5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
