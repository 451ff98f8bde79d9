package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/simplyjuanc/zk-rag-webapp/internal/adapters/driven/github"
	"github.com/simplyjuanc/zk-rag-webapp/internal/adapters/driving/webhook"
	"github.com/simplyjuanc/zk-rag-webapp/internal/logger"
)

// shutdownTimeout bounds the webhook server drain on exit.
const shutdownTimeout = 5 * time.Second

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Watch the notes directory and keep embeddings up to date",
	Long: `Starts the ingestion pipeline: existing markdown files are processed
once, then the directory is watched for changes. When a webhook secret
is configured, an HTTP endpoint also accepts GitHub push events.
Runs until interrupted.`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	pipeline := buildPipeline(cfg)
	if err := pipeline.Start(storageCallback(store)); err != nil {
		return fmt.Errorf("starting pipeline: %w", err)
	}
	defer pipeline.Stop()

	cmd.Printf("Watching %s (database: %s)\n", cfg.WatchDirectory, store.Path())

	var server *http.Server
	serverErr := make(chan error, 1)
	if cfg.WebhookSecret != "" {
		repos := github.NewClient(cmd.Context(), cfg.GithubToken)
		mux := http.NewServeMux()
		mux.Handle("/webhook/github", webhook.NewHandler(cfg.WebhookSecret, pipeline, repos))

		server = &http.Server{
			Addr:         cfg.ListenAddr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		}
		go func() {
			logger.Info("Webhook server listening on %s", cfg.ListenAddr)
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serverErr <- err
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		cmd.Printf("\nReceived %s, shutting down...\n", sig)
	case err := <-serverErr:
		return fmt.Errorf("webhook server: %w", err)
	}

	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Webhook server shutdown: %v", err)
		}
	}

	return nil
}
