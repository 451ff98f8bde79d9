// Package cli implements the zkrag command line interface.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/simplyjuanc/zk-rag-webapp/internal/adapters/driven/embedding/ollama"
	"github.com/simplyjuanc/zk-rag-webapp/internal/adapters/driven/storage/sqlite"
	"github.com/simplyjuanc/zk-rag-webapp/internal/config"
	"github.com/simplyjuanc/zk-rag-webapp/internal/connectors/filesystem"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/ports/driven"
	"github.com/simplyjuanc/zk-rag-webapp/internal/core/services"
	"github.com/simplyjuanc/zk-rag-webapp/internal/logger"
)

// Set at build time via -ldflags.
var version = "dev"

// Flags shared across commands.
var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "zkrag",
	Short: "Markdown ingestion and embedding pipeline",
	Long: `zkrag watches a directory of markdown notes, processes and chunks
every document, embeds the chunks through Ollama and stores the result
for retrieval. A GitHub webhook endpoint ingests changes pushed to a
notes repository.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.zkrag/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// loadConfig reads and validates the configuration for a command run.
// The --verbose flag wins over the config file.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.Verbose {
		logger.SetVerbose(true)
	}
	return cfg, nil
}

// buildPipeline assembles the ingestion pipeline from the configuration.
func buildPipeline(cfg *config.Config) *services.IngestionPipeline {
	embedder := ollama.NewEmbeddingService(ollama.Config{
		BaseURL:       cfg.OllamaURL,
		Model:         cfg.EmbeddingModel,
		MaxConcurrent: cfg.MaxConcurrentEmbeds,
	})
	watcher := filesystem.New(cfg.WatchDirectory, cfg.Extensions)
	return services.NewIngestionPipeline(cfg.PipelineConfig(), watcher, embedder)
}

// openStore opens the SQLite document store at the configured location.
func openStore(cfg *config.Config) (*sqlite.Store, error) {
	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening document store: %w", err)
	}
	return store, nil
}

// storageCallback persists pipeline results: deletions remove the
// stored document, everything else upserts it with its chunks.
func storageCallback(store driven.DocumentStore) domain.PipelineCallback {
	return func(result *domain.PipelineResult) error {
		ctx := context.Background()
		if result.IsDeletion() {
			return store.RemoveByPath(ctx, result.FilePath)
		}
		return store.UpsertDocument(ctx, result.Document, result.Chunks)
	}
}
