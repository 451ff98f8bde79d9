// Package config loads the application configuration from a TOML file
// with environment variable overrides for deployment-specific values
// and secrets.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "ZKRAG_"

// Config is the full application configuration: the pipeline settings
// plus the webhook server and storage surface around it.
type Config struct {
	// WatchDirectory is the markdown directory observed for changes.
	WatchDirectory string `toml:"watch_directory"`

	// OllamaURL is the embedding provider base URL.
	OllamaURL string `toml:"ollama_url"`

	// EmbeddingModel is the provider model name.
	EmbeddingModel string `toml:"embedding_model"`

	// ChunkSize is the character budget per chunk.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the character budget carried between chunks.
	ChunkOverlap int `toml:"chunk_overlap"`

	// MaxConcurrentEmbeds bounds parallel embedding calls.
	MaxConcurrentEmbeds int `toml:"max_concurrent_embeds"`

	// QueueSize bounds the pipeline event queue.
	QueueSize int `toml:"queue_size"`

	// Extensions are the file extensions to process.
	Extensions []string `toml:"extensions"`

	// DataDir is where the SQLite database lives. Empty means
	// ~/.zkrag/data.
	DataDir string `toml:"data_dir"`

	// ListenAddr is the webhook server bind address.
	ListenAddr string `toml:"listen_addr"`

	// GithubToken authenticates repository content fetches. Prefer the
	// ZKRAG_GITHUB_TOKEN environment variable over the file.
	GithubToken string `toml:"github_token"`

	// WebhookSecret is the shared secret configured on the GitHub
	// webhook. Prefer the ZKRAG_WEBHOOK_SECRET environment variable.
	// The webhook server is only started when a secret is set.
	WebhookSecret string `toml:"webhook_secret"`

	// Verbose enables debug logging.
	Verbose bool `toml:"verbose"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		OllamaURL:      "http://localhost:11434",
		EmbeddingModel: "nomic-embed-text",
		ChunkSize:      domain.DefaultChunkSize,
		ChunkOverlap:   domain.DefaultChunkOverlap,
		QueueSize:      domain.DefaultQueueSize,
		Extensions:     append([]string(nil), domain.DefaultExtensions...),
		ListenAddr:     ":8080",
	}
}

// DefaultPath returns the default configuration file location,
// ~/.zkrag/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".zkrag", "config.toml"), nil
}

// Load reads the configuration file at path, falling back to defaults
// when the file does not exist, then applies environment overrides. An
// empty path means the default location.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No config file is fine, defaults plus environment apply.
	case err != nil:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	applyEnvOverrides(&cfg)
	return &cfg, nil
}

// applyEnvOverrides replaces config values with ZKRAG_-prefixed
// environment variables where set. Secrets should always come from the
// environment rather than the file.
func applyEnvOverrides(cfg *Config) {
	overrideString(&cfg.WatchDirectory, "WATCH_DIRECTORY")
	overrideString(&cfg.OllamaURL, "OLLAMA_URL")
	overrideString(&cfg.EmbeddingModel, "EMBEDDING_MODEL")
	overrideString(&cfg.DataDir, "DATA_DIR")
	overrideString(&cfg.ListenAddr, "LISTEN_ADDR")
	overrideString(&cfg.GithubToken, "GITHUB_TOKEN")
	overrideString(&cfg.WebhookSecret, "WEBHOOK_SECRET")
	overrideInt(&cfg.ChunkSize, "CHUNK_SIZE")
	overrideInt(&cfg.ChunkOverlap, "CHUNK_OVERLAP")
	overrideInt(&cfg.MaxConcurrentEmbeds, "MAX_CONCURRENT_EMBEDS")
	overrideInt(&cfg.QueueSize, "QUEUE_SIZE")
}

func overrideString(target *string, suffix string) {
	if value, ok := os.LookupEnv(EnvPrefix + suffix); ok {
		*target = value
	}
}

func overrideInt(target *int, suffix string) {
	value, ok := os.LookupEnv(EnvPrefix + suffix)
	if !ok {
		return
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		*target = parsed
	}
}

// PipelineConfig maps the application config onto the pipeline's
// configuration surface.
func (c *Config) PipelineConfig() domain.PipelineConfig {
	return domain.PipelineConfig{
		WatchDirectory:      c.WatchDirectory,
		OllamaURL:           c.OllamaURL,
		EmbeddingModel:      c.EmbeddingModel,
		ChunkSize:           c.ChunkSize,
		ChunkOverlap:        c.ChunkOverlap,
		MaxConcurrentEmbeds: c.MaxConcurrentEmbeds,
		QueueSize:           c.QueueSize,
		Extensions:          c.Extensions,
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	pipelineConfig := c.PipelineConfig()
	if err := pipelineConfig.Validate(); err != nil {
		return err
	}
	if c.WebhookSecret != "" && c.ListenAddr == "" {
		return fmt.Errorf("%w: listen address is required when a webhook secret is set", domain.ErrInvalidInput)
	}
	return nil
}
