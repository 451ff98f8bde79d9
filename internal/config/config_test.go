package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simplyjuanc/zk-rag-webapp/internal/core/domain"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

		require.NoError(t, err)
		assert.Equal(t, "http://localhost:11434", cfg.OllamaURL)
		assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
		assert.Equal(t, domain.DefaultChunkSize, cfg.ChunkSize)
		assert.Equal(t, domain.DefaultChunkOverlap, cfg.ChunkOverlap)
		assert.Equal(t, []string{".md", ".markdown"}, cfg.Extensions)
		assert.Equal(t, ":8080", cfg.ListenAddr)
	})

	t.Run("file values replace defaults", func(t *testing.T) {
		path := writeConfig(t, `
watch_directory = "/srv/notes"
ollama_url = "http://ollama:11434"
chunk_size = 1500
chunk_overlap = 300
extensions = [".md"]
verbose = true
`)

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "/srv/notes", cfg.WatchDirectory)
		assert.Equal(t, "http://ollama:11434", cfg.OllamaURL)
		assert.Equal(t, 1500, cfg.ChunkSize)
		assert.Equal(t, 300, cfg.ChunkOverlap)
		assert.Equal(t, []string{".md"}, cfg.Extensions)
		assert.True(t, cfg.Verbose)
		// Unset fields keep their defaults.
		assert.Equal(t, "nomic-embed-text", cfg.EmbeddingModel)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := writeConfig(t, `
watch_directory = "/srv/notes"
chunk_size = 1500
github_token = "file-token"
`)
		t.Setenv("ZKRAG_WATCH_DIRECTORY", "/srv/other")
		t.Setenv("ZKRAG_CHUNK_SIZE", "2000")
		t.Setenv("ZKRAG_GITHUB_TOKEN", "env-token")
		t.Setenv("ZKRAG_WEBHOOK_SECRET", "env-secret")

		cfg, err := Load(path)

		require.NoError(t, err)
		assert.Equal(t, "/srv/other", cfg.WatchDirectory)
		assert.Equal(t, 2000, cfg.ChunkSize)
		assert.Equal(t, "env-token", cfg.GithubToken)
		assert.Equal(t, "env-secret", cfg.WebhookSecret)
	})

	t.Run("unparseable integer override is ignored", func(t *testing.T) {
		t.Setenv("ZKRAG_CHUNK_SIZE", "not-a-number")

		cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

		require.NoError(t, err)
		assert.Equal(t, domain.DefaultChunkSize, cfg.ChunkSize)
	})

	t.Run("malformed file fails", func(t *testing.T) {
		path := writeConfig(t, "watch_directory = [broken")

		_, err := Load(path)
		assert.Error(t, err)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.WatchDirectory = "/srv/notes"
		return &cfg
	}

	t.Run("default config with a watch directory is valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("missing watch directory fails", func(t *testing.T) {
		cfg := Default()
		assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidInput)
	})

	t.Run("overlap must be smaller than chunk size", func(t *testing.T) {
		cfg := valid()
		cfg.ChunkOverlap = cfg.ChunkSize
		assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidInput)
	})

	t.Run("webhook secret requires a listen address", func(t *testing.T) {
		cfg := valid()
		cfg.WebhookSecret = "secret"
		cfg.ListenAddr = ""
		assert.ErrorIs(t, cfg.Validate(), domain.ErrInvalidInput)
	})
}

func TestConfig_PipelineConfig(t *testing.T) {
	cfg := Default()
	cfg.WatchDirectory = "/srv/notes"
	cfg.MaxConcurrentEmbeds = 4

	pc := cfg.PipelineConfig()
	assert.Equal(t, "/srv/notes", pc.WatchDirectory)
	assert.Equal(t, cfg.ChunkSize, pc.ChunkSize)
	assert.Equal(t, cfg.ChunkOverlap, pc.ChunkOverlap)
	assert.Equal(t, 4, pc.MaxConcurrentEmbeds)
	assert.Equal(t, cfg.Extensions, pc.Extensions)
}
