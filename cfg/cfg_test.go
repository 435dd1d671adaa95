package cfg_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thep200/github-code-crawler/cfg"
)

func writeMode(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mode.yaml"), []byte(body), 0o644))
	return dir
}

func TestViperLoader_DefaultsWithEnvToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")

	loader, err := cfg.NewViperLoader(t.TempDir())
	require.NoError(t, err)

	config, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "env-token", config.GithubApi.AccessToken)
	assert.Equal(t, "java", config.Crawl.Query)
	assert.Equal(t, "Java", config.Crawl.Language)
	assert.Equal(t, ".java", config.Crawl.Extension)
	assert.Equal(t, 2000, config.Crawl.MaxRepos)
	assert.Equal(t, 100, config.Crawl.PerPage)
	assert.Equal(t, time.Second, config.SearchDelayDuration())
	assert.Equal(t, "state.json", config.Storage.StateFile)
	assert.Equal(t, "java_code_dataset.json", config.Storage.DatasetFile)
	assert.Equal(t, "file", config.Storage.Backend)
}

func TestViperLoader_ReadsModeFile(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	dir := writeMode(t, `
githubApi:
  accessToken: file-token
crawl:
  query: demo
  maxRepos: 250
storage:
  backend: redis
`)

	loader, err := cfg.NewViperLoader(dir)
	require.NoError(t, err)

	config, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, "file-token", config.GithubApi.AccessToken)
	assert.Equal(t, "demo", config.Crawl.Query)
	assert.Equal(t, 250, config.Crawl.MaxRepos)
	assert.Equal(t, "redis", config.Storage.Backend)
	assert.Equal(t, 100, config.Crawl.PerPage)
}

func TestViperLoader_MissingToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")

	loader, err := cfg.NewViperLoader(t.TempDir())
	require.NoError(t, err)

	_, err = loader.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, cfg.ErrMissingAccessToken)
}

func TestViperLoader_RejectsBadValues(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "tok")
	dir := writeMode(t, `
crawl:
  perPage: 500
`)

	loader, err := cfg.NewViperLoader(dir)
	require.NoError(t, err)

	_, err = loader.Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, cfg.ErrInvalidConfig)
}

func TestValidate(t *testing.T) {
	t.Run("defaults need a token", func(t *testing.T) {
		assert.ErrorIs(t, cfg.Defaults().Validate(), cfg.ErrMissingAccessToken)
	})

	t.Run("mock config is valid", func(t *testing.T) {
		loader, _ := cfg.NewMockLoader()
		config, err := loader.Load()
		require.NoError(t, err)
		assert.NoError(t, config.Validate())
	})

	t.Run("unknown backend", func(t *testing.T) {
		loader, _ := cfg.NewMockLoader()
		config, _ := loader.With(func(c *cfg.Config) { c.Storage.Backend = "s3" }).Load()
		assert.ErrorIs(t, config.Validate(), cfg.ErrInvalidConfig)
	})

	t.Run("kafka topic required when enabled", func(t *testing.T) {
		loader, _ := cfg.NewMockLoader()
		config, _ := loader.With(func(c *cfg.Config) {
			c.Kafka.Enabled = true
			c.Kafka.TopicFile = ""
		}).Load()
		assert.ErrorIs(t, config.Validate(), cfg.ErrInvalidConfig)
	})
}
