package githubapi_test

import (
	"context"
	"encoding/base64"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thep200/github-code-crawler/cfg"
	githubapi "github.com/thep200/github-code-crawler/internal/github_api"
	"github.com/thep200/github-code-crawler/internal/github_api/githubtest"
	"github.com/thep200/github-code-crawler/internal/limiter"
	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/pkg/log"
)

func newCaller(t *testing.T, srv *githubtest.Server) *githubapi.Caller {
	t.Helper()

	loader, err := cfg.NewMockLoader()
	require.NoError(t, err)
	config, err := loader.With(func(c *cfg.Config) {
		c.GithubApi.ApiUrl = srv.BaseURL()
	}).Load()
	require.NoError(t, err)

	client, err := githubapi.NewClient(config, limiter.NewRateLimiter(0, 0))
	require.NoError(t, err)
	return githubapi.NewCaller(log.NewCslLoggerWithWriter(io.Discard), config, client)
}

func TestDecodeContent(t *testing.T) {
	text := "class A {\n    // List<String> & más\n}\n"
	encoded := base64.StdEncoding.EncodeToString([]byte(text))

	got, err := githubapi.DecodeContent("base64", encoded)
	require.NoError(t, err)
	assert.Equal(t, text, got)

	t.Run("wrapped payload", func(t *testing.T) {
		wrapped := encoded[:10] + "\n" + encoded[10:]
		got, err := githubapi.DecodeContent("base64", wrapped)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	})

	t.Run("empty encoding is base64", func(t *testing.T) {
		got, err := githubapi.DecodeContent("", encoded)
		require.NoError(t, err)
		assert.Equal(t, text, got)
	})

	t.Run("empty content", func(t *testing.T) {
		got, err := githubapi.DecodeContent("base64", "")
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unsupported encoding", func(t *testing.T) {
		_, err := githubapi.DecodeContent("none", "abc")
		assert.ErrorIs(t, err, githubapi.ErrUnsupportedEncoding)
	})

	t.Run("not utf-8", func(t *testing.T) {
		_, err := githubapi.DecodeContent("base64", base64.StdEncoding.EncodeToString([]byte{0xff, 0xfe}))
		assert.ErrorIs(t, err, githubapi.ErrNotUTF8)
	})
}

func TestSearchQuery(t *testing.T) {
	assert.Equal(t, "java language:Java", githubapi.SearchQuery("java", "Java"))
	assert.Equal(t, "java", githubapi.SearchQuery("java", ""))
}

func TestCaller_SearchRepositories(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.AddRepos("acme", 3)

	c := newCaller(t, srv)
	ctx := context.Background()

	refs, next, err := c.SearchRepositories(ctx, "java", 1, 2)
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, "acme/repo-0001", refs[0].FullName)
	assert.Equal(t, "acme", refs[0].Owner)
	assert.Equal(t, "repo-0001", refs[0].Name)
	assert.NotNil(t, refs[0].Source)
	assert.Equal(t, 2, next)

	refs, next, err = c.SearchRepositories(ctx, "java", 2, 2)
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, 0, next)

	assert.Equal(t, "Bearer mock-token", srv.LastAuth.Load())
}

func TestCaller_SearchRepositoriesFailure(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.AddRepos("acme", 3)
	srv.FailSearchPage(1)

	refs, next, err := newCaller(t, srv).SearchRepositories(context.Background(), "java", 1, 100)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
	assert.Nil(t, refs)
	assert.Zero(t, next)
}

func TestCaller_ListDirectory(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.AddFile("acme/app", "Main.java", "class Main {}")
	srv.AddFile("acme/app", "README.md", "# app")
	srv.AddFile("acme/app", "src/Util.java", "class Util {}")

	c := newCaller(t, srv)
	ctx := context.Background()

	entries := c.ListDirectory(ctx, "acme/app", "")
	require.Len(t, entries, 3)
	assert.Equal(t, "Main.java", entries[0].Name)
	assert.True(t, entries[0].IsFile())
	assert.NotEmpty(t, entries[0].URL)
	assert.Equal(t, "src", entries[2].Name)
	assert.True(t, entries[2].IsDir())

	t.Run("single file path", func(t *testing.T) {
		entries := c.ListDirectory(ctx, "acme/app", "src/Util.java")
		require.Len(t, entries, 1)
		assert.Equal(t, model.EntryTypeFile, entries[0].Type)
		assert.Equal(t, "src/Util.java", entries[0].Path)
	})

	t.Run("failure yields empty", func(t *testing.T) {
		srv.FailContents("acme/app", "src", http.StatusForbidden)
		entries := c.ListDirectory(ctx, "acme/app", "src")
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})

	t.Run("unknown repository", func(t *testing.T) {
		assert.Empty(t, c.ListDirectory(ctx, "acme/missing", ""))
	})

	t.Run("malformed name", func(t *testing.T) {
		before := srv.ContentsCalls.Load()
		assert.Empty(t, c.ListDirectory(ctx, "no-slash", ""))
		assert.Equal(t, before, srv.ContentsCalls.Load())
	})
}

func TestCaller_FetchContent(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	text := "package a;\n\nclass A { String s = \"<&>\"; }\n"
	srv.AddFile("acme/app", "A.java", text)
	srv.AddFile("acme/app", "Empty.java", "")
	srv.AddFile("acme/app", "Big.java", "raw")
	srv.SetEncoding("acme/app", "Big.java", "none")

	c := newCaller(t, srv)
	ctx := context.Background()

	urls := make(map[string]string)
	for _, e := range c.ListDirectory(ctx, "acme/app", "") {
		urls[e.Name] = e.URL
	}

	assert.Equal(t, text, c.FetchContent(ctx, urls["A.java"]))
	assert.Empty(t, c.FetchContent(ctx, urls["Empty.java"]))
	assert.Empty(t, c.FetchContent(ctx, urls["Big.java"]))
	assert.Empty(t, c.FetchContent(ctx, ""))

	srv.FailContents("acme/app", "A.java", http.StatusNotFound)
	assert.Empty(t, c.FetchContent(ctx, urls["A.java"]))
}
