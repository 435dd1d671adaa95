package crawler_test

import (
	"context"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/internal/crawler"
	githubapi "github.com/thep200/github-code-crawler/internal/github_api"
	"github.com/thep200/github-code-crawler/internal/github_api/githubtest"
	"github.com/thep200/github-code-crawler/internal/limiter"
	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/pkg/log"
)

func newCaller(t *testing.T, srv *githubtest.Server) *githubapi.Caller {
	t.Helper()
	config := cfg.Defaults()
	config.GithubApi.AccessToken = "test-token"
	config.GithubApi.ApiUrl = srv.BaseURL()

	client, err := githubapi.NewClient(config, limiter.NewRateLimiter(0, 0))
	require.NoError(t, err)
	return githubapi.NewCaller(log.NewCslLoggerWithWriter(io.Discard), config, client)
}

func TestSearcher_Pagination(t *testing.T) {
	cases := []struct {
		name      string
		available int
		maxRepos  int
		wantRepos int
		wantCalls int32
	}{
		{"stops when results run out", 250, 2000, 250, 3},
		{"truncates to max", 250, 150, 150, 2},
		{"truncates the last page", 300, 250, 250, 3},
		{"exact page boundary", 200, 200, 200, 2},
		{"fewer than one page", 7, 2000, 7, 1},
		{"no results", 0, 2000, 0, 1},
		{"zero max makes no request", 250, 0, 0, 0},
		{"negative max makes no request", 250, -1, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := githubtest.NewServer()
			defer srv.Close()
			srv.AddRepos("acme", tc.available)

			s := crawler.NewSearcher(discard(), newCaller(t, srv), limiter.NewPacer(0), 100)
			repos := s.Search(context.Background(), "java", tc.maxRepos)

			require.NotNil(t, repos)
			assert.Len(t, repos, tc.wantRepos)
			assert.Equal(t, tc.wantCalls, srv.SearchCalls.Load())
			for i, r := range repos {
				assert.Equal(t, fmt.Sprintf("acme/repo-%04d", i+1), r.FullName)
			}
		})
	}
}

func TestSearcher_FailureReturnsPartialResult(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.AddRepos("acme", 250)
	srv.FailSearchPage(2)

	s := crawler.NewSearcher(discard(), newCaller(t, srv), limiter.NewPacer(0), 100)
	repos := s.Search(context.Background(), "java", 2000)

	assert.Len(t, repos, 100)
	assert.Equal(t, int32(2), srv.SearchCalls.Load())
}

func TestSearcher_FirstPageFailureIsEmpty(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.AddRepos("acme", 5)
	srv.FailSearchPage(1)

	s := crawler.NewSearcher(discard(), newCaller(t, srv), nil, 100)
	assert.Empty(t, s.Search(context.Background(), "java", 10))
}

func TestSearcher_CancelledWhileWaiting(t *testing.T) {
	srv := githubtest.NewServer()
	defer srv.Close()
	srv.AddRepos("acme", 250)

	ctx, cancel := context.WithCancel(context.Background())
	s := crawler.NewSearcher(discard(), &cancelAfterFirst{RepositorySearcher: newCaller(t, srv), cancel: cancel},
		limiter.NewPacer(time.Hour), 100)

	repos := s.Search(ctx, "java", 2000)
	assert.Len(t, repos, 100)
	assert.Equal(t, int32(1), srv.SearchCalls.Load())
}

type cancelAfterFirst struct {
	crawler.RepositorySearcher
	cancel context.CancelFunc
}

func (c *cancelAfterFirst) SearchRepositories(ctx context.Context, query string, page, perPage int) ([]model.RepositoryRef, int, error) {
	defer c.cancel()
	return c.RepositorySearcher.SearchRepositories(ctx, query, page, perPage)
}

func TestNewSearcher_ClampsPerPage(t *testing.T) {
	assert.Equal(t, 100, crawler.NewSearcher(discard(), nil, nil, 500).PerPage)
	assert.Equal(t, 100, crawler.NewSearcher(discard(), nil, nil, 0).PerPage)
	assert.Equal(t, 30, crawler.NewSearcher(discard(), nil, nil, 30).PerPage)
}

func TestMetrics_NoopMeter(t *testing.T) {
	m, err := crawler.NewMetrics(noop.NewMeterProvider().Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordSearchPage(ctx)
	m.RecordSkip(ctx)
	m.RecordRepository(ctx, 3, 1024, time.Second)

	var nilMetrics *crawler.Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordSkip(ctx) })
}
