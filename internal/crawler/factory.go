package crawler

import (
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/thep200/github-code-crawler/cfg"
	githubapi "github.com/thep200/github-code-crawler/internal/github_api"
	"github.com/thep200/github-code-crawler/internal/limiter"
	"github.com/thep200/github-code-crawler/internal/state"
	"github.com/thep200/github-code-crawler/pkg/db"
	"github.com/thep200/github-code-crawler/pkg/log"
)

// Deps are the optional backends; nil fields are simply not wired.
type Deps struct {
	Mysql     *db.Mysql
	Redis     redis.UniversalClient
	Publisher Publisher
}

// FactoryCrawler lắp các thành phần từ config: client GitHub, pacer, store, metrics.
func FactoryCrawler(logger log.Logger, config *cfg.Config, deps Deps) (*Orchestrator, error) {
	rateLimiter := limiter.NewRateLimiter(
		config.GithubApi.RequestsPerSecond,
		time.Duration(config.GithubApi.ThrottleDelay)*time.Millisecond,
	)
	client, err := githubapi.NewClient(config, rateLimiter)
	if err != nil {
		return nil, fmt.Errorf("[ERROR] Failed to create github client: %w", err)
	}
	caller := githubapi.NewCaller(logger, config, client)

	store, err := state.NewStore(config, logger, deps.Mysql, deps.Redis)
	if err != nil {
		return nil, fmt.Errorf("[ERROR] Failed to create state store: %w", err)
	}

	metrics, err := NewMetrics(nil)
	if err != nil {
		return nil, fmt.Errorf("[ERROR] Failed to create metrics: %w", err)
	}

	searcher := NewSearcher(logger, caller, limiter.NewPacer(config.SearchDelayDuration()), config.Crawl.PerPage)
	searcher.Metrics = metrics

	o := NewOrchestrator(logger, config, searcher, NewCollector(logger, caller, config.Crawl.Extension), store)
	o.Metrics = metrics
	o.Publisher = deps.Publisher
	return o, nil
}
