package crawler

import (
	"context"

	"github.com/thep200/github-code-crawler/internal/limiter"
	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/pkg/log"
)

// GitHub Search API chỉ trả về tối đa 1000 kết quả cho mỗi truy vấn
const maxSearchResults = 1000

// RepositorySearcher returns one page of search results and the next page
// number, 0 when there is none.
type RepositorySearcher interface {
	SearchRepositories(ctx context.Context, query string, page, perPage int) ([]model.RepositoryRef, int, error)
}

type Searcher struct {
	Logger  log.Logger
	Source  RepositorySearcher
	Pacer   *limiter.Pacer
	PerPage int
	Metrics *Metrics
}

func NewSearcher(logger log.Logger, source RepositorySearcher, pacer *limiter.Pacer, perPage int) *Searcher {
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	return &Searcher{
		Logger:  logger,
		Source:  source,
		Pacer:   pacer,
		PerPage: perPage,
	}
}

// Search pages through results in order until it has maxRepos repositories,
// the results run out, or a request fails. Whatever was gathered is returned,
// truncated to maxRepos.
func (s *Searcher) Search(ctx context.Context, query string, maxRepos int) []model.RepositoryRef {
	repos := []model.RepositoryRef{}
	if maxRepos <= 0 {
		return repos
	}
	if maxRepos > maxSearchResults {
		s.Logger.Warn(ctx, "Requested %d repositories but GitHub search returns at most %d results per query", maxRepos, maxSearchResults)
	}

	page := 1
	for len(repos) < maxRepos {
		if s.Pacer != nil {
			if err := s.Pacer.Wait(ctx); err != nil {
				s.Logger.Warn(ctx, "Search stopped before page %d: %v", page, err)
				break
			}
		}

		batch, next, err := s.Source.SearchRepositories(ctx, query, page, s.PerPage)
		s.Metrics.RecordSearchPage(ctx)
		if err != nil {
			s.Logger.Error(ctx, "Failed to fetch repositories: %v", err)
			break
		}
		repos = append(repos, batch...)

		if next == 0 {
			break
		}
		page = next
	}

	if len(repos) > maxRepos {
		repos = repos[:maxRepos]
	}
	s.Logger.Info(ctx, "Found %d repositories for %q", len(repos), query)
	return repos
}
