package githubapi

import (
	"context"
	"fmt"

	"github.com/google/go-github/v75/github"

	"github.com/thep200/github-code-crawler/internal/model"
)

// SearchQuery ghép câu truy vấn với bộ lọc ngôn ngữ.
func SearchQuery(query, language string) string {
	if language == "" {
		return query
	}
	return fmt.Sprintf("%s language:%s", query, language)
}

// SearchRepositories fetches one page of repositories sorted by stars,
// descending. nextPage is 0 when the Link header has no next page.
func (c *Caller) SearchRepositories(ctx context.Context, query string, page, perPage int) ([]model.RepositoryRef, int, error) {
	q := SearchQuery(query, c.Config.Crawl.Language)
	c.Logger.Info(ctx, "Calling GitHub search: q=%q page=%d per_page=%d", q, page, perPage)

	opts := &github.SearchOptions{
		Sort:  "stars",
		Order: "desc",
		ListOptions: github.ListOptions{
			Page:    page,
			PerPage: perPage,
		},
	}

	result, resp, err := c.Client.Search.Repositories(ctx, q, opts)
	if err != nil {
		c.HandleRateLimit(ctx, err)
		return nil, 0, fmt.Errorf("search repositories page %d: %s: %w", page, describeError(err), err)
	}

	c.Logger.Debug(ctx, "Rate limit remaining: %d", resp.Rate.Remaining)
	c.Logger.Info(ctx, "Total repositories found: %d, page: %d, items received: %d",
		result.GetTotal(), page, len(result.Repositories))

	refs := make([]model.RepositoryRef, 0, len(result.Repositories))
	for _, repo := range result.Repositories {
		if repo == nil {
			continue
		}
		refs = append(refs, model.NewRepositoryRef(repo))
	}
	return refs, resp.NextPage, nil
}
