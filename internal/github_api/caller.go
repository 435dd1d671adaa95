// Gói githubapi bọc go-github để tìm repository, liệt kê thư mục và tải nội dung file.
// Mọi lỗi HTTP ở đây đều được log và chuyển thành "không có dữ liệu", không trả lỗi lên trên,
// trừ SearchRepositories vì Searcher cần biết khi nào dừng phân trang.

package githubapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-github/v75/github"
	"golang.org/x/oauth2"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/internal/limiter"
	"github.com/thep200/github-code-crawler/pkg/log"
)

type Caller struct {
	Logger log.Logger
	Config *cfg.Config
	Client *github.Client
}

// NewClient builds a go-github client that sends the configured token as a
// bearer credential and passes every request through the rate limiter.
func NewClient(config *cfg.Config, rateLimiter *limiter.RateLimiter) (*github.Client, error) {
	base := &http.Client{Transport: &limiter.Transport{Limiter: rateLimiter}}
	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, base)

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.GithubApi.AccessToken})
	httpClient := oauth2.NewClient(ctx, ts)
	httpClient.Timeout = config.TimeoutDuration()

	client := github.NewClient(httpClient)
	if err := applyBaseURL(client, config.GithubApi.ApiUrl); err != nil {
		return nil, err
	}
	return client, nil
}

func applyBaseURL(c *github.Client, baseURL string) error {
	if baseURL == "" || baseURL == cfg.DefaultApiUrl {
		return nil
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return fmt.Errorf("invalid github api url %q: %w", baseURL, err)
	}
	c.BaseURL = u
	return nil
}

func NewCaller(logger log.Logger, config *cfg.Config, client *github.Client) *Caller {
	return &Caller{
		Logger: logger,
		Config: config,
		Client: client,
	}
}

// HandleRateLimit log thời gian reset khi bị GitHub giới hạn. Không retry.
func (c *Caller) HandleRateLimit(ctx context.Context, err error) bool {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		resetTime := rateErr.Rate.Reset.Time
		waitTime := time.Until(resetTime)
		if waitTime < 0 {
			waitTime = 0
		}
		c.Logger.Warn(ctx, "Rate limit hit! GitHub API rate limit đạt ngưỡng. Cần chờ %v đến %v để tiếp tục",
			waitTime.Round(time.Second), resetTime.Format(time.RFC3339))
		return true
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		c.Logger.Warn(ctx, "Secondary rate limit hit! Retry after %v", abuseErr.GetRetryAfter())
		return true
	}

	return false
}

// describeError renders an upstream failure as "status message" when the
// response is available.
func describeError(err error) string {
	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) && errResp.Response != nil {
		return fmt.Sprintf("%d %s", errResp.Response.StatusCode, errResp.Message)
	}
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) && rateErr.Response != nil {
		return fmt.Sprintf("%d %s", rateErr.Response.StatusCode, rateErr.Message)
	}
	return err.Error()
}
