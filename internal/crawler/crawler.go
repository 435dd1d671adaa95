// Crawler thu thập file mã nguồn từ các repository GitHub nhiều sao nhất.
// Mỗi repository xử lý xong được ghi checkpoint ngay, nên khi chạy lại
// các repository đã có trong state sẽ được bỏ qua mà không gọi API.

package crawler

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/internal/state"
	"github.com/thep200/github-code-crawler/pkg/log"
)

type Crawler interface {
	Crawl(ctx context.Context) bool
}

type Orchestrator struct {
	Logger    log.Logger
	Config    *cfg.Config
	Searcher  *Searcher
	Collector *Collector
	Store     state.Store
	Publisher Publisher
	Metrics   *Metrics
}

func NewOrchestrator(logger log.Logger, config *cfg.Config, searcher *Searcher, collector *Collector, store state.Store) *Orchestrator {
	return &Orchestrator{
		Logger:    logger,
		Config:    config,
		Searcher:  searcher,
		Collector: collector,
		Store:     store,
	}
}

// Crawl runs the crawl and reports success, logging the failure if any.
func (o *Orchestrator) Crawl(ctx context.Context) bool {
	if _, err := o.Run(ctx); err != nil {
		o.Logger.Error(ctx, "Crawl failed: %v", err)
		return false
	}
	return true
}

// Run searches once, then collects every repository not yet in the saved
// state, saving the state after each one. A save failure stops the run. If ctx
// is cancelled the repository in progress is dropped and the last saved state
// is returned along with the context error.
func (o *Orchestrator) Run(ctx context.Context) (*model.CrawlState, error) {
	startTime := time.Now()
	o.Logger.Info(ctx, "Bắt đầu crawl lúc %s", startTime.Format(time.RFC3339))

	repos := o.Searcher.Search(ctx, o.Config.Crawl.Query, o.Config.Crawl.MaxRepos)

	st, err := o.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	o.Logger.Info(ctx, "Loaded state: %d processed repositories, %d files", st.RepoCount(), st.FileCount())

	processed, skipped := 0, 0
	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return st, fmt.Errorf("crawl interrupted: %w", err)
		}

		if st.IsProcessed(repo.FullName) {
			o.Logger.Info(ctx, "Skipping already processed repository: %s", repo.FullName)
			o.Metrics.RecordSkip(ctx)
			skipped++
			continue
		}

		o.Logger.Info(ctx, "Processing repository: %s", repo.FullName)
		repoStart := time.Now()
		files := o.Collector.Collect(ctx, repo)

		// Bị huỷ giữa chừng: dữ liệu repo này không đầy đủ, không ghi checkpoint
		if err := ctx.Err(); err != nil {
			return st, fmt.Errorf("crawl interrupted during %s: %w", repo.FullName, err)
		}

		st.MarkProcessed(repo.FullName, files)
		if err := o.Store.Save(ctx, st); err != nil {
			return st, fmt.Errorf("save state after %s: %w", repo.FullName, err)
		}
		processed++
		o.Logger.Info(ctx, "Updated dataset with %d new files from %s", len(files), repo.FullName)
		o.Metrics.RecordRepository(ctx, len(files), contentSize(files), time.Since(repoStart))

		if o.Publisher != nil && len(files) > 0 {
			if err := o.Publisher.PublishFiles(ctx, repo.FullName, files); err != nil {
				o.Logger.Error(ctx, "Failed to publish %d files from %s: %v", len(files), repo.FullName, err)
			}
		}
	}

	endTime := time.Now()
	o.Logger.Info(ctx, "==== KẾT QUẢ CRAWL ====")
	o.Logger.Info(ctx, "Tổng thời gian thực hiện: %v", endTime.Sub(startTime).Round(time.Millisecond))
	o.Logger.Info(ctx, "Repository mới: %d, bỏ qua (đã xử lý): %d", processed, skipped)
	o.Logger.Info(ctx, "Saved %s files (%s) to %s storage",
		humanize.Comma(int64(st.FileCount())), humanize.Bytes(st.ContentBytes()), o.Config.Storage.Backend)

	return st, nil
}

func contentSize(files []model.FileRecord) int {
	n := 0
	for _, f := range files {
		n += len(f.Content)
	}
	return n
}
