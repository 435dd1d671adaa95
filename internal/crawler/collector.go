package crawler

import (
	"context"
	"strings"

	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/pkg/log"
)

type ContentSource interface {
	ListDirectory(ctx context.Context, fullName, path string) []model.DirEntry
	FetchContent(ctx context.Context, locator string) string
}

// Collector gathers matching files from the root of a repository and from
// its immediate subdirectories. Deeper levels are never visited.
type Collector struct {
	Logger    log.Logger
	Source    ContentSource
	Extension string
}

func NewCollector(logger log.Logger, source ContentSource, extension string) *Collector {
	return &Collector{
		Logger:    logger,
		Source:    source,
		Extension: extension,
	}
}

func (c *Collector) Collect(ctx context.Context, repo model.RepositoryRef) []model.FileRecord {
	files := []model.FileRecord{}

	for _, entry := range c.Source.ListDirectory(ctx, repo.FullName, "") {
		switch {
		case c.matches(entry):
			files = append(files, c.fetch(ctx, entry))
		case entry.IsDir():
			// Chỉ đi sâu 1 cấp
			for _, sub := range c.Source.ListDirectory(ctx, repo.FullName, entry.Path) {
				if c.matches(sub) {
					files = append(files, c.fetch(ctx, sub))
				}
			}
		}
	}

	return files
}

func (c *Collector) matches(entry model.DirEntry) bool {
	return entry.IsFile() && strings.HasSuffix(entry.Name, c.Extension)
}

func (c *Collector) fetch(ctx context.Context, entry model.DirEntry) model.FileRecord {
	return model.FileRecord{
		Name:    entry.Name,
		Path:    entry.Path,
		Content: c.Source.FetchContent(ctx, entry.URL),
	}
}
