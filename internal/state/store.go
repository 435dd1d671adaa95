// Package state persists the crawl checkpoint. Every backend stores the whole
// CrawlState under one identifier fixed when the store is built.
package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/pkg/db"
	"github.com/thep200/github-code-crawler/pkg/log"
)

var ErrUnknownBackend = errors.New("unknown storage backend")

const (
	BackendFile  = "file"
	BackendMysql = "mysql"
	BackendRedis = "redis"
)

type Store interface {
	// Load returns the saved state, or an empty one when nothing was saved yet.
	Load(ctx context.Context) (*model.CrawlState, error)
	// Save replaces the saved state with s.
	Save(ctx context.Context, s *model.CrawlState) error
}

// NewStore chọn backend theo storage.backend trong config.
func NewStore(config *cfg.Config, logger log.Logger, mysql *db.Mysql, rdb redis.UniversalClient) (Store, error) {
	switch config.Storage.Backend {
	case "", BackendFile:
		return NewFileStore(config.Storage.StateFile, config.Storage.DatasetFile), nil
	case BackendMysql:
		if mysql == nil {
			return nil, fmt.Errorf("mysql backend selected but no connection configured")
		}
		return NewMysqlStore(config, logger, mysql, config.Storage.Key)
	case BackendRedis:
		if rdb == nil {
			return nil, fmt.Errorf("redis backend selected but no client configured")
		}
		return NewRedisStore(rdb, config.Redis.Prefix, config.Storage.Key), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, config.Storage.Backend)
	}
}

// encodeJSON indents with four spaces and keeps <, > and & as-is.
func encodeJSON(v any, indent bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if indent {
		enc.SetIndent("", "    ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
