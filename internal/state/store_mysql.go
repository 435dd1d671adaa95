package state

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/internal/model"
	"github.com/thep200/github-code-crawler/pkg/db"
	"github.com/thep200/github-code-crawler/pkg/log"
)

// MysqlStore keeps the checkpoint as two ordered tables keyed by (state_key, seq).
// State only ever grows, so Save inserts the rows past what is already stored.
type MysqlStore struct {
	Logger log.Logger
	mysql  *db.Mysql
	key    string
}

func NewMysqlStore(config *cfg.Config, logger log.Logger, mysql *db.Mysql, key string) (*MysqlStore, error) {
	repoMd, _ := model.NewProcessedRepo(config, logger, mysql)
	fileMd, _ := model.NewStateFile(config, logger, mysql)
	if err := mysql.Migrate(repoMd, fileMd); err != nil {
		return nil, fmt.Errorf("migrate state tables: %w", err)
	}
	return &MysqlStore{
		Logger: logger,
		mysql:  mysql,
		key:    key,
	}, nil
}

func (s *MysqlStore) Load(ctx context.Context) (*model.CrawlState, error) {
	gdb, err := s.mysql.Db()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	gdb = gdb.WithContext(ctx)

	var repos []model.ProcessedRepo
	if err := gdb.Where("state_key = ?", s.key).Order("seq").Find(&repos).Error; err != nil {
		return nil, fmt.Errorf("load processed repos: %w", err)
	}
	var files []model.StateFile
	if err := gdb.Where("state_key = ?", s.key).Order("seq").Find(&files).Error; err != nil {
		return nil, fmt.Errorf("load state files: %w", err)
	}

	names := make([]string, 0, len(repos))
	for _, r := range repos {
		names = append(names, r.FullName)
	}
	records := make([]model.FileRecord, 0, len(files))
	for _, f := range files {
		records = append(records, f.Record())
	}
	return model.RestoreCrawlState(names, records)
}

func (s *MysqlStore) Save(ctx context.Context, state *model.CrawlState) error {
	gdb, err := s.mysql.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	repos := state.ProcessedRepos()
	files := state.Files()

	return gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var storedRepos, storedFiles int64
		if err := tx.Model(&model.ProcessedRepo{}).Where("state_key = ?", s.key).Count(&storedRepos).Error; err != nil {
			return fmt.Errorf("count processed repos: %w", err)
		}
		if err := tx.Model(&model.StateFile{}).Where("state_key = ?", s.key).Count(&storedFiles).Error; err != nil {
			return fmt.Errorf("count state files: %w", err)
		}
		lastStored := ""
		if storedRepos > 0 {
			var last model.ProcessedRepo
			if err := tx.Select("full_name").
				Where("state_key = ? AND seq = ?", s.key, storedRepos-1).
				Take(&last).Error; err != nil {
				return fmt.Errorf("read last processed repo: %w", err)
			}
			lastStored = last.FullName
		}
		if err := checkStoredPrefix(s.key, repos, len(files), int(storedRepos), int(storedFiles), lastStored); err != nil {
			return err
		}

		newFiles := make([]model.StateFile, 0, len(files)-int(storedFiles))
		for i := int(storedFiles); i < len(files); i++ {
			newFiles = append(newFiles, model.StateFile{
				Seq:      i,
				StateKey: s.key,
				Name:     files[i].Name,
				Path:     files[i].Path,
				Content:  files[i].Content,
			})
		}
		if len(newFiles) > 0 {
			if err := tx.CreateInBatches(newFiles, 100).Error; err != nil {
				return fmt.Errorf("insert state files: %w", err)
			}
		}

		newRepos := make([]model.ProcessedRepo, 0, len(repos)-int(storedRepos))
		for i := int(storedRepos); i < len(repos); i++ {
			newRepos = append(newRepos, model.ProcessedRepo{
				Seq:      i,
				StateKey: s.key,
				FullName: repos[i],
			})
		}
		if len(newRepos) > 0 {
			if err := tx.CreateInBatches(newRepos, 100).Error; err != nil {
				return fmt.Errorf("insert processed repos: %w", err)
			}
		}
		return nil
	})
}

// checkStoredPrefix rejects a state that does not extend what is already stored:
// fewer rows than the tables hold, or a different repository at the last stored seq.
func checkStoredPrefix(key string, repos []string, fileCount, storedRepos, storedFiles int, lastStored string) error {
	// Bảng có nhiều dòng hơn state hiện tại: state bị nạp từ nguồn khác
	if storedRepos > len(repos) || storedFiles > fileCount {
		return fmt.Errorf("stored state %q is ahead of the state being saved (%d/%d repos, %d/%d files)",
			key, storedRepos, len(repos), storedFiles, fileCount)
	}
	if storedRepos > 0 && repos[storedRepos-1] != lastStored {
		return fmt.Errorf("stored state %q diverges at repo %d: stored %q, saving %q",
			key, storedRepos-1, lastStored, repos[storedRepos-1])
	}
	return nil
}
