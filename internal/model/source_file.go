package model

import (
	"context"
	"fmt"
	"time"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/pkg/db"
	"github.com/thep200/github-code-crawler/pkg/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SourceFile là bảng dataset do consumer Kafka ghi vào, khóa theo (repo, path).
type SourceFile struct {
	Model
	ID      uint   `json:"id" gorm:"primaryKey"`
	Repo    string `json:"repo" gorm:"column:repo;type:varchar(255);not null;uniqueIndex:idx_repo_path"`
	Path    string `json:"path" gorm:"column:path;type:varchar(512);not null;uniqueIndex:idx_repo_path"`
	Name    string `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Content string `json:"content" gorm:"column:content;type:longtext"`
}

func NewSourceFile(config *cfg.Config, logger log.Logger, db *db.Mysql) (*SourceFile, error) {
	return &SourceFile{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}, nil
}

func (f *SourceFile) TableName() string {
	return "source_files"
}

// CreateBatch upserts messages; a re-delivered message overwrites the content.
func (f *SourceFile) CreateBatch(messages []FileMessage) error {
	ctx := context.Background()
	db, err := f.Mysql.Db()
	if err != nil {
		return fmt.Errorf("failed to get database connection: %w", err)
	}

	files := make([]SourceFile, 0, len(messages))
	now := time.Now()
	for _, msg := range messages {
		files = append(files, SourceFile{
			Repo:    TruncateString(msg.Repo, 255),
			Path:    TruncateString(msg.Path, 512),
			Name:    TruncateString(msg.Name, 255),
			Content: msg.Content,
			Model: Model{
				CreatedAt: now,
				UpdatedAt: now,
			},
		})
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "repo"}, {Name: "path"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "content", "updated_at"}),
		}).CreateInBatches(files, 100)

		if result.Error != nil {
			return fmt.Errorf("failed to batch create source files: %w", result.Error)
		}
		return nil
	})
	if err != nil {
		return err
	}

	f.Logger.Info(ctx, "Saved batch of %d source files", len(files))
	return nil
}
