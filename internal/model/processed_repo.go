package model

import (
	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/pkg/db"
	"github.com/thep200/github-code-crawler/pkg/log"
)

// ProcessedRepo là một dòng checkpoint: repository đã xử lý xong, theo thứ tự Seq.
type ProcessedRepo struct {
	Model
	Seq      int    `json:"seq" gorm:"column:seq;primaryKey;autoIncrement:false"`
	StateKey string `json:"state_key" gorm:"column:state_key;type:varchar(191);primaryKey"`
	FullName string `json:"full_name" gorm:"column:full_name;type:varchar(255);not null"`
}

func NewProcessedRepo(config *cfg.Config, logger log.Logger, db *db.Mysql) (*ProcessedRepo, error) {
	return &ProcessedRepo{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}, nil
}

func (r *ProcessedRepo) TableName() string {
	return "processed_repos"
}
