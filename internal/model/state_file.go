package model

import (
	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/pkg/db"
	"github.com/thep200/github-code-crawler/pkg/log"
)

// StateFile là một FileRecord trong checkpoint MySQL, Seq là vị trí trong all_java_files.
type StateFile struct {
	Model
	Seq      int    `json:"seq" gorm:"column:seq;primaryKey;autoIncrement:false"`
	StateKey string `json:"state_key" gorm:"column:state_key;type:varchar(191);primaryKey"`
	Name     string `json:"name" gorm:"column:name;type:varchar(255);not null"`
	Path     string `json:"path" gorm:"column:path;type:text;not null"`
	Content  string `json:"content" gorm:"column:content;type:longtext"`
}

func NewStateFile(config *cfg.Config, logger log.Logger, db *db.Mysql) (*StateFile, error) {
	return &StateFile{
		Model: Model{
			Config: config,
			Logger: logger,
			Mysql:  db,
		},
	}, nil
}

func (f *StateFile) TableName() string {
	return "state_files"
}

func (f *StateFile) Record() FileRecord {
	return FileRecord{Name: f.Name, Path: f.Path, Content: f.Content}
}
