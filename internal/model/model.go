package model

import (
	"time"

	"github.com/thep200/github-code-crawler/cfg"
	"github.com/thep200/github-code-crawler/pkg/db"
	"github.com/thep200/github-code-crawler/pkg/log"
)

// Model là phần chung của các bảng gorm, giữ dependency không lưu vào DB.
type Model struct {
	Config    *cfg.Config `gorm:"-" json:"-"`
	Logger    log.Logger  `gorm:"-" json:"-"`
	Mysql     *db.Mysql   `gorm:"-" json:"-"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
