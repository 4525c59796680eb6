// Package repository 提供資料持久化層實作
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // 純 Go SQLite 驅動，不需要 CGO

	"bananadb/internal/bananadb/entity"
	"bananadb/internal/bananadb/repository/model"
)

// Repository 資料庫倉庫
type Repository struct {
	db *gorm.DB
}

// New 建立 Repository 並完成資料表初始化
// 每次啟動都可以安全呼叫：表已存在時是 no-op，
// 舊版資料庫缺少的欄位（例如 category、is_favorited）會在遷移時自動補上
func New(dbPath string) (*Repository, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	// 直接以 database/sql + modernc.org/sqlite 建立連線，再交給 GORM 包裝
	sqlDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db, err := gorm.Open(sqlite.Dialector{
		DriverName: "sqlite",
		DSN:        dbPath,
		Conn:       sqlDB,
	}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("open gorm database: %w", err)
	}

	if err := db.AutoMigrate(&model.Image{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}

	// 舊版資料庫的 category 欄位可能是 NULL 或空字串，補成預設分類
	if err := db.Model(&model.Image{}).
		Where("category IS NULL OR category = ''").
		Update("category", entity.CategoryOther).Error; err != nil {
		return nil, fmt.Errorf("backfill category: %w", err)
	}

	return &Repository{db: db}, nil
}

// DB 回傳 GORM 資料庫實例
func (r *Repository) DB() *gorm.DB {
	return r.db
}

// WithContext 回傳帶上下文的資料庫實例
func (r *Repository) WithContext(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx)
}

// Close 關閉資料庫連線
func (r *Repository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
