// Package service 提供業務邏輯層實作
// 包括圖片攝取流程（下載/上傳 → 存檔 → 分析 → 入庫）與查詢門面
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"bananadb/pkg/idgen"
)

// Storage 圖片檔案儲存
// 所有圖片以產生的儲存鍵為檔名，平舖存放在單一目錄下
type Storage struct {
	dir   string
	idGen *idgen.Generator
}

// NewStorage 建立檔案儲存，目錄不存在時自動建立
func NewStorage(dir string) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	return &Storage{
		dir:   dir,
		idGen: idgen.New(),
	}, nil
}

// Save 產生儲存鍵並寫入圖片位元組，回傳儲存鍵
func (s *Storage) Save(ext string, data []byte) (string, error) {
	key, err := s.idGen.GenerateStorageKey(ext)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(filepath.Join(s.dir, key), data, 0o644); err != nil {
		return "", fmt.Errorf("write image file: %w", err)
	}
	return key, nil
}

// Remove 盡力刪除圖片檔案
// 刪除失敗只記錄不回報，行刪除與檔案刪除之間不保證交易性
func (s *Storage) Remove(ctx context.Context, key string) {
	path := filepath.Join(s.dir, key)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		zerolog.Ctx(ctx).Warn().Err(err).Str("path", path).Msg("Failed to remove image file")
	}
}

// Dir 回傳儲存目錄
func (s *Storage) Dir() string {
	return s.dir
}

// Path 回傳儲存鍵對應的完整路徑
func (s *Storage) Path(key string) string {
	return filepath.Join(s.dir, key)
}
