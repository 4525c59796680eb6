package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"bananadb/internal/bananadb/entity"
	"bananadb/internal/bananadb/repository/model"
	"bananadb/pkg/apierror"
)

// ErrImageNotFound 查無圖片記錄
var ErrImageNotFound = apierror.NewWithStatus("ImageNotFound", "圖片不存在", http.StatusNotFound)

// ListImages 列出圖片記錄
// category 為空回傳全部；"favorites" 是保留篩選值，回傳已收藏的記錄
func (s *ImageService) ListImages(ctx context.Context, category string) ([]*entity.ImageRecord, error) {
	var (
		images []*model.Image
		err    error
	)
	switch category {
	case "":
		images, err = s.imageRepo.List(ctx)
	case entity.CategoryFavorites:
		images, err = s.imageRepo.ListFavorited(ctx)
	default:
		images, err = s.imageRepo.ListByCategory(ctx, category)
	}
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}
	return imageModelsToEntities(images)
}

// FavoritedImages 列出已收藏的圖片記錄
func (s *ImageService) FavoritedImages(ctx context.Context) ([]*entity.ImageRecord, error) {
	images, err := s.imageRepo.ListFavorited(ctx)
	if err != nil {
		return nil, fmt.Errorf("list favorited images: %w", err)
	}
	return imageModelsToEntities(images)
}

// SearchImages 語意搜尋
// 以全部記錄作為候選交給模型排序，回傳結果保持模型給出的順序
func (s *ImageService) SearchImages(ctx context.Context, query string) ([]*entity.ImageRecord, error) {
	all, err := s.imageRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list images: %w", err)
	}

	records, err := imageModelsToEntities(all)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return []*entity.ImageRecord{}, nil
	}

	matchedIDs := s.analyzer.Search(ctx, query, records)

	byID := make(map[uint]*entity.ImageRecord, len(records))
	for _, record := range records {
		byID[record.ID] = record
	}

	results := make([]*entity.ImageRecord, 0, len(matchedIDs))
	for _, id := range matchedIDs {
		if record, ok := byID[id]; ok {
			results = append(results, record)
		}
	}
	return results, nil
}

// DeleteImage 刪除單筆圖片記錄與對應檔案
// 先刪行再盡力刪檔案，檔案刪除失敗只記錄不回報
func (s *ImageService) DeleteImage(ctx context.Context, id uint) error {
	logger := zerolog.Ctx(ctx)

	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("get image: %w", err)
	}

	if err := s.imageRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrImageNotFound
		}
		return fmt.Errorf("delete image: %w", err)
	}

	s.storage.Remove(ctx, image.Filename)
	logger.Info().Uint("imageID", id).Str("filename", image.Filename).Msg("Image deleted")
	return nil
}

// DeleteBatch 批次刪除
// 每個 id 獨立嘗試，單筆失敗不中斷後續，回傳成功刪除的數量
func (s *ImageService) DeleteBatch(ctx context.Context, ids []uint) int {
	logger := zerolog.Ctx(ctx)

	deleted := 0
	for _, id := range ids {
		if err := s.DeleteImage(ctx, id); err != nil {
			logger.Warn().Err(err).Uint("imageID", id).Msg("Skipping failed deletion")
			continue
		}
		deleted++
	}
	logger.Info().Int("deleted", deleted).Int("requested", len(ids)).Msg("Batch deletion finished")
	return deleted
}

// ToggleFavorite 切換收藏狀態，回傳新狀態
// 讀取與寫入是兩條獨立語句，並發下採 last write wins（單人工具，不做鎖）
func (s *ImageService) ToggleFavorite(ctx context.Context, id uint) (bool, error) {
	image, err := s.imageRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrImageNotFound
		}
		return false, fmt.Errorf("get image: %w", err)
	}

	newState := !image.IsFavorited
	if err := s.imageRepo.SetFavorite(ctx, id, newState); err != nil {
		return false, fmt.Errorf("set favorite: %w", err)
	}
	return newState, nil
}

// Categories 回傳固定分類清單與即時統計
// 收藏數量大於 0 時，在最前面插入 favorites 偽分類
func (s *ImageService) Categories(ctx context.Context) ([]entity.Category, error) {
	stats, err := s.imageRepo.CategoryStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("category stats: %w", err)
	}

	categories := entity.DefaultCategories()
	for i := range categories {
		categories[i].Count = stats[categories[i].ID]
	}

	favoritesCount, err := s.imageRepo.CountFavorited(ctx)
	if err != nil {
		return nil, fmt.Errorf("count favorited: %w", err)
	}
	if favoritesCount > 0 {
		categories = append([]entity.Category{{
			ID:    entity.CategoryFavorites,
			Label: "⭐ 收藏",
			Color: "bg-yellow-500",
			Count: favoritesCount,
		}}, categories...)
	}

	return categories, nil
}
