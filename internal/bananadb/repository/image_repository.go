package repository

import (
	"context"

	"gorm.io/gorm"

	"bananadb/internal/bananadb/repository/model"
)

// ImageRepository 圖片記錄倉庫介面
type ImageRepository interface {
	Create(ctx context.Context, image *model.Image) error
	GetByID(ctx context.Context, id uint) (*model.Image, error)
	List(ctx context.Context) ([]*model.Image, error)
	ListByCategory(ctx context.Context, category string) ([]*model.Image, error)
	ListFavorited(ctx context.Context) ([]*model.Image, error)
	CountFavorited(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id uint) error
	SetFavorite(ctx context.Context, id uint, favorited bool) error
	CategoryStats(ctx context.Context) (map[string]int64, error)
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository 建立圖片記錄倉庫
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

// 列表一律依建立時間倒序，同一秒內的記錄以 id 倒序作為次要排序
const listOrder = "created_at DESC, id DESC"

// Create 新增圖片記錄，id 由資料庫產生並寫回 image.ID
func (r *imageRepository) Create(ctx context.Context, image *model.Image) error {
	return r.db.WithContext(ctx).Create(image).Error
}

// GetByID 依 ID 取得圖片記錄，不存在時回傳 gorm.ErrRecordNotFound
func (r *imageRepository) GetByID(ctx context.Context, id uint) (*model.Image, error) {
	var image model.Image
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

// List 列出全部圖片記錄
func (r *imageRepository) List(ctx context.Context) ([]*model.Image, error) {
	var images []*model.Image
	if err := r.db.WithContext(ctx).Order(listOrder).Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// ListByCategory 依分類列出圖片記錄
func (r *imageRepository) ListByCategory(ctx context.Context, category string) ([]*model.Image, error) {
	var images []*model.Image
	if err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order(listOrder).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// ListFavorited 列出已收藏的圖片記錄
func (r *imageRepository) ListFavorited(ctx context.Context) ([]*model.Image, error) {
	var images []*model.Image
	if err := r.db.WithContext(ctx).
		Where("is_favorited = ?", true).
		Order(listOrder).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// CountFavorited 回傳已收藏的圖片數量
func (r *imageRepository) CountFavorited(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Image{}).
		Where("is_favorited = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Delete 硬刪除圖片記錄，不存在時回傳 gorm.ErrRecordNotFound
func (r *imageRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Image{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// SetFavorite 更新收藏狀態
func (r *imageRepository) SetFavorite(ctx context.Context, id uint, favorited bool) error {
	result := r.db.WithContext(ctx).Model(&model.Image{}).
		Where("id = ?", id).
		Update("is_favorited", favorited)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CategoryStats 回傳各分類的圖片數量統計
func (r *imageRepository) CategoryStats(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Category string
		Count    int64
	}
	var rows []row
	if err := r.db.WithContext(ctx).Model(&model.Image{}).
		Select("category, COUNT(*) as count").
		Group("category").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	stats := make(map[string]int64, len(rows))
	for _, r := range rows {
		stats[r.Category] = r.Count
	}
	return stats, nil
}
