package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"bananadb/internal/bananadb/entity"
	"bananadb/internal/bananadb/service"
	"bananadb/pkg/ginx"
)

// ImageServiceInterface 定義圖片服務的介面
type ImageServiceInterface interface {
	CollectFromURL(ctx context.Context, req *entity.CollectURLRequest) (*entity.CollectResult, error)
	Upload(ctx context.Context, filename, contentType string, data []byte) (*entity.CollectResult, error)
	ListImages(ctx context.Context, category string) ([]*entity.ImageRecord, error)
	FavoritedImages(ctx context.Context) ([]*entity.ImageRecord, error)
	SearchImages(ctx context.Context, query string) ([]*entity.ImageRecord, error)
	DeleteImage(ctx context.Context, id uint) error
	DeleteBatch(ctx context.Context, ids []uint) int
	ToggleFavorite(ctx context.Context, id uint) (bool, error)
	Categories(ctx context.Context) ([]entity.Category, error)
}

// Image 圖片資源的 HTTP handler
type Image struct {
	imageService ImageServiceInterface
}

// NewImage 建立圖片 handler
func NewImage(imageService *service.ImageService) *Image {
	return &Image{
		imageService: imageService,
	}
}

// RegisterRoutes 註冊路由
func (i *Image) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/collect_url", i.CollectURL)
	router.POST("/upload", i.Upload)
	router.GET("/search", i.Search)
	router.GET("/categories", i.Categories)

	imageRouter := router.Group("/images")
	imageRouter.GET("", i.List)
	imageRouter.GET("/favorited", i.Favorited)
	imageRouter.POST("/delete_batch", i.DeleteBatch)
	imageRouter.DELETE("/:id", i.Delete)
	imageRouter.POST("/:id/favorite", i.ToggleFavorite)
}

// CollectURL 從 URL 收集圖片
func (i *Image) CollectURL(ctx *gin.Context) {
	logger := zerolog.Ctx(ctx)

	var req entity.CollectURLRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ginx.FailWithStatus(ctx, http.StatusBadRequest, fmt.Sprintf("無效的請求: %v", err))
		return
	}

	logger.Info().
		Str("imageURL", req.ImageURL).
		Bool("skipAI", req.SkipAI).
		Msg("CollectURL called")

	result, err := i.imageService.CollectFromURL(ctx, &req)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to collect image from URL")
		ginx.Fail(ctx, err)
		return
	}

	logger.Info().
		Uint("imageID", result.ImageID).
		Str("filename", result.Filename).
		Msg("Image collected successfully")

	ginx.OK(ctx, "圖片收集成功", result)
}

// Upload 上傳本地圖片
func (i *Image) Upload(ctx *gin.Context) {
	logger := zerolog.Ctx(ctx)

	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		ginx.FailWithStatus(ctx, http.StatusBadRequest, fmt.Sprintf("無效的上傳請求: %v", err))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		ginx.FailWithStatus(ctx, http.StatusBadRequest, fmt.Sprintf("無法讀取上傳檔案: %v", err))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		ginx.FailWithStatus(ctx, http.StatusBadRequest, fmt.Sprintf("無法讀取上傳檔案: %v", err))
		return
	}

	result, err := i.imageService.Upload(ctx, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), data)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to upload image")
		ginx.Fail(ctx, err)
		return
	}

	logger.Info().
		Uint("imageID", result.ImageID).
		Str("filename", result.Filename).
		Msg("Image uploaded successfully")

	ginx.OK(ctx, "圖片上傳成功", result)
}

// List 列出圖片，category 可為分類名稱或保留值 favorites
func (i *Image) List(ctx *gin.Context) {
	logger := zerolog.Ctx(ctx)

	category := ctx.Query("category")
	images, err := i.imageService.ListImages(ctx, category)
	if err != nil {
		logger.Error().Err(err).Str("category", category).Msg("Failed to list images")
		ginx.Fail(ctx, err)
		return
	}

	ginx.List(ctx, len(images), images)
}

// Favorited 列出已收藏的圖片
func (i *Image) Favorited(ctx *gin.Context) {
	images, err := i.imageService.FavoritedImages(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to list favorited images")
		ginx.Fail(ctx, err)
		return
	}

	ginx.List(ctx, len(images), images)
}

// Search AI 語意搜尋
func (i *Image) Search(ctx *gin.Context) {
	logger := zerolog.Ctx(ctx)

	query := ctx.Query("q")
	logger.Info().Str("query", query).Msg("Search called")

	images, err := i.imageService.SearchImages(ctx, query)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to search images")
		ginx.Fail(ctx, err)
		return
	}

	ginx.List(ctx, len(images), images)
}

// Delete 刪除單筆圖片
func (i *Image) Delete(ctx *gin.Context) {
	logger := zerolog.Ctx(ctx)

	id, err := parseImageID(ctx)
	if err != nil {
		ginx.FailWithStatus(ctx, http.StatusBadRequest, "無效的圖片 ID")
		return
	}

	if err := i.imageService.DeleteImage(ctx, id); err != nil {
		logger.Error().Err(err).Uint("imageID", id).Msg("Failed to delete image")
		ginx.Fail(ctx, err)
		return
	}

	logger.Info().Uint("imageID", id).Msg("Image deleted successfully")
	ginx.OK(ctx, fmt.Sprintf("成功刪除圖片 ID: %d", id), nil)
}

// DeleteBatch 批次刪除
func (i *Image) DeleteBatch(ctx *gin.Context) {
	logger := zerolog.Ctx(ctx)

	var req entity.DeleteBatchRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ginx.FailWithStatus(ctx, http.StatusBadRequest, fmt.Sprintf("無效的請求: %v", err))
		return
	}

	deleted := i.imageService.DeleteBatch(ctx, req.ImageIDs)

	logger.Info().Int("deleted", deleted).Msg("Batch deletion completed")
	ginx.OK(ctx, fmt.Sprintf("成功刪除 %d 張圖片", deleted), entity.DeleteBatchResult{
		DeletedCount: deleted,
	})
}

// ToggleFavorite 切換收藏狀態
func (i *Image) ToggleFavorite(ctx *gin.Context) {
	logger := zerolog.Ctx(ctx)

	id, err := parseImageID(ctx)
	if err != nil {
		ginx.FailWithStatus(ctx, http.StatusBadRequest, "無效的圖片 ID")
		return
	}

	favorited, err := i.imageService.ToggleFavorite(ctx, id)
	if err != nil {
		logger.Error().Err(err).Uint("imageID", id).Msg("Failed to toggle favorite")
		ginx.Fail(ctx, err)
		return
	}

	message := "圖片已移除收藏"
	if favorited {
		message = "圖片已加入收藏"
	}

	ctx.JSON(http.StatusOK, gin.H{
		"success":      true,
		"is_favorited": favorited,
		"message":      message,
	})
}

// Categories 回傳分類清單與統計
func (i *Image) Categories(ctx *gin.Context) {
	categories, err := i.imageService.Categories(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("Failed to get categories")
		ginx.Fail(ctx, err)
		return
	}

	ginx.OK(ctx, "", categories)
}

func parseImageID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
