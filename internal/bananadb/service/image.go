package service

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"bananadb/internal/bananadb/ai"
	"bananadb/internal/bananadb/entity"
	"bananadb/internal/bananadb/repository"
	"bananadb/pkg/apierror"
)

// 下載圖片時偽裝成瀏覽器，帶上來源頁面作為 Referer 以通過基本的防盜連檢查
const (
	fetchUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	fetchAccept    = "image/avif,image/webp,image/apng,image/svg+xml,image/*,*/*;q=0.8"

	fetchTimeout = 30 * time.Second

	defaultExtension = "jpg"
)

// allowedExtensions 允許的圖片副檔名，URL / 檔名以外的副檔名一律退回 jpg
var allowedExtensions = map[string]bool{
	"jpg":  true,
	"jpeg": true,
	"png":  true,
	"gif":  true,
	"webp": true,
}

// Analyzer 分析配接器介面，讓攝取流程可以用假實作測試
type Analyzer interface {
	AnalyzeImage(ctx context.Context, image []byte, ext string, contextText string) *entity.Analysis
	Translate(ctx context.Context, text string) ai.Translation
	ExtractTags(ctx context.Context, text string) ([]string, string)
	Search(ctx context.Context, query string, candidates []*entity.ImageRecord) []uint
}

var _ Analyzer = (*ai.Engine)(nil)

// ImageService 圖片服務，負責攝取流程與查詢門面
type ImageService struct {
	imageRepo  repository.ImageRepository
	storage    *Storage
	analyzer   Analyzer
	httpClient *http.Client
}

// NewImageService 建立圖片服務
func NewImageService(repo *repository.Repository, storage *Storage, analyzer Analyzer) *ImageService {
	return &ImageService{
		imageRepo: repository.NewImageRepository(repo.DB()),
		storage:   storage,
		analyzer:  analyzer,
		httpClient: &http.Client{
			Timeout: fetchTimeout,
		},
	}
}

// CollectFromURL 從遠端 URL 收集圖片
// 下載失敗在任何檔案或資料列產生之前回報，不留部分狀態；
// 檔案落地後的分析失敗由配接器吸收，不會使整體攝取失敗
func (s *ImageService) CollectFromURL(ctx context.Context, req *entity.CollectURLRequest) (*entity.CollectResult, error) {
	logger := zerolog.Ctx(ctx)
	logger.Info().Str("imageURL", req.ImageURL).Msg("Downloading image")

	data, err := s.fetchImage(ctx, req.ImageURL, req.PageURL)
	if err != nil {
		logger.Error().Err(err).Str("imageURL", req.ImageURL).Msg("Failed to download image")
		return nil, err
	}

	ext := extensionFromURL(req.ImageURL)
	filename, err := s.storage.Save(ext, data)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}
	logger.Info().Str("filename", filename).Msg("Image saved")

	var analysis *entity.Analysis
	if req.SkipAI && req.ContextText != "" {
		logger.Info().Int("promptLength", len(req.ContextText)).Msg("Skipping vision analysis, using supplied prompt")
		analysis = s.bypassAnalysis(ctx, req.ContextText)
	} else {
		analysis = s.analyzer.AnalyzeImage(ctx, data, ext, req.ContextText)
	}

	sourceURL := req.ImageURL
	record := newImageModel(filename, analysis, &sourceURL)
	if err := s.imageRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("insert image record: %w", err)
	}
	logger.Info().Uint("imageID", record.ID).Str("category", record.Category).Msg("Image record created")

	return &entity.CollectResult{
		ImageID:  record.ID,
		Filename: filename,
		Analysis: analysis,
	}, nil
}

// Upload 處理本地上傳的圖片
func (s *ImageService) Upload(ctx context.Context, filename, contentType string, data []byte) (*entity.CollectResult, error) {
	logger := zerolog.Ctx(ctx)

	if !strings.HasPrefix(contentType, "image/") {
		return nil, apierror.NewWithStatus("UnsupportedFileType",
			"不支援的檔案類型，請上傳圖片檔案", http.StatusBadRequest)
	}

	ext := extensionFromFilename(filename)
	key, err := s.storage.Save(ext, data)
	if err != nil {
		return nil, fmt.Errorf("save image: %w", err)
	}
	logger.Info().Str("filename", key).Msg("Image uploaded")

	analysis := s.analyzer.AnalyzeImage(ctx, data, ext, "")

	// 本地上傳沒有來源 URL
	record := newImageModel(key, analysis, nil)
	if err := s.imageRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("insert image record: %w", err)
	}
	logger.Info().Uint("imageID", record.ID).Msg("Image record created")

	return &entity.CollectResult{
		ImageID:  record.ID,
		Filename: key,
		Analysis: analysis,
	}, nil
}

// bypassAnalysis 跳過視覺分析：對使用者提供的 prompt 做翻譯與標籤提取
func (s *ImageService) bypassAnalysis(ctx context.Context, contextText string) *entity.Analysis {
	translation := s.analyzer.Translate(ctx, contextText)

	positive := translation.English
	if positive == "" {
		positive = contextText
	}

	tags, category := s.analyzer.ExtractTags(ctx, contextText)

	return &entity.Analysis{
		PositivePrompt:   positive,
		PositivePromptZh: translation.Chinese,
		NegativePrompt:   "low quality, blurry",
		Tags:             tags,
		Category:         category,
	}
}

// fetchImage 下載遠端圖片，網路錯誤或非 2xx 狀態一律視為客戶端可見的下載失敗
func (s *ImageService) fetchImage(ctx context.Context, imageURL, pageURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, apierror.NewWithRaw("DownloadFailed",
			fmt.Sprintf("圖片下載失敗: %v", err), http.StatusBadRequest, err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)
	req.Header.Set("Referer", pageURL)
	req.Header.Set("Accept", fetchAccept)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, apierror.NewWithRaw("DownloadFailed",
			fmt.Sprintf("圖片下載失敗: %v", err), http.StatusBadRequest, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apierror.NewWithStatus("DownloadFailed",
			fmt.Sprintf("圖片下載失敗: 遠端回應 %s", resp.Status), http.StatusBadRequest)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apierror.NewWithRaw("DownloadFailed",
			fmt.Sprintf("圖片下載失敗: %v", err), http.StatusBadRequest, err)
	}

	return data, nil
}

// extensionFromURL 從 URL 路徑的副檔名推導儲存副檔名（去除查詢字串）
func extensionFromURL(imageURL string) string {
	if u, err := url.Parse(imageURL); err == nil {
		return sanitizeExtension(path.Ext(u.Path))
	}
	return defaultExtension
}

// extensionFromFilename 從上傳檔名推導儲存副檔名
func extensionFromFilename(filename string) string {
	return sanitizeExtension(path.Ext(filename))
}

func sanitizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if allowedExtensions[ext] {
		return ext
	}
	return defaultExtension
}
