// Package entity 定義 API 與業務邏輯層共用的資料結構
package entity

// ImageRecord 一筆已收集圖片的完整記錄
type ImageRecord struct {
	ID               uint     `json:"id"`                 // 資料庫自動產生的流水號
	Filename         string   `json:"filename"`           // 儲存鍵（uploads 目錄下的檔名）
	PositivePrompt   string   `json:"positive_prompt"`    // 英文正向提示詞
	PositivePromptZh string   `json:"positive_prompt_zh"` // 繁體中文正向提示詞
	NegativePrompt   string   `json:"negative_prompt"`    // 負向提示詞
	Tags             []string `json:"tags"`               // 中英混合標籤，保留插入順序
	SourceURL        *string  `json:"source_url"`         // 來源 URL，本地上傳為 null
	Category         string   `json:"category"`           // 分類，見 category.go
	IsFavorited      bool     `json:"is_favorited"`       // 收藏狀態
	CreatedAt        string   `json:"created_at"`         // 建立時間（RFC3339）
}

// Analysis AI 分析的固定欄位結果
// 分析配接器保證所有欄位結構有效：tags 至少是空陣列、category 落在固定分類集合內
type Analysis struct {
	PositivePrompt   string   `json:"positive_prompt"`
	PositivePromptZh string   `json:"positive_prompt_zh"`
	NegativePrompt   string   `json:"negative_prompt"`
	Tags             []string `json:"tags"`
	Category         string   `json:"category"`
}

// CollectURLRequest 從 URL 收集圖片的請求
type CollectURLRequest struct {
	ImageURL    string `json:"image_url" binding:"required"` // 圖片 URL
	PageURL     string `json:"page_url"`                     // 來源頁面 URL，作為下載時的 Referer
	ContextText string `json:"context_text"`                 // 額外上下文（選填）
	SkipAI      bool   `json:"skip_ai"`                      // 跳過視覺分析，直接使用 context_text 作為 prompt
}

// CollectResult 收集/上傳完成後回傳的資料
type CollectResult struct {
	ImageID  uint      `json:"image_id"`
	Filename string    `json:"filename"`
	Analysis *Analysis `json:"analysis"`
}

// DeleteBatchRequest 批次刪除請求
type DeleteBatchRequest struct {
	ImageIDs []uint `json:"image_ids" binding:"required"`
}

// DeleteBatchResult 批次刪除結果
type DeleteBatchResult struct {
	DeletedCount int `json:"deleted_count"`
}
