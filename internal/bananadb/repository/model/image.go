// Package model 定義資料庫表結構
package model

import (
	"encoding/json"
	"time"
)

// Image 圖片記錄表
// tags 欄位以 JSON 字串存放，與舊版資料庫相容；
// 記錄採硬刪除，刪除後行與檔案一併移除
type Image struct {
	ID               uint      `gorm:"primaryKey;autoIncrement;column:id" json:"id"`
	Filename         string    `gorm:"type:text;not null;column:filename" json:"filename"`
	PositivePrompt   string    `gorm:"type:text;column:positive_prompt" json:"positive_prompt"`
	PositivePromptZh string    `gorm:"type:text;column:positive_prompt_zh" json:"positive_prompt_zh"`
	NegativePrompt   string    `gorm:"type:text;column:negative_prompt" json:"negative_prompt"`
	Tags             string    `gorm:"type:text;column:tags" json:"tags"` // JSON 編碼的字串陣列
	SourceURL        *string   `gorm:"type:text;column:source_url" json:"source_url"`
	Category         string    `gorm:"type:text;default:Other;index:idx_images_category;column:category" json:"category"`
	IsFavorited      bool      `gorm:"not null;default:false;index:idx_images_is_favorited;column:is_favorited" json:"is_favorited"`
	CreatedAt        time.Time `gorm:"type:datetime;not null;index:idx_images_created_at;column:created_at" json:"created_at"`
}

// TableName 指定表名
func (Image) TableName() string {
	return "images"
}

// EncodeTags 把標籤陣列編碼為儲存用的 JSON 字串
func EncodeTags(tags []string) string {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "[]"
	}
	return string(data)
}

// DecodeTags 把儲存的 JSON 字串還原為標籤陣列
// 欄位為空或格式損壞時回傳空陣列，不回報錯誤
func DecodeTags(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(raw), &tags); err != nil {
		return []string{}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}
