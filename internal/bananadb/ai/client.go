// Package ai 包裝外部視覺語言模型，負責把模型回覆正規化為固定欄位的分析結果。
//
// 模型呼叫本身透過窄介面 Client 抽象，修復與回退邏輯集中在 Engine，
// 測試時可用假實作取代 Client，不需要網路。
package ai

import "context"

// Client 外部模型的窄介面
type Client interface {
	// GenerateText 以純文字指令呼叫模型，回傳原始文字回覆
	GenerateText(ctx context.Context, prompt string) (string, error)
	// GenerateVision 以指令加圖片呼叫模型，format 為圖片格式（jpeg、png、webp、gif）
	GenerateVision(ctx context.Context, prompt string, format string, image []byte) (string, error)
}
