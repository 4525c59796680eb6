package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/rs/zerolog"

	"bananadb/internal/bananadb/entity"
)

const (
	// translateFailedPlaceholder 翻譯補救也失敗時寫入中文欄位的佔位文字
	translateFailedPlaceholder = "（翻譯生成失敗）"

	// longPromptThreshold 超過此長度的 prompt 不做完整翻譯，改為摘要
	longPromptThreshold = 1000

	// maxTags 單筆記錄的標籤數上限
	maxTags = 10

	// maxSupplementTags 補充中文標籤的數量上限
	maxSupplementTags = 5

	// defaultNegativePrompt 跳過分析與回退結果使用的負向提示詞
	defaultNegativePrompt = "low quality, blurry"
)

// Translation 翻譯結果
// 原文已是中文時 English 為空；翻譯失敗時 Chinese 為空
type Translation struct {
	English string
	Chinese string
}

// Engine 分析配接器
// 所有公開方法都保證回傳結構有效的結果，模型失敗一律吸收為回退值，
// 不會把錯誤往攝取流程傳遞
type Engine struct {
	client Client
}

// NewEngine 建立分析配接器
// client 可為 nil（未設定 API key 時），此時所有模型呼叫直接走回退路徑
func NewEngine(client Client) *Engine {
	return &Engine{client: client}
}

func (e *Engine) generateText(ctx context.Context, prompt string) (string, error) {
	if e.client == nil {
		return "", fmt.Errorf("ai client not configured")
	}
	return e.client.GenerateText(ctx, prompt)
}

// AnalyzeImage 分析圖片並逆向工程提示詞
// ext 為圖片副檔名，contextText 為額外上下文（可為空）
func (e *Engine) AnalyzeImage(ctx context.Context, image []byte, ext string, contextText string) *entity.Analysis {
	logger := zerolog.Ctx(ctx)

	prompt := bananaProSystemPrompt
	if contextText != "" {
		prompt += "\nAdditional context: " + contextText
	}

	if e.client == nil {
		logger.Warn().Msg("AI client not configured, returning fallback analysis")
		return fallbackAnalysis("Error during analysis", "分析過程發生錯誤")
	}

	reply, err := e.client.GenerateVision(ctx, prompt, imageFormat(ext), image)
	if err != nil {
		logger.Error().Err(err).Msg("Vision analysis failed")
		return fallbackAnalysis("Error during analysis", "分析過程發生錯誤")
	}

	var raw struct {
		PositivePrompt   string          `json:"positive_prompt"`
		PositivePromptZh string          `json:"positive_prompt_zh"`
		NegativePrompt   string          `json:"negative_prompt"`
		Tags             json.RawMessage `json:"tags"`
		Category         string          `json:"category"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &raw); err != nil {
		logger.Error().Err(err).Str("reply", reply).Msg("Failed to parse analysis reply")
		return fallbackAnalysis("Unable to analyze image", "無法分析圖片")
	}

	result := &entity.Analysis{
		PositivePrompt:   raw.PositivePrompt,
		PositivePromptZh: raw.PositivePromptZh,
		NegativePrompt:   raw.NegativePrompt,
		Tags:             decodeRawTags(raw.Tags),
		Category:         entity.NormalizeCategory(raw.Category),
	}

	// 模型未回傳中文翻譯時自動補上
	if result.PositivePromptZh == "" {
		logger.Warn().Msg("Analysis reply missing Chinese translation, translating")
		translation := e.Translate(ctx, result.PositivePrompt)
		if translation.Chinese != "" {
			result.PositivePromptZh = translation.Chinese
		} else {
			result.PositivePromptZh = translateFailedPlaceholder
		}
	}

	// 標籤全為拉丁字時補充中文標籤
	if len(result.Tags) > 0 && !anyContainsHan(result.Tags) {
		logger.Warn().Msg("Analysis tags missing Chinese, supplementing")
		extracted, _ := e.ExtractTags(ctx, result.PositivePrompt)
		added := 0
		for _, tag := range extracted {
			if added >= maxSupplementTags {
				break
			}
			if containsHan(tag) {
				result.Tags = append(result.Tags, tag)
				added++
			}
		}
	}

	if len(result.Tags) > maxTags {
		result.Tags = result.Tags[:maxTags]
	}

	return result
}

// Translate 偵測並翻譯 prompt
// 已含中文的原文視為已翻譯；超長英文 prompt 改為產生關鍵字摘要以控制請求大小；
// 模型回覆不含中文字元視為失敗，回傳未翻譯的原文
func (e *Engine) Translate(ctx context.Context, text string) Translation {
	logger := zerolog.Ctx(ctx)

	if containsHan(text) {
		return Translation{English: "", Chinese: text}
	}

	if len([]rune(text)) > longPromptThreshold {
		logger.Info().Int("length", len([]rune(text))).Msg("Prompt too long, summarizing instead of translating")
		return Translation{
			English: text,
			Chinese: "長指令 - 主題關鍵字：" + latinKeywords(text),
		}
	}

	reply, err := e.generateText(ctx, fmt.Sprintf(translatePromptTemplate, text))
	if err != nil {
		logger.Error().Err(err).Msg("Translation failed")
		return Translation{English: text, Chinese: ""}
	}

	chinese := strings.TrimSpace(strings.NewReplacer("```", "", "`", "").Replace(reply))
	if !containsHan(chinese) {
		logger.Warn().Msg("Translation reply contains no Chinese characters")
		return Translation{English: text, Chinese: ""}
	}

	return Translation{English: text, Chinese: chinese}
}

var fallbackWordPattern = regexp.MustCompile(`\b\w{3,}\b`)

// ExtractTags 從文字提取中英雙語標籤並判斷分類
// 模型失敗時退回簡單的單字切割
func (e *Engine) ExtractTags(ctx context.Context, text string) ([]string, string) {
	logger := zerolog.Ctx(ctx)

	sample := text
	if runes := []rune(text); len(runes) > longPromptThreshold {
		sample = string(runes[:longPromptThreshold])
	}

	reply, err := e.generateText(ctx, fmt.Sprintf(extractTagsTemplate, sample))
	if err != nil {
		logger.Error().Err(err).Msg("Tag extraction failed")
		return fallbackTags(text)
	}

	var raw struct {
		Tags     []string `json:"tags"`
		Category string   `json:"category"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &raw); err != nil {
		logger.Error().Err(err).Str("reply", reply).Msg("Failed to parse tag extraction reply")
		return fallbackTags(text)
	}

	tags := raw.Tags
	if tags == nil {
		tags = []string{}
	}
	if len(tags) > maxTags {
		tags = tags[:maxTags]
	}

	return tags, entity.NormalizeCategory(raw.Category)
}

// Search 以自然語言查詢對現有記錄做語意搜尋
// 回傳模型給出的 id 順序；任何失敗（包含沒有候選資料）都回傳空序列
func (e *Engine) Search(ctx context.Context, query string, candidates []*entity.ImageRecord) []uint {
	logger := zerolog.Ctx(ctx)

	if len(candidates) == 0 {
		return []uint{}
	}

	blocks := make([]string, 0, len(candidates))
	for _, img := range candidates {
		blocks = append(blocks, fmt.Sprintf("ID: %d\nPrompt: %s\nChinese: %s\nTags: %s",
			img.ID, img.PositivePrompt, img.PositivePromptZh, strings.Join(img.Tags, ", ")))
	}

	reply, err := e.generateText(ctx, fmt.Sprintf(searchTemplate, query, strings.Join(blocks, "\n---\n")))
	if err != nil {
		logger.Error().Err(err).Msg("Semantic search failed")
		return []uint{}
	}

	var raw struct {
		MatchedIDs []uint `json:"matched_ids"`
	}
	if err := json.Unmarshal([]byte(stripCodeFence(reply)), &raw); err != nil {
		logger.Error().Err(err).Str("reply", reply).Msg("Failed to parse search reply")
		return []uint{}
	}
	if raw.MatchedIDs == nil {
		return []uint{}
	}

	return raw.MatchedIDs
}

// fallbackAnalysis 模型呼叫或解析失敗時的固定回退結果
func fallbackAnalysis(prompt, promptZh string) *entity.Analysis {
	return &entity.Analysis{
		PositivePrompt:   prompt,
		PositivePromptZh: promptZh,
		NegativePrompt:   defaultNegativePrompt,
		Tags:             []string{"error"},
		Category:         entity.CategoryOther,
	}
}

// fallbackTags 標籤提取的回退：從前 200 字切出單字
func fallbackTags(text string) ([]string, string) {
	sample := text
	if runes := []rune(text); len(runes) > 200 {
		sample = string(runes[:200])
	}

	words := fallbackWordPattern.FindAllString(sample, maxSupplementTags)
	if len(words) == 0 {
		words = []string{"未分類", "uncategorized"}
	}
	return words, entity.CategoryOther
}

var (
	htmlTagPattern     = regexp.MustCompile(`<[^>]+>`)
	punctuationPattern = regexp.MustCompile(`[{}()\[\]"'<>]`)
	latinWordPattern   = regexp.MustCompile(`\b[A-Za-z]{4,}\b`)
)

// latinKeywords 從超長英文 prompt 的開頭取出主題關鍵字
func latinKeywords(text string) string {
	if runes := []rune(text); len(runes) > 300 {
		text = string(runes[:300])
	}
	clean := htmlTagPattern.ReplaceAllString(text, "")
	clean = punctuationPattern.ReplaceAllString(clean, " ")
	words := latinWordPattern.FindAllString(clean, 8)
	return strings.Join(words, " ")
}

// decodeRawTags 把模型回覆的 tags 欄位解析為字串陣列，非陣列一律視為空
func decodeRawTags(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return []string{}
	}
	if tags == nil {
		return []string{}
	}
	return tags
}

// stripCodeFence 移除模型回覆外層的 Markdown 程式碼區塊
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// containsHan 判斷字串是否含有中文字元
func containsHan(s string) bool {
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			return true
		}
	}
	return false
}

func anyContainsHan(tags []string) bool {
	for _, tag := range tags {
		if containsHan(tag) {
			return true
		}
	}
	return false
}

// imageFormat 把副檔名轉成模型 API 使用的圖片格式名稱
func imageFormat(ext string) string {
	ext = strings.ToLower(strings.TrimPrefix(ext, "."))
	if ext == "jpg" {
		return "jpeg"
	}
	return ext
}
