package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bananadb/internal/bananadb/entity"
)

// fakeClient 可注入回覆的假模型客戶端
type fakeClient struct {
	textReply    string
	textErr      error
	visionReply  string
	visionErr    error
	textPrompts  []string
	visionPrompt string
	// textReplies 依呼叫順序回覆，優先於 textReply
	textReplies []string
}

func (f *fakeClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	f.textPrompts = append(f.textPrompts, prompt)
	if f.textErr != nil {
		return "", f.textErr
	}
	if len(f.textReplies) > 0 {
		reply := f.textReplies[0]
		f.textReplies = f.textReplies[1:]
		return reply, nil
	}
	return f.textReply, nil
}

func (f *fakeClient) GenerateVision(ctx context.Context, prompt string, format string, image []byte) (string, error) {
	f.visionPrompt = prompt
	if f.visionErr != nil {
		return "", f.visionErr
	}
	return f.visionReply, nil
}

const goodAnalysisReply = `{
	"positive_prompt": "a cyberpunk city at night, neon lights",
	"positive_prompt_zh": "夜晚的賽博龐克城市，霓虹燈",
	"negative_prompt": "low quality",
	"tags": ["cyberpunk", "賽博龐克", "neon", "霓虹"],
	"category": "Sci-Fi"
}`

func TestAnalyzeImage_Success(t *testing.T) {
	t.Parallel()

	client := &fakeClient{visionReply: goodAnalysisReply}
	engine := NewEngine(client)

	result := engine.AnalyzeImage(context.Background(), []byte{0xFF}, "jpg", "")
	require.NotNil(t, result)
	assert.Equal(t, "a cyberpunk city at night, neon lights", result.PositivePrompt)
	assert.Equal(t, "夜晚的賽博龐克城市，霓虹燈", result.PositivePromptZh)
	assert.Equal(t, entity.CategorySciFi, result.Category)
	assert.Equal(t, []string{"cyberpunk", "賽博龐克", "neon", "霓虹"}, result.Tags)
}

func TestAnalyzeImage_StripsCodeFence(t *testing.T) {
	t.Parallel()

	client := &fakeClient{visionReply: "```json\n" + goodAnalysisReply + "\n```"}
	engine := NewEngine(client)

	result := engine.AnalyzeImage(context.Background(), []byte{0xFF}, "png", "")
	assert.Equal(t, entity.CategorySciFi, result.Category)
}

func TestAnalyzeImage_ContextTextAppended(t *testing.T) {
	t.Parallel()

	client := &fakeClient{visionReply: goodAnalysisReply}
	engine := NewEngine(client)

	engine.AnalyzeImage(context.Background(), []byte{0xFF}, "jpg", "found on an art site")
	assert.Contains(t, client.visionPrompt, "Additional context: found on an art site")
}

func TestAnalyzeImage_BackfillsMissingChineseTranslation(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		visionReply: `{"positive_prompt": "a red fox in snow", "tags": ["fox", "狐狸"], "category": "Animal"}`,
		textReply:   "雪地裡的紅狐狸",
	}
	engine := NewEngine(client)

	result := engine.AnalyzeImage(context.Background(), []byte{0xFF}, "jpg", "")
	assert.Equal(t, "雪地裡的紅狐狸", result.PositivePromptZh)
}

func TestAnalyzeImage_TranslationFailurePlaceholder(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		visionReply: `{"positive_prompt": "a red fox in snow", "tags": ["fox", "狐狸"], "category": "Animal"}`,
		textErr:     errors.New("quota exceeded"),
	}
	engine := NewEngine(client)

	result := engine.AnalyzeImage(context.Background(), []byte{0xFF}, "jpg", "")
	// 永不留空：翻譯補救失敗時寫入佔位文字
	assert.Equal(t, translateFailedPlaceholder, result.PositivePromptZh)
}

func TestAnalyzeImage_SupplementsChineseTags(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		visionReply: `{"positive_prompt": "portrait of a woman", "positive_prompt_zh": "女子肖像", "tags": ["portrait", "woman"], "category": "Portrait"}`,
		textReply:   `{"tags": ["portrait", "肖像", "woman", "女子", "photo", "攝影"], "category": "Portrait"}`,
	}
	engine := NewEngine(client)

	result := engine.AnalyzeImage(context.Background(), []byte{0xFF}, "jpg", "")
	assert.True(t, anyContainsHan(result.Tags))
	// 原有標籤順序保留，中文標籤附加在後
	assert.Equal(t, []string{"portrait", "woman", "肖像", "女子", "攝影"}, result.Tags)
}

func TestAnalyzeImage_TagsNotAnArray(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		visionReply: `{"positive_prompt": "x", "positive_prompt_zh": "某", "tags": "not-a-list", "category": "Art"}`,
	}
	engine := NewEngine(client)

	result := engine.AnalyzeImage(context.Background(), []byte{0xFF}, "jpg", "")
	assert.Equal(t, []string{}, result.Tags)
}

func TestAnalyzeImage_UnknownCategoryBecomesOther(t *testing.T) {
	t.Parallel()

	client := &fakeClient{
		visionReply: `{"positive_prompt": "x", "positive_prompt_zh": "某", "tags": ["某"], "category": "Spaceship"}`,
	}
	engine := NewEngine(client)

	result := engine.AnalyzeImage(context.Background(), []byte{0xFF}, "jpg", "")
	assert.Equal(t, entity.CategoryOther, result.Category)
}

func TestAnalyzeImage_ParseFailureFallback(t *testing.T) {
	t.Parallel()

	client := &fakeClient{visionReply: "I cannot help with that."}
	engine := NewEngine(client)

	result := engine.AnalyzeImage(context.Background(), []byte{0xFF}, "jpg", "")
	assert.Equal(t, "Unable to analyze image", result.PositivePrompt)
	assert.Equal(t, "無法分析圖片", result.PositivePromptZh)
	assert.Equal(t, defaultNegativePrompt, result.NegativePrompt)
	assert.Equal(t, []string{"error"}, result.Tags)
	assert.Equal(t, entity.CategoryOther, result.Category)
}

func TestAnalyzeImage_NetworkFailureFallback(t *testing.T) {
	t.Parallel()

	client := &fakeClient{visionErr: errors.New("connection reset")}
	engine := NewEngine(client)

	result := engine.AnalyzeImage(context.Background(), []byte{0xFF}, "jpg", "")
	assert.Equal(t, "Error during analysis", result.PositivePrompt)
	assert.Equal(t, "分析過程發生錯誤", result.PositivePromptZh)
	assert.Equal(t, []string{"error"}, result.Tags)
}

func TestAnalyzeImage_NilClientFallback(t *testing.T) {
	t.Parallel()

	engine := NewEngine(nil)

	result := engine.AnalyzeImage(context.Background(), []byte{0xFF}, "jpg", "")
	assert.Equal(t, "Error during analysis", result.PositivePrompt)
}

func TestTranslate_AlreadyChinese(t *testing.T) {
	t.Parallel()

	engine := NewEngine(&fakeClient{})

	tr := engine.Translate(context.Background(), "一隻在屋頂上的貓")
	assert.Empty(t, tr.English)
	assert.Equal(t, "一隻在屋頂上的貓", tr.Chinese)
}

func TestTranslate_Success(t *testing.T) {
	t.Parallel()

	client := &fakeClient{textReply: "屋頂上的貓"}
	engine := NewEngine(client)

	tr := engine.Translate(context.Background(), "a cat on the roof")
	assert.Equal(t, "a cat on the roof", tr.English)
	assert.Equal(t, "屋頂上的貓", tr.Chinese)
}

func TestTranslate_StripsBackticks(t *testing.T) {
	t.Parallel()

	client := &fakeClient{textReply: "```\n屋頂上的貓\n```"}
	engine := NewEngine(client)

	tr := engine.Translate(context.Background(), "a cat on the roof")
	assert.Equal(t, "屋頂上的貓", tr.Chinese)
}

func TestTranslate_NoChineseInReplyIsFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{textReply: "a cat on the roof (untranslated)"}
	engine := NewEngine(client)

	tr := engine.Translate(context.Background(), "a cat on the roof")
	assert.Equal(t, "a cat on the roof", tr.English)
	assert.Empty(t, tr.Chinese)
}

func TestTranslate_LongPromptSummarized(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	engine := NewEngine(client)

	long := strings.Repeat("masterpiece detailed lighting ", 50)
	require.Greater(t, len([]rune(long)), longPromptThreshold)

	tr := engine.Translate(context.Background(), long)
	assert.Equal(t, long, tr.English)
	assert.True(t, strings.HasPrefix(tr.Chinese, "長指令 - 主題關鍵字："))
	assert.Contains(t, tr.Chinese, "masterpiece")
	// 超長 prompt 不應呼叫模型
	assert.Empty(t, client.textPrompts)
}

func TestExtractTags_Success(t *testing.T) {
	t.Parallel()

	client := &fakeClient{textReply: `{"tags": ["sunset", "夕陽", "beach", "海灘"], "category": "Landscape"}`}
	engine := NewEngine(client)

	tags, category := engine.ExtractTags(context.Background(), "a sunset over the beach")
	assert.Equal(t, []string{"sunset", "夕陽", "beach", "海灘"}, tags)
	assert.Equal(t, entity.CategoryLandscape, category)
}

func TestExtractTags_CapsAtTen(t *testing.T) {
	t.Parallel()

	many := make([]string, 0, 15)
	for i := 0; i < 15; i++ {
		many = append(many, fmt.Sprintf(`"tag%d"`, i))
	}
	client := &fakeClient{textReply: `{"tags": [` + strings.Join(many, ",") + `], "category": "Art"}`}
	engine := NewEngine(client)

	tags, _ := engine.ExtractTags(context.Background(), "anything")
	assert.Len(t, tags, maxTags)
}

func TestExtractTags_FallbackOnFailure(t *testing.T) {
	t.Parallel()

	client := &fakeClient{textErr: errors.New("timeout")}
	engine := NewEngine(client)

	tags, category := engine.ExtractTags(context.Background(), "golden retriever playing in the park")
	assert.Equal(t, []string{"golden", "retriever", "playing", "the", "park"}, tags)
	assert.Equal(t, entity.CategoryOther, category)
}

func TestExtractTags_FallbackNoWords(t *testing.T) {
	t.Parallel()

	client := &fakeClient{textErr: errors.New("timeout")}
	engine := NewEngine(client)

	tags, category := engine.ExtractTags(context.Background(), "!! ??")
	assert.Equal(t, []string{"未分類", "uncategorized"}, tags)
	assert.Equal(t, entity.CategoryOther, category)
}

func TestSearch_EmptyCandidates(t *testing.T) {
	t.Parallel()

	client := &fakeClient{}
	engine := NewEngine(client)

	ids := engine.Search(context.Background(), "cat", nil)
	assert.Empty(t, ids)
	assert.Empty(t, client.textPrompts)
}

func TestSearch_ReturnsIDsInModelOrder(t *testing.T) {
	t.Parallel()

	client := &fakeClient{textReply: `{"matched_ids": [3, 1]}`}
	engine := NewEngine(client)

	candidates := []*entity.ImageRecord{
		{ID: 1, PositivePrompt: "a lonely android", Tags: []string{"robot"}},
		{ID: 2, PositivePrompt: "a beach", Tags: []string{"sea"}},
		{ID: 3, PositivePrompt: "sad robot in rain", Tags: []string{"robot", "機器人"}},
	}

	ids := engine.Search(context.Background(), "sad robot", candidates)
	assert.Equal(t, []uint{3, 1}, ids)

	require.Len(t, client.textPrompts, 1)
	assert.Contains(t, client.textPrompts[0], `User Query: "sad robot"`)
	assert.Contains(t, client.textPrompts[0], "ID: 2")
}

func TestSearch_FailureReturnsEmpty(t *testing.T) {
	t.Parallel()

	client := &fakeClient{textReply: "not json"}
	engine := NewEngine(client)

	ids := engine.Search(context.Background(), "cat", []*entity.ImageRecord{{ID: 1}})
	assert.Equal(t, []uint{}, ids)
}

func TestImageFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "jpeg", imageFormat("jpg"))
	assert.Equal(t, "jpeg", imageFormat(".jpg"))
	assert.Equal(t, "png", imageFormat("PNG"))
	assert.Equal(t, "webp", imageFormat("webp"))
}
