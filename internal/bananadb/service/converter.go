package service

import (
	"time"

	"github.com/jinzhu/copier"

	"bananadb/internal/bananadb/entity"
	"bananadb/internal/bananadb/repository/model"
)

// imageModelToEntity 把 model.Image 轉換為 entity.ImageRecord
func imageModelToEntity(m *model.Image) (*entity.ImageRecord, error) {
	e := &entity.ImageRecord{}
	if err := copier.Copy(e, m); err != nil {
		return nil, err
	}

	// 標籤與時間欄位型別不同，需手動處理
	e.Tags = model.DecodeTags(m.Tags)
	e.CreatedAt = m.CreatedAt.Format(time.RFC3339)

	return e, nil
}

// imageModelsToEntities 批次轉換，任何一筆失敗即回報
func imageModelsToEntities(models []*model.Image) ([]*entity.ImageRecord, error) {
	records := make([]*entity.ImageRecord, 0, len(models))
	for _, m := range models {
		record, err := imageModelToEntity(m)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// newImageModel 以分析結果組出待插入的資料列
func newImageModel(filename string, analysis *entity.Analysis, sourceURL *string) *model.Image {
	return &model.Image{
		Filename:         filename,
		PositivePrompt:   analysis.PositivePrompt,
		PositivePromptZh: analysis.PositivePromptZh,
		NegativePrompt:   analysis.NegativePrompt,
		Tags:             model.EncodeTags(analysis.Tags),
		SourceURL:        sourceURL,
		Category:         entity.NormalizeCategory(analysis.Category),
		CreatedAt:        time.Now(),
	}
}
