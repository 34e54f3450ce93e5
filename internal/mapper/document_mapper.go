package mapper

import (
	"time"

	"audit-copilot-be/internal/entity"
	"audit-copilot-be/internal/model"

	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

func (m *DocumentMapper) ToEntity(d *model.Document) *entity.Document {
	if d == nil {
		return nil
	}

	var deletedAt *time.Time
	if d.DeletedAt.Valid {
		t := d.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !d.UpdatedAt.IsZero() {
		t := d.UpdatedAt
		updatedAt = &t
	}

	return &entity.Document{
		Id:                  d.Id,
		Filename:            d.Filename,
		DisplayName:         d.DisplayName,
		Content:             d.Content,
		DocumentType:        d.DocumentType,
		Company:             d.Company,
		ComplianceFramework: d.ComplianceFramework,
		QualityLevel:        d.QualityLevel,
		Status:              d.Status,
		ChunkCount:          d.ChunkCount,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           updatedAt,
		DeletedAt:           deletedAt,
		IsDeleted:           d.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) ToModel(d *entity.Document) *model.Document {
	if d == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if d.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *d.DeletedAt, Valid: true}
	} else if d.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if d.UpdatedAt != nil {
		updatedAt = *d.UpdatedAt
	}

	return &model.Document{
		Id:                  d.Id,
		Filename:            d.Filename,
		DisplayName:         d.DisplayName,
		Content:             d.Content,
		DocumentType:        d.DocumentType,
		Company:             d.Company,
		ComplianceFramework: d.ComplianceFramework,
		QualityLevel:        d.QualityLevel,
		Status:              d.Status,
		ChunkCount:          d.ChunkCount,
		CreatedAt:           d.CreatedAt,
		UpdatedAt:           updatedAt,
		DeletedAt:           deletedAt,
	}
}

func (m *DocumentMapper) ToEntities(documents []*model.Document) []*entity.Document {
	entities := make([]*entity.Document, len(documents))
	for i, d := range documents {
		entities[i] = m.ToEntity(d)
	}
	return entities
}

func (m *DocumentMapper) ToModels(documents []*entity.Document) []*model.Document {
	models := make([]*model.Document, len(documents))
	for i, d := range documents {
		models[i] = m.ToModel(d)
	}
	return models
}
