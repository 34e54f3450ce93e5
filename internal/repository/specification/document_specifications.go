package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByDocumentID struct {
	DocumentID uuid.UUID
}

func (s ByDocumentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_id = ?", s.DocumentID)
}

type ByDocumentType struct {
	DocumentType string
}

func (s ByDocumentType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_type = ?", s.DocumentType)
}

type ByComplianceFramework struct {
	Framework string
}

func (s ByComplianceFramework) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("compliance_framework = ?", s.Framework)
}

type ByStatus struct {
	Status string
}

func (s ByStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type ByChunkOrder struct{}

func (s ByChunkOrder) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("chunk_index ASC")
}
