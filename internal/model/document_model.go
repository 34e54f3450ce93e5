package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	Id                  uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Filename            string         `gorm:"type:varchar(255);not null"`
	DisplayName         string         `gorm:"type:varchar(255)"`
	Content             string         `gorm:"type:text"`
	DocumentType        string         `gorm:"type:varchar(64);index"`
	Company             string         `gorm:"type:varchar(128);index"`
	ComplianceFramework string         `gorm:"type:varchar(64);index"`
	QualityLevel        string         `gorm:"type:varchar(32)"`
	Status              string         `gorm:"type:varchar(32);not null;default:'pending'"`
	ChunkCount          int            `gorm:"default:0"`
	CreatedAt           time.Time      `gorm:"autoCreateTime"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime"`
	DeletedAt           gorm.DeletedAt `gorm:"index"`
}

func (Document) TableName() string {
	return "documents"
}
