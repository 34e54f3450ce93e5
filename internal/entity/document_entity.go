package entity

import (
	"time"

	"github.com/google/uuid"
)

// Document processing states.
const (
	DocumentStatusPending   = "pending"
	DocumentStatusProcessed = "processed"
	DocumentStatusFailed    = "failed"
)

type Document struct {
	Id                  uuid.UUID
	Filename            string
	DisplayName         string
	Content             string
	DocumentType        string
	Company             string
	ComplianceFramework string
	QualityLevel        string
	Status              string
	ChunkCount          int
	CreatedAt           time.Time
	UpdatedAt           *time.Time
	DeletedAt           *time.Time
	IsDeleted           bool
}
