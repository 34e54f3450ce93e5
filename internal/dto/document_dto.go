package dto

import (
	"time"

	"github.com/google/uuid"
)

type IngestDocumentRequest struct {
	Filename            string `json:"filename" validate:"required"`
	DisplayName         string `json:"display_name,omitempty"`
	Content             string `json:"content" validate:"required,min=10"`
	DocumentType        string `json:"document_type,omitempty"`
	Company             string `json:"company,omitempty"`
	ComplianceFramework string `json:"compliance_framework,omitempty"`
	QualityLevel        string `json:"quality_level,omitempty"`
}

type DocumentResponse struct {
	Id                  uuid.UUID `json:"id"`
	Filename            string    `json:"filename"`
	DisplayName         string    `json:"display_name"`
	DocumentType        string    `json:"document_type"`
	Company             string    `json:"company"`
	ComplianceFramework string    `json:"compliance_framework"`
	QualityLevel        string    `json:"quality_level"`
	Status              string    `json:"status"`
	ChunkCount          int       `json:"chunk_count"`
	CreatedAt           time.Time `json:"created_at"`
}

type ListDocumentsRequest struct {
	Status              string `query:"status"`
	DocumentType        string `query:"document_type"`
	ComplianceFramework string `query:"compliance_framework"`
}

type DocumentChunkResponse struct {
	Id         uuid.UUID              `json:"id"`
	ChunkIndex int                    `json:"chunk_index"`
	Content    string                 `json:"content"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt  time.Time              `json:"created_at"`
}

// PublishEmbedDocumentMessage is the payload asking the consumer to
// (re)embed a document's chunks.
type PublishEmbedDocumentMessage struct {
	DocumentId uuid.UUID `json:"document_id"`
}
