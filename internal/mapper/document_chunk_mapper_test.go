package mapper

import (
	"testing"
	"time"

	"audit-copilot-be/internal/entity"

	"github.com/google/uuid"
)

func TestDocumentChunkMapperRoundTrip(t *testing.T) {
	m := NewDocumentChunkMapper()

	chunk := &entity.DocumentChunk{
		Id:             uuid.New(),
		DocumentId:     uuid.New(),
		ChunkIndex:     3,
		Content:        "Quarterly access review evidence for privileged accounts.",
		EmbeddingValue: []float32{0.1, 0.2, 0.3},
		Metadata: map[string]interface{}{
			"document_type":        "access_review",
			"compliance_framework": "SOX",
		},
		CreatedAt: time.Now(),
	}

	back := m.ToEntity(m.ToModel(chunk))

	if back.Id != chunk.Id || back.DocumentId != chunk.DocumentId || back.ChunkIndex != 3 {
		t.Errorf("identity fields did not survive round trip: %+v", back)
	}
	if back.Content != chunk.Content {
		t.Errorf("content mismatch: %q", back.Content)
	}
	if len(back.EmbeddingValue) != 3 || back.EmbeddingValue[1] != 0.2 {
		t.Errorf("embedding mismatch: %v", back.EmbeddingValue)
	}
	if back.Metadata["document_type"] != "access_review" || back.Metadata["compliance_framework"] != "SOX" {
		t.Errorf("metadata mismatch: %v", back.Metadata)
	}
	if back.IsDeleted {
		t.Error("chunk should not be marked deleted")
	}
}

func TestDocumentMapperSoftDelete(t *testing.T) {
	m := NewDocumentMapper()
	now := time.Now()

	doc := &entity.Document{
		Id:        uuid.New(),
		Filename:  "q3_reconciliation.txt",
		Status:    entity.DocumentStatusProcessed,
		CreatedAt: now,
		DeletedAt: &now,
	}

	back := m.ToEntity(m.ToModel(doc))

	if !back.IsDeleted {
		t.Error("expected deleted document to carry IsDeleted")
	}
	if back.DeletedAt == nil {
		t.Error("expected DeletedAt to survive round trip")
	}
	if back.Status != entity.DocumentStatusProcessed {
		t.Errorf("status mismatch: %q", back.Status)
	}
}
