// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"audit-copilot-be/internal/dto"
	"audit-copilot-be/internal/entity"
	"audit-copilot-be/internal/repository/specification"
	"audit-copilot-be/internal/repository/unitofwork"
	"audit-copilot-be/pkg/embedding"
	"audit-copilot-be/pkg/workflow"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	processor         *workflow.DocumentProcessor
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	chunkSize int,
	chunkOverlap int,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		processor:         workflow.NewDocumentProcessor(chunkSize, chunkOverlap),
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedDocumentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Processing embeddings for DocumentId: %s", payload.DocumentId)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: payload.DocumentId})
	if err != nil {
		log.Printf("[ERROR] Failed to get document %s: %v", payload.DocumentId, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if document == nil {
		log.Printf("[ERROR] Document not found: %s", payload.DocumentId)
		msg.Ack() // Document deleted? Ack.
		return
	}

	processed, err := cs.processor.Process(ctx, document.Content)
	if err != nil {
		// No extractable text is permanent; retrying cannot fix it.
		log.Printf("[ERROR] Failed to process document %s: %v", payload.DocumentId, err)
		cs.markFailed(ctx, uow, document)
		msg.Ack()
		return
	}
	log.Printf("[INFO] Content split into %d chunks (%d chars) for document %s", processed.ChunkCount, processed.CharCount, payload.DocumentId)

	var newChunks []*entity.DocumentChunk

	for i, chunk := range processed.Chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of document %s: %v", i, payload.DocumentId, err)
			msg.Nack()
			return
		}

		newChunks = append(newChunks, &entity.DocumentChunk{
			Id:             uuid.New(),
			DocumentId:     document.Id,
			ChunkIndex:     i,
			Content:        chunk,
			EmbeddingValue: res.Embedding.Values,
			Metadata: map[string]interface{}{
				"filename":             document.Filename,
				"display_name":         document.DisplayName,
				"document_type":        document.DocumentType,
				"company":              document.Company,
				"compliance_framework": document.ComplianceFramework,
				"quality_level":        document.QualityLevel,
			},
			CreatedAt: time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	log.Printf("[INFO] Deleting old chunks for document %s", payload.DocumentId)
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, document.Id); err != nil {
		log.Printf("[ERROR] Failed to delete old chunks: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[INFO] Creating %d new chunks for document %s", len(newChunks), payload.DocumentId)
	if len(newChunks) > 0 {
		if err := uow.DocumentChunkRepository().CreateBulk(ctx, newChunks); err != nil {
			log.Printf("[ERROR] Failed to create bulk chunks: %v", err)
			msg.Nack()
			return
		}
	}

	now := time.Now()
	document.Status = entity.DocumentStatusProcessed
	document.ChunkCount = len(newChunks)
	document.UpdatedAt = &now
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		log.Printf("[ERROR] Failed to update document status: %v", err)
		msg.Nack()
		return
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Document processed: %d chunks for DocumentId: %s", len(newChunks), payload.DocumentId)
	msg.Ack()
}

func (cs *consumerService) markFailed(ctx context.Context, uow unitofwork.UnitOfWork, document *entity.Document) {
	now := time.Now()
	document.Status = entity.DocumentStatusFailed
	document.UpdatedAt = &now
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		log.Printf("[ERROR] Failed to mark document %s failed: %v", document.Id, err)
	}
}
