// FILE: internal/service/document_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"audit-copilot-be/internal/dto"
	"audit-copilot-be/internal/entity"
	"audit-copilot-be/internal/repository/specification"
	"audit-copilot-be/internal/repository/unitofwork"
	"audit-copilot-be/pkg/events"
	pktNats "audit-copilot-be/pkg/nats"
	"audit-copilot-be/pkg/retrieval"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.DocumentResponse, error)
	Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error)
	List(ctx context.Context, req *dto.ListDocumentsRequest) ([]*dto.DocumentResponse, error)
	Chunks(ctx context.Context, id uuid.UUID) ([]*dto.DocumentChunkResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Reindex(ctx context.Context, id uuid.UUID) error
}

type documentService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	cache            *retrieval.CacheStore
}

func NewDocumentService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	cache *retrieval.CacheStore,
) IDocumentService {
	return &documentService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		cache:            cache,
	}
}

func (s *documentService) Ingest(ctx context.Context, req *dto.IngestDocumentRequest) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	displayName := req.DisplayName
	if displayName == "" {
		displayName = req.Filename
	}

	document := entity.Document{
		Id:                  uuid.New(),
		Filename:            req.Filename,
		DisplayName:         displayName,
		Content:             req.Content,
		DocumentType:        req.DocumentType,
		Company:             req.Company,
		ComplianceFramework: req.ComplianceFramework,
		QualityLevel:        req.QualityLevel,
		Status:              entity.DocumentStatusPending,
		CreatedAt:           time.Now(),
	}

	if err := uow.DocumentRepository().Create(ctx, &document); err != nil {
		return nil, err
	}

	if err := s.requestEmbedding(ctx, document.Id); err != nil {
		return nil, err
	}

	// Cached rankings may now be stale.
	if s.cache != nil {
		s.cache.Clear()
	}

	if s.eventPublisher != nil {
		evt := events.NewDocumentEmbedEvent(document.Id.String())
		if err := s.eventPublisher.Publish(ctx, evt); err != nil {
			fmt.Printf("[WARN] Failed to publish DOCUMENT_EMBED event: %v\n", err)
		}
	}

	return mapDocument(&document), nil
}

func (s *documentService) Show(ctx context.Context, id uuid.UUID) (*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, nil // Not found
	}
	return mapDocument(document), nil
}

func (s *documentService) List(ctx context.Context, req *dto.ListDocumentsRequest) ([]*dto.DocumentResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if req.Status != "" {
		specs = append(specs, specification.ByStatus{Status: req.Status})
	}
	if req.DocumentType != "" {
		specs = append(specs, specification.ByDocumentType{DocumentType: req.DocumentType})
	}
	if req.ComplianceFramework != "" {
		specs = append(specs, specification.ByComplianceFramework{Framework: req.ComplianceFramework})
	}

	documents, err := uow.DocumentRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.DocumentResponse, 0, len(documents))
	for _, document := range documents {
		response = append(response, mapDocument(document))
	}
	return response, nil
}

func (s *documentService) Chunks(ctx context.Context, id uuid.UUID) ([]*dto.DocumentChunkResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	chunks, err := uow.DocumentChunkRepository().FindAll(ctx,
		specification.ByDocumentID{DocumentID: id},
		specification.ByChunkOrder{},
	)
	if err != nil {
		return nil, err
	}

	response := make([]*dto.DocumentChunkResponse, 0, len(chunks))
	for _, chunk := range chunks {
		response = append(response, &dto.DocumentChunkResponse{
			Id:         chunk.Id,
			ChunkIndex: chunk.ChunkIndex,
			Content:    chunk.Content,
			Metadata:   chunk.Metadata,
			CreatedAt:  chunk.CreatedAt,
		})
	}
	return response, nil
}

func (s *documentService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if document == nil {
		return nil
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DocumentRepository().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.DocumentChunkRepository().DeleteByDocumentId(ctx, id); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Clear()
	}
	return nil
}

func (s *documentService) Reindex(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if document == nil {
		return fmt.Errorf("document not found: %s", id)
	}

	now := time.Now()
	document.Status = entity.DocumentStatusPending
	document.UpdatedAt = &now
	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return err
	}

	if err := s.requestEmbedding(ctx, document.Id); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.Clear()
	}
	return nil
}

func (s *documentService) requestEmbedding(ctx context.Context, documentId uuid.UUID) error {
	payload := dto.PublishEmbedDocumentMessage{
		DocumentId: documentId,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payloadJson)
}

func mapDocument(document *entity.Document) *dto.DocumentResponse {
	return &dto.DocumentResponse{
		Id:                  document.Id,
		Filename:            document.Filename,
		DisplayName:         document.DisplayName,
		DocumentType:        document.DocumentType,
		Company:             document.Company,
		ComplianceFramework: document.ComplianceFramework,
		QualityLevel:        document.QualityLevel,
		Status:              document.Status,
		ChunkCount:          document.ChunkCount,
		CreatedAt:           document.CreatedAt,
	}
}
