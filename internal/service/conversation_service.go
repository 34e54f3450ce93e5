// FILE: internal/service/conversation_service.go
package service

import (
	"context"

	"audit-copilot-be/internal/dto"
	"audit-copilot-be/internal/repository/specification"
	"audit-copilot-be/internal/repository/unitofwork"
	"audit-copilot-be/pkg/workflow"

	"github.com/google/uuid"
)

type IConversationService interface {
	Show(conversationId string) (*dto.ConversationResponse, error)
	List() (*dto.ConversationListResponse, error)
	Delete(conversationId string) error
	Suggest(ctx context.Context, req *dto.SuggestionsRequest) (*dto.SuggestionsResponse, error)
}

type conversationService struct {
	store      workflow.ConversationStore
	uowFactory unitofwork.RepositoryFactory
	suggester  *workflow.QuestionSuggester
}

func NewConversationService(
	store workflow.ConversationStore,
	uowFactory unitofwork.RepositoryFactory,
	suggester *workflow.QuestionSuggester,
) IConversationService {
	return &conversationService{
		store:      store,
		uowFactory: uowFactory,
		suggester:  suggester,
	}
}

func (s *conversationService) Show(conversationId string) (*dto.ConversationResponse, error) {
	turns, err := s.store.History(conversationId)
	if err != nil {
		return nil, err
	}

	response := &dto.ConversationResponse{
		ConversationId: conversationId,
		Turns:          make([]dto.ConversationTurnResponse, 0, len(turns)),
	}
	for _, turn := range turns {
		response.Turns = append(response.Turns, dto.ConversationTurnResponse{
			Role:      turn.Role,
			Content:   turn.Content,
			CreatedAt: turn.CreatedAt,
		})
	}
	return response, nil
}

func (s *conversationService) List() (*dto.ConversationListResponse, error) {
	ids, err := s.store.List()
	if err != nil {
		return nil, err
	}
	return &dto.ConversationListResponse{ConversationIds: ids}, nil
}

func (s *conversationService) Delete(conversationId string) error {
	return s.store.Delete(conversationId)
}

// Suggest proposes questions for the chat surface. When a document id is
// given, its stored type and framework fill in whatever the caller omitted.
func (s *conversationService) Suggest(ctx context.Context, req *dto.SuggestionsRequest) (*dto.SuggestionsResponse, error) {
	documentType := req.DocumentType
	framework := req.ComplianceFramework

	if req.DocumentId != "" {
		id, err := uuid.Parse(req.DocumentId)
		if err != nil {
			return nil, err
		}
		uow := s.uowFactory.NewUnitOfWork(ctx)
		document, err := uow.DocumentRepository().FindOne(ctx, specification.ByID{ID: id})
		if err != nil {
			return nil, err
		}
		if document != nil {
			if documentType == "" {
				documentType = document.DocumentType
			}
			if framework == "" {
				framework = document.ComplianceFramework
			}
		}
	}

	suggestions, err := s.suggester.Suggest(ctx, documentType, framework)
	if err != nil {
		return nil, err
	}

	return &dto.SuggestionsResponse{
		DocumentId: req.DocumentId,
		Questions:  suggestions.Questions,
		Categories: suggestions.Categories,
		Fallback:   suggestions.Fallback,
	}, nil
}
