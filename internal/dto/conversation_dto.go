package dto

import "time"

type ConversationTurnResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationResponse struct {
	ConversationId string                     `json:"conversation_id"`
	Turns          []ConversationTurnResponse `json:"turns"`
}

type ConversationListResponse struct {
	ConversationIds []string `json:"conversation_ids"`
}

type SuggestionsRequest struct {
	DocumentId          string `query:"document_id" validate:"omitempty,uuid"`
	DocumentType        string `query:"document_type"`
	ComplianceFramework string `query:"compliance_framework"`
}

type SuggestionsResponse struct {
	DocumentId string   `json:"document_id,omitempty"`
	Questions  []string `json:"questions"`
	Categories []string `json:"categories"`
	Fallback   bool     `json:"fallback"`
}
