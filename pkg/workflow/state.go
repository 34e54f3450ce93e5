package workflow

import (
	"time"

	"audit-copilot-be/pkg/classify"
	"audit-copilot-be/pkg/guidance"
	"audit-copilot-be/pkg/llm"
	"audit-copilot-be/pkg/retrieval"

	"github.com/google/uuid"
)

type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Stage status values recorded per stage.
const (
	StageCompleted = "completed"
	StageFailed    = "failed"
	StageDegraded  = "degraded"
)

// Stage names in pipeline order.
const (
	StageQuestionAnalysis   = "question_analysis"
	StageContextRetrieval   = "context_retrieval"
	StageClassification     = "document_classification"
	StageCompliance         = "compliance_analysis"
	StageRegulatorySearch   = "regulatory_search"
	StageSynthesis          = "response_synthesis"
	StageDocumentProcessing = "document_processing"
)

// StageResult is the envelope metadata recorded for one stage execution.
// Typed stage payloads are merged into the run state slots separately.
type StageResult struct {
	Status        string        `json:"status"`
	ExecutionTime time.Duration `json:"execution_time"`
	TokenUsage    *llm.Usage    `json:"token_usage,omitempty"`
	Error         string        `json:"error,omitempty"`
}

// QuestionAnalysis is the structured reading of the user's question.
type QuestionAnalysis struct {
	Intent     string   `json:"intent"`
	Complexity string   `json:"complexity"`
	KeyTerms   []string `json:"key_terms"`
}

// RetrievedContext holds the ranked chunks plus how they were fetched.
type RetrievedContext struct {
	Results  []retrieval.SearchResult
	Strategy string
	Method   string
}

// ComplianceAnalysis is the model's compliance reading of the retrieved context.
type ComplianceAnalysis struct {
	Summary    string   `json:"summary"`
	Frameworks []string `json:"frameworks"`
	KeyRisks   []string `json:"key_risks"`
}

// RunState is the single mutable state threaded through one workflow run.
// It is owned by exactly one Engine.Run invocation and never shared.
type RunState struct {
	RunID          string
	Question       string
	ConversationID string
	DocumentID     string
	MultiDocument  bool

	Analysis        *QuestionAnalysis
	Retrieved       *RetrievedContext
	Classifications map[string]*classify.Classification
	Compliance      *ComplianceAnalysis
	Regulatory      *guidance.GuidanceResult
	FinalResponse   string

	StartedAt    time.Time
	EndedAt      time.Time
	Status       Status
	Errors       []string
	StageResults map[string]*StageResult
}

func NewRunState(req RunRequest) *RunState {
	conversationID := req.ConversationID
	if conversationID == "" {
		conversationID = uuid.NewString()
	}
	return &RunState{
		RunID:           uuid.NewString(),
		Question:        req.Question,
		ConversationID:  conversationID,
		DocumentID:      req.DocumentID,
		MultiDocument:   req.MultiDocument,
		Classifications: make(map[string]*classify.Classification),
		StartedAt:       time.Now(),
		Status:          StatusRunning,
		StageResults:    make(map[string]*StageResult),
	}
}

// RecordStage merges one stage's envelope into the state. Entries are only
// ever added per stage name, never wholesale-replaced.
func (s *RunState) RecordStage(name string, result *StageResult) {
	s.StageResults[name] = result
}

// AddError appends a stage failure. Errors only grow within a run.
func (s *RunState) AddError(stage string, message string) {
	s.Errors = append(s.Errors, stage+": "+message)
}
