package workflow

import (
	"context"
	"fmt"

	"audit-copilot-be/pkg/utils"
)

// ProcessedDocument is the chunked form of an ingested document.
type ProcessedDocument struct {
	Chunks     []string
	ChunkCount int
	CharCount  int
}

// DocumentProcessor normalizes and chunks raw document text during
// ingestion. It runs through the same stage envelope as the question
// pipeline so processing shows up in stage telemetry.
type DocumentProcessor struct {
	chunkSize int
	overlap   int
}

func NewDocumentProcessor(chunkSize, overlap int) *DocumentProcessor {
	if chunkSize <= 0 {
		chunkSize = 1500
	}
	if overlap < 0 {
		overlap = 200
	}
	return &DocumentProcessor{chunkSize: chunkSize, overlap: overlap}
}

func (p *DocumentProcessor) Process(ctx context.Context, content string) (*ProcessedDocument, error) {
	normalized := utils.NormalizeText(content)
	if normalized == "" {
		return nil, fmt.Errorf("document has no extractable text")
	}

	chunks := utils.SplitText(normalized, p.chunkSize, p.overlap)
	return &ProcessedDocument{
		Chunks:     chunks,
		ChunkCount: len(chunks),
		CharCount:  len(normalized),
	}, nil
}

// ProcessWithState runs processing inside the stage envelope against an
// ingestion-scoped run state.
func (p *DocumentProcessor) ProcessWithState(ctx context.Context, state *RunState, content string) (*ProcessedDocument, bool) {
	return runStage(ctx, state, StageDocumentProcessing, func(ctx context.Context) (stagePayload[*ProcessedDocument], error) {
		processed, err := p.Process(ctx, content)
		return stagePayload[*ProcessedDocument]{value: processed}, err
	})
}
