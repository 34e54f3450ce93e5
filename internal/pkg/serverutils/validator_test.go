package serverutils

import (
	"testing"

	"audit-copilot-be/internal/dto"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRequestAcceptsValidBody(t *testing.T) {
	req := dto.RunWorkflowRequest{Question: "Are access reviews compliant with SOX?"}
	assert.NoError(t, ValidateRequest(req))
}

func TestValidateRequestRejectsMissingQuestion(t *testing.T) {
	err := ValidateRequest(dto.RunWorkflowRequest{})
	require.Error(t, err)

	fiberErr, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Equal(t, fiber.StatusBadRequest, fiberErr.Code)
	assert.Contains(t, fiberErr.Message, "Question")
}

func TestValidateRequestRejectsMalformedUUID(t *testing.T) {
	err := ValidateRequest(dto.RunWorkflowRequest{
		Question:   "What controls cover financial reconciliation?",
		DocumentId: "not-a-uuid",
	})
	require.Error(t, err)

	fiberErr, ok := err.(*fiber.Error)
	require.True(t, ok)
	assert.Contains(t, fiberErr.Message, "DocumentId")
}

func TestResponseEnvelopes(t *testing.T) {
	ok := SuccessResponse("done", 42)
	assert.True(t, ok.Success)
	assert.Equal(t, 42, ok.Data)

	bad := ErrorResponse(500, "boom")
	assert.False(t, bad.Success)
	assert.Equal(t, 500, bad.Code)
}
