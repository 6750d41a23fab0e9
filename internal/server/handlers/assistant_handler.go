package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/acai-manager/internal/service/assistant"
)

const sessionHeader = "X-Session-ID"

// Assistant handles natural-language instructions.
type Assistant interface {
	Handle(ctx context.Context, sessionID, prompt string) (assistant.Result, error)
}

// AssistantHandler exposes the assistant to the operator.
type AssistantHandler struct {
	assistant Assistant
	logger    *zap.Logger
}

// NewAssistantHandler constructs the assistant HTTP adapter.
func NewAssistantHandler(a Assistant, logger *zap.Logger) *AssistantHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssistantHandler{assistant: a, logger: logger}
}

type assistantRequest struct {
	Prompt string `json:"prompt" binding:"required,max=2000"`
}

// Ask relays the prompt and returns the reply plus whatever was applied.
func (h *AssistantHandler) Ask(c *gin.Context) {
	var req assistantRequest
	if !bindJSON(c, h.logger, &req) {
		return
	}

	result, err := h.assistant.Handle(c.Request.Context(), c.GetHeader(sessionHeader), req.Prompt)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
