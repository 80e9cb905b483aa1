package generation

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/llm"
	"coverletter-backend/internal/prompts"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
	// Limit runs before generation when set.
	Limit gin.HandlerFunc
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, limit gin.HandlerFunc) *Handler {
	return &Handler{Svc: svc, Limit: limit}
}

// RegisterRoutes attaches the generation route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	handlers := []gin.HandlerFunc{}
	if h.Limit != nil {
		handlers = append(handlers, h.Limit)
	}
	handlers = append(handlers, h.generate)
	rg.POST("/generate-cover-letter", handlers...)
}

func (h *Handler) generate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}

	text, err := h.Svc.Generate(c.Request.Context(), middleware.CallerFromContext(c), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "Missing required fields")
		case errors.Is(err, prompts.ErrNoDefaultPrompt):
			respond.Error(c, http.StatusNotFound, "no_default_prompt", err.Error())
		case errors.Is(err, llm.ErrRateLimited):
			c.Header("Retry-After", "60")
			respond.Error(c, http.StatusTooManyRequests, "rate_limited", "Rate limit exceeded. Please try again later.")
		case errors.Is(err, llm.ErrGenerationFailed):
			respond.Error(c, http.StatusBadGateway, "generation_failed", "Failed to generate cover letter")
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to generate cover letter")
		}
		return
	}

	respond.Text(c, http.StatusOK, text)
}
