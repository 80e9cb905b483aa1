package prompts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches prompt routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/custom-prompts", h.get)
	rg.GET("/custom-prompts/default", h.globalDefault)
	rg.POST("/custom-prompts", middleware.RequireAuth(), h.create)
	rg.PATCH("/custom-prompts", middleware.RequireAuth(), h.update)
	rg.DELETE("/custom-prompts", middleware.RequireAuth(), h.delete)
}

func (h *Handler) get(c *gin.Context) {
	if strings.EqualFold(c.Query("default"), "true") {
		h.globalDefault(c)
		return
	}

	caller := middleware.CallerFromContext(c)
	if id := c.Query("id"); id != "" {
		t, err := h.Svc.Get(c.Request.Context(), caller, id)
		if err != nil {
			writeError(c, err)
			return
		}
		respond.OK(c, t)
		return
	}

	items, err := h.Svc.List(c.Request.Context(), caller)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"data": items})
}

func (h *Handler) globalDefault(c *gin.Context) {
	t, err := h.Svc.GlobalDefault(c.Request.Context())
	if err != nil {
		if errors.Is(err, ErrNoDefaultPrompt) {
			respond.Error(c, http.StatusNotFound, "not_found", "Default prompt not found")
			return
		}
		writeError(c, err)
		return
	}
	respond.OK(c, t)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Name and prompt text are required")
			return
		}
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, t)
}

func (h *Handler) update(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing prompt ID")
		return
	}
	var patch Patch
	if err := json.NewDecoder(c.Request.Body).Decode(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, t)
}

func (h *Handler) delete(c *gin.Context) {
	id := c.Query("id")
	if id == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Missing prompt ID")
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), id); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Prompt not found")
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "The global prompt cannot be modified")
	case errors.Is(err, ErrNoDefaultPrompt):
		respond.Error(c, http.StatusNotFound, "no_default_prompt", err.Error())
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to process prompt request")
	}
}
