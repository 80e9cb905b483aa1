package coverletters

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches cover letter routes. Every route requires a signed-in caller.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/cover-letters", middleware.RequireAuth())
	g.GET("", h.list)
	g.POST("", h.create)
	g.PATCH("", h.update)
	g.DELETE("", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	limit := defaultLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}

	page, err := h.Svc.List(c.Request.Context(), middleware.UserIDFromContext(c), limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, page)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}
	cl, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, gin.H{"data": cl})
}

func (h *Handler) update(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}
	cl, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Query("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"data": cl})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Query("id")); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "))
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Cover letter not found")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to process cover letter request")
	}
}
