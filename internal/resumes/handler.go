package resumes

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/auth"
	"coverletter-backend/internal/shared/server/middleware"
	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/shared/storage/object"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 50
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches résumé routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/resumes", h.upload)
	rg.GET("/resumes", middleware.RequireAuth(), h.get)
	rg.PATCH("/resumes", middleware.RequireAuth(), h.update)
	rg.DELETE("/resumes", middleware.RequireAuth(), h.delete)
	rg.POST("/resumes/upload-url", middleware.RequireAuth(), h.uploadURL)
}

type uploadRequest struct {
	File FileInput `json:"file"`
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, 2*MaxFileSize)
	ctx := c.Request.Context()

	switch caller := middleware.CallerFromContext(c).(type) {
	case auth.Authenticated:
		if strings.HasPrefix(c.ContentType(), "multipart/") {
			h.uploadMultipart(c, caller.UserID)
			return
		}
		var req uploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid JSON body")
			return
		}
		var (
			res Resume
			err error
		)
		if req.File.StoragePath == "" && req.File.Content != "" {
			res, err = h.Svc.UploadInline(ctx, caller.UserID, req.File)
		} else {
			res, err = h.Svc.RegisterStored(ctx, caller.UserID, req.File)
		}
		if err != nil {
			writeError(c, err)
			return
		}
		respond.JSON(c, http.StatusCreated, res)

	default:
		var req uploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid JSON body")
			return
		}
		parsed, err := h.Svc.ParseAnonymous(ctx, req.File)
		if err != nil {
			writeError(c, err)
			return
		}
		respond.OK(c, parsed)
	}
}

func (h *Handler) uploadMultipart(c *gin.Context, userID string) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file")
		return
	}
	defer file.Close()

	isDefault, _ := strconv.ParseBool(c.PostForm("is_default"))
	res, err := h.Svc.UploadFile(c.Request.Context(), userID, fileHeader.Filename, file, isDefault)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.JSON(c, http.StatusCreated, res)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if id := c.Query("id"); id != "" {
		detail, err := h.Svc.Get(c.Request.Context(), userID, id)
		if err != nil {
			writeError(c, err)
			return
		}
		respond.OK(c, detail)
		return
	}

	limit, offset := pageParams(c)
	page, err := h.Svc.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, page)
}

func (h *Handler) update(c *gin.Context) {
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}
	res, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), c.Query("id"), patch)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, res)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), middleware.UserIDFromContext(c), c.Query("id")); err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, gin.H{"success": true})
}

func (h *Handler) uploadURL(c *gin.Context) {
	var req struct {
		FileName string `json:"filename"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}
	ticket, err := h.Svc.UploadURL(c.Request.Context(), middleware.UserIDFromContext(c), req.FileName)
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, ticket)
}

func pageParams(c *gin.Context) (int, int) {
	limit := defaultPageLimit
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			limit = v
		}
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	offset := 0
	if raw := c.Query("offset"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v >= 0 {
			offset = v
		}
	}
	return limit, offset
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", strings.TrimPrefix(err.Error(), ErrInvalidInput.Error()+": "))
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Resume not found")
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "Storage path does not belong to caller")
	case errors.Is(err, object.ErrSigningUnsupported):
		respond.Error(c, http.StatusNotImplemented, "signing_unsupported", "Direct uploads are not supported by this store")
	case errors.Is(err, ErrDownloadURL):
		respond.Error(c, http.StatusInternalServerError, "download_url_failed", "Failed to generate download URL")
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "Failed to process resume request")
	}
}
