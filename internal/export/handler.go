package export

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coverletter-backend/internal/shared/server/respond"
	"coverletter-backend/internal/shared/telemetry"
)

// Handler serves document exports.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches the export route to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cover-letters/export", h.export)
}

type exportRequest struct {
	Content       string `json:"content"`
	ApplicantName string `json:"applicantName"`
	Format        string `json:"format"`
}

func (h *Handler) export(c *gin.Context) {
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "Content is required")
		return
	}

	var (
		data        []byte
		err         error
		contentType string
	)
	format := strings.ToLower(strings.TrimSpace(req.Format))
	switch format {
	case FormatPDF:
		data, err = PDF(req.Content)
		contentType = ContentTypePDF
	case FormatDOCX:
		data, err = DOCX(req.Content)
		contentType = ContentTypeDOCX
	default:
		respond.Error(c, http.StatusBadRequest, "validation_error", "format must be pdf or docx")
		return
	}
	if err != nil {
		telemetry.Error("export.failed", map[string]any{"format": format, "error": err})
		respond.Error(c, http.StatusInternalServerError, "export_failed", "Failed to export cover letter")
		return
	}

	respond.Attachment(c, contentType, FileName(req.ApplicantName, format), data)
}
