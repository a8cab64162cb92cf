package docs

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"docguard-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the docs service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches document routes to the router group. Document
// paths contain slashes, so lookups take the path as a query parameter.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents", h.register)
	rg.GET("/documents", h.list)
	rg.GET("/documents/content", h.content)
}

type registerRequest struct {
	FilePath string `json:"filePath"`
	Content  string `json:"content"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	doc, err := h.Svc.Register(c.Request.Context(), req.FilePath, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "file path and content are required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to register document", nil)
		}
		return
	}

	respond.Created(c, toResponse(doc))
}

func (h *Handler) list(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	items, err := h.Svc.Repo.List(c.Request.Context(), limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	out := make([]documentResponse, 0, len(items))
	for _, doc := range items {
		out = append(out, toResponse(doc))
	}
	respond.OK(c, gin.H{"documents": out, "limit": limit, "offset": offset})
}

func (h *Handler) content(c *gin.Context) {
	filePath := c.Query("path")
	if filePath == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "path query parameter is required", nil)
		return
	}

	doc, content, err := h.Svc.Content(c.Request.Context(), filePath)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load document", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"document": toResponse(doc),
		"content":  content,
	})
}

type documentResponse struct {
	ID          string `json:"id"`
	FilePath    string `json:"filePath"`
	ContentHash string `json:"contentHash"`
	SizeBytes   int64  `json:"sizeBytes"`
	CreatedAt   string `json:"createdAt"`
	UpdatedAt   string `json:"updatedAt"`
}

func toResponse(doc Document) documentResponse {
	return documentResponse{
		ID:          doc.ID,
		FilePath:    doc.FilePath,
		ContentHash: doc.ContentHash,
		SizeBytes:   doc.SizeBytes,
		CreatedAt:   doc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   doc.UpdatedAt.Format(time.RFC3339),
	}
}
