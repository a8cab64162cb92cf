package preview

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docguard-backend/internal/docs"
	"docguard-backend/internal/enhance"
	"docguard-backend/internal/history"
	"docguard-backend/internal/shared/server/middleware"
	"docguard-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the preview service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches preview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/validations/:id/preview", h.generate)
	rg.GET("/previews/:id", h.get)
	rg.POST("/previews/:id/apply", h.apply)
	rg.POST("/previews/:id/reject", h.reject)
}

type previewResponse struct {
	Preview
	SideBySide []enhance.DiffRow `json:"sideBySide"`
}

func toResponse(p Preview) previewResponse {
	resp := previewResponse{Preview: p}
	if p.Result != nil {
		resp.SideBySide = enhance.SideBySide(p.Result.OriginalContent, p.Result.EnhancedContent)
	}
	return resp
}

type generateRequest struct {
	Keywords                   []string `json:"keywords"`
	ProductNames               []string `json:"productNames"`
	TechnicalTerms             []string `json:"technicalTerms"`
	MaxContentReductionPercent *float64 `json:"maxContentReductionPercent"`
}

func (r generateRequest) rules() enhance.PreservationRules {
	rules := enhance.DefaultRules()
	rules.Keywords = r.Keywords
	rules.ProductNames = r.ProductNames
	rules.TechnicalTerms = r.TechnicalTerms
	if r.MaxContentReductionPercent != nil {
		rules.MaxContentReductionPercent = *r.MaxContentReductionPercent
	}
	return rules
}

func (h *Handler) generate(c *gin.Context) {
	validationID := c.Param("id")

	var req generateRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	p, err := h.Svc.Generate(c.Request.Context(), validationID, req.rules())
	if err != nil {
		var pf *enhance.PreflightError
		switch {
		case errors.Is(err, ErrNoRecommendations):
			respond.Error(c, http.StatusNotFound, "not_found", "no approved recommendations for validation", nil)
		case errors.Is(err, ErrMixedFilePaths):
			respond.Error(c, http.StatusBadRequest, "validation_error", "recommendations target multiple file paths", nil)
		case errors.Is(err, docs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not registered", nil)
		case errors.As(err, &pf):
			respond.Error(c, http.StatusUnprocessableEntity, "preflight_failed", "batch failed pre-flight validation", pf.Diagnostics)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to generate preview", nil)
		}
		return
	}

	respond.Created(c, toResponse(p))
}

func (h *Handler) get(c *gin.Context) {
	p, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrPreviewNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "preview not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load preview", nil)
		}
		return
	}
	respond.OK(c, toResponse(p))
}

type applyRequest struct {
	Confirm bool `json:"confirm"`
}

func (h *Handler) apply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil || !req.Confirm {
		respond.Error(c, http.StatusBadRequest, "confirmation_required", "apply requires confirm=true", nil)
		return
	}

	result, err := h.Svc.Apply(c.Request.Context(), c.Param("id"), middleware.ReviewerFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrPreviewNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "preview not found", nil)
		case errors.Is(err, ErrPreviewExpired):
			respond.Error(c, http.StatusConflict, "preview_expired", "preview expired or already resolved", nil)
		case errors.Is(err, history.ErrNotCommittable):
			respond.Error(c, http.StatusConflict, "not_committable", "preview failed its safety gate and cannot be applied", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to apply preview", nil)
		}
		return
	}

	respond.OK(c, result)
}

func (h *Handler) reject(c *gin.Context) {
	err := h.Svc.Reject(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrPreviewNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "preview not found", nil)
		case errors.Is(err, ErrPreviewExpired):
			respond.Error(c, http.StatusConflict, "preview_expired", "preview expired or already resolved", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to reject preview", nil)
		}
		return
	}
	respond.OK(c, gin.H{"previewId": c.Param("id"), "status": StatusRejected})
}
