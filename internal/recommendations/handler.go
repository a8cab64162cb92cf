package recommendations

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"docguard-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the recommendations service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches recommendation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/validations/:id/recommendations", h.intake)
	rg.GET("/validations/:id/recommendations", h.list)
	rg.PATCH("/recommendations/:id", h.setStatus)
}

type intakeRequest struct {
	Recommendations []Draft `json:"recommendations"`
}

func (h *Handler) intake(c *gin.Context) {
	validationID := c.Param("id")

	var req intakeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	recs, err := h.Svc.Intake(c.Request.Context(), validationID, req.Recommendations)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to store recommendations", nil)
		}
		return
	}

	respond.Created(c, gin.H{
		"validationId":    validationID,
		"recommendations": toResponses(recs),
	})
}

func (h *Handler) list(c *gin.Context) {
	validationID := c.Param("id")
	status := c.Query("status")
	if status != "" && status != StatusProposed && status != StatusApproved && status != StatusRejected && status != StatusApplied {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unknown status filter", nil)
		return
	}

	recs, err := h.Svc.ListForValidation(c.Request.Context(), validationID, status)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "validation id is required", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list recommendations", nil)
		}
		return
	}

	respond.OK(c, gin.H{
		"validationId":    validationID,
		"recommendations": toResponses(recs),
	})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *Handler) setStatus(c *gin.Context) {
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	rec, err := h.Svc.SetStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "recommendation not found", nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", "status cannot be set", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to update recommendation", nil)
		}
		return
	}

	respond.OK(c, toResponse(rec))
}

type recommendationResponse struct {
	ID           string  `json:"id"`
	ValidationID string  `json:"validationId"`
	FilePath     string  `json:"filePath"`
	Type         string  `json:"type"`
	Scope        Scope   `json:"scope"`
	Instruction  string  `json:"instruction"`
	Confidence   float64 `json:"confidence"`
	Status       string  `json:"status"`
	SkipReason   string  `json:"skipReason,omitempty"`
	CreatedAt    string  `json:"createdAt"`
}

func toResponse(rec Recommendation) recommendationResponse {
	return recommendationResponse{
		ID:           rec.ID,
		ValidationID: rec.ValidationID,
		FilePath:     rec.FilePath,
		Type:         rec.Type,
		Scope:        rec.Scope,
		Instruction:  rec.Instruction,
		Confidence:   rec.Confidence,
		Status:       rec.Status,
		SkipReason:   rec.SkipReason,
		CreatedAt:    rec.CreatedAt.Format(time.RFC3339),
	}
}

func toResponses(recs []Recommendation) []recommendationResponse {
	out := make([]recommendationResponse, 0, len(recs))
	for _, rec := range recs {
		out = append(out, toResponse(rec))
	}
	return out
}
