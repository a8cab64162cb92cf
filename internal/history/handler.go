package history

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"docguard-backend/internal/shared/server/middleware"
	"docguard-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the history service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches history routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/enhancements", h.listByPath)
	rg.GET("/enhancements/:id", h.getRecord)
	rg.GET("/enhancements/:id/audit", h.listAudit)
	rg.POST("/enhancements/:id/rollback", h.rollback)
}

func (h *Handler) getRecord(c *gin.Context) {
	rec, err := h.Svc.Record(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "enhancement record not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load enhancement record", nil)
		}
		return
	}
	respond.OK(c, toRecordResponse(rec))
}

func (h *Handler) listByPath(c *gin.Context) {
	filePath := c.Query("path")
	if filePath == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "path query parameter is required", nil)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit < 1 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	records, err := h.Svc.RecordsForPath(c.Request.Context(), filePath, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list enhancement records", nil)
		return
	}

	out := make([]recordResponse, 0, len(records))
	for _, rec := range records {
		out = append(out, toRecordResponse(rec))
	}
	respond.OK(c, gin.H{"filePath": filePath, "enhancements": out})
}

func (h *Handler) listAudit(c *gin.Context) {
	events, err := h.Svc.Events(c.Request.Context(), c.Param("id"))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load audit trail", nil)
		return
	}

	out := make([]auditResponse, 0, len(events))
	for _, ev := range events {
		out = append(out, auditResponse{
			ID:            ev.ID,
			EnhancementID: ev.EnhancementID,
			EventType:     ev.EventType,
			Actor:         ev.Actor,
			Detail:        ev.Detail,
			CreatedAt:     ev.CreatedAt.Format(time.RFC3339),
		})
	}
	respond.OK(c, gin.H{"enhancementId": c.Param("id"), "events": out})
}

func (h *Handler) rollback(c *gin.Context) {
	result, err := h.Svc.Rollback(c.Request.Context(), c.Param("id"), middleware.ReviewerFromContext(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrRecordNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "enhancement record not found", nil)
		case errors.Is(err, ErrRollbackNotAvailable):
			respond.Error(c, http.StatusConflict, "rollback_not_available", "rollback point is missing, expired, or already used", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to roll back enhancement", nil)
		}
		return
	}
	respond.OK(c, result)
}

type recordResponse struct {
	EnhancementID     string   `json:"enhancementId"`
	FilePath          string   `json:"filePath"`
	HashBefore        string   `json:"hashBefore"`
	HashAfter         string   `json:"hashAfter"`
	AppliedIDs        []string `json:"appliedIds"`
	SafetyScore       float64  `json:"safetyScore"`
	AppliedBy         string   `json:"appliedBy"`
	AppliedAt         string   `json:"appliedAt"`
	RollbackAvailable bool     `json:"rollbackAvailable"`
}

func toRecordResponse(rec EnhancementRecord) recordResponse {
	return recordResponse{
		EnhancementID:     rec.EnhancementID,
		FilePath:          rec.FilePath,
		HashBefore:        rec.HashBefore,
		HashAfter:         rec.HashAfter,
		AppliedIDs:        rec.AppliedIDs,
		SafetyScore:       rec.SafetyScore,
		AppliedBy:         rec.AppliedBy,
		AppliedAt:         rec.AppliedAt.Format(time.RFC3339),
		RollbackAvailable: rec.RollbackAvailable,
	}
}

type auditResponse struct {
	ID            int64  `json:"id"`
	EnhancementID string `json:"enhancementId"`
	EventType     string `json:"eventType"`
	Actor         string `json:"actor"`
	Detail        string `json:"detail"`
	CreatedAt     string `json:"createdAt"`
}
