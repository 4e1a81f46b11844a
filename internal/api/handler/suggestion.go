package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saisaravanan/judgeboard/internal/analytics"
	"github.com/saisaravanan/judgeboard/internal/domain"
	"github.com/saisaravanan/judgeboard/internal/storage"
	"github.com/saisaravanan/judgeboard/internal/suggest"
)

type SuggestionHandler struct {
	suggRepo  *storage.SuggestionRepo
	service   *analytics.Service
	suggester *suggest.Suggester
}

func NewSuggestionHandler(suggRepo *storage.SuggestionRepo, service *analytics.Service, suggester *suggest.Suggester) *SuggestionHandler {
	return &SuggestionHandler{
		suggRepo:  suggRepo,
		service:   service,
		suggester: suggester,
	}
}

// GET /api/v1/suggestions?judge_id=...&status=...
func (h *SuggestionHandler) List(c *gin.Context) {
	judgeID := c.Query("judge_id")
	if judgeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "judge_id is required"})
		return
	}

	var status *domain.SuggestionStatus
	if s := c.Query("status"); s != "" {
		st := domain.SuggestionStatus(s)
		status = &st
	}

	suggestions, err := h.suggRepo.List(c.Request.Context(), judgeID, status, 50)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list suggestions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// POST /api/v1/suggestions/generate
//
// Recomputes the judge's metrics and asks the suggester to turn the
// detected failure patterns into pending rubric suggestions.
func (h *SuggestionHandler) Generate(c *gin.Context) {
	if h.suggester == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "suggestion generation is not configured"})
		return
	}

	var req struct {
		JudgeID string `json:"judge_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.JudgeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "judge_id is required"})
		return
	}

	metrics, err := h.service.RefreshMetrics(c.Request.Context(), req.JudgeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute metrics"})
		return
	}
	if metrics == nil || len(metrics.FailurePatterns) == 0 {
		c.JSON(http.StatusOK, gin.H{
			"suggestions": []*domain.Suggestion{},
			"message":     "no failure patterns detected",
		})
		return
	}

	suggestions, err := h.suggester.GenerateSuggestions(c.Request.Context(), req.JudgeID, metrics.FailurePatterns)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate suggestions"})
		return
	}

	for _, s := range suggestions {
		if err := h.suggRepo.Create(c.Request.Context(), s); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save suggestions"})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"suggestions": suggestions,
		"count":       len(suggestions),
	})
}

// POST /api/v1/suggestions/:id/approve
func (h *SuggestionHandler) Approve(c *gin.Context) {
	h.updateStatus(c, domain.SuggestionStatusApproved)
}

// POST /api/v1/suggestions/:id/reject
func (h *SuggestionHandler) Reject(c *gin.Context) {
	h.updateStatus(c, domain.SuggestionStatusRejected)
}

func (h *SuggestionHandler) updateStatus(c *gin.Context, status domain.SuggestionStatus) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "suggestion ID is required"})
		return
	}

	if err := h.suggRepo.UpdateStatus(c.Request.Context(), id, status); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update suggestion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "suggestion " + string(status)})
}
