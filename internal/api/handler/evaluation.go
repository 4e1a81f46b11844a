package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saisaravanan/judgeboard/internal/analytics"
	"github.com/saisaravanan/judgeboard/internal/domain"
	"github.com/saisaravanan/judgeboard/internal/queue"
	"github.com/saisaravanan/judgeboard/internal/storage"
)

type EvaluationHandler struct {
	evalRepo *storage.EvaluationRepo
	queue    *queue.RedisQueue
	service  *analytics.Service
}

func NewEvaluationHandler(evalRepo *storage.EvaluationRepo, q *queue.RedisQueue, service *analytics.Service) *EvaluationHandler {
	return &EvaluationHandler{
		evalRepo: evalRepo,
		queue:    q,
		service:  service,
	}
}

// POST /api/v1/evaluations
//
// Accepts a batch of freshly produced records and enqueues them for
// the ingest worker; persistence happens off the request path.
func (h *EvaluationHandler) Ingest(c *gin.Context) {
	var req struct {
		Evaluations []*domain.EvaluationRecord `json:"evaluations"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if len(req.Evaluations) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "evaluations are required"})
		return
	}

	for _, eval := range req.Evaluations {
		if eval.JudgeID == "" || eval.SubmissionID == "" || eval.QuestionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "judge_id, submission_id and question_id are required"})
			return
		}
		if !eval.Verdict.Decisive() && eval.Verdict != domain.VerdictInconclusive && eval.Verdict != domain.VerdictInconclusiveBadData {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid verdict: " + string(eval.Verdict)})
			return
		}
	}

	if err := h.queue.PublishBatch(c.Request.Context(), req.Evaluations); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to enqueue evaluations"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": "evaluations queued",
		"count":   len(req.Evaluations),
	})
}

// GET /api/v1/evaluations/:id
func (h *EvaluationHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "evaluation ID is required"})
		return
	}

	eval, err := h.evalRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch evaluation"})
		return
	}
	if eval == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "evaluation not found"})
		return
	}

	c.JSON(http.StatusOK, eval)
}

// POST /api/v1/evaluations/:id/review
//
// Completes the human side of a record in one shot, then invalidates
// the judge's cached metrics so the next read reflects the verdict.
func (h *EvaluationHandler) CompleteReview(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "evaluation ID is required"})
		return
	}

	var req domain.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if req.HumanVerdict == "" || req.ReviewedBy == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "human_verdict and reviewed_by are required"})
		return
	}

	eval, err := h.evalRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch evaluation"})
		return
	}
	if eval == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "evaluation not found"})
		return
	}

	if err := h.evalRepo.CompleteReview(c.Request.Context(), id, &req); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to complete review"})
		return
	}

	if err := h.service.Invalidate(c.Request.Context(), eval.JudgeID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "review saved but cache invalidation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "review completed successfully"})
}
