package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saisaravanan/judgeboard/internal/storage"
)

type JudgeHandler struct {
	judgeRepo *storage.JudgeRepo
}

func NewJudgeHandler(judgeRepo *storage.JudgeRepo) *JudgeHandler {
	return &JudgeHandler{judgeRepo: judgeRepo}
}

// GET /api/v1/judges
func (h *JudgeHandler) ListActive(c *gin.Context) {
	judges, err := h.judgeRepo.ListActive(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list judges"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"judges": judges,
		"count":  len(judges),
	})
}

// GET /api/v1/judges/:id
func (h *JudgeHandler) GetByID(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "judge ID is required"})
		return
	}

	judge, err := h.judgeRepo.GetByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch judge"})
		return
	}
	if judge == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "judge not found"})
		return
	}

	c.JSON(http.StatusOK, judge)
}
