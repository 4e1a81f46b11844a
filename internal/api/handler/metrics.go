package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/saisaravanan/judgeboard/internal/analytics"
)

type MetricsHandler struct {
	service *analytics.Service
}

func NewMetricsHandler(service *analytics.Service) *MetricsHandler {
	return &MetricsHandler{service: service}
}

// GET /api/v1/judges/:id/metrics
//
// A judge with no evaluations yields a 200 with null metrics so the UI
// can render "no data yet"; only upstream read failures become 500s.
func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	judgeID := c.Param("id")
	if judgeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "judge ID is required"})
		return
	}

	metrics, err := h.service.GetMetrics(c.Request.Context(), judgeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// POST /api/v1/judges/:id/metrics/refresh
func (h *MetricsHandler) RefreshMetrics(c *gin.Context) {
	judgeID := c.Param("id")
	if judgeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "judge ID is required"})
		return
	}

	metrics, err := h.service.RefreshMetrics(c.Request.Context(), judgeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to refresh metrics"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"metrics": metrics})
}

// GET /api/v1/judges/:id/series
func (h *MetricsHandler) GetSeries(c *gin.Context) {
	judgeID := c.Param("id")
	if judgeID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "judge ID is required"})
		return
	}

	series, err := h.service.GetSeries(c.Request.Context(), judgeID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build series"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"series": series,
		"count":  len(series),
	})
}

// GET /api/v1/judges/stats
func (h *MetricsHandler) GetFleetStats(c *gin.Context) {
	stats, err := h.service.GetFleetStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to aggregate fleet stats"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
		"count": len(stats),
	})
}
