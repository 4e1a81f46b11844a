package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// QueueDepth reports how many entries sit on the ingest stream.
type QueueDepth interface {
	Len(ctx context.Context) (int64, error)
}

type HealthHandler struct {
	queue QueueDepth
}

func NewHealthHandler(queue QueueDepth) *HealthHandler {
	return &HealthHandler{queue: queue}
}

// GET /health
//
// Always 200 while the process serves; a queue read failure degrades
// the payload, not the status, so load balancers keep routing.
func (h *HealthHandler) Status(c *gin.Context) {
	resp := gin.H{"status": "ok"}

	if h.queue != nil {
		if depth, err := h.queue.Len(c.Request.Context()); err == nil {
			resp["queue_depth"] = depth
		} else {
			resp["queue_depth_error"] = "unavailable"
		}
	}

	c.JSON(http.StatusOK, resp)
}
