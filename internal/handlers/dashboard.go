package handlers

import (
	"context"
	"net/http"
	"time"

	"data-warehouse-dashboard/internal/store"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	store *store.Store
}

func NewDashboardHandler(s *store.Store) *DashboardHandler {
	return &DashboardHandler{store: s}
}

// DatabaseStatus never fails; an unreachable store reports connected:false.
func (h *DashboardHandler) DatabaseStatus(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	err := h.store.Ping(ctx)
	c.JSON(http.StatusOK, gin.H{"connected": err == nil})
}

func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.store.Stats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch dashboard statistics",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *DashboardHandler) Hello(c *gin.Context) {
	now, err := h.store.Now(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Database query failed",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message":   "Hello World from backend!",
		"timestamp": now,
		"database":  "ai_data_warehouse",
	})
}
