package handlers

import (
	"net/http"

	"data-warehouse-dashboard/internal/analytics"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	svc *analytics.Service
}

func NewAnalyticsHandler(svc *analytics.Service) *AnalyticsHandler {
	return &AnalyticsHandler{svc: svc}
}

func (h *AnalyticsHandler) UsersPerMonth(c *gin.Context) {
	rows, err := h.svc.UsersPerMonth(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch users per month data",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *AnalyticsHandler) UsersByCountry(c *gin.Context) {
	rows, err := h.svc.UsersByCountry(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch users by country data",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *AnalyticsHandler) ActivityTrends(c *gin.Context) {
	trends, err := h.svc.ActivityTrends(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch activity trends data",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, trends)
}

func (h *AnalyticsHandler) RecentEntries(c *gin.Context) {
	entries, err := h.svc.RecentEntries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch recent entries data",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *AnalyticsHandler) ProductPerformance(c *gin.Context) {
	rows, err := h.svc.ProductPerformance(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch product performance data",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *AnalyticsHandler) ProductCategories(c *gin.Context) {
	rows, err := h.svc.ProductCategories(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch product categories data",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *AnalyticsHandler) WebsiteLoadTimes(c *gin.Context) {
	rows, err := h.svc.WebsiteLoadTimes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch website load time data",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}
