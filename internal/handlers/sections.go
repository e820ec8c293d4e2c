package handlers

import (
	"net/http"

	"data-warehouse-dashboard/internal/store"

	"github.com/gin-gonic/gin"
)

// SectionHandler serves the per-section table listings. Every listing is
// ordered by its documented sort key and joined rows tolerate dangling
// references.
type SectionHandler struct {
	store *store.Store
}

func NewSectionHandler(s *store.Store) *SectionHandler {
	return &SectionHandler{store: s}
}

func (h *SectionHandler) ListUsers(c *gin.Context) {
	rows, err := h.store.ListUsers(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch users",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *SectionHandler) ListTransactions(c *gin.Context) {
	rows, err := h.store.ListTransactions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch transactions",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *SectionHandler) ListProducts(c *gin.Context) {
	rows, err := h.store.ListProducts(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch products",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *SectionHandler) ListSupportTickets(c *gin.Context) {
	rows, err := h.store.ListSupportTickets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch support tickets",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *SectionHandler) ListSessions(c *gin.Context) {
	rows, err := h.store.ListSessions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch sessions",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *SectionHandler) ListSubmissions(c *gin.Context) {
	rows, err := h.store.ListSubmissions(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to fetch submissions",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, rows)
}
