package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lalaji/replenish/internal/service"
)

type ReportHandler struct {
	service *service.ReportService
}

func NewReportHandler(service *service.ReportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// GetReport returns chart-ready labels and datasets for a report type.
// Time-bucketed reports accept ?period=daily|weekly|monthly (default weekly).
func (h *ReportHandler) GetReport(c *gin.Context) {
	reportType := c.Param("type")
	period := c.Query("period")

	report, err := h.service.GenerateReport(c.Request.Context(), reportType, period)
	if err != nil {
		if errors.Is(err, service.ErrUnknownReport) || errors.Is(err, service.ErrUnknownPeriod) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, report)
}

// GetInventoryStats returns headline inventory figures, served from cache
// when available.
func (h *ReportHandler) GetInventoryStats(c *gin.Context) {
	stats, err := h.service.GetInventoryStats(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, stats)
}
