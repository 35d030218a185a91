package handler

import (
	"net/http"

	"mailstats/internal/logger"
	"mailstats/internal/model"
	"mailstats/internal/service"

	"github.com/gin-gonic/gin"
)

type StatsHandler struct{ stats *service.StatsService }

func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// Stats handles GET /api/stats?startDate=&endDate=&email=
func (h *StatsHandler) Stats(c *gin.Context) {
	rows, err := h.stats.QueryStats(c.Request.Context(),
		c.Query("startDate"), c.Query("endDate"), c.Query("email"))
	if err != nil {
		logger.Error("stats query failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch statistics", "details": err.Error()})
		return
	}
	if rows == nil {
		rows = []model.StatsRow{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows, "count": len(rows)})
}

// Summary handles GET /api/summary?startDate=&endDate=
func (h *StatsHandler) Summary(c *gin.Context) {
	rows, err := h.stats.QuerySummary(c.Request.Context(),
		c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		logger.Error("summary query failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch summary", "details": err.Error()})
		return
	}
	if rows == nil {
		rows = []model.SummaryRow{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": rows, "count": len(rows)})
}
