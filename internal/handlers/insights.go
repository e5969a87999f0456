package handlers

import (
	"errors"
	"net/http"

	sb "smart_budget"
	"smart_budget/internal/service"

	"github.com/gin-gonic/gin"
)

// @Summary      Per-month summaries
// @Tags         insights
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, summaries"
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/insights/summary [get]
// @Security     BearerAuth
func (h *Handler) getSummaries(c *gin.Context) {
	summaries, err := h.services.Summaries(c.Request.Context(), currentUser(c))
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLedger, "insights_summaries_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(summaries), "summaries": summaries})
}

// @Summary      Month-over-month trends
// @Description  Requires at least 2 recorded months
// @Tags         insights
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, trends"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/insights/trends [get]
// @Security     BearerAuth
func (h *Handler) getTrends(c *gin.Context) {
	trends, err := h.services.Trends(c.Request.Context(), currentUser(c))
	if err != nil {
		if errors.Is(err, service.ErrNotEnoughData) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLedger, "insights_trends_failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(trends), "trends": trends})
}

// @Summary      Advisory insights
// @Description  Rule-based advice for the given month (defaults to the current month)
// @Tags         insights
// @Produce      json
// @Param        month  query  string  false  "Month key (YYYY-MM)"  example(2024-11)
// @Success      200  {object}  map[string]interface{}  "count, insights"
// @Failure      400  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/insights/advice [get]
// @Security     BearerAuth
func (h *Handler) getAdvice(c *gin.Context) {
	month := c.Query("month")
	if month == "" {
		month = sb.CurrentMonthKey()
	}
	insights, err := h.services.Advise(c.Request.Context(), currentUser(c), month)
	if err != nil {
		if errors.Is(err, service.ErrInvalidMonthKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errLoadLedger, "insights_advice_failed", err, "month", month)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": len(insights), "month": month, "insights": insights})
}
