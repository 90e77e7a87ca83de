package revenue

import (
	"net/http"
	"strings"
	"time"

	"domainbill/internal/money"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service  *Service
	currency string
}

func NewHandler(service *Service, currency string) *Handler {
	if currency == "" {
		currency = money.DefaultDisplayCurrency
	}
	return &Handler{service: service, currency: currency}
}

func (h *Handler) queryCurrency(c *gin.Context) string {
	if cur := c.Query("currency"); cur != "" {
		return strings.ToUpper(cur)
	}
	return h.currency
}

// parseRange reads start/end query params as RFC 3339 or YYYY-MM-DD,
// defaulting to the trailing 30 days.
func parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	now := time.Now()
	start := now.Add(-30 * 24 * time.Hour)
	end := now

	parse := func(raw string) (time.Time, error) {
		if t, err := time.Parse(time.RFC3339, raw); err == nil {
			return t, nil
		}
		return time.Parse("2006-01-02", raw)
	}

	if raw := c.Query("start"); raw != "" {
		t, err := parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start date"})
			return start, end, false
		}
		start = t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end date"})
			return start, end, false
		}
		end = t
	}
	return start, end, true
}

// GetMetrics godoc
// @Summary      Revenue metrics over a date range
// @Tags         revenue
// @Produce      json
// @Param        start query string false "range start (RFC 3339 or YYYY-MM-DD)"
// @Param        end query string false "range end"
// @Param        currency query string false "display currency"
// @Success      200 {object} Metrics
// @Failure      400 {object} api.ErrorResponse
// @Router       /admin/revenue/metrics [get]
func (h *Handler) GetMetrics(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	metrics, err := h.service.GetRevenueMetrics(c.Request.Context(), start, end, h.queryCurrency(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load revenue metrics"})
		return
	}

	c.JSON(http.StatusOK, metrics)
}

func (h *Handler) GetAnalysis(c *gin.Context) {
	analysis, err := h.service.GetRevenueAnalysis(c.Request.Context(), h.queryCurrency(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load revenue analysis"})
		return
	}

	c.JSON(http.StatusOK, analysis)
}

func (h *Handler) GetCosts(c *gin.Context) {
	start, end, ok := parseRange(c)
	if !ok {
		return
	}

	costs, err := h.service.GetCostAnalysis(c.Request.Context(), start, end, h.queryCurrency(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load cost analysis"})
		return
	}

	c.JSON(http.StatusOK, costs)
}

func (h *Handler) GetDashboard(c *gin.Context) {
	dashboard, err := h.service.GetRevenueDashboard(c.Request.Context(), h.queryCurrency(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load revenue dashboard"})
		return
	}

	c.JSON(http.StatusOK, dashboard)
}
