package pricing

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"domainbill/internal/auth"
	"domainbill/internal/money"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type Handler struct {
	engine   *Engine
	balances BalanceGetter
	currency string
}

func NewHandler(engine *Engine, balances BalanceGetter, currency string) *Handler {
	if currency == "" {
		currency = money.DefaultDisplayCurrency
	}
	return &Handler{engine: engine, balances: balances, currency: currency}
}

func parseAmount(c *gin.Context, param, currency string) (money.Money, bool) {
	raw := c.Query(param)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": param + " is required"})
		return money.Money{}, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
		return money.Money{}, false
	}
	return money.FromDecimal(d, currency), true
}

func displayCurrency(c *gin.Context, fallback string) string {
	if cur := c.Query("currency"); cur != "" {
		return strings.ToUpper(cur)
	}
	return fallback
}

// GetQuote godoc
// @Summary      Price a domain registration
// @Tags         pricing
// @Produce      json
// @Param        cost query string true "registrar base cost per year"
// @Param        years query int false "registration period"
// @Param        bulk query bool false "apply multi-year bulk discount tiers"
// @Success      200 {object} Quote
// @Failure      400 {object} api.ErrorResponse
// @Router       /pricing/quote [get]
func (h *Handler) GetQuote(c *gin.Context) {
	currency := displayCurrency(c, h.currency)
	baseCost, ok := parseAmount(c, "cost", currency)
	if !ok {
		return
	}

	years, _ := strconv.Atoi(c.DefaultQuery("years", "1"))

	if c.Query("bulk") == "true" {
		c.JSON(http.StatusOK, h.engine.CalculateBulkPrice(baseCost, years))
		return
	}
	c.JSON(http.StatusOK, h.engine.CalculateDomainPrice(baseCost, years))
}

func (h *Handler) GetComparison(c *gin.Context) {
	currency := displayCurrency(c, h.currency)
	baseCost, ok := parseAmount(c, "cost", currency)
	if !ok {
		return
	}

	var years []int
	if raw := c.Query("periods"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			y, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil || y < 1 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid periods"})
				return
			}
			years = append(years, y)
		}
	}

	c.JSON(http.StatusOK, h.engine.CalculatePriceComparison(baseCost, years))
}

// GetDisplay breaks a customer price into base cost and markup. When
// the request is authenticated the breakdown includes wallet
// affordability.
func (h *Handler) GetDisplay(c *gin.Context) {
	currency := displayCurrency(c, h.currency)
	price, ok := parseAmount(c, "price", currency)
	if !ok {
		return
	}

	if userID, authed := auth.GetUserID(c); authed && h.balances != nil {
		d, err := h.engine.FormatPriceDisplayFor(c.Request.Context(), h.balances, userID, price)
		if err != nil {
			if errors.Is(err, money.ErrUnsupportedCurrency) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported currency"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build price display"})
			return
		}
		c.JSON(http.StatusOK, d)
		return
	}

	c.JSON(http.StatusOK, h.engine.FormatPriceDisplay(price))
}
