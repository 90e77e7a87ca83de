package billing

import (
	"errors"
	"io"
	"net/http"

	"domainbill/internal/auth"
	"domainbill/internal/money"
	"domainbill/internal/payment"

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

type subscribeRequest struct {
	PaymentMethodID string `json:"payment_method_id"`
}

// ProcessSubscription godoc
// @Summary      Activate the basic subscription plan
// @Tags         billing
// @Accept       json
// @Produce      json
// @Success      200 {object} SubscriptionResult
// @Failure      400 {object} api.ErrorResponse
// @Router       /subscription [post]
func (h *Handler) ProcessSubscription(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	// The payment method is optional, so an empty body is accepted.
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.service.ProcessSubscription(c.Request.Context(), userID, req.PaymentMethodID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process subscription"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *Handler) GetSubscription(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	sub, err := h.service.GetActiveSubscription(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrNoActiveSubscription) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no active subscription"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load subscription"})
		return
	}

	c.JSON(http.StatusOK, sub)
}

type rechargeRequest struct {
	AmountCents     int64  `json:"amount_cents" binding:"required,gt=0"`
	Currency        string `json:"currency"`
	PaymentMethodID string `json:"payment_method_id" binding:"required"`
}

// ManualRecharge godoc
// @Summary      Charge a wallet payment method and credit the balance
// @Tags         wallet
// @Accept       json
// @Produce      json
// @Success      200 {object} SubscriptionResult
// @Failure      400 {object} api.ErrorResponse
// @Router       /wallet/recharge [post]
func (h *Handler) ManualRecharge(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req rechargeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Currency == "" {
		req.Currency = h.currency
	}

	result, err := h.service.ManualRecharge(c.Request.Context(), userID,
		money.New(req.AmountCents, req.Currency), req.PaymentMethodID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process recharge"})
		return
	}

	c.JSON(http.StatusOK, result)
}

type addMethodRequest struct {
	Type        string `json:"type" binding:"required"`
	Last4       string `json:"last4" binding:"required,len=4"`
	Brand       string `json:"brand"`
	ExpiryMonth int    `json:"expiry_month" binding:"required,min=1,max=12"`
	ExpiryYear  int    `json:"expiry_year" binding:"required"`
	Purpose     string `json:"purpose" binding:"required,oneof=wallet subscription both"`
}

func (h *Handler) AddPaymentMethod(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	var req addMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	method, err := h.service.AddPaymentMethod(c.Request.Context(), userID, &payment.Method{
		Type:        req.Type,
		Last4:       req.Last4,
		Brand:       req.Brand,
		ExpiryMonth: req.ExpiryMonth,
		ExpiryYear:  req.ExpiryYear,
	}, payment.Purpose(req.Purpose))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to add payment method"})
		return
	}

	c.JSON(http.StatusCreated, method)
}

func (h *Handler) ListPaymentMethods(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	purpose := payment.Purpose(c.Query("type"))
	switch purpose {
	case "", payment.PurposeWallet, payment.PurposeSubscription, payment.PurposeBoth:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid type filter"})
		return
	}

	methods, err := h.service.ListPaymentMethods(c.Request.Context(), userID, purpose)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list payment methods"})
		return
	}

	c.JSON(http.StatusOK, methods)
}

func (h *Handler) RemovePaymentMethod(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	err := h.service.RemovePaymentMethod(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		if errors.Is(err, payment.ErrMethodNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "payment method not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove payment method"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "payment method removed"})
}
