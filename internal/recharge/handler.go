package recharge

import (
	"net/http"

	"domainbill/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	controller *Controller
}

func NewHandler(controller *Controller) *Handler {
	return &Handler{controller: controller}
}

// CheckAutoRecharge godoc
// @Summary      Check whether an auto-recharge is due
// @Tags         wallet
// @Produce      json
// @Success      200 {object} map[string]interface{}
// @Failure      401 {object} api.ErrorResponse
// @Router       /wallet/auto-recharge [get]
func (h *Handler) CheckAutoRecharge(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	needed, w, err := h.controller.Check(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check auto-recharge"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"needed":    needed,
		"enabled":   w.AutoRechargeEnabled,
		"balance":   w.Balance(),
		"threshold": w.RechargeThreshold(),
	})
}

func (h *Handler) TriggerAutoRecharge(c *gin.Context) {
	userID, ok := auth.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return
	}

	result, err := h.controller.Trigger(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "auto-recharge failed"})
		return
	}

	c.JSON(http.StatusOK, result)
}
