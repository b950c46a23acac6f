package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/handzy/payment-service/internal/api/domain"
	"github.com/handzy/payment-service/internal/api/dto"
)

// GetWalletBalance handles GET /api/wallet/balance/:userId
func (h *PaymentHandler) GetWalletBalance(c *gin.Context) {
	userID := c.Param("userId")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "userId is required",
		})
		return
	}

	h.logger.Info("GetWalletBalance called",
		slog.String("method", c.Request.Method),
		slog.String("path", c.Request.URL.Path),
		slog.String("user_id", userID),
	)

	balance, err := h.service.GetWalletBalance(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "User not found"})
			return
		}
		h.logger.Error("Failed to get wallet balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.WalletBalanceResponse{
		Success: true,
		Balance: balance,
	})
}
