package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/handzy/payment-service/internal/api/handler"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "payment-service",
		})
	})

	// Initialize payment handler
	paymentHandler := handler.NewPaymentHandler(deps)

	api := r.Group("/api")
	{
		payment := api.Group("/payment")
		{
			// POST /api/payment/request - worker requests payment for a finished job
			payment.POST("/request", paymentHandler.RequestPayment)

			// POST /api/payment/create-order - customer pays by wallet or gateway order
			payment.POST("/create-order", paymentHandler.CreateOrder)

			// POST /api/payment/verify - gateway callback verification
			payment.POST("/verify", paymentHandler.VerifyPayment)

			// POST /api/payment/cash - customer settles in cash
			payment.POST("/cash", paymentHandler.RecordCashPayment)
		}

		wallet := api.Group("/wallet")
		{
			// GET /api/wallet/balance/:userId - read the stored wallet balance
			wallet.GET("/balance/:userId", paymentHandler.GetWalletBalance)
		}
	}

	return r
}
