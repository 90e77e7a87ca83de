package server

import (
	"context"
	"net/http"

	"domainbill/internal/auth"
	"domainbill/internal/billing"
	"domainbill/internal/config"
	"domainbill/internal/money"
	"domainbill/internal/notification"
	"domainbill/internal/payment"
	"domainbill/internal/pricing"
	"domainbill/internal/recharge"
	"domainbill/internal/revenue"
	"domainbill/internal/user"
	"domainbill/internal/wallet"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Server struct {
	router *gin.Engine
	http   *http.Server
	db     *sqlx.DB
	config *config.Config
}

func New(db *sqlx.DB, cfg *config.Config, notifier *notification.Service) *Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(50, 100))

	rates := money.NewStaticRates()
	gateway := payment.NewHTTPGateway(cfg.GatewayURL, cfg.GatewayTimeout)
	methods := payment.NewRepository(db)

	userService := user.NewService(user.NewRepository(db), cfg.JWTSecret)
	walletService := wallet.NewService(wallet.NewRepository(db))
	pricingEngine := pricing.NewEngine(cfg.MarkupPercent, rates)
	billingService := billing.NewService(billing.NewRepository(db), methods, gateway, walletService, notifier)
	rechargeController := recharge.NewController(walletService, methods, gateway, notifier)
	revenueService := revenue.NewService(revenue.NewRepository(db), rates)

	userHandler := user.NewHandlerWithService(userService)
	walletHandler := wallet.NewHandlerWithService(walletService)
	pricingHandler := pricing.NewHandler(pricingEngine, walletService, cfg.DisplayCurrency)
	billingHandler := billing.NewHandler(billingService, cfg.DisplayCurrency)
	rechargeHandler := recharge.NewHandler(rechargeController)
	revenueHandler := revenue.NewHandler(revenueService, cfg.DisplayCurrency)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.RefreshToken)
	}

	router.GET("/pricing/quote", pricingHandler.GetQuote)
	router.GET("/pricing/compare", pricingHandler.GetComparison)
	router.GET("/pricing/display", auth.OptionalAuthMiddleware(cfg.JWTSecret), pricingHandler.GetDisplay)

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", userHandler.GetMe)

		protected.GET("/wallet", walletHandler.GetWallet)
		protected.GET("/wallet/transactions", walletHandler.ListTransactions)
		protected.PUT("/wallet/settings", walletHandler.UpdateSettings)
		protected.POST("/wallet/recharge", billingHandler.ManualRecharge)
		protected.GET("/wallet/auto-recharge", rechargeHandler.CheckAutoRecharge)
		protected.POST("/wallet/auto-recharge", rechargeHandler.TriggerAutoRecharge)

		protected.POST("/payment-methods", billingHandler.AddPaymentMethod)
		protected.GET("/payment-methods", billingHandler.ListPaymentMethods)
		protected.DELETE("/payment-methods/:id", billingHandler.RemovePaymentMethod)

		protected.POST("/subscription", billingHandler.ProcessSubscription)
		protected.GET("/subscription", billingHandler.GetSubscription)
	}

	admin := router.Group("/admin")
	admin.Use(authMiddleware, auth.RequireRole("admin"))
	{
		admin.GET("/revenue/metrics", revenueHandler.GetMetrics)
		admin.GET("/revenue/analysis", revenueHandler.GetAnalysis)
		admin.GET("/revenue/costs", revenueHandler.GetCosts)
		admin.GET("/revenue/dashboard", revenueHandler.GetDashboard)
		admin.GET("/notifications/queue", NotificationQueue(notifier))
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	SetupSwagger(router)

	return &Server{
		router: router,
		http: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: router,
		},
		db:     db,
		config: cfg,
	}
}

func (s *Server) Start() error {
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests before returning.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
