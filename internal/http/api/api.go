// Package api wires the HTTP routes to their handlers.
package api

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vibechat/service/internal/config"
	"github.com/vibechat/service/internal/http/api/handlers"
	"github.com/vibechat/service/internal/http/middleware"
	"github.com/vibechat/service/internal/ratelimit"
)

// RegisterRoutes mounts every endpoint group on the engine.
func RegisterRoutes(r *gin.Engine, conn *gorm.DB, cfg config.Config, limiter *ratelimit.Manager) {
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.RateLimit(limiter))

	health := handlers.NewHealthHandler(conn)
	r.GET("/", health.Root)
	r.GET("/health", health.Health)

	auth := handlers.NewAuthHandler(conn, cfg.JWT)
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", auth.Register)
		authGroup.POST("/login", auth.Login)
	}

	rooms := handlers.NewRoomHandler(conn, cfg.BaseURL)
	roomGroup := r.Group("/rooms")
	{
		roomGroup.POST("", rooms.Create)
		roomGroup.GET("/user/:user_id", rooms.ListByUser)
		roomGroup.GET("/code/:code", rooms.GetByCode)
		roomGroup.PUT("/:id", rooms.Update)
		roomGroup.DELETE("/:id", rooms.Delete)
	}

	bots := handlers.NewBotHandler(conn, cfg.AI.DefaultModel)
	botGroup := r.Group("/bots")
	{
		botGroup.POST("", bots.Create)
		botGroup.GET("/user/:user_id", bots.ListByUser)
		botGroup.GET("/room/:room_id", bots.ListByRoom)
		botGroup.PUT("/:id", bots.Update)
		botGroup.DELETE("/:id", bots.Delete)
	}

	ai := handlers.NewAIHandler(cfg)
	aiGroup := r.Group("/ai")
	{
		aiGroup.POST("/generate-room-link", ai.GenerateRoomLink)
		aiGroup.POST("/generate-user-id", ai.GenerateUserID)
		aiGroup.POST("/generate-api-token", ai.GenerateAPIToken)
		aiGroup.POST("/analyze-text", ai.AnalyzeText)
	}

	billing := handlers.NewBillingHandler(conn, cfg.Billing.PayoutWallet)
	billingGroup := r.Group("/billing")
	{
		billingGroup.POST("/update-wallet", billing.UpdateWallet)
		billingGroup.GET("/payout-info", billing.PayoutInfo)
		billingGroup.POST("/process-payment", billing.ProcessPayment)
	}

	subs := handlers.NewSubscriptionHandler(conn, cfg.Billing.PayoutWallet)
	subGroup := r.Group("/subscriptions")
	{
		subGroup.GET("/tiers", subs.Tiers)
		subGroup.GET("/user/:user_id", subs.ListByUser)
		subGroup.POST("/purchase", subs.Purchase)
		subGroup.POST("/:id/cancel", subs.Cancel)
		subGroup.GET("/payment-methods", subs.PaymentMethods)
		subGroup.GET("/btc-wallet", subs.BTCWallet)
	}

	servers := handlers.NewPreMadeServerHandler(conn)
	serverGroup := r.Group("/pre-made-servers")
	{
		serverGroup.GET("", servers.List)
		serverGroup.GET("/:name", servers.GetByName)
	}
}
