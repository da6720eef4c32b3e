package handler

import (
	"multibank/internal/adapter/http/middleware"
	"multibank/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	TransferSvc    ports.TransferService
	LedgerSvc      ports.LedgerService
	Rates          ports.RateProvider
	RateSubscriber ports.RateSubscriber
	HealthCheckers []ports.HealthChecker
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	v1 := r.Group("/api/v1")

	transferHandler := NewTransferHandler(deps.TransferSvc)
	transfers := v1.Group("/transfers")
	{
		transfers.POST("", transferHandler.Transfer)
	}

	ledgerHandler := NewLedgerHandler(deps.LedgerSvc)
	cards := v1.Group("/cards")
	{
		cards.GET("/:id/transactions", ledgerHandler.History)
	}

	ratesHandler := NewRatesHandler(deps.Rates, deps.RateSubscriber, deps.Logger)
	rates := v1.Group("/rates")
	{
		rates.GET("", ratesHandler.Latest)
		rates.GET("/stream", ratesHandler.Stream)
	}

	return r
}
