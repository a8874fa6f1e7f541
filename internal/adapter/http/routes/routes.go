package routes

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	_ "careconnect/docs" // This will be auto-generated
	"careconnect/internal/adapter/http/handlers"
	"careconnect/internal/config"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

const shutdownTimeout = 10 * time.Second

// Run wires the service from cfg and serves until SIGINT or SIGTERM.
func Run(cfg config.App) {
	setGinMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := buildDependencies(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to wire the application: %v", err)
	}
	defer deps.close()

	router := newRouter(cfg, deps)

	if deps.releaseJob != nil {
		deps.releaseJob.Start()
		defer deps.releaseJob.Stop()
	}

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: router}
	go func() {
		log.Printf("[http] listening addr=%s store=%s", srv.Addr, cfg.BookingStore)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to startup the application: %v", err.Error())
		}
	}()

	<-ctx.Done()
	log.Printf("[http] shutdown requested")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[http] graceful shutdown failed err=%v", err)
	}
}

func newRouter(cfg config.App, deps *dependencies) *gin.Engine {
	router := gin.New()
	setMiddlewares(router, cfg)

	// Swagger documentation endpoint
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	getRoutes(router, cfg, deps)
	return router
}

func getRoutes(router *gin.Engine, cfg config.App, deps *dependencies) {
	bookingHandler := handlers.NewBookingHandler(deps.bookings)
	quoteHandler := handlers.NewQuoteHandler(deps.quotes)
	webhookHandler := handlers.NewPaymentWebhookHandler(deps.webhooks)
	adminHandler := handlers.NewAdminHandler(deps.bookings)

	// Rotas publicas
	v1 := router.Group("/v1")
	addPingRoutes(v1)
	addWebhookRoutes(v1, webhookHandler)

	// Rotas autenticadas
	addBookingRoutes(v1, cfg.JWTSecret, bookingHandler, quoteHandler)
	addAdminRoutes(v1, cfg.JWTSecret, adminHandler)
}

func setMiddlewares(router *gin.Engine, cfg config.App) {
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.Printf("Recovered from panic: %v", recovered)
		c.AbortWithStatus(http.StatusInternalServerError)
	}))
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins())))
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID", "X-Signature"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

func setGinMode(mode string) {
	switch mode {
	case gin.DebugMode, gin.ReleaseMode, gin.TestMode:
		gin.SetMode(mode)
	default:
		log.Printf("[http] unknown GIN_MODE=%q, using %s", mode, gin.ReleaseMode)
		gin.SetMode(gin.ReleaseMode)
	}
}
