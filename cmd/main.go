package main

import (
	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mallikarjunadanduba/FitLife360/internal/handler"
	mid "github.com/mallikarjunadanduba/FitLife360/internal/middleware"
	"github.com/mallikarjunadanduba/FitLife360/internal/notify"
	"github.com/mallikarjunadanduba/FitLife360/internal/service"
	"github.com/mallikarjunadanduba/FitLife360/pkg/config"
	"github.com/mallikarjunadanduba/FitLife360/pkg/database"
	"github.com/mallikarjunadanduba/FitLife360/pkg/jwtutil"
	"github.com/mallikarjunadanduba/FitLife360/pkg/logger"
	"github.com/mallikarjunadanduba/FitLife360/pkg/payment"
	"github.com/mallikarjunadanduba/FitLife360/prometheus"
)

func main() {
	// Load .env file; environments without one rely on real env vars
	_ = godotenv.Load()

	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting fitlife360",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	if err := database.InitDB(appConfig); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Notification dispatcher: optional broker, never blocks startup in dev
	var dispatcher notify.Dispatcher = notify.NopDispatcher{}
	if appConfig.AMQP.Enabled {
		amqpDispatcher, err := notify.NewAMQPDispatcher(appConfig.AMQP.URL, appConfig.AMQP.NotificationQueue, log)
		if err != nil {
			log.Fatal("Failed to connect to notification broker", zap.Error(err))
		}
		defer amqpDispatcher.Close()
		dispatcher = amqpDispatcher
		log.Info("Notification dispatcher connected",
			zap.String("queue", appConfig.AMQP.NotificationQueue))
	}

	// Payment gateway client
	gateway := payment.NewClient(&appConfig.Razorpay, log)

	// Services
	db := database.GetDB()
	orderService := service.NewOrderService(db, gateway, dispatcher, log)
	consultationService := service.NewConsultationService(db, dispatcher, log)
	reviewService := service.NewReviewService(db, log)

	// Handlers
	orderHandler := handler.NewOrderHandler(orderService)
	consultationHandler := handler.NewConsultationHandler(consultationService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Public catalog routes
	e.GET("/api/products", handler.ListProducts)
	e.GET("/api/products/featured", handler.ListFeaturedProducts)
	e.GET("/api/products/categories", handler.ListProductCategories)
	e.GET("/api/products/:id", handler.GetProduct)
	e.GET("/api/products/:id/reviews", reviewHandler.ListProductReviews)
	e.GET("/api/consultants", handler.ListConsultants)
	e.GET("/api/consultants/:id", handler.GetConsultant)

	// Product admin routes
	productAdmin := e.Group("/api/products", mid.AuthMiddleware, mid.RequireAdmin)
	productAdmin.POST("", handler.CreateProduct)
	productAdmin.PUT("/:id", handler.UpdateProduct)
	productAdmin.DELETE("/:id", handler.DeleteProduct)

	// Review routes
	reviewAPI := e.Group("", mid.AuthMiddleware)
	reviewAPI.POST("/api/products/:id/reviews", reviewHandler.CreateProductReview)
	reviewAPI.DELETE("/api/reviews/:id", reviewHandler.DeleteProductReview)

	// Order routes
	orderAPI := e.Group("/api/orders", mid.AuthMiddleware)
	orderAPI.GET("", orderHandler.ListOrders)
	orderAPI.GET("/all", orderHandler.ListAllOrders, mid.RequireAdmin)
	orderAPI.GET("/:id", orderHandler.GetOrder)
	orderAPI.POST("", orderHandler.CreateOrder)
	orderAPI.POST("/:id/create-payment", orderHandler.CreatePayment)
	orderAPI.POST("/:id/payment", orderHandler.ProcessPayment)
	orderAPI.POST("/:id/cancel", orderHandler.CancelOrder)
	orderAPI.PUT("/:id/status", orderHandler.UpdateOrderStatus, mid.RequireAdmin)

	// Consultation routes
	consultationAPI := e.Group("/api/consultations", mid.AuthMiddleware)
	consultationAPI.GET("", consultationHandler.ListConsultations)
	consultationAPI.GET("/:id", consultationHandler.GetConsultation)
	consultationAPI.POST("", consultationHandler.BookConsultation)
	consultationAPI.POST("/:id/cancel", consultationHandler.CancelConsultation)
	consultationAPI.POST("/:id/reschedule", consultationHandler.RescheduleConsultation)
	consultationAPI.POST("/:id/complete", consultationHandler.CompleteConsultation, mid.RequireConsultant)
	consultationAPI.POST("/:id/rate", consultationHandler.RateConsultation)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
