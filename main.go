package main

import (
	"data-warehouse-dashboard/internal/analytics"
	"data-warehouse-dashboard/internal/config"
	"data-warehouse-dashboard/internal/database"
	"data-warehouse-dashboard/internal/handlers"
	"data-warehouse-dashboard/internal/middleware"
	"data-warehouse-dashboard/internal/redis"
	"data-warehouse-dashboard/internal/store"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	log := logrus.StandardLogger()

	if err := godotenv.Load(); err != nil {
		log.Info("No .env file found")
	}

	cfg := config.Load()
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		log.SetLevel(level)
	}
	gin.SetMode(cfg.GinMode)

	db, err := database.Initialize(cfg)
	if err != nil {
		log.WithError(err).Fatal("Failed to connect to database")
	}

	// Rate limiting degrades to pass-through without redis.
	redisClient, err := redis.Initialize(cfg.RedisURL)
	if err != nil {
		log.WithError(err).Warn("Redis unavailable, rate limiting disabled")
		redisClient = nil
	}

	st := store.New(db)
	dashboardHandler := handlers.NewDashboardHandler(st)
	sectionHandler := handlers.NewSectionHandler(st)
	userHandler := handlers.NewUserHandler(st)
	analyticsHandler := handlers.NewAnalyticsHandler(analytics.NewService(db))

	router := setupRoutes(cfg, log, redisClient,
		dashboardHandler, sectionHandler, userHandler, analyticsHandler)

	log.WithField("port", cfg.Port).Info("Server starting")
	if err := router.Run(":" + cfg.Port); err != nil {
		log.WithError(err).Fatal("Failed to start server")
	}
}

func setupRoutes(cfg *config.Config, log *logrus.Logger, redisClient *redis.Client,
	dashboardHandler *handlers.DashboardHandler, sectionHandler *handlers.SectionHandler,
	userHandler *handlers.UserHandler, analyticsHandler *handlers.AnalyticsHandler) *gin.Engine {

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(log))
	router.Use(cors.Default())
	router.Use(middleware.RateLimit(redisClient, cfg.RateLimitRequests, cfg.RateLimitWindow))

	api := router.Group("/api")
	{
		api.GET("/database-status", dashboardHandler.DatabaseStatus)
		api.GET("/dashboard-stats", dashboardHandler.Stats)
		api.GET("/hello", dashboardHandler.Hello)

		api.GET("/users", sectionHandler.ListUsers)
		api.GET("/transactions", sectionHandler.ListTransactions)
		api.GET("/products", sectionHandler.ListProducts)
		api.GET("/support-tickets", sectionHandler.ListSupportTickets)
		api.GET("/sessions", sectionHandler.ListSessions)
		api.GET("/submissions", sectionHandler.ListSubmissions)

		api.GET("/users/:id", userHandler.GetUser)
		api.POST("/users", userHandler.CreateUser)
		api.PUT("/users/:id", userHandler.UpdateUser)
		api.DELETE("/users/:id", userHandler.DeleteUser)

		an := api.Group("/analytics")
		{
			an.GET("/users-per-month", analyticsHandler.UsersPerMonth)
			an.GET("/users-by-country", analyticsHandler.UsersByCountry)
			an.GET("/activity-trends", analyticsHandler.ActivityTrends)
			an.GET("/recent-entries", analyticsHandler.RecentEntries)
			an.GET("/product-performance", analyticsHandler.ProductPerformance)
			an.GET("/product-categories", analyticsHandler.ProductCategories)
			an.GET("/website-load-times", analyticsHandler.WebsiteLoadTimes)
		}
	}

	return router
}
