package main

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"labstock-system/config"
	"labstock-system/internal/database"
	"labstock-system/internal/database/models"
	"labstock-system/internal/gateway/handlers"
	"labstock-system/internal/gateway/middleware"
	"labstock-system/internal/services/inventory/handler"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg := config.LoadConfig()

	redisClient := config.NewRedisClient(cfg.Redis)
	defer redisClient.Close()
	locker := config.NewRedisLocker(redisClient)

	db, err := database.NewConnection(cfg.DB.DSN)
	if err != nil {
		logger.Fatalf("Failed to connect to db: %v", err)
	}

	if err := models.MigrateInventoryDB(db); err != nil {
		logger.Fatalf("Failed to migrate inventory database: %v", err)
	}

	inventoryService := handler.NewInventoryHandler(db, redisClient, locker, logger)
	inventoryHandler := handlers.NewInventoryHTTPHandler(inventoryService, logger)

	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))

	api := r.Group("/api")
	{
		product := api.Group("/product")
		{
			product.POST("", inventoryHandler.CreateProduct)
			product.GET("", inventoryHandler.ListProducts)
			product.GET("/availability", inventoryHandler.GetProductAvailability)
			product.GET("/:id", inventoryHandler.GetProduct)
			product.GET("/:id/stock", inventoryHandler.GetProductStock)
			product.PUT("/:id", inventoryHandler.UpdateProduct)
			product.DELETE("/:id", inventoryHandler.DeleteProduct)
		}

		supplier := api.Group("/supplier")
		{
			supplier.POST("", inventoryHandler.CreateSupplier)
			supplier.GET("", inventoryHandler.ListSuppliers)
			supplier.GET("/:id", inventoryHandler.GetSupplier)
			supplier.PUT("/:id", inventoryHandler.UpdateSupplier)
			supplier.DELETE("/:id", inventoryHandler.DeleteSupplier)
		}

		warehouse := api.Group("/warehouse")
		{
			warehouse.POST("", inventoryHandler.CreateWarehouse)
			warehouse.GET("", inventoryHandler.ListWarehouses)
			warehouse.GET("/:id", inventoryHandler.GetWarehouse)
			warehouse.PUT("/:id", inventoryHandler.UpdateWarehouse)
			warehouse.DELETE("/:id", inventoryHandler.DeleteWarehouse)
		}

		inventory := api.Group("/inventory")
		{
			inventory.POST("/inbound", inventoryHandler.RecordInbound)
			inventory.POST("/outbound", inventoryHandler.RecordOutbound)
			inventory.GET("/movements", inventoryHandler.ListMovements)
			inventory.GET("/monthly-stats", inventoryHandler.MonthlyStats)
		}

		stock := api.Group("/stock")
		{
			stock.POST("/reserve", inventoryHandler.ReserveStock)
			stock.POST("/release", inventoryHandler.ReleaseStock)
			stock.GET("/reservations", inventoryHandler.ListReservations)
		}
	}

	logger.Infof("inventory server listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatalf("Failed to serve: %v", err)
	}
}
