package main

import (
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/yurovdigital/bakery-management-system/internal/api"
	"github.com/yurovdigital/bakery-management-system/internal/cache"
	"github.com/yurovdigital/bakery-management-system/internal/config"
	"github.com/yurovdigital/bakery-management-system/internal/database"
	"github.com/yurovdigital/bakery-management-system/internal/events"
	"github.com/yurovdigital/bakery-management-system/internal/services"
	"github.com/yurovdigital/bakery-management-system/internal/strapi"
)

func main() {
	// Загружаем переменные окружения из .env файла (если существует)
	// Игнорируем ошибку, если файл не найден (для production окружений)
	if err := godotenv.Load(); err != nil {
		log.Printf("ℹ️ .env файл не найден, используем переменные окружения системы")
	} else {
		log.Printf("✅ Переменные окружения загружены из .env файла")
	}

	// Загрузка конфигурации
	cfg := config.Load()

	if cfg.StrapiURL == "" {
		log.Fatalf("❌ STRAPI_API_URL не установлен: без CMS консоли нечего показывать")
	}
	log.Printf("📋 CMS: %s", cfg.StrapiURL)
	if cfg.StrapiToken == "" {
		log.Printf("⚠️ STRAPI_API_TOKEN не установлен, запросы уйдут без авторизации")
	}

	// Подключение к Redis (с поддержкой Sentinel)
	redisClient, err := database.ConnectRedis(
		cfg.RedisURL,
		cfg.RedisSentinelAddrs,
		cfg.RedisMasterName,
	)
	if err != nil {
		log.Printf("⚠️ Redis connection failed: %v (продолжаем без кэша)", err)
		redisClient = nil
	}
	defer database.CloseRedis(redisClient)

	// Кэш запросов: при redisClient == nil все операции деградируют в no-op
	queryCache := cache.NewQueryCache(redisClient, cfg.CacheTTL)

	// WebSocket хаб для открытых вкладок консоли
	hub := api.NewHub()
	go hub.Run()

	// Клиент CMS: чтения деградируют мягко, сбои уходят в лог и на вкладки
	apiClient := strapi.NewClient(cfg.StrapiURL, cfg.StrapiToken)
	apiClient.SetNotifier(func(op, resource string, err error) {
		log.Printf("⚠️ CMS недоступна (%s %s): %v", op, resource, err)
		hub.BroadcastMessage([]byte(`{"type":"cms.degraded","resource":"` + resource + `"}`))
	})

	// Kafka-публикатор событий заказов (nil-толерантный)
	var publisher *events.Publisher
	if cfg.KafkaBrokers != "" {
		publisher = events.NewPublisher(cfg.KafkaBrokers, cfg.KafkaUsername, cfg.KafkaPassword, cfg.KafkaCACert)
		defer publisher.Close()
		log.Printf("📡 Kafka publisher initialized: %s", cfg.KafkaBrokers)
	} else {
		log.Printf("⚠️ KAFKA_BROKERS не установлен, события заказов публиковаться не будут")
	}

	// Инициализация сервисов
	ingredientService := services.NewIngredientService(apiClient, queryCache)
	recipeService := services.NewRecipeService(apiClient, queryCache)
	clientService := services.NewClientService(apiClient, queryCache)
	financeService := services.NewFinanceService(apiClient, queryCache)

	orderService := services.NewOrderService(apiClient, queryCache)
	orderService.SetBroadcaster(hub)
	if publisher != nil {
		orderService.SetPublisher(publisher)
	}
	log.Println("✅ Services initialized")

	// Инициализация контроллеров
	ingredientController := api.NewIngredientController(ingredientService)
	recipeController := api.NewRecipeController(recipeService)
	clientController := api.NewClientController(clientService)
	orderController := api.NewOrderController(orderService)
	financeController := api.NewFinanceController(financeService)
	wsController := api.NewWSController(hub)

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Health check endpoint (должен быть до CORS для Railway)
	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "Bakery Console",
			"version": "1.0.0",
		})
	})

	// Request ID для сквозной трассировки запросов в логах
	r.Use(func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	})

	// Логирование всех запросов
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		log.Printf("🌐 %s %s - Status: %d - Latency: %v", method, path, status, latency)
	})

	// CORS для фронтенда
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// API routes
	apiGroup := r.Group("/api/v1")

	ingredientGroup := apiGroup.Group("/ingredients")
	{
		ingredientGroup.GET("", ingredientController.GetIngredients)
		ingredientGroup.GET("/:id", ingredientController.GetIngredient)
		ingredientGroup.POST("", ingredientController.CreateIngredient)
		ingredientGroup.PUT("/:id", ingredientController.UpdateIngredient)
		ingredientGroup.DELETE("/:id", ingredientController.DeleteIngredient)
	}

	recipeGroup := apiGroup.Group("/recipes")
	{
		recipeGroup.GET("", recipeController.GetRecipes)
		recipeGroup.GET("/:id", recipeController.GetRecipe)
		recipeGroup.GET("/:id/options", recipeController.GetRecipeOptions)
		recipeGroup.POST("", recipeController.CreateRecipe)
		recipeGroup.PUT("/:id", recipeController.UpdateRecipe)
		recipeGroup.DELETE("/:id", recipeController.DeleteRecipe)
	}

	clientGroup := apiGroup.Group("/clients")
	{
		clientGroup.GET("", clientController.GetClients)
		clientGroup.GET("/:id", clientController.GetClient)
		clientGroup.POST("", clientController.CreateClient)
		clientGroup.PUT("/:id", clientController.UpdateClient)
		clientGroup.DELETE("/:id", clientController.DeleteClient)
	}

	orderGroup := apiGroup.Group("/orders")
	{
		orderGroup.GET("", orderController.GetOrders)
		orderGroup.GET("/:id", orderController.GetOrder)
		orderGroup.POST("", orderController.CreateOrder)
		orderGroup.PUT("/:id", orderController.UpdateOrder)
		orderGroup.PATCH("/:id/status", orderController.UpdateOrderStatus)
		orderGroup.DELETE("/:id", orderController.DeleteOrder)
	}

	financeGroup := apiGroup.Group("/finance")
	{
		financeGroup.GET("/transactions", financeController.GetTransactions)
		financeGroup.POST("/transactions", financeController.CreateTransaction)
		financeGroup.DELETE("/transactions/:id", financeController.DeleteTransaction)
		financeGroup.GET("/stats", financeController.GetStats)
		financeGroup.GET("/chart", financeController.GetChart)
		financeGroup.GET("/export", financeController.ExportTransactions)
	}

	// Live-обновления заказов
	apiGroup.GET("/ws/orders", wsController.ServeWS)

	// Запуск на порту из конфига
	port := cfg.ServerPort
	if port == "" {
		port = os.Getenv("PORT")
		if port == "" {
			port = "8080"
		}
	}

	log.Printf("🚀 Server starting on port %s", port)
	log.Printf("📡 API доступен на http://0.0.0.0:%s/api/v1", port)
	if err := r.Run("0.0.0.0:" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
