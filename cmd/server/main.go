package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/websocket/v2"
	"github.com/joho/godotenv"

	"github.com/aisyah-bit/studyally-backend/internal/cache"
	"github.com/aisyah-bit/studyally-backend/internal/config"
	"github.com/aisyah-bit/studyally-backend/internal/handlers"
	"github.com/aisyah-bit/studyally-backend/internal/httpx"
	"github.com/aisyah-bit/studyally-backend/internal/middleware"
	"github.com/aisyah-bit/studyally-backend/internal/repository"
	"github.com/aisyah-bit/studyally-backend/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	// Initialize Fiber app
	app := fiber.New(fiber.Config{
		AppName: "StudyAlly Backend",
	})

	// Middleware
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowedOrigins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-SA-CSRF",
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize database connection
	db, err := repository.InitDB(cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis cache
	redisCache := cache.NewRedisCache(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err := redisCache.Ping(); err != nil {
		log.Printf("WARNING: Redis connection failed: %v. Running without cache.", err)
		redisCache = nil
	} else {
		log.Println("Redis cache connected successfully")
	}

	channelCache := cache.NewChannelCache(redisCache)
	membershipCache := cache.NewMembershipCache(redisCache)
	presenceCache := cache.NewPresenceCache(redisCache)

	// Initialize repositories
	groupRepo := repository.NewGroupRepository(db)
	channelRepo := repository.NewChannelRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	// Initialize services
	recommender := service.NewRecommenderClient(cfg.Recommender.BaseURL)
	membershipService := service.NewMembershipService(groupRepo, recommender, membershipCache)
	chatService := service.NewChatService(channelRepo, groupRepo, profileRepo, channelCache)
	presenceService := service.NewPresenceService(groupRepo, presenceCache)

	// Initialize handlers
	wsHandler := handlers.NewWebSocketHandler(chatService, presenceService)
	groupHandler := handlers.NewGroupHandler(membershipService)
	chatHandler := handlers.NewChatHandler(chatService, presenceService, wsHandler.GetHub())

	// Protected routes: everything in this core mutates or reads on behalf
	// of an authenticated identity.
	api := app.Group("/api", middleware.OriginAllowed())
	protected := api.Group("/", middleware.AuthRequired(), middleware.CSRFRequired())

	// Group routes
	protected.Get("/groups", groupHandler.GetGroups)
	protected.Post("/groups", groupHandler.CreateGroup)
	protected.Get("/groups/mine", groupHandler.GetMyGroups)
	protected.Get("/groups/recommended", groupHandler.GetRecommendedGroups)
	protected.Get("/groups/:id", groupHandler.GetGroup)
	protected.Put("/groups/:id", groupHandler.UpdateGroup)
	protected.Delete("/groups/:id", groupHandler.DeleteGroup)
	protected.Post(
		"/groups/:id/join",
		limiter.New(limiter.Config{
			Max:        30,
			Expiration: time.Minute,
			KeyGenerator: func(c *fiber.Ctx) string {
				if identity, err := httpx.LocalString(c, "identity"); err == nil {
					return "join:" + identity
				}
				return c.IP()
			},
		}),
		groupHandler.JoinGroup,
	)
	protected.Post("/groups/:id/leave", groupHandler.LeaveGroup)
	protected.Get("/groups/:id/members", chatHandler.GetGroupMembers)

	// Chat routes
	protected.Get("/groups/:id/messages", chatHandler.GetGroupMessages)
	protected.Post("/groups/:id/messages", chatHandler.SendGroupMessage)
	protected.Get("/chats/route", chatHandler.GetChatRoute)

	// WebSocket route (websocket upgrade needs special handling)
	app.Use(
		"/ws",
		middleware.OriginAllowed(),
		middleware.AuthRequired(),
		func(c *fiber.Ctx) error {
			// Upgrade to WebSocket
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		},
	)
	app.Get("/ws", websocket.New(wsHandler.HandleWebSocket))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "StudyAlly backend is running",
		})
	})

	log.Printf("Server starting on port %s...", cfg.Server.Port)
	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
