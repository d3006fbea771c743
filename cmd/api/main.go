// @title Maths Quest API
// @version 1.0
// @description Themed maths quizzes for children.
// @host localhost:8090
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "maths-quest/cmd/api/docs"
	"maths-quest/internal/adapter"
	"maths-quest/internal/adapter/hint"
	"maths-quest/internal/cache"
	"maths-quest/internal/config"
	"maths-quest/internal/database"
	"maths-quest/internal/handler"
	"maths-quest/internal/logger"
	"maths-quest/internal/middleware"
	"maths-quest/internal/repository"
	"maths-quest/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

const googleLoginPath = "/api/auth/google/login"

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)

		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.DB.Driver, cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	// Repositories
	questionRepository := service.NewCachedQuestionRepository(
		repository.NewSQLXQuestionRepository(db), cacheAdapter, cfg.Cache.QuestionPoolTTL)
	topicRepository := repository.NewSQLXTopicRepository(db)
	profileRepository := repository.NewSQLXProfileRepository(db)

	// Services
	profileService := service.NewProfileService(profileRepository, googleLoginPath)
	topicService := service.NewTopicService(topicRepository, cacheAdapter, cfg.Cache.TopicListTTL)
	homeService := service.NewHomeService(profileService, topicService)

	var quizOpts []service.QuizServiceOption
	if cfg.LLM.Enabled {
		hintGenerator, err := hint.NewOllamaHintGenerator(cfg.LLM)
		if err != nil {
			appLogger.Fatal("Failed to create LLM hint generator", zap.Error(err))
		}
		quizOpts = append(quizOpts, service.WithHintGenerator(hintGenerator))
		appLogger.Info("LLM hint generator enabled", zap.String("server_url", cfg.LLM.ServerURL), zap.String("model", cfg.LLM.Model))
	}
	quizService := service.NewQuizService(
		questionRepository,
		profileService,
		service.NewCacheSessionStore(cacheAdapter, cfg.Quiz.SessionTTL),
		cfg.Quiz,
		quizOpts...,
	)

	authService, err := service.NewAuthService(profileRepository, cfg.JWT, cfg.GoogleOAuth)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	// Handlers
	quizHandler := handler.NewQuizHandler(quizService)
	profileHandler := handler.NewProfileHandler(profileService)
	catalogHandler := handler.NewCatalogHandler(topicService, homeService)
	authHandler := handler.NewAuthHandler(authService)
	healthHandler := handler.NewHealthHandler(db, cacheAdapter)
	validationMiddleware := middleware.NewValidationMiddleware()

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		BodyLimit:    1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	optionalAuth := middleware.OptionalAuth(authService)
	protected := middleware.Protected(authService)

	api.Get("/health", healthHandler.Check)
	api.Get("/home", optionalAuth, catalogHandler.Home)
	api.Get("/themes", catalogHandler.Themes)
	api.Get("/topics", catalogHandler.Topics)

	authGroup := api.Group("/auth")
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)
	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/logout", protected, authHandler.Logout)

	users := api.Group("/users")
	users.Get("/me", protected, profileHandler.GetMe)
	users.Patch("/me", protected, profileHandler.UpdateMe)
	users.Put("/me/theme", optionalAuth, profileHandler.SelectTheme)

	sessions := api.Group("/quiz/sessions", optionalAuth)
	sessions.Post("/", quizHandler.StartSession)
	sessions.Get("/:id", validationMiddleware.ValidateSessionID(), quizHandler.GetSession)
	sessions.Post("/:id/answer", validationMiddleware.ValidateSessionID(), quizHandler.Answer)
	sessions.Post("/:id/hint", validationMiddleware.ValidateSessionID(), quizHandler.Hint)
	sessions.Post("/:id/advance", validationMiddleware.ValidateSessionID(), quizHandler.Advance)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", cfg.Logger.Env))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
