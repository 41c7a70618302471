package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"invently_backend/database"
	"invently_backend/internal/auth"
	"invently_backend/internal/config"
	"invently_backend/internal/email"
	"invently_backend/internal/handlers"
	"invently_backend/internal/logger"
	"invently_backend/internal/middleware"
	"invently_backend/internal/repositories"
	"invently_backend/internal/routes"
	"invently_backend/internal/services"
	"invently_backend/internal/storage"
	"invently_backend/internal/validator"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig

	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		logger.Fatal("Failed to get *sql.DB from GORM", "error", err)
	}
	if err = sqlDB.Ping(); err != nil {
		logger.Fatal("Database unavailable", "error", err)
	}
	logger.Info("Database connected")

	if err := database.AutoMigrate(gormDB); err != nil {
		logger.Fatal("AutoMigrate failed", "error", err)
	}

	ginRouter, err := SetupRouter(cfg, gormDB)
	if err != nil {
		logger.Fatal("Failed to set up router", "error", err)
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info("Server starting", "address", address)
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

// SetupRouter builds the full gin engine. Configuration problems are
// returned, not logged: a missing JWT secret must stop the process
// before it serves a single request.
func SetupRouter(cfg *config.Config, gormDB *gorm.DB) (*gin.Engine, error) {
	tokens, err := auth.NewTokenManager(cfg.JWT.Secret)
	if err != nil {
		return nil, err
	}

	fileStorage, err := storage.NewStorage(storage.Config{
		Type:      cfg.Storage.Type,
		BasePath:  cfg.Storage.BasePath,
		BaseURL:   cfg.Storage.BaseURL,
		Bucket:    cfg.Storage.Bucket,
		Region:    cfg.Storage.Region,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
		Endpoint:  cfg.Storage.Endpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	var mailer email.Mailer
	if cfg.Email.SMTPHost != "" {
		mailer, err = email.NewSMTPMailer(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mailer: %w", err)
		}
	} else {
		logger.Warn("SMTP not configured, outbound email is disabled")
		mailer = email.LogMailer{}
	}

	// Repositories
	userRepo := repositories.NewUserRepository()
	resetRepo := repositories.NewPasswordResetRepository()
	productRepo := repositories.NewProductRepository()

	// Services
	authService := services.NewAuthService(userRepo, resetRepo, mailer, tokens, cfg)
	userService := services.NewUserService(userRepo)
	productService := services.NewProductService(productRepo, fileStorage, cfg)
	contactService := services.NewContactService(userRepo, mailer, cfg)

	// Handlers
	v := validator.New()
	base := handlers.NewBaseHandler(v)
	appHandlers := &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(base, authService, tokens, cfg),
		UserHandler:    handlers.NewUserHandler(base, userService),
		ProductHandler: handlers.NewProductHandler(base, productService),
		ContactHandler: handlers.NewContactHandler(base, contactService),
	}

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ginRouter := gin.New()
	ginRouter.Use(gin.Recovery())
	ginRouter.Use(middleware.RequestIDMiddleware())
	ginRouter.Use(middleware.LoggingMiddleware())
	ginRouter.Use(middleware.CORSMiddleware(cfg.Auth.FrontendURL))
	ginRouter.Use(middleware.DBMiddleware(gormDB))

	authRequired := middleware.AuthMiddleware(tokens, userRepo)
	routes.RegisterRoutes(ginRouter, appHandlers, authRequired)

	return ginRouter, nil
}
