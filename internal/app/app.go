package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"buziak_backend/database"
	"buziak_backend/internal/auth"
	"buziak_backend/internal/config"
	"buziak_backend/internal/email"
	"buziak_backend/internal/geo"
	"buziak_backend/internal/handlers"
	"buziak_backend/internal/logger"
	"buziak_backend/internal/middleware"
	"buziak_backend/internal/models"
	"buziak_backend/internal/oauth"
	"buziak_backend/internal/repositories"
	"buziak_backend/internal/routes"
	"buziak_backend/internal/services"
	"buziak_backend/internal/storage"
	"buziak_backend/internal/validator"
	"buziak_backend/internal/workers"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Run() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger.Init(cfg.Server.Env)
	logger.Info("Logger initialized", "env", cfg.Server.Env)

	logger.Info("Connecting to database...")
	gormDB, err := database.ConnectGorm()
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
		logger.Fatal("Migration failed", "error", err)
	}

	if err := seedFirstAdmin(gormDB, cfg); err != nil {
		logger.Fatal("Failed to seed first admin user", "error", err)
	}

	ginRouter := SetupRouter(cfg, gormDB)

	// Фоновая очистка протухших кодов подтверждения
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	defer cancelWorkers()
	cleanupWorker := workers.NewCleanupWorker(gormDB, repositories.NewConfirmationCodeRepository())
	cleanupWorker.Start(workerCtx)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info(fmt.Sprintf("Server starting on %s", address))
	if err := ginRouter.Run(address); err != nil {
		logger.Fatal("Server startup error", "error", err)
	}
}

func SetupRouter(cfg *config.Config, gormDB *gorm.DB) *gin.Engine {
	storageInstance, err := storage.NewStorage(storage.Config{
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
		logger.Fatal("Failed to initialize storage", "error", err)
	}
	logger.Info("Storage initialized", "type", cfg.Storage.Type)

	tokens := auth.NewTokenIssuer(cfg.JWT.Secret, time.Duration(cfg.JWT.TTLDays)*24*time.Hour)
	userRepo := repositories.NewUserRepository()

	serviceContainer := initializeServices(cfg, storageInstance, tokens, userRepo)
	appHandlers := initializeHandlers(cfg, serviceContainer)

	ginRouter := initializeGinRouter(cfg, gormDB)
	routes.RegisterRoutes(ginRouter, appHandlers, tokens, userRepo)

	// Локальное хранилище не умеет подписывать ссылки - файлы
	// раздаются напрямую
	if cfg.Storage.Type == "local" && cfg.Storage.BaseURL != "" {
		ginRouter.Static(cfg.Storage.BaseURL, cfg.Storage.BasePath)
	}

	return ginRouter
}

func initializeServices(
	cfg *config.Config,
	storageInstance storage.Storage,
	tokens *auth.TokenIssuer,
	userRepo repositories.UserRepository,
) *services.ServiceContainer {
	var emailService email.Provider
	if cfg.Email.SMTPHost != "" {
		smtpProvider, err := email.NewSMTPProvider(&email.SMTPConfig{
			Host:      cfg.Email.SMTPHost,
			Port:      cfg.Email.SMTPPort,
			Username:  cfg.Email.SMTPUsername,
			Password:  cfg.Email.SMTPPassword,
			FromEmail: cfg.Email.FromEmail,
			FromName:  cfg.Email.FromName,
		})
		if err != nil {
			logger.Fatal("Failed to initialize SMTP provider", "error", err)
		}
		smtpProvider.CodeTTLMinutes = cfg.Auth.CodeTTLMinutes
		smtpProvider.ResetTTLMinutes = cfg.Auth.ResetTTLMinutes
		emailService = smtpProvider
	} else {
		logger.Warn("SMTP is not configured. Outgoing mail goes to a mock provider.")
		emailService = &MockEmailProvider{}
	}

	codeRepo := repositories.NewConfirmationCodeRepository()

	googleProvider := oauth.NewGoogleProvider(
		cfg.Google.ClientID,
		cfg.Google.ClientSecret,
		cfg.Google.RedirectURL,
	)

	authService := services.NewAuthService(userRepo, emailService, tokens, googleProvider, storageInstance, services.AuthPolicy{
		PasswordMinLen: cfg.Auth.PasswordMinLen,
		ResetTTL:       time.Duration(cfg.Auth.ResetTTLMinutes) * time.Minute,
		ClientURL:      cfg.Server.ClientURL,
	})
	confirmationService := services.NewConfirmationService(
		codeRepo,
		emailService,
		time.Duration(cfg.Auth.CodeTTLMinutes)*time.Minute,
	)
	userService := services.NewUserService(userRepo, storageInstance, geo.NewNominatimGeocoder())
	photoService := services.NewPhotoService(userRepo, storageInstance, services.PhotoPolicy{
		MaxSize:      cfg.Upload.MaxSize,
		AllowedTypes: cfg.Upload.AllowedTypes,
	})
	adminService := services.NewAdminService(userRepo, tokens, storageInstance)

	return &services.ServiceContainer{
		AuthService:         authService,
		ConfirmationService: confirmationService,
		UserService:         userService,
		PhotoService:        photoService,
		AdminService:        adminService,
		EmailService:        emailService,
	}
}

func initializeHandlers(cfg *config.Config, services *services.ServiceContainer) *handlers.AppHandlers {
	customValidator := validator.New()
	baseHandler := handlers.NewBaseHandler(customValidator)

	// Вне production код подтверждения дублируется в ответе send-code
	echoCodes := cfg.Server.Env != "production"

	return &handlers.AppHandlers{
		AuthHandler:    handlers.NewAuthHandler(baseHandler, services.AuthService),
		EmailHandler:   handlers.NewEmailHandler(baseHandler, services.AuthService, services.ConfirmationService, echoCodes),
		ProfileHandler: handlers.NewProfileHandler(baseHandler, services.UserService),
		PhotoHandler:   handlers.NewPhotoHandler(baseHandler, services.PhotoService),
		AdminHandler:   handlers.NewAdminHandler(baseHandler, services.AdminService),
	}
}

func initializeGinRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.Server.ClientURL))
	router.Use(middleware.DBMiddleware(db))
	return router
}

// seedFirstAdmin создает первого администратора, если его еще нет
func seedFirstAdmin(db *gorm.DB, cfg *config.Config) error {
	adminEmail := cfg.Admin.Email
	adminPassword := cfg.Admin.Password

	if adminEmail == "" || adminPassword == "" {
		logger.Warn("Admin email or password is not set. Skipping admin seeding.")
		return nil
	}

	var adminUser models.User
	result := db.Where("email = ?", adminEmail).First(&adminUser)

	if result.Error == nil {
		logger.Info("Admin user already exists. Skipping creation.", "email", adminEmail)
		return nil
	}

	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return fmt.Errorf("failed to check for admin user: %w", result.Error)
	}

	logger.Warn("No admin user found. Creating first admin...", "email", adminEmail)

	hashedPassword, err := auth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	newAdmin := &models.User{
		Name:         "Admin",
		Email:        adminEmail,
		PasswordHash: hashedPassword,
		IsAdmin:      true,
		Verified:     true,
	}
	newAdmin.EnsurePhotoSlots()

	if err := db.Create(newAdmin).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("First admin user created", "email", adminEmail)
	return nil
}
