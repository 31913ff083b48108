package routes

import (
	"buziak_backend/internal/auth"
	"buziak_backend/internal/handlers"
	"buziak_backend/internal/middleware"
	"buziak_backend/internal/repositories"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokens *auth.TokenIssuer,
	userRepo repositories.UserRepository,
) {
	authRequired := middleware.AuthMiddleware(tokens, userRepo)

	api := ginRouter.Group("/api/v1")
	{
		// Публичные маршруты аутентификации
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", appHandlers.AuthHandler.Register)
			authGroup.POST("/login", appHandlers.AuthHandler.Login)
			authGroup.GET("/google", appHandlers.AuthHandler.GoogleLogin)
			authGroup.GET("/google/callback", appHandlers.AuthHandler.GoogleCallback)
		}

		// Подтверждение email и сброс пароля
		emailGroup := api.Group("/email")
		{
			emailGroup.POST("/send-code", appHandlers.EmailHandler.SendCode)
			emailGroup.POST("/verify-code", appHandlers.EmailHandler.VerifyCode)
			emailGroup.POST("/forgot-password", appHandlers.EmailHandler.ForgotPassword)
			emailGroup.GET("/verify-token/:token", appHandlers.EmailHandler.VerifyResetToken)
			emailGroup.POST("/reset-password", appHandlers.EmailHandler.ResetPassword)
		}

		// Анкета текущего пользователя
		profileGroup := api.Group("/profile")
		profileGroup.Use(authRequired)
		{
			profileGroup.GET("/me", appHandlers.ProfileHandler.GetMe)
			profileGroup.PUT("/me", appHandlers.ProfileHandler.UpdateMe)
			profileGroup.PUT("/me/location", appHandlers.ProfileHandler.UpdateLocation)

			profileGroup.POST("/me/photos/:position", appHandlers.PhotoHandler.UploadPhoto)
			profileGroup.DELETE("/me/photos/:position", appHandlers.PhotoHandler.DeletePhoto)
			profileGroup.POST("/me/verification-photo", appHandlers.PhotoHandler.UploadVerificationPhoto)
		}

		// Админка
		adminGroup := api.Group("/admin")
		{
			adminGroup.POST("/login", appHandlers.AdminHandler.Login)

			protected := adminGroup.Group("")
			protected.Use(authRequired, middleware.AdminMiddleware())
			{
				protected.GET("/users", appHandlers.AdminHandler.ListUsers)
				protected.GET("/users/:id", appHandlers.AdminHandler.GetUser)
				protected.POST("/users/:id/toggle-block", appHandlers.AdminHandler.ToggleBlock)
				protected.GET("/verifications", appHandlers.AdminHandler.ListVerificationQueue)
				protected.POST("/users/:id/verify", appHandlers.AdminHandler.SetVerified)
			}
		}
	}
}
