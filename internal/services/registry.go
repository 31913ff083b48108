package services

import (
	"buziak_backend/internal/email"
)

// ServiceContainer содержит все сервисы приложения.
type ServiceContainer struct {
	AuthService         AuthService
	ConfirmationService ConfirmationService
	UserService         UserService
	PhotoService        PhotoService
	AdminService        AdminService
	EmailService        email.Provider
}
