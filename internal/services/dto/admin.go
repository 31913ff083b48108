package dto

import "buziak_backend/internal/models"

// AdminLoginRequest - вход администратора
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// VerifyUserRequest - решение администратора по верификации анкеты
type VerifyUserRequest struct {
	Verified *bool `json:"verified" binding:"required"`
}

// AdminUserResponse - пользователь в списках админки
type AdminUserResponse struct {
	*models.User
	VerificationPhotoURL string `json:"verificationPhotoUrl,omitempty"`
}
