package services

import (
	"context"

	"buziak_backend/internal/appErrors"
	"buziak_backend/internal/auth"
	"buziak_backend/internal/logger"
	"buziak_backend/internal/models"
	"buziak_backend/internal/repositories"
	"buziak_backend/internal/services/dto"
	"buziak_backend/internal/storage"

	"gorm.io/gorm"
)

type AdminService interface {
	// Login - вход администратора: обычная проверка пароля плюс
	// требование флага is_admin
	Login(ctx context.Context, db *gorm.DB, req *dto.AdminLoginRequest) (*dto.LoginResponse, error)

	ListUsers(ctx context.Context, db *gorm.DB) ([]dto.AdminUserResponse, error)
	GetUserDetails(ctx context.Context, db *gorm.DB, userID string) (*dto.AdminUserResponse, error)

	// ToggleBlock переключает блокировку аккаунта
	ToggleBlock(ctx context.Context, db *gorm.DB, userID string) (*models.User, error)

	// ListVerificationQueue - анкеты, ожидающие решения по верификации
	ListVerificationQueue(ctx context.Context, db *gorm.DB) ([]dto.AdminUserResponse, error)
	// SetVerified фиксирует решение администратора по фото
	SetVerified(ctx context.Context, db *gorm.DB, userID string, verified bool) error
}

type adminService struct {
	userRepo repositories.UserRepository
	tokens   *auth.TokenIssuer
	store    storage.Storage
}

// NewAdminService создает новый AdminService
func NewAdminService(userRepo repositories.UserRepository, tokens *auth.TokenIssuer, store storage.Storage) AdminService {
	return &adminService{
		userRepo: userRepo,
		tokens:   tokens,
		store:    store,
	}
}

func (s *adminService) Login(ctx context.Context, db *gorm.DB, req *dto.AdminLoginRequest) (*dto.LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrInvalidCredentials
		}
		return nil, appErrors.InternalError(err)
	}

	if !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, appErrors.ErrInvalidCredentials
	}

	// Не-админ получает тот же ответ, что и неверный пароль
	if !user.IsAdmin {
		return nil, appErrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, true)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Admin logged in", "user_id", user.ID)
	return &dto.LoginResponse{Token: token, User: user}, nil
}

func (s *adminService) ListUsers(ctx context.Context, db *gorm.DB) ([]dto.AdminUserResponse, error) {
	users, err := s.userRepo.FindAll(db)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	result := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		result = append(result, dto.AdminUserResponse{User: &users[i]})
	}
	return result, nil
}

func (s *adminService) GetUserDetails(ctx context.Context, db *gorm.DB, userID string) (*dto.AdminUserResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	resp := &dto.AdminUserResponse{User: user}
	resp.VerificationPhotoURL = s.signVerificationPhoto(ctx, user)
	return resp, nil
}

func (s *adminService) ToggleBlock(ctx context.Context, db *gorm.DB, userID string) (*models.User, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	// Администраторы не блокируют друг друга
	if user.IsAdmin {
		return nil, appErrors.ErrCannotBlockAdmin
	}

	user.IsBlocked = !user.IsBlocked
	if err := s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"is_blocked": user.IsBlocked,
	}); err != nil {
		return nil, appErrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "User block toggled", "user_id", user.ID, "is_blocked", user.IsBlocked)
	return user, nil
}

func (s *adminService) ListVerificationQueue(ctx context.Context, db *gorm.DB) ([]dto.AdminUserResponse, error) {
	users, err := s.userRepo.FindForVerification(db)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	result := make([]dto.AdminUserResponse, 0, len(users))
	for i := range users {
		entry := dto.AdminUserResponse{User: &users[i]}
		entry.VerificationPhotoURL = s.signVerificationPhoto(ctx, &users[i])
		result = append(result, entry)
	}
	return result, nil
}

func (s *adminService) SetVerified(ctx context.Context, db *gorm.DB, userID string, verified bool) error {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}

	if err := s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"verified": verified,
	}); err != nil {
		return appErrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Verification decision recorded", "user_id", user.ID, "verified", verified)
	return nil
}

func (s *adminService) signVerificationPhoto(ctx context.Context, user *models.User) string {
	if user.VerificationPhoto == "" || s.store == nil {
		return ""
	}
	url, err := s.store.GetSignedURL(ctx, user.VerificationPhoto, storage.SignedURLTTL)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to sign verification photo URL", "key", user.VerificationPhoto, "error", err.Error())
		return ""
	}
	return url
}
