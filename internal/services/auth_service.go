package services

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"buziak_backend/internal/appErrors"
	"buziak_backend/internal/auth"
	"buziak_backend/internal/email"
	"buziak_backend/internal/logger"
	"buziak_backend/internal/models"
	"buziak_backend/internal/oauth"
	"buziak_backend/internal/repositories"
	"buziak_backend/internal/services/dto"
	"buziak_backend/internal/storage"

	"gorm.io/gorm"
)

// GoogleAuthenticator - граница с OAuth провайдером (подменяется в тестах)
type GoogleAuthenticator interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (*oauth.UserInfo, error)
}

// AuthPolicy - настройки аутентификации
type AuthPolicy struct {
	PasswordMinLen int
	ResetTTL       time.Duration
	ClientURL      string
}

type AuthService interface {
	Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) error
	Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error)

	// GoogleAuthURL возвращает URL страницы согласия Google
	GoogleAuthURL(state string) string
	// GoogleLogin обменивает authorization code на локальную сессию,
	// создавая аккаунт при первом входе
	GoogleLogin(ctx context.Context, db *gorm.DB, code string) (*dto.LoginResponse, error)

	RequestPasswordReset(ctx context.Context, db *gorm.DB, emailAddr string) error
	VerifyResetToken(db *gorm.DB, token string) bool
	ResetPassword(ctx context.Context, db *gorm.DB, token, newPassword string) error
}

type authService struct {
	userRepo      repositories.UserRepository
	emailProvider email.Provider
	tokens        *auth.TokenIssuer
	google        GoogleAuthenticator
	store         storage.Storage
	policy        AuthPolicy
}

// NewAuthService создает новый AuthService
func NewAuthService(
	userRepo repositories.UserRepository,
	emailProvider email.Provider,
	tokens *auth.TokenIssuer,
	google GoogleAuthenticator,
	store storage.Storage,
	policy AuthPolicy,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		emailProvider: emailProvider,
		tokens:        tokens,
		google:        google,
		store:         store,
		policy:        policy,
	}
}

// Register - регистрация нового пользователя
func (s *authService) Register(ctx context.Context, db *gorm.DB, req *dto.RegisterRequest) error {
	if err := auth.ValidatePassword(req.Password, s.policy.PasswordMinLen); err != nil {
		return appErrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(req.Password)
	if err != nil {
		return appErrors.InternalError(err)
	}

	phone := req.Phone
	user := &models.User{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        &phone,
		PasswordHash: hashedPassword,
		Gender:       models.Gender(req.Gender),
	}

	// Уникальность email/телефона решает индекс БД, не предварительная
	// проверка: при гонке проигравший Create вернет Duplicate*
	if err := s.userRepo.Create(db, user); err != nil {
		switch {
		case appErrors.Is(err, repositories.ErrDuplicateEmail):
			return appErrors.ErrEmailTaken
		case appErrors.Is(err, repositories.ErrDuplicatePhone):
			return appErrors.ErrPhoneTaken
		default:
			return appErrors.InternalError(err)
		}
	}

	logger.CtxInfo(ctx, "User registered", "user_id", user.ID, "email", user.Email)
	return nil
}

// Login - аутентификация по email и паролю.
// "Нет такого email" и "неверный пароль" неразличимы для клиента,
// чтобы не допускать перебора аккаунтов.
func (s *authService) Login(ctx context.Context, db *gorm.DB, req *dto.LoginRequest) (*dto.LoginResponse, error) {
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

	if user.IsBlocked {
		return nil, appErrors.ErrUserBlocked
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.LoginResponse{Token: token, User: user}, nil
}

// GoogleAuthURL возвращает URL страницы согласия Google
func (s *authService) GoogleAuthURL(state string) string {
	return s.google.AuthURL(state)
}

// GoogleLogin - федеративный вход через Google
func (s *authService) GoogleLogin(ctx context.Context, db *gorm.DB, code string) (*dto.LoginResponse, error) {
	info, err := s.google.Exchange(ctx, code)
	if err != nil {
		return nil, appErrors.DependencyError(err)
	}

	user, err := s.resolveFederatedUser(ctx, db, info)
	if err != nil {
		return nil, err
	}

	if user.IsBlocked {
		return nil, appErrors.ErrUserBlocked
	}

	token, err := s.tokens.Issue(user.ID, user.IsAdmin)
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	return &dto.LoginResponse{Token: token, User: user}, nil
}

// resolveFederatedUser находит аккаунт по email из userinfo или создает
// новый при первом входе
func (s *authService) resolveFederatedUser(ctx context.Context, db *gorm.DB, info *oauth.UserInfo) (*models.User, error) {
	user, err := s.userRepo.FindByEmail(db, info.Email)
	if err == nil {
		// Аккаунт уже есть - обновляем имя из userinfo
		if info.Name != "" && info.Name != user.Name {
			user.Name = info.Name
			if err := s.userRepo.Update(db, user); err != nil {
				return nil, appErrors.InternalError(err)
			}
		}
		return user, nil
	}
	if !appErrors.Is(err, repositories.ErrUserNotFound) {
		return nil, appErrors.InternalError(err)
	}

	// Первый вход: локальный пароль - случайный placeholder, войти по нему
	// нельзя, пока пользователь явно не установит свой через сброс
	placeholder, err := auth.HashPassword(auth.GenerateRandomToken())
	if err != nil {
		return nil, appErrors.InternalError(err)
	}

	phone := fmt.Sprintf("google_%s", info.ID)
	user = &models.User{
		Name:         info.Name,
		Email:        info.Email,
		Phone:        &phone,
		PasswordHash: placeholder,
		Gender:       models.GenderMale,
	}

	if err := s.userRepo.Create(db, user); err != nil {
		// Параллельный первый вход того же пользователя: забираем созданный
		if appErrors.Is(err, repositories.ErrDuplicateEmail) {
			return s.userRepo.FindByEmail(db, info.Email)
		}
		return nil, appErrors.InternalError(err)
	}

	// Аватар из Google: любая ошибка здесь не должна ронять вход
	if info.Picture != "" {
		s.fetchGoogleAvatar(ctx, db, user, info.Picture)
	}

	logger.CtxInfo(ctx, "User created via Google login", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// fetchGoogleAvatar скачивает картинку профиля и кладет ее в нулевой слот.
// Ошибки логируются и глотаются.
func (s *authService) fetchGoogleAvatar(ctx context.Context, db *gorm.DB, user *models.User, pictureURL string) {
	if s.store == nil {
		return
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pictureURL, nil)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to build avatar request", "error", err.Error())
		return
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to fetch Google avatar", "error", err.Error())
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.CtxWarn(ctx, "Google avatar fetch returned non-200", "status", resp.StatusCode)
		return
	}

	key := fmt.Sprintf("photos/%s-%d-google.jpg", user.ID, time.Now().UnixNano())
	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	if err := s.store.Save(ctx, key, resp.Body, contentType); err != nil {
		logger.CtxWarn(ctx, "Failed to store Google avatar", "error", err.Error())
		return
	}

	user.EnsurePhotoSlots()
	user.Photos[0] = key
	if err := s.userRepo.Update(db, user); err != nil {
		logger.CtxWarn(ctx, "Failed to save avatar slot", "error", err.Error())
	}
}

// RequestPasswordReset - запрос сброса пароля
func (s *authService) RequestPasswordReset(ctx context.Context, db *gorm.DB, emailAddr string) error {
	user, err := s.userRepo.FindByEmail(db, emailAddr)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}

	// Новый запрос перезаписывает предыдущий токен: у аккаунта всегда
	// не больше одного живого токена сброса
	resetToken := auth.GenerateRandomToken()
	resetTokenExp := time.Now().Add(s.policy.ResetTTL)

	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"reset_token":     resetToken,
		"reset_token_exp": resetTokenExp,
	})
	if err != nil {
		return appErrors.InternalError(err)
	}

	resetLink := fmt.Sprintf("%s/newPassword?token=%s", s.policy.ClientURL, resetToken)
	if err := s.emailProvider.SendPasswordResetLink(user.Email, resetLink); err != nil {
		logger.CtxWithError(ctx, "Failed to send password reset link", err, "email", user.Email)
		return appErrors.ErrMailDispatchFailed
	}

	return nil
}

// VerifyResetToken - read-only проверка, не гасит токен
func (s *authService) VerifyResetToken(db *gorm.DB, token string) bool {
	if token == "" {
		return false
	}
	_, err := s.userRepo.FindByResetToken(db, token)
	return err == nil
}

// ResetPassword - смена пароля по токену.
// Очистка токена происходит в том же Update, что и запись нового пароля:
// токен не может быть использован дважды.
func (s *authService) ResetPassword(ctx context.Context, db *gorm.DB, token, newPassword string) error {
	user, err := s.userRepo.FindByResetToken(db, token)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrResetTokenInvalid
		}
		return appErrors.InternalError(err)
	}

	if err := auth.ValidatePassword(newPassword, s.policy.PasswordMinLen); err != nil {
		return appErrors.ErrWeakPassword
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return appErrors.InternalError(err)
	}

	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"password_hash":   hashedPassword,
		"reset_token":     "",
		"reset_token_exp": nil,
	})
	if err != nil {
		return appErrors.InternalError(err)
	}

	logger.CtxInfo(ctx, "Password reset completed", "user_id", user.ID)
	return nil
}
