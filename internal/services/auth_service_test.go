package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"buziak_backend/internal/appErrors"
	"buziak_backend/internal/auth"
	"buziak_backend/internal/oauth"
	"buziak_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAuthService(userRepo *fakeUserRepo, emailProvider *fakeEmailProvider, google GoogleAuthenticator) AuthService {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewAuthService(userRepo, emailProvider, tokens, google, newFakeStorage(), AuthPolicy{
		PasswordMinLen: 6,
		ResetTTL:       time.Hour,
		ClientURL:      "https://app.test",
	})
}

func registerRequest() *dto.RegisterRequest {
	return &dto.RegisterRequest{
		Name:     "Anna",
		Phone:    "+48123456789",
		Email:    "anna@example.com",
		Password: "secret123",
		Gender:   "female",
	}
}

func TestRegister(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, newFakeEmailProvider(), &fakeGoogle{})

	err := svc.Register(context.Background(), nil, registerRequest())
	require.NoError(t, err)

	user, err := userRepo.FindByEmail(nil, "anna@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Anna", user.Name)
	// Пароль хранится только хешем
	assert.NotEqual(t, "secret123", user.PasswordHash)
	assert.True(t, auth.CheckPasswordHash("secret123", user.PasswordHash))
	assert.False(t, user.Verified)
	assert.False(t, user.IsAdmin)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeEmailProvider(), &fakeGoogle{})

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))

	second := registerRequest()
	second.Phone = "+48999999999"
	err := svc.Register(context.Background(), nil, second)
	assert.ErrorIs(t, err, appErrors.ErrEmailTaken)
}

func TestRegisterDuplicatePhone(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeEmailProvider(), &fakeGoogle{})

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))

	second := registerRequest()
	second.Email = "other@example.com"
	err := svc.Register(context.Background(), nil, second)
	assert.ErrorIs(t, err, appErrors.ErrPhoneTaken)
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeEmailProvider(), &fakeGoogle{})

	req := registerRequest()
	req.Password = "12345"
	err := svc.Register(context.Background(), nil, req)
	assert.ErrorIs(t, err, appErrors.ErrWeakPassword)
}

func TestLogin(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, newFakeEmailProvider(), &fakeGoogle{})

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))

	resp, err := svc.Login(context.Background(), nil, &dto.LoginRequest{
		Email:    "anna@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "anna@example.com", resp.User.Email)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeEmailProvider(), &fakeGoogle{})

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))

	// Неверный пароль и несуществующий email дают один и тот же ответ
	_, err := svc.Login(context.Background(), nil, &dto.LoginRequest{
		Email:    "anna@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err2 := svc.Login(context.Background(), nil, &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err2, appErrors.ErrInvalidCredentials)
	assert.Equal(t, err, err2)
}

func TestLoginBlockedUser(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, newFakeEmailProvider(), &fakeGoogle{})

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))

	user, err := userRepo.FindByEmail(nil, "anna@example.com")
	require.NoError(t, err)
	require.NoError(t, userRepo.UpdateFields(nil, user.ID, map[string]interface{}{"is_blocked": true}))

	_, err = svc.Login(context.Background(), nil, &dto.LoginRequest{
		Email:    "anna@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, appErrors.ErrUserBlocked)
}

func TestGoogleLoginCreatesUser(t *testing.T) {
	userRepo := newFakeUserRepo()
	google := &fakeGoogle{info: &oauth.UserInfo{
		ID:    "google-12345",
		Email: "fed@example.com",
		Name:  "Fed User",
	}}
	svc := newTestAuthService(userRepo, newFakeEmailProvider(), google)

	resp, err := svc.GoogleLogin(context.Background(), nil, "auth-code")
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	user, err := userRepo.FindByEmail(nil, "fed@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Fed User", user.Name)
	require.NotNil(t, user.Phone)
	assert.Equal(t, "google_google-12345", *user.Phone)
	// Placeholder-паролем войти нельзя
	_, err = svc.Login(context.Background(), nil, &dto.LoginRequest{
		Email:    "fed@example.com",
		Password: "",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestGoogleLoginExistingUser(t *testing.T) {
	userRepo := newFakeUserRepo()
	google := &fakeGoogle{info: &oauth.UserInfo{
		ID:    "google-12345",
		Email: "anna@example.com",
		Name:  "Anna G",
	}}
	svc := newTestAuthService(userRepo, newFakeEmailProvider(), google)

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))

	resp, err := svc.GoogleLogin(context.Background(), nil, "auth-code")
	require.NoError(t, err)
	assert.Equal(t, "anna@example.com", resp.User.Email)

	// Второй вход не плодит дубликат
	users, err := userRepo.FindAll(nil)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestRequestPasswordReset(t *testing.T) {
	userRepo := newFakeUserRepo()
	emailProvider := newFakeEmailProvider()
	svc := newTestAuthService(userRepo, emailProvider, &fakeGoogle{})

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))

	require.NoError(t, svc.RequestPasswordReset(context.Background(), nil, "anna@example.com"))

	user, err := userRepo.FindByEmail(nil, "anna@example.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ResetToken)
	require.NotNil(t, user.ResetTokenExp)
	assert.True(t, user.ResetTokenExp.After(time.Now()))

	link := emailProvider.resetLinks["anna@example.com"]
	assert.True(t, strings.HasPrefix(link, "https://app.test/newPassword?token="))
	assert.Contains(t, link, user.ResetToken)
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), newFakeEmailProvider(), &fakeGoogle{})

	err := svc.RequestPasswordReset(context.Background(), nil, "nobody@example.com")
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}

func TestRequestPasswordResetOverwritesToken(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, newFakeEmailProvider(), &fakeGoogle{})

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))

	require.NoError(t, svc.RequestPasswordReset(context.Background(), nil, "anna@example.com"))
	user, _ := userRepo.FindByEmail(nil, "anna@example.com")
	firstToken := user.ResetToken

	require.NoError(t, svc.RequestPasswordReset(context.Background(), nil, "anna@example.com"))

	// Старый токен мертв, живет только последний
	assert.False(t, svc.VerifyResetToken(nil, firstToken))
	user, _ = userRepo.FindByEmail(nil, "anna@example.com")
	assert.True(t, svc.VerifyResetToken(nil, user.ResetToken))
}

func TestResetPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, newFakeEmailProvider(), &fakeGoogle{})

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))
	require.NoError(t, svc.RequestPasswordReset(context.Background(), nil, "anna@example.com"))

	user, _ := userRepo.FindByEmail(nil, "anna@example.com")
	token := user.ResetToken

	require.NoError(t, svc.ResetPassword(context.Background(), nil, token, "newsecret"))

	// Новый пароль работает, старый - нет
	_, err := svc.Login(context.Background(), nil, &dto.LoginRequest{
		Email:    "anna@example.com",
		Password: "newsecret",
	})
	assert.NoError(t, err)
	_, err = svc.Login(context.Background(), nil, &dto.LoginRequest{
		Email:    "anna@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	// Токен одноразовый
	err = svc.ResetPassword(context.Background(), nil, token, "anothersecret")
	assert.ErrorIs(t, err, appErrors.ErrResetTokenInvalid)
}

func TestResetPasswordWeakPassword(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, newFakeEmailProvider(), &fakeGoogle{})

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))
	require.NoError(t, svc.RequestPasswordReset(context.Background(), nil, "anna@example.com"))

	user, _ := userRepo.FindByEmail(nil, "anna@example.com")
	err := svc.ResetPassword(context.Background(), nil, user.ResetToken, "123")
	assert.ErrorIs(t, err, appErrors.ErrWeakPassword)

	// Неудачная попытка не гасит токен
	assert.True(t, svc.VerifyResetToken(nil, user.ResetToken))
}

func TestVerifyResetTokenExpired(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAuthService(userRepo, newFakeEmailProvider(), &fakeGoogle{})

	require.NoError(t, svc.Register(context.Background(), nil, registerRequest()))

	user, _ := userRepo.FindByEmail(nil, "anna@example.com")
	expired := time.Now().Add(-time.Minute)
	require.NoError(t, userRepo.UpdateFields(nil, user.ID, map[string]interface{}{
		"reset_token":     "stale-token",
		"reset_token_exp": expired,
	}))

	assert.False(t, svc.VerifyResetToken(nil, "stale-token"))
	err := svc.ResetPassword(context.Background(), nil, "stale-token", "newsecret")
	assert.ErrorIs(t, err, appErrors.ErrResetTokenInvalid)
}
