package services

import (
	"context"
	"testing"
	"time"

	"buziak_backend/internal/appErrors"
	"buziak_backend/internal/auth"
	"buziak_backend/internal/models"
	"buziak_backend/internal/services/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdminService(userRepo *fakeUserRepo) AdminService {
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	return NewAdminService(userRepo, tokens, newFakeStorage())
}

func createAdmin(t *testing.T, repo *fakeUserRepo) *models.User {
	t.Helper()
	hash, err := auth.HashPassword("admin-password")
	require.NoError(t, err)
	admin := &models.User{
		Name:         "Admin",
		Email:        "admin@example.com",
		PasswordHash: hash,
		IsAdmin:      true,
		Verified:     true,
	}
	require.NoError(t, repo.Create(nil, admin))
	return admin
}

func TestAdminLogin(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAdminService(userRepo)
	createAdmin(t, userRepo)

	resp, err := svc.Login(context.Background(), nil, &dto.AdminLoginRequest{
		Email:    "admin@example.com",
		Password: "admin-password",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	// Токен несет флаг админа
	tokens := auth.NewTokenIssuer("test-secret", time.Hour)
	claims, err := tokens.Parse(resp.Token)
	require.NoError(t, err)
	assert.True(t, claims.IsAdmin)
}

func TestAdminLoginRejectsNonAdmin(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAdminService(userRepo)

	hash, err := auth.HashPassword("secret123")
	require.NoError(t, err)
	user := &models.User{Name: "Anna", Email: "anna@example.com", PasswordHash: hash}
	require.NoError(t, userRepo.Create(nil, user))

	// Обычный пользователь получает тот же ответ, что и неверный пароль
	_, err = svc.Login(context.Background(), nil, &dto.AdminLoginRequest{
		Email:    "anna@example.com",
		Password: "secret123",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), nil, &dto.AdminLoginRequest{
		Email:    "admin@example.com",
		Password: "wrong",
	})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestToggleBlock(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAdminService(userRepo)
	user := createTestUser(t, userRepo)

	blocked, err := svc.ToggleBlock(context.Background(), nil, user.ID)
	require.NoError(t, err)
	assert.True(t, blocked.IsBlocked)

	unblocked, err := svc.ToggleBlock(context.Background(), nil, user.ID)
	require.NoError(t, err)
	assert.False(t, unblocked.IsBlocked)
}

func TestToggleBlockAdminForbidden(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAdminService(userRepo)
	admin := createAdmin(t, userRepo)

	_, err := svc.ToggleBlock(context.Background(), nil, admin.ID)
	assert.ErrorIs(t, err, appErrors.ErrCannotBlockAdmin)
}

func TestListVerificationQueue(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAdminService(userRepo)

	pending := createTestUser(t, userRepo)
	require.NoError(t, userRepo.UpdateFields(nil, pending.ID, map[string]interface{}{
		"verification_photo": "verification/key.jpg",
	}))

	// Уже верифицированный в очередь не попадает
	verifiedPhone := "+48111111111"
	verified := &models.User{
		Name: "Vera", Email: "vera@example.com", Phone: &verifiedPhone,
		PasswordHash: "$2a$10$fake", VerificationPhoto: "verification/old.jpg", Verified: true,
	}
	require.NoError(t, userRepo.Create(nil, verified))

	queue, err := svc.ListVerificationQueue(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, queue, 1)
	assert.Equal(t, pending.ID, queue[0].ID)
	assert.Equal(t, "https://storage.test/verification/key.jpg?signed=1", queue[0].VerificationPhotoURL)
}

func TestSetVerified(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAdminService(userRepo)
	user := createTestUser(t, userRepo)

	require.NoError(t, svc.SetVerified(context.Background(), nil, user.ID, true))
	updated, _ := userRepo.FindByID(nil, user.ID)
	assert.True(t, updated.Verified)

	require.NoError(t, svc.SetVerified(context.Background(), nil, user.ID, false))
	updated, _ = userRepo.FindByID(nil, user.ID)
	assert.False(t, updated.Verified)
}

func TestSetVerifiedUnknownUser(t *testing.T) {
	svc := newTestAdminService(newFakeUserRepo())

	err := svc.SetVerified(context.Background(), nil, "missing-id", true)
	assert.ErrorIs(t, err, appErrors.ErrUserNotFound)
}

func TestListUsers(t *testing.T) {
	userRepo := newFakeUserRepo()
	svc := newTestAdminService(userRepo)
	createTestUser(t, userRepo)
	createAdmin(t, userRepo)

	users, err := svc.ListUsers(context.Background(), nil)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}
