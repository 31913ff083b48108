package services

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"buziak_backend/internal/appErrors"
	"buziak_backend/internal/email"
	"buziak_backend/internal/logger"
	"buziak_backend/internal/models"
	"buziak_backend/internal/repositories"

	"gorm.io/gorm"
)

// ConfirmationService управляет кодами подтверждения email.
// Контракт: последняя отправка выигрывает, успешная проверка одноразова,
// промах не гасит код до истечения срока.
type ConfirmationService interface {
	// IssueCode выдает код для email и отправляет его письмом.
	// Возвращает код (он же отдается в ответе в dev-окружении).
	IssueCode(ctx context.Context, db *gorm.DB, emailAddr string) (string, error)

	// VerifyCode проверяет и гасит код
	VerifyCode(ctx context.Context, db *gorm.DB, emailAddr, code string) error
}

type confirmationService struct {
	codeRepo      repositories.ConfirmationCodeRepository
	emailProvider email.Provider
	codeTTL       time.Duration
}

// NewConfirmationService создает новый ConfirmationService
func NewConfirmationService(
	codeRepo repositories.ConfirmationCodeRepository,
	emailProvider email.Provider,
	codeTTL time.Duration,
) ConfirmationService {
	return &confirmationService{
		codeRepo:      codeRepo,
		emailProvider: emailProvider,
		codeTTL:       codeTTL,
	}
}

// IssueCode - выдача кода подтверждения
func (s *confirmationService) IssueCode(ctx context.Context, db *gorm.DB, emailAddr string) (string, error) {
	if emailAddr == "" {
		return "", appErrors.ErrEmailRequired
	}

	code := generateConfirmationCode()

	// Сначала фиксируем код, потом отправляем: upsert перезаписывает
	// предыдущий код атомарно относительно параллельной проверки
	record := &models.ConfirmationCode{
		Email:     emailAddr,
		Code:      code,
		ExpiresAt: time.Now().Add(s.codeTTL),
		CreatedAt: time.Now(),
	}
	if err := s.codeRepo.Upsert(db, record); err != nil {
		return "", appErrors.InternalError(err)
	}

	if err := s.emailProvider.SendConfirmationCode(emailAddr, code); err != nil {
		// Код остается выданным: клиенту предлагается повторить отправку,
		// а уже полученный другим каналом код все еще проверяем
		logger.CtxWithError(ctx, "Failed to send confirmation code", err, "email", emailAddr)
		return code, appErrors.ErrMailDispatchFailed
	}

	return code, nil
}

// VerifyCode - проверка и однократное гашение кода
func (s *confirmationService) VerifyCode(ctx context.Context, db *gorm.DB, emailAddr, code string) error {
	if emailAddr == "" {
		return appErrors.ErrEmailRequired
	}

	if err := s.codeRepo.Consume(db, emailAddr, code); err != nil {
		switch {
		case appErrors.Is(err, repositories.ErrCodeNotFound):
			return appErrors.ErrNoCodeFound
		case appErrors.Is(err, repositories.ErrCodeMismatch):
			// Промах не удаляет код: можно пробовать до истечения срока
			return appErrors.ErrCodeMismatch
		default:
			return appErrors.InternalError(err)
		}
	}

	logger.CtxInfo(ctx, "Email confirmed", "email", emailAddr)
	return nil
}

// generateConfirmationCode возвращает 4-значный код из диапазона [1000, 9999]
func generateConfirmationCode() string {
	return fmt.Sprintf("%d", 1000+rand.Intn(9000))
}
