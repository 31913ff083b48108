package services

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"strings"
	"time"

	"buziak_backend/internal/appErrors"
	"buziak_backend/internal/imageprocessor"
	"buziak_backend/internal/logger"
	"buziak_backend/internal/models"
	"buziak_backend/internal/repositories"
	"buziak_backend/internal/services/dto"
	"buziak_backend/internal/storage"

	"gorm.io/gorm"
)

// PhotoUpload - принятый от клиента файл
type PhotoUpload struct {
	Reader      io.Reader
	Filename    string
	Size        int64
	ContentType string
}

// PhotoPolicy - ограничения на загружаемые файлы
type PhotoPolicy struct {
	MaxSize      int64
	AllowedTypes []string
}

type PhotoService interface {
	// UploadPhoto кладет фотографию в слот position, вытесняя прежнюю
	UploadPhoto(ctx context.Context, db *gorm.DB, userID string, position int, upload *PhotoUpload) (*dto.PhotoURL, error)
	// DeletePhoto освобождает слот position
	DeletePhoto(ctx context.Context, db *gorm.DB, userID string, position int) error
	// UploadVerificationPhoto принимает фото для верификации и сбрасывает
	// прежний статус проверки
	UploadVerificationPhoto(ctx context.Context, db *gorm.DB, userID string, upload *PhotoUpload) error
}

type photoService struct {
	userRepo  repositories.UserRepository
	store     storage.Storage
	processor *imageprocessor.Processor
	policy    PhotoPolicy
}

// NewPhotoService создает новый PhotoService
func NewPhotoService(userRepo repositories.UserRepository, store storage.Storage, policy PhotoPolicy) PhotoService {
	return &photoService{
		userRepo:  userRepo,
		store:     store,
		processor: imageprocessor.NewProcessor(85),
		policy:    policy,
	}
}

func (s *photoService) UploadPhoto(ctx context.Context, db *gorm.DB, userID string, position int, upload *PhotoUpload) (*dto.PhotoURL, error) {
	if position < 0 || position >= models.PhotoSlotCount {
		return nil, appErrors.ErrInvalidPhotoSlot
	}
	if err := s.validateUpload(upload); err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}
	user.EnsurePhotoSlots()

	body, contentType, err := s.processor.Normalize(upload.Reader)
	if err != nil {
		return nil, appErrors.ErrInvalidFileType
	}

	key := s.buildKey("photos", userID, contentType)
	if err := s.store.Save(ctx, key, body, contentType); err != nil {
		return nil, appErrors.DependencyError(err)
	}

	oldKey := user.Photos[position]
	user.Photos[position] = key
	if err := s.userRepo.Update(db, user); err != nil {
		// Анкета не обновилась - подчищаем уже загруженный файл
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.CtxWarn(ctx, "Failed to clean up orphaned photo", "key", key, "error", delErr.Error())
		}
		return nil, appErrors.InternalError(err)
	}

	// Старый файл слота больше никому не нужен
	if oldKey != "" {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			logger.CtxWarn(ctx, "Failed to delete replaced photo", "key", oldKey, "error", err.Error())
		}
	}

	url, err := s.store.GetSignedURL(ctx, key, storage.SignedURLTTL)
	if err != nil {
		logger.CtxWarn(ctx, "Failed to sign uploaded photo URL", "key", key, "error", err.Error())
		url = ""
	}

	return &dto.PhotoURL{Position: position, URL: url, Key: key}, nil
}

func (s *photoService) DeletePhoto(ctx context.Context, db *gorm.DB, userID string, position int) error {
	if position < 0 || position >= models.PhotoSlotCount {
		return appErrors.ErrInvalidPhotoSlot
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}
	user.EnsurePhotoSlots()

	key := user.Photos[position]
	if key == "" {
		return appErrors.ErrPhotoNotFound
	}

	user.Photos[position] = ""
	if err := s.userRepo.Update(db, user); err != nil {
		return appErrors.InternalError(err)
	}

	if err := s.store.Delete(ctx, key); err != nil {
		logger.CtxWarn(ctx, "Failed to delete photo object", "key", key, "error", err.Error())
	}

	return nil
}

func (s *photoService) UploadVerificationPhoto(ctx context.Context, db *gorm.DB, userID string, upload *PhotoUpload) error {
	if err := s.validateUpload(upload); err != nil {
		return err
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return appErrors.ErrUserNotFound
		}
		return appErrors.InternalError(err)
	}

	body, contentType, err := s.processor.Normalize(upload.Reader)
	if err != nil {
		return appErrors.ErrInvalidFileType
	}

	key := s.buildKey("verification", userID, contentType)
	if err := s.store.Save(ctx, key, body, contentType); err != nil {
		return appErrors.DependencyError(err)
	}

	oldKey := user.VerificationPhoto

	// Новое фото на верификацию всегда сбрасывает прежний статус
	err = s.userRepo.UpdateFields(db, user.ID, map[string]interface{}{
		"verification_photo": key,
		"verified":           false,
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			logger.CtxWarn(ctx, "Failed to clean up orphaned verification photo", "key", key, "error", delErr.Error())
		}
		return appErrors.InternalError(err)
	}

	if oldKey != "" {
		if err := s.store.Delete(ctx, oldKey); err != nil {
			logger.CtxWarn(ctx, "Failed to delete previous verification photo", "key", oldKey, "error", err.Error())
		}
	}

	logger.CtxInfo(ctx, "Verification photo submitted", "user_id", user.ID)
	return nil
}

func (s *photoService) validateUpload(upload *PhotoUpload) error {
	if upload == nil || upload.Reader == nil {
		return appErrors.ErrFileRequired
	}
	if upload.Size > s.policy.MaxSize {
		return appErrors.ErrFileTooLarge
	}

	allowed := false
	for _, t := range s.policy.AllowedTypes {
		if strings.EqualFold(upload.ContentType, t) {
			allowed = true
			break
		}
	}
	if !allowed {
		return appErrors.ErrInvalidFileType
	}

	return nil
}

// buildKey собирает ключ объекта: префикс, владелец, метка времени и
// случайный суффикс против коллизий при параллельных загрузках.
// Расширение берется из фактического типа после нормализации,
// а не из имени файла клиента.
func (s *photoService) buildKey(prefix, userID, contentType string) string {
	ext := ".jpg"
	if contentType == "image/png" {
		ext = ".png"
	}
	return fmt.Sprintf("%s/%s-%d-%04d%s", prefix, userID, time.Now().UnixNano(), rand.Intn(10000), ext)
}
