package services

import (
	"context"

	"buziak_backend/internal/appErrors"
	"buziak_backend/internal/geo"
	"buziak_backend/internal/logger"
	"buziak_backend/internal/models"
	"buziak_backend/internal/repositories"
	"buziak_backend/internal/services/dto"
	"buziak_backend/internal/storage"

	"gorm.io/gorm"
)

type UserService interface {
	GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error)
	UpdateLocation(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateLocationRequest) (*dto.ProfileResponse, error)
}

type userService struct {
	userRepo repositories.UserRepository
	store    storage.Storage
	geocoder geo.Geocoder
}

// NewUserService создает новый UserService
func NewUserService(userRepo repositories.UserRepository, store storage.Storage, geocoder geo.Geocoder) UserService {
	return &userService{
		userRepo: userRepo,
		store:    store,
		geocoder: geocoder,
	}
}

// GetProfile - анкета пользователя с подписанными ссылками на фотографии
func (s *userService) GetProfile(ctx context.Context, db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	return s.buildProfileResponse(ctx, user), nil
}

// UpdateProfile - частичное обновление анкеты: меняются только присланные поля
func (s *userService) UpdateProfile(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateProfileRequest) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.AboutMe != nil {
		user.AboutMe = *req.AboutMe
	}
	if req.BirthDay != nil {
		user.BirthDay = req.BirthDay
	}
	if req.Age != nil {
		user.Age = *req.Age
	}
	if req.Purpose != nil {
		user.Purpose = *req.Purpose
	}
	if req.LookingFor != nil {
		user.LookingFor = *req.LookingFor
	}
	if req.WhoSeesMyProfile != nil {
		user.WhoSeesMyProfile = *req.WhoSeesMyProfile
	}
	if req.Language != nil {
		user.Language = *req.Language
	}
	if req.ShowOnlyWithPhoto != nil {
		user.ShowOnlyWithPhoto = *req.ShowOnlyWithPhoto
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, appErrors.InternalError(err)
	}

	return s.buildProfileResponse(ctx, user), nil
}

// UpdateLocation сохраняет координаты и пытается определить страну и город.
// Отказ геокодера не ломает обновление: координаты сохраняются всегда.
func (s *userService) UpdateLocation(ctx context.Context, db *gorm.DB, userID string, req *dto.UpdateLocationRequest) (*dto.ProfileResponse, error) {
	if req.Latitude < -90 || req.Latitude > 90 || req.Longitude < -180 || req.Longitude > 180 {
		return nil, appErrors.ErrInvalidCoordinates
	}

	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		if appErrors.Is(err, repositories.ErrUserNotFound) {
			return nil, appErrors.ErrUserNotFound
		}
		return nil, appErrors.InternalError(err)
	}

	user.Latitude = &req.Latitude
	user.Longitude = &req.Longitude

	if s.geocoder != nil {
		location, geoErr := s.geocoder.ReverseGeocode(ctx, req.Latitude, req.Longitude)
		if geoErr != nil {
			logger.CtxWarn(ctx, "Reverse geocoding failed", "error", geoErr.Error())
		} else {
			user.Country = location.Country
			user.City = location.City
		}
	}

	if err := s.userRepo.Update(db, user); err != nil {
		return nil, appErrors.InternalError(err)
	}

	return s.buildProfileResponse(ctx, user), nil
}

// buildProfileResponse подписывает ссылки на фотографии анкеты.
// Ошибка подписи отдельного ключа не валит весь ответ - слот просто
// остается без ссылки.
func (s *userService) buildProfileResponse(ctx context.Context, user *models.User) *dto.ProfileResponse {
	user.EnsurePhotoSlots()

	resp := &dto.ProfileResponse{
		User:      user,
		PhotoURLs: make([]dto.PhotoURL, 0, models.PhotoSlotCount),
	}

	for i, key := range user.Photos {
		entry := dto.PhotoURL{Position: i, Key: key}
		if key != "" && s.store != nil {
			url, err := s.store.GetSignedURL(ctx, key, storage.SignedURLTTL)
			if err != nil {
				logger.CtxWarn(ctx, "Failed to sign photo URL", "key", key, "error", err.Error())
			} else {
				entry.URL = url
			}
		}
		resp.PhotoURLs = append(resp.PhotoURLs, entry)
	}

	if user.VerificationPhoto != "" && s.store != nil {
		url, err := s.store.GetSignedURL(ctx, user.VerificationPhoto, storage.SignedURLTTL)
		if err != nil {
			logger.CtxWarn(ctx, "Failed to sign verification photo URL", "key", user.VerificationPhoto, "error", err.Error())
		} else {
			resp.VerificationPhotoURL = url
		}
	}

	return resp
}
