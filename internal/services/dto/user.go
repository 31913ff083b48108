package dto

import (
	"time"

	"buziak_backend/internal/models"
)

// UpdateProfileRequest - частичное обновление анкеты.
// Указатели отличают "поле не прислали" от "прислали пустое значение".
type UpdateProfileRequest struct {
	Name              *string    `json:"name,omitempty"`
	AboutMe           *string    `json:"aboutMe,omitempty"`
	BirthDay          *time.Time `json:"birthDay,omitempty"`
	Age               *int       `json:"age,omitempty"`
	Purpose           *string    `json:"purpose,omitempty"`
	LookingFor        *string    `json:"lookingFor,omitempty" binding:"omitempty,oneof=GIRL MAN"`
	WhoSeesMyProfile  *string    `json:"whoSeesMyProfile,omitempty" binding:"omitempty,oneof=GIRL MAN ALL"`
	Language          *string    `json:"language,omitempty" binding:"omitempty,oneof=EN PL"`
	ShowOnlyWithPhoto *bool      `json:"showOnlyWithPhoto,omitempty"`
}

// UpdateLocationRequest - обновление геолокации
type UpdateLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"required"`
	Longitude float64 `json:"longitude" binding:"required"`
}

// PhotoURL - фотография анкеты с подписанной ссылкой
type PhotoURL struct {
	Position int    `json:"position"`
	URL      string `json:"url"`
	Key      string `json:"key"`
}

// ProfileResponse - анкета пользователя с подписанными ссылками на фото
type ProfileResponse struct {
	*models.User
	PhotoURLs            []PhotoURL `json:"photoUrls"`
	VerificationPhotoURL string     `json:"verificationPhotoUrl,omitempty"`
}
