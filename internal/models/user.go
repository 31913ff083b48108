package models

import (
	"time"

	"gorm.io/datatypes"
)

// PhotoSlotCount - фиксированное количество слотов фотографий в анкете
const PhotoSlotCount = 9

type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

type User struct {
	BaseModel
	Name         string  `gorm:"not null" json:"name"`
	Email        string  `gorm:"uniqueIndex:uni_users_email;not null" json:"email"`
	Phone        *string `gorm:"uniqueIndex:uni_users_phone" json:"phone"`
	PasswordHash string  `gorm:"not null" json:"-"`
	Gender       Gender  `gorm:"type:varchar(10)" json:"gender"`
	BirthDay     *time.Time `json:"birthDay"`
	Age          int        `json:"age"`

	IsAdmin   bool `gorm:"default:false" json:"isAdmin"`
	IsBlocked bool `gorm:"default:false" json:"isBlocked"`
	Verified  bool `gorm:"default:false" json:"verified"`

	// Геолокация
	Country   string   `json:"country"`
	City      string   `json:"city"`
	Latitude  *float64 `json:"latitude"`
	Longitude *float64 `json:"longitude"`

	// Анкета
	AboutMe           string                      `json:"aboutMe"`
	Photos            datatypes.JSONSlice[string] `json:"photos"` // 9 слотов, "" = свободный
	VerificationPhoto string                      `json:"-"`
	WhoSeesMyProfile  string                      `gorm:"type:varchar(10)" json:"whoSeesMyProfile"`
	Language          string                      `gorm:"type:varchar(5)" json:"language"`
	LookingFor        string                      `gorm:"type:varchar(10)" json:"lookingFor"`
	Purpose           string                      `json:"purpose"`
	ShowOnlyWithPhoto bool                        `gorm:"default:false" json:"showOnlyWithPhoto"`

	// Сброс пароля: токен и срок хранятся прямо на пользователе,
	// новый запрос сброса перезаписывает предыдущий
	ResetToken    string     `json:"-"`
	ResetTokenExp *time.Time `json:"-"`

	Balance float64 `gorm:"default:0" json:"balance"`
}

// EnsurePhotoSlots приводит массив фотографий к ровно 9 слотам
func (u *User) EnsurePhotoSlots() {
	if len(u.Photos) == PhotoSlotCount {
		return
	}
	slots := make([]string, PhotoSlotCount)
	copy(slots, u.Photos)
	u.Photos = slots
}
