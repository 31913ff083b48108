package repositories

import (
	"errors"
	"strings"
	"time"

	"buziak_backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound возвращается, когда пользователь не найден в БД
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateEmail возвращается при нарушении уникального индекса email
	ErrDuplicateEmail = errors.New("email already taken")
	// ErrDuplicatePhone возвращается при нарушении уникального индекса телефона
	ErrDuplicatePhone = errors.New("phone already taken")
)

// UserRepository определяет интерфейс для операций с пользователями
type UserRepository interface {
	Create(db *gorm.DB, user *models.User) error
	FindByID(db *gorm.DB, id string) (*models.User, error)
	FindByEmail(db *gorm.DB, email string) (*models.User, error)
	FindByPhone(db *gorm.DB, phone string) (*models.User, error)

	// FindByResetToken находит пользователя с живым (не истекшим) токеном сброса
	FindByResetToken(db *gorm.DB, token string) (*models.User, error)

	Update(db *gorm.DB, user *models.User) error
	UpdateFields(db *gorm.DB, userID string, fields map[string]interface{}) error

	// Admin operations
	FindAll(db *gorm.DB) ([]models.User, error)
	FindForVerification(db *gorm.DB) ([]models.User, error)
}

type userRepository struct {
	// db не хранится здесь: пул или транзакция передаются в каждый вызов
}

// NewUserRepository создает новый экземпляр UserRepository
func NewUserRepository() UserRepository {
	return &userRepository{}
}

// Create создает пользователя. Уникальность email/телефона обеспечивается
// индексами БД - нарушение транслируется в ErrDuplicateEmail/ErrDuplicatePhone,
// и этот результат авторитетен даже если предварительная проверка прошла.
func (r *userRepository) Create(db *gorm.DB, user *models.User) error {
	user.Email = strings.ToLower(user.Email)
	user.EnsurePhotoSlots()
	if err := db.Create(user).Error; err != nil {
		return translateDuplicateKey(err)
	}
	return nil
}

func (r *userRepository) FindByID(db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(db *gorm.DB, email string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "email = ?", strings.ToLower(email)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByPhone(db *gorm.DB, phone string) (*models.User, error) {
	var user models.User
	if err := db.First(&user, "phone = ?", phone).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByResetToken(db *gorm.DB, token string) (*models.User, error) {
	var user models.User
	err := db.Where("reset_token = ? AND reset_token_exp > ?", token, time.Now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(db *gorm.DB, user *models.User) error {
	if err := db.Save(user).Error; err != nil {
		return translateDuplicateKey(err)
	}
	return nil
}

// UpdateFields обновляет только перечисленные поля (включая зануление)
func (r *userRepository) UpdateFields(db *gorm.DB, userID string, fields map[string]interface{}) error {
	result := db.Model(&models.User{}).Where("id = ?", userID).Updates(fields)
	if result.Error != nil {
		return translateDuplicateKey(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) FindAll(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// FindForVerification возвращает пользователей с загруженным верификационным
// фото, ожидающих решения администратора
func (r *userRepository) FindForVerification(db *gorm.DB) ([]models.User, error) {
	var users []models.User
	err := db.Where("verification_photo <> '' AND verified = false").
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	return users, nil
}

// translateDuplicateKey распознает нарушение уникального индекса postgres
// (SQLSTATE 23505) и по имени constraint определяет конфликтующее поле
func translateDuplicateKey(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "phone"):
			return ErrDuplicatePhone
		default:
			return ErrDuplicateEmail
		}
	}
	return err
}
