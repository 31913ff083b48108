package repositories

import (
	"errors"
	"time"

	"buziak_backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	// ErrCodeNotFound возвращается, когда живого кода для email нет
	ErrCodeNotFound = errors.New("confirmation code not found")

	// ErrCodeMismatch возвращается при неверном коде; живой код при этом
	// остается на месте
	ErrCodeMismatch = errors.New("confirmation code mismatch")
)

// ConfirmationCodeRepository определяет интерфейс для операций с кодами подтверждения
type ConfirmationCodeRepository interface {
	// Upsert сохраняет код для email, перезаписывая предыдущий (последняя отправка выигрывает)
	Upsert(db *gorm.DB, code *models.ConfirmationCode) error

	// FindLive находит не истекший код для email
	FindLive(db *gorm.DB, email string) (*models.ConfirmationCode, error)

	// Delete удаляет код (однократное использование)
	Delete(db *gorm.DB, email string) error

	// Consume сверяет код и гасит его при совпадении. Проверка и удаление
	// идут в одной транзакции: успешная проверка не срабатывает дважды.
	Consume(db *gorm.DB, email, code string) error

	// DeleteExpired удаляет все истекшие коды, возвращает число удаленных строк
	DeleteExpired(db *gorm.DB) (int64, error)
}

type confirmationCodeRepository struct{}

// NewConfirmationCodeRepository создает новый экземпляр ConfirmationCodeRepository
func NewConfirmationCodeRepository() ConfirmationCodeRepository {
	return &confirmationCodeRepository{}
}

func (r *confirmationCodeRepository) Upsert(db *gorm.DB, code *models.ConfirmationCode) error {
	// INSERT ... ON CONFLICT (email) DO UPDATE: выдача атомарна относительно
	// параллельной проверки, старый код перестает существовать в тот же момент
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"code", "expires_at", "created_at"}),
	}).Create(code).Error
}

func (r *confirmationCodeRepository) FindLive(db *gorm.DB, email string) (*models.ConfirmationCode, error) {
	var code models.ConfirmationCode
	err := db.Where("email = ? AND expires_at > ?", email, time.Now()).
		First(&code).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCodeNotFound
		}
		return nil, err
	}
	return &code, nil
}

func (r *confirmationCodeRepository) Delete(db *gorm.DB, email string) error {
	return db.Delete(&models.ConfirmationCode{}, "email = ?", email).Error
}

func (r *confirmationCodeRepository) Consume(db *gorm.DB, email, code string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		record, err := r.FindLive(tx, email)
		if err != nil {
			return err
		}

		if record.Code != code {
			return ErrCodeMismatch
		}

		return r.Delete(tx, email)
	})
}

func (r *confirmationCodeRepository) DeleteExpired(db *gorm.DB) (int64, error) {
	result := db.Delete(&models.ConfirmationCode{}, "expires_at <= ?", time.Now())
	return result.RowsAffected, result.Error
}
