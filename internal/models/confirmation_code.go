package models

import "time"

// ConfirmationCode - короткоживущий код подтверждения email.
// Хранится в отдельной таблице, а не в памяти процесса: так коды переживают
// рестарт и работают при нескольких инстансах. На email всегда не больше
// одного живого кода - повторная отправка перезаписывает строку.
type ConfirmationCode struct {
	Email     string    `gorm:"primaryKey"`
	Code      string    `gorm:"type:varchar(4);not null"`
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"default:now()"`
}
