package repositories

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestTranslateDuplicateKey(t *testing.T) {
	emailErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
	assert.ErrorIs(t, translateDuplicateKey(emailErr), ErrDuplicateEmail)

	phoneErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_phone"}
	assert.ErrorIs(t, translateDuplicateKey(phoneErr), ErrDuplicatePhone)

	// Обернутая ошибка тоже распознается
	wrapped := fmt.Errorf("create user: %w", phoneErr)
	assert.ErrorIs(t, translateDuplicateKey(wrapped), ErrDuplicatePhone)

	// Другие коды postgres проходят без изменений
	otherErr := &pgconn.PgError{Code: "23503", ConstraintName: "fk_users"}
	assert.Equal(t, otherErr, translateDuplicateKey(otherErr))

	plainErr := errors.New("connection refused")
	assert.Equal(t, plainErr, translateDuplicateKey(plainErr))
}
