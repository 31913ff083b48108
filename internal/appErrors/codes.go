package appErrors

// Коды ошибок сгруппированные по доменам
const (
	// Аутентификация и авторизация
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Пользователи
	CodeUserNotFound     ErrorCode = "USER_NOT_FOUND"
	CodeEmailTaken       ErrorCode = "EMAIL_TAKEN"
	CodePhoneTaken       ErrorCode = "PHONE_TAKEN"
	CodeUserBlocked      ErrorCode = "USER_BLOCKED"
	CodeWeakPassword     ErrorCode = "WEAK_PASSWORD"
	CodeCannotBlockAdmin ErrorCode = "CANNOT_BLOCK_ADMIN"

	// Подтверждение email
	CodeEmailRequired      ErrorCode = "EMAIL_REQUIRED"
	CodeNoCodeFound        ErrorCode = "NO_CODE_FOUND"
	CodeCodeMismatch       ErrorCode = "CODE_MISMATCH"
	CodeMailDispatchFailed ErrorCode = "MAIL_DISPATCH_FAILED"

	// Сброс пароля
	CodeResetTokenInvalid ErrorCode = "RESET_TOKEN_INVALID"

	// Фото
	CodeFileRequired     ErrorCode = "FILE_REQUIRED"
	CodeInvalidFileType  ErrorCode = "INVALID_FILE_TYPE"
	CodeFileTooLarge     ErrorCode = "FILE_TOO_LARGE"
	CodeInvalidPhotoSlot ErrorCode = "INVALID_PHOTO_SLOT"
	CodePhotoNotFound    ErrorCode = "PHOTO_NOT_FOUND"

	// Валидация
	CodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	CodeInvalidCoordinates ErrorCode = "INVALID_COORDINATES"

	// Системные ошибки
	CodeInternalError        ErrorCode = "INTERNAL_ERROR"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
)
