package email

// Provider определяет интерфейс для отправки email
type Provider interface {
	// Send отправляет простое email сообщение
	Send(email *Email) error

	// SendTemplate отправляет email по шаблону
	SendTemplate(to []string, subject string, templateName string, data TemplateData) error

	// SendConfirmationCode отправляет код подтверждения email
	SendConfirmationCode(to string, code string) error

	// SendPasswordResetLink отправляет ссылку для сброса пароля
	SendPasswordResetLink(to string, resetLink string) error
}
