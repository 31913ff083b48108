package email

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// SMTPProvider реализует Provider поверх SMTP (gomail)
type SMTPProvider struct {
	config    *SMTPConfig
	dialer    *gomail.Dialer
	templates *TemplateManager

	// CodeTTLMinutes/ResetTTLMinutes попадают в текст писем
	CodeTTLMinutes  int
	ResetTTLMinutes int
}

// NewSMTPProvider создает новый SMTP провайдер
func NewSMTPProvider(config *SMTPConfig) (*SMTPProvider, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid email config: %w", err)
	}

	dialer := gomail.NewDialer(config.Host, config.Port, config.Username, config.Password)

	return &SMTPProvider{
		config:          config,
		dialer:          dialer,
		templates:       NewTemplateManager(),
		CodeTTLMinutes:  10,
		ResetTTLMinutes: 60,
	}, nil
}

// Send отправляет email сообщение
func (p *SMTPProvider) Send(email *Email) error {
	m := gomail.NewMessage()

	from := email.From
	if from == "" {
		from = p.config.FromEmail
	}
	if p.config.FromName != "" {
		m.SetAddressHeader("From", from, p.config.FromName)
	} else {
		m.SetHeader("From", from)
	}
	m.SetHeader("To", email.To...)
	m.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		m.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			m.AddAlternative("text/plain", email.Body)
		}
	} else {
		m.SetBody("text/plain", email.Body)
	}

	if err := p.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendTemplate отправляет email по шаблону
func (p *SMTPProvider) SendTemplate(to []string, subject string, templateName string, data TemplateData) error {
	htmlBody, err := p.templates.Render(templateName, data)
	if err != nil {
		return fmt.Errorf("failed to render template: %w", err)
	}

	return p.Send(&Email{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})
}

// SendConfirmationCode отправляет код подтверждения email
func (p *SMTPProvider) SendConfirmationCode(to string, code string) error {
	return p.SendTemplate([]string{to}, SubjectConfirmationCode, TemplateConfirmationCode, TemplateData{
		"Code":       code,
		"TTLMinutes": p.CodeTTLMinutes,
	})
}

// SendPasswordResetLink отправляет ссылку для сброса пароля
func (p *SMTPProvider) SendPasswordResetLink(to string, resetLink string) error {
	return p.SendTemplate([]string{to}, SubjectPasswordReset, TemplatePasswordReset, TemplateData{
		"ResetLink":  resetLink,
		"TTLMinutes": p.ResetTTLMinutes,
	})
}
