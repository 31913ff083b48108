package app

import "buziak_backend/internal/email"

// MockEmailProvider используется для тестов и локальной разработки.
type MockEmailProvider struct{}

func (m *MockEmailProvider) Send(msg *email.Email) error { return nil }
func (m *MockEmailProvider) SendTemplate(to []string, subject string, templateName string, data email.TemplateData) error {
	return nil
}
func (m *MockEmailProvider) SendConfirmationCode(to string, code string) error     { return nil }
func (m *MockEmailProvider) SendPasswordResetLink(to string, resetLink string) error { return nil }
